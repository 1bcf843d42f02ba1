package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/lo"

	"github.com/agbru/quickfib/fibonacci/bignum"
	"github.com/agbru/quickfib/internal/calculator"
	"github.com/agbru/quickfib/internal/cli"
	apperrors "github.com/agbru/quickfib/internal/errors"
	"github.com/agbru/quickfib/internal/logging"
	"github.com/agbru/quickfib/internal/metrics"
	"github.com/agbru/quickfib/internal/orchestration"
	"github.com/agbru/quickfib/internal/progress"
	"github.com/agbru/quickfib/internal/sysmon"
	"github.com/agbru/quickfib/internal/ui"
)

// rangeFallbackAlgo evaluates ranges when --algo is "all".
const rangeFallbackAlgo = "big"

// rangeLogStep is the progress increment between two debug entries of a
// range run.
const rangeLogStep = 0.25

// lifecycle applies the configured timeout and SIGINT/SIGTERM cancellation.
func (a *Application) lifecycle(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stopSignals()
		cancelTimeout()
	}
}

func (a *Application) outputConfig() cli.OutputConfig {
	return cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
		ShowValue:  a.Config.ShowValue,
		JSON:       a.Config.JSON,
	}
}

// reporter selects the progress display: none in quiet or JSON mode.
func (a *Application) reporter(out io.Writer) (orchestration.ProgressReporter, io.Writer) {
	if a.Config.Quiet || a.Config.JSON {
		return orchestration.NullProgressReporter{}, io.Discard
	}
	return cli.CLIProgressReporter{}, out
}

// runCalculate orchestrates the execution of the CLI calculation command.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	ctx, cancel := a.lifecycle(ctx)
	defer cancel()

	calculatorsToRun := orchestration.GetCalculatorsToRun(a.Config.Algo, a.Factory)
	machineOutput := a.Config.Quiet || a.Config.JSON
	if !machineOutput {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(calculatorsToRun, out)
	}

	progressReporter, progressOut := a.reporter(out)
	gc := metrics.NewGCController(a.Config.GCMode, a.Config.N, a.Logger)
	var results []orchestration.CalculationResult
	gc.Begin()
	usage := metrics.NewMemoryCollector().Measure(func() {
		results = orchestration.ExecuteCalculations(ctx, calculatorsToRun, a.Config.N, progressReporter, progressOut)
	})
	gc.End()
	a.Logger.Debug("calculation finished",
		logging.Uint64("n", a.Config.N),
		logging.Int("backends", len(results)),
		logging.Int("failed", lo.CountBy(results, func(r orchestration.CalculationResult) bool { return r.Err != nil })))

	if machineOutput {
		return a.emitMachineResult(results, out)
	}

	presOpts := orchestration.PresentationOptions{
		N:         a.Config.N,
		Verbose:   a.Config.Verbose,
		Details:   a.Config.Details,
		ShowValue: a.Config.ShowValue,
	}
	exitCode := orchestration.AnalyzeComparisonResults(results, presOpts, cli.CLIResultPresenter{}, cli.CLIResultPresenter{}, out)

	if best := orchestration.SelectResult(results); best != nil && exitCode == apperrors.ExitSuccess {
		if err := a.saveResultIfNeeded(best); err != nil {
			return apperrors.ExitErrorGeneric
		}
		if a.Config.OutputFile != "" {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), a.Config.OutputFile, ui.ColorReset())
		}
	}

	if a.Config.Details {
		fmt.Fprintln(out)
		cli.DisplayMemoryUsage(usage, out)
		cli.DisplayHostInfo(sysmon.Host(), out)
	}
	return exitCode
}

// emitMachineResult prints the best result in quiet or JSON form. Errors go to
// ErrWriter so that out stays parseable.
func (a *Application) emitMachineResult(results []orchestration.CalculationResult, out io.Writer) int {
	best := orchestration.SelectResult(results)
	if best == nil {
		if len(results) == 0 {
			return apperrors.ExitErrorGeneric
		}
		first := results[0]
		return apperrors.HandleCalculationError(first.Err, first.Duration, a.ErrWriter, cli.CLIColorProvider{})
	}
	if !exactResultsAgree(results) {
		fmt.Fprintln(a.ErrWriter, "Backends disagree on the exact value.")
		return apperrors.ExitErrorMismatch
	}
	if err := cli.DisplayResultWithConfig(out, *best, a.Config.N, a.outputConfig()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error writing result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runRange evaluates F(from)..F(to) with a single backend.
func (a *Application) runRange(ctx context.Context, out io.Writer) int {
	ctx, cancel := a.lifecycle(ctx)
	defer cancel()

	algo := a.Config.Algo
	if algo == "all" {
		algo = rangeFallbackAlgo
	}
	calc, err := a.Factory.Get(algo)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	if !a.Config.Quiet && !a.Config.JSON {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode([]calculator.Calculator{calc}, out)
	}

	progressReporter, progressOut := a.reporter(out)
	start := time.Now()
	entries, err := orchestration.ExecuteRange(ctx, calc, a.Config.From, a.Config.To, progressReporter, progressOut,
		progress.NewLoggingObserver(a.Logger, rangeLogStep))
	duration := time.Since(start)
	if err != nil {
		return apperrors.HandleCalculationError(err, duration, a.ErrWriter, cli.CLIColorProvider{})
	}

	if a.Config.JSON {
		if err := cli.WriteJSON(out, cli.NewJSONRange(calc.Name(), a.Config.From, a.Config.To, entries, duration)); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error writing result: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
	} else {
		cli.DisplayRange(out, entries, a.Config.Verbose, a.Config.Quiet)
	}

	if a.Config.OutputFile != "" {
		if err := cli.WriteRangeToFile(entries, calc.Name(), a.outputConfig()); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
	}
	return apperrors.ExitSuccess
}

// runLastDigits computes only the last K decimal digits of F(N) using modular
// arithmetic, requiring O(K) memory regardless of N.
func (a *Application) runLastDigits(ctx context.Context, out io.Writer) int {
	ctx, cancel := a.lifecycle(ctx)
	defer cancel()

	k := a.Config.LastDigits
	n := a.Config.N

	type outcome struct {
		digits string
		err    error
	}
	start := time.Now()
	done := make(chan outcome, 1)
	go func() {
		digits, err := bignum.LastDigits(n, k)
		done <- outcome{digits, err}
	}()

	select {
	case <-ctx.Done():
		return apperrors.HandleCalculationError(ctx.Err(), time.Since(start), a.ErrWriter, cli.CLIColorProvider{})
	case res := <-done:
		if res.err != nil {
			return apperrors.HandleCalculationError(res.err, time.Since(start), a.ErrWriter, cli.CLIColorProvider{})
		}
		cli.DisplayLastDigits(out, n, k, res.digits, time.Since(start), a.Config.Quiet || a.Config.JSON)
	}
	return apperrors.ExitSuccess
}

// exactResultsAgree compares every successful result that did not wrap.
func exactResultsAgree(results []orchestration.CalculationResult) bool {
	exact := lo.Filter(results, func(r orchestration.CalculationResult, _ int) bool {
		return r.Err == nil && !r.Overflowed
	})
	for _, r := range exact[min(1, len(exact)):] {
		if r.Result.Cmp(exact[0].Result) != 0 {
			return false
		}
	}
	return true
}

func (a *Application) saveResultIfNeeded(res *orchestration.CalculationResult) error {
	if a.Config.OutputFile == "" {
		return nil
	}
	if err := cli.WriteResultToFile(res.Result, a.Config.N, res.Duration, res.Name, a.outputConfig()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return err
	}
	return nil
}
