package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/quickfib/internal/calculator"
	apperrors "github.com/agbru/quickfib/internal/errors"
	"github.com/agbru/quickfib/internal/progress"
)

// ProgressBufferMultiplier sizes the progress channel per calculator so
// that a slow display rarely causes updates to be dropped.
const ProgressBufferMultiplier = 5

// RangeChunkSize is the number of indices evaluated between two context
// checks and progress updates in ExecuteRange.
const RangeChunkSize = 64

// ExecuteCalculations runs every calculator concurrently on index n and
// collects their results in input order. Progress updates are shown by
// progressReporter until all calculators have returned.
//
// Parameters:
//   - ctx: Cancellation and deadline for all calculations.
//   - calculators: The backends to run.
//   - n: The Fibonacci index.
//   - progressReporter: Progress display; NullProgressReporter in quiet mode.
//   - out: Destination of progress output.
//
// Returns:
//   - []CalculationResult: One result per calculator.
func ExecuteCalculations(ctx context.Context, calculators []calculator.Calculator, n uint64, progressReporter ProgressReporter, out io.Writer) []CalculationResult {
	var g errgroup.Group
	results := make([]CalculationResult, len(calculators))
	progressChan := make(chan progress.ProgressUpdate, len(calculators)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(calculators), out)

	for i, calc := range calculators {
		g.Go(func() error {
			start := time.Now()
			res, err := calc.Calculate(ctx, progressChan, i, n)
			results[i] = CalculationResult{
				Name:       calc.Name(),
				Result:     res.Value,
				Overflowed: res.Overflowed,
				Duration:   time.Since(start),
				Err:        err,
			}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// ExecuteRange evaluates F(from) .. F(to) with one calculator. Indices are
// processed in chunks of RangeChunkSize; the context is checked and progress
// reported after each chunk. Extra observers receive the same reports as
// the progress reporter.
func ExecuteRange(ctx context.Context, calc calculator.Calculator, from, to uint64, progressReporter ProgressReporter, out io.Writer, observers ...progress.ProgressObserver) ([]RangeEntry, error) {
	if from > to {
		return []RangeEntry{}, nil
	}
	progressChan := make(chan progress.ProgressUpdate, ProgressBufferMultiplier)
	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, 1, out)
	defer func() {
		close(progressChan)
		displayWg.Wait()
	}()
	subject := progress.NewProgressSubject()
	subject.Register(progress.NewChannelObserver(progressChan))
	for _, o := range observers {
		subject.Register(o)
	}
	report := subject.AsCallback(0)

	total := float64(to-from) + 1
	entries := make([]RangeEntry, 0, min(to-from+1, 1<<16))
	for lo := from; ; lo += RangeChunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hi := to
		if to-lo >= RangeChunkSize {
			hi = lo + RangeChunkSize - 1
		}
		chunk, err := calc.CalculateRange(ctx, lo, hi)
		if err != nil {
			return nil, err
		}
		for i, r := range chunk {
			entries = append(entries, RangeEntry{N: lo + uint64(i), Value: r.Value, Overflowed: r.Overflowed})
		}
		report(float64(hi-from+1) / total)
		if hi == to {
			return entries, nil
		}
	}
}

// SelectResult returns the result to present for a comparison run: the
// fastest exact one, or the fastest wrapped one when nothing is exact. It
// returns nil when every calculation failed. results is not reordered.
func SelectResult(results []CalculationResult) *CalculationResult {
	var exact, wrapped *CalculationResult
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			continue
		}
		slot := &exact
		if r.Overflowed {
			slot = &wrapped
		}
		if *slot == nil || r.Duration < (*slot).Duration {
			*slot = r
		}
	}
	if exact != nil {
		return exact
	}
	return wrapped
}

// AnalyzeComparisonResults sorts results by outcome and duration, checks
// that every exact result agrees, prints the comparison table and the
// global status, and presents the fastest exact result.
//
// Wrapped (overflowed) results are shown but excluded from the consistency
// check, since their values legitimately differ between widths.
//
// Returns:
//   - int: ExitSuccess, ExitErrorMismatch, or the exit code of the first
//     error when every calculation failed.
func AnalyzeComparisonResults(results []CalculationResult, opts PresentationOptions, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	best := SelectResult(results)
	presenter.PresentComparisonTable(results, out)

	if best == nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No backend could complete the calculation.\n")
		var firstError error
		if len(results) > 0 {
			firstError = results[0].Err
		}
		return errHandler.HandleError(firstError, 0, out)
	}

	if best.Overflowed {
		fmt.Fprintf(out, "\nGlobal Status: Success. Every result wrapped; F(%d) does not fit the selected backends.\n", opts.N)
	} else {
		for _, r := range results {
			if r.Err == nil && !r.Overflowed && r.Result.Cmp(best.Result) != 0 {
				fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %s and %s disagree on F(%d).\n", best.Name, r.Name, opts.N)
				return apperrors.ExitErrorMismatch
			}
		}
		fmt.Fprintf(out, "\nGlobal Status: Success. All exact results are consistent.\n")
	}

	presenter.PresentResult(*best, opts.N, opts.Verbose, opts.Details, opts.ShowValue, out)
	return apperrors.ExitSuccess
}
