package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	apperrors "github.com/agbru/quickfib/internal/errors"
	"github.com/agbru/quickfib/internal/format"
	"github.com/agbru/quickfib/internal/metrics"
	"github.com/agbru/quickfib/internal/orchestration"
	"github.com/agbru/quickfib/internal/progress"
	"github.com/agbru/quickfib/internal/sysmon"
	"github.com/agbru/quickfib/internal/ui"
)

// CLIProgressReporter renders progress with a spinner and a progress bar.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer) {
	DisplayProgress(wg, progressChan, numCalculators, out)
}

// CLIResultPresenter renders colorized results on a terminal.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter   = CLIResultPresenter{}
	_ orchestration.DurationFormatter = CLIResultPresenter{}
	_ orchestration.ErrorHandler      = CLIResultPresenter{}
)

// PresentComparisonTable prints one row per backend with its duration and
// status. Padding is computed on the visible text so that ANSI codes do not
// break the alignment.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.CalculationResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	nameWidth, durWidth := len("Backend"), len("Duration")
	for _, res := range results {
		nameWidth = max(nameWidth, len(res.Name))
		durWidth = max(durWidth, len(displayDuration(res.Duration)))
	}

	fmt.Fprintf(out, "%sBackend%s%s   %sDuration%s%s   %sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", nameWidth-len("Backend")),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", durWidth-len("Duration")),
		ui.ColorUnderline(), ui.ColorReset())

	for _, res := range results {
		duration := displayDuration(res.Duration)
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(), padRight("", nameWidth-len(res.Name)),
			ui.ColorYellow(), duration, ui.ColorReset(), padRight("", durWidth-len(duration)),
			statusText(res))
	}
}

func statusText(res orchestration.CalculationResult) string {
	switch {
	case res.Err != nil:
		return fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
	case res.Overflowed:
		return fmt.Sprintf("%s⚠ Wrapped (exact modulo the type width)%s", ui.ColorYellow(), ui.ColorReset())
	default:
		return fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
	}
}

func displayDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + strings.Repeat(" ", length)
}

// PresentResult prints the final value. A wrapped value is preceded by a
// warning so that it is never mistaken for the true Fibonacci number.
func (CLIResultPresenter) PresentResult(result orchestration.CalculationResult, n uint64, verbose, details, showValue bool, out io.Writer) {
	if result.Overflowed {
		DisplayOverflowWarning(result.Name, n, out)
	}
	DisplayResult(result.Result, n, result.Duration, verbose, details, showValue, out)
}

func (CLIResultPresenter) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleCalculationError(err, duration, out, CLIColorProvider{})
}

// DisplayOverflowWarning tells the user that F(n) exceeds the backend's
// width and the printed value is the true value modulo 2^bits.
func DisplayOverflowWarning(backend string, n uint64, out io.Writer) {
	fmt.Fprintf(out, "%sWarning: F(%d) does not fit the %s backend; the value below wrapped around.%s\n",
		ui.ColorYellow(), n, backend, ui.ColorReset())
}

// DisplayMemoryUsage prints the allocation statistics of a calculation.
func DisplayMemoryUsage(u metrics.Usage, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap after:      %s\n", format.FormatBytes(u.HeapAfter))
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(u.Allocated))
	fmt.Fprintf(out, "  Allocations:     %s\n", format.FormatNumberString(fmt.Sprint(u.Objects)))
	fmt.Fprintf(out, "  GC cycles:       %d\n", u.GCCycles)
	fmt.Fprintf(out, "  GC pause total:  %s\n", format.FormatExecutionDuration(u.GCPause))
}

// DisplayHostInfo prints the hardware the calculation ran on.
func DisplayHostInfo(h sysmon.HostInfo, out io.Writer) {
	fmt.Fprintf(out, "\nHost:\n")
	if h.CPUModel != "" {
		fmt.Fprintf(out, "  CPU:             %s\n", h.CPUModel)
	}
	fmt.Fprintf(out, "  Logical cores:   %d (%s)\n", h.LogicalCores, h.Arch)
	if h.TotalMemory > 0 {
		fmt.Fprintf(out, "  Memory:          %s\n", format.FormatBytes(h.TotalMemory))
	}
	if len(h.Features) > 0 {
		fmt.Fprintf(out, "  CPU features:    %s\n", strings.Join(h.Features, " "))
	}
}
