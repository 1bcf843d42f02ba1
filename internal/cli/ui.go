//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"math/big"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/quickfib/internal/format"
	"github.com/agbru/quickfib/internal/orchestration"
	"github.com/agbru/quickfib/internal/progress"
	"github.com/agbru/quickfib/internal/ui"
)

const (
	// TruncationLimit is the digit count from which a value is truncated in
	// standard output unless --verbose is set.
	TruncationLimit = 100
	// DisplayEdges is the number of leading and trailing digits kept when a
	// value is truncated.
	DisplayEdges = 25
	// HexDisplayEdges is DisplayEdges for hexadecimal output.
	HexDisplayEdges = 40
	// ProgressRefreshRate is the spinner and progress bar refresh period.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width of the progress bar in characters.
	ProgressBarWidth = 40
)

// Spinner abstracts the terminal spinner so that DisplayProgress can be
// tested without a terminal.
type Spinner interface {
	// Start begins the animation.
	Start()
	// Stop halts the animation.
	Stop()
	// UpdateSuffix sets the text displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts *spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start()                     { rs.s.Start() }
func (rs *realSpinner) Stop()                      { rs.s.Stop() }
func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress shows a spinner with the average progress and ETA of
// numCalculators concurrent calculations until progressChan is closed.
// It calls wg.Done when it returns.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewAggregator(numCalculators)
	if agg == nil {
		orchestration.Drain(progressChan)
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	label := "Computing"
	if agg.Multi() {
		label = fmt.Sprintf("Computing with %d backends", agg.Count())
	}
	suffix := func(avg float64, eta time.Duration) string {
		return fmt.Sprintf(" %s %s", label, format.FormatProgressBarWithETA(avg, eta, ProgressBarWidth))
	}
	s.UpdateSuffix(suffix(0, 0))
	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.UpdateSuffix(suffix(1, 0))
				return
			}
			snap := agg.Observe(update)
			s.UpdateSuffix(suffix(snap.Average, snap.ETA))
		case <-ticker.C:
			s.UpdateSuffix(suffix(agg.Average(), agg.ETA()))
		}
	}
}

// DisplayResult prints a computed value and, on request, its metadata.
//
// Parameters:
//   - result: The computed F(n).
//   - n: The index.
//   - duration: The calculation time.
//   - verbose: Print the full value even when it is long.
//   - details: Print size and timing metadata.
//   - showValue: Print the value itself.
//   - out: Destination writer.
func DisplayResult(result *big.Int, n uint64, duration time.Duration, verbose, details, showValue bool, out io.Writer) {
	digits := result.String()
	if details {
		fmt.Fprintf(out, "\n%sDetailed result analysis:%s\n", ui.ColorBold(), ui.ColorReset())
		fmt.Fprintf(out, "  Calculation time:   %s%s%s\n", ui.ColorGreen(), format.FormatExecutionDuration(duration), ui.ColorReset())
		fmt.Fprintf(out, "  Result binary size: %s%s%s bits\n", ui.ColorCyan(), format.FormatNumberString(fmt.Sprint(result.BitLen())), ui.ColorReset())
		fmt.Fprintf(out, "  Number of digits:   %s%s%s\n", ui.ColorCyan(), format.FormatNumberString(fmt.Sprint(len(digits))), ui.ColorReset())
	}

	if !showValue {
		if !details {
			fmt.Fprintf(out, "\nF(%d) computed in %s (%d digits). Use -c to print the value.\n",
				n, format.FormatExecutionDuration(duration), len(digits))
		}
		return
	}

	fmt.Fprintf(out, "\n%sCalculated value:%s\n", ui.ColorBold(), ui.ColorReset())
	if verbose || len(digits) <= TruncationLimit {
		fmt.Fprintf(out, "F(%d) = %s%s%s\n", n, ui.ColorGreen(), format.FormatNumberString(digits), ui.ColorReset())
		return
	}
	fmt.Fprintf(out, "F(%d) = %s%s%s (truncated)\n", n, ui.ColorGreen(), format.TruncateDigits(digits, DisplayEdges), ui.ColorReset())
	fmt.Fprintf(out, "%sTip: use -v to print all %d digits, or -o to save them to a file.%s\n", ui.ColorGrey(), len(digits), ui.ColorReset())
}
