package orchestration

import (
	"io"
	"math/big"
	"sync"
	"time"

	"github.com/agbru/quickfib/internal/progress"
)

// CalculationResult is what one backend produced for F(n).
type CalculationResult struct {
	Name   string
	Result *big.Int // nil when Err is set
	// Overflowed marks a value that is only correct modulo the backend width.
	Overflowed bool
	Duration   time.Duration
	Err        error
}

// RangeEntry holds F(N) for one index of a range run.
type RangeEntry struct {
	N          uint64
	Value      *big.Int
	Overflowed bool
}

// PresentationOptions selects what PresentResult prints.
type PresentationOptions struct {
	N         uint64
	Verbose   bool
	Details   bool
	ShowValue bool
}

// ProgressReporter consumes the progress channel of a run. DisplayProgress
// runs in its own goroutine, returns once the channel is closed and calls
// wg.Done on exit.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer)
}

// ProgressReporterFunc adapts a plain function to ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer)

func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer) {
	f(wg, progressChan, numCalculators, out)
}

// NullProgressReporter swallows progress. Quiet and JSON output use it.
type NullProgressReporter struct{}

func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	Drain(progressChan)
}

// ResultPresenter prints the comparison table and the chosen result.
type ResultPresenter interface {
	PresentComparisonTable(results []CalculationResult, out io.Writer)
	PresentResult(result CalculationResult, n uint64, verbose, details, showValue bool, out io.Writer)
}

// DurationFormatter renders a duration for humans.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler reports a failed run and maps it to an exit code.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
