package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/quickfib/internal/errors"
	"github.com/agbru/quickfib/internal/format"
	"github.com/agbru/quickfib/internal/orchestration"
	"github.com/agbru/quickfib/internal/progress"
)

// programRef forwards messages to the running program. The model is copied
// on every Update, so bridge goroutines share this pointer instead.
type programRef struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

// SetProgram routes later Sends to p.
func (r *programRef) SetProgram(p *tea.Program) { r.attach(p.Send) }

func (r *programRef) attach(send func(tea.Msg)) {
	r.mu.Lock()
	r.send = send
	r.mu.Unlock()
}

// Send delivers msg, or drops it before a program is attached.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	send := r.send
	r.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}

// TUIProgressReporter turns progress updates into bubbletea messages.
type TUIProgressReporter struct {
	ref *programRef
	gen uint64
}

var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress forwards aggregated updates as ProgressMsg until the
// channel is closed, then sends ProgressDoneMsg.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, _ io.Writer) {
	defer wg.Done()

	agg := orchestration.NewAggregator(numCalculators)
	if agg == nil {
		orchestration.Drain(progressChan)
		return
	}

	for update := range progressChan {
		snap := agg.Observe(update)
		t.ref.Send(ProgressMsg{
			CalculatorIndex: snap.Index,
			Value:           snap.Value,
			AverageProgress: snap.Average,
			ETA:             snap.ETA,
			Generation:      t.gen,
		})
	}
	t.ref.Send(ProgressDoneMsg{Generation: t.gen})
}

// TUIResultPresenter sends results to the dashboard instead of a writer.
type TUIResultPresenter struct {
	ref *programRef
	gen uint64
}

var (
	_ orchestration.ResultPresenter   = (*TUIResultPresenter)(nil)
	_ orchestration.DurationFormatter = (*TUIResultPresenter)(nil)
	_ orchestration.ErrorHandler      = (*TUIResultPresenter)(nil)
)

func (t *TUIResultPresenter) PresentComparisonTable(results []orchestration.CalculationResult, _ io.Writer) {
	t.ref.Send(ComparisonResultsMsg{Results: results, Generation: t.gen})
}

func (t *TUIResultPresenter) PresentResult(result orchestration.CalculationResult, n uint64, verbose, details, showValue bool, _ io.Writer) {
	t.ref.Send(FinalResultMsg{
		Result:     result,
		N:          n,
		Verbose:    verbose,
		Details:    details,
		ShowValue:  showValue,
		Generation: t.gen,
	})
}

func (t *TUIResultPresenter) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// HandleError reports err to the dashboard and returns its exit code.
func (t *TUIResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	t.ref.Send(ErrorMsg{Err: err, Duration: duration, Generation: t.gen})
	return apperrors.HandleCalculationError(err, duration, io.Discard, nil)
}
