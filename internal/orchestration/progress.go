package orchestration

import (
	"time"

	"github.com/agbru/quickfib/internal/format"
	"github.com/agbru/quickfib/internal/progress"
)

// Aggregator folds the updates of several backends into one average and
// a smoothed ETA. Both progress front ends use it.
type Aggregator struct {
	eta   *format.ProgressWithETA
	count int
}

// Snapshot is the aggregate state after one update.
type Snapshot struct {
	Index   int
	Value   float64
	Average float64
	ETA     time.Duration
}

// NewAggregator tracks count backends. It returns nil when count is not
// positive; callers should then Drain the channel.
func NewAggregator(count int) *Aggregator {
	if count <= 0 {
		return nil
	}
	return &Aggregator{eta: format.NewProgressWithETA(count), count: count}
}

// Observe records u and returns the new aggregate.
func (a *Aggregator) Observe(u progress.ProgressUpdate) Snapshot {
	avg, eta := a.eta.UpdateWithETA(u.CalculatorIndex, u.Value)
	return Snapshot{Index: u.CalculatorIndex, Value: u.Value, Average: avg, ETA: eta}
}

func (a *Aggregator) Average() float64   { return a.eta.CalculateAverage() }
func (a *Aggregator) ETA() time.Duration { return a.eta.GetETA() }
func (a *Aggregator) Count() int         { return a.count }
func (a *Aggregator) Multi() bool        { return a.count > 1 }

// Drain discards updates until ch is closed so that senders never block.
func Drain(ch <-chan progress.ProgressUpdate) {
	for range ch {
	}
}
