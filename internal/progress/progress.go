package progress

import (
	"math"
	"sync"

	"github.com/agbru/quickfib/internal/logging"
)

// ReportThreshold is the minimum progress change between two reports from
// ReportStepProgress.
const ReportThreshold = 0.01

// ProgressUpdate is one progress report of one calculator.
type ProgressUpdate struct {
	// CalculatorIndex identifies the calculator among those running together.
	CalculatorIndex int
	// Value is the completed fraction, from 0.0 to 1.0.
	Value float64
}

// ProgressCallback receives the completed fraction of a single calculation.
type ProgressCallback func(progress float64)

// ProgressObserver is notified of every progress report.
type ProgressObserver interface {
	Update(calculatorIndex int, progress float64)
}

// ProgressSubject dispatches progress reports to registered observers.
// It is safe for concurrent use.
type ProgressSubject struct {
	mu        sync.RWMutex
	observers []ProgressObserver
}

// NewProgressSubject returns a subject with no observers.
func NewProgressSubject() *ProgressSubject {
	return &ProgressSubject{}
}

// Register adds an observer. Nil observers are ignored.
func (s *ProgressSubject) Register(o ProgressObserver) {
	if o == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// ObserverCount returns the number of registered observers.
func (s *ProgressSubject) ObserverCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// Notify forwards a report to every observer.
func (s *ProgressSubject) Notify(calculatorIndex int, progress float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.observers {
		o.Update(calculatorIndex, progress)
	}
}

// AsCallback binds the subject to one calculator index.
func (s *ProgressSubject) AsCallback(calculatorIndex int) ProgressCallback {
	return func(progress float64) {
		s.Notify(calculatorIndex, progress)
	}
}

// ChannelObserver forwards reports to a channel. Reports are dropped when
// the channel is full so a slow display never stalls a calculation.
type ChannelObserver struct {
	ch chan<- ProgressUpdate
}

// NewChannelObserver returns an observer sending on ch.
func NewChannelObserver(ch chan<- ProgressUpdate) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

func (o *ChannelObserver) Update(calculatorIndex int, progress float64) {
	if o.ch == nil {
		return
	}
	update := ProgressUpdate{CalculatorIndex: calculatorIndex, Value: clamp(progress)}
	select {
	case o.ch <- update:
	default:
	}
}

// LoggingObserver writes a debug entry each time a calculator advances by
// at least threshold.
type LoggingObserver struct {
	logger    logging.Logger
	threshold float64

	mu   sync.Mutex
	last map[int]float64
}

// NewLoggingObserver returns an observer logging to logger. A non-positive
// threshold selects 0.1.
func NewLoggingObserver(logger logging.Logger, threshold float64) *LoggingObserver {
	if threshold <= 0 {
		threshold = 0.1
	}
	return &LoggingObserver{logger: logger, threshold: threshold, last: make(map[int]float64)}
}

func (o *LoggingObserver) Update(calculatorIndex int, progress float64) {
	o.mu.Lock()
	prev, seen := o.last[calculatorIndex]
	report := !seen || progress-prev >= o.threshold || (progress >= 1 && prev < 1)
	if report {
		o.last[calculatorIndex] = progress
	}
	o.mu.Unlock()

	if report {
		o.logger.Debug("calculation progress",
			logging.Int("calculator", calculatorIndex),
			logging.Float64("progress", progress))
	}
}

// CalcTotalWork returns the total work of a bit-by-bit doubling over
// numBits bits, where step j costs 4^j: (4^numBits - 1) / 3.
func CalcTotalWork(numBits int) float64 {
	if numBits <= 0 {
		return 0
	}
	return (math.Pow(4, float64(numBits)) - 1) / 3
}

var powersOf4 = func() (p [64]float64) {
	p[0] = 1
	for i := 1; i < len(p); i++ {
		p[i] = p[i-1] * 4
	}
	return p
}()

// PrecomputePowers4 returns 4^0 .. 4^(numBits-1). The result aliases a
// shared table for numBits <= 64 and must not be modified.
func PrecomputePowers4(numBits int) []float64 {
	if numBits <= 0 {
		return nil
	}
	if numBits <= len(powersOf4) {
		return powersOf4[:numBits]
	}
	powers := make([]float64, numBits)
	copy(powers, powersOf4[:])
	for i := len(powersOf4); i < numBits; i++ {
		powers[i] = powers[i-1] * 4
	}
	return powers
}

// ReportStepProgress accounts for the step processing bit i (counting down
// from numBits-1) and calls report when progress moved by ReportThreshold
// or at the first and last step. It returns the updated work done.
func ReportStepProgress(report ProgressCallback, lastReported *float64, totalWork, workDone float64, i, numBits int, powers []float64) float64 {
	done := workDone + powers[numBits-1-i]
	if totalWork > 0 && report != nil {
		p := done / totalWork
		if p-*lastReported >= ReportThreshold || i == 0 || i == numBits-1 {
			report(clamp(p))
			*lastReported = p
		}
	}
	return done
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
