package orchestration

import (
	"context"
	"errors"
	"io"
	"math/big"
	"runtime"
	"testing"
	"time"

	"github.com/agbru/quickfib/internal/calculator"
	"github.com/agbru/quickfib/internal/progress"
)

// stubMode selects how a stubCalculator behaves.
type stubMode int

const (
	stubInstant stubMode = iota
	stubSlow
	stubFail
	stubFlood
)

type stubCalculator struct {
	name  string
	mode  stubMode
	pause time.Duration
}

func (s *stubCalculator) Calculate(ctx context.Context, progressChan chan<- progress.ProgressUpdate, calcIndex int, _ uint64) (calculator.Result, error) {
	send := func(v float64) {
		select {
		case progressChan <- progress.ProgressUpdate{CalculatorIndex: calcIndex, Value: v}:
		default:
		}
	}
	switch s.mode {
	case stubSlow:
		for step := range 50 {
			if err := ctx.Err(); err != nil {
				return calculator.Result{}, err
			}
			send(float64(step) / 50)
			time.Sleep(s.pause)
		}
	case stubFail:
		return calculator.Result{}, errors.New("stub failure")
	case stubFlood:
		for step := range 20_000 {
			send(float64(step) / 20_000)
		}
	}
	return calculator.Result{Value: big.NewInt(1)}, nil
}

func (s *stubCalculator) CalculateRange(ctx context.Context, from, _ uint64) ([]calculator.Result, error) {
	r, err := s.Calculate(ctx, nil, 0, from)
	if err != nil {
		return nil, err
	}
	return []calculator.Result{r}, nil
}

func (s *stubCalculator) Name() string        { return s.name }
func (s *stubCalculator) Description() string { return "stub" }
func (s *stubCalculator) MaxIndex() uint64    { return calculator.Unbounded }

// finishes fails the test when ExecuteCalculations does not return in time.
func finishes(t *testing.T, ctx context.Context, calcs []calculator.Calculator, limit time.Duration) {
	t.Helper()
	done := make(chan []CalculationResult, 1)
	go func() {
		done <- ExecuteCalculations(ctx, calcs, 100, NullProgressReporter{}, io.Discard)
	}()
	select {
	case results := <-done:
		if len(results) != len(calcs) {
			t.Errorf("got %d results for %d calculators", len(results), len(calcs))
		}
	case <-time.After(limit):
		t.Fatal("ExecuteCalculations did not return")
	}
}

func TestExecuteCalculations_Terminates(t *testing.T) {
	cases := map[string][]calculator.Calculator{
		"single": {&stubCalculator{name: "a"}},
		"several instant": {
			&stubCalculator{name: "a"}, &stubCalculator{name: "b"}, &stubCalculator{name: "c"},
		},
		"instant and slow": {
			&stubCalculator{name: "a"}, &stubCalculator{name: "b", mode: stubSlow, pause: time.Millisecond},
		},
		"with failure": {
			&stubCalculator{name: "a"}, &stubCalculator{name: "b", mode: stubFail},
		},
		"progress flood": {
			&stubCalculator{name: "a", mode: stubFlood}, &stubCalculator{name: "b", mode: stubFlood},
		},
	}
	for name, calcs := range cases {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			finishes(t, ctx, calcs, 10*time.Second)
		})
	}
}

func TestExecuteCalculations_TerminatesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calcs := []calculator.Calculator{
		&stubCalculator{name: "a", mode: stubSlow, pause: 50 * time.Millisecond},
		&stubCalculator{name: "b", mode: stubSlow, pause: 50 * time.Millisecond},
	}
	time.AfterFunc(30*time.Millisecond, cancel)
	finishes(t, ctx, calcs, 5*time.Second)
}

// Backends that outlive a deadline must neither report on the closed progress
// channel nor keep computing.
func TestExecuteCalculations_CanceledArbitraryPrecision(t *testing.T) {
	baseline := runtime.NumGoroutine()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	calcs := []calculator.Calculator{
		calculator.NewDefaultFactory().MustGet("big"),
		calculator.NewDefaultFactory().MustGet("big-iterative"),
	}
	results := ExecuteCalculations(ctx, calcs, 30_000_000, NullProgressReporter{}, io.Discard)
	for _, r := range results {
		if !errors.Is(r.Err, context.DeadlineExceeded) {
			t.Errorf("%s: expected context.DeadlineExceeded, got %v", r.Name, r.Err)
		}
	}

	deadline := time.Now().Add(10 * time.Second)
	for runtime.NumGoroutine() > baseline {
		if time.Now().After(deadline) {
			t.Fatalf("workers still running: %d goroutines, started with %d", runtime.NumGoroutine(), baseline)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
