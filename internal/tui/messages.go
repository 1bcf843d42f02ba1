package tui

import (
	"time"

	"github.com/agbru/quickfib/internal/orchestration"
)

// Run-scoped messages carry the generation of the run that produced them;
// the model drops those from a canceled run.

// ProgressMsg carries one aggregated progress update.
type ProgressMsg struct {
	CalculatorIndex int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
	Generation      uint64
}

// ProgressDoneMsg signals that the progress channel was closed.
type ProgressDoneMsg struct {
	Generation uint64
}

// ComparisonResultsMsg carries every backend's result.
type ComparisonResultsMsg struct {
	Results    []orchestration.CalculationResult
	Generation uint64
}

// FinalResultMsg carries the result chosen for display.
type FinalResultMsg struct {
	Result     orchestration.CalculationResult
	N          uint64
	Verbose    bool
	Details    bool
	ShowValue  bool
	Generation uint64
}

// ErrorMsg reports that every backend failed.
type ErrorMsg struct {
	Err        error
	Duration   time.Duration
	Generation uint64
}

// CalculationCompleteMsg ends a run.
type CalculationCompleteMsg struct {
	ExitCode   int
	Generation uint64
}

// TickMsg drives periodic sampling.
type TickMsg time.Time

// MemStatsMsg is a runtime memory sample.
type MemStatsMsg struct {
	Alloc        uint64
	HeapSys      uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// SysStatsMsg is a system-wide CPU and memory sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}
