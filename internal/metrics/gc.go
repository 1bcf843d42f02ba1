package metrics

import (
	"math"
	"runtime"
	"runtime/debug"

	"github.com/agbru/quickfib/internal/logging"
)

// GCMode selects how the collector behaves during a calculation.
type GCMode string

const (
	GCModeAuto       GCMode = "auto"
	GCModeAggressive GCMode = "aggressive"
	GCModeDisabled   GCMode = "disabled"
)

// GCAutoThreshold is the smallest index for which auto mode suspends the
// collector. Below it the operands are too small for GC to matter.
const GCAutoThreshold uint64 = 1_000_000

// memoryLimitFactor bounds the heap while the collector is off, as a
// multiple of the memory obtained from the OS at Begin.
const memoryLimitFactor = 3

// GCController suspends the garbage collector around a big-integer
// calculation and restores it afterwards. A soft memory limit stays in place
// so the runtime still collects before running out of memory.
type GCController struct {
	mode        GCMode
	active      bool
	prevPercent int
	logger      logging.Logger
	collector   *MemoryCollector
	start, end  MemorySnapshot
}

// NewGCController returns a controller for computing F(n) in the given mode.
// An unknown mode behaves like GCModeDisabled. logger may be nil.
func NewGCController(mode string, n uint64, logger logging.Logger) *GCController {
	gc := &GCController{mode: GCMode(mode), logger: logger, collector: NewMemoryCollector()}
	switch gc.mode {
	case GCModeAggressive:
		gc.active = true
	case GCModeAuto:
		gc.active = n >= GCAutoThreshold
	}
	return gc
}

// Active reports whether Begin will suspend the collector.
func (gc *GCController) Active() bool { return gc.active }

// Begin suspends the collector if the controller is active.
func (gc *GCController) Begin() {
	if !gc.active {
		return
	}
	gc.start = gc.collector.Snapshot()
	gc.prevPercent = debug.SetGCPercent(-1)
	if limit := int64(gc.start.Sys) * memoryLimitFactor; limit > 0 {
		debug.SetMemoryLimit(limit)
	}
	if gc.logger != nil {
		gc.logger.Debug("gc suspended",
			logging.String("mode", string(gc.mode)),
			logging.Uint64("heap_alloc_bytes", gc.start.HeapAlloc))
	}
}

// End restores the collector settings saved by Begin and runs a collection.
func (gc *GCController) End() {
	if !gc.active {
		return
	}
	gc.end = gc.collector.Snapshot()
	debug.SetGCPercent(gc.prevPercent)
	debug.SetMemoryLimit(math.MaxInt64)
	runtime.GC()
	if gc.logger != nil {
		u := gc.Stats()
		gc.logger.Debug("gc restored",
			logging.String("mode", string(gc.mode)),
			logging.Uint64("allocated_bytes", u.Allocated),
			logging.Int("gc_cycles", int(u.GCCycles)))
	}
}

// Stats returns the memory activity between Begin and End. It is zero when
// the controller was inactive.
func (gc *GCController) Stats() Usage {
	if !gc.active {
		return Usage{}
	}
	return gc.end.Since(gc.start)
}
