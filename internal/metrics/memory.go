// Package metrics samples Go runtime memory statistics around a
// calculation, for the --details output and the /health endpoint.
package metrics

import (
	"runtime"
	"time"
)

// MemorySnapshot is a point-in-time reading of runtime.MemStats.
type MemorySnapshot struct {
	HeapAlloc    uint64 // live heap bytes
	HeapSys      uint64 // heap bytes obtained from the OS
	Sys          uint64 // total bytes obtained from the OS
	TotalAlloc   uint64 // cumulative bytes allocated
	Mallocs      uint64 // cumulative heap objects allocated
	NumGC        uint32
	PauseTotalNs uint64
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector returns a collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads the current statistics. It briefly stops the world.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		TotalAlloc:   m.TotalAlloc,
		Mallocs:      m.Mallocs,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
	}
}

// Usage is the allocation activity between two snapshots.
type Usage struct {
	Allocated uint64 // bytes allocated
	Objects   uint64 // heap objects allocated
	GCCycles  uint32
	GCPause   time.Duration
	HeapAfter uint64 // live heap at the second snapshot
}

// Since returns the activity from before to s.
func (s MemorySnapshot) Since(before MemorySnapshot) Usage {
	return Usage{
		Allocated: s.TotalAlloc - before.TotalAlloc,
		Objects:   s.Mallocs - before.Mallocs,
		GCCycles:  s.NumGC - before.NumGC,
		GCPause:   time.Duration(s.PauseTotalNs - before.PauseTotalNs),
		HeapAfter: s.HeapAlloc,
	}
}

// Measure runs fn and returns the memory activity it caused, together with
// anything else running at the same time.
func (mc *MemoryCollector) Measure(fn func()) Usage {
	before := mc.Snapshot()
	fn()
	return mc.Snapshot().Since(before)
}
