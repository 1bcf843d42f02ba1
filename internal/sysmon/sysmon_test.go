package sysmon

import (
	"runtime"
	"slices"
	"testing"
)

func TestSample_ReturnsValidRanges(t *testing.T) {
	s := Sample()
	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		t.Errorf("CPUPercent out of range: %f", s.CPUPercent)
	}
	if s.MemPercent < 0 || s.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", s.MemPercent)
	}
}

func TestHost(t *testing.T) {
	h := Host()
	if h.LogicalCores < 1 {
		t.Errorf("LogicalCores = %d", h.LogicalCores)
	}
	if h.Arch != runtime.GOARCH {
		t.Errorf("Arch = %q, want %q", h.Arch, runtime.GOARCH)
	}
	if h.TotalMemory == 0 {
		t.Error("expected non-zero TotalMemory on a running system")
	}
}

func TestCPUFeatures_Sorted(t *testing.T) {
	t.Parallel()
	f := CPUFeatures()
	if !slices.IsSorted(f) {
		t.Errorf("features not sorted: %v", f)
	}
}
