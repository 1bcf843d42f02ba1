// Package sysmon samples host CPU and memory usage with gopsutil and
// reports the CPU features relevant to big-integer arithmetic.
package sysmon

import (
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	xcpu "golang.org/x/sys/cpu"
)

// Stats is one snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
}

// Sample returns system-wide CPU and memory usage. CPU usage is the delta
// since the previous call. Fields are zero when unavailable.
func Sample() Stats {
	var s Stats
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = pcts[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		s.MemPercent = vm.UsedPercent
	}
	return s
}

// HostInfo describes the machine running the calculations.
type HostInfo struct {
	CPUModel     string
	LogicalCores int
	TotalMemory  uint64 // bytes
	Arch         string
	Features     []string
}

// Host collects static host information. Fields gopsutil cannot read are
// left empty.
func Host() HostInfo {
	info := HostInfo{
		LogicalCores: runtime.NumCPU(),
		Arch:         runtime.GOARCH,
		Features:     CPUFeatures(),
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		info.CPUModel = infos[0].ModelName
	}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		info.LogicalCores = n
	}
	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		info.TotalMemory = vm.Total
	}
	return info
}

// CPUFeatures lists the instruction set extensions used by the
// multi-precision routines of math/big on this CPU.
func CPUFeatures() []string {
	var out []string
	add := func(ok bool, name string) {
		if ok {
			out = append(out, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add(xcpu.X86.HasADX, "adx")
		add(xcpu.X86.HasAVX2, "avx2")
		add(xcpu.X86.HasAVX512F, "avx512f")
		add(xcpu.X86.HasBMI2, "bmi2")
	case "arm64":
		add(xcpu.ARM64.HasASIMD, "asimd")
		add(xcpu.ARM64.HasSVE, "sve")
	}
	return out
}
