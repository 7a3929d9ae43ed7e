/*
PURPOSE:
  Captures a best-effort snapshot of the host a benchmark ran on.

REQUIREMENTS:
  User-specified:
  - OS, kernel, CPU model/arch/frequency, core counts, memory, hardware guess.

  Implementation-discovered:
  - Every query can fail independently (containers, restricted /proc, unsupported OS).
    A failed query leaves its fields nil; it never fails the run.

ARCHITECTURE INTEGRATION:
  - Implements: engine.Profiler
  - Dependencies: github.com/shirou/gopsutil/v4 (host, cpu, mem)

ERROR HANDLING:
  - Errors from platform queries become nil fields.

USAGE:
  e := engine.New(engine.WithProfiler(sysprofile.New()))

RELATED FILES:
  - internal/model/types.go
*/

package sysprofile

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/pibench/pibench/internal/model"
)

// Collector queries the platform for a SystemProfile. The query fields are
// replaceable so tests can run without touching the host.
type Collector struct {
	HostInfo      func() (*host.InfoStat, error)
	CPUInfo       func() ([]cpu.InfoStat, error)
	CPUCounts     func(logical bool) (int, error)
	VirtualMemory func() (*mem.VirtualMemoryStat, error)
	NumCPU        func() int
	GOARCH        string
}

// New returns a Collector backed by gopsutil.
func New() *Collector {
	return &Collector{
		HostInfo:      host.Info,
		CPUInfo:       cpu.Info,
		CPUCounts:     cpu.Counts,
		VirtualMemory: mem.VirtualMemory,
		NumCPU:        runtime.NumCPU,
		GOARCH:        runtime.GOARCH,
	}
}

// Profile collects the snapshot.
func (c *Collector) Profile() model.SystemProfile {
	var p model.SystemProfile

	var hi *host.InfoStat
	if info, err := c.HostInfo(); err == nil && info != nil {
		hi = info
		p.OSName = nonEmpty(osName(info))
		p.KernelVersion = nonEmpty(info.KernelVersion)
	}

	arch := c.GOARCH
	if hi != nil && hi.KernelArch != "" {
		arch = hi.KernelArch
	}
	p.CPUArchitecture = nonEmpty(arch)

	if cpus, err := c.CPUInfo(); err == nil && len(cpus) > 0 {
		p.CPUModel = nonEmpty(strings.TrimSpace(cpus[0].ModelName))
		if mhz := averageMHz(cpus); mhz > 0 {
			p.CPUFrequencyMHz = &mhz
		}
	}

	logical := c.NumCPU()
	if logical <= 0 {
		if n, err := c.CPUCounts(true); err == nil {
			logical = n
		}
	}
	if logical > 0 {
		p.LogicalCores = &logical
	}
	if n, err := c.CPUCounts(false); err == nil && n > 0 {
		p.PhysicalCores = &n
	}

	if vm, err := c.VirtualMemory(); err == nil && vm != nil {
		total, avail := vm.Total, vm.Available
		p.TotalMemoryBytes = &total
		p.AvailableMemoryBytes = &avail
	}

	p.HardwareTypeGuess = nonEmpty(guessHardware(hi, deref(p.CPUModel)))
	return p
}

func osName(info *host.InfoStat) string {
	name := strings.TrimSpace(strings.Join([]string{info.Platform, info.PlatformVersion}, " "))
	if name == "" {
		return info.OS
	}
	if info.OS != "" && !strings.EqualFold(info.OS, info.Platform) {
		return fmt.Sprintf("%s (%s)", name, info.OS)
	}
	return name
}

func averageMHz(cpus []cpu.InfoStat) uint64 {
	var total float64
	var n int
	for _, c := range cpus {
		if c.Mhz > 0 {
			total += c.Mhz
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return uint64(total / float64(n))
}

// guessHardware classifies the host from virtualization hints and the CPU model.
func guessHardware(info *host.InfoStat, cpuModel string) string {
	if info != nil && info.VirtualizationRole == "guest" {
		switch info.VirtualizationSystem {
		case "docker", "lxc", "podman", "containerd", "openvz", "wsl":
			return "container (" + info.VirtualizationSystem + ")"
		case "":
			return "virtual machine"
		default:
			return "virtual machine (" + info.VirtualizationSystem + ")"
		}
	}

	lower := strings.ToLower(cpuModel)
	switch {
	case strings.Contains(lower, "raspberry"), strings.Contains(lower, "bcm27"):
		return "single-board computer"
	case strings.HasPrefix(lower, "apple m"):
		return "apple silicon"
	case strings.Contains(lower, "xeon"), strings.Contains(lower, "epyc"), strings.Contains(lower, "graviton"):
		return "server"
	case cpuModel != "":
		return "desktop/laptop"
	}
	return ""
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
