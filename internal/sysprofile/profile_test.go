package sysprofile

import (
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnavailable = errors.New("unavailable")

func fakeCollector() *Collector {
	return &Collector{
		HostInfo: func() (*host.InfoStat, error) {
			return &host.InfoStat{
				OS:              "linux",
				Platform:        "ubuntu",
				PlatformVersion: "24.04",
				KernelVersion:   "6.8.0-45-generic",
				KernelArch:      "x86_64",
			}, nil
		},
		CPUInfo: func() ([]cpu.InfoStat, error) {
			return []cpu.InfoStat{
				{ModelName: " AMD Ryzen 9 7950X 16-Core Processor ", Mhz: 4500},
				{ModelName: "AMD Ryzen 9 7950X 16-Core Processor", Mhz: 5500},
			}, nil
		},
		CPUCounts: func(logical bool) (int, error) {
			if logical {
				return 32, nil
			}
			return 16, nil
		},
		VirtualMemory: func() (*mem.VirtualMemoryStat, error) {
			return &mem.VirtualMemoryStat{Total: 64 << 30, Available: 40 << 30}, nil
		},
		NumCPU: func() int { return 32 },
		GOARCH: "amd64",
	}
}

func TestProfileFull(t *testing.T) {
	p := fakeCollector().Profile()

	require.NotNil(t, p.OSName)
	assert.Equal(t, "ubuntu 24.04 (linux)", *p.OSName)
	require.NotNil(t, p.KernelVersion)
	assert.Equal(t, "6.8.0-45-generic", *p.KernelVersion)
	require.NotNil(t, p.CPUArchitecture)
	assert.Equal(t, "x86_64", *p.CPUArchitecture)
	require.NotNil(t, p.CPUModel)
	assert.Equal(t, "AMD Ryzen 9 7950X 16-Core Processor", *p.CPUModel)
	require.NotNil(t, p.CPUFrequencyMHz)
	assert.Equal(t, uint64(5000), *p.CPUFrequencyMHz)
	require.NotNil(t, p.LogicalCores)
	assert.Equal(t, 32, *p.LogicalCores)
	require.NotNil(t, p.PhysicalCores)
	assert.Equal(t, 16, *p.PhysicalCores)
	require.NotNil(t, p.TotalMemoryBytes)
	assert.Equal(t, uint64(64<<30), *p.TotalMemoryBytes)
	require.NotNil(t, p.AvailableMemoryBytes)
	assert.Equal(t, uint64(40<<30), *p.AvailableMemoryBytes)
	require.NotNil(t, p.HardwareTypeGuess)
	assert.Equal(t, "desktop/laptop", *p.HardwareTypeGuess)
}

func TestProfileQueriesFail(t *testing.T) {
	c := &Collector{
		HostInfo:      func() (*host.InfoStat, error) { return nil, errUnavailable },
		CPUInfo:       func() ([]cpu.InfoStat, error) { return nil, errUnavailable },
		CPUCounts:     func(bool) (int, error) { return 0, errUnavailable },
		VirtualMemory: func() (*mem.VirtualMemoryStat, error) { return nil, errUnavailable },
		NumCPU:        func() int { return 4 },
		GOARCH:        "arm64",
	}

	p := c.Profile()
	assert.Nil(t, p.OSName)
	assert.Nil(t, p.KernelVersion)
	assert.Nil(t, p.CPUModel)
	assert.Nil(t, p.CPUFrequencyMHz)
	assert.Nil(t, p.PhysicalCores)
	assert.Nil(t, p.TotalMemoryBytes)
	assert.Nil(t, p.AvailableMemoryBytes)
	assert.Nil(t, p.HardwareTypeGuess)
	require.NotNil(t, p.CPUArchitecture)
	assert.Equal(t, "arm64", *p.CPUArchitecture)
	require.NotNil(t, p.LogicalCores)
	assert.Equal(t, 4, *p.LogicalCores)
}

func TestGuessHardware(t *testing.T) {
	tests := []struct {
		name  string
		info  *host.InfoStat
		model string
		want  string
	}{
		{"docker", &host.InfoStat{VirtualizationSystem: "docker", VirtualizationRole: "guest"}, "Intel Xeon", "container (docker)"},
		{"kvm guest", &host.InfoStat{VirtualizationSystem: "kvm", VirtualizationRole: "guest"}, "", "virtual machine (kvm)"},
		{"kvm host", &host.InfoStat{VirtualizationSystem: "kvm", VirtualizationRole: "host"}, "AMD EPYC 7763", "server"},
		{"raspberry pi", nil, "Raspberry Pi 4 Model B Rev 1.4", "single-board computer"},
		{"apple", nil, "Apple M2 Pro", "apple silicon"},
		{"unknown", nil, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, guessHardware(tt.info, tt.model))
		})
	}
}
