package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"single", ModeSeries},
		{"Leibniz", ModeSeries},
		{"monte", ModeSampling},
		{" monte-carlo ", ModeSampling},
		{"multi", ModeSampling},
		{"multi-thread", ModeSampling},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseMode("quantum")
	assert.ErrorContains(t, err, "unknown mode")
}

func TestWorkLabel(t *testing.T) {
	assert.Equal(t, "Iterations", ModeSeries.WorkLabel())
	assert.Equal(t, "Samples", ModeSampling.WorkLabel())
}

func TestNewSamplingConfigCopiesSeed(t *testing.T) {
	seed := uint64(9)
	cfg := NewSamplingConfig(100, 4, &seed, "n")
	seed = 10

	require.NotNil(t, cfg.Seed)
	assert.Equal(t, uint64(9), *cfg.Seed)
	assert.Equal(t, ModeSampling, cfg.Mode)
	assert.Equal(t, 4, cfg.Workers)

	assert.Nil(t, NewSamplingConfig(100, 4, nil, "").Seed)
}

func TestModeOfFallsBackToLabel(t *testing.T) {
	assert.Equal(t, ModeSeries, ResultRecord{Mode: "Single-threaded Leibniz"}.ModeOf())
	assert.Equal(t, ModeSampling, ResultRecord{Mode: "Monte Carlo (8 threads)"}.ModeOf())
	assert.Equal(t, ModeSampling, ResultRecord{Mode: "whatever", ModeKey: ModeSampling}.ModeOf())
}

func TestRecordJSONShape(t *testing.T) {
	data, err := json.Marshal(ResultRecord{Mode: "Single-threaded Leibniz", WorkLabel: "Iterations"})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Contains(t, m, "throughput_per_second")
	assert.Nil(t, m["throughput_per_second"])
	assert.NotContains(t, m, "notes")
	assert.NotContains(t, m, "seed")
	assert.Contains(t, m["system"], "os_name")
}
