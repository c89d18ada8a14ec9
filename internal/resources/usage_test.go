package resources

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampler_Sample(t *testing.T) {
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	sampler := NewSampler(10*time.Millisecond, Thresholds{}, zerolog.Nop())
	sampler.now = func() time.Time { return fixed }

	usage, err := sampler.Sample(context.Background())
	require.NoError(t, err)

	assert.Equal(t, fixed, usage.SampledAt)
	assert.Greater(t, usage.Goroutines, 0)
	assert.GreaterOrEqual(t, usage.CPUUsagePercent, 0.0)
}

func TestSampler_SampleCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSampler(0, Thresholds{}, zerolog.Nop()).Sample(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewSampler_Defaults(t *testing.T) {
	s := NewSampler(0, Thresholds{}, zerolog.Nop())

	assert.Equal(t, 100*time.Millisecond, s.cpuInterval)
	assert.Equal(t, DefaultThresholds(), s.thresholds)
}

func TestUsage_Contended(t *testing.T) {
	thresholds := Thresholds{SystemMem: 0.8, CPU: 0.5}

	tests := []struct {
		name  string
		usage Usage
		want  bool
	}{
		{"idle", Usage{SystemMemUsedPercent: 20, CPUUsagePercent: 5}, false},
		{"memory pressure", Usage{SystemMemUsedPercent: 85, CPUUsagePercent: 5}, true},
		{"busy cpu", Usage{SystemMemUsedPercent: 20, CPUUsagePercent: 75}, true},
		{"at threshold", Usage{SystemMemUsedPercent: 80, CPUUsagePercent: 50}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.usage.Contended(thresholds))
		})
	}
}
