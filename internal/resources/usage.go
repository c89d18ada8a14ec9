package resources

import (
	"context"
	"runtime"
	"time"

	"github.com/aleister1102/toughcanvas/internal/common"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Usage is one snapshot of host and process resource usage
type Usage struct {
	SampledAt            time.Time
	AllocMB              int64
	SysMB                int64
	Goroutines           int
	SystemMemUsedMB      int64
	SystemMemTotalMB     int64
	SystemMemUsedPercent float64
	CPUUsagePercent      float64
}

// Thresholds mark a sample as taken on a contended host. Values are fractions (0.9 = 90%).
type Thresholds struct {
	SystemMem float64
	CPU       float64
}

// DefaultThresholds returns the contention thresholds used when none are given
func DefaultThresholds() Thresholds {
	return Thresholds{SystemMem: 0.9, CPU: 0.9}
}

// Contended reports whether the sample exceeded either threshold
func (u Usage) Contended(t Thresholds) bool {
	return u.SystemMemUsedPercent/100.0 > t.SystemMem || u.CPUUsagePercent/100.0 > t.CPU
}

// Sampler takes resource snapshots between page runs
type Sampler struct {
	logger      zerolog.Logger
	cpuInterval time.Duration
	thresholds  Thresholds
	now         func() time.Time
}

// NewSampler creates a sampler. cpuInterval is how long CPU usage is averaged over.
func NewSampler(cpuInterval time.Duration, thresholds Thresholds, logger zerolog.Logger) *Sampler {
	if cpuInterval <= 0 {
		cpuInterval = 100 * time.Millisecond
	}
	if thresholds.SystemMem <= 0 {
		thresholds.SystemMem = DefaultThresholds().SystemMem
	}
	if thresholds.CPU <= 0 {
		thresholds.CPU = DefaultThresholds().CPU
	}

	return &Sampler{
		logger:      logger.With().Str("component", "ResourceSampler").Logger(),
		cpuInterval: cpuInterval,
		thresholds:  thresholds,
		now:         time.Now,
	}
}

// Sample returns the current usage. Host stats that cannot be read are left
// zero; only cancellation is reported as an error.
func (s *Sampler) Sample(ctx context.Context) (Usage, error) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	usage := Usage{
		SampledAt:  s.now(),
		AllocMB:    int64(m.Alloc / 1024 / 1024),
		SysMB:      int64(m.Sys / 1024 / 1024),
		Goroutines: runtime.NumGoroutine(),
	}

	if vmStat, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		usage.SystemMemUsedMB = int64(vmStat.Used / 1024 / 1024)
		usage.SystemMemTotalMB = int64(vmStat.Total / 1024 / 1024)
		usage.SystemMemUsedPercent = vmStat.UsedPercent
	} else {
		s.logger.Debug().Err(err).Msg("Failed to read system memory")
	}

	cpuPercents, err := cpu.PercentWithContext(ctx, s.cpuInterval, false)
	if err == nil && len(cpuPercents) > 0 {
		usage.CPUUsagePercent = cpuPercents[0]
	} else if err != nil {
		s.logger.Debug().Err(err).Msg("Failed to read CPU usage")
	}

	if ctx.Err() != nil {
		return usage, common.WrapError(ctx.Err(), "resource sampling interrupted")
	}

	if usage.Contended(s.thresholds) {
		s.logger.Warn().
			Float64("cpu_usage_percent", usage.CPUUsagePercent).
			Float64("system_mem_used_percent", usage.SystemMemUsedPercent).
			Msg("Host is contended, measurements may be noisy")
	}

	return usage, nil
}
