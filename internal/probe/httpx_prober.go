package probe

import (
	"context"
	"sync"
	"time"

	"github.com/aleister1102/toughcanvas/internal/common"
	"github.com/aleister1102/toughcanvas/internal/config"
	"github.com/aleister1102/toughcanvas/internal/models"
	"github.com/projectdiscovery/httpx/runner"
	"github.com/rs/zerolog"
)

// RemoteProber checks remote URLs and returns one result per URL it heard back about
type RemoteProber interface {
	Probe(ctx context.Context, urls []string) (map[string]models.LinkCheckResult, error)
}

// HTTPXProber probes URLs with the httpx engine
type HTTPXProber struct {
	config       config.ProbeConfig
	configurator *OptionsConfigurator
	logger       zerolog.Logger
}

// NewHTTPXProber creates a prober from the probe configuration
func NewHTTPXProber(cfg config.ProbeConfig, logger zerolog.Logger) *HTTPXProber {
	return &HTTPXProber{
		config:       cfg,
		configurator: NewOptionsConfigurator(logger),
		logger:       logger.With().Str("component", "HTTPXProber").Logger(),
	}
}

// Probe runs one httpx enumeration over urls. httpx cannot be interrupted, so
// on cancellation the enumeration is left to finish in the background and
// the results gathered so far are returned with the context error.
func (p *HTTPXProber) Probe(ctx context.Context, urls []string) (map[string]models.LinkCheckResult, error) {
	results := make(map[string]models.LinkCheckResult, len(urls))
	if len(urls) == 0 {
		return results, nil
	}

	var mu sync.Mutex
	options := p.configurator.ConfigureOptions(p.config, urls)
	options.OnResult = func(res runner.Result) {
		mapped := MapResult(res)
		mu.Lock()
		results[mapped.URL] = mapped
		mu.Unlock()
	}

	httpxRunner, err := runner.New(options)
	if err != nil {
		return nil, common.WrapError(err, "failed to initialize httpx engine")
	}

	p.logger.Info().Int("targets", len(urls)).Int("threads", options.Threads).Msg("Probing remote pages")

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer httpxRunner.Close()
		httpxRunner.RunEnumeration()
	}()

	select {
	case <-done:
	case <-ctx.Done():
		mu.Lock()
		partial := make(map[string]models.LinkCheckResult, len(results))
		for k, v := range results {
			partial[k] = v
		}
		mu.Unlock()
		return partial, common.WrapError(ctx.Err(), "probe interrupted")
	}

	mu.Lock()
	defer mu.Unlock()
	return results, nil
}

// MapResult converts an httpx result into a link check result keyed by the input URL
func MapResult(res runner.Result) models.LinkCheckResult {
	checkedAt := res.Timestamp
	if checkedAt.IsZero() {
		checkedAt = time.Now()
	}

	result := models.LinkCheckResult{
		URL:        res.Input,
		StatusCode: res.StatusCode,
		FinalURL:   res.URL,
		Title:      res.Title,
		WebServer:  res.WebServer,
		Error:      res.Error,
		CheckedAt:  checkedAt,
	}
	result.Reachable = !res.Failed && res.Error == "" && res.StatusCode > 0 && res.StatusCode < 400
	return result
}
