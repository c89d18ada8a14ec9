package probe

import (
	"github.com/aleister1102/toughcanvas/internal/config"
	"github.com/projectdiscovery/httpx/common/customheader"
	"github.com/projectdiscovery/httpx/runner"
	"github.com/rs/zerolog"
)

// OptionsConfigurator converts ProbeConfig into httpx runner options
type OptionsConfigurator struct {
	logger zerolog.Logger
}

// NewOptionsConfigurator creates a new options configurator
func NewOptionsConfigurator(logger zerolog.Logger) *OptionsConfigurator {
	return &OptionsConfigurator{
		logger: logger.With().Str("component", "HTTPXOptionsConfigurator").Logger(),
	}
}

// ConfigureOptions builds httpx options for probing targets
func (oc *OptionsConfigurator) ConfigureOptions(cfg config.ProbeConfig, targets []string) *runner.Options {
	options := &runner.Options{
		ExtractTitle:       true,
		FollowRedirects:    cfg.FollowRedirects,
		HostMaxErrors:      -1,
		MaxRedirects:       10,
		Methods:            "GET",
		NoColor:            true,
		OmitBody:           true,
		OutputContentType:  true,
		OutputServerHeader: true,
		Retries:            cfg.Retries,
		Silent:             true,
		StatusCode:         true,
		Threads:            config.DefaultProbeThreads,
		Timeout:            config.DefaultProbeTimeoutSecs,
		InputTargetHost:    targets,
		HTTPProxy:          cfg.Proxy,
	}

	if cfg.Threads > 0 {
		options.Threads = cfg.Threads
	}
	if cfg.TimeoutSecs > 0 {
		options.Timeout = cfg.TimeoutSecs
	}

	if len(cfg.CustomHeaders) > 0 {
		headers := customheader.CustomHeaders{}
		for k, v := range cfg.CustomHeaders {
			headerVal := k + ": " + v
			if err := headers.Set(headerVal); err != nil {
				oc.logger.Warn().Str("header", headerVal).Err(err).Msg("Failed to set custom header")
				continue
			}
		}
		options.CustomHeaders = headers
	}

	return options
}
