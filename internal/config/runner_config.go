package config

import "time"

// RunnerConfig bounds how long each page may take and which pages run
type RunnerConfig struct {
	NavigationTimeoutSecs int      `json:"navigation_timeout_secs,omitempty" yaml:"navigation_timeout_secs,omitempty" validate:"omitempty,min=1"`
	PageTimeoutSecs       int      `json:"page_timeout_secs,omitempty" yaml:"page_timeout_secs,omitempty" validate:"omitempty,min=1"`
	StoryFilter           []string `json:"story_filter,omitempty" yaml:"story_filter,omitempty" validate:"omitempty,dive,required"`
	SampleResources       bool     `json:"sample_resources" yaml:"sample_resources"`
}

// NewDefaultRunnerConfig creates default runner configuration
func NewDefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		NavigationTimeoutSecs: DefaultRunnerNavigationTimeoutSecs,
		PageTimeoutSecs:       DefaultRunnerPageTimeoutSecs,
		StoryFilter:           []string{},
		SampleResources:       DefaultRunnerSampleResources,
	}
}

// NavigationTimeout returns the readiness wait bound
func (c RunnerConfig) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutSecs <= 0 {
		return DefaultRunnerNavigationTimeoutSecs * time.Second
	}
	return time.Duration(c.NavigationTimeoutSecs) * time.Second
}

// PageTimeout returns the bound on a whole page run
func (c RunnerConfig) PageTimeout() time.Duration {
	if c.PageTimeoutSecs <= 0 {
		return DefaultRunnerPageTimeoutSecs * time.Second
	}
	return time.Duration(c.PageTimeoutSecs) * time.Second
}
