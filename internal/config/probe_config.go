package config

// ProbeConfig holds the configuration for the link checker
type ProbeConfig struct {
	Threads         int               `json:"threads,omitempty" yaml:"threads,omitempty" validate:"omitempty,min=1"`
	TimeoutSecs     int               `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" validate:"omitempty,min=1"`
	Retries         int               `json:"retries,omitempty" yaml:"retries,omitempty" validate:"omitempty,min=0"`
	FollowRedirects bool              `json:"follow_redirects" yaml:"follow_redirects"`
	CustomHeaders   map[string]string `json:"custom_headers,omitempty" yaml:"custom_headers,omitempty"`
	Proxy           string            `json:"proxy,omitempty" yaml:"proxy,omitempty" validate:"omitempty,url"`
}

// NewDefaultProbeConfig creates default probe configuration
func NewDefaultProbeConfig() ProbeConfig {
	return ProbeConfig{
		Threads:         DefaultProbeThreads,
		TimeoutSecs:     DefaultProbeTimeoutSecs,
		Retries:         DefaultProbeRetries,
		FollowRedirects: DefaultProbeFollowRedirects,
		CustomHeaders:   make(map[string]string),
	}
}
