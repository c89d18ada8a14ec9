package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultGlobalConfig(t *testing.T) {
	cfg := NewDefaultGlobalConfig()

	assert.NotNil(t, cfg)
	assert.True(t, cfg.BrowserConfig.Headless)
	assert.Equal(t, DefaultBrowserFixtureBaseDir, cfg.BrowserConfig.FixtureBaseDir)
	assert.Equal(t, 60*time.Second, cfg.RunnerConfig.NavigationTimeout())
	assert.Equal(t, 120*time.Second, cfg.RunnerConfig.PageTimeout())
	assert.Equal(t, "zstd", cfg.StorageConfig.CompressionCodec)
	assert.Equal(t, DefaultProbeThreads, cfg.ProbeConfig.Threads)
	assert.Equal(t, "info", cfg.LogConfig.LogLevel)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadGlobalConfig_NoConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnv, "")

	cfg, err := LoadGlobalConfig("", zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, NewDefaultGlobalConfig(), cfg)
}

func TestLoadGlobalConfig_NonExistentFile(t *testing.T) {
	cfg, err := LoadGlobalConfig("/nonexistent/config.json", zerolog.Nop())

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config file does not exist")
}

func TestLoadGlobalConfig_JSONFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.json")

	configData := `{
		"log_config": {
			"log_level": "debug"
		},
		"runner_config": {
			"navigation_timeout_secs": 15,
			"story_filter": ["runway", "hakim"]
		}
	}`
	require.NoError(t, os.WriteFile(configFile, []byte(configData), 0644))

	cfg, err := LoadGlobalConfig(configFile, zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogConfig.LogLevel)
	assert.Equal(t, 15*time.Second, cfg.RunnerConfig.NavigationTimeout())
	assert.Equal(t, []string{"runway", "hakim"}, cfg.RunnerConfig.StoryFilter)
	// untouched sections keep their defaults
	assert.Equal(t, 120*time.Second, cfg.RunnerConfig.PageTimeout())
	assert.Equal(t, DefaultStorageSQLiteDBPath, cfg.StorageConfig.SQLiteDBPath)
}

func TestLoadGlobalConfig_YAMLFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")

	configData := `
browser_config:
  headless: false
  chrome_path: /usr/bin/chromium
  fixture_base_dir: /srv/page_sets/rendering
storage_config:
  compression_codec: snappy
probe_config:
  threads: 4
  custom_headers:
    X-Test: yes
`
	require.NoError(t, os.WriteFile(configFile, []byte(configData), 0644))

	cfg, err := LoadGlobalConfig(configFile, zerolog.Nop())

	require.NoError(t, err)
	assert.False(t, cfg.BrowserConfig.Headless)
	assert.Equal(t, "/usr/bin/chromium", cfg.BrowserConfig.ChromePath)
	assert.Equal(t, "/srv/page_sets/rendering", cfg.BrowserConfig.FixtureBaseDir)
	assert.Equal(t, "snappy", cfg.StorageConfig.CompressionCodec)
	assert.Equal(t, 4, cfg.ProbeConfig.Threads)
	assert.Equal(t, "yes", cfg.ProbeConfig.CustomHeaders["X-Test"])
}

func TestLoadGlobalConfig_EnvPath(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, os.WriteFile(configFile, []byte("runner_config:\n  page_timeout_secs: 30\n"), 0644))
	t.Setenv(ConfigPathEnv, configFile)

	cfg, err := LoadGlobalConfig("", zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.RunnerConfig.PageTimeout())
}

func TestLoadGlobalConfig_InvalidJSON(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "invalid.json")
	require.NoError(t, os.WriteFile(configFile, []byte(`{"log_config": {},}`), 0644))

	cfg, err := LoadGlobalConfig(configFile, zerolog.Nop())

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to unmarshal JSON")
}

func TestLoadGlobalConfig_InvalidYAML(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "invalid.yaml")
	invalidYAML := `
log_config: test
  invalid_indent: value
`
	require.NoError(t, os.WriteFile(configFile, []byte(invalidYAML), 0644))

	cfg, err := LoadGlobalConfig(configFile, zerolog.Nop())

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to unmarshal YAML")
}

func TestIsYAMLFile(t *testing.T) {
	tests := []struct {
		ext      string
		expected bool
	}{
		{".yaml", true},
		{".yml", true},
		{".json", false},
		{".txt", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			assert.Equal(t, tt.expected, isYAMLFile(tt.ext))
		})
	}
}

func TestSaveGlobalConfig_RoundTrip(t *testing.T) {
	tests := []string{"config.yaml", "config.json"}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			cfg := NewDefaultGlobalConfig()
			cfg.RunnerConfig.StoryFilter = []string{"geo_apis"}
			cfg.BrowserConfig.Headless = false

			require.NoError(t, SaveGlobalConfig(cfg, path, zerolog.Nop()))

			loaded, err := LoadGlobalConfig(path, zerolog.Nop())
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}

	assert.Error(t, SaveGlobalConfig(nil, "x.yaml", zerolog.Nop()))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*GlobalConfig)
		wantErr string
	}{
		{name: "defaults", mutate: func(*GlobalConfig) {}},
		{name: "bad log level", mutate: func(c *GlobalConfig) { c.LogConfig.LogLevel = "loud" }, wantErr: "loglevel"},
		{name: "bad log format", mutate: func(c *GlobalConfig) { c.LogConfig.LogFormat = "xml" }, wantErr: "logformat"},
		{name: "bad codec", mutate: func(c *GlobalConfig) { c.StorageConfig.CompressionCodec = "lz4" }, wantErr: "StorageConfig.CompressionCodec"},
		{name: "negative page timeout", mutate: func(c *GlobalConfig) { c.RunnerConfig.PageTimeoutSecs = -1 }, wantErr: "RunnerConfig.PageTimeoutSecs"},
		{name: "empty filter entry", mutate: func(c *GlobalConfig) { c.RunnerConfig.StoryFilter = []string{""} }, wantErr: "StoryFilter"},
		{name: "bad proxy", mutate: func(c *GlobalConfig) { c.ProbeConfig.Proxy = "not a url" }, wantErr: "ProbeConfig.Proxy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultGlobalConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	assert.Error(t, ValidateConfig(nil))
}
