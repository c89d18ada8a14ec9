package config

const (
	// Browser Defaults
	DefaultBrowserHeadless       = true
	DefaultBrowserWindowWidth    = 1280
	DefaultBrowserWindowHeight   = 1024
	DefaultBrowserFixtureBaseDir = "page_sets/rendering"

	// Runner Defaults
	DefaultRunnerNavigationTimeoutSecs = 60
	DefaultRunnerPageTimeoutSecs       = 120
	DefaultRunnerSampleResources       = true

	// Storage Defaults
	DefaultStorageSQLiteDBPath     = "database/history/runs.db"
	DefaultStorageParquetBasePath  = "database/results"
	DefaultStorageCompressionCodec = "zstd"

	// Probe Defaults
	DefaultProbeThreads         = 10
	DefaultProbeTimeoutSecs     = 10
	DefaultProbeRetries         = 1
	DefaultProbeFollowRedirects = true

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// ConfigPathEnv overrides the config file location
	ConfigPathEnv = "TOUGHCANVAS_CONFIG_PATH"
)
