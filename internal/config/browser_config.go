package config

// BrowserConfig controls the Chrome instance pages run in
type BrowserConfig struct {
	ChromePath     string   `json:"chrome_path,omitempty" yaml:"chrome_path,omitempty"`
	UserDataDir    string   `json:"user_data_dir,omitempty" yaml:"user_data_dir,omitempty"`
	Headless       bool     `json:"headless" yaml:"headless"`
	WindowWidth    int      `json:"window_width,omitempty" yaml:"window_width,omitempty" validate:"omitempty,min=100"`
	WindowHeight   int      `json:"window_height,omitempty" yaml:"window_height,omitempty" validate:"omitempty,min=100"`
	BrowserArgs    []string `json:"browser_args,omitempty" yaml:"browser_args,omitempty"`
	// FixtureBaseDir is the directory relative file:// page URLs are resolved against.
	FixtureBaseDir string `json:"fixture_base_dir,omitempty" yaml:"fixture_base_dir,omitempty"`
}

// NewDefaultBrowserConfig creates default browser configuration
func NewDefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		ChromePath:     "",
		UserDataDir:    "",
		Headless:       DefaultBrowserHeadless,
		WindowWidth:    DefaultBrowserWindowWidth,
		WindowHeight:   DefaultBrowserWindowHeight,
		BrowserArgs:    []string{"--no-sandbox", "--disable-dev-shm-usage"},
		FixtureBaseDir: DefaultBrowserFixtureBaseDir,
	}
}
