package browser

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/aleister1102/toughcanvas/internal/common"
	"github.com/aleister1102/toughcanvas/internal/config"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
)

// Manager owns the Chrome process pages are measured in
type Manager struct {
	config    config.BrowserConfig
	logger    zerolog.Logger
	launcher  *launcher.Launcher
	browser   *rod.Browser
	extraArgs []string
	mutex     sync.Mutex
	isRunning bool
}

// NewManager creates a browser manager. Call Start before opening sessions.
func NewManager(cfg config.BrowserConfig, logger zerolog.Logger) *Manager {
	return &Manager{
		config: cfg,
		logger: logger.With().Str("component", "BrowserManager").Logger(),
	}
}

// Start launches Chrome and connects to it
func (m *Manager) Start(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.isRunning {
		return nil
	}

	l := launcher.New().Context(ctx).Headless(m.config.Headless)

	if m.config.ChromePath != "" {
		l = l.Bin(m.config.ChromePath)
	}
	if m.config.UserDataDir != "" {
		l = l.UserDataDir(m.config.UserDataDir)
	}

	// Canvas pages need the GPU path; everything else keeps runs repeatable.
	l = l.
		Set("no-first-run").
		Set("disable-default-apps").
		Set("disable-sync").
		Set("allow-file-access-from-files")

	args := append(slices.Clone(m.config.BrowserArgs), m.extraArgs...)
	for _, arg := range args {
		name, value := splitBrowserArg(arg)
		if name == "" {
			continue
		}
		if value == "" {
			l = l.Set(flags.Flag(name))
		} else {
			l = l.Set(flags.Flag(name), value)
		}
	}

	controlURL, err := l.Launch()
	if err != nil {
		return common.WrapError(err, "failed to launch browser")
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return common.WrapError(err, "failed to connect to browser")
	}

	m.launcher = l
	m.browser = b
	m.isRunning = true
	m.logger.Info().Bool("headless", m.config.Headless).Strs("extra_args", m.extraArgs).Msg("Browser started")
	return nil
}

// Relaunch restarts Chrome with extra switches added to the configured ones.
// The new process is not tied to ctx, which only bounds the launch itself.
func (m *Manager) Relaunch(ctx context.Context, extraArgs []string) error {
	m.Stop()

	m.mutex.Lock()
	m.extraArgs = slices.Clone(extraArgs)
	m.mutex.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return m.Start(context.WithoutCancel(ctx))
}

// Stop closes the browser and cleans up the launcher
func (m *Manager) Stop() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if !m.isRunning {
		return
	}

	if err := m.browser.Close(); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to close browser")
	}
	if m.launcher != nil {
		m.launcher.Cleanup()
	}

	m.isRunning = false
	m.logger.Info().Msg("Browser stopped")
}

// NewSession opens a fresh tab sized to the configured window
func (m *Manager) NewSession(ctx context.Context) (*Session, error) {
	m.mutex.Lock()
	b := m.browser
	running := m.isRunning
	m.mutex.Unlock()

	if !running {
		return nil, common.WrapError(common.ErrServiceUnavailable, "browser manager not running")
	}

	page, err := b.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, common.WrapError(err, "failed to create page")
	}
	// detach the manager's context so later calls carry their own
	page = page.Context(context.Background())

	if m.config.WindowWidth > 0 && m.config.WindowHeight > 0 {
		if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             m.config.WindowWidth,
			Height:            m.config.WindowHeight,
			DeviceScaleFactor: 1,
		}); err != nil {
			m.logger.Warn().Err(err).Msg("Failed to set viewport")
		}
	}

	return newSession(page, m.logger), nil
}

// IsRunning reports whether Start succeeded and Stop has not been called
func (m *Manager) IsRunning() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.isRunning
}

// splitBrowserArg turns "--name=value" into ("name", "value")
func splitBrowserArg(arg string) (string, string) {
	arg = strings.TrimLeft(strings.TrimSpace(arg), "-")
	name, value, _ := strings.Cut(arg, "=")
	return name, value
}
