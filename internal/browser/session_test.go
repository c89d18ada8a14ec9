package browser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aleister1102/toughcanvas/internal/catalog"
	"github.com/aleister1102/toughcanvas/internal/common"
	"github.com/aleister1102/toughcanvas/internal/config"
	"github.com/aleister1102/toughcanvas/internal/story"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const animatedFixture = `<!doctype html>
<canvas id="c" width="64" height="64"></canvas>
<script>
  const ctx = document.getElementById('c').getContext('2d');
  let x = 0;
  (function draw() {
    ctx.clearRect(0, 0, 64, 64);
    ctx.fillRect(x++ % 64, 10, 8, 8);
    requestAnimationFrame(draw);
  })();
</script>`

var animPage = catalog.PageDescriptor{
	Name:        "anim",
	URL:         "file://../anim.html",
	Enabled:     true,
	Interaction: &catalog.Interaction{Label: "CanvasAnimation", Duration: 500 * time.Millisecond},
}

// startChrome launches a real Chrome over a fixture tree, skipping when none is installed.
func startChrome(t *testing.T) (*Manager, *FixtureResolver) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	bin, found := launcher.LookPath()
	if !found {
		t.Skip("no Chrome binary available")
	}

	root := t.TempDir()
	base := filepath.Join(root, "rendering")
	require.NoError(t, os.MkdirAll(base, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "anim.html"), []byte(animatedFixture), 0644))

	cfg := config.NewDefaultBrowserConfig()
	cfg.ChromePath = bin
	cfg.FixtureBaseDir = base
	manager := NewManager(cfg, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	require.NoError(t, manager.Start(ctx))
	t.Cleanup(manager.Stop)

	resolver, err := NewFixtureResolver(base)
	require.NoError(t, err)
	return manager, resolver
}

func TestSession_RunsLocalCanvasPage(t *testing.T) {
	manager, resolver := startChrome(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	session, err := manager.NewSession(ctx)
	require.NoError(t, err)
	defer session.Close()

	opts := story.DefaultOptions()
	opts.NavigationTimeout = 20 * time.Second
	opts.URLResolver = resolver.Resolve
	exec := story.NewExecutor(session, nil, opts, zerolog.Nop())

	outcome, err := exec.Run(ctx, animPage)
	require.NoError(t, err)
	assert.Equal(t, "CanvasAnimation", outcome.Label)

	window, ok := session.LastWindow()
	require.True(t, ok)
	assert.Equal(t, "CanvasAnimation", window.Label)
	assert.Greater(t, window.Measured, time.Duration(0))
}

func TestSession_WaitUntilNeverTrue(t *testing.T) {
	manager, resolver := startChrome(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	session, err := manager.NewSession(ctx)
	require.NoError(t, err)
	defer session.Close()

	target, err := resolver.Resolve(animPage.URL)
	require.NoError(t, err)
	require.NoError(t, session.Navigate(ctx, target))

	start := time.Now()
	err = session.WaitUntil(ctx, "false", 300*time.Millisecond)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 10*time.Second)
	assert.ErrorIs(t, err, common.ErrTimeout)
	assert.True(t, common.IsTimeout(err))

	opts := story.DefaultOptions()
	opts.NavigationTimeout = 300 * time.Millisecond
	opts.ReadyCondition = "false"
	opts.URLResolver = resolver.Resolve
	_, err = story.NewExecutor(session, nil, opts, zerolog.Nop()).Run(ctx, animPage)
	assert.True(t, story.IsNavigationTimeout(err))

	var timeoutErr *story.NavigationTimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Equal(t, "anim", timeoutErr.Page)
}

func TestPageRunner_RelaunchesForExtraArgs(t *testing.T) {
	manager, resolver := startChrome(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	opts := story.DefaultOptions()
	opts.NavigationTimeout = 20 * time.Second
	opts.URLResolver = resolver.Resolve
	runner := NewPageRunner(manager, opts, zerolog.Nop())
	defer runner.Close()

	_, err := runner.Run(ctx, animPage)
	require.NoError(t, err)
	first := runner.session
	_, ok := runner.LastWindow()
	assert.True(t, ok)

	_, err = runner.Run(ctx, animPage)
	require.NoError(t, err)
	assert.Same(t, first, runner.session)

	withArgs := animPage
	withArgs.ExtraBrowserArgs = []string{"--disable-gpu-vsync"}
	_, err = runner.Run(ctx, withArgs)
	require.NoError(t, err)
	assert.NotSame(t, first, runner.session)
	assert.True(t, manager.IsRunning())
	assert.Equal(t, []string{"--disable-gpu-vsync"}, manager.extraArgs)
}

func TestPageRunner_BrowserNotRunning(t *testing.T) {
	runner := NewPageRunner(NewManager(config.NewDefaultBrowserConfig(), zerolog.Nop()), story.DefaultOptions(), zerolog.Nop())

	outcome, err := runner.Run(context.Background(), animPage)
	require.Error(t, err)
	assert.ErrorIs(t, err, story.ErrNavigation)
	assert.ErrorIs(t, err, common.ErrServiceUnavailable)
	assert.Equal(t, "anim", outcome.Page)

	_, ok := runner.LastWindow()
	assert.False(t, ok)
	assert.NoError(t, runner.Close())
}

func TestManager_NewSessionBeforeStart(t *testing.T) {
	manager := NewManager(config.NewDefaultBrowserConfig(), zerolog.Nop())

	_, err := manager.NewSession(context.Background())
	assert.Error(t, err)
	assert.False(t, manager.IsRunning())
	manager.Stop()
}
