package browser

import (
	"context"
	"slices"
	"sync"

	"github.com/aleister1102/toughcanvas/internal/catalog"
	"github.com/aleister1102/toughcanvas/internal/story"
	"github.com/rs/zerolog"
)

// PageRunner runs catalog pages through the shared template in one reused tab.
// A page whose extra browser arguments differ from the running browser's gets a
// relaunched browser and a fresh tab.
type PageRunner struct {
	manager *Manager
	options story.Options
	logger  zerolog.Logger

	mu      sync.Mutex
	session *Session
	args    []string
}

// NewPageRunner creates a runner over a started manager
func NewPageRunner(manager *Manager, options story.Options, logger zerolog.Logger) *PageRunner {
	return &PageRunner{
		manager: manager,
		options: options,
		logger:  logger.With().Str("component", "PageRunner").Logger(),
	}
}

// Run prepares the browser for page and executes the template in it
func (r *PageRunner) Run(ctx context.Context, page catalog.PageDescriptor) (story.Outcome, error) {
	session, err := r.sessionFor(ctx, page)
	if err != nil {
		return story.Outcome{Page: page.Name, URL: page.URL}, &story.NavigationError{Page: page.Name, URL: page.URL, Wrapped: err}
	}
	return story.NewExecutor(session, nil, r.options, r.logger).Run(ctx, page)
}

// LastWindow reports the most recent measured window of the current tab
func (r *PageRunner) LastWindow() (Window, bool) {
	r.mu.Lock()
	session := r.session
	r.mu.Unlock()

	if session == nil {
		return Window{}, false
	}
	return session.LastWindow()
}

// Close closes the current tab. The browser stays up until the manager stops.
func (r *PageRunner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session == nil {
		return nil
	}
	err := r.session.Close()
	r.session = nil
	return err
}

func (r *PageRunner) sessionFor(ctx context.Context, page catalog.PageDescriptor) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !slices.Equal(r.args, page.ExtraBrowserArgs) {
		r.closeSessionLocked()
		r.logger.Info().Str("page", page.Name).Strs("extra_args", page.ExtraBrowserArgs).Msg("Relaunching browser for page arguments")
		if err := r.manager.Relaunch(ctx, page.ExtraBrowserArgs); err != nil {
			return nil, err
		}
		r.args = slices.Clone(page.ExtraBrowserArgs)
	}

	if r.session != nil {
		return r.session, nil
	}

	session, err := r.manager.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	r.session = session
	return session, nil
}

func (r *PageRunner) closeSessionLocked() {
	if r.session == nil {
		return
	}
	if err := r.session.Close(); err != nil {
		r.logger.Debug().Err(err).Msg("Failed to close tab")
	}
	r.session = nil
}
