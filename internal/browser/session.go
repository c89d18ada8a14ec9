package browser

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aleister1102/toughcanvas/internal/common"
	"github.com/aleister1102/toughcanvas/internal/story"
	"github.com/go-rod/rod"
	"github.com/rs/zerolog"
)

const (
	openWindowJS = `(label) => {
  const name = 'Interaction.' + label;
  performance.mark(name + '/start');
  const state = { frames: 0, running: true };
  const tick = () => {
    if (!state.running) return;
    state.frames++;
    requestAnimationFrame(tick);
  };
  requestAnimationFrame(tick);
  window.__toughcanvasWindows = window.__toughcanvasWindows || {};
  window.__toughcanvasWindows[label] = state;
}`

	closeWindowJS = `(label) => {
  const name = 'Interaction.' + label;
  performance.mark(name + '/end');
  const measure = performance.measure(name, name + '/start', name + '/end');
  const state = (window.__toughcanvasWindows || {})[label] || { frames: 0 };
  state.running = false;
  return { duration: measure ? measure.duration : 0, frames: state.frames };
}`
)

// Window is what the page reported for one closed interaction window
type Window struct {
	Label    string
	Measured time.Duration
	Frames   int
}

// FPS is the frame rate observed over the window
func (w Window) FPS() float64 {
	if w.Measured <= 0 {
		return 0
	}
	return float64(w.Frames) / w.Measured.Seconds()
}

// Session drives a single tab. It satisfies story.Driver.
type Session struct {
	page   *rod.Page
	logger zerolog.Logger

	mu   sync.Mutex
	last *Window
}

var _ story.Driver = (*Session)(nil)

func newSession(page *rod.Page, logger zerolog.Logger) *Session {
	return &Session{
		page:   page,
		logger: logger.With().Str("component", "BrowserSession").Logger(),
	}
}

// Navigate loads url in the tab
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.mu.Lock()
	s.last = nil
	s.mu.Unlock()

	return s.page.Context(ctx).Navigate(url)
}

// WaitUntil polls expression until it is truthy or timeout elapses
func (s *Session) WaitUntil(ctx context.Context, expression string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := s.page.Context(waitCtx).Wait(rod.Eval("() => " + expression))
	if err != nil && waitCtx.Err() != nil && ctx.Err() == nil {
		return errors.Join(common.ErrTimeout, context.DeadlineExceeded, err)
	}
	return err
}

// ScopedInteraction marks the start of a labelled window and starts counting frames
func (s *Session) ScopedInteraction(ctx context.Context, label string) (story.ScopedInteraction, error) {
	if _, err := s.page.Context(ctx).Eval(openWindowJS, label); err != nil {
		return nil, common.WrapErrorf(err, "failed to open interaction window %q", label)
	}
	return &scope{session: s, label: label}, nil
}

// LastWindow returns the most recently closed window on the current page
func (s *Session) LastWindow() (Window, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return Window{}, false
	}
	return *s.last, true
}

// Close closes the tab
func (s *Session) Close() error {
	return s.page.Close()
}

type scope struct {
	session *Session
	label   string
	once    sync.Once
}

func (sc *scope) End(ctx context.Context) error {
	var err error
	sc.once.Do(func() {
		res, evalErr := sc.session.page.Context(ctx).Eval(closeWindowJS, sc.label)
		if evalErr != nil {
			err = common.WrapErrorf(evalErr, "failed to close interaction window %q", sc.label)
			return
		}

		window := Window{
			Label:    sc.label,
			Measured: time.Duration(res.Value.Get("duration").Num() * float64(time.Millisecond)),
			Frames:   res.Value.Get("frames").Int(),
		}

		sc.session.mu.Lock()
		sc.session.last = &window
		sc.session.mu.Unlock()

		sc.session.logger.Debug().
			Str("label", window.Label).
			Dur("measured", window.Measured).
			Int("frames", window.Frames).
			Msg("Interaction window closed")
	})
	return err
}
