package story

import (
	"context"
	"errors"
	"time"

	"github.com/aleister1102/toughcanvas/internal/catalog"
	"github.com/aleister1102/toughcanvas/internal/common"
	"github.com/rs/zerolog"
)

// ReadyStateComplete is the readiness condition every canvas page waits for.
const ReadyStateComplete = "document.readyState == 'complete'"

// DefaultNavigationTimeout bounds the readiness wait when the harness sets none.
const DefaultNavigationTimeout = 60 * time.Second

// Outcome describes what a page run actually did.
type Outcome struct {
	Page        string
	URL         string
	Label       string
	Held        time.Duration
	NavigatedIn time.Duration
}

// Options tune the shared template.
type Options struct {
	NavigationTimeout time.Duration
	ReadyCondition    string
	// URLResolver maps a catalog URL to the URL handed to the navigator.
	// Nil means the catalog URL is used as is.
	URLResolver func(string) (string, error)
}

// DefaultOptions returns the template's defaults.
func DefaultOptions() Options {
	return Options{
		NavigationTimeout: DefaultNavigationTimeout,
		ReadyCondition:    ReadyStateComplete,
	}
}

// Executor runs the shared navigate-then-interact template for one page at a time.
type Executor struct {
	driver  Driver
	clock   Clock
	options Options
	logger  zerolog.Logger
}

// NewExecutor creates an executor over driver. A nil clock uses the wall clock.
func NewExecutor(driver Driver, clock Clock, options Options, logger zerolog.Logger) *Executor {
	if clock == nil {
		clock = WallClock{}
	}
	if options.NavigationTimeout <= 0 {
		options.NavigationTimeout = DefaultNavigationTimeout
	}
	if options.ReadyCondition == "" {
		options.ReadyCondition = ReadyStateComplete
	}

	return &Executor{
		driver:  driver,
		clock:   clock,
		options: options,
		logger:  logger.With().Str("component", "StoryExecutor").Logger(),
	}
}

// Run navigates to the page and holds its interaction window.
func (e *Executor) Run(ctx context.Context, page catalog.PageDescriptor) (Outcome, error) {
	outcome := Outcome{Page: page.Name, URL: page.URL}

	navigatedIn, err := e.Navigate(ctx, page)
	outcome.NavigatedIn = navigatedIn
	if err != nil {
		return outcome, err
	}

	interaction, held, err := e.Interact(ctx, page)
	outcome.Label = interaction.Label
	outcome.Held = held
	return outcome, err
}

// Navigate loads the page and waits for the readiness condition.
func (e *Executor) Navigate(ctx context.Context, page catalog.PageDescriptor) (time.Duration, error) {
	start := time.Now()

	target := page.URL
	if e.options.URLResolver != nil {
		resolved, err := e.options.URLResolver(page.URL)
		if err != nil {
			return 0, &NavigationError{Page: page.Name, URL: page.URL, Wrapped: err}
		}
		target = resolved
	}

	e.logger.Debug().Str("page", page.Name).Str("url", target).Msg("Navigating")

	if err := e.driver.Navigate(ctx, target); err != nil {
		if common.IsTimeout(err) {
			return time.Since(start), e.timeoutError(page, target, err)
		}
		return time.Since(start), &NavigationError{Page: page.Name, URL: target, Wrapped: err}
	}

	if err := e.driver.WaitUntil(ctx, e.options.ReadyCondition, e.options.NavigationTimeout); err != nil {
		if common.IsTimeout(err) {
			return time.Since(start), e.timeoutError(page, target, err)
		}
		return time.Since(start), &NavigationError{Page: page.Name, URL: target, Wrapped: err}
	}

	return time.Since(start), nil
}

// Interact holds the page's measurement window open for its configured duration.
// The window is closed even when the hold fails.
func (e *Executor) Interact(ctx context.Context, page catalog.PageDescriptor) (_ catalog.Interaction, held time.Duration, err error) {
	interaction := page.EffectiveInteraction()

	scope, err := e.driver.ScopedInteraction(ctx, interaction.Label)
	if err != nil {
		return interaction, 0, &InteractionError{Page: page.Name, Label: interaction.Label, Stage: "open", Wrapped: err}
	}

	defer func() {
		// Close with a fresh context so an expired page deadline still ends the window.
		endCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		endErr := scope.End(endCtx)
		if endErr == nil {
			return
		}
		e.logger.Warn().Err(endErr).Str("page", page.Name).Str("label", interaction.Label).Msg("Failed to close interaction window")
		if err == nil {
			err = &InteractionError{Page: page.Name, Label: interaction.Label, Stage: "close", Wrapped: endErr}
		}
	}()

	start := time.Now()
	if err := e.clock.Sleep(ctx, interaction.Duration); err != nil {
		return interaction, time.Since(start), &InteractionError{Page: page.Name, Label: interaction.Label, Stage: "hold", Wrapped: err}
	}

	return interaction, interaction.Duration, nil
}

func (e *Executor) timeoutError(page catalog.PageDescriptor, target string, err error) error {
	return &NavigationTimeoutError{
		Page:      page.Name,
		URL:       target,
		Condition: e.options.ReadyCondition,
		Timeout:   e.options.NavigationTimeout,
		Wrapped:   err,
	}
}

// WallClock sleeps on real time.
type WallClock struct{}

// Sleep waits for d or until ctx is done.
func (WallClock) Sleep(ctx context.Context, d time.Duration) error {
	return common.WaitWithCancellation(ctx, d)
}

// IsNavigationTimeout reports whether err is a navigation timeout.
func IsNavigationTimeout(err error) bool {
	return errors.Is(err, ErrNavigationTimeout)
}
