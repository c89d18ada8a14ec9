package story

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNavigationTimeout matches any *NavigationTimeoutError
	ErrNavigationTimeout = errors.New("navigation timeout")
	// ErrNavigation matches any *NavigationError
	ErrNavigation = errors.New("navigation failed")
	// ErrInteraction matches any *InteractionError
	ErrInteraction = errors.New("interaction failed")
)

// NavigationError reports a URL that could not be loaded.
type NavigationError struct {
	Page    string
	URL     string
	Wrapped error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation to '%s' for page '%s' failed: %v", e.URL, e.Page, e.Wrapped)
}

func (e *NavigationError) Unwrap() []error {
	return []error{ErrNavigation, e.Wrapped}
}

// NavigationTimeoutError reports a page whose readiness condition never held
// within the configured bound.
type NavigationTimeoutError struct {
	Page      string
	URL       string
	Condition string
	Timeout   time.Duration
	Wrapped   error
}

func (e *NavigationTimeoutError) Error() string {
	return fmt.Sprintf("page '%s' did not satisfy %q within %s", e.Page, e.Condition, e.Timeout)
}

func (e *NavigationTimeoutError) Unwrap() []error {
	return []error{ErrNavigationTimeout, e.Wrapped}
}

// InteractionError reports a failure inside, or while opening or closing, a
// measurement window.
type InteractionError struct {
	Page    string
	Label   string
	Stage   string
	Wrapped error
}

func (e *InteractionError) Error() string {
	return fmt.Sprintf("interaction '%s' on page '%s' failed during %s: %v", e.Label, e.Page, e.Stage, e.Wrapped)
}

func (e *InteractionError) Unwrap() []error {
	return []error{ErrInteraction, e.Wrapped}
}
