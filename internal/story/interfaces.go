package story

import (
	"context"
	"time"
)

// NavigationController loads a URL in the browser under test.
type NavigationController interface {
	Navigate(ctx context.Context, url string) error
}

// ConditionWaiter blocks until a JavaScript expression evaluates truthy in the
// current page, or until timeout elapses.
type ConditionWaiter interface {
	WaitUntil(ctx context.Context, expression string, timeout time.Duration) error
}

// ScopedInteraction is an open measurement window. End closes it and must be
// safe to call exactly once.
type ScopedInteraction interface {
	End(ctx context.Context) error
}

// InteractionRecorder opens labelled measurement windows.
type InteractionRecorder interface {
	ScopedInteraction(ctx context.Context, label string) (ScopedInteraction, error)
}

// Clock suspends the caller for a duration. Sleep returns early with the
// context's error when ctx is done.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Driver bundles the collaborators a page needs.
type Driver interface {
	NavigationController
	ConditionWaiter
	InteractionRecorder
}
