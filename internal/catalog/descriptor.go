package catalog

import (
	"slices"
	"strings"
	"time"
)

const (
	// DefaultInteractionLabel names the measurement window opened while a page animates
	DefaultInteractionLabel = "CanvasAnimation"
	// DefaultInteractionDuration is how long the window is held open
	DefaultInteractionDuration = 5 * time.Second

	remoteHTTPPrefix  = "http://"
	remoteHTTPSPrefix = "https://"
	localFilePrefix   = "file://"
)

// Interaction describes the measurement window a page holds once it has loaded.
type Interaction struct {
	Label    string        `json:"label" yaml:"label" validate:"required"`
	Duration time.Duration `json:"duration" yaml:"duration" validate:"gt=0"`
}

// DefaultInteraction returns the window shared by every canvas page.
func DefaultInteraction() Interaction {
	return Interaction{
		Label:    DefaultInteractionLabel,
		Duration: DefaultInteractionDuration,
	}
}

// PageDescriptor is a single named benchmark page.
type PageDescriptor struct {
	Name           string       `json:"name" yaml:"name" validate:"required"`
	URL            string       `json:"url" yaml:"url" validate:"required,pageurl"`
	Enabled        bool         `json:"enabled" yaml:"enabled"`
	DisabledReason string       `json:"disabled_reason,omitempty" yaml:"disabled_reason,omitempty"`
	Interaction    *Interaction `json:"interaction,omitempty" yaml:"interaction,omitempty" validate:"omitempty"`

	// ExtraBrowserArgs are Chrome switches this page needs on top of the
	// configured ones. The browser is relaunched when they change between pages.
	ExtraBrowserArgs []string `json:"extra_browser_args,omitempty" yaml:"extra_browser_args,omitempty" validate:"omitempty,dive,required"`
}

// EffectiveInteraction returns the per-page override when set, the shared default otherwise.
func (p PageDescriptor) EffectiveInteraction() Interaction {
	if p.Interaction != nil {
		return *p.Interaction
	}
	return DefaultInteraction()
}

// IsLocal reports whether the page points at a fixture file rather than a remote demo.
func (p PageDescriptor) IsLocal() bool {
	return strings.HasPrefix(p.URL, localFilePrefix)
}

// IsRemote reports whether the page is served over HTTP(S).
func (p PageDescriptor) IsRemote() bool {
	return strings.HasPrefix(p.URL, remoteHTTPPrefix) || strings.HasPrefix(p.URL, remoteHTTPSPrefix)
}

// clone returns a copy that shares no pointers with p.
func (p PageDescriptor) clone() PageDescriptor {
	out := p
	if p.Interaction != nil {
		interaction := *p.Interaction
		out.Interaction = &interaction
	}
	out.ExtraBrowserArgs = slices.Clone(p.ExtraBrowserArgs)
	return out
}

func page(name, url string) PageDescriptor {
	return PageDescriptor{Name: name, URL: url, Enabled: true}
}

func disabledPage(name, url, reason string) PageDescriptor {
	return PageDescriptor{Name: name, URL: url, Enabled: false, DisabledReason: reason}
}
