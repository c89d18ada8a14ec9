package catalog

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aleister1102/toughcanvas/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCatalog_ActiveCount(t *testing.T) {
	c, err := BuildCatalog()
	require.NoError(t, err)

	assert.Equal(t, 35, c.Len())
	assert.Len(t, c.Pages(), 35)
	assert.Len(t, c.Names(), 35)
	assert.Len(t, c.AllPages(), 36)
	assert.Equal(t, ToughCanvasCatalogName, c.Name())
	assert.Equal(t, ToughCanvasDescription, c.Description())
}

func TestBuildCatalog_NamesUniqueAndNonEmpty(t *testing.T) {
	c := MustBuildCatalog()

	seen := make(map[string]bool)
	for _, p := range c.AllPages() {
		assert.NotEmpty(t, p.Name)
		assert.False(t, seen[p.Name], "duplicate name %q", p.Name)
		seen[p.Name] = true
	}
}

func TestBuildCatalog_URLsWellFormed(t *testing.T) {
	c := MustBuildCatalog()

	for _, p := range c.AllPages() {
		t.Run(p.Name, func(t *testing.T) {
			ok := strings.HasPrefix(p.URL, "http://") ||
				strings.HasPrefix(p.URL, "https://") ||
				strings.HasPrefix(p.URL, "file://")
			assert.True(t, ok, "unexpected scheme in %q", p.URL)
			assert.True(t, ValidatePageURL(p.URL))
			assert.NotEqual(t, p.IsLocal(), p.IsRemote())
		})
	}
}

func TestBuildCatalog_FirefliesDisabled(t *testing.T) {
	c := MustBuildCatalog()

	_, found := c.Lookup(MicrosoftFirefliesName)
	assert.False(t, found)
	assert.NotContains(t, c.Names(), MicrosoftFirefliesName)

	disabled := c.Disabled()
	require.Len(t, disabled, 1)
	assert.Equal(t, MicrosoftFirefliesName, disabled[0].Name)
	assert.NotEmpty(t, disabled[0].DisabledReason)

	fireflies := MicrosoftFireflies()
	assert.False(t, fireflies.Enabled)
	assert.True(t, ValidatePageURL(fireflies.URL))
}

func TestBuildCatalog_Order(t *testing.T) {
	names := MustBuildCatalog().Names()

	assert.Equal(t, "geo_apis", names[0])
	assert.Equal(t, "runway", names[1])
	assert.Equal(t, "smash_cat", names[19])
	assert.Equal(t, "bouncing_balls_shadow", names[20])
	assert.Equal(t, "bouncing_png_images", names[len(names)-1])
}

func TestBuildCatalog_TwiceYieldsEqualIndependentInstances(t *testing.T) {
	first := MustBuildCatalog()
	second := MustBuildCatalog()

	require.Equal(t, first.AllPages(), second.AllPages())
	assert.Equal(t, first.Metadata(), second.Metadata())

	pages := first.Pages()
	pages[0].Name = "mutated"
	pages[0].Interaction = &Interaction{Label: "Other", Duration: time.Second}

	assert.Equal(t, "geo_apis", first.Pages()[0].Name)
	assert.Equal(t, "geo_apis", second.Pages()[0].Name)
	assert.Nil(t, first.Pages()[0].Interaction)
}

func TestBuildCatalog_Archive(t *testing.T) {
	archive := MustBuildCatalog().Archive()

	assert.Equal(t, "../data/tough_canvas_cases.json", archive.DataFile)
	assert.Equal(t, PartnerBucket, archive.Bucket)
}

func TestNewCatalog_ConfigurationErrors(t *testing.T) {
	meta := Metadata{Name: "test_suite"}

	tests := []struct {
		name      string
		meta      Metadata
		pages     []PageDescriptor
		wantField string
	}{
		{
			name: "duplicate name",
			meta: meta,
			pages: []PageDescriptor{
				page("a", "http://example.com/a"),
				page("a", "http://example.com/b"),
			},
			wantField: "name",
		},
		{
			name:      "duplicate name across disabled entry",
			meta:      meta,
			pages:     []PageDescriptor{disabledPage("a", "http://example.com/a", "broken"), page("a", "http://example.com/b")},
			wantField: "name",
		},
		{
			name:      "empty name",
			meta:      meta,
			pages:     []PageDescriptor{page("", "http://example.com/a")},
			wantField: "name",
		},
		{
			name:      "empty url",
			meta:      meta,
			pages:     []PageDescriptor{page("a", "")},
			wantField: "url",
		},
		{
			name:      "unsupported scheme",
			meta:      meta,
			pages:     []PageDescriptor{page("a", "ftp://example.com/a")},
			wantField: "url",
		},
		{
			name:      "http without host",
			meta:      meta,
			pages:     []PageDescriptor{page("a", "http:///path")},
			wantField: "url",
		},
		{
			name:      "bare file scheme",
			meta:      meta,
			pages:     []PageDescriptor{page("a", "file://")},
			wantField: "url",
		},
		{
			name:      "no pages",
			meta:      meta,
			pages:     nil,
			wantField: "pages",
		},
		{
			name:      "empty catalog name",
			meta:      Metadata{},
			pages:     []PageDescriptor{page("a", "http://example.com/a")},
			wantField: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCatalog(tt.meta, tt.pages)
			require.Error(t, err)
			assert.Nil(t, c)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantField, cfgErr.Field)
			assert.True(t, errors.Is(err, common.ErrInvalidConfiguration))
		})
	}
}

func TestNewCatalog_CopiesInput(t *testing.T) {
	pages := []PageDescriptor{page("a", "http://example.com/a")}

	c, err := NewCatalog(Metadata{Name: "copy"}, pages)
	require.NoError(t, err)

	pages[0].URL = "http://example.com/changed"
	p, ok := c.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "http://example.com/a", p.URL)
}

func TestPageDescriptor_EffectiveInteraction(t *testing.T) {
	p := page("a", "http://example.com/a")
	assert.Equal(t, Interaction{Label: "CanvasAnimation", Duration: 5 * time.Second}, p.EffectiveInteraction())

	p.Interaction = &Interaction{Label: "LongAnimation", Duration: 10 * time.Second}
	assert.Equal(t, "LongAnimation", p.EffectiveInteraction().Label)
	assert.Equal(t, 10*time.Second, p.EffectiveInteraction().Duration)
}

func TestNewCatalog_InvalidInteractionOverride(t *testing.T) {
	p := page("a", "http://example.com/a")
	p.Interaction = &Interaction{Label: "", Duration: time.Second}

	_, err := NewCatalog(Metadata{Name: "override"}, []PageDescriptor{p})
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "label", cfgErr.Field)
}

func TestCatalog_Filter(t *testing.T) {
	c := MustBuildCatalog()

	filtered, err := c.Filter("canvas_lines", "geo_apis")
	require.NoError(t, err)
	assert.Equal(t, []string{"geo_apis", "canvas_lines"}, filtered.Names())
	assert.Equal(t, c.Archive(), filtered.Archive())

	same, err := c.Filter()
	require.NoError(t, err)
	assert.Same(t, c, same)

	_, err = c.Filter(MicrosoftFirefliesName)
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, MicrosoftFirefliesName, cfgErr.Page)
}
