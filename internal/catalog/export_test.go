package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_ExportYAMLRoundTrip(t *testing.T) {
	c := MustBuildCatalog()

	data, err := c.Export("yaml", true)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: tough_canvas_cases")
	assert.Contains(t, string(data), "archive_data_file: ../data/tough_canvas_cases.json")
	assert.Contains(t, string(data), "label: CanvasAnimation")

	loaded, err := LoadDocument(data, "yaml")
	require.NoError(t, err)
	assert.Equal(t, c.AllPages(), loaded.AllPages())
	assert.Equal(t, c.Metadata(), loaded.Metadata())
}

func TestCatalog_ExportJSONActiveOnly(t *testing.T) {
	data, err := MustBuildCatalog().Export("json", false)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, ToughCanvasCatalogName, doc.Name)
	assert.Len(t, doc.Pages, 35)
	for _, p := range doc.Pages {
		assert.NotEqual(t, MicrosoftFirefliesName, p.Name)
	}
}

func TestCatalog_ExportUnknownFormat(t *testing.T) {
	_, err := MustBuildCatalog().Export("xml", false)
	assert.Error(t, err)

	_, err = LoadDocument([]byte("{}"), "toml")
	assert.Error(t, err)
}

func TestLoadDocument_RejectsDuplicates(t *testing.T) {
	data := []byte(`
name: custom
pages:
  - name: a
    url: http://example.com/a
    enabled: true
  - name: a
    url: file://../fixtures/a.html
    enabled: true
`)

	_, err := LoadDocument(data, "yaml")
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "a", cfgErr.Page)
}

func TestLoadDocument_AppliesDefaultInteraction(t *testing.T) {
	data := []byte(`
name: custom
default_interaction:
  label: LongAnimation
  duration: 8s
pages:
  - name: a
    url: http://example.com/a
    enabled: true
  - name: b
    url: file://../fixtures/b.html
    enabled: true
    interaction:
      label: Short
      duration: 1s
`)

	c, err := LoadDocument(data, "yaml")
	require.NoError(t, err)

	a, ok := c.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, Interaction{Label: "LongAnimation", Duration: 8 * time.Second}, a.EffectiveInteraction())

	b, ok := c.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, Interaction{Label: "Short", Duration: time.Second}, b.EffectiveInteraction())
}

func TestLoadDocument_ExtraBrowserArgs(t *testing.T) {
	data := []byte(`{
  "name": "custom",
  "pages": [
    {"name": "a", "url": "http://example.com/a", "enabled": true, "extra_browser_args": ["--enable-gpu-rasterization"]},
    {"name": "b", "url": "http://example.com/b", "enabled": true, "extra_browser_args": [""]}
  ]
}`)

	_, err := LoadDocument(data, "json")
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "b", cfgErr.Page)

	valid := []byte(`{"name": "custom", "pages": [{"name": "a", "url": "http://example.com/a", "enabled": true, "extra_browser_args": ["--enable-gpu-rasterization"]}]}`)
	c, err := LoadDocument(valid, "json")
	require.NoError(t, err)

	pages := c.Pages()
	assert.Equal(t, []string{"--enable-gpu-rasterization"}, pages[0].ExtraBrowserArgs)
	pages[0].ExtraBrowserArgs[0] = "mutated"
	assert.Equal(t, "--enable-gpu-rasterization", c.Pages()[0].ExtraBrowserArgs[0])
}
