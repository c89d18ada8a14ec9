package catalog

import (
	"encoding/json"
	"strings"

	"github.com/aleister1102/toughcanvas/internal/common"
	"gopkg.in/yaml.v3"
)

// Document is the serialised form of a catalog.
type Document struct {
	Metadata           `json:",inline" yaml:",inline"`
	DefaultInteraction Interaction      `json:"default_interaction" yaml:"default_interaction"`
	Pages              []PageDescriptor `json:"pages" yaml:"pages"`
}

// Document renders the catalog. When includeDisabled is false only enabled
// pages are listed.
func (c *Catalog) Document(includeDisabled bool) Document {
	pages := c.Pages()
	if includeDisabled {
		pages = c.AllPages()
	}

	return Document{
		Metadata:           c.meta,
		DefaultInteraction: DefaultInteraction(),
		Pages:              pages,
	}
}

// Export encodes the catalog as "yaml" or "json".
func (c *Catalog) Export(format string, includeDisabled bool) ([]byte, error) {
	doc := c.Document(includeDisabled)

	switch strings.ToLower(format) {
	case "yaml", "yml":
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, common.WrapError(err, "failed to marshal catalog to YAML")
		}
		return data, nil
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, common.WrapError(err, "failed to marshal catalog to JSON")
		}
		return data, nil
	default:
		return nil, common.NewValidationError("format", format, "unsupported export format (want yaml or json)")
	}
}

// LoadDocument parses a YAML or JSON catalog document and validates it into a
// catalog. A non-default default_interaction becomes the override of every page
// that has none.
func LoadDocument(data []byte, format string) (*Catalog, error) {
	var doc Document

	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, common.WrapError(err, "failed to unmarshal catalog YAML")
		}
	case "json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, common.WrapError(err, "failed to unmarshal catalog JSON")
		}
	default:
		return nil, common.NewValidationError("format", format, "unsupported catalog format (want yaml or json)")
	}

	return NewCatalog(doc.Metadata, doc.pagesWithDefault())
}

// pagesWithDefault gives pages without an override the document's default
// interaction when it differs from the built-in one.
func (d Document) pagesWithDefault() []PageDescriptor {
	if d.DefaultInteraction == (Interaction{}) || d.DefaultInteraction == DefaultInteraction() {
		return d.Pages
	}

	pages := make([]PageDescriptor, len(d.Pages))
	for i, p := range d.Pages {
		if p.Interaction == nil {
			interaction := d.DefaultInteraction
			p.Interaction = &interaction
		}
		pages[i] = p
	}
	return pages
}
