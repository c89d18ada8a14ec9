package catalog

import (
	"fmt"
	"strings"
)

// ArchiveInfo tells the replay layer where recorded page data for a catalog lives.
// The catalog only carries these values; it never touches the archive.
type ArchiveInfo struct {
	DataFile string `json:"archive_data_file" yaml:"archive_data_file"`
	Bucket   string `json:"cloud_storage_bucket" yaml:"cloud_storage_bucket"`
}

// Metadata is the suite-level description of a catalog.
type Metadata struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Archive     ArchiveInfo `json:"archive" yaml:"archive"`
}

// Catalog is an immutable, ordered set of page descriptors. Accessors hand out
// copies so callers cannot alter it.
type Catalog struct {
	meta  Metadata
	table []PageDescriptor
	index map[string]int
}

// BuildCatalog builds the tough canvas catalog. It has no side effects;
// registering it with a harness is up to the caller.
func BuildCatalog() (*Catalog, error) {
	return NewCatalog(ToughCanvasMetadata(), ToughCanvasPages())
}

// MustBuildCatalog is BuildCatalog for literal data that is known to be valid.
func MustBuildCatalog() *Catalog {
	c, err := BuildCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// NewCatalog validates pages and builds a catalog over a private copy of them.
// A duplicate name or malformed URL yields a *ConfigurationError.
func NewCatalog(meta Metadata, pages []PageDescriptor) (*Catalog, error) {
	if strings.TrimSpace(meta.Name) == "" {
		return nil, newConfigurationError(meta.Name, "", "name", "catalog name must not be empty")
	}

	if err := validatePages(meta.Name, pages); err != nil {
		return nil, err
	}

	table := make([]PageDescriptor, len(pages))
	index := make(map[string]int, len(pages))
	for i, p := range pages {
		table[i] = p.clone()
		index[p.Name] = i
	}

	return &Catalog{
		meta:  meta,
		table: table,
		index: index,
	}, nil
}

// Name returns the catalog's identifier.
func (c *Catalog) Name() string {
	return c.meta.Name
}

// Description returns the catalog's one-line description.
func (c *Catalog) Description() string {
	return c.meta.Description
}

// Metadata returns the suite-level metadata.
func (c *Catalog) Metadata() Metadata {
	return c.meta
}

// Archive returns where recorded data for this catalog is stored.
func (c *Catalog) Archive() ArchiveInfo {
	return c.meta.Archive
}

// Pages returns the enabled pages in execution order.
func (c *Catalog) Pages() []PageDescriptor {
	pages := make([]PageDescriptor, 0, len(c.table))
	for _, p := range c.table {
		if p.Enabled {
			pages = append(pages, p.clone())
		}
	}
	return pages
}

// AllPages returns every defined page, disabled ones included.
func (c *Catalog) AllPages() []PageDescriptor {
	pages := make([]PageDescriptor, len(c.table))
	for i, p := range c.table {
		pages[i] = p.clone()
	}
	return pages
}

// Disabled returns the pages that are defined but excluded from execution.
func (c *Catalog) Disabled() []PageDescriptor {
	var pages []PageDescriptor
	for _, p := range c.table {
		if !p.Enabled {
			pages = append(pages, p.clone())
		}
	}
	return pages
}

// Len returns the number of enabled pages.
func (c *Catalog) Len() int {
	n := 0
	for _, p := range c.table {
		if p.Enabled {
			n++
		}
	}
	return n
}

// Names returns the enabled page names in execution order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.table))
	for _, p := range c.table {
		if p.Enabled {
			names = append(names, p.Name)
		}
	}
	return names
}

// Lookup finds an enabled page by name. Disabled pages are not found.
func (c *Catalog) Lookup(name string) (PageDescriptor, bool) {
	i, ok := c.index[name]
	if !ok || !c.table[i].Enabled {
		return PageDescriptor{}, false
	}
	return c.table[i].clone(), true
}

// Filter returns a catalog restricted to the named enabled pages, in catalog order.
// An empty name list returns c unchanged.
func (c *Catalog) Filter(names ...string) (*Catalog, error) {
	if len(names) == 0 {
		return c, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := c.Lookup(name); !ok {
			return nil, newConfigurationError(c.meta.Name, name, "name", "no enabled page with this name")
		}
		wanted[name] = true
	}

	var pages []PageDescriptor
	for _, p := range c.table {
		if p.Enabled && wanted[p.Name] {
			pages = append(pages, p)
		}
	}

	return NewCatalog(c.meta, pages)
}

func (c *Catalog) String() string {
	return fmt.Sprintf("%s (%d pages, %d disabled)", c.meta.Name, c.Len(), len(c.table)-c.Len())
}
