package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aleister1102/toughcanvas/internal/catalog"
	"github.com/aleister1102/toughcanvas/internal/common"
)

// loadCatalog returns the built-in catalog, or the one stored in path
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.BuildCatalog()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.WrapErrorf(err, "failed to read catalog file %s", path)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return catalog.LoadDocument(data, format)
}
