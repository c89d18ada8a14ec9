package catalog

import (
	"fmt"

	"github.com/aleister1102/toughcanvas/internal/common"
)

// ConfigurationError reports a descriptor that cannot be part of a catalog.
// It is fatal to the catalog build.
type ConfigurationError struct {
	Catalog string
	Page    string
	Field   string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Page != "" {
		return fmt.Sprintf("catalog '%s': page '%s': field '%s': %s", e.Catalog, e.Page, e.Field, e.Reason)
	}
	return fmt.Sprintf("catalog '%s': field '%s': %s", e.Catalog, e.Field, e.Reason)
}

// Unwrap lets errors.Is match common.ErrInvalidConfiguration
func (e *ConfigurationError) Unwrap() error {
	return common.ErrInvalidConfiguration
}

func newConfigurationError(catalogName, pageName, field, reason string) *ConfigurationError {
	return &ConfigurationError{
		Catalog: catalogName,
		Page:    pageName,
		Field:   field,
		Reason:  reason,
	}
}
