package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// ValidatePageURL accepts absolute http(s) URLs with a host and file:// fixture references.
func ValidatePageURL(raw string) bool {
	if raw == "" || strings.IndexFunc(raw, unicode.IsSpace) >= 0 {
		return false
	}

	if strings.HasPrefix(raw, localFilePrefix) {
		return len(raw) > len(localFilePrefix)
	}

	if !strings.HasPrefix(raw, remoteHTTPPrefix) && !strings.HasPrefix(raw, remoteHTTPSPrefix) {
		return false
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return parsed.Host != ""
}

func newPageValidator() *validator.Validate {
	validate := validator.New()

	_ = validate.RegisterValidation("pageurl", func(fl validator.FieldLevel) bool {
		return ValidatePageURL(fl.Field().String())
	})

	return validate
}

// validatePages checks every descriptor and the uniqueness of names.
func validatePages(catalogName string, pages []PageDescriptor) error {
	if len(pages) == 0 {
		return newConfigurationError(catalogName, "", "pages", "catalog has no pages")
	}

	validate := newPageValidator()
	seen := make(map[string]int, len(pages))

	for i, p := range pages {
		if err := validate.Struct(p); err != nil {
			return describeValidationError(catalogName, p, err)
		}

		if first, ok := seen[p.Name]; ok {
			return newConfigurationError(catalogName, p.Name, "name",
				fmt.Sprintf("duplicate page name (entries %d and %d)", first, i))
		}
		seen[p.Name] = i
	}

	return nil
}

func describeValidationError(catalogName string, p PageDescriptor, err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return newConfigurationError(catalogName, p.Name, "", err.Error())
	}

	fe := validationErrs[0]
	reason := "failed '" + fe.Tag() + "' check"
	switch fe.Tag() {
	case "required":
		reason = "must not be empty"
	case "pageurl":
		reason = "malformed URL '" + p.URL + "': expected http(s):// or file://"
	}
	return newConfigurationError(catalogName, p.Name, strings.ToLower(fe.Field()), reason)
}
