package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "url":
		return "must be a valid URL"
	case "cachefmt":
		return "must be an image MIME type like image/png"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

// ValidationError represents a single validation finding with context
type ValidationError struct {
	ItemName  string // The configuration element the finding belongs to (e.g. "osm", "osm_cache")
	FieldPath string // Dot-notation field path (e.g. "caches.osm_cache.format")
	Message   string // Human-readable error message
	Informal  bool   // Advisory finding that must not block a write
}

func (e ValidationError) String() string {
	if e.ItemName != "" {
		return fmt.Sprintf("[%s] %s: %s", e.ItemName, e.FieldPath, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FieldPath, e.Message)
}

// ValidationErrors is a collection of validation findings
type ValidationErrors []ValidationError

// InformalOnly returns true when every finding is advisory.
func (ve ValidationErrors) InformalOnly() bool {
	for _, e := range ve {
		if !e.Informal {
			return false
		}
	}
	return true
}

// Blocking returns the findings that must reject the document.
func (ve ValidationErrors) Blocking() ValidationErrors {
	var out ValidationErrors
	for _, e := range ve {
		if !e.Informal {
			out = append(out, e)
		}
	}
	return out
}

// Informal returns the advisory findings.
func (ve ValidationErrors) Informal() ValidationErrors {
	var out ValidationErrors
	for _, e := range ve {
		if e.Informal {
			out = append(out, e)
		}
	}
	return out
}

// Messages returns the rendered findings, one entry per finding.
func (ve ValidationErrors) Messages() []string {
	out := make([]string, 0, len(ve))
	for _, e := range ve {
		out = append(out, e.String())
	}
	return out
}

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("validation failed with %d error(s):\n", len(ve)))
	for i, err := range ve {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.String()))
	}
	return sb.String()
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Register custom validators
	if err := validate.RegisterValidation("cachefmt", validateCacheFormat); err != nil {
		panic(err)
	}

	// Register function to get field name from "yaml" tag
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validator: tile format must be an image MIME type (image/png, image/jpeg, ...)
func validateCacheFormat(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	rest, ok := strings.CutPrefix(value, "image/")
	return ok && rest != ""
}
