// Package validation checks structs against their validate tags and turns
// failures into user errors.
package validation

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/eoinhurrell/mindmeld/internal/errors"
)

var (
	once     sync.Once
	validate *validator.Validate

	invalidFilename = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
)

// Validator returns the shared validator instance
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Struct validates s and reports the first failing field as a UserError
// attributed to file
func Struct(s any, file string) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.WrapError(err, "validation", file)
	}

	fe := fieldErrs[0]
	if fe.Tag() == "required" {
		return errors.NewMissingFieldError(fe.Field(), file)
	}
	return errors.NewInvalidValueError(fe.Field(), describe(fe), file)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "hostname_port":
		return "must be host:port"
	case "dir":
		return "must be an existing directory"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// ValidateMarkdownExtension validates markdown file extensions
func ValidateMarkdownExtension(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	allowed := []string{".md", ".markdown", ".mdown", ".mkd"}

	for _, allowedExt := range allowed {
		if ext == allowedExt {
			return nil
		}
	}

	return fmt.Errorf("file must have a markdown extension (.md, .markdown, .mdown, .mkd)")
}

// ValidateYAMLExtension validates YAML file extensions
func ValidateYAMLExtension(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		return nil
	}
	return fmt.Errorf("file must have a YAML extension (.yaml, .yml)")
}

// SanitizeFilename removes invalid characters from filenames
func SanitizeFilename(filename string) string {
	sanitized := invalidFilename.ReplaceAllString(filename, "_")
	sanitized = strings.Trim(sanitized, " .")

	if sanitized == "" {
		sanitized = "untitled"
	}

	return sanitized
}
