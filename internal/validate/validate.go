// Package validate wraps github.com/go-playground/validator/v10 with a
// stable, package-local error type, so that the rest of this repository
// never needs to import the validator library directly or depend on the
// shape of validator.ValidationErrors.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var instance = validator.New(validator.WithRequiredStructEnabled())

// FieldError describes one struct field that failed validation.
type FieldError struct {
	Field string
	Tag   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s failed %q validation", e.Field, e.Tag)
}

// Errors collects every FieldError a single Struct call produced.
type Errors struct {
	fields []*FieldError
}

func (e *Errors) Error() string {
	parts := make([]string, len(e.fields))
	for i, f := range e.fields {
		parts[i] = f.Error()
	}
	return strings.Join(parts, "; ")
}

// Fields returns the individual field errors.
func (e *Errors) Fields() []*FieldError {
	return e.fields
}

// Struct validates s against its `validate:"..."` struct tags and returns a
// *Errors describing every violation, or nil if s is valid.
func Struct(s any) error {
	if err := instance.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			out := &Errors{}
			for _, fe := range verrs {
				out.fields = append(out.fields, &FieldError{Field: fe.Namespace(), Tag: fe.Tag()})
			}
			return out
		}
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}
