package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is one failed constraint, keyed by its message code.
type FieldError struct {
	Field string
	Code  string
	Param string
}

// Error holds every field that failed validation.
type Error struct {
	Fields []FieldError
}

// Error implements the error interface
func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Code))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// FieldCodes indexes the failures by field. The first failure of a field wins.
func (e *Error) FieldCodes() map[string]FieldError {
	out := make(map[string]FieldError, len(e.Fields))
	for _, f := range e.Fields {
		if _, seen := out[f.Field]; !seen {
			out[f.Field] = f
		}
	}
	return out
}

// Validator wraps the go-playground validator.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator that reports fields by their form or json name.
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	return &Validator{validate: validate}
}

// Validate returns *Error when i violates its struct tags.
func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	out := &Error{Fields: make([]FieldError, 0, len(errs))}
	for _, fe := range errs {
		out.Fields = append(out.Fields, FieldError{
			Field: fe.Field(),
			Code:  codeFor(fe.Tag()),
			Param: fe.Param(),
		})
	}
	sort.Slice(out.Fields, func(i, j int) bool { return out.Fields[i].Field < out.Fields[j].Field })
	return out
}

// codeFor maps validator tags onto message codes.
func codeFor(tag string) string {
	switch tag {
	case "required":
		return "validation.required"
	case "min", "max", "len":
		return "validation.size." + tag
	default:
		return "validation.invalid"
	}
}
