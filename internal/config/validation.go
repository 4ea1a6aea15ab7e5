package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var goValidator = newValidator()

// newValidator reports fields by their environment variable so errors point
// at what the operator has to change.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("env"), ",")
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidationErrors lists every rule a configuration broke.
type ValidationErrors struct {
	Errors []string `json:"errors"`
}

func (ve ValidationErrors) Error() string {
	return strings.Join(ve.Errors, "; ")
}

// ValidateStruct validates s with its `validate` tags. It returns nil when
// validation passes.
func ValidateStruct(s any) error {
	err := goValidator.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := ValidationErrors{Errors: make([]string, 0, len(ve))}
	for _, e := range ve {
		rule := e.ActualTag()
		if e.Param() != "" {
			rule += "=" + e.Param()
		}
		out.Errors = append(out.Errors, fmt.Sprintf("%s: %s (got %q)", e.Field(), rule, fmt.Sprint(e.Value())))
	}
	return out
}
