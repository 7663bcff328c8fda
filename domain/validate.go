package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStruct checks v's validate tags and reports the first failure as a
// ValidationError on prefix + the field's JSON name.
func ValidateStruct(prefix string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		f := fields[0]
		return &ValidationError{Field: prefix + f.Field(), Reason: "failed " + f.Tag() + " check"}
	}
	return &ValidationError{Field: strings.TrimSuffix(prefix, "."), Reason: err.Error()}
}
