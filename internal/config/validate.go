// File: internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their config key rather than their Go name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStruct runs the struct's validate tags and flattens the result into one readable error
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	// Drop the root struct name, e.g. "Config.gcp.bucket" -> "gcp.bucket"
	key := fe.Namespace()
	if i := strings.Index(key, "."); i >= 0 {
		key = key[i+1:]
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", key)
	case "required_with":
		return fmt.Sprintf("%s is required when %s is set", key, fe.Param())
	case "excluded_with":
		return fmt.Sprintf("%s cannot be combined with %s", key, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", key, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", key)
	default:
		return fmt.Sprintf("%s failed '%s' validation", key, fe.Tag())
	}
}
