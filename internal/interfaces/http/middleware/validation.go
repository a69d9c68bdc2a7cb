package middleware

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator makes validation errors report JSON field names
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	}
}

// ValidationDetails turns binding errors into per-field messages.
// It returns nil for errors that are not validation failures, such as malformed JSON.
func ValidationDetails(err error) map[string][]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make(map[string][]string, len(verrs))
	for _, e := range verrs {
		details[e.Field()] = append(details[e.Field()], validationMessage(e))
	}
	return details
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		if e.Kind() == reflect.String {
			return "Ensure this field has at least " + e.Param() + " characters."
		}
		return "Ensure this value is greater than or equal to " + e.Param() + "."
	case "max":
		if e.Kind() == reflect.String {
			return "Ensure this field has no more than " + e.Param() + " characters."
		}
		return "Ensure this value is less than or equal to " + e.Param() + "."
	case "gte":
		return "Ensure this value is greater than or equal to " + e.Param() + "."
	case "lte":
		return "Ensure this value is less than or equal to " + e.Param() + "."
	case "uuid":
		return "Must be a valid UUID."
	case "oneof":
		return "Must be one of: " + e.Param() + "."
	default:
		return "Invalid value."
	}
}
