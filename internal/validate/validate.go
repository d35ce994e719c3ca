// Package validate wraps go-playground/validator with the custom rules used by
// the request DTOs. The validator instance caches struct metadata, so a single
// shared instance is used for the whole process.
package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())

	// ISBNs are stored as bare digit strings, 10 or 13 long.
	_ = val.RegisterValidation("isbndigits", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != 10 && len(s) != 13 {
			return false
		}
		for _, c := range s {
			if c < '0' || c > '9' {
				return false
			}
		}
		return true
	})

	return val
}

// Struct validates a request DTO against its tags. The returned error is a
// validator.ValidationErrors, which the response normalizer turns into a 400.
func Struct(s any) error {
	return v.Struct(s)
}

// Messages renders field errors as human-readable strings for the error
// envelope's details section.
func Messages(err error) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required":
			out = append(out, fmt.Sprintf("%s is required", field))
		case "email":
			out = append(out, fmt.Sprintf("%s must be a valid email address", field))
		case "min":
			out = append(out, fmt.Sprintf("%s must be at least %s characters or items", field, fe.Param()))
		case "max":
			out = append(out, fmt.Sprintf("%s must be at most %s characters or items", field, fe.Param()))
		case "gte":
			out = append(out, fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param()))
		case "oneof":
			out = append(out, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		case "isbndigits":
			out = append(out, fmt.Sprintf("%s must be 10 or 13 digits", field))
		default:
			out = append(out, fmt.Sprintf("%s is invalid", field))
		}
	}
	return out
}
