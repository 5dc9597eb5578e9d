package helpers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	return v
}

// ValidationDetails is the body of a 400: errors about the request as a whole
// and errors per field.
type ValidationDetails struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

func NewValidationDetails() *ValidationDetails {
	return &ValidationDetails{FormErrors: []string{}, FieldErrors: map[string][]string{}}
}

func (d *ValidationDetails) AddField(field, msg string) {
	d.FieldErrors[field] = append(d.FieldErrors[field], msg)
}

func (d *ValidationDetails) AddForm(msg string) {
	d.FormErrors = append(d.FormErrors, msg)
}

func (d *ValidationDetails) Empty() bool {
	return len(d.FormErrors) == 0 && len(d.FieldErrors) == 0
}

// Validate checks input against its validate tags. It returns nil when the
// input is valid.
func Validate(input interface{}) *ValidationDetails {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	details := NewValidationDetails()
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		details.AddForm(err.Error())
		return details
	}
	for _, fe := range fieldErrs {
		details.AddField(fe.Field(), message(fe))
	}
	return details
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "Required"
	case "min":
		if isString {
			return fmt.Sprintf("Must contain at least %s character(s)", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("Must contain at most %s character(s)", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	}
	return "Invalid value"
}
