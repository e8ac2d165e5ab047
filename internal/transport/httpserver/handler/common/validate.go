package common

import (
	"errors"
	"reflect"
	"strings"

	"dues-app-go/internal/apperr"
	"github.com/go-playground/validator/v10"
)

var ErrValidation = apperr.Validation("validation_error", "Validation failed")

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("yearmonth", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if len(value) != 7 || value[4] != '-' {
			return false
		}
		for i, c := range value {
			if i == 4 {
				continue
			}
			if c < '0' || c > '9' {
				return false
			}
		}
		return value[5:] >= "01" && value[5:] <= "12"
	})
	return v
}

// Validate checks struct tags and returns a validation error listing each bad field.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ErrValidation.Wrap(err)
	}

	details := make([]FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return ErrValidation.WithDetails(details).Wrap(err)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "must be a valid email"
	case "uuid", "uuid4":
		return "must be a valid id"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "yearmonth":
		return "must be in YYYY-MM format"
	default:
		return "is invalid"
	}
}
