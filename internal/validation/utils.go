package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/raffihq/recipe-api/internal/errs"
)

// Validatable is implemented by request payload types that know how to
// validate themselves.
type Validatable interface {
	Validate() error
}

// CustomValidationError is a validation issue that cannot be expressed
// through validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that
// satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// BindAndValidate binds the request into payload and validates it.
//
// payload must be a pointer so echo's Bind can populate it. Validation
// failures come back as a 400 *errs.HTTPError with field errors.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError("Malformed request payload", false, nil, nil, nil)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}

	return nil
}

func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		var customValidationErrors CustomValidationErrors
		if customValidationErrors, ok = err.(CustomValidationErrors); !ok {
			return "Validation failed", []errs.FieldError{{Field: "", Error: err.Error()}}
		}
		for _, cerr := range customValidationErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: cerr.Field,
				Error: cerr.Message,
			})
		}
	}

	for _, ferr := range validationErrors {
		field := strings.ToLower(ferr.Field())
		var msg string

		switch ferr.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if ferr.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", ferr.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", ferr.Param())
			}

		case "max":
			if ferr.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", ferr.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", ferr.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", ferr.Param())

		case "email":
			msg = "must be a valid email address"

		case "url":
			msg = "must be a valid URL"

		case "gte":
			msg = fmt.Sprintf("must be at least %s", ferr.Param())

		case "dive":
			msg = "some items are invalid"

		default:
			if ferr.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, ferr.Tag(), ferr.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, ferr.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}

// idListRegex matches comma-separated positive integers ("1,2,3").
var idListRegex = regexp.MustCompile(`^\d+(,\d+)*$`)

// IsValidIDList reports whether s is a comma-separated list of numeric
// IDs, the format accepted by the recipe list filters.
func IsValidIDList(s string) bool {
	return idListRegex.MatchString(s)
}
