// Package validation binds and validates request payloads.
//
// Request structs declare rules through `validate` struct tags and
// implement Validatable; BindAndValidate turns failures into 400
// responses with per-field errors.
package validation

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Struct runs tag-based validation on v. Request types typically
// implement Validatable by delegating to this.
func Struct(v any) error {
	return validate.Struct(v)
}
