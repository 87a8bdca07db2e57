// Package validation checks configuration structs and request models.
//
// Struct tag validation goes through go-playground/validator with the
// non-standard notblank rule registered, and reports fields by their json
// (or mapstructure) names:
//
//	type RegisterInfo struct {
//	    PhoneNumber string `json:"phone_number" validate:"notblank"`
//	}
//	err := validation.Validate(info)
//
// Values that are not struct fields, like command line arguments, use the
// chaining Validator:
//
//	err := validation.New().
//	    Required("path", path).
//	    Pattern("path", path, `^/`).
//	    Err()
package validation
