package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/domapp/portal/internal/core/domain"
)

// requiredMessages holds the text shown when a registration field is left empty.
var requiredMessages = map[string]string{
	"username":         "Username is required.",
	"email":            "Email is required.",
	"password":         "Password is required.",
	"password_confirm": "Password confirmation is required.",
}

// newValidator returns a validator that reports fields by their form name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return v
}

// presenceErrors runs the struct tags of in and converts every failure into
// a FieldError keyed by form field name.
func presenceErrors(v *validator.Validate, in any) (domain.FieldErrors, error) {
	err := v.Struct(in)
	if err == nil {
		return nil, nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, err
	}

	errs := make(domain.FieldErrors, 0, len(ve))
	for _, fe := range ve {
		errs.Set(fieldError(fe))
	}
	return errs, nil
}

// fieldError converts a single ValidationError into a user-facing FieldError.
func fieldError(fe validator.FieldError) domain.FieldError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		msg, ok := requiredMessages[field]
		if !ok {
			msg = field + " is required."
		}
		return domain.FieldError{Field: field, Kind: domain.KindRequired, Message: msg}
	default:
		return domain.FieldError{Field: field, Kind: domain.ErrorKind(fe.Tag()), Message: field + " is invalid."}
	}
}
