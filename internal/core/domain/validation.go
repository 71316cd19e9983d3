package domain

import (
	"errors"
	"strings"
)

var ErrValidation = errors.New("validation failed")

// FieldGeneral keys errors that do not belong to a single form field.
const FieldGeneral = "general"

// ErrorKind classifies a FieldError.
type ErrorKind string

const (
	KindRequired    ErrorKind = "required"
	KindMismatch    ErrorKind = "mismatch"
	KindDuplicate   ErrorKind = "duplicate"
	KindCredentials ErrorKind = "credentials"
)

// FieldError is a single user-facing problem attached to a form field.
type FieldError struct {
	Field   string
	Kind    ErrorKind
	Message string
}

// FieldErrors is an ordered set holding at most one error per field.
// Setting a field that already has an error replaces the message but keeps
// the field's original position.
type FieldErrors []FieldError

// Set records err, replacing any previous error on the same field.
func (e *FieldErrors) Set(err FieldError) {
	for i := range *e {
		if (*e)[i].Field == err.Field {
			(*e)[i] = err
			return
		}
	}
	*e = append(*e, err)
}

// Has reports whether field carries an error.
func (e FieldErrors) Has(field string) bool {
	_, ok := e.Get(field)
	return ok
}

// Get returns the error recorded for field.
func (e FieldErrors) Get(field string) (FieldError, bool) {
	for _, fe := range e {
		if fe.Field == field {
			return fe, true
		}
	}
	return FieldError{}, false
}

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// Is lets callers match on ErrInvalidCredentials for login failures and on
// ErrValidation for everything else.
func (e FieldErrors) Is(target error) bool {
	switch target {
	case ErrValidation:
		return len(e) > 0
	case ErrInvalidCredentials:
		for _, fe := range e {
			if fe.Kind == KindCredentials {
				return true
			}
		}
	}
	return false
}
