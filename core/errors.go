package core

import "github.com/pkg/errors"

// ErrDataUnavailable is returned when a snapshot could not be fetched from the store.
// Callers may retry and re-run the computation with a fresh snapshot.
var ErrDataUnavailable = errors.New("data unavailable")

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

type unavailable struct {
	source string
	err    error
}

// NewDataUnavailableError marks err as a store fetch failure for `source`.
func NewDataUnavailableError(source string, err error) error {
	return &unavailable{source: source, err: err}
}

func (u unavailable) Error() string {
	return "fetching " + u.source + ": " + ErrDataUnavailable.Error() + ": " + u.err.Error()
}

func (u unavailable) Cause() error { return ErrDataUnavailable }

func (u unavailable) Unwrap() error { return u.err }

// IsDataUnavailable reports whether err (or its cause) is a store fetch failure.
func IsDataUnavailable(err error) bool {
	return err != nil && errors.Cause(err) == ErrDataUnavailable
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
