// Package errs defines the error kinds the API surface distinguishes.
// Every failure in the core is one of these kinds; handlers map kinds to
// status codes without matching on message text.
package errs

import "github.com/cockroachdb/errors"

// Kind markers. Attached with errors.Mark so wrapping preserves the kind.
var (
	ErrValidation = errors.New("validation error")
	ErrParse      = errors.New("parse error")
	ErrProvider   = errors.New("provider error")
	ErrStore      = errors.New("store error")
	ErrNotFound   = errors.New("not found")
)

// Validation returns a new validation-kind error.
func Validation(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrValidation)
}

// Parse wraps a malformed-input failure.
func Parse(err error, msg string) error {
	return errors.Mark(errors.Wrap(err, msg), ErrParse)
}

// Provider wraps a model-backend failure.
func Provider(err error, msg string) error {
	return errors.Mark(errors.Wrap(err, msg), ErrProvider)
}

// Providerf returns a new provider-kind error.
func Providerf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrProvider)
}

// Store wraps an underlying persistence failure.
func Store(err error, msg string) error {
	return errors.Mark(errors.Wrap(err, msg), ErrStore)
}

// NotFound returns a new not-found error.
func NotFound(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrNotFound)
}

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
func IsParse(err error) bool      { return errors.Is(err, ErrParse) }
func IsProvider(err error) bool   { return errors.Is(err, ErrProvider) }
func IsStore(err error) bool      { return errors.Is(err, ErrStore) }
func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
