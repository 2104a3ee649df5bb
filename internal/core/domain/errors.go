package domain

import (
	"errors"
	"net/http"
)

var (
	ErrUsernameTaken       = errors.New("username already exists")
	ErrDuplicateRoomNumber = errors.New("duplicate room number")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrUnknownField        = errors.New("unknown field")
	ErrMissingID           = errors.New("entity has no id")
	ErrInvalidField        = errors.New("invalid field value")

	// ErrUnauthorized and ErrNotFound match a FetchError by response status.
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")

	// ErrSuperseded is returned to a list refresh whose result was discarded
	// because a newer refresh was issued.
	ErrSuperseded = errors.New("superseded by a newer request")
)

// AuthError reports a failed login or registration. Status is zero when the
// request never got a response.
type AuthError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

// FetchError reports a failed call against a resource collection, whether the
// transport failed or the server answered with a non-2xx status.
type FetchError struct {
	Resource string
	Op       string
	Status   int
	Message  string
	Err      error
}

func (e *FetchError) Error() string { return e.Message }

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// ValidationError is a client-side pre-check failure. No request was sent.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

// Invalid builds a ValidationError for field wrapping the sentinel err.
func Invalid(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: err.Error(), Err: err}
}

// UserMessage returns the text shown to an operator for err. Errors outside the
// three client error kinds get the fallback.
func UserMessage(err error, fallback string) string {
	var ae *AuthError
	var fe *FetchError
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &ae) && ae.Message != "":
		return ae.Message
	case errors.As(err, &fe) && fe.Message != "":
		return fe.Message
	}
	return fallback
}
