// Package apperrors defines the typed failure taxonomy shared by the
// acquisition services and provider clients.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can choose remediation: configure a
// credential, wait out a quota, fix input, or check connectivity.
type Kind string

const (
	KindCredentialMissing Kind = "credential_missing"
	KindCredentialInvalid Kind = "credential_invalid"
	KindQuotaExceeded     Kind = "quota_exceeded"
	KindInvalidInput      Kind = "invalid_input"
	KindProviderError     Kind = "provider_error"
	KindTransportError    Kind = "transport_error"
	KindParseError        Kind = "parse_error"
	KindTimeout           Kind = "timeout"
	KindPartialData       Kind = "partial_data"
)

// Error is a classified provider or acquisition failure. StatusCode and Body
// are populated for HTTP provider rejections.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a classified error around an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// HTTPStatus creates a classified error for a provider HTTP rejection,
// retaining the status code and response body.
func HTTPStatus(kind Kind, statusCode int, body string) *Error {
	return &Error{
		Kind:       kind,
		Message:    fmt.Sprintf("provider returned %d", statusCode),
		StatusCode: statusCode,
		Body:       body,
	}
}

// KindOf returns the Kind of err, or an empty Kind when err is not an
// apperrors.Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
