package core

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

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
			return err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// APIErrorKind classifies a failed remote call.
type APIErrorKind int

const (
	// KindNetwork: the request never reached the server.
	KindNetwork APIErrorKind = iota + 1
	// KindAuth: the server rejected the credential (401/403).
	KindAuth
	// KindValidation: any other 4xx carrying a server-supplied message.
	KindValidation
	// KindServer: 5xx, or a response whose shape does not match the schema.
	KindServer
)

// APIError is the uniform error surfaced for remote-call failures.
// Message prefers the server's structured error field and falls back to the
// transport-level error message.
type APIError struct {
	Kind       APIErrorKind
	StatusCode int // 0 for network errors
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.Err }

func NewNetworkError(err error) error {
	return &APIError{Kind: KindNetwork, Err: err}
}

func NewAuthError(status int, msg string) error {
	return &APIError{Kind: KindAuth, StatusCode: status, Message: msg}
}

func NewRemoteValidationError(status int, msg string) error {
	return &APIError{Kind: KindValidation, StatusCode: status, Message: msg}
}

func NewServerError(status int, msg string, err error) error {
	return &APIError{Kind: KindServer, StatusCode: status, Message: msg, Err: err}
}

func apiErrorKind(err error) APIErrorKind {
	if apiErr, ok := errors.Cause(err).(*APIError); ok {
		return apiErr.Kind
	}
	return 0
}

func IsNetworkError(err error) bool { return apiErrorKind(err) == KindNetwork }
func IsAuthError(err error) bool    { return apiErrorKind(err) == KindAuth }
func IsServerError(err error) bool  { return apiErrorKind(err) == KindServer }

// IsValidationError reports whether err is a remote validation failure or a
// local field-level validation error.
func IsValidationError(err error) bool {
	if apiErrorKind(err) == KindValidation {
		return true
	}
	switch errors.Cause(err).(type) {
	case *ValidationError, validator.ValidationErrors:
		return true
	}
	return false
}
