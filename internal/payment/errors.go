package payment

import (
	"errors"
	"fmt"
)

// Kind classifies a payment error.
type Kind string

const (
	KindAuthentication Kind = "authentication"
	KindValidation     Kind = "validation"
	KindNetwork        Kind = "network"
	KindProvider       Kind = "provider"
	KindConfiguration  Kind = "configuration"
)

// Error codes reported to tool callers.
const (
	CodeAuthentication     = "AUTHENTICATION_ERROR"
	CodeMissingAuthHeaders = "MISSING_AUTH_HEADERS"
	CodeValidation         = "VALIDATION_ERROR"
	CodeNetwork            = "NETWORK_ERROR"
	CodeProvider           = "PROVIDER_ERROR"
	CodeConfiguration      = "CONFIGURATION_ERROR"
	CodeInternal           = "INTERNAL_ERROR"
)

// Error is the single error type returned by the payment core.
// StatusCode and Body are only set for provider errors caused by a non-2xx reply.
type Error struct {
	Kind       Kind
	Code       string
	Message    string
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, code, msg string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Err: err}
}

// NewAuthenticationError reports absent or invalid dealer credentials.
func NewAuthenticationError(msg string) *Error {
	return newError(KindAuthentication, CodeAuthentication, msg, nil)
}

// NewValidationError reports malformed payment fields.
func NewValidationError(msg string) *Error {
	return newError(KindValidation, CodeValidation, msg, nil)
}

// NewNetworkError reports a transport failure talking to the gateway.
func NewNetworkError(err error) *Error {
	return newError(KindNetwork, CodeNetwork, fmt.Sprintf("Request failed: %v", err), err)
}

// NewProviderError wraps an unexpected failure while talking to the gateway.
func NewProviderError(msg string, err error) *Error {
	return newError(KindProvider, CodeProvider, msg, err)
}

// NewStatusError reports a non-2xx gateway reply.
func NewStatusError(status int, body string) *Error {
	e := newError(KindProvider, CodeProvider, fmt.Sprintf("API error (HTTP %d): %s", status, body), nil)
	e.StatusCode = status
	e.Body = body
	return e
}

// NewConfigurationError reports invalid startup configuration.
func NewConfigurationError(msg string, err error) *Error {
	return newError(KindConfiguration, CodeConfiguration, msg, err)
}

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsKind reports whether err is a payment error of the given kind.
func IsKind(err error, kind Kind) bool {
	pe, ok := AsError(err)
	return ok && pe.Kind == kind
}
