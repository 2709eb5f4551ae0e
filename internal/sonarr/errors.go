package sonarr

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorType int

const (
	// ErrTransport covers connection failures and timeouts
	ErrTransport ErrorType = iota
	// ErrDecode covers responses that are not the expected JSON
	ErrDecode
	// ErrAPI covers non-2xx responses
	ErrAPI
	ErrUnknown
)

func (t ErrorType) String() string {
	switch t {
	case ErrTransport:
		return "Transport"
	case ErrDecode:
		return "Decode"
	case ErrAPI:
		return "API"
	default:
		return "Unknown"
	}
}

// maxBodyLen bounds how much of a response body is kept on an Error.
const maxBodyLen = 512

type Error struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Body       string
	Context    map[string]any
	Cause      error
}

func NewError(errorType ErrorType, message string) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
	}
}

func NewErrorWithCause(errorType ErrorType, message string, cause error) *Error {
	e := NewError(errorType, message)
	e.Cause = cause
	return e
}

func newStatusError(message string, statusCode int, body []byte) *Error {
	e := NewError(ErrAPI, message)
	e.StatusCode = statusCode
	e.Body = truncate(strings.TrimSpace(string(body)), maxBodyLen)
	return e
}

func (e *Error) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s] %s", e.Type, e.Message))

	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("status: %d", e.StatusCode))
	}

	if len(e.Context) > 0 {
		var ctxParts []string
		for k, v := range e.Context {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("context: %s", strings.Join(ctxParts, ", ")))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}

	return strings.Join(parts, " | ")
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) WithContext(key string, value any) *Error {
	e.Context[key] = value
	return e
}

// IsErrorType reports whether err wraps an *Error of the given type.
func IsErrorType(err error, errorType ErrorType) bool {
	var sErr *Error
	if errors.As(err, &sErr) {
		return sErr.Type == errorType
	}
	return false
}

// Classify returns the ErrorType of err, or ErrUnknown for foreign errors.
func Classify(err error) ErrorType {
	var sErr *Error
	if errors.As(err, &sErr) {
		return sErr.Type
	}
	return ErrUnknown
}

// Advice returns an operator-facing hint for the class of err.
func Advice(err error) string {
	var sErr *Error
	if !errors.As(err, &sErr) {
		return "Please review the error details above"
	}

	switch sErr.Type {
	case ErrTransport:
		return "Please check that Sonarr is running and SONARR_URL is reachable"
	case ErrDecode:
		return "Please check that SONARR_URL points at Sonarr and not a proxy or login page"
	case ErrAPI:
		if sErr.StatusCode == 401 || sErr.StatusCode == 403 {
			return "Please check that SONARR_API_KEY is correct"
		}
		return "Please review the Sonarr logs for the failed request"
	default:
		return "Please review the error details above"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
