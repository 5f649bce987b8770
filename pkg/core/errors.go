// Package core holds the shared error taxonomy for the advisor.
package core

import "fmt"

// ErrorType categorizes errors.
type ErrorType string

const (
	// ErrConfiguration means a required credential or setting is missing.
	ErrConfiguration ErrorType = "configuration_error"
	// ErrPermission means a device or capability was denied (microphone).
	ErrPermission ErrorType = "permission_error"
	// ErrTransport covers network and socket failures.
	ErrTransport ErrorType = "transport_error"
	// ErrParse covers malformed structured blocks or grounding chunks.
	ErrParse ErrorType = "parse_error"
	// ErrDecode covers malformed audio byte payloads.
	ErrDecode ErrorType = "decode_error"
	// ErrFormat covers malformed base64 or wire encodings.
	ErrFormat ErrorType = "format_error"
)

// Error is the advisor's error value. Failures are degraded at the
// orchestrator or session boundary; nothing of this type should reach a
// rendering layer.
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error wrapping.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same type.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type && (t.Message == "" || t.Message == e.Message)
}

// NewConfigurationError creates a configuration error.
func NewConfigurationError(message string) *Error {
	return &Error{Type: ErrConfiguration, Message: message}
}

// NewPermissionError creates a permission error wrapping the device failure.
func NewPermissionError(message string, err error) *Error {
	return &Error{Type: ErrPermission, Message: message, Err: err}
}

// NewTransportError creates a transport error wrapping the network failure.
func NewTransportError(message string, err error) *Error {
	return &Error{Type: ErrTransport, Message: message, Err: err}
}

// NewParseError creates a parse error.
func NewParseError(message string, err error) *Error {
	return &Error{Type: ErrParse, Message: message, Err: err}
}

// NewDecodeError creates a decode error.
func NewDecodeError(message string) *Error {
	return &Error{Type: ErrDecode, Message: message}
}

// NewFormatError creates a format error wrapping the encoding failure.
func NewFormatError(message string, err error) *Error {
	return &Error{Type: ErrFormat, Message: message, Err: err}
}

// TypeOf returns the ErrorType of err if it is an *Error, or "" otherwise.
func TypeOf(err error) ErrorType {
	if e, ok := err.(*Error); ok {
		return e.Type
	}
	return ""
}
