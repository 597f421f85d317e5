package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the different ways a fetch can fail
type ErrorType string

const (
	ErrorTypeUnrecognizedURL    ErrorType = "unrecognized_url"
	ErrorTypeNetwork            ErrorType = "network"
	ErrorTypeMalformedResponse  ErrorType = "malformed_response"
	ErrorTypeMissingMediaFields ErrorType = "missing_media_fields"
	ErrorTypeFilesystem         ErrorType = "filesystem"
)

// Error represents a pipeline error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// Wrap creates a typed error around a cause. The cause's text becomes part of
// the message.
func Wrap(errorType ErrorType, err error, message string) *Error {
	if err != nil {
		message = fmt.Sprintf("%s: %v", message, err)
	}
	return &Error{Type: errorType, Message: message, Err: err}
}

// TypeOf returns the ErrorType of err, or "" if err is not a typed error
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ""
}

// IsType reports whether err is a typed error of the given type
func IsType(err error, errorType ErrorType) bool {
	return err != nil && TypeOf(err) == errorType
}

// IsInvalidURL reports whether err means no media URL could be derived from
// the input. Both an unrecognized URL and a lookup response without media
// fields count.
func IsInvalidURL(err error) bool {
	switch TypeOf(err) {
	case ErrorTypeUnrecognizedURL, ErrorTypeMissingMediaFields:
		return true
	default:
		return false
	}
}
