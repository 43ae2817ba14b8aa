package esign

// errors.go defines the error types used by the esign package

import (
	"encoding/json"
	"fmt"
)

// EsignError represents a structured error from the esign package.
type EsignError struct {
	// code identifies the error category
	code ErrorCode

	// message is a human-readable error message
	message string

	// wrapped is the optional underlying error
	wrapped error
}

func (e *EsignError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *EsignError) Code() ErrorCode { return e.code }
func (e *EsignError) Unwrap() error   { return e.wrapped }

// ErrorCode identifies the category of an EsignError.
type ErrorCode int

const (
	// ErrCodeInvalidEnvelope is used when an envelope fails structural
	// validation (missing document, missing signer, no clientUserId, etc.)
	ErrCodeInvalidEnvelope ErrorCode = iota + 1

	// ErrCodeDocument is used when the document source cannot be read
	// (missing file, unreadable fixture, invalid fixture JSON)
	ErrCodeDocument

	// ErrCodeTransport is used when a remote call fails without a structured
	// API error body (network failure, malformed response)
	ErrCodeTransport

	// ErrCodeInternalError is used for unexpected failures
	ErrCodeInternalError
)

// NewValidationError creates an envelope validation error.
//
// The returned error will have code ErrCodeInvalidEnvelope.
func NewValidationError(msg string) error {
	return &EsignError{code: ErrCodeInvalidEnvelope, message: msg}
}

// WrapValidationError wraps an existing error as an envelope validation error.
//
// The returned error will have code ErrCodeInvalidEnvelope.
func WrapValidationError(err error, msg string) error {
	return &EsignError{code: ErrCodeInvalidEnvelope, message: msg, wrapped: err}
}

// NewDocumentError creates a document source error.
// Use this when the document file or envelope fixture cannot be loaded.
//
// The returned error will have code ErrCodeDocument.
func NewDocumentError(msg string) error {
	return &EsignError{code: ErrCodeDocument, message: msg}
}

// WrapDocumentError wraps an existing error as a document source error.
//
// The returned error will have code ErrCodeDocument.
func WrapDocumentError(err error, msg string) error {
	return &EsignError{code: ErrCodeDocument, message: msg, wrapped: err}
}

// WrapTransportError wraps an existing error as a transport error.
// Use this for network failures and responses without a structured API error
// body.
//
// The returned error will have code ErrCodeTransport.
func WrapTransportError(err error, msg string) error {
	return &EsignError{code: ErrCodeTransport, message: msg, wrapped: err}
}

// NewInternalError creates an internal error for unexpected failures.
//
// The returned error will have code ErrCodeInternalError.
func NewInternalError(msg string) error {
	return &EsignError{code: ErrCodeInternalError, message: msg}
}

// APIError is a non-success response from the signing API carrying a
// structured error body.
//
// The API error body has the shape {"errorCode": "...", "message": "..."}.
// Body holds the raw response body so callers can render it verbatim.
type APIError struct {
	// StatusCode is the HTTP status returned by the signing API
	StatusCode int

	// ErrorCode is the API's error code (e.g. "AUTHORIZATION_INVALID_TOKEN")
	ErrorCode string

	// Message is the API's error message
	Message string

	// Body is the raw structured error body
	Body json.RawMessage
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("signing API error %d (%s): %s", e.StatusCode, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("signing API error %d: %s", e.StatusCode, e.Message)
}
