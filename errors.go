package vertexai

import (
	"encoding/json"
	"fmt"
)

// VertexError is the base interface for all errors raised by this library.
// It exposes the error kind name so callers can branch behavior without
// type assertions, while still supporting errors.As for typed access.
type VertexError interface {
	error
	Name() string
	Unwrap() error
}

// baseError is the common implementation for all errors.
type baseError struct {
	name    string
	message string
	err     error
}

func (e *baseError) Error() string {
	return fmt.Sprintf("[VertexAI.%s]: %s", e.name, e.message)
}

func (e *baseError) Name() string {
	return e.name
}

func (e *baseError) Unwrap() error {
	return e.err
}

// GoogleAuthError indicates the auth configuration is structurally present
// but unusable, e.g. the required cloud-platform scope is missing or
// default credentials could not be resolved.
type GoogleAuthError struct {
	baseError
}

// NewGoogleAuthError creates a new auth configuration error.
func NewGoogleAuthError(message string, err error) *GoogleAuthError {
	return &GoogleAuthError{
		baseError: baseError{
			name:    "GoogleAuthError",
			message: message,
			err:     err,
		},
	}
}

// IllegalArgumentError indicates internally inconsistent construction
// arguments, e.g. mismatched project IDs.
type IllegalArgumentError struct {
	baseError
}

// NewIllegalArgumentError creates a new argument consistency error.
func NewIllegalArgumentError(message string) *IllegalArgumentError {
	return &IllegalArgumentError{
		baseError: baseError{
			name:    "IllegalArgumentError",
			message: message,
		},
	}
}

// ClientError indicates malformed per-call input, such as line breaks in
// header values. These are caller faults and are never worth retrying.
type ClientError struct {
	baseError
}

// NewClientError creates a new malformed-input error.
func NewClientError(message string) *ClientError {
	return &ClientError{
		baseError: baseError{
			name:    "ClientError",
			message: message,
		},
	}
}

// APIError is the structured error payload returned by the Vertex AI API.
type APIError struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Details []json.RawMessage `json:"details,omitempty"`
}

// ClientErrorAPI indicates the remote API rejected the request with a 4xx
// status. It carries the parsed API error body for caller inspection.
type ClientErrorAPI struct {
	baseError
	StatusCode int
	APIError   *APIError
}

// NewClientErrorAPI creates a new API rejection error from a 4xx response.
func NewClientErrorAPI(statusCode int, message string, apiErr *APIError) *ClientErrorAPI {
	return &ClientErrorAPI{
		baseError: baseError{
			name:    "ClientErrorApi",
			message: message,
		},
		StatusCode: statusCode,
		APIError:   apiErr,
	}
}

// GoogleGenerativeAIError indicates a remote or transport failure outside
// the 4xx range: network unreachable, canceled calls, or 5xx responses.
// Potentially transient, but this library never retries on its own.
type GoogleGenerativeAIError struct {
	baseError
	StatusCode int
}

// NewGoogleGenerativeAIError creates a new server or transport error.
func NewGoogleGenerativeAIError(statusCode int, message string, err error) *GoogleGenerativeAIError {
	return &GoogleGenerativeAIError{
		baseError: baseError{
			name:    "GoogleGenerativeAIError",
			message: message,
			err:     err,
		},
		StatusCode: statusCode,
	}
}
