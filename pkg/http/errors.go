package http

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorKind tags an APIError with the layer that produced it.
type ErrorKind string

const (
	KindNetwork ErrorKind = "NetworkError"
	KindServer  ErrorKind = "ServerError"
)

const (
	CodeNetworkError = "NETWORK_ERROR"
	CodeUnknownError = "UNKNOWN_ERROR"

	MessageNetworkError = "Failed to connect to the server"
	MessageUnknownError = "An unknown error occurred"
)

// APIError is the single error shape returned by Connector requests.
// Network errors carry the transport failure in Details and Err;
// server errors carry the decoded backend error body.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Code       string
	Message    string
	Details    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsNetwork reports whether the request never produced a usable response.
func (e *APIError) IsNetwork() bool {
	return e.Kind == KindNetwork
}

// NewNetworkError wraps a transport-level failure.
func NewNetworkError(err error) *APIError {
	apiErr := &APIError{
		Kind:    KindNetwork,
		Code:    CodeNetworkError,
		Message: MessageNetworkError,
		Err:     err,
	}
	if err != nil {
		apiErr.Details = err.Error()
	}
	return apiErr
}

// AsAPIError extracts an APIError from an error chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

type errorBody struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

// decodeErrorResponse turns a non-2xx body into a server APIError.
// A body that is not a JSON object is reported as a network error.
func decodeErrorResponse(statusCode int, body []byte) *APIError {
	var decoded *errorBody
	if err := json.Unmarshal(body, &decoded); err != nil {
		return NewNetworkError(fmt.Errorf("decode error response (HTTP %d): %w", statusCode, err))
	}
	if decoded == nil {
		return NewNetworkError(fmt.Errorf("decode error response (HTTP %d): empty body", statusCode))
	}

	apiErr := &APIError{
		Kind:       KindServer,
		StatusCode: statusCode,
		Code:       decoded.Code,
		Message:    decoded.Message,
		Details:    rawDetails(decoded.Details),
	}
	if apiErr.Code == "" {
		apiErr.Code = CodeUnknownError
	}
	if apiErr.Message == "" {
		apiErr.Message = MessageUnknownError
	}

	return apiErr
}

func rawDetails(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	return string(raw)
}
