package carpolling

import (
	"errors"
	"fmt"
)

// ErrorKind identifies one of the closed set of request failure classes.
type ErrorKind int

const (
	// KindInvalidURL means the computed endpoint could not be parsed as a
	// URL. No network call was made.
	KindInvalidURL ErrorKind = iota + 1
	// KindRequestFailed means the transport could not complete the
	// exchange, or the request body could not be encoded.
	KindRequestFailed
	// KindInvalidResponse means a non-2xx response arrived whose body did
	// not carry a structured error. StatusCode is 0 when no usable HTTP
	// status was received.
	KindInvalidResponse
	// KindServerError means a non-2xx response carried a structured error
	// payload; Message holds the server-supplied text.
	KindServerError
	// KindDecodingFailed means a 2xx response body did not decode into
	// the expected type.
	KindDecodingFailed
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid_url"
	case KindRequestFailed:
		return "request_failed"
	case KindInvalidResponse:
		return "invalid_response"
	case KindServerError:
		return "server_error"
	case KindDecodingFailed:
		return "decoding_failed"
	}
	return "unknown"
}

// APIError is the single error type returned by the client. Kind is always
// set; StatusCode, Message and Err are populated per kind.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindInvalidURL:
		return "invalid URL"
	case KindRequestFailed:
		return fmt.Sprintf("request failed: %s", e.Message)
	case KindInvalidResponse:
		return fmt.Sprintf("invalid response: HTTP %d", e.StatusCode)
	case KindServerError:
		return fmt.Sprintf("server error: %s", e.Message)
	case KindDecodingFailed:
		return "failed to decode response"
	}
	return "unknown error"
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func invalidURL(err error) *APIError {
	return &APIError{Kind: KindInvalidURL, Err: err}
}

func requestFailed(detail string, err error) *APIError {
	return &APIError{Kind: KindRequestFailed, Message: detail, Err: err}
}

func invalidResponse(statusCode int) *APIError {
	return &APIError{Kind: KindInvalidResponse, StatusCode: statusCode}
}

func serverError(statusCode int, message string) *APIError {
	return &APIError{Kind: KindServerError, StatusCode: statusCode, Message: message}
}

func decodingFailed(err error) *APIError {
	return &APIError{Kind: KindDecodingFailed, Err: err}
}

// AsAPIError unwraps err into an *APIError when one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err is an *APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == kind
}
