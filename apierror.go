package chatclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrorClass defines a public type used by chatclient APIs.
//
// ErrorClass instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ErrorClass uint8

const (
	// ClassNetwork is an exported constant or variable used by the chat client.
	ClassNetwork ErrorClass = iota
	// ClassAuth is an exported constant or variable used by the chat client.
	ClassAuth
	// ClassValidation is an exported constant or variable used by the chat client.
	ClassValidation
	// ClassServer is an exported constant or variable used by the chat client.
	ClassServer
)

// APIError is the one error shape presentation code receives from the
// client. Structured 4xx/5xx bodies pass through unchanged in Body; when no
// structured body exists the Message falls back to a generic pair so no raw
// transport error ever reaches the caller bare.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Body       json.RawMessage

	cause error
}

// Error describes the error operation and its observable behavior.
func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("chatclient: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("chatclient: %s (status %d): %s", e.Code, e.StatusCode, e.Message)
}

// Unwrap exposes the underlying transport error, if any.
func (e *APIError) Unwrap() error {
	return e.cause
}

// Is maps the 401 class onto [ErrUnauthorized] so callers can use errors.Is
// without inspecting status codes.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// Class buckets the error per the client taxonomy: network, auth (401),
// validation (other 4xx), server (5xx).
func (e *APIError) Class() ErrorClass {
	switch {
	case e.StatusCode == 0:
		return ClassNetwork
	case e.StatusCode == http.StatusUnauthorized:
		return ClassAuth
	case e.StatusCode >= 500:
		return ClassServer
	default:
		return ClassValidation
	}
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newNetworkError(err error) *APIError {
	return &APIError{
		Code:    "network_error",
		Message: "unable to reach the server",
		cause:   err,
	}
}

// decodeAPIError drains resp.Body and builds the error for a non-2xx
// response. The structured body, when present, passes through verbatim.
func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Code:       "api_error",
		Message:    http.StatusText(resp.StatusCode),
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var parsed errorBody
	if json.Unmarshal(raw, &parsed) == nil {
		apiErr.Body = json.RawMessage(raw)
		if parsed.Error != "" {
			apiErr.Message = parsed.Error
		} else if parsed.Message != "" {
			apiErr.Message = parsed.Message
		}
	}

	return apiErr
}

// IsUnauthorized reports whether err belongs to the 401 class.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
