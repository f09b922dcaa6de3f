// Package apierror normalizes the error bodies returned by Google-style
// REST APIs into a single error value. Upstream services answer non-2xx
// requests with one of several JSON envelopes (or plain text); callers only
// ever see an *APIError carrying a message and a numeric code.
package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrAPIError = errors.New("apierror: api returned an error")

// ErrorItem is a structured sub-error as reported by backend services,
// e.g. {"domain":"global","reason":"backendError","message":"..."}.
type ErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type APIError struct {
	Code    int
	Message string
	Errors  []ErrorItem
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("apierror: api returned status %d", e.Code)
}

func (e *APIError) Is(target error) bool {
	return errors.Is(target, ErrAPIError)
}

func (e *APIError) Unwrap() error {
	return ErrAPIError
}

type errorEnvelope struct {
	Error            json.RawMessage `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

type errorObject struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Errors  []ErrorItem `json:"errors"`
}

// Normalize converts a non-2xx response body into an *APIError. It accepts:
//
//   - {"error": {"code": N, "message": "..."}}
//   - {"error": {"errors": [...], "code": N, "message": "..."}}
//   - {"error": "invalid_grant", "error_description": "..."}
//   - any non-JSON body, taken verbatim as the message
//
// The code is the inner error.code when present, otherwise statusCode.
func Normalize(statusCode int, body []byte) *APIError {
	raw := strings.TrimSpace(string(body))

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		return &APIError{Code: statusCode, Message: raw, Errors: nil}
	}

	// OAuth-style flat form: error holds a bare string code.
	var flat string
	if err := json.Unmarshal(envelope.Error, &flat); err == nil {
		return &APIError{Code: statusCode, Message: flat, Errors: nil}
	}

	var obj errorObject
	if err := json.Unmarshal(envelope.Error, &obj); err != nil {
		return &APIError{Code: statusCode, Message: raw, Errors: nil}
	}

	apiErr := &APIError{
		Code:    statusCode,
		Message: obj.Message,
		Errors:  obj.Errors,
	}

	if obj.Code != 0 {
		apiErr.Code = obj.Code
	}

	return apiErr
}

func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	return nil, false
}
