package transport

import "errors"

var (
	ErrRequestFailed    = errors.New("transport: request failed")
	ErrDecodeResponse   = errors.New("transport: failed to decode response")
	ErrCreateRequest    = errors.New("transport: failed to create request")
	ErrEncodeBody       = errors.New("transport: failed to encode request body")
	ErrAuthFailed       = errors.New("transport: authentication failed")
	ErrRateLimited      = errors.New("transport: rate limiter rejected request")
	ErrResponseTooLarge = errors.New("transport: response body too large")
)
