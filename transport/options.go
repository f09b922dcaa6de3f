package transport

import (
	"maps"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "gapiclient/1.0"

	HeaderContentType   = "Content-Type"
	HeaderXRequestID    = "X-Request-ID"
	HeaderAuthorization = "Authorization"
	HeaderUserAgent     = "User-Agent"

	ContentTypeJSON = "application/json"
)

type Option func(*Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if httpClient, ok := c.httpClient.(*http.Client); ok {
			httpClient.Timeout = timeout
		}
	}
}

func WithHTTPClient(httpClient Doer) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithRequestIDKey(key any) Option {
	return func(c *Client) {
		c.requestIDKey = key
	}
}

func WithDefaultHeaders(headers map[string]string) Option {
	return func(c *Client) {
		maps.Copy(c.defaultHeaders, headers)
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

func WithTokenProvider(provider TokenProvider) Option {
	return func(c *Client) {
		c.tokenProvider = provider
	}
}

// WithRateLimiter applies a client-side quota limiter. Every call waits for
// a token before the request is sent.
func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

func WithMaxResponseSize(size int64) Option {
	return func(c *Client) {
		c.maxResponseSize = size
	}
}

type CallOption func(*callConfig)

type callConfig struct {
	headers   map[string]string
	query     map[string]string
	timeout   time.Duration
	requestID string
}

func WithHeader(key, value string) CallOption {
	return func(cc *callConfig) {
		if cc.headers == nil {
			cc.headers = make(map[string]string)
		}

		cc.headers[key] = value
	}
}

// WithHeaders merges the given headers into the outgoing request verbatim.
func WithHeaders(headers map[string]string) CallOption {
	return func(cc *callConfig) {
		if cc.headers == nil {
			cc.headers = make(map[string]string)
		}

		maps.Copy(cc.headers, headers)
	}
}

func WithCallTimeout(timeout time.Duration) CallOption {
	return func(cc *callConfig) {
		cc.timeout = timeout
	}
}

func WithRequestID(requestID string) CallOption {
	return func(cc *callConfig) {
		cc.requestID = requestID
	}
}

func WithQuery(key, value string) CallOption {
	return func(cc *callConfig) {
		if cc.query == nil {
			cc.query = make(map[string]string)
		}

		cc.query[key] = value
	}
}

func WithQueryParams(params map[string]string) CallOption {
	return func(cc *callConfig) {
		if cc.query == nil {
			cc.query = make(map[string]string)
		}

		maps.Copy(cc.query, params)
	}
}
