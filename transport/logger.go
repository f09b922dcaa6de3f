package transport

import (
	"net/http"

	"github.com/rs/zerolog"
)

type Logger interface {
	LogRequest(req *http.Request, requestID string)
	LogResponse(resp *http.Response, requestID string)
}

type nopLogger struct{}

func (nopLogger) LogRequest(*http.Request, string)   {}
func (nopLogger) LogResponse(*http.Response, string) {}

// ZerologLogger logs outgoing calls at debug level.
type ZerologLogger struct {
	logger zerolog.Logger
}

func NewZerologLogger(logger zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{logger: logger}
}

func (l *ZerologLogger) LogRequest(req *http.Request, requestID string) {
	l.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("request_id", requestID).
		Msg("Sending API request")
}

func (l *ZerologLogger) LogResponse(resp *http.Response, requestID string) {
	l.logger.Debug().
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Msg("Received API response")
}

// WithLogger enables request/response logging on the client.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = NewZerologLogger(logger)
	}
}
