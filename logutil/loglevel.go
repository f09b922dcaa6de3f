package logutil

import (
	"io"

	"github.com/rs/zerolog"
)

// NewLogger builds a structured logger writing to w at the named level.
// Unknown level names fall back to info.
func NewLogger(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).Level(ParseZerologLevel(level)).With().Timestamp().Logger()
}

func ParseZerologLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}
