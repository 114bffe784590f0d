package observability

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// InitLogger installs the process-wide logger. level overrides the
// environment default when it parses; otherwise development logs at debug
// and everything else at info.
func InitLogger(serviceName, env, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(parseLevel(env, level))

	log.Logger = NewLogger(os.Stdout, serviceName, env)
	zerolog.DefaultContextLogger = &log.Logger
}

// NewLogger builds a service-tagged logger writing to w. Development output
// is human readable; other environments emit JSON with caller info.
func NewLogger(w io.Writer, serviceName, env string) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Str("service", serviceName).
			Logger()
	}
	return zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Str("service", serviceName).
		Logger()
}

func parseLevel(env, level string) zerolog.Level {
	if level != "" {
		if l, err := zerolog.ParseLevel(level); err == nil && l != zerolog.NoLevel {
			return l
		}
	}
	if env == "development" {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// LoggerFromContext returns the request logger, falling back to the global
// one, enriched with the active trace and span ids.
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	logger := *zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		logger = log.Logger
	}

	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return &logger
	}
	logger = logger.With().
		Str("trace_id", sc.TraceID().String()).
		Str("span_id", sc.SpanID().String()).
		Logger()
	return &logger
}
