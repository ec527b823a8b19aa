package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger
type Logger struct {
	zerolog.Logger
}

// New creates a new logger instance. Development gets a console writer at
// debug level, every other environment emits JSON at info level.
func New(serviceName string, environment string) *Logger {
	var output io.Writer = os.Stdout
	level := zerolog.InfoLevel

	if environment == "development" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		level = zerolog.DebugLevel
	}

	return NewWithWriter(output, serviceName).withLevel(level)
}

// NewWithWriter builds a JSON logger writing to w.
func NewWithWriter(w io.Writer, serviceName string) *Logger {
	logger := zerolog.New(w).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	return &Logger{Logger: logger}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

func (l *Logger) withLevel(level zerolog.Level) *Logger {
	return &Logger{Logger: l.Logger.Level(level)}
}

// WithRequestID returns a logger with the request ID attached
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.Logger.With().Str("request_id", requestID).Logger(),
	}
}

// WithViewID returns a logger with the admin view ID attached
func (l *Logger) WithViewID(viewID string) *Logger {
	return &Logger{
		Logger: l.Logger.With().Str("view_id", viewID).Logger(),
	}
}

// WithOrderID returns a logger with the order ID attached
func (l *Logger) WithOrderID(orderID string) *Logger {
	return &Logger{
		Logger: l.Logger.With().Str("order_id", orderID).Logger(),
	}
}

// WithCorrelationID returns a logger with the correlation ID attached
func (l *Logger) WithCorrelationID(correlationID string) *Logger {
	return &Logger{
		Logger: l.Logger.With().Str("correlation_id", correlationID).Logger(),
	}
}

// WithComponent returns a logger with the component name attached
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger: l.Logger.With().Str("component", component).Logger(),
	}
}

