// Package logger provides a wrapper around logrus for structured logging.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Option adjusts a logger built by NewLogger.
type Option func(*logrus.Logger)

// WithOutput redirects log output, e.g. to stderr for commands whose stdout is data.
func WithOutput(w io.Writer) Option {
	return func(l *logrus.Logger) {
		l.SetOutput(w)
	}
}

// NewLogger builds the application logger. The environment falls back to the
// ENVIRONMENT variable; production gets JSON lines, anything else human-readable text.
// An unknown level is reported once and replaced with info.
func NewLogger(logLevel, environment string, opts ...Option) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(formatterFor(environment))

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	for _, opt := range opts {
		opt(log)
	}
	if err != nil {
		log.WithField("log_level", logLevel).Warn("Unknown log level, using info")
	}
	return log
}

func formatterFor(environment string) logrus.Formatter {
	if environment == "" {
		environment = os.Getenv("ENVIRONMENT")
	}
	if environment == "production" {
		return &logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano}
	}
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
		ForceColors:     environment == "development",
	}
}
