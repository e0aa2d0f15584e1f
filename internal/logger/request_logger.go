package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// RequestLogger provides access logging for the HTTP API.
type RequestLogger struct {
	*logrus.Entry
}

// NewRequestLogger creates a new request logger.
func NewRequestLogger(baseLogger *logrus.Logger) *RequestLogger {
	return &RequestLogger{
		Entry: baseLogger.WithField("component", "http"),
	}
}

// LogRequest logs a served request. Server errors are logged at error level.
func (rl *RequestLogger) LogRequest(requestID, method, path string, status, bytes int, duration time.Duration) {
	entry := rl.WithFields(logrus.Fields{
		"request_id":  requestID,
		"method":      method,
		"path":        path,
		"status":      status,
		"bytes":       bytes,
		"duration_ms": float64(duration.Microseconds()) / 1000.0,
	})
	if status >= 500 {
		entry.Error("Request failed")
		return
	}
	entry.Info("Request served")
}
