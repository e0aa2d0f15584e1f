package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ArbitrageLogger provides dedicated logging for arbitrage analysis.
type ArbitrageLogger struct {
	*logrus.Entry
}

// NewArbitrageLogger creates a new arbitrage logger.
func NewArbitrageLogger(baseLogger *logrus.Logger) *ArbitrageLogger {
	return &ArbitrageLogger{
		Entry: baseLogger.WithField("component", "arbitrage"),
	}
}

// LogEventAnalyzed logs the outcome of a single event analysis.
func (al *ArbitrageLogger) LogEventAnalyzed(eventID, status string, offers int, sumInverseOdds float64) {
	entry := al.WithFields(logrus.Fields{
		"event_id":         eventID,
		"status":           status,
		"best_offers":      offers,
		"sum_inverse_odds": sumInverseOdds,
	})
	if status == "arbitrage" {
		entry.Info("Arbitrage found")
		return
	}
	entry.Debug("Event analyzed")
}

// LogEventFailed logs an event that could not be analyzed.
func (al *ArbitrageLogger) LogEventFailed(eventID, reason string) {
	al.WithFields(logrus.Fields{
		"event_id": eventID,
		"error":    reason,
	}).Warn("Event analysis failed")
}

// LogBatchCompleted logs a summary of a batch analysis.
func (al *ArbitrageLogger) LogBatchCompleted(events, arbitrages int, duration time.Duration) {
	al.WithFields(logrus.Fields{
		"events":      events,
		"arbitrages":  arbitrages,
		"duration_ms": float64(duration.Microseconds()) / 1000.0,
	}).Info("Batch analysis completed")
}
