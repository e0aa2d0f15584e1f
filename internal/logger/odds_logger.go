package logger

import (
	"github.com/sirupsen/logrus"
)

// OddsLogger provides dedicated logging for odds-provider requests.
type OddsLogger struct {
	*logrus.Entry
}

// NewOddsLogger creates a new odds logger.
func NewOddsLogger(baseLogger *logrus.Logger) *OddsLogger {
	return &OddsLogger{
		Entry: baseLogger.WithField("component", "odds_api"),
	}
}

// LogOddsRequest logs a completed odds fetch.
func (ol *OddsLogger) LogOddsRequest(sport, regions, markets string, events int, cacheHit bool, latencyMs float64) {
	ol.WithFields(logrus.Fields{
		"sport":      sport,
		"regions":    regions,
		"markets":    markets,
		"events":     events,
		"cache_hit":  cacheHit,
		"latency_ms": latencyMs,
	}).Info("Odds fetched")
}

// LogOddsError logs a failed odds fetch.
func (ol *OddsLogger) LogOddsError(sport string, err error) {
	ol.WithFields(logrus.Fields{
		"sport": sport,
	}).WithError(err).Error("Odds fetch failed")
}

// LogSampleFallback logs that sample events were served because no API key is configured.
func (ol *OddsLogger) LogSampleFallback(sport string) {
	ol.WithField("sport", sport).Warn("No odds API key configured, serving sample events")
}

// LogCircuitBreakerOpen logs the circuit breaker tripping.
func (ol *OddsLogger) LogCircuitBreakerOpen(consecutiveErrors int, err error) {
	ol.WithField("consecutive_errors", consecutiveErrors).WithError(err).Error("Circuit breaker opened")
}

// LogCircuitBreakerHalfOpen logs a trial request being let through an open breaker.
func (ol *OddsLogger) LogCircuitBreakerHalfOpen(lastErr error) {
	ol.WithError(lastErr).Warn("Circuit breaker half-open, sending trial request")
}

// LogCircuitBreakerClosed logs the breaker closing after a successful request.
func (ol *OddsLogger) LogCircuitBreakerClosed() {
	ol.Info("Circuit breaker closed")
}

// LogCacheError logs a failed cache write. Fetches still succeed without the cache.
func (ol *OddsLogger) LogCacheError(err error) {
	ol.WithError(err).Warn("Odds cache write failed")
}
