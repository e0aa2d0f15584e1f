package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevels(t *testing.T) {
	log := NewLogger("debug", "development")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)

	log = NewLogger("not-a-level", "production")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
}

func TestNewLoggerWithOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger("bogus", "production", WithOutput(buf))

	entry := parseLogOutput(buf)
	require.NotNil(t, entry)
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "bogus", entry["log_level"])

	buf.Reset()
	log.Info("ready")
	assert.Contains(t, buf.String(), `"msg":"ready"`)
}

func TestArbitrageLoggerEventAnalyzed(t *testing.T) {
	log, buf := setupTestLogger()
	arbLogger := NewArbitrageLogger(log)

	arbLogger.LogEventAnalyzed("evt1", "arbitrage", 2, 0.8)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "evt1", logEntry["event_id"])
	assert.Equal(t, "arbitrage", logEntry["component"])
	assert.Equal(t, "info", logEntry["level"])
	assert.Equal(t, 0.8, logEntry["sum_inverse_odds"])
}

func TestArbitrageLoggerNoArbitrageIsDebug(t *testing.T) {
	log, buf := setupTestLogger()
	arbLogger := NewArbitrageLogger(log)

	arbLogger.LogEventAnalyzed("evt2", "no_arbitrage", 2, 1.0156)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "debug", logEntry["level"])
}

func TestArbitrageLoggerEventFailed(t *testing.T) {
	log, buf := setupTestLogger()
	arbLogger := NewArbitrageLogger(log)

	arbLogger.LogEventFailed("evt3", "extract_error: bookmakers is not a list")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "extract_error: bookmakers is not a list", logEntry["error"])
}

func TestArbitrageLoggerBatchCompleted(t *testing.T) {
	log, buf := setupTestLogger()
	arbLogger := NewArbitrageLogger(log)

	arbLogger.LogBatchCompleted(10, 3, 1500*time.Microsecond)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(10), logEntry["events"])
	assert.Equal(t, float64(3), logEntry["arbitrages"])
	assert.Equal(t, 1.5, logEntry["duration_ms"])
}

func TestOddsLoggerRequest(t *testing.T) {
	log, buf := setupTestLogger()
	oddsLogger := NewOddsLogger(log)

	oddsLogger.LogOddsRequest("soccer_epl", "us", "h2h", 12, true, 4.2)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "odds_api", logEntry["component"])
	assert.Equal(t, "soccer_epl", logEntry["sport"])
	assert.Equal(t, true, logEntry["cache_hit"])
}

func TestOddsLoggerError(t *testing.T) {
	log, buf := setupTestLogger()
	oddsLogger := NewOddsLogger(log)

	oddsLogger.LogOddsError("nba", errors.New("boom"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "boom", logEntry["error"])
	assert.Equal(t, "error", logEntry["level"])
}

func TestRequestLoggerServerErrorLevel(t *testing.T) {
	log, buf := setupTestLogger()
	reqLogger := NewRequestLogger(log)

	reqLogger.LogRequest("req-1", "POST", "/arbitrage", 502, 64, time.Millisecond)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "error", logEntry["level"])
	assert.Equal(t, "/arbitrage", logEntry["path"])
	assert.Equal(t, float64(502), logEntry["status"])
}

func BenchmarkArbitrageLoggerEventAnalyzed(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	arbLogger := NewArbitrageLogger(log)

	for i := 0; i < b.N; i++ {
		arbLogger.LogEventAnalyzed("evt1", "arbitrage", 2, 0.8)
	}
}

func TestOddsLoggerWarnings(t *testing.T) {
	log, buf := setupTestLogger()
	oddsLogger := NewOddsLogger(log)

	oddsLogger.LogSampleFallback("soccer_epl")
	assert.Contains(t, buf.String(), `"level":"warning"`)
	assert.Contains(t, buf.String(), `"sport":"soccer_epl"`)

	buf.Reset()
	oddsLogger.LogCacheError(errors.New("redis down"))
	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "Odds cache write failed", logEntry["msg"])
	assert.Equal(t, "redis down", logEntry["error"])
}
