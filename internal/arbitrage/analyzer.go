package arbitrage

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/outclass-odds/internal/logger"
)

// Recorder receives one observation per analyzed event and one per batch.
type Recorder interface {
	RecordEvent(status string, duration time.Duration)
	RecordBatch(events int)
}

type noopRecorder struct{}

func (noopRecorder) RecordEvent(string, time.Duration) {}
func (noopRecorder) RecordBatch(int)                   {}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(a *Analyzer) {
		if r != nil {
			a.recorder = r
		}
	}
}

// WithWorkers bounds the number of events analyzed concurrently. Values below 2
// keep the batch sequential.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// Analyzer runs the extract → select → evaluate pipeline over events.
// It holds no per-call state and is safe for concurrent use.
type Analyzer struct {
	logger   *logger.ArbitrageLogger
	recorder Recorder
	workers  int
}

// NewAnalyzer creates an analyzer. A nil logger discards output.
func NewAnalyzer(log *logrus.Logger, opts ...Option) *Analyzer {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	a := &Analyzer{
		logger:   logger.NewArbitrageLogger(log),
		recorder: noopRecorder{},
		workers:  1,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeEvent evaluates a single event. Insufficient data is reported through
// Result.Reason; the error is non-nil only for malformed events.
func (a *Analyzer) AnalyzeEvent(event RawEvent, marketKey string, stake float64) (Result, error) {
	if event == nil {
		return Result{}, ErrInvalidEvent
	}
	if marketKey == "" {
		marketKey = DefaultMarketKey
	}

	id := event.ID()
	rows, err := ExtractEvent(event, marketKey)
	if err != nil {
		return errorResult(id, extractErrorPrefix, err), nil
	}
	if len(rows) == 0 {
		return reasonResult(id, ReasonNoMarketData), nil
	}

	result := Evaluate(SelectBest(rows), stake)
	if result.Reason != "" {
		return reasonResult(id, result.Reason), nil
	}
	if result.Error != "" {
		result.EventID = id
		return result, nil
	}

	result.EventID = id
	result.Sport = stringify(event["sport_key"])
	result.HomeTeam = stringify(event["home_team"])
	result.AwayTeam = stringify(event["away_team"])
	return result, nil
}

// AnalyzeBatch evaluates every event and returns exactly one result per event, in
// input order. Failures of one event, including panics, become an error result
// for that event and never affect the others.
func (a *Analyzer) AnalyzeBatch(events []RawEvent, marketKey string, stake float64) []Result {
	start := time.Now()
	results := make([]Result, len(events))

	if a.workers > 1 && len(events) > 1 {
		var g errgroup.Group
		g.SetLimit(a.workers)
		for i := range events {
			g.Go(func() error {
				results[i] = a.analyzeIsolated(events[i], marketKey, stake)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, event := range events {
			results[i] = a.analyzeIsolated(event, marketKey, stake)
		}
	}

	found := 0
	for _, r := range results {
		if r.Arbitrage {
			found++
		}
	}
	a.recorder.RecordBatch(len(events))
	a.logger.LogBatchCompleted(len(events), found, time.Since(start))
	return results
}

func (a *Analyzer) analyzeIsolated(event RawEvent, marketKey string, stake float64) (result Result) {
	start := time.Now()
	var id *string

	defer func() {
		if r := recover(); r != nil {
			result = errorResult(id, analysisErrorPrefix, fmt.Errorf("%v", r))
		}
		if result.Error != "" {
			a.logger.LogEventFailed(idString(id), result.Error)
		} else {
			a.logger.LogEventAnalyzed(idString(id), result.Status(), len(result.BestOffers), sumOrZero(result.SumInverseOdds))
		}
		a.recorder.RecordEvent(result.Status(), time.Since(start))
	}()

	id = event.ID()
	res, err := a.AnalyzeEvent(event, marketKey, stake)
	if err != nil {
		return errorResult(id, analysisErrorPrefix, err)
	}
	return res
}

func idString(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}

func sumOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
