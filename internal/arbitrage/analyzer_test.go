package arbitrage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	mu       sync.Mutex
	statuses []string
	batches  []int
}

func (f *fakeRecorder) RecordEvent(status string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, status)
}

func (f *fakeRecorder) RecordBatch(events int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, events)
}

// explodingStringer panics when a metadata field is rendered.
type explodingStringer struct{}

func (explodingStringer) String() string { panic("corrupt metadata") }

func TestAnalyzeEventNoArbitrage(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	result, err := analyzer.AnalyzeEvent(decodeEvent(t, twoBookEvent), "", DefaultStake)
	require.NoError(t, err)

	require.NotNil(t, result.EventID)
	assert.Equal(t, "evt1", *result.EventID)
	assert.Equal(t, "soccer_epl", *result.Sport)
	assert.Equal(t, "Team A", *result.HomeTeam)
	assert.Equal(t, "Team B", *result.AwayTeam)
	assert.False(t, result.Arbitrage)
	assert.Equal(t, []BestOffer{
		{Outcome: "Team A", Odds: 2.1, Bookmaker: "DraftKings"},
		{Outcome: "Team B", Odds: 1.85, Bookmaker: "BetMGM"},
	}, result.BestOffers)
	assert.InDelta(t, 1/2.1+1/1.85-1, *result.RequiredImprovement, 1e-6)
}

func TestAnalyzeEventArbitrage(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	result, err := analyzer.AnalyzeEvent(decodeEvent(t, arbEvent), DefaultMarketKey, 100)
	require.NoError(t, err)

	assert.True(t, result.Arbitrage)
	assert.Equal(t, 125.0, *result.Payout)
	assert.Equal(t, 25.0, *result.Profit)
	assert.Equal(t, 0.25, *result.ROI)
	assert.Equal(t, []Allocation{
		{Outcome: "A", Bookmaker: "BookOne", Odds: 2.5, Bet: 50, Payout: 125},
		{Outcome: "B", Bookmaker: "BookTwo", Odds: 2.5, Bet: 50, Payout: 125},
	}, result.Allocations)
}

func TestAnalyzeEventNoMarketData(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	for _, event := range []RawEvent{
		{"id": "empty", "bookmakers": []any{}},
		{"id": "empty"},
		decodeEvent(t, `{"id": "empty", "bookmakers": [{"title": "B", "markets": [{"key": "totals", "outcomes": [{"name": "Over", "price": 1.9}]}]}]}`),
	} {
		result, err := analyzer.AnalyzeEvent(event, DefaultMarketKey, 100)
		require.NoError(t, err)
		assert.Equal(t, ReasonNoMarketData, result.Reason)
		assert.Equal(t, "empty", *result.EventID)
		assert.False(t, result.Arbitrage)
	}
}

func TestAnalyzeEventInsufficientOutcomes(t *testing.T) {
	analyzer := NewAnalyzer(nil)
	event := decodeEvent(t, `{
		"id": "one",
		"bookmakers": [
			{"title": "B1", "markets": [{"key": "h2h", "outcomes": [{"name": "A", "price": 2.0}, {"name": "B", "price": "junk"}]}]},
			{"title": "B2", "markets": [{"key": "h2h", "outcomes": [{"name": "A", "price": 2.2}]}]}
		]
	}`)

	result, err := analyzer.AnalyzeEvent(event, DefaultMarketKey, 100)
	require.NoError(t, err)

	assert.Equal(t, ReasonInsufficientOutcomes, result.Reason)
	assert.Empty(t, result.BestOffers)
	assert.Nil(t, result.SumInverseOdds)
}

func TestAnalyzeEventMalformedBookmakers(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	result, err := analyzer.AnalyzeEvent(RawEvent{"id": "bad", "bookmakers": 12.0}, DefaultMarketKey, 100)
	require.NoError(t, err)

	assert.Contains(t, result.Error, "extract_error: ")
	assert.Contains(t, result.Error, ErrMalformedBookmakers.Error())
	assert.Equal(t, "error", result.Status())
}

func TestAnalyzeEventNumericID(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	result, err := analyzer.AnalyzeEvent(RawEvent{"id": 1234.0}, DefaultMarketKey, 100)
	require.NoError(t, err)

	require.NotNil(t, result.EventID)
	assert.Equal(t, "1234", *result.EventID)
}

func TestAnalyzeEventNilEvent(t *testing.T) {
	_, err := NewAnalyzer(nil).AnalyzeEvent(nil, DefaultMarketKey, 100)
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestAnalyzeBatchPreservesLengthAndOrder(t *testing.T) {
	events := []RawEvent{
		decodeEvent(t, twoBookEvent),
		nil,
		{"id": "empty", "bookmakers": []any{}},
		{"id": "bad", "bookmakers": "oops"},
		{"id": "boom", "sport_key": explodingStringer{}, "bookmakers": decodeEvent(t, arbEvent)["bookmakers"]},
		decodeEvent(t, arbEvent),
	}
	rec := &fakeRecorder{}
	analyzer := NewAnalyzer(nil, WithRecorder(rec))

	var results []Result
	assert.NotPanics(t, func() {
		results = analyzer.AnalyzeBatch(events, DefaultMarketKey, 100)
	})

	require.Len(t, results, len(events))
	assert.Equal(t, "evt1", *results[0].EventID)
	assert.Equal(t, "no_arbitrage", results[0].Status())

	assert.Nil(t, results[1].EventID)
	assert.Equal(t, "analysis_error: "+ErrInvalidEvent.Error(), results[1].Error)

	assert.Equal(t, ReasonNoMarketData, results[2].Reason)
	assert.Contains(t, results[3].Error, "extract_error: ")

	assert.Equal(t, "boom", *results[4].EventID)
	assert.Equal(t, "analysis_error: corrupt metadata", results[4].Error)

	assert.Equal(t, "arb1", *results[5].EventID)
	assert.True(t, results[5].Arbitrage)

	assert.Equal(t, []string{"no_arbitrage", "error", "no_market_data", "error", "error", "arbitrage"}, rec.statuses)
	assert.Equal(t, []int{len(events)}, rec.batches)
}

func TestAnalyzeBatchParallelMatchesSequential(t *testing.T) {
	events := make([]RawEvent, 0, 60)
	for i := 0; i < 20; i++ {
		events = append(events,
			decodeEvent(t, twoBookEvent),
			decodeEvent(t, arbEvent),
			RawEvent{"id": fmt.Sprintf("empty-%d", i)},
		)
	}

	sequential := NewAnalyzer(nil).AnalyzeBatch(events, DefaultMarketKey, 250)
	parallel := NewAnalyzer(nil, WithWorkers(8)).AnalyzeBatch(events, DefaultMarketKey, 250)

	require.Len(t, parallel, len(events))
	assert.Equal(t, sequential, parallel)
}

func TestAnalyzeBatchIsIdempotent(t *testing.T) {
	events := []RawEvent{decodeEvent(t, twoBookEvent), decodeEvent(t, arbEvent)}
	analyzer := NewAnalyzer(nil)

	first, err := json.Marshal(analyzer.AnalyzeBatch(events, DefaultMarketKey, 100))
	require.NoError(t, err)
	second, err := json.Marshal(analyzer.AnalyzeBatch(events, DefaultMarketKey, 100))
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
}

func TestAnalyzeBatchEmpty(t *testing.T) {
	results := NewAnalyzer(nil).AnalyzeBatch(nil, DefaultMarketKey, 100)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestAnalyzeBatchLogsArbitrage(t *testing.T) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	NewAnalyzer(log).AnalyzeBatch([]RawEvent{decodeEvent(t, arbEvent)}, DefaultMarketKey, 100)

	assert.Contains(t, buf.String(), `"msg":"Arbitrage found"`)
	assert.Contains(t, buf.String(), `"msg":"Batch analysis completed"`)
}

func TestResultJSONShape(t *testing.T) {
	analyzer := NewAnalyzer(nil)
	results := analyzer.AnalyzeBatch([]RawEvent{
		decodeEvent(t, arbEvent),
		decodeEvent(t, twoBookEvent),
		{"id": "none"},
	}, DefaultMarketKey, 100)

	var decoded []map[string]any
	raw, err := json.Marshal(results)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Subset(t, keys(decoded[0]), []string{"event_id", "sport", "home_team", "away_team", "best_offers", "arbitrage", "sum_inverse_odds", "payout", "profit", "roi", "allocations"})
	assert.NotContains(t, decoded[0], "required_improvement")

	assert.Subset(t, keys(decoded[1]), []string{"event_id", "best_offers", "arbitrage", "sum_inverse_odds", "required_improvement"})
	assert.NotContains(t, decoded[1], "payout")
	assert.NotContains(t, decoded[1], "allocations")

	assert.ElementsMatch(t, []string{"event_id", "arbitrage", "reason"}, keys(decoded[2]))
	assert.Equal(t, false, decoded[2]["arbitrage"])
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestAnalyzeEventOverflowingStake(t *testing.T) {
	result, err := NewAnalyzer(nil).AnalyzeEvent(decodeEvent(t, arbEvent), DefaultMarketKey, 1.7e308)
	require.NoError(t, err)

	require.NotNil(t, result.EventID)
	assert.Equal(t, "arb1", *result.EventID)
	assert.Equal(t, "error", result.Status())
	assert.Contains(t, result.Error, ErrNonFiniteAmount.Error())
}
