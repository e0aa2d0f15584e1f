package arbitrage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// twoBookEvent mirrors a typical provider payload: two bookmakers pricing an h2h market.
const twoBookEvent = `{
	"id": "evt1",
	"sport_key": "soccer_epl",
	"home_team": "Team A",
	"away_team": "Team B",
	"bookmakers": [
		{"key": "dk", "title": "DraftKings", "markets": [
			{"key": "h2h", "outcomes": [{"name": "Team A", "price": 2.1}, {"name": "Team B", "price": 1.8}]}
		]},
		{"key": "bmg", "title": "BetMGM", "markets": [
			{"key": "h2h", "outcomes": [{"name": "Team A", "price": 2.05}, {"name": "Team B", "price": 1.85}]}
		]}
	]
}`

const arbEvent = `{
	"id": "arb1",
	"sport_key": "tennis_atp",
	"home_team": "A",
	"away_team": "B",
	"bookmakers": [
		{"title": "BookOne", "markets": [{"key": "h2h", "outcomes": [{"name": "A", "price": 2.5}, {"name": "B", "price": 1.5}]}]},
		{"title": "BookTwo", "markets": [{"key": "h2h", "outcomes": [{"name": "A", "price": 1.5}, {"name": "B", "price": 2.5}]}]}
	]
}`

func decodeEvent(t *testing.T, raw string) RawEvent {
	t.Helper()
	var event RawEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &event))
	return event
}

func decodeList(t *testing.T, raw string) []any {
	t.Helper()
	var list []any
	require.NoError(t, json.Unmarshal([]byte(raw), &list))
	return list
}

func offers(pairs ...any) []BestOffer {
	out := make([]BestOffer, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, BestOffer{Outcome: pairs[i].(string), Odds: pairs[i+1].(float64), Bookmaker: "book"})
	}
	return out
}
