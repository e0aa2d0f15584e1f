package oddsapi

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/yourusername/outclass-odds/internal/arbitrage"
)

// DecodeEvents decodes a JSON array of events. Numbers are kept as json.Number.
// Elements that are not objects decode to a nil event so that batch analysis can
// report them individually.
func DecodeEvents(r io.Reader) ([]arbitrage.RawEvent, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return ToEvents(raw), nil
}

// ToEvents converts already-decoded JSON values into events.
func ToEvents(raw []any) []arbitrage.RawEvent {
	events := make([]arbitrage.RawEvent, len(raw))
	for i, v := range raw {
		if obj, ok := v.(map[string]any); ok {
			events[i] = obj
		}
	}
	return events
}
