package arbitrage

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Alternative field names, in resolution order.
var (
	bookmakerNameFields = []string{"title", "key"}
	outcomeNameFields   = []string{"name", "label", "team"}
	outcomePriceFields  = []string{"price", "odds", "decimal"}
)

// ExtractEvent resolves the bookmakers of an event and extracts its rows for marketKey.
// A missing bookmakers field yields no rows; a bookmakers field that is present
// but not a list is reported as ErrMalformedBookmakers.
func ExtractEvent(event RawEvent, marketKey string) ([]OutcomeRow, error) {
	raw, ok := event["bookmakers"]
	if !ok || raw == nil {
		return nil, nil
	}
	bookmakers, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrMalformedBookmakers, raw)
	}
	return Extract(bookmakers, marketKey), nil
}

// Extract flattens bookmaker → market → outcome records into rows for marketKey.
// Malformed elements at any level are skipped; the rest of the input is still used.
func Extract(bookmakers []any, marketKey string) []OutcomeRow {
	var rows []OutcomeRow
	for _, b := range bookmakers {
		bookmaker, ok := b.(map[string]any)
		if !ok {
			continue
		}
		title := firstString(bookmaker, bookmakerNameFields)
		markets, ok := bookmaker["markets"].([]any)
		if !ok {
			continue
		}
		for _, m := range markets {
			market, ok := m.(map[string]any)
			if !ok {
				continue
			}
			if key, _ := market["key"].(string); key != marketKey {
				continue
			}
			outcomes, ok := market["outcomes"].([]any)
			if !ok {
				continue
			}
			for _, o := range outcomes {
				if row, ok := tryParseOutcome(title, o); ok {
					rows = append(rows, row)
				}
			}
		}
	}
	return rows
}

// tryParseOutcome converts one raw outcome into a row. The bool is false when the
// outcome has no resolvable name or no usable price.
func tryParseOutcome(bookmaker string, raw any) (OutcomeRow, bool) {
	outcome, ok := raw.(map[string]any)
	if !ok {
		return OutcomeRow{}, false
	}
	name := firstString(outcome, outcomeNameFields)
	if name == "" {
		return OutcomeRow{}, false
	}
	price, ok := parsePrice(firstValue(outcome, outcomePriceFields))
	if !ok {
		return OutcomeRow{}, false
	}
	return OutcomeRow{Bookmaker: bookmaker, Outcome: name, Price: price}, true
}

// firstString returns the first non-blank string among fields.
func firstString(record map[string]any, fields []string) string {
	for _, f := range fields {
		if s, ok := record[f].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// firstValue returns the first field that is present, non-null and not an empty string.
func firstValue(record map[string]any, fields []string) any {
	for _, f := range fields {
		v, ok := record[f]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return v
	}
	return nil
}

func parsePrice(v any) (float64, bool) {
	var price float64
	switch t := v.(type) {
	case float64:
		price = t
	case float32:
		price = float64(t)
	case int:
		price = float64(t)
	case int64:
		price = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		price = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		price = f
	default:
		return 0, false
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, false
	}
	return price, true
}
