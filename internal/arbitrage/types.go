// Package arbitrage detects risk-free arbitrage across bookmaker prices for a
// single market and computes the stake split that locks in the profit.
package arbitrage

import (
	"errors"
	"fmt"
	"strconv"
)

// DefaultMarketKey is the head-to-head (moneyline) market.
const DefaultMarketKey = "h2h"

// DefaultStake is the stake used when the caller does not supply one.
const DefaultStake = 100.0

// Reasons reported when an event cannot be evaluated.
const (
	ReasonNoMarketData         = "no_market_data"
	ReasonInsufficientOutcomes = "insufficient_outcomes"
)

// Error prefixes attached to per-event failures.
const (
	extractErrorPrefix  = "extract_error: "
	analysisErrorPrefix = "analysis_error: "
)

var (
	// ErrMalformedBookmakers is returned when an event's bookmakers field is not a list.
	ErrMalformedBookmakers = errors.New("bookmakers is not a list")
	// ErrInvalidEvent is returned when an event is not a JSON object.
	ErrInvalidEvent = errors.New("event is not an object")
	// ErrNonFiniteAmount is reported when the stake is too large to price.
	ErrNonFiniteAmount = errors.New("stake produces a non-finite payout")
)

// RawEvent is a decoded, untrusted event record. Any field may be missing or mistyped.
type RawEvent map[string]any

// ID returns the event identifier as a string, or nil when absent.
func (e RawEvent) ID() *string {
	return stringify(e["id"])
}

// OutcomeRow is one bookmaker's price for one outcome.
type OutcomeRow struct {
	Bookmaker string
	Outcome   string
	Price     float64
}

// BestOffer is the highest price available for an outcome and the bookmaker offering it.
type BestOffer struct {
	Outcome   string  `json:"outcome"`
	Odds      float64 `json:"odds"`
	Bookmaker string  `json:"bookmaker"`
}

// Allocation is the stake placed on one outcome of a hedged position.
type Allocation struct {
	Outcome   string  `json:"outcome"`
	Bookmaker string  `json:"bookmaker"`
	Odds      float64 `json:"odds"`
	Bet       float64 `json:"bet"`
	Payout    float64 `json:"payout"`
}

// Result is the per-event analysis record returned to callers.
type Result struct {
	EventID             *string      `json:"event_id"`
	Sport               *string      `json:"sport,omitempty"`
	HomeTeam            *string      `json:"home_team,omitempty"`
	AwayTeam            *string      `json:"away_team,omitempty"`
	BestOffers          []BestOffer  `json:"best_offers,omitempty"`
	Arbitrage           bool         `json:"arbitrage"`
	SumInverseOdds      *float64     `json:"sum_inverse_odds,omitempty"`
	Payout              *float64     `json:"payout,omitempty"`
	Profit              *float64     `json:"profit,omitempty"`
	ROI                 *float64     `json:"roi,omitempty"`
	Allocations         []Allocation `json:"allocations,omitempty"`
	RequiredImprovement *float64     `json:"required_improvement,omitempty"`
	Reason              string       `json:"reason,omitempty"`
	Error               string       `json:"error,omitempty"`
}

// Status classifies a result for logging and metrics.
func (r Result) Status() string {
	switch {
	case r.Error != "":
		return "error"
	case r.Reason != "":
		return r.Reason
	case r.Arbitrage:
		return "arbitrage"
	default:
		return "no_arbitrage"
	}
}

func errorResult(eventID *string, prefix string, err error) Result {
	return Result{EventID: eventID, Error: prefix + err.Error()}
}

func reasonResult(eventID *string, reason string) Result {
	return Result{EventID: eventID, Reason: reason}
}

// stringify renders scalar identifiers; numeric ids are common in provider feeds.
func stringify(v any) *string {
	var s string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s = t
	case fmt.Stringer:
		s = t.String()
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case bool:
		s = strconv.FormatBool(t)
	default:
		return nil
	}
	return &s
}
