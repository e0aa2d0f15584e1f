package arbitrage

import (
	"math"

	"github.com/shopspring/decimal"
)

// Presentation precision.
const (
	moneyPlaces       = 2
	roiPlaces         = 4
	improvementPlaces = 6
)

// Evaluate applies the inverse-odds test to the best offers and, when the sum of
// inverse odds is below 1, computes the guaranteed payout and the per-outcome
// stake split. The returned Result carries no event metadata.
//
// Stake is not validated. A non-positive stake scales every amount proportionally.
// A stake so large that the payout overflows yields an analysis_error result.
func Evaluate(offers []BestOffer, stake float64) Result {
	if len(offers) < 2 {
		return Result{Reason: ReasonInsufficientOutcomes}
	}

	sumInv := SumInverseOdds(offers)
	result := Result{
		BestOffers:     offers,
		Arbitrage:      sumInv < 1.0,
		SumInverseOdds: &sumInv,
	}

	if !result.Arbitrage {
		result.RequiredImprovement = rounded(sumInv-1.0, improvementPlaces)
		return result
	}

	payout := stake / sumInv
	if !isFinite(payout) || !isFinite(payout-stake) {
		return errorResult(nil, analysisErrorPrefix, ErrNonFiniteAmount)
	}
	result.Payout = rounded(payout, moneyPlaces)
	result.Profit = rounded(payout-stake, moneyPlaces)
	result.ROI = rounded(1.0/sumInv-1.0, roiPlaces)

	result.Allocations = make([]Allocation, 0, len(offers))
	for _, offer := range offers {
		proportion := (1.0 / offer.Odds) / sumInv
		bet := proportion * stake
		result.Allocations = append(result.Allocations, Allocation{
			Outcome:   offer.Outcome,
			Bookmaker: offer.Bookmaker,
			Odds:      offer.Odds,
			Bet:       round(bet, moneyPlaces),
			Payout:    round(bet*offer.Odds, moneyPlaces),
		})
	}
	return result
}

// SumInverseOdds returns Σ 1/odds over the offers, the implied probability total.
func SumInverseOdds(offers []BestOffer) float64 {
	var sum float64
	for _, offer := range offers {
		sum += 1.0 / offer.Odds
	}
	return sum
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func rounded(v float64, places int32) *float64 {
	r := round(v, places)
	return &r
}
