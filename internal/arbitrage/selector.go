package arbitrage

import "sort"

// SelectBest picks the highest price per outcome name. Rows with equal prices keep
// their input order, so the first maximal row encountered wins. Offers are returned
// ordered by outcome name.
func SelectBest(rows []OutcomeRow) []BestOffer {
	sorted := make([]OutcomeRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price > sorted[j].Price
	})

	seen := make(map[string]struct{}, len(sorted))
	offers := make([]BestOffer, 0, len(sorted))
	for _, row := range sorted {
		if _, ok := seen[row.Outcome]; ok {
			continue
		}
		seen[row.Outcome] = struct{}{}
		offers = append(offers, BestOffer{
			Outcome:   row.Outcome,
			Odds:      row.Price,
			Bookmaker: row.Bookmaker,
		})
	}

	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Outcome < offers[j].Outcome
	})
	return offers
}
