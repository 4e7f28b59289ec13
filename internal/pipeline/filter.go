package pipeline

import (
	"cmp"
	"slices"

	"github.com/wonny/kscanner/internal/contracts"
)

// Filter keeps rows with total >= minScore whose tier is allowed.
// Input order is preserved; an empty result is valid.
func Filter(scores []contracts.StockScore, minScore float64, allowed contracts.TierSet) []contracts.StockScore {
	out := make([]contracts.StockScore, 0, len(scores))
	for _, s := range scores {
		if s.Total() >= minScore && allowed.Contains(s.Tier()) {
			out = append(out, s)
		}
	}
	return out
}

// Sort returns a stably sorted copy; equal keys keep their input order in
// both directions
func Sort(scores []contracts.StockScore, key SortKey, ascending bool) []contracts.StockScore {
	out := make([]contracts.StockScore, len(scores))
	copy(out, scores)
	slices.SortStableFunc(out, func(a, b contracts.StockScore) int {
		c := cmp.Compare(key.value(a), key.value(b))
		if !ascending {
			c = -c
		}
		return c
	})
	return out
}

// TopN returns the first n rows of the descending-by-total order.
// Fewer than n rows yields all of them; n <= 0 yields none.
func TopN(scores []contracts.StockScore, n int) []contracts.StockScore {
	if n <= 0 {
		return []contracts.StockScore{}
	}
	sorted := Sort(scores, SortByTotal, false)
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
