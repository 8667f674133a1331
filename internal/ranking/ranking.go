// Package ranking orders and groups derived craft records for display.
package ranking

import (
	"slices"

	"github.com/Simplici0/craftprofit/internal/pricing"
)

// DefaultTopN is the size of the summary top list.
const DefaultTopN = 10

// Counts splits records by outcome.
type Counts struct {
	Total      int `json:"total"`
	Profitable int `json:"profitable"`
	BreakEven  int `json:"break_even"`
	Loss       int `json:"loss"`
}

// Ranking holds the read-only views built from one set of records.
type Ranking struct {
	ByProfit   []pricing.Record
	Profitable []pricing.Record
	Counts     Counts
	Top        []pricing.Record
	// TopN is the requested size of Top; Top is shorter when fewer
	// records are profitable.
	TopN int
}

// SortByProfit returns a copy of records ordered by descending profit. Equal
// profits keep their input order.
func SortByProfit(records []pricing.Record) []pricing.Record {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b pricing.Record) int {
		switch {
		case a.Profit > b.Profit:
			return -1
		case a.Profit < b.Profit:
			return 1
		default:
			return 0
		}
	})
	return out
}

// Rank builds every view. topN below 1 falls back to DefaultTopN.
func Rank(records []pricing.Record, topN int) Ranking {
	if topN < 1 {
		topN = DefaultTopN
	}

	sorted := SortByProfit(records)
	r := Ranking{
		ByProfit:   sorted,
		Profitable: make([]pricing.Record, 0, len(sorted)),
		Counts:     Counts{Total: len(sorted)},
		TopN:       topN,
	}

	for _, rec := range sorted {
		switch rec.Outcome() {
		case pricing.OutcomeProfit:
			r.Profitable = append(r.Profitable, rec)
			r.Counts.Profitable++
		case pricing.OutcomeBreakEven:
			r.Counts.BreakEven++
		default:
			r.Counts.Loss++
		}
	}

	r.Top = r.Profitable[:min(topN, len(r.Profitable))]
	return r
}
