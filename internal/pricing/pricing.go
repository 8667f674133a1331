package pricing

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/craftprofit/internal/catalog"
)

// DefaultFallbackValue is the unit value assumed for materials missing from
// the catalog. It is a reporting policy, not a game balance figure.
const DefaultFallbackValue = 500

// Policy holds the parameters of a pricing run.
type Policy struct {
	FallbackValue int
}

// ErrInvalidPolicy marks a policy that would break the cost invariants.
var ErrInvalidPolicy = errors.New("invalid pricing policy")

// Validate rejects a negative fallback value, which would make material
// costs negative.
func (p Policy) Validate() error {
	if p.FallbackValue < 0 {
		return fmt.Errorf("%w: fallback value must not be negative, got %d", ErrInvalidPolicy, p.FallbackValue)
	}
	return nil
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{FallbackValue: DefaultFallbackValue}
}

// UnknownMaterial reports one recipe input that was priced with the fallback
// value because the catalog has no entry for it.
type UnknownMaterial struct {
	Recipe        string
	Material      string
	Quantity      int
	FallbackValue int
	Suggestion    string
}

func (u UnknownMaterial) String() string {
	msg := fmt.Sprintf("unknown material '%s' in recipe '%s' - using default value %d", u.Material, u.Recipe, u.FallbackValue)
	if u.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean '%s'?)", u.Suggestion)
	}
	return msg
}

// Cost is the material cost of one recipe together with the inputs that had
// to be defaulted.
type Cost struct {
	Total   int
	Unknown []UnknownMaterial
}

// MaterialCost sums catalog value × quantity over the recipe inputs. Inputs
// are priced flatly by name; crafted intermediates are not expanded.
func MaterialCost(r catalog.Recipe, c *catalog.Catalog, p Policy) Cost {
	var cost Cost
	for _, in := range r.Inputs {
		v := c.Valuate(in.Material, p.FallbackValue)
		if v.Defaulted {
			u := UnknownMaterial{
				Recipe:        r.Name,
				Material:      in.Material,
				Quantity:      in.Quantity,
				FallbackValue: p.FallbackValue,
			}
			if s, ok := c.Closest(in.Material); ok {
				u.Suggestion = s
			}
			cost.Unknown = append(cost.Unknown, u)
		}
		cost.Total += v.Value * in.Quantity
	}
	return cost
}

// Derive computes profit and profit percentage. The percentage is zero when
// the material cost is zero.
func Derive(sellValue, materialCost int) (profit int, percent float64) {
	profit = sellValue - materialCost
	if materialCost > 0 {
		percent = float64(profit) / float64(materialCost) * 100
	}
	return profit, percent
}

// Outcome classifies a record by the sign of its profit.
type Outcome int

const (
	OutcomeLoss Outcome = iota - 1
	OutcomeBreakEven
	OutcomeProfit
)

func (o Outcome) String() string {
	switch o {
	case OutcomeProfit:
		return "profit"
	case OutcomeBreakEven:
		return "break-even"
	default:
		return "loss"
	}
}

// Record is the derived profitability of one recipe.
type Record struct {
	Name              string  `json:"name"`
	SellValue         int     `json:"sell_value"`
	MaterialCost      int     `json:"material_cost"`
	Profit            int     `json:"profit"`
	ProfitPercent     float64 `json:"profit_percent"`
	RecipeDescription string  `json:"recipe"`
	Station           string  `json:"station"`
	Notes             string  `json:"notes,omitempty"`
	Profitable        bool    `json:"profitable"`
}

// Outcome returns profit, break-even or loss.
func (r Record) Outcome() Outcome {
	switch {
	case r.Profit > 0:
		return OutcomeProfit
	case r.Profit == 0:
		return OutcomeBreakEven
	default:
		return OutcomeLoss
	}
}

// RoundedPercent is ProfitPercent rounded to one decimal place, half to even.
// Rounding starts from the exact binary expansion, so 12.35 (stored just
// below) rounds down and only true ties such as 12.25 go to the even digit.
func (r Record) RoundedPercent() float64 {
	exact, err := decimal.NewFromString(strconv.FormatFloat(r.ProfitPercent, 'f', 64, 64))
	if err != nil {
		return r.ProfitPercent
	}
	return exact.RoundBank(1).InexactFloat64()
}

// Calculate derives the record for a single recipe.
func Calculate(r catalog.Recipe, c *catalog.Catalog, p Policy) (Record, []UnknownMaterial) {
	cost := MaterialCost(r, c, p)
	profit, percent := Derive(r.SellValue, cost.Total)

	return Record{
		Name:              r.Name,
		SellValue:         r.SellValue,
		MaterialCost:      cost.Total,
		Profit:            profit,
		ProfitPercent:     percent,
		RecipeDescription: r.Describe(),
		Station:           r.Station,
		Notes:             r.Notes,
		Profitable:        profit > 0,
	}, cost.Unknown
}

// CalculateAll derives records in recipe declaration order.
func CalculateAll(recipes []catalog.Recipe, c *catalog.Catalog, p Policy) ([]Record, []UnknownMaterial) {
	records := make([]Record, 0, len(recipes))
	var unknown []UnknownMaterial
	for _, r := range recipes {
		rec, u := Calculate(r, c, p)
		records = append(records, rec)
		unknown = append(unknown, u...)
	}
	return records, unknown
}
