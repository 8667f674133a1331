package report

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/craftprofit/internal/catalog"
	"github.com/Simplici0/craftprofit/internal/pricing"
	"github.com/Simplici0/craftprofit/internal/ranking"
)

// Crafting workbook sheet names.
const (
	SheetProfitable = "Profitable Crafts"
	SheetAll        = "All Crafts"
	SheetMaterials  = "Material Values"
	SheetSummary    = "Summary"
)

// CraftColumns is the column contract of the craft sheets.
var CraftColumns = []string{"Item Name", "Sell Value", "Material Cost", "Profit", "Profit %", "Recipe", "Bench"}

const craftingTitle = "Arc Raiders Crafting Profitability Analysis"

// Crafting is the input of the profitability workbook.
type Crafting struct {
	Source    string
	Ranking   ranking.Ranking
	Materials []catalog.Material
	Findings  []string
}

// MaterialsByValue returns materials by descending value; equal values keep
// catalog order.
func MaterialsByValue(materials []catalog.Material) []catalog.Material {
	out := slices.Clone(materials)
	slices.SortStableFunc(out, func(a, b catalog.Material) int {
		return cmp.Compare(b.Value, a.Value)
	})
	return out
}

// OutcomeFill is the row fill of a record on the all-crafts sheet.
func OutcomeFill(o pricing.Outcome) string {
	switch o {
	case pricing.OutcomeProfit:
		return FillProfit
	case pricing.OutcomeBreakEven:
		return FillBreakEven
	default:
		return FillLoss
	}
}

// TopLine formats one entry of the summary top list.
func TopLine(r pricing.Record) string {
	return fmt.Sprintf("%s: %s profit (%.0f%%)", r.Name, Money(r.Profit), r.ProfitPercent)
}

// BuildCrafting renders the four-sheet profitability workbook. The caller
// owns the returned file and must Close it.
func BuildCrafting(c Crafting) (*excelize.File, error) {
	f, st, err := newWorkbook(SheetProfitable, SheetAll, SheetMaterials, SheetSummary)
	if err != nil {
		return nil, err
	}

	for _, s := range []*sheet{
		writeCraftSheet(&sheet{f: f, st: st, name: SheetProfitable}, c.Ranking.Profitable, FillHeaderGreen, func(pricing.Record) string { return FillProfit }),
		writeCraftSheet(&sheet{f: f, st: st, name: SheetAll}, c.Ranking.ByProfit, FillHeaderBlue, func(r pricing.Record) string { return OutcomeFill(r.Outcome()) }),
		writeMaterialSheet(&sheet{f: f, st: st, name: SheetMaterials}, c.Materials),
		writeCraftSummary(&sheet{f: f, st: st, name: SheetSummary}, c),
	} {
		if s.err != nil {
			f.Close()
			return nil, s.err
		}
	}
	return f, nil
}

func writeCraftSheet(s *sheet, records []pricing.Record, headerFill string, fill func(pricing.Record) string) *sheet {
	s.header(1, CraftColumns, headerFill)

	for i, r := range records {
		row := i + 2
		rowFill := fill(r)
		s.setStyled(1, row, r.Name, kindText, rowFill)
		s.setStyled(2, row, r.SellValue, kindCurrency, rowFill)
		s.setStyled(3, row, r.MaterialCost, kindCurrency, rowFill)
		s.setStyled(4, row, r.Profit, kindCurrency, rowFill)
		s.setStyled(5, row, r.RoundedPercent(), kindNumber, rowFill)
		s.setStyled(6, row, r.RecipeDescription, kindText, rowFill)
		s.setStyled(7, row, r.Station, kindCenter, rowFill)
	}

	s.widths([]string{"A", "B", "C", "D", "E", "F", "G"}, []float64{26, 12, 14, 10, 10, 55, 14})
	return s
}

func writeMaterialSheet(s *sheet, materials []catalog.Material) *sheet {
	s.header(1, []string{"Material", "Sell Value", "Rarity"}, FillHeaderBlue)

	for i, m := range MaterialsByValue(materials) {
		row := i + 2
		s.setStyled(1, row, m.Name, kindText, "")
		s.setStyled(2, row, m.Value, kindCurrency, "")
		s.setStyled(3, row, Rarity(m.Value), kindText, "")
	}

	s.widths([]string{"A", "B", "C"}, []float64{32, 12, 15})
	return s
}

func writeCraftSummary(s *sheet, c Crafting) *sheet {
	counts := c.Ranking.Counts

	s.setStyled(1, 1, craftingTitle, kindTitle, "")
	s.set(1, 2, "Data Source: "+c.Source)

	s.setStyled(1, 4, "Statistics:", kindBold, "")
	s.set(1, 5, fmt.Sprintf("Total recipes analyzed: %d", counts.Total))
	s.set(1, 6, fmt.Sprintf("Profitable crafts: %d", counts.Profitable))
	s.set(1, 7, fmt.Sprintf("Break-even crafts: %d", counts.BreakEven))
	s.set(1, 8, fmt.Sprintf("Loss-making crafts: %d", counts.Loss))

	s.setStyled(1, 10, fmt.Sprintf("Top %d Most Profitable Crafts:", c.Ranking.TopN), kindBold, "")
	for i, r := range c.Ranking.Top {
		s.set(1, 11+i, TopLine(r))
	}

	row := max(22, 11+len(c.Ranking.Top)+1)
	s.setStyled(1, row, "Key Findings:", kindBold, "")
	for i, finding := range c.Findings {
		s.set(1, row+1+i, "• "+finding)
	}

	s.widths([]string{"A"}, []float64{80})
	return s
}
