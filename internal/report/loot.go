package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/craftprofit/internal/loot"
)

// Loot workbook sheet names.
const (
	SheetLootByTier   = "All Loot by Tier"
	SheetLootSummary  = "Summary"
	SheetLootCategory = "By Category"
)

const lootTitle = "Arc Raiders Loot Value Database"

// Loot is the input of the loot value workbook.
type Loot struct {
	Source string
	View   loot.View
	Notes  []string
}

// BuildLoot renders the three-sheet loot workbook. The caller must Close it.
func BuildLoot(l Loot) (*excelize.File, error) {
	f, st, err := newWorkbook(SheetLootByTier, SheetLootSummary, SheetLootCategory)
	if err != nil {
		return nil, err
	}

	for _, s := range []*sheet{
		writeLootByTier(&sheet{f: f, st: st, name: SheetLootByTier}, l.View),
		writeLootSummary(&sheet{f: f, st: st, name: SheetLootSummary}, l),
		writeLootByCategory(&sheet{f: f, st: st, name: SheetLootCategory}, l.View),
	} {
		if s.err != nil {
			f.Close()
			return nil, s.err
		}
	}
	return f, nil
}

func writeLootByTier(s *sheet, v loot.View) *sheet {
	s.header(1, []string{"Item Name", "Sell Value", "Tier", "Category"}, FillHeaderBlue)

	for i, e := range v.All {
		row := i + 2
		fill := loot.TierFills[e.Tier]
		s.setStyled(1, row, e.Name, kindText, fill)
		s.setStyled(2, row, e.Value, kindCurrency, fill)
		s.setStyled(3, row, e.Tier, kindCenter, fill)
		s.setStyled(4, row, e.Category, kindCenter, fill)
	}

	s.widths([]string{"A", "B", "C", "D"}, []float64{32, 12, 8, 18})
	return s
}

func writeLootSummary(s *sheet, l Loot) *sheet {
	s.setStyled(1, 1, lootTitle, kindTitle, "")
	s.set(1, 2, "Data Source: "+l.Source)

	s.setStyled(1, 4, "Tier Breakdown:", kindBold, "")
	row := 5
	for _, t := range l.View.Tiers {
		s.set(1, row, t.Heading())
		s.set(2, row, t.Range)
		s.set(3, row, fmt.Sprintf("%d items", t.Count))
		row++
	}

	row++
	s.setStyled(1, row, fmt.Sprintf("Total Items: %d", len(l.View.All)), kindBold, "")

	row += 2
	s.setStyled(1, row, fmt.Sprintf("Top %d Most Valuable Items:", l.View.TopN), kindBold, "")
	for i, e := range l.View.Top {
		s.set(1, row+1+i, fmt.Sprintf("%s: %s (%s-Tier)", e.Name, Money(e.Value), e.Tier))
	}

	row = max(25, row+1+len(l.View.Top)+1)
	s.setStyled(1, row, "Expedition Strategy Notes:", kindBold, "")
	for i, note := range l.Notes {
		s.set(1, row+1+i, "• "+note)
	}

	s.widths([]string{"A", "B", "C"}, []float64{45, 18, 12})
	return s
}

func writeLootByCategory(s *sheet, v loot.View) *sheet {
	s.header(1, []string{"Item Name", "Sell Value", "Tier"}, FillHeaderBlue)

	row := 2
	for _, c := range v.Categories {
		s.setStyled(1, row, "=== "+strings.ToUpper(c.Name)+" ===", kindGroupHeader, "")
		row++
		for _, e := range c.Items {
			fill := loot.TierFills[e.Tier]
			s.setStyled(1, row, e.Name, kindText, fill)
			s.setStyled(2, row, e.Value, kindCurrency, fill)
			s.setStyled(3, row, e.Tier, kindCenter, fill)
			row++
		}
		row++
	}

	s.widths([]string{"A", "B", "C"}, []float64{32, 12, 8})
	return s
}
