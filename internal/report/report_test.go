package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/craftprofit/internal/catalog"
	"github.com/Simplici0/craftprofit/internal/loot"
	"github.com/Simplici0/craftprofit/internal/pricing"
	"github.com/Simplici0/craftprofit/internal/ranking"
)

var raw = excelize.Options{RawCellValue: true}

func embeddedCrafting(t *testing.T) Crafting {
	t.Helper()
	ds, err := catalog.Load(catalog.Embedded())
	require.NoError(t, err)

	records, _ := pricing.CalculateAll(ds.Recipes, ds.Materials, pricing.DefaultPolicy())
	return Crafting{
		Source:    ds.Source,
		Ranking:   ranking.Rank(records, ranking.DefaultTopN),
		Materials: ds.Materials.Materials(),
		Findings:  ds.Findings,
	}
}

func cell(t *testing.T, f *excelize.File, sheet, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, ref, raw)
	require.NoError(t, err)
	return v
}

func fillOf(t *testing.T, f *excelize.File, sheet, ref string) string {
	t.Helper()
	id, err := f.GetCellStyle(sheet, ref)
	require.NoError(t, err)
	st, err := f.GetStyle(id)
	require.NoError(t, err)
	if len(st.Fill.Color) == 0 {
		return ""
	}
	return strings.ToUpper(st.Fill.Color[0])
}

func TestBuildCrafting_Sheets(t *testing.T) {
	c := embeddedCrafting(t)
	f, err := BuildCrafting(c)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetProfitable, SheetAll, SheetMaterials, SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(SheetAll, raw)
	require.NoError(t, err)
	require.Len(t, rows, len(c.Ranking.ByProfit)+1)
	assert.Equal(t, CraftColumns, rows[0])

	first := c.Ranking.ByProfit[0]
	assert.Equal(t, "Snap Hook", cell(t, f, SheetAll, "A2"))
	assert.Equal(t, strconv.Itoa(first.SellValue), cell(t, f, SheetAll, "B2"))
	assert.Equal(t, strconv.Itoa(first.MaterialCost), cell(t, f, SheetAll, "C2"))
	assert.Equal(t, "5750", cell(t, f, SheetAll, "D2"))
	assert.Equal(t, first.RecipeDescription, cell(t, f, SheetAll, "F2"))
	assert.Equal(t, first.Station, cell(t, f, SheetAll, "G2"))
	assert.Equal(t, "Aphelion", rows[len(rows)-1][0])
	assert.Equal(t, "-33500", rows[len(rows)-1][3])

	profitable, err := f.GetRows(SheetProfitable)
	require.NoError(t, err)
	assert.Len(t, profitable, 31)
}

func TestBuildCrafting_Fills(t *testing.T) {
	c := embeddedCrafting(t)
	f, err := BuildCrafting(c)
	require.NoError(t, err)
	defer f.Close()

	assert.Contains(t, fillOf(t, f, SheetProfitable, "A1"), FillHeaderGreen)
	assert.Contains(t, fillOf(t, f, SheetAll, "A1"), FillHeaderBlue)
	assert.Contains(t, fillOf(t, f, SheetProfitable, "D2"), FillProfit)

	for i, r := range c.Ranking.ByProfit {
		ref, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		assert.Contains(t, fillOf(t, f, SheetAll, ref), OutcomeFill(r.Outcome()), r.Name)
	}
}

func TestBuildCrafting_MaterialsAndSummary(t *testing.T) {
	c := embeddedCrafting(t)
	f, err := BuildCrafting(c)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Material", "Sell Value", "Rarity"}, mustRow(t, f, SheetMaterials, 0))
	assert.Equal(t, []string{"Queen Reactor", "13000", "Epic/Legendary"}, mustRow(t, f, SheetMaterials, 1))

	assert.Equal(t, craftingTitle, cell(t, f, SheetSummary, "A1"))
	assert.Equal(t, "Data Source: "+c.Source, cell(t, f, SheetSummary, "A2"))
	assert.Equal(t, "Total recipes analyzed: 89", cell(t, f, SheetSummary, "A5"))
	assert.Equal(t, "Profitable crafts: 30", cell(t, f, SheetSummary, "A6"))
	assert.Equal(t, "Break-even crafts: 16", cell(t, f, SheetSummary, "A7"))
	assert.Equal(t, "Loss-making crafts: 43", cell(t, f, SheetSummary, "A8"))
	assert.Equal(t, "Top 10 Most Profitable Crafts:", cell(t, f, SheetSummary, "A10"))
	assert.Equal(t, "Snap Hook: $5,750 profit ("+strconv.FormatFloat(c.Ranking.Top[0].ProfitPercent, 'f', 0, 64)+"%)", cell(t, f, SheetSummary, "A11"))
	assert.Equal(t, "Key Findings:", cell(t, f, SheetSummary, "A22"))
	assert.Equal(t, "• "+c.Findings[0], cell(t, f, SheetSummary, "A23"))
}

func mustRow(t *testing.T, f *excelize.File, sheet string, i int) []string {
	t.Helper()
	rows, err := f.GetRows(sheet, raw)
	require.NoError(t, err)
	require.Greater(t, len(rows), i)
	return rows[i]
}

func TestBuildLoot(t *testing.T) {
	ds, err := catalog.Load(catalog.Embedded())
	require.NoError(t, err)
	view := loot.Build(ds.Loot, loot.DefaultTopN)

	f, err := BuildLoot(Loot{Source: ds.Loot.Source, View: view, Notes: ds.Loot.Notes})
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetLootByTier, SheetLootSummary, SheetLootCategory}, f.GetSheetList())

	rows, err := f.GetRows(SheetLootByTier, raw)
	require.NoError(t, err)
	require.Len(t, rows, 119)
	assert.Equal(t, []string{"Item Name", "Sell Value", "Tier", "Category"}, rows[0])
	assert.Equal(t, "Snap Hook", rows[1][0])
	assert.Equal(t, "S", rows[1][2])
	assert.Contains(t, fillOf(t, f, SheetLootByTier, "A2"), loot.TierFills["S"])

	assert.Equal(t, lootTitle, cell(t, f, SheetLootSummary, "A1"))
	assert.Equal(t, "S-Tier (Legendary)", cell(t, f, SheetLootSummary, "A5"))
	assert.Equal(t, "30 items", cell(t, f, SheetLootSummary, "C5"))
	assert.Equal(t, "Total Items: 118", cell(t, f, SheetLootSummary, "A11"))

	first := view.Categories[0]
	assert.Equal(t, "=== "+strings.ToUpper(first.Name)+" ===", cell(t, f, SheetLootCategory, "A2"))
	assert.Equal(t, first.Items[0].Name, cell(t, f, SheetLootCategory, "A3"))
	next := 3 + len(first.Items) + 1
	ref, err := excelize.CoordinatesToCellName(1, next)
	require.NoError(t, err)
	assert.Equal(t, "=== "+strings.ToUpper(view.Categories[1].Name)+" ===", cell(t, f, SheetLootCategory, ref))
}

func TestSave(t *testing.T) {
	f, err := BuildCrafting(embeddedCrafting(t))
	require.NoError(t, err)
	defer f.Close()

	path := filepath.Join(t.TempDir(), "nested", "report.xlsx")
	require.NoError(t, Save(f, path))

	got, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer got.Close()
	assert.Equal(t, "Snap Hook", cell(t, got, SheetAll, "A2"))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	// Overwrites an existing report.
	require.NoError(t, Save(f, path))
}

func TestSave_Unwritable(t *testing.T) {
	f, err := BuildCrafting(embeddedCrafting(t))
	require.NoError(t, err)
	defer f.Close()

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err = Save(f, filepath.Join(blocker, "report.xlsx"))
	require.ErrorIs(t, err, ErrOutputWrite)
}

func TestWrite(t *testing.T) {
	f, err := BuildCrafting(embeddedCrafting(t))
	require.NoError(t, err)
	defer f.Close()

	var buf bytes.Buffer
	require.NoError(t, Write(f, &buf))

	got, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer got.Close()
	assert.Equal(t, []string{SheetProfitable, SheetAll, SheetMaterials, SheetSummary}, got.GetSheetList())
}

func TestRarity(t *testing.T) {
	tests := map[int]string{
		13000: "Epic/Legendary",
		5000:  "Epic/Legendary",
		4999:  "Rare",
		1000:  "Rare",
		500:   "Uncommon",
		499:   "Common",
		0:     "Common",
	}
	for value, want := range tests {
		assert.Equal(t, want, Rarity(value), "value %d", value)
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$14,000", Money(14000))
	assert.Equal(t, "$640", Money(640))
	assert.Equal(t, "$0", Money(0))
}

func TestMaterialsByValue_StableTies(t *testing.T) {
	in := []catalog.Material{{Name: "a", Value: 10}, {Name: "b", Value: 50}, {Name: "c", Value: 10}}
	out := MaterialsByValue(in)
	assert.Equal(t, []string{"b", "a", "c"}, []string{out[0].Name, out[1].Name, out[2].Name})
	assert.Equal(t, "a", in[0].Name, "input untouched")
}

func TestBuildCrafting_ShortTopListKeepsHeading(t *testing.T) {
	records := []pricing.Record{
		{Name: "A", SellValue: 300, MaterialCost: 100, Profit: 200, ProfitPercent: 200, Profitable: true},
		{Name: "B", SellValue: 150, MaterialCost: 100, Profit: 50, ProfitPercent: 50, Profitable: true},
		{Name: "C", SellValue: 50, MaterialCost: 100, Profit: -50, ProfitPercent: -50},
	}
	f, err := BuildCrafting(Crafting{Source: "test", Ranking: ranking.Rank(records, ranking.DefaultTopN), Findings: []string{"note"}})
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "Top 10 Most Profitable Crafts:", cell(t, f, SheetSummary, "A10"))
	assert.Equal(t, "A: $200 profit (200%)", cell(t, f, SheetSummary, "A11"))
	assert.Equal(t, "B: $50 profit (50%)", cell(t, f, SheetSummary, "A12"))
	assert.Equal(t, "Key Findings:", cell(t, f, SheetSummary, "A22"))
}

func TestBuildLoot_ShortTopListKeepsHeading(t *testing.T) {
	table := catalog.LootTable{Tiers: []catalog.LootTier{{
		Tier: "S", Label: "Legendary", Range: "$5,000+",
		Items: []catalog.LootItem{{Name: "Reactor", Value: 13000, Category: "ARC Part"}},
	}}}
	f, err := BuildLoot(Loot{Source: "test", View: loot.Build(table, loot.DefaultTopN)})
	require.NoError(t, err)
	defer f.Close()

	// One tier row at 5, total at 7, top header at 9.
	assert.Equal(t, "Top 10 Most Valuable Items:", cell(t, f, SheetLootSummary, "A9"))
	assert.Equal(t, "Reactor: $13,000 (S-Tier)", cell(t, f, SheetLootSummary, "A10"))
}
