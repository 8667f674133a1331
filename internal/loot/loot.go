// Package loot builds the display views of the loot value database: items
// ordered by value, per-tier statistics and per-category groups.
package loot

import (
	"cmp"
	"slices"

	"github.com/Simplici0/craftprofit/internal/catalog"
)

// DefaultTopN is the size of the most-valuable list.
const DefaultTopN = 10

// TierFills maps a tier to its row color.
var TierFills = map[string]string{
	"S": "FFD700",
	"A": "C0C0C0",
	"B": "CD7F32",
	"C": "90EE90",
	"D": "D3D3D3",
}

// Entry is one loot item tagged with its tier.
type Entry struct {
	Name     string `json:"name"`
	Value    int    `json:"value"`
	Tier     string `json:"tier"`
	Category string `json:"category"`
}

// TierStat summarizes one tier.
type TierStat struct {
	Tier  string `json:"tier"`
	Label string `json:"label"`
	Range string `json:"range"`
	Count int    `json:"count"`
}

// Heading is the summary label, e.g. "S-Tier (Legendary)".
func (t TierStat) Heading() string {
	return t.Tier + "-Tier (" + t.Label + ")"
}

// Category groups entries sharing a category.
type Category struct {
	Name  string  `json:"name"`
	Items []Entry `json:"items"`
}

// View is the full set of loot displays.
type View struct {
	All        []Entry    `json:"all"`
	Tiers      []TierStat `json:"tiers"`
	Categories []Category `json:"categories"`
	Top        []Entry    `json:"top"`
	TopN       int        `json:"top_n"`
}

// Build flattens the tiers, orders entries by descending value (ties keep
// tier declaration order) and groups them.
func Build(table catalog.LootTable, topN int) View {
	if topN < 1 {
		topN = DefaultTopN
	}

	v := View{TopN: topN}
	for _, t := range table.Tiers {
		v.Tiers = append(v.Tiers, TierStat{Tier: t.Tier, Label: t.Label, Range: t.Range, Count: len(t.Items)})
		for _, it := range t.Items {
			v.All = append(v.All, Entry{Name: it.Name, Value: it.Value, Tier: t.Tier, Category: it.Category})
		}
	}
	slices.SortStableFunc(v.All, byValueDesc)

	groups := make(map[string][]Entry)
	for _, e := range v.All {
		groups[e.Category] = append(groups[e.Category], e)
	}
	for name, items := range groups {
		v.Categories = append(v.Categories, Category{Name: name, Items: items})
	}
	slices.SortFunc(v.Categories, func(a, b Category) int {
		return cmp.Compare(a.Name, b.Name)
	})

	v.Top = v.All[:min(topN, len(v.All))]
	return v
}

func byValueDesc(a, b Entry) int {
	return cmp.Compare(b.Value, a.Value)
}
