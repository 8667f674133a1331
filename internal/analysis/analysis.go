// Package analysis runs the profitability pipeline over a loaded dataset and
// hands its results to the renderers.
package analysis

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Simplici0/craftprofit/internal/catalog"
	"github.com/Simplici0/craftprofit/internal/logger"
	"github.com/Simplici0/craftprofit/internal/loot"
	"github.com/Simplici0/craftprofit/internal/pricing"
	"github.com/Simplici0/craftprofit/internal/ranking"
	"github.com/Simplici0/craftprofit/internal/report"
	"github.com/Simplici0/craftprofit/internal/snapshot"
)

// Options tunes a run. A nil Policy means pricing.DefaultPolicy and a TopN
// below 1 means the package defaults.
type Options struct {
	Policy *pricing.Policy
	TopN   int
}

// Analysis is the immutable result of one run.
type Analysis struct {
	Dataset *catalog.Dataset
	Policy  pricing.Policy
	Records []pricing.Record
	Unknown []pricing.UnknownMaterial
	Ranking ranking.Ranking
	Loot    loot.View
}

// LoadDataset reads the catalogs from dataDir, or the embedded copies when
// dataDir is empty.
func LoadDataset(dataDir string) (*catalog.Dataset, error) {
	fsys := catalog.Embedded()
	if dataDir != "" {
		if _, err := os.Stat(dataDir); err != nil {
			return nil, fmt.Errorf("data dir: %w", err)
		}
		fsys = os.DirFS(dataDir)
	}
	return catalog.Load(fsys)
}

// Run prices every recipe, ranks the results and builds the loot views.
// Unknown materials are logged at WARN, once per occurrence.
func Run(ctx context.Context, ds *catalog.Dataset, opts Options) (Analysis, error) {
	policy := pricing.DefaultPolicy()
	if opts.Policy != nil {
		policy = *opts.Policy
	}
	if err := policy.Validate(); err != nil {
		return Analysis{}, err
	}

	records, unknown := pricing.CalculateAll(ds.Recipes, ds.Materials, policy)

	log := logger.FromContext(ctx)
	for _, u := range unknown {
		log.Warn(u.String(),
			"recipe", u.Recipe,
			"material", u.Material,
			"fallback_value", u.FallbackValue)
	}

	return Analysis{
		Dataset: ds,
		Policy:  policy,
		Records: records,
		Unknown: unknown,
		Ranking: ranking.Rank(records, opts.TopN),
		Loot:    loot.Build(ds.Loot, opts.TopN),
	}, nil
}

// Crafting is the input of the profitability workbook.
func (a Analysis) Crafting() report.Crafting {
	return report.Crafting{
		Source:    a.Dataset.Source,
		Ranking:   a.Ranking,
		Materials: a.Dataset.Materials.Materials(),
		Findings:  a.Dataset.Findings,
	}
}

// LootReport is the input of the loot workbook.
func (a Analysis) LootReport() report.Loot {
	return report.Loot{
		Source: a.Dataset.Loot.Source,
		View:   a.Loot,
		Notes:  a.Dataset.Loot.Notes,
	}
}

// Snapshot is the SQLite export of the run.
func (a Analysis) Snapshot(runID string, at time.Time) snapshot.Run {
	return snapshot.Run{
		ID:            runID,
		CreatedAt:     at,
		Source:        a.Dataset.Source,
		FallbackValue: a.Policy.FallbackValue,
		Materials:     a.Dataset.Materials.Materials(),
		Ranking:       a.Ranking,
		Unknown:       a.Unknown,
	}
}
