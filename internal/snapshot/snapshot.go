// Package snapshot exports one report run to SQLite for ad hoc queries.
package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Simplici0/craftprofit/internal/catalog"
	"github.com/Simplici0/craftprofit/internal/pricing"
	"github.com/Simplici0/craftprofit/internal/ranking"
	"github.com/Simplici0/craftprofit/internal/report"
)

// Run is the content of one export.
type Run struct {
	ID            string
	CreatedAt     time.Time
	Source        string
	FallbackValue int
	Materials     []catalog.Material
	Ranking       ranking.Ranking
	Unknown       []pricing.UnknownMaterial
}

// Stats contains export counters.
type Stats struct {
	Inserts int
	Deletes int
}

// tables are cleared in this order before each export.
var tables = []string{"unknown_materials", "crafts", "materials", "summary"}

// Export replaces the snapshot tables with run inside one transaction. Prior
// contents are discarded; an export never merges with a previous run.
func Export(ctx context.Context, db *sql.DB, run Run) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin snapshot transaction: %w", err)
	}

	stats := Stats{}

	if err := clearTables(ctx, tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := insertMaterials(ctx, tx, run.Materials, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := insertCrafts(ctx, tx, run.Ranking.ByProfit, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := insertUnknown(ctx, tx, run.Unknown, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := insertSummary(ctx, tx, run, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit snapshot transaction: %w", err)
	}

	return stats, nil
}

func clearTables(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	for _, table := range tables {
		res, err := tx.ExecContext(ctx, `DELETE FROM `+table)
		if err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
		stats.Deletes += int(n)
	}
	return nil
}

func insertMaterials(ctx context.Context, tx *sql.Tx, materials []catalog.Material, stats *Stats) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO materials (name, value, rarity) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare material insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range materials {
		if _, err := stmt.ExecContext(ctx, m.Name, m.Value, report.Rarity(m.Value)); err != nil {
			return fmt.Errorf("insert material %q: %w", m.Name, err)
		}
		stats.Inserts++
	}
	return nil
}

func insertCrafts(ctx context.Context, tx *sql.Tx, records []pricing.Record, stats *Stats) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO crafts (
			rank,
			name,
			sell_value,
			material_cost,
			profit,
			profit_percent,
			recipe,
			station,
			notes,
			outcome
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare craft insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx,
			i+1, r.Name, r.SellValue, r.MaterialCost, r.Profit, r.RoundedPercent(),
			r.RecipeDescription, r.Station, r.Notes, r.Outcome().String(),
		); err != nil {
			return fmt.Errorf("insert craft %q: %w", r.Name, err)
		}
		stats.Inserts++
	}
	return nil
}

func insertUnknown(ctx context.Context, tx *sql.Tx, unknown []pricing.UnknownMaterial, stats *Stats) error {
	for _, u := range unknown {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO unknown_materials (recipe, material, quantity, fallback_value, suggestion)
			VALUES (?, ?, ?, ?, ?)
		`, u.Recipe, u.Material, u.Quantity, u.FallbackValue, u.Suggestion); err != nil {
			return fmt.Errorf("insert unknown material %q: %w", u.Material, err)
		}
		stats.Inserts++
	}
	return nil
}

func insertSummary(ctx context.Context, tx *sql.Tx, run Run, stats *Stats) error {
	c := run.Ranking.Counts
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO summary (
			id,
			run_id,
			created_at,
			source,
			fallback_value,
			total,
			profitable,
			break_even,
			loss
		)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.CreatedAt.UTC().Format(time.RFC3339), run.Source, run.FallbackValue,
		c.Total, c.Profitable, c.BreakEven, c.Loss); err != nil {
		return fmt.Errorf("insert summary: %w", err)
	}
	stats.Inserts++
	return nil
}
