package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Simplici0/craftprofit/internal/analysis"
	"github.com/Simplici0/craftprofit/internal/config"
	"github.com/Simplici0/craftprofit/internal/db"
	"github.com/Simplici0/craftprofit/internal/logger"
	"github.com/Simplici0/craftprofit/internal/migrations"
	"github.com/Simplici0/craftprofit/internal/pricing"
	"github.com/Simplici0/craftprofit/internal/report"
	"github.com/Simplici0/craftprofit/internal/snapshot"
)

const summaryTopN = 5

func main() {
	cfg, err := config.Load()
	if err != nil {
		die(fmt.Sprintf("load config: %v", err))
	}

	flag.StringVar(&cfg.OutputPath, "out", cfg.OutputPath, "crafting workbook path")
	flag.StringVar(&cfg.LootOutputPath, "loot-out", cfg.LootOutputPath, "loot workbook path (empty to skip)")
	flag.StringVar(&cfg.SnapshotPath, "snapshot", cfg.SnapshotPath, "SQLite snapshot path (empty to skip)")
	flag.StringVar(&cfg.DataDir, "data", cfg.DataDir, "directory with catalog YAML overrides")
	flag.IntVar(&cfg.FallbackValue, "fallback", cfg.FallbackValue, "unit value used for unknown materials")
	flag.IntVar(&cfg.TopN, "top", cfg.TopN, "size of the top lists")
	flag.Parse()
	if cfg.FallbackValue < 0 {
		die(fmt.Sprintf("-fallback must not be negative, got %d", cfg.FallbackValue))
	}
	if cfg.TopN < 1 {
		die(fmt.Sprintf("-top must be positive, got %d", cfg.TopN))
	}

	logger.InitLogger(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "craftprofit-report",
		Version:     "dev",
		Environment: cfg.Environment,
	})

	ctx, _ := logger.WithRunID(context.Background())
	if err := run(ctx, cfg, os.Stdout); err != nil {
		logger.FromContext(ctx).Error("report failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, out io.Writer) error {
	log := logger.FromContext(ctx)

	ds, err := analysis.LoadDataset(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	a, err := analysis.Run(ctx, ds, analysis.Options{
		Policy: &pricing.Policy{FallbackValue: cfg.FallbackValue},
		TopN:   cfg.TopN,
	})
	if err != nil {
		return err
	}

	wb, err := report.BuildCrafting(a.Crafting())
	if err != nil {
		return fmt.Errorf("build crafting workbook: %w", err)
	}
	defer wb.Close()
	if err := report.Save(wb, cfg.OutputPath); err != nil {
		return err
	}
	log.Info("wrote crafting workbook", "path", cfg.OutputPath, "recipes", len(a.Records))
	printCrafting(out, cfg.OutputPath, a)

	if cfg.LootOutputPath != "" {
		lb, err := report.BuildLoot(a.LootReport())
		if err != nil {
			return fmt.Errorf("build loot workbook: %w", err)
		}
		defer lb.Close()
		if err := report.Save(lb, cfg.LootOutputPath); err != nil {
			return err
		}
		log.Info("wrote loot workbook", "path", cfg.LootOutputPath, "items", len(a.Loot.All))
		printLoot(out, cfg.LootOutputPath, a)
	}

	if cfg.SnapshotPath != "" {
		if err := exportSnapshot(ctx, cfg.SnapshotPath, a); err != nil {
			return err
		}
	}
	return nil
}

func exportSnapshot(ctx context.Context, path string, a analysis.Analysis) error {
	database, err := db.Open(ctx, path)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := migrations.Up(ctx, database); err != nil {
		return err
	}

	runID := logger.GenerateRequestID()
	stats, err := snapshot.Export(ctx, database, a.Snapshot(runID, time.Now()))
	if err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}
	logger.FromContext(ctx).Info("exported snapshot",
		slog.String("path", path),
		slog.Int("inserts", stats.Inserts),
		slog.Int("deletes", stats.Deletes))
	return nil
}

func printCrafting(w io.Writer, path string, a analysis.Analysis) {
	c := a.Ranking.Counts
	fmt.Fprintf(w, "Created %s with %d recipes\n", path, c.Total)
	fmt.Fprintf(w, "Profitable: %d\n", c.Profitable)
	fmt.Fprintf(w, "Break-even: %d\n", c.BreakEven)
	fmt.Fprintf(w, "Loss: %d\n", c.Loss)
	fmt.Fprintf(w, "\nTop %d profitable:\n", summaryTopN)
	for _, r := range a.Ranking.Profitable[:min(summaryTopN, len(a.Ranking.Profitable))] {
		fmt.Fprintf(w, "  %s: %s (%.0f%%)\n", r.Name, report.Money(r.Profit), r.ProfitPercent)
	}
}

func printLoot(w io.Writer, path string, a analysis.Analysis) {
	fmt.Fprintf(w, "\nCreated %s with %d items\n", path, len(a.Loot.All))
	for _, t := range a.Loot.Tiers {
		fmt.Fprintf(w, "  %s-Tier: %d items\n", t.Tier, t.Count)
	}
}

func die(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
