package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Simplici0/craftprofit/internal/analysis"
	"github.com/Simplici0/craftprofit/internal/config"
	"github.com/Simplici0/craftprofit/internal/logger"
	"github.com/Simplici0/craftprofit/internal/pricing"
)

type server struct {
	analysis analysis.Analysis
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.InitLogger(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "craftprofit-server",
		Version:     "dev",
		Environment: cfg.Environment,
		AddSource:   cfg.IsDev(),
	})

	ds, err := analysis.LoadDataset(cfg.DataDir)
	if err != nil {
		slog.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}

	ctx, _ := logger.WithRunID(context.Background())
	a, err := analysis.Run(ctx, ds, analysis.Options{
		Policy: &pricing.Policy{FallbackValue: cfg.FallbackValue},
		TopN:   cfg.TopN,
	})
	if err != nil {
		slog.Error("failed to run analysis", "error", err)
		os.Exit(1)
	}
	srv := &server{analysis: a}

	addr := ":" + cfg.Port
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("listening", "addr", addr)
	if err := httpServer.ListenAndServe(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/crafts", s.handleCraftsList)
		r.Get("/crafts/{name}", s.handleCraftDetail)
		r.Get("/materials", s.handleMaterialsList)
		r.Get("/summary", s.handleSummary)
		r.Get("/loot", s.handleLoot)
	})
	r.Get("/reports/crafting.xlsx", s.handleCraftingWorkbook)
	r.Get("/reports/loot.xlsx", s.handleLootWorkbook)
	return r
}
