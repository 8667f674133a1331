package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/craftprofit/internal/logger"
	"github.com/Simplici0/craftprofit/internal/loot"
	"github.com/Simplici0/craftprofit/internal/pricing"
	"github.com/Simplici0/craftprofit/internal/ranking"
	"github.com/Simplici0/craftprofit/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type materialView struct {
	Name   string `json:"name"`
	Value  int    `json:"value"`
	Rarity string `json:"rarity"`
}

type unknownView struct {
	Recipe     string `json:"recipe"`
	Material   string `json:"material"`
	Quantity   int    `json:"quantity"`
	Suggestion string `json:"suggestion,omitempty"`
}

type summaryView struct {
	Source        string           `json:"source"`
	FallbackValue int              `json:"fallback_value"`
	Counts        ranking.Counts   `json:"counts"`
	Top           []pricing.Record `json:"top"`
	Findings      []string         `json:"findings"`
	Unknown       []unknownView    `json:"unknown_materials"`
}

type lootView struct {
	Source string `json:"source"`
	loot.View
	Notes []string `json:"notes"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleCraftsList(w http.ResponseWriter, r *http.Request) {
	records := s.analysis.Ranking.ByProfit
	if raw := r.URL.Query().Get("profitable"); raw != "" {
		profitable, err := strconv.ParseBool(raw)
		if err != nil {
			http.Error(w, "profitable must be a boolean", http.StatusBadRequest)
			return
		}
		if profitable {
			records = s.analysis.Ranking.Profitable
		}
	}
	writeJSON(w, r, http.StatusOK, records)
}

func (s *server) handleCraftDetail(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	for _, rec := range s.analysis.Ranking.ByProfit {
		if rec.Name == name {
			writeJSON(w, r, http.StatusOK, rec)
			return
		}
	}
	http.NotFound(w, r)
}

func (s *server) handleMaterialsList(w http.ResponseWriter, r *http.Request) {
	materials := report.MaterialsByValue(s.analysis.Dataset.Materials.Materials())
	views := make([]materialView, 0, len(materials))
	for _, m := range materials {
		views = append(views, materialView{Name: m.Name, Value: m.Value, Rarity: report.Rarity(m.Value)})
	}
	writeJSON(w, r, http.StatusOK, views)
}

func (s *server) handleSummary(w http.ResponseWriter, r *http.Request) {
	a := s.analysis
	unknown := make([]unknownView, 0, len(a.Unknown))
	for _, u := range a.Unknown {
		unknown = append(unknown, unknownView{Recipe: u.Recipe, Material: u.Material, Quantity: u.Quantity, Suggestion: u.Suggestion})
	}
	writeJSON(w, r, http.StatusOK, summaryView{
		Source:        a.Dataset.Source,
		FallbackValue: a.Policy.FallbackValue,
		Counts:        a.Ranking.Counts,
		Top:           a.Ranking.Top,
		Findings:      a.Dataset.Findings,
		Unknown:       unknown,
	})
}

func (s *server) handleLoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, lootView{
		Source: s.analysis.Dataset.Loot.Source,
		View:   s.analysis.Loot,
		Notes:  s.analysis.Dataset.Loot.Notes,
	})
}

func (s *server) handleCraftingWorkbook(w http.ResponseWriter, r *http.Request) {
	f, err := report.BuildCrafting(s.analysis.Crafting())
	s.serveWorkbook(w, r, "arc_raiders_crafting_profit.xlsx", f, err)
}

func (s *server) handleLootWorkbook(w http.ResponseWriter, r *http.Request) {
	f, err := report.BuildLoot(s.analysis.LootReport())
	s.serveWorkbook(w, r, "arc_raiders_loot_values.xlsx", f, err)
}

func (s *server) serveWorkbook(w http.ResponseWriter, r *http.Request, filename string, f *excelize.File, err error) {
	log := logger.FromContext(r.Context())
	if err != nil {
		log.Error("failed to build workbook", "file", filename, "error", err)
		http.Error(w, "failed to build workbook", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := report.Write(f, w); err != nil {
		log.Error("failed to write workbook", "file", filename, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response", "error", err)
	}
}
