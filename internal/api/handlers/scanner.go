package handlers

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/wonny/kscanner/internal/charts"
	"github.com/wonny/kscanner/internal/contracts"
	"github.com/wonny/kscanner/internal/export"
	"github.com/wonny/kscanner/internal/pipeline"
	"github.com/wonny/kscanner/pkg/logger"
)

// Pipeline is the part of pipeline.Pipeline the handlers call
type Pipeline interface {
	Run(ctx context.Context, q pipeline.Query) (*pipeline.View, error)
	Generate(ctx context.Context) (*contracts.Batch, error)
}

// ScannerHandler serves the JSON API over the scoring pipeline
// ⭐ SSOT: 스캐너 API 핸들러는 이 구조체에서만
type ScannerHandler struct {
	pipeline Pipeline
	logger   *logger.Logger
	now      func() time.Time
}

// NewScannerHandler creates a new scanner handler
func NewScannerHandler(p Pipeline, log *logger.Logger) *ScannerHandler {
	return &ScannerHandler{
		pipeline: p,
		logger:   log.Component("api"),
		now:      time.Now,
	}
}

// ScoresResponse is the filtered and sorted table
type ScoresResponse struct {
	BatchID     string                 `json:"batch_id"`
	GeneratedAt time.Time              `json:"generated_at"`
	Seed        uint64                 `json:"seed"`
	TotalRows   int                    `json:"total_rows"`
	AboveCutoff int                    `json:"above_cutoff"`
	Count       int                    `json:"count"`
	Rows        []contracts.StockScore `json:"rows"`
	Warnings    []contracts.Warning    `json:"warnings,omitempty"`
}

// SummaryResponse carries the metric cards; Summary is null when nothing matched
type SummaryResponse struct {
	Count   int               `json:"count"`
	Summary *pipeline.Summary `json:"summary"`
	NoData  bool              `json:"no_data"`
}

// TopResponse lists the top-N rows by total
type TopResponse struct {
	Count int                    `json:"count"`
	Rows  []contracts.StockScore `json:"rows"`
}

// RefreshResponse describes the regenerated batch
type RefreshResponse struct {
	BatchID     string    `json:"batch_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Seed        uint64    `json:"seed"`
	Rows        int       `json:"rows"`
	Rejected    int       `json:"rejected"`
}

func (h *ScannerHandler) view(w http.ResponseWriter, r *http.Request) (*pipeline.View, bool) {
	q, ok := queryFromRequest(w, r)
	if !ok {
		return nil, false
	}

	view, err := h.pipeline.Run(r.Context(), q)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build view")
		respondError(w, http.StatusInternalServerError, "Failed to build view")
		return nil, false
	}
	return view, true
}

// GetScores returns the filtered, sorted rows
// GET /api/scores?min_score=75&tier=STRONG_BUY&sort=total&asc=false
func (h *ScannerHandler) GetScores(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}

	respondData(w, ScoresResponse{
		BatchID:     view.BatchID,
		GeneratedAt: view.GeneratedAt,
		Seed:        view.Seed,
		TotalRows:   view.TotalRows,
		AboveCutoff: view.AboveCutoff,
		Count:       len(view.Rows),
		Rows:        view.Rows,
		Warnings:    view.Warnings,
	})
}

// GetSummary returns the aggregate metrics
// GET /api/summary
func (h *ScannerHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}

	respondData(w, SummaryResponse{
		Count:   len(view.Rows),
		Summary: view.Summary,
		NoData:  view.NoData,
	})
}

// GetTop returns the top-N rows by total
// GET /api/top?top=5
func (h *ScannerHandler) GetTop(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}

	respondData(w, TopResponse{Count: len(view.Top), Rows: view.Top})
}

// GetCharts returns plot-ready chart data
// GET /api/charts
func (h *ScannerHandler) GetCharts(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}

	respondData(w, charts.Build(view, view.Query.TopN))
}

// Refresh regenerates the batch
// POST /api/refresh
func (h *ScannerHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	batch, err := h.pipeline.Generate(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to refresh batch")
		respondError(w, http.StatusInternalServerError, "Failed to refresh batch")
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"batch_id": batch.ID,
		"seed":     batch.Seed,
	}).Info("Batch refreshed via API")

	respondData(w, RefreshResponse{
		BatchID:     batch.ID,
		GeneratedAt: batch.GeneratedAt,
		Seed:        batch.Seed,
		Rows:        batch.Len(),
		Rejected:    len(batch.Warnings),
	})
}

// Export downloads the filtered, sorted rows as CSV
// GET /api/export
func (h *ScannerHandler) Export(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, view.Rows); err != nil {
		h.logger.WithError(err).Error("Failed to encode CSV export")
		respondError(w, http.StatusInternalServerError, "Failed to export")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(h.now())+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
