package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/Rhymond/go-money"

	"github.com/wonny/kscanner/internal/charts"
	"github.com/wonny/kscanner/internal/contracts"
	"github.com/wonny/kscanner/internal/pipeline"
	"github.com/wonny/kscanner/pkg/logger"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

// NoMatchesMessage is shown when the filter leaves nothing
const NoMatchesMessage = "⚠️ 설정한 필터 조건을 만족하는 종목이 없습니다."

var dashboardTemplate = template.Must(
	template.New("dashboard.html").Funcs(template.FuncMap{
		"krw":    FormatKRW,
		"pct":    func(v float64) string { return fmt.Sprintf("%+.1f%%", v) },
		"score":  func(v float64) string { return fmt.Sprintf("%.1f", v) },
		"signed": func(v float64) string { return fmt.Sprintf("%+.1f", v) },
		"inc":    func(i int) int { return i + 1 },
		"cell":   formatCell,
	}).ParseFS(templateFS, "templates/dashboard.html"),
)

// 상관계수 셀 (정의되지 않으면 "-")
func formatCell(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

// FormatKRW renders a won amount for display (₩71,200)
func FormatKRW(won int64) string {
	return money.New(won, money.KRW).Display()
}

// DashboardHandler renders the HTML dashboard
type DashboardHandler struct {
	pipeline Pipeline
	logger   *logger.Logger
	now      func() time.Time
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(p Pipeline, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		pipeline: p,
		logger:   log.Component("dashboard"),
		now:      time.Now,
	}
}

type tierOption struct {
	Code    string
	Label   string
	Checked bool
}

type sortOption struct {
	Key      string
	Label    string
	Selected bool
}

type dashboardPage struct {
	View       *pipeline.View
	Query      pipeline.Query
	Tiers      []tierOption
	SortKeys   []sortOption
	MinFloor   float64
	MinCeiling float64
	Cutoff     float64
	SubScores  []contracts.SubScore
	Charts     *charts.Bundle
	ExportURL  template.URL
	RenderedAt time.Time
	NoMatches  string
}

// Index renders the dashboard for the query in the URL
// GET /
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	q, err := ParseQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view, err := h.pipeline.Run(r.Context(), q)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build dashboard view")
		http.Error(w, "Failed to build dashboard", http.StatusInternalServerError)
		return
	}

	page := dashboardPage{
		View:       view,
		Query:      q,
		MinFloor:   pipeline.MinScoreFloor,
		MinCeiling: pipeline.MinScoreCeiling,
		Cutoff:     pipeline.CutoffScore,
		SubScores:  contracts.SubScores,
		ExportURL:  template.URL("/api/export?" + EncodeQuery(q).Encode()),
		RenderedAt: h.now(),
		NoMatches:  NoMatchesMessage,
	}
	for _, t := range contracts.AllTiers {
		page.Tiers = append(page.Tiers, tierOption{Code: t.String(), Label: t.Label(), Checked: q.Tiers.Contains(t)})
	}
	for _, k := range pipeline.SortKeys {
		page.SortKeys = append(page.SortKeys, sortOption{Key: string(k), Label: k.Label(), Selected: k == q.SortKey})
	}
	if q.ShowCharts && !view.NoData {
		bundle := charts.Build(view, q.TopN)
		page.Charts = &bundle
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, page); err != nil {
		h.logger.WithError(err).Error("Failed to render dashboard")
		http.Error(w, "Failed to render dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
