// Package charts shapes pipeline output into plot-ready series. It draws
// nothing: the dashboard template and the JSON API hand these structs to the
// browser as-is.
package charts

import (
	"math"

	"github.com/wonny/kscanner/internal/contracts"
	"github.com/wonny/kscanner/internal/pipeline"
)

const (
	// DefaultBins for the total-score histogram
	DefaultBins = 10

	// RadarMax is the radial axis limit (largest sub-score maximum)
	RadarMax = 35.0
)

// Bundle is every chart for one view
type Bundle struct {
	Histogram Histogram     `json:"histogram"`
	Tiers     []TierSlice   `json:"tiers"`
	SubScores []SubScoreBar `json:"sub_scores"`
	Radar     RadarChart    `json:"radar"`
	Heatmap   *HeatmapChart `json:"heatmap"`
}

// Build assembles the chart bundle for a view; n is the radar series count
func Build(view *pipeline.View, n int) Bundle {
	return Bundle{
		Histogram: NewHistogram(view.Rows, DefaultBins),
		Tiers:     TierDistribution(view.Rows),
		SubScores: SubScoreMeans(view.Summary),
		Radar:     Radar(view.Rows, n),
		Heatmap:   Heatmap(view.Summary),
	}
}

// Bin is one histogram bucket [Lower, Upper); the last bucket includes Upper
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram of total scores
type Histogram struct {
	Bins []Bin `json:"bins"`
}

// NewHistogram buckets totals into equal-width bins over [min, max]
func NewHistogram(scores []contracts.StockScore, bins int) Histogram {
	h := Histogram{Bins: []Bin{}}
	if len(scores) == 0 || bins <= 0 {
		return h
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range scores {
		lo = math.Min(lo, s.Total())
		hi = math.Max(hi, s.Total())
	}
	// 모든 값이 같으면 폭 1짜리 구간으로
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	width := (hi - lo) / float64(bins)
	h.Bins = make([]Bin, bins)
	for i := range h.Bins {
		h.Bins[i] = Bin{Lower: lo + float64(i)*width, Upper: lo + float64(i+1)*width}
	}
	h.Bins[bins-1].Upper = hi

	for _, s := range scores {
		idx := int((s.Total() - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		h.Bins[idx].Count++
	}

	return h
}

// TierSlice is one pie segment
type TierSlice struct {
	Tier  contracts.Tier `json:"tier"`
	Label string         `json:"label"`
	Count int            `json:"count"`
}

// TierDistribution counts rows per tier, best tier first. Empty tiers are omitted.
func TierDistribution(scores []contracts.StockScore) []TierSlice {
	counts := make(map[contracts.Tier]int, len(contracts.AllTiers))
	for _, s := range scores {
		counts[s.Tier()]++
	}

	out := make([]TierSlice, 0, len(counts))
	for _, tier := range contracts.AllTiers {
		if counts[tier] == 0 {
			continue
		}
		out = append(out, TierSlice{Tier: tier, Label: tier.Label(), Count: counts[tier]})
	}
	return out
}

// SubScoreBar is one bar of the component-average chart
type SubScoreBar struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Mean  float64 `json:"mean"`
	Max   float64 `json:"max"`
}

// SubScoreMeans converts the summary averages; nil summary yields no bars
func SubScoreMeans(summary *pipeline.Summary) []SubScoreBar {
	if summary == nil {
		return []SubScoreBar{}
	}
	out := make([]SubScoreBar, len(summary.SubScoreMeans))
	for i, m := range summary.SubScoreMeans {
		out[i] = SubScoreBar{Key: m.Key, Label: m.Label, Mean: m.Mean, Max: m.Max}
	}
	return out
}

// RadarSeries is one stock's sub-score polygon
type RadarSeries struct {
	Name   string    `json:"name"`
	Code   string    `json:"code"`
	Total  float64   `json:"total"`
	Values []float64 `json:"values"`
}

// RadarChart compares the top stocks across the five components
type RadarChart struct {
	Axes      []string      `json:"axes"`
	RadialMax float64       `json:"radial_max"`
	Series    []RadarSeries `json:"series"`
}

// Radar builds series for the top n rows by total
func Radar(scores []contracts.StockScore, n int) RadarChart {
	chart := RadarChart{
		Axes:      make([]string, len(contracts.SubScores)),
		RadialMax: RadarMax,
	}
	for i, field := range contracts.SubScores {
		chart.Axes[i] = field.Label()
	}

	top := pipeline.TopN(scores, n)
	chart.Series = make([]RadarSeries, len(top))
	for i, s := range top {
		values := make([]float64, len(contracts.SubScores))
		for j, field := range contracts.SubScores {
			values[j] = s.Sub(field)
		}
		chart.Series[i] = RadarSeries{Name: s.Name, Code: s.Code, Total: s.Total(), Values: values}
	}

	return chart
}

// HeatmapChart is the correlation matrix with labelled axes.
// Undefined cells are nil (JSON null).
type HeatmapChart struct {
	Labels []string     `json:"labels"`
	Cells  [][]*float64 `json:"cells"`
}

// Heatmap returns nil when the summary has no correlation matrix
func Heatmap(summary *pipeline.Summary) *HeatmapChart {
	if summary == nil || summary.Correlation == nil {
		return nil
	}

	m := summary.Correlation
	chart := &HeatmapChart{
		Labels: make([]string, m.Size()),
		Cells:  make([][]*float64, m.Size()),
	}
	for i := 0; i < m.Size(); i++ {
		chart.Labels[i] = m.Metrics[i].Label
		chart.Cells[i] = make([]*float64, m.Size())
		for j := 0; j < m.Size(); j++ {
			if v, ok := m.At(i, j); ok {
				rounded := math.Round(v*100) / 100
				chart.Cells[i][j] = &rounded
			}
		}
	}
	return chart
}
