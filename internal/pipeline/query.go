package pipeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/wonny/kscanner/internal/contracts"
)

// SortKey selects the column a view is ordered by
type SortKey string

const (
	SortByTotal         SortKey = "total"
	SortByChangePercent SortKey = "change_percent"
	SortByInstitution   SortKey = "institution"
	SortByVolume        SortKey = "volume"
)

// SortKeys lists the supported keys in menu order
var SortKeys = []SortKey{SortByTotal, SortByChangePercent, SortByInstitution, SortByVolume}

var sortKeyLabels = map[SortKey]string{
	SortByTotal:         "총점",
	SortByChangePercent: "등락률",
	SortByInstitution:   "기관투자자",
	SortByVolume:        "거래량돌파",
}

// Label returns the Korean menu label
func (k SortKey) Label() string { return sortKeyLabels[k] }

// ParseSortKey accepts a key or its Korean label
func ParseSortKey(s string) (SortKey, error) {
	trimmed := strings.TrimSpace(s)
	for _, k := range SortKeys {
		if strings.EqualFold(trimmed, string(k)) || trimmed == k.Label() {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

func (k SortKey) value(s contracts.StockScore) float64 {
	switch k {
	case SortByChangePercent:
		return s.ChangePercent
	case SortByInstitution:
		return s.Institution
	case SortByVolume:
		return s.Volume
	default:
		return s.Total()
	}
}

// Score threshold slider bounds
const (
	MinScoreFloor   = 50.0
	MinScoreCeiling = 95.0
	DefaultMinScore = 75.0
	DefaultTopN     = 5
)

// Query is the configuration surface read by a presentation layer and
// passed into the pipeline for one interaction
type Query struct {
	MinScore   float64
	Tiers      contracts.TierSet
	SortKey    SortKey
	Ascending  bool
	TopN       int
	ShowCharts bool // presentation only
}

// DefaultQuery matches the dashboard's initial widget state
func DefaultQuery() Query {
	return Query{
		MinScore:   DefaultMinScore,
		Tiers:      contracts.DefaultTierSet(),
		SortKey:    SortByTotal,
		Ascending:  false,
		TopN:       DefaultTopN,
		ShowCharts: true,
	}
}

// Validate rejects values outside the configuration surface
func (q Query) Validate() error {
	if math.IsNaN(q.MinScore) || q.MinScore < MinScoreFloor || q.MinScore > MinScoreCeiling {
		return fmt.Errorf("min score %v outside [%v, %v]", q.MinScore, MinScoreFloor, MinScoreCeiling)
	}
	if _, err := ParseSortKey(string(q.SortKey)); err != nil {
		return err
	}
	if q.TopN < 0 {
		return fmt.Errorf("top n must be >= 0, got %d", q.TopN)
	}
	return nil
}
