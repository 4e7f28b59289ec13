package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
)

// SubScore identifies one of the five weighted score components
type SubScore int

const (
	SubInstitution SubScore = iota // 기관 투자자 (35점)
	SubVolume                      // 거래량 돌파 (30점)
	SubNews                        // 뉴스 분석 (15점)
	SubProgram                     // 프로그램 매매 (10점)
	SubTechnical                   // 기술적 분석 (10점)
)

// SubScores lists the components in display order
var SubScores = []SubScore{SubInstitution, SubVolume, SubNews, SubProgram, SubTechnical}

var subScoreMeta = map[SubScore]struct {
	key   string
	label string
	max   float64
}{
	SubInstitution: {"institution", "기관투자자", 35},
	SubVolume:      {"volume", "거래량돌파", 30},
	SubNews:        {"news", "뉴스분석", 15},
	SubProgram:     {"program", "프로그램매매", 10},
	SubTechnical:   {"technical", "기술적분석", 10},
}

// MaxTotal is the sum of all sub-score maxima
const MaxTotal = 100.0

// Max returns the inclusive upper bound of the component
func (s SubScore) Max() float64 { return subScoreMeta[s].max }

// Key returns the snake_case identifier used in JSON and query strings
func (s SubScore) Key() string { return subScoreMeta[s].key }

// Label returns the Korean display label
func (s SubScore) Label() string { return subScoreMeta[s].label }

func (s SubScore) String() string { return s.Key() }

// StockScore is one scored row of a batch. Values are never mutated after generation.
type StockScore struct {
	Name          string  `json:"name"`
	Code          string  `json:"code"`
	Price         int64   `json:"price"`          // 원
	ChangePercent float64 `json:"change_percent"` // 등락률 (%)

	Institution float64 `json:"institution"`
	Volume      float64 `json:"volume"`
	News        float64 `json:"news"`
	Program     float64 `json:"program"`
	Technical   float64 `json:"technical"`

	// Display only, never used for scoring
	VolumeLabel    string `json:"volume_label"`     // 거래량 (예: 1234만주)
	MarketCapLabel string `json:"market_cap_label"` // 시가총액 (예: 120조원)
}

// Total is always the sum of the five sub-scores, rounded to the same
// 0.1 step the components carry so a total shown as 75.0 classifies as 75
func (s StockScore) Total() float64 {
	sum := s.Institution + s.Volume + s.News + s.Program + s.Technical
	return math.Round(sum*10) / 10
}

// Tier classifies the total
func (s StockScore) Tier() Tier {
	return Classify(s.Total())
}

// Sub returns the value of one component
func (s StockScore) Sub(field SubScore) float64 {
	switch field {
	case SubInstitution:
		return s.Institution
	case SubVolume:
		return s.Volume
	case SubNews:
		return s.News
	case SubProgram:
		return s.Program
	case SubTechnical:
		return s.Technical
	default:
		return 0
	}
}

// MarshalJSON adds the derived total and tier so API consumers never recompute them
func (s StockScore) MarshalJSON() ([]byte, error) {
	type plain StockScore
	return json.Marshal(struct {
		plain
		Total     float64 `json:"total"`
		Tier      Tier    `json:"tier"`
		TierLabel string  `json:"tier_label"`
	}{
		plain:     plain(s),
		Total:     s.Total(),
		Tier:      s.Tier(),
		TierLabel: s.Tier().Label(),
	})
}

var codePattern = regexp.MustCompile(`^[0-9]{6}$`)

// ErrInvalidRecord is wrapped by every Validate failure
var ErrInvalidRecord = errors.New("invalid stock score")

// Validate checks identity rules and sub-score bounds. Out-of-range values are
// reported, never clamped.
func (s StockScore) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidRecord)
	}
	if !codePattern.MatchString(s.Code) {
		return fmt.Errorf("%w: %s: code %q is not 6 digits", ErrInvalidRecord, s.Name, s.Code)
	}
	if s.Price <= 0 {
		return fmt.Errorf("%w: %s: price %d must be positive", ErrInvalidRecord, s.Name, s.Price)
	}
	if math.IsNaN(s.ChangePercent) || math.IsInf(s.ChangePercent, 0) {
		return fmt.Errorf("%w: %s: change percent is not finite", ErrInvalidRecord, s.Name)
	}
	for _, field := range SubScores {
		v := s.Sub(field)
		if math.IsNaN(v) || v < 0 || v > field.Max() {
			return fmt.Errorf("%w: %s: %s=%v outside [0,%v]", ErrInvalidRecord, s.Name, field.Key(), v, field.Max())
		}
	}
	return nil
}
