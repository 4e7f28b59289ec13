package pipeline

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/wonny/kscanner/internal/contracts"
)

var (
	// ErrNoData is returned when aggregating an empty view
	ErrNoData = errors.New("no data")

	// ErrInsufficientData flags a correlation matrix that cannot be computed
	// (fewer than two rows)
	ErrInsufficientData = errors.New("correlation needs at least two rows")
)

// CutoffScore is the detection line the dashboard compares averages against
const CutoffScore = 75.0

// Metric is one numeric column taking part in the correlation matrix
type Metric struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	value func(contracts.StockScore) float64
}

// Metrics lists total, change% and the five sub-scores in display order
var Metrics = buildMetrics()

func buildMetrics() []Metric {
	ms := []Metric{
		{Key: "total", Label: "총점", value: contracts.StockScore.Total},
		{Key: "change_percent", Label: "등락률", value: func(s contracts.StockScore) float64 { return s.ChangePercent }},
	}
	for _, field := range contracts.SubScores {
		f := field
		ms = append(ms, Metric{Key: f.Key(), Label: f.Label(), value: func(s contracts.StockScore) float64 { return s.Sub(f) }})
	}
	return ms
}

// SubScoreMean is the average of one component across a view
type SubScoreMean struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Mean  float64 `json:"mean"`
	Max   float64 `json:"max"`
}

// Summary holds the aggregates shown on the metric cards and charts
type Summary struct {
	Count             int            `json:"count"`
	MeanTotal         float64        `json:"mean_total"`
	MeanTotalVsCutoff float64        `json:"mean_total_vs_cutoff"`
	MaxTotal          float64        `json:"max_total"`
	StrongBuyCount    int            `json:"strong_buy_count"`
	MeanChangePercent float64        `json:"mean_change_percent"`
	SubScoreMeans     []SubScoreMean `json:"sub_score_means"`

	// Correlation is nil when it cannot be computed; CorrelationErr says why
	Correlation     *CorrelationMatrix `json:"correlation"`
	CorrelationErr  error              `json:"-"`
	CorrelationNote string             `json:"correlation_note,omitempty"`
}

// Aggregate computes the summary of a view. An empty view returns ErrNoData.
func Aggregate(scores []contracts.StockScore) (*Summary, error) {
	n := len(scores)
	if n == 0 {
		return nil, ErrNoData
	}

	sum := &Summary{Count: n, MaxTotal: math.Inf(-1)}
	subSums := make([]float64, len(contracts.SubScores))

	var totalSum, changeSum float64
	for _, s := range scores {
		total := s.Total()
		totalSum += total
		changeSum += s.ChangePercent
		if total > sum.MaxTotal {
			sum.MaxTotal = total
		}
		if s.Tier() == contracts.TierStrongBuy {
			sum.StrongBuyCount++
		}
		for i, field := range contracts.SubScores {
			subSums[i] += s.Sub(field)
		}
	}

	sum.MeanTotal = totalSum / float64(n)
	sum.MeanTotalVsCutoff = sum.MeanTotal - CutoffScore
	sum.MeanChangePercent = changeSum / float64(n)

	sum.SubScoreMeans = make([]SubScoreMean, len(contracts.SubScores))
	for i, field := range contracts.SubScores {
		sum.SubScoreMeans[i] = SubScoreMean{
			Key:   field.Key(),
			Label: field.Label(),
			Mean:  subSums[i] / float64(n),
			Max:   field.Max(),
		}
	}

	sum.Correlation, sum.CorrelationErr = Correlate(scores)
	if sum.CorrelationErr != nil {
		sum.CorrelationNote = sum.CorrelationErr.Error()
	}
	return sum, nil
}

// CorrelationMatrix is a symmetric Pearson matrix over Metrics.
// Cells involving a constant column are undefined rather than NaN.
type CorrelationMatrix struct {
	Metrics []Metric
	values  [][]float64
	defined [][]bool
}

// At returns the coefficient for (i, j) and whether it is defined
func (m *CorrelationMatrix) At(i, j int) (float64, bool) {
	if !m.defined[i][j] {
		return 0, false
	}
	return m.values[i][j], true
}

// Size returns the number of metrics on each axis
func (m *CorrelationMatrix) Size() int {
	return len(m.Metrics)
}

// MarshalJSON encodes undefined cells as null
func (m *CorrelationMatrix) MarshalJSON() ([]byte, error) {
	cells := make([][]*float64, len(m.values))
	for i := range m.values {
		cells[i] = make([]*float64, len(m.values[i]))
		for j := range m.values[i] {
			if v, ok := m.At(i, j); ok {
				cells[i][j] = &v
			}
		}
	}
	return json.Marshal(struct {
		Metrics []Metric     `json:"metrics"`
		Values  [][]*float64 `json:"values"`
	}{m.Metrics, cells})
}

// Correlate computes the Pearson matrix over Metrics.
// Fewer than two rows returns ErrInsufficientData.
func Correlate(scores []contracts.StockScore) (*CorrelationMatrix, error) {
	n := len(scores)
	if n < 2 {
		return nil, ErrInsufficientData
	}

	k := len(Metrics)
	cols := make([][]float64, k)
	means := make([]float64, k)
	for c, metric := range Metrics {
		cols[c] = make([]float64, n)
		for r, s := range scores {
			cols[c][r] = metric.value(s)
			means[c] += cols[c][r]
		}
		means[c] /= float64(n)
	}

	// 편차 제곱합
	ss := make([]float64, k)
	for c := range cols {
		for _, v := range cols[c] {
			d := v - means[c]
			ss[c] += d * d
		}
	}

	m := &CorrelationMatrix{
		Metrics: Metrics,
		values:  make([][]float64, k),
		defined: make([][]bool, k),
	}
	for i := 0; i < k; i++ {
		m.values[i] = make([]float64, k)
		m.defined[i] = make([]bool, k)
	}

	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			if ss[i] == 0 || ss[j] == 0 {
				continue
			}
			var cov float64
			for r := 0; r < n; r++ {
				cov += (cols[i][r] - means[i]) * (cols[j][r] - means[j])
			}
			rho := cov / math.Sqrt(ss[i]*ss[j])
			// 부동소수점 오차로 [-1,1]을 벗어나지 않게
			rho = math.Max(-1, math.Min(1, rho))
			if i == j {
				rho = 1
			}
			m.values[i][j], m.values[j][i] = rho, rho
			m.defined[i][j], m.defined[j][i] = true, true
		}
	}

	return m, nil
}
