package charts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/kscanner/internal/contracts"
	"github.com/wonny/kscanner/internal/pipeline"
)

func score(name string, inst, vol, news float64) contracts.StockScore {
	return contracts.StockScore{
		Name: name, Code: "123456", Price: 10000, ChangePercent: inst / 10,
		Institution: inst, Volume: vol, News: news, Program: 5, Technical: 5,
	}
}

func fixture() []contracts.StockScore {
	return []contracts.StockScore{
		score("a", 35, 30, 15), // 90
		score("b", 30, 25, 10), // 75
		score("c", 20, 15, 5),  // 50
		score("d", 35, 28, 14), // 87
		score("e", 34, 27, 14), // 85
		score("f", 25, 20, 10), // 65
	}
}

func TestNewHistogram(t *testing.T) {
	h := NewHistogram(fixture(), 10)
	require.Len(t, h.Bins, 10)

	assert.Equal(t, 50.0, h.Bins[0].Lower)
	assert.Equal(t, 90.0, h.Bins[9].Upper)

	total := 0
	for _, b := range h.Bins {
		total += b.Count
	}
	assert.Equal(t, 6, total)

	assert.Equal(t, 1, h.Bins[0].Count, "50 in first bin")
	assert.Equal(t, 2, h.Bins[9].Count, "87 and the max value share the last bin")
}

func TestNewHistogram_Edges(t *testing.T) {
	assert.Empty(t, NewHistogram(nil, 10).Bins)
	assert.Empty(t, NewHistogram(fixture(), 0).Bins)

	same := []contracts.StockScore{score("a", 30, 30, 10), score("b", 30, 30, 10)}
	h := NewHistogram(same, 10)
	require.Len(t, h.Bins, 10)
	sum := 0
	for _, b := range h.Bins {
		sum += b.Count
		assert.Less(t, b.Lower, b.Upper)
	}
	assert.Equal(t, 2, sum)
}

func TestTierDistribution(t *testing.T) {
	slices := TierDistribution(fixture())

	require.Len(t, slices, 4)
	assert.Equal(t, contracts.TierStrongBuy, slices[0].Tier)
	assert.Equal(t, 1, slices[0].Count)
	assert.Equal(t, "🔥 적극매수", slices[0].Label)

	assert.Equal(t, contracts.TierBuyCandidate, slices[1].Tier)
	assert.Equal(t, 2, slices[1].Count)
	assert.Equal(t, contracts.TierMonitor, slices[2].Tier)
	assert.Equal(t, contracts.TierIgnore, slices[3].Tier)
	assert.Equal(t, 2, slices[3].Count)

	assert.Empty(t, TierDistribution(nil))
}

func TestSubScoreMeans(t *testing.T) {
	summary, err := pipeline.Aggregate(fixture())
	require.NoError(t, err)

	bars := SubScoreMeans(summary)
	require.Len(t, bars, 5)
	assert.Equal(t, "기관투자자", bars[0].Label)
	assert.InDelta(t, 29.833, bars[0].Mean, 0.001)
	assert.Equal(t, 35.0, bars[0].Max)
	assert.InDelta(t, 5.0, bars[4].Mean, 1e-9)

	assert.Empty(t, SubScoreMeans(nil))
}

func TestRadar(t *testing.T) {
	chart := Radar(fixture(), 3)

	assert.Equal(t, RadarMax, chart.RadialMax)
	assert.Equal(t, []string{"기관투자자", "거래량돌파", "뉴스분석", "프로그램매매", "기술적분석"}, chart.Axes)

	require.Len(t, chart.Series, 3)
	assert.Equal(t, "a", chart.Series[0].Name)
	assert.Equal(t, "d", chart.Series[1].Name)
	assert.Equal(t, "e", chart.Series[2].Name)
	assert.Equal(t, []float64{35, 30, 15, 5, 5}, chart.Series[0].Values)
	assert.Equal(t, 90.0, chart.Series[0].Total)

	assert.Len(t, Radar(fixture(), 100).Series, 6)
	assert.Empty(t, Radar(nil, 5).Series)
}

func TestHeatmap(t *testing.T) {
	summary, err := pipeline.Aggregate(fixture())
	require.NoError(t, err)

	chart := Heatmap(summary)
	require.NotNil(t, chart)
	require.Len(t, chart.Labels, 7)
	assert.Equal(t, "총점", chart.Labels[0])

	// program and technical are constant in the fixture
	require.NotNil(t, chart.Cells[0][0])
	assert.Equal(t, 1.0, *chart.Cells[0][0])
	assert.Nil(t, chart.Cells[5][5])
	assert.Nil(t, chart.Cells[0][6])

	single, err := pipeline.Aggregate(fixture()[:1])
	require.NoError(t, err)
	assert.Nil(t, Heatmap(single))
	assert.Nil(t, Heatmap(nil))
}

func TestBuild(t *testing.T) {
	batch := &contracts.Batch{ID: "b", Scores: fixture()}
	q := pipeline.DefaultQuery()
	view, err := pipeline.BuildView(batch, q)
	require.NoError(t, err)

	bundle := Build(view, 5)
	assert.Len(t, bundle.Radar.Series, 4)
	assert.NotEmpty(t, bundle.Histogram.Bins)
	assert.Len(t, bundle.SubScores, 5)
	assert.NotNil(t, bundle.Heatmap)

	raw, err := json.Marshal(bundle)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"radial_max":35`)
}

func TestBuild_NoData(t *testing.T) {
	batch := &contracts.Batch{ID: "b", Scores: []contracts.StockScore{score("c", 20, 15, 5)}}
	view, err := pipeline.BuildView(batch, pipeline.DefaultQuery())
	require.NoError(t, err)
	require.True(t, view.NoData)

	bundle := Build(view, 5)
	assert.Empty(t, bundle.Histogram.Bins)
	assert.Empty(t, bundle.Tiers)
	assert.Empty(t, bundle.SubScores)
	assert.Empty(t, bundle.Radar.Series)
	assert.Nil(t, bundle.Heatmap)
}
