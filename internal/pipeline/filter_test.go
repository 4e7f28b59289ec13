package pipeline

import (
	"sort"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/kscanner/internal/contracts"
)

func TestFilter(t *testing.T) {
	scores := []contracts.StockScore{
		row("a", 30, 30, 1), // 60 IGNORE
		row("b", 35, 40, 2), // 75 MONITOR
		row("c", 35, 55, 3), // 90 STRONG_BUY
		row("d", 30, 44, 4), // 74 IGNORE
		row("e", 35, 50, 5), // 85 BUY_CANDIDATE
	}

	tests := []struct {
		name     string
		min      float64
		allowed  contracts.TierSet
		expected []string
	}{
		{"all tiers at 75", 75, contracts.AllTierSet(), []string{"b", "c", "e"}},
		{"all tiers at 50", 50, contracts.AllTierSet(), []string{"a", "b", "c", "d", "e"}},
		{"default tiers at 50", 50, contracts.DefaultTierSet(), []string{"b", "c", "e"}},
		{"strong buy only", 50, contracts.NewTierSet(contracts.TierStrongBuy), []string{"c"}},
		{"nothing passes", 95, contracts.AllTierSet(), []string{}},
		{"empty tier set", 50, contracts.NewTierSet(), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(scores, tt.min, tt.allowed)
			assert.Equal(t, tt.expected, names(got))
		})
	}
}

func TestFilter_GeneratedBatchAt75(t *testing.T) {
	batch := seededBatch(t, 11)

	got := Filter(batch.Rows(), 75, contracts.AllTierSet())

	want := make([]contracts.StockScore, 0)
	for _, s := range batch.Scores {
		if s.Total() >= 75 {
			want = append(want, s)
		}
	}
	assert.Equal(t, want, got, "exactly the >=75 subset in generation order")
}

func TestFilter_DisplayedTotalDecidesTier(t *testing.T) {
	// seed 21: 삼성전자 합계가 75.0 으로 표시되는 경계 행
	batch := seededBatch(t, 21)

	var atBoundary *contracts.StockScore
	for i, s := range batch.Scores {
		shown, err := strconv.ParseFloat(strconv.FormatFloat(s.Total(), 'f', 1, 64), 64)
		require.NoError(t, err)
		assert.Equal(t, shown, s.Total(), s.Name)
		assert.Equal(t, contracts.Classify(shown), s.Tier(), s.Name)
		if s.Name == "삼성전자" {
			atBoundary = &batch.Scores[i]
		}
	}

	require.NotNil(t, atBoundary)
	assert.Equal(t, "75.0", strconv.FormatFloat(atBoundary.Total(), 'f', 1, 64))
	assert.Equal(t, contracts.TierMonitor, atBoundary.Tier())
	assert.Contains(t, names(Filter(batch.Rows(), 75, contracts.AllTierSet())), "삼성전자")
}

func TestSort_TotalDescending(t *testing.T) {
	batch := seededBatch(t, 5)
	rows := batch.Rows()

	sorted := Sort(rows, SortByTotal, false)
	require.Len(t, sorted, len(rows))

	for i := 1; i < len(sorted); i++ {
		assert.GreaterOrEqual(t, sorted[i-1].Total(), sorted[i].Total())
	}

	// permutation
	a, b := names(rows), names(sorted)
	sort.Strings(a)
	sort.Strings(b)
	assert.Equal(t, a, b)

	assert.Equal(t, rows, batch.Scores, "input is not mutated")
}

func TestSort_Stable(t *testing.T) {
	scores := []contracts.StockScore{
		row("first", 40, 40, 5),
		row("low", 10, 10, 1),
		row("second", 40, 40, 5),
		row("high", 45, 45, 9),
		row("third", 40, 40, 5),
	}

	desc := Sort(scores, SortByTotal, false)
	assert.Equal(t, []string{"high", "first", "second", "third", "low"}, names(desc))

	asc := Sort(scores, SortByTotal, true)
	assert.Equal(t, []string{"low", "first", "second", "third", "high"}, names(asc))

	byChange := Sort(scores, SortByChangePercent, true)
	assert.Equal(t, []string{"low", "first", "second", "third", "high"}, names(byChange))
}

func TestSort_Keys(t *testing.T) {
	scores := []contracts.StockScore{
		row("a", 10, 30, 3),
		row("b", 30, 10, 1),
		row("c", 20, 20, 2),
	}

	assert.Equal(t, []string{"b", "c", "a"}, names(Sort(scores, SortByInstitution, false)))
	assert.Equal(t, []string{"a", "c", "b"}, names(Sort(scores, SortByVolume, false)))
	assert.Equal(t, []string{"b", "c", "a"}, names(Sort(scores, SortByChangePercent, true)))
}

func TestSort_Empty(t *testing.T) {
	got := Sort(nil, SortByTotal, false)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTopN(t *testing.T) {
	batch := seededBatch(t, 99)
	rows := batch.Rows()

	assert.Equal(t, Sort(rows, SortByTotal, false)[:5], TopN(rows, 5))
	assert.Len(t, TopN(rows, 100), 20)
	assert.Equal(t, Sort(rows, SortByTotal, false), TopN(rows, 100))
	assert.Empty(t, TopN(rows, 0))
	assert.Empty(t, TopN(rows, -3))
	assert.Empty(t, TopN(nil, 5))
}
