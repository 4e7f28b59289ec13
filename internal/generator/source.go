package generator

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/wonny/kscanner/internal/contracts"
	"github.com/wonny/kscanner/internal/profile"
)

// RecordSource yields raw candidate rows for one batch.
// The mock source draws them from a PRNG; a real collector would fetch them.
type RecordSource interface {
	Draw(ctx context.Context, seed uint64) ([]contracts.StockScore, error)
}

// MockSource draws plausible-looking scores following a generation profile
type MockSource struct {
	profile *profile.Profile
}

// NewMockSource creates a mock source for the given profile
func NewMockSource(p *profile.Profile) *MockSource {
	return &MockSource{profile: p}
}

// pcgStream decorrelates the two PCG words derived from one seed
const pcgStream = 0x9E3779B97F4A7C15

// Draw produces one row per roster entry, in roster order. Same seed, same rows.
func (m *MockSource) Draw(ctx context.Context, seed uint64) ([]contracts.StockScore, error) {
	r := rand.New(rand.NewPCG(seed, seed^pcgStream))
	mk := m.profile.Market

	rows := make([]contracts.StockScore, 0, len(m.profile.Roster))
	for i, name := range m.profile.Roster {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		band := m.profile.BandFor(i)
		rows = append(rows, contracts.StockScore{
			Name:           name,
			Code:           fmt.Sprintf("%06d", 100000+r.Int64N(900000)),
			Price:          intBetween(r, mk.Price),
			ChangePercent:  round1(floatBetween(r, mk.ChangePercent)),
			Institution:    round1(floatBetween(r, band.Institution)),
			Volume:         round1(floatBetween(r, band.Volume)),
			News:           round1(floatBetween(r, band.News)),
			Program:        round1(floatBetween(r, band.Program)),
			Technical:      round1(floatBetween(r, band.Technical)),
			VolumeLabel:    fmt.Sprintf("%d만주", intBetween(r, mk.VolumeManShare)),
			MarketCapLabel: fmt.Sprintf("%d조원", intBetween(r, mk.MarketCapJo)),
		})
	}

	return rows, nil
}

func floatBetween(r *rand.Rand, rg profile.Range) float64 {
	return rg.Min + r.Float64()*(rg.Max-rg.Min)
}

func intBetween(r *rand.Rand, rg profile.IntRange) int64 {
	return rg.Min + r.Int64N(rg.Max-rg.Min+1)
}

// round1 rounds to one decimal place (0.1점 단위)
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
