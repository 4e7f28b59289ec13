package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wonny/kscanner/internal/contracts"
	"github.com/wonny/kscanner/internal/generator"
	"github.com/wonny/kscanner/internal/profile"
	"github.com/wonny/kscanner/pkg/logger"
)

// row builds a score whose total equals inst+vol (other components zero)
func row(name string, inst, vol, change float64) contracts.StockScore {
	return contracts.StockScore{
		Name:          name,
		Code:          "100000",
		Price:         50000,
		ChangePercent: change,
		Institution:   inst,
		Volume:        vol,
	}
}

func seededGenerator(seed uint64) *generator.Generator {
	return generator.New(generator.NewMockSource(profile.Default()),
		generator.Options{Seed: seed, SeedSet: true}, logger.NewNop())
}

func seededBatch(t *testing.T, seed uint64) *contracts.Batch {
	t.Helper()
	batch, err := seededGenerator(seed).Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, batch.Scores, 20)
	return batch
}

func names(scores []contracts.StockScore) []string {
	out := make([]string, len(scores))
	for i, s := range scores {
		out[i] = s.Name
	}
	return out
}
