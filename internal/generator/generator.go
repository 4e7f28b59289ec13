package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/kscanner/internal/contracts"
	"github.com/wonny/kscanner/pkg/logger"
)

// Generator turns raw source rows into a validated batch
// ⭐ SSOT: 배치 생성 및 레코드 검증은 여기서만
type Generator struct {
	source      RecordSource
	profileHash string
	seed        uint64
	seedSet     bool
	logger      *logger.Logger

	now   func() time.Time
	newID func() string
}

// Options configures a Generator
type Options struct {
	// Seed makes every batch identical when SeedSet is true.
	// Otherwise a time-derived seed is drawn per batch and recorded on it.
	Seed    uint64
	SeedSet bool

	ProfileHash string
}

// New creates a Generator
func New(source RecordSource, opts Options, log *logger.Logger) *Generator {
	return &Generator{
		source:      source,
		profileHash: opts.ProfileHash,
		seed:        opts.Seed,
		seedSet:     opts.SeedSet,
		logger:      log.Component("generator"),
		now:         time.Now,
		newID:       func() string { return uuid.NewString() },
	}
}

// Generate produces a fresh batch. Rows failing validation are dropped and
// reported in Batch.Warnings; they are never clamped into range.
func (g *Generator) Generate(ctx context.Context) (*contracts.Batch, error) {
	seed := g.seed
	if !g.seedSet {
		seed = uint64(g.now().UnixNano())
	}

	return g.GenerateWithSeed(ctx, seed)
}

// GenerateWithSeed produces the batch for an explicit seed
func (g *Generator) GenerateWithSeed(ctx context.Context, seed uint64) (*contracts.Batch, error) {
	raw, err := g.source.Draw(ctx, seed)
	if err != nil {
		return nil, fmt.Errorf("draw records: %w", err)
	}

	batch := &contracts.Batch{
		ID:          g.newID(),
		GeneratedAt: g.now(),
		Seed:        seed,
		ProfileHash: g.profileHash,
		Scores:      make([]contracts.StockScore, 0, len(raw)),
	}

	seenCodes := make(map[string]string, len(raw))
	for _, rec := range raw {
		if err := rec.Validate(); err != nil {
			g.logger.WithFields(map[string]interface{}{
				"name":  rec.Name,
				"code":  rec.Code,
				"error": err.Error(),
			}).Warn("Record rejected")

			batch.Warnings = append(batch.Warnings, contracts.Warning{
				Name:   rec.Name,
				Code:   rec.Code,
				Reason: err.Error(),
			})
			continue
		}

		// 중복 코드는 기대하지 않지만 강제하지 않음
		if other, dup := seenCodes[rec.Code]; dup {
			g.logger.WithFields(map[string]interface{}{
				"code":  rec.Code,
				"name":  rec.Name,
				"other": other,
			}).Warn("Duplicate stock code in batch")
		}
		seenCodes[rec.Code] = rec.Name

		batch.Scores = append(batch.Scores, rec)
	}

	g.logger.WithFields(map[string]interface{}{
		"batch_id": batch.ID,
		"seed":     seed,
		"accepted": len(batch.Scores),
		"rejected": len(batch.Warnings),
	}).Info("Batch generated")

	return batch, nil
}
