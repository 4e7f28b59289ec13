package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/wonny/kscanner/internal/contracts"
	"github.com/wonny/kscanner/internal/generator"
	"github.com/wonny/kscanner/internal/pipeline"
	"github.com/wonny/kscanner/internal/profile"
	"github.com/wonny/kscanner/pkg/logger"
)

func seededPipeline(t *testing.T, seed uint64) *pipeline.Pipeline {
	t.Helper()
	gen := generator.New(generator.NewMockSource(profile.Default()),
		generator.Options{Seed: seed, SeedSet: true}, logger.NewNop())
	return pipeline.New(pipeline.NewBatchHolder(gen, nil, logger.NewNop()))
}

// fixedSource serves the same hand-written batch on every call
type fixedSource struct {
	batch *contracts.Batch
}

func (f fixedSource) Generate(ctx context.Context) (*contracts.Batch, error) {
	return f.batch, nil
}

func fixedPipeline(scores ...contracts.StockScore) *pipeline.Pipeline {
	batch := &contracts.Batch{ID: "fixed", Seed: 1, Scores: scores}
	return pipeline.New(pipeline.NewBatchHolder(fixedSource{batch}, nil, logger.NewNop()))
}

func stock(name, code string, inst, vol, news float64) contracts.StockScore {
	return contracts.StockScore{
		Name: name, Code: code, Price: 71200, ChangePercent: 3.4,
		Institution: inst, Volume: vol, News: news, Program: 5, Technical: 5,
		VolumeLabel: "1234만주", MarketCapLabel: "425조원",
	}
}

// failingPipeline errors on every call
type failingPipeline struct{}

var errPipeline = errors.New("pipeline down")

func (failingPipeline) Run(ctx context.Context, q pipeline.Query) (*pipeline.View, error) {
	return nil, errPipeline
}

func (failingPipeline) Generate(ctx context.Context) (*contracts.Batch, error) {
	return nil, errPipeline
}
