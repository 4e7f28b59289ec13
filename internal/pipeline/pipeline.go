package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/wonny/kscanner/internal/contracts"
)

// Pipeline is the only surface a UI or API layer calls. It knows nothing
// about how its output is displayed.
type Pipeline struct {
	holder *BatchHolder
}

// New creates a pipeline around a caller-held batch slot
func New(holder *BatchHolder) *Pipeline {
	return &Pipeline{holder: holder}
}

// Generate regenerates the batch
func (p *Pipeline) Generate(ctx context.Context) (*contracts.Batch, error) {
	return p.holder.Refresh(ctx)
}

// Current returns the held batch (generating it on first use)
func (p *Pipeline) Current(ctx context.Context) (*contracts.Batch, error) {
	return p.holder.Current(ctx)
}

// Invalidate drops the held batch
func (p *Pipeline) Invalidate(ctx context.Context) error {
	return p.holder.Invalidate(ctx)
}

// Filter keeps rows at or above minScore whose tier is allowed
func (p *Pipeline) Filter(scores []contracts.StockScore, minScore float64, allowed contracts.TierSet) []contracts.StockScore {
	return Filter(scores, minScore, allowed)
}

// Sort returns a stably ordered copy
func (p *Pipeline) Sort(scores []contracts.StockScore, key SortKey, ascending bool) []contracts.StockScore {
	return Sort(scores, key, ascending)
}

// TopN returns at most n leading rows
func (p *Pipeline) TopN(scores []contracts.StockScore, n int) []contracts.StockScore {
	return TopN(scores, n)
}

// Aggregate summarizes the rows (ErrNoData when empty)
func (p *Pipeline) Aggregate(scores []contracts.StockScore) (*Summary, error) {
	return Aggregate(scores)
}

// Run performs one full recomputation for a query against the held batch
func (p *Pipeline) Run(ctx context.Context, q Query) (*View, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	batch, err := p.holder.Current(ctx)
	if err != nil {
		return nil, err
	}

	return BuildView(batch, q)
}

// View is the immutable result of one interaction
type View struct {
	BatchID     string              `json:"batch_id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Seed        uint64              `json:"seed"`
	TotalRows   int                 `json:"total_rows"`
	AboveCutoff int                 `json:"above_cutoff"` // 75점 이상
	Warnings    []contracts.Warning `json:"warnings,omitempty"`

	Query   Query                  `json:"-"`
	Rows    []contracts.StockScore `json:"rows"` // filtered, then sorted per query
	Top     []contracts.StockScore `json:"top"`  // top-N of the filtered rows by total
	Summary *Summary               `json:"summary"`
	NoData  bool                   `json:"no_data"`
}

// BuildView filters, sorts, ranks and aggregates a batch for q
func BuildView(batch *contracts.Batch, q Query) (*View, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	filtered := Filter(batch.Rows(), q.MinScore, q.Tiers)

	v := &View{
		BatchID:     batch.ID,
		GeneratedAt: batch.GeneratedAt,
		Seed:        batch.Seed,
		TotalRows:   batch.Len(),
		AboveCutoff: batch.CountAtLeast(CutoffScore),
		Warnings:    batch.Warnings,
		Query:       q,
		Rows:        Sort(filtered, q.SortKey, q.Ascending),
		Top:         TopN(filtered, q.TopN),
	}

	summary, err := Aggregate(filtered)
	switch {
	case errors.Is(err, ErrNoData):
		v.NoData = true
	case err != nil:
		return nil, err
	default:
		v.Summary = summary
	}

	return v, nil
}
