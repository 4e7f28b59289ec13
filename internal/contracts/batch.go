package contracts

import (
	"time"
)

// Batch is the ordered output of one generation call
// ⭐ SSOT: Generator → Pipeline 데이터 전달
type Batch struct {
	ID          string       `json:"id"`
	GeneratedAt time.Time    `json:"generated_at"`
	Seed        uint64       `json:"seed"`
	ProfileHash string       `json:"profile_hash,omitempty"`
	Scores      []StockScore `json:"scores"` // generation order
	Warnings    []Warning    `json:"warnings,omitempty"`
}

// Warning describes a record rejected during generation
type Warning struct {
	Name   string `json:"name"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// Len returns the number of accepted rows
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Scores)
}

// Rows returns a copy of the rows so callers cannot alter the batch
func (b *Batch) Rows() []StockScore {
	if b == nil {
		return nil
	}
	out := make([]StockScore, len(b.Scores))
	copy(out, b.Scores)
	return out
}

// CountAtLeast counts rows whose total reaches min (사이드바 "75점 이상" 지표)
func (b *Batch) CountAtLeast(min float64) int {
	if b == nil {
		return 0
	}
	n := 0
	for _, s := range b.Scores {
		if s.Total() >= min {
			n++
		}
	}
	return n
}
