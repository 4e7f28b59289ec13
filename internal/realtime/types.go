package realtime

import (
	"time"

	"github.com/wonny/kscanner/internal/contracts"
	"github.com/wonny/kscanner/internal/pipeline"
)

// EventType names a message pushed to dashboard clients
type EventType string

const (
	EventHello          EventType = "hello"
	EventBatchRefreshed EventType = "batch_refreshed"
)

// Event is the JSON frame sent over /ws/batches
// ⭐ SSOT: 웹소켓 메시지 구조
type Event struct {
	Type        EventType  `json:"type"`
	BatchID     string     `json:"batch_id,omitempty"`
	Seed        uint64     `json:"seed"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
	Rows        int        `json:"rows"`
	AboveCutoff int        `json:"above_cutoff"` // 75점 이상
	Rejected    int        `json:"rejected"`
}

// BatchEvent describes a newly generated batch
func BatchEvent(batch *contracts.Batch) Event {
	generatedAt := batch.GeneratedAt
	return Event{
		Type:        EventBatchRefreshed,
		BatchID:     batch.ID,
		Seed:        batch.Seed,
		GeneratedAt: &generatedAt,
		Rows:        batch.Len(),
		AboveCutoff: batch.CountAtLeast(pipeline.CutoffScore),
		Rejected:    len(batch.Warnings),
	}
}
