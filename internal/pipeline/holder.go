package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/wonny/kscanner/internal/contracts"
	"github.com/wonny/kscanner/pkg/logger"
)

// BatchSource produces fresh batches (the generator)
type BatchSource interface {
	Generate(ctx context.Context) (*contracts.Batch, error)
}

// BatchCache stores the last generated batch
type BatchCache interface {
	Load(ctx context.Context) (*contracts.Batch, bool, error)
	Store(ctx context.Context, batch *contracts.Batch) error
	Clear(ctx context.Context) error
}

// BatchHolder is the caller-held slot for the last generated batch.
// Nothing is regenerated implicitly: the batch changes only through
// Refresh, or through Current after Invalidate. The cache is a mirror;
// the held copy stays authoritative when the cache evicts or expires.
// ⭐ SSOT: 마지막 배치 상태는 이 구조체에서만
type BatchHolder struct {
	mu        sync.Mutex
	source    BatchSource
	cache     BatchCache
	held      *contracts.Batch
	logger    *logger.Logger
	listeners []func(*contracts.Batch)
}

// NewBatchHolder creates a holder. A nil cache falls back to memory.
func NewBatchHolder(source BatchSource, cache BatchCache, log *logger.Logger) *BatchHolder {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &BatchHolder{
		source: source,
		cache:  cache,
		logger: log.Component("holder"),
	}
}

// OnRefresh registers a callback invoked after every newly generated batch
func (h *BatchHolder) OnRefresh(fn func(*contracts.Batch)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

// Current returns the held batch, generating one only if the slot is empty.
// On a fresh holder a batch already in the cache is adopted.
func (h *BatchHolder) Current(ctx context.Context) (*contracts.Batch, error) {
	h.mu.Lock()
	if h.held != nil {
		batch := h.held
		h.remirrorLocked(ctx, batch)
		h.mu.Unlock()
		return batch, nil
	}

	batch, ok, err := h.cache.Load(ctx)
	if err != nil {
		// 캐시 장애는 치명적이지 않음: 재생성으로 대체
		h.logger.WithError(err).Warn("Batch cache load failed, regenerating")
	}
	if ok && batch != nil {
		h.held = batch
		h.mu.Unlock()
		return batch, nil
	}

	batch, listeners, err := h.regenerateLocked(ctx)
	h.mu.Unlock()
	if err != nil {
		return nil, err
	}

	notify(listeners, batch)
	return batch, nil
}

// Refresh discards the cached batch and generates a new one
func (h *BatchHolder) Refresh(ctx context.Context) (*contracts.Batch, error) {
	h.mu.Lock()
	batch, listeners, err := h.regenerateLocked(ctx)
	h.mu.Unlock()
	if err != nil {
		return nil, err
	}

	notify(listeners, batch)
	return batch, nil
}

// Invalidate empties the slot; the next Current call regenerates
func (h *BatchHolder) Invalidate(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.held = nil
	if err := h.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clear batch cache: %w", err)
	}
	h.logger.Debug("Batch invalidated")
	return nil
}

func (h *BatchHolder) regenerateLocked(ctx context.Context) (*contracts.Batch, []func(*contracts.Batch), error) {
	batch, err := h.source.Generate(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("generate batch: %w", err)
	}

	h.held = batch
	if err := h.cache.Store(ctx, batch); err != nil {
		h.logger.WithError(err).WithField("batch_id", batch.ID).Warn("Batch cache store failed")
	}

	listeners := make([]func(*contracts.Batch), len(h.listeners))
	copy(listeners, h.listeners)
	return batch, listeners, nil
}

// remirrorLocked writes the held batch back when the cache lost it (TTL, eviction)
func (h *BatchHolder) remirrorLocked(ctx context.Context, batch *contracts.Batch) {
	_, ok, err := h.cache.Load(ctx)
	if err != nil || ok {
		return
	}
	if err := h.cache.Store(ctx, batch); err != nil {
		h.logger.WithError(err).WithField("batch_id", batch.ID).Warn("Batch cache re-store failed")
		return
	}
	h.logger.WithField("batch_id", batch.ID).Debug("Batch re-mirrored to cache")
}

func notify(listeners []func(*contracts.Batch), batch *contracts.Batch) {
	for _, fn := range listeners {
		fn(batch)
	}
}

// MemoryCache keeps the batch in process memory
type MemoryCache struct {
	mu    sync.RWMutex
	batch *contracts.Batch
}

// NewMemoryCache creates an empty in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Load(ctx context.Context) (*contracts.Batch, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.batch, c.batch != nil, nil
}

func (c *MemoryCache) Store(ctx context.Context, batch *contracts.Batch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batch = batch
	return nil
}

func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batch = nil
	return nil
}
