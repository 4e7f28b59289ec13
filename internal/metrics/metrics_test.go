package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/kscanner/internal/contracts"
)

func batch() *contracts.Batch {
	return &contracts.Batch{
		ID:          "b1",
		GeneratedAt: time.Unix(1_700_000_000, 0),
		Scores: []contracts.StockScore{
			{Name: "a", Institution: 35, Volume: 30, News: 15, Program: 10, Technical: 5}, // 95
			{Name: "b", Institution: 30, Volume: 25, News: 10, Program: 10, Technical: 5}, // 80
			{Name: "c", Institution: 20, Volume: 15, News: 5, Program: 5, Technical: 5},   // 50
		},
		Warnings: []contracts.Warning{{Name: "x", Reason: "bad"}},
	}
}

func TestObserveBatch(t *testing.T) {
	r := NewRegistry()

	r.ObserveBatch(batch())
	r.ObserveBatch(batch())

	assert.Equal(t, 2.0, testutil.ToFloat64(r.BatchesGenerated))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.RecordsRejected))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.BatchSize))
	assert.Equal(t, 1_700_000_000.0, testutil.ToFloat64(r.LastBatchTime))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.BatchTier.WithLabelValues("STRONG_BUY")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.BatchTier.WithLabelValues("WATCH")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.BatchTier.WithLabelValues("IGNORE")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.BatchTier.WithLabelValues("MONITOR")))
}

func TestObserveRequest(t *testing.T) {
	r := NewRegistry()

	r.ObserveRequest("/api/scores", http.MethodGet, 200, 5*time.Millisecond)
	r.ObserveRequest("/api/scores", http.MethodGet, 200, 7*time.Millisecond)
	r.ObserveRequest("/api/refresh", http.MethodPost, 429, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.HTTPRequests.WithLabelValues("/api/scores", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.HTTPRequests.WithLabelValues("/api/refresh", "POST", "429")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.HTTPDuration))
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.ObserveBatch(batch())

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "kscanner_batches_generated_total 1")
	assert.Contains(t, string(body), `kscanner_batch_tier_rows{tier="STRONG_BUY"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := NewRegistry(), NewRegistry()
	a.ObserveBatch(batch())

	assert.Equal(t, 1.0, testutil.ToFloat64(a.BatchesGenerated))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.BatchesGenerated))
}
