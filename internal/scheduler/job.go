package scheduler

import (
	"context"
	"time"
)

// Job represents a scheduled job
// ⭐ SSOT: 스케줄 작업 인터페이스는 여기서만 정의
type Job interface {
	Name() string

	// Run executes the job once; the scheduler owns retries
	Run(ctx context.Context) error

	// Schedule returns the cron expression, seconds field first
	// ("0 */10 * * * *", "@hourly")
	Schedule() string
}

// JobResult represents one execution, retries included
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Attempts  int           `json:"attempts"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// JobStats summarizes the retained history of a job
type JobStats struct {
	JobName      string     `json:"job_name"`
	Schedule     string     `json:"schedule"`
	TotalRuns    int        `json:"total_runs"`
	SuccessCount int        `json:"success_count"`
	FailureCount int        `json:"failure_count"`
	SuccessRate  float64    `json:"success_rate"`
	LastRun      *time.Time `json:"last_run,omitempty"`
	LastSuccess  *time.Time `json:"last_success,omitempty"`
	LastFailure  *time.Time `json:"last_failure,omitempty"`
}

// 최근 100건만 보관
const historyLimit = 100

// history is guarded by the scheduler mutex
type history struct {
	results []JobResult
}

func (h *history) add(result JobResult) {
	h.results = append(h.results, result)
	if len(h.results) > historyLimit {
		h.results = h.results[len(h.results)-historyLimit:]
	}
}

// latest returns a copy of the last n results, oldest first
func (h *history) latest(n int) []JobResult {
	if n > len(h.results) {
		n = len(h.results)
	}
	if n <= 0 {
		return []JobResult{}
	}
	out := make([]JobResult, n)
	copy(out, h.results[len(h.results)-n:])
	return out
}

func (h *history) stats(name, schedule string) JobStats {
	st := JobStats{JobName: name, Schedule: schedule, TotalRuns: len(h.results)}

	for i := range h.results {
		r := h.results[i]
		start := r.StartTime
		if r.Success {
			st.SuccessCount++
			st.LastSuccess = &start
		} else {
			st.FailureCount++
			st.LastFailure = &start
		}
		st.LastRun = &start
	}

	if st.TotalRuns > 0 {
		st.SuccessRate = float64(st.SuccessCount) / float64(st.TotalRuns)
	}
	return st
}
