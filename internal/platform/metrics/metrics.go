package metrics

import (
	"sync/atomic"
	"time"
)

// Collector tracks request-level counters plus the two domain operations worth
// watching in this service: status computations and weight recomputations.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64

	statusComputations uint64
	weightRecomputes   uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// RecordStatusComputation counts one per-employee status aggregation.
func (c *Collector) RecordStatusComputation() {
	atomic.AddUint64(&c.statusComputations, 1)
}

// RecordWeightRecompute counts one employee/period weight reallocation.
func (c *Collector) RecordWeightRecompute() {
	atomic.AddUint64(&c.weightRecomputes, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":           total,
		"errorsTotal":             atomic.LoadUint64(&c.errorRequests),
		"rateLimitedTotal":        atomic.LoadUint64(&c.rateLimited),
		"avgDurationMs":           avg,
		"totalDurationMs":         totalMs,
		"statusComputationsTotal": atomic.LoadUint64(&c.statusComputations),
		"weightRecomputesTotal":   atomic.LoadUint64(&c.weightRecomputes),
	}
}
