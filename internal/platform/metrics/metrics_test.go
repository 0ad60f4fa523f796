package metrics

import (
	"testing"
	"time"
)

func TestSnapshotIncludesDomainCounters(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(500, 20*time.Millisecond)
	c.RecordStatusComputation()
	c.RecordStatusComputation()
	c.RecordWeightRecompute()

	snap := c.Snapshot()
	if got := snap["requestsTotal"].(uint64); got != 2 {
		t.Fatalf("requestsTotal = %d, want 2", got)
	}
	if got := snap["errorsTotal"].(uint64); got != 1 {
		t.Fatalf("errorsTotal = %d, want 1", got)
	}
	if got := snap["statusComputationsTotal"].(uint64); got != 2 {
		t.Fatalf("statusComputationsTotal = %d, want 2", got)
	}
	if got := snap["weightRecomputesTotal"].(uint64); got != 1 {
		t.Fatalf("weightRecomputesTotal = %d, want 1", got)
	}
	if got := snap["avgDurationMs"].(float64); got != 15 {
		t.Fatalf("avgDurationMs = %v, want 15", got)
	}
}
