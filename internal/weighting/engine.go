package weighting

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// MetricsRecorder counts completed recomputations. A nil recorder disables
// counting.
type MetricsRecorder interface {
	RecordWeightRecompute()
}

// Engine recomputes the persisted percentage weights for an employee/period.
// Recomputation fully overwrites prior weights, so repeated runs with unchanged
// data are idempotent. Callers must await recomputation before reading weights.
type Engine struct {
	store   StoreAPI
	logger  *slog.Logger
	metrics MetricsRecorder

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEngine(store StoreAPI, logger *slog.Logger, metrics MetricsRecorder) *Engine {
	return &Engine{store: store, logger: logger, metrics: metrics, locks: map[string]*sync.Mutex{}}
}

// pairLock serializes concurrent recomputation for the same employee/period;
// the algorithm reads the full assignment set and writes it back row by row.
func (e *Engine) pairLock(employeeID, periodID string) *sync.Mutex {
	key := employeeID + "/" + periodID
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[key] = lock
	}
	return lock
}

// RecomputeWeights reallocates and persists weights for every live WBS
// assignment of the pair. No assignments is a no-op. A failed row update is
// logged and skipped so the remaining rows still converge.
func (e *Engine) RecomputeWeights(ctx context.Context, employeeID, periodID string) error {
	lock := e.pairLock(employeeID, periodID)
	lock.Lock()
	defer lock.Unlock()

	items, err := e.store.AssignmentImportances(ctx, employeeID, periodID)
	if err != nil {
		return fmt.Errorf("load assignment importances: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	for _, update := range Allocate(items) {
		if err := e.store.UpdateAssignmentWeight(ctx, update.AssignmentID, update.Weight); err != nil {
			e.logger.Warn("weight update failed",
				"assignmentId", update.AssignmentID,
				"employeeId", employeeID,
				"periodId", periodID,
				"err", err,
			)
		}
	}
	if e.metrics != nil {
		e.metrics.RecordWeightRecompute()
	}
	return nil
}

// RecomputeWeightsForWbs fans out to every employee/period pair holding a live
// assignment of the WBS item, typically after a criteria importance change.
// One pair's failure does not stop the rest.
func (e *Engine) RecomputeWeightsForWbs(ctx context.Context, wbsItemID string) error {
	pairs, err := e.store.PairsForWbs(ctx, wbsItemID)
	if err != nil {
		return fmt.Errorf("load pairs for wbs %s: %w", wbsItemID, err)
	}

	for _, pair := range pairs {
		if err := e.RecomputeWeights(ctx, pair.EmployeeID, pair.PeriodID); err != nil {
			e.logger.Error("weight recompute failed",
				"wbsItemId", wbsItemID,
				"employeeId", pair.EmployeeID,
				"periodId", pair.PeriodID,
				"err", err,
			)
		}
	}
	return nil
}
