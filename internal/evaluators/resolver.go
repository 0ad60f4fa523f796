package evaluators

import (
	"context"
	"fmt"
	"time"
)

// Mapping is one live evaluation-line mapping row. WbsItemID is nil for the
// fixed per-employee primary evaluator shape; secondary mappings are per WBS.
type Mapping struct {
	EvaluatorID string
	WbsItemID   *string
	CreatedAt   time.Time
}

type StoreAPI interface {
	PrimaryMappings(ctx context.Context, periodID, employeeID string) ([]Mapping, error)
	SecondaryMappings(ctx context.Context, periodID, employeeID string) ([]Mapping, error)
	// AssignedWbsCountForEvaluator counts the distinct WBS items mapped to the
	// evaluator whose underlying assignment is still valid.
	AssignedWbsCountForEvaluator(ctx context.Context, periodID, employeeID, evaluatorID string) (int, error)
	// HasActiveMapping reports whether any live mapping links the evaluator to
	// the employee for the period, regardless of line type.
	HasActiveMapping(ctx context.Context, periodID, employeeID, evaluatorID string) (bool, error)
}

// Resolver resolves the current evaluator set fresh per call; replaced
// evaluators stop counting the moment their mapping row is soft-deleted.
type Resolver struct {
	store StoreAPI
}

func NewResolver(store StoreAPI) *Resolver {
	return &Resolver{store: store}
}

// ResolvePrimaryEvaluators returns the current primary evaluator IDs in
// creation order. The first entry is the representative evaluator for display,
// but all of them participate in scoring: during mid-period replacement the
// old and new mapping rows may briefly coexist.
func (r *Resolver) ResolvePrimaryEvaluators(ctx context.Context, periodID, employeeID string) ([]string, error) {
	mappings, err := r.store.PrimaryMappings(ctx, periodID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("load primary mappings: %w", err)
	}
	return primaryEvaluatorIDs(mappings), nil
}

// ResolveSecondaryEvaluators returns the distinct current secondary evaluator
// IDs in creation order. Each is scored independently.
func (r *Resolver) ResolveSecondaryEvaluators(ctx context.Context, periodID, employeeID string) ([]string, error) {
	mappings, err := r.store.SecondaryMappings(ctx, periodID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("load secondary mappings: %w", err)
	}
	return dedupe(mappings), nil
}

func (r *Resolver) AssignedWbsCount(ctx context.Context, periodID, employeeID, evaluatorID string) (int, error) {
	return r.store.AssignedWbsCountForEvaluator(ctx, periodID, employeeID, evaluatorID)
}

func (r *Resolver) HasActiveMapping(ctx context.Context, periodID, employeeID, evaluatorID string) (bool, error) {
	return r.store.HasActiveMapping(ctx, periodID, employeeID, evaluatorID)
}

// primaryEvaluatorIDs prefers employee-fixed mappings (wbs item unset); legacy
// data only carries WBS-scoped primary mappings, so those are the fallback.
func primaryEvaluatorIDs(mappings []Mapping) []string {
	var fixed []Mapping
	for _, m := range mappings {
		if m.WbsItemID == nil {
			fixed = append(fixed, m)
		}
	}
	if len(fixed) > 0 {
		return dedupe(fixed)
	}
	return dedupe(mappings)
}

func dedupe(mappings []Mapping) []string {
	seen := map[string]struct{}{}
	var ids []string
	for _, m := range mappings {
		if _, ok := seen[m.EvaluatorID]; ok {
			continue
		}
		seen[m.EvaluatorID] = struct{}{}
		ids = append(ids, m.EvaluatorID)
	}
	return ids
}
