package evaluators

import (
	"context"
	"testing"
	"time"
)

type fakeStore struct {
	primary   []Mapping
	secondary []Mapping
	wbsCounts map[string]int
	active    map[string]bool
}

func (f *fakeStore) PrimaryMappings(_ context.Context, _, _ string) ([]Mapping, error) {
	return f.primary, nil
}

func (f *fakeStore) SecondaryMappings(_ context.Context, _, _ string) ([]Mapping, error) {
	return f.secondary, nil
}

func (f *fakeStore) AssignedWbsCountForEvaluator(_ context.Context, _, _, evaluatorID string) (int, error) {
	return f.wbsCounts[evaluatorID], nil
}

func (f *fakeStore) HasActiveMapping(_ context.Context, _, _, evaluatorID string) (bool, error) {
	return f.active[evaluatorID], nil
}

func wbs(id string) *string { return &id }

func at(minute int) time.Time {
	return time.Date(2026, 3, 1, 9, minute, 0, 0, time.UTC)
}

func TestResolvePrimaryPrefersFixedMapping(t *testing.T) {
	store := &fakeStore{primary: []Mapping{
		{EvaluatorID: "legacy", WbsItemID: wbs("w1"), CreatedAt: at(0)},
		{EvaluatorID: "fixed", WbsItemID: nil, CreatedAt: at(1)},
	}}
	resolver := NewResolver(store)

	ids, err := resolver.ResolvePrimaryEvaluators(context.Background(), "p1", "e1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != "fixed" {
		t.Fatalf("expected only the fixed evaluator, got %v", ids)
	}
}

func TestResolvePrimaryFallsBackToWbsScoped(t *testing.T) {
	store := &fakeStore{primary: []Mapping{
		{EvaluatorID: "ev1", WbsItemID: wbs("w1"), CreatedAt: at(0)},
		{EvaluatorID: "ev1", WbsItemID: wbs("w2"), CreatedAt: at(1)},
		{EvaluatorID: "ev2", WbsItemID: wbs("w3"), CreatedAt: at(2)},
	}}
	resolver := NewResolver(store)

	ids, err := resolver.ResolvePrimaryEvaluators(context.Background(), "p1", "e1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "ev1" || ids[1] != "ev2" {
		t.Fatalf("expected deduped legacy evaluators in creation order, got %v", ids)
	}
}

func TestResolvePrimaryReplacementKeepsBothCurrentRows(t *testing.T) {
	// During replacement the outgoing and incoming fixed mappings can coexist;
	// both must participate until the old row is soft-deleted.
	store := &fakeStore{primary: []Mapping{
		{EvaluatorID: "old", WbsItemID: nil, CreatedAt: at(0)},
		{EvaluatorID: "new", WbsItemID: nil, CreatedAt: at(1)},
	}}
	resolver := NewResolver(store)

	ids, err := resolver.ResolvePrimaryEvaluators(context.Background(), "p1", "e1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "old" {
		t.Fatalf("expected both evaluators with the earliest as representative, got %v", ids)
	}
}

func TestResolvePrimaryNoMappings(t *testing.T) {
	resolver := NewResolver(&fakeStore{})
	ids, err := resolver.ResolvePrimaryEvaluators(context.Background(), "p1", "e1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no evaluators, got %v", ids)
	}
}

func TestResolveSecondaryDistinct(t *testing.T) {
	store := &fakeStore{secondary: []Mapping{
		{EvaluatorID: "s1", WbsItemID: wbs("w1"), CreatedAt: at(0)},
		{EvaluatorID: "s2", WbsItemID: wbs("w2"), CreatedAt: at(1)},
		{EvaluatorID: "s1", WbsItemID: wbs("w3"), CreatedAt: at(2)},
	}}
	resolver := NewResolver(store)

	ids, err := resolver.ResolveSecondaryEvaluators(context.Background(), "p1", "e1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "s1" || ids[1] != "s2" {
		t.Fatalf("expected distinct evaluators in creation order, got %v", ids)
	}
}
