package assignments

import (
	"context"
	"io"
	"errors"
	"log/slog"
	"testing"
)

type fakeStore struct {
	projectRows map[string]bool
	wbsRows     map[string]bool
	nextOrder   int
	criteria    map[string][]CriterionInput
	insertErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projectRows: map[string]bool{},
		wbsRows:     map[string]bool{},
		nextOrder:   1,
		criteria:    map[string][]CriterionInput{},
	}
}

func (f *fakeStore) InsertProjectAssignment(_ context.Context, id, _, _, _ string) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.projectRows[id] = true
	return nil
}

func (f *fakeStore) SoftDeleteProjectAssignment(_ context.Context, _, _, projectID string) (bool, error) {
	if !f.projectRows[projectID] {
		return false, nil
	}
	delete(f.projectRows, projectID)
	return true, nil
}

func (f *fakeStore) InsertWbsAssignment(_ context.Context, id, _, _, _, _ string, _ int) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.wbsRows[id] = true
	return nil
}

func (f *fakeStore) SoftDeleteWbsAssignment(_ context.Context, _, _, wbsItemID string) (bool, error) {
	if !f.wbsRows[wbsItemID] {
		return false, nil
	}
	delete(f.wbsRows, wbsItemID)
	return true, nil
}

func (f *fakeStore) NextDisplayOrder(context.Context, string, string) (int, error) {
	return f.nextOrder, nil
}

func (f *fakeStore) ReplaceCriteria(_ context.Context, wbsItemID string, criteria []CriterionInput) error {
	f.criteria[wbsItemID] = criteria
	return nil
}

type fakeWeigher struct {
	pairCalls []string
	wbsCalls  []string
}

func (f *fakeWeigher) RecomputeWeights(_ context.Context, employeeID, periodID string) error {
	f.pairCalls = append(f.pairCalls, employeeID+"/"+periodID)
	return nil
}

func (f *fakeWeigher) RecomputeWeightsForWbs(_ context.Context, wbsItemID string) error {
	f.wbsCalls = append(f.wbsCalls, wbsItemID)
	return nil
}

func newTestService(store *fakeStore, weigher *fakeWeigher) *Service {
	return NewService(store, weigher, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAssignWbsRecomputesWeights(t *testing.T) {
	store := newFakeStore()
	weigher := &fakeWeigher{}
	svc := newTestService(store, weigher)

	id, err := svc.AssignWbs(context.Background(), "p1", "e1", "proj1", "wbs1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated assignment id")
	}
	if len(weigher.pairCalls) != 1 || weigher.pairCalls[0] != "e1/p1" {
		t.Fatalf("recompute calls = %v, want [e1/p1]", weigher.pairCalls)
	}
}

func TestCancelWbsNotFound(t *testing.T) {
	store := newFakeStore()
	weigher := &fakeWeigher{}
	svc := newTestService(store, weigher)

	err := svc.CancelWbs(context.Background(), "p1", "e1", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if len(weigher.pairCalls) != 0 {
		t.Fatal("weights must not be recomputed when nothing was cancelled")
	}
}

func TestCancelWbsRecomputesWeights(t *testing.T) {
	store := newFakeStore()
	store.wbsRows["wbs1"] = true
	weigher := &fakeWeigher{}
	svc := newTestService(store, weigher)

	if err := svc.CancelWbs(context.Background(), "p1", "e1", "wbs1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(weigher.pairCalls) != 1 {
		t.Fatalf("recompute calls = %d, want 1", len(weigher.pairCalls))
	}
}

func TestCancelProjectRecomputesWeights(t *testing.T) {
	store := newFakeStore()
	store.projectRows["proj1"] = true
	weigher := &fakeWeigher{}
	svc := newTestService(store, weigher)

	if err := svc.CancelProject(context.Background(), "p1", "e1", "proj1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(weigher.pairCalls) != 1 {
		t.Fatalf("recompute calls = %d, want 1", len(weigher.pairCalls))
	}
}

func TestUpsertCriteriaValidatesImportance(t *testing.T) {
	store := newFakeStore()
	weigher := &fakeWeigher{}
	svc := newTestService(store, weigher)

	err := svc.UpsertCriteria(context.Background(), "wbs1", []CriterionInput{
		{Criterion: "quality", Importance: 11},
	})
	if !errors.Is(err, ErrInvalidImportance) {
		t.Fatalf("got %v, want ErrInvalidImportance", err)
	}
	if len(weigher.wbsCalls) != 0 {
		t.Fatal("weights must not be recomputed on validation failure")
	}
}

func TestUpsertCriteriaFansOut(t *testing.T) {
	store := newFakeStore()
	weigher := &fakeWeigher{}
	svc := newTestService(store, weigher)

	err := svc.UpsertCriteria(context.Background(), "wbs1", []CriterionInput{
		{Criterion: "quality", Importance: 7},
		{Criterion: "speed", Importance: 3},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.criteria["wbs1"]) != 2 {
		t.Fatalf("stored criteria = %d, want 2", len(store.criteria["wbs1"]))
	}
	if len(weigher.wbsCalls) != 1 || weigher.wbsCalls[0] != "wbs1" {
		t.Fatalf("fan-out calls = %v, want [wbs1]", weigher.wbsCalls)
	}
}
