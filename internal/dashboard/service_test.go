package dashboard

import (
	"context"
	"io"
	"errors"
	"log/slog"
	"testing"

	"perfboard/internal/scoring"
	"perfboard/internal/status"
)

type fakeStore struct {
	target       TargetInfo
	targetErr    error
	setup        SetupCounts
	hasPrimary   bool
	hasSecondary bool
	selfCounts   SelfCounts
	peerAssigned int
	peerDone     int
	final        FinalInfo
	approvals    map[string]status.Approval
	employeeIDs  []string
	assigned     []AssignedWbs

	failFor map[string]bool
}

func (f *fakeStore) EmployeeTarget(_ context.Context, _, employeeID string) (TargetInfo, error) {
	if f.targetErr != nil {
		return TargetInfo{}, f.targetErr
	}
	if f.failFor[employeeID] {
		return TargetInfo{}, errors.New("target lookup failed")
	}
	return f.target, nil
}

func (f *fakeStore) SetupCounts(context.Context, string, string) (SetupCounts, error) {
	return f.setup, nil
}

func (f *fakeStore) LineMappingPresence(context.Context, string, string) (bool, bool, error) {
	return f.hasPrimary, f.hasSecondary, nil
}

func (f *fakeStore) SelfCounts(context.Context, string, string) (SelfCounts, error) {
	return f.selfCounts, nil
}

func (f *fakeStore) PeerCounts(context.Context, string, string) (int, int, error) {
	return f.peerAssigned, f.peerDone, nil
}

func (f *fakeStore) FinalEvaluation(context.Context, string, string) (FinalInfo, error) {
	return f.final, nil
}

func (f *fakeStore) ApprovalContext(_ context.Context, _, _, step, recipientID string) (status.Approval, error) {
	return f.approvals[step+"/"+recipientID], nil
}

func (f *fakeStore) PeriodEmployeeIDs(context.Context, string) ([]string, error) {
	return f.employeeIDs, nil
}

func (f *fakeStore) AssignedWbsList(context.Context, string, string) ([]AssignedWbs, error) {
	return f.assigned, nil
}

type fakeScorer struct {
	self      scoring.SelfResult
	primary   scoring.DownwardResult
	secondary scoring.SecondaryResult
}

func (f *fakeScorer) ComputeSelfEvaluationScore(context.Context, string, string) (scoring.SelfResult, error) {
	return f.self, nil
}

func (f *fakeScorer) ComputePrimaryDownwardScore(context.Context, string, string) (scoring.DownwardResult, error) {
	return f.primary, nil
}

func (f *fakeScorer) ComputeSecondaryDownwardScore(context.Context, string, string) (scoring.SecondaryResult, error) {
	return f.secondary, nil
}

type fakeMappings struct {
	active bool
}

func (f *fakeMappings) HasActiveMapping(context.Context, string, string, string) (bool, error) {
	return f.active, nil
}

func newTestService(store *fakeStore, scorer *fakeScorer) *Service {
	return NewService(store, scorer, &fakeMappings{}, slog.New(slog.NewTextHandler(io.Discard, nil)), nil, 4)
}

func ptr[T any](v T) *T { return &v }

func TestComputeEmployeeStatusNotMapped(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeScorer{})

	result, err := svc.ComputeEmployeeStatus(context.Background(), "p1", "e1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsEvaluationTarget {
		t.Fatal("expected isEvaluationTarget=false for unmapped employee")
	}
}

func TestComputeEmployeeStatusExcluded(t *testing.T) {
	svc := newTestService(&fakeStore{target: TargetInfo{Mapped: true, Excluded: true}}, &fakeScorer{})

	result, err := svc.ComputeEmployeeStatus(context.Background(), "p1", "e1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsEvaluationTarget {
		t.Fatal("expected isEvaluationTarget=false for excluded employee")
	}
}

func TestComputeEmployeeStatusTracks(t *testing.T) {
	store := &fakeStore{
		target:       TargetInfo{Mapped: true},
		setup:        SetupCounts{HasProjectAssignment: true, HasWbsAssignment: true, WbsAssigned: 3, WbsWithCriteria: 2},
		hasPrimary:   true,
		hasSecondary: false,
		selfCounts:   SelfCounts{Assigned: 3, PerformanceInputs: 3, SubmittedToManager: 3, AllSubmittedToEvaluator: true, AllSubmittedToManager: true},
		peerAssigned: 2,
		peerDone:     1,
		final:        FinalInfo{Present: true, Confirmed: false, Grade: ptr("A")},
		approvals: map[string]status.Approval{
			"self/e1": {Status: status.ApprovalApproved},
		},
	}
	scorer := &fakeScorer{
		self:    scoring.SelfResult{Score: ptr(87.0), Grade: ptr("A")},
		primary: scoring.DownwardResult{Assigned: 3, Completed: 1},
		secondary: scoring.SecondaryResult{Evaluators: []scoring.EvaluatorScore{
			{EvaluatorID: "s1", Assigned: 3, Completed: 3, IsSubmitted: true, Score: ptr(80.0)},
		}},
	}
	svc := newTestService(store, scorer)

	result, err := svc.ComputeEmployeeStatus(context.Background(), "p1", "e1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsEvaluationTarget {
		t.Fatal("expected evaluation target")
	}
	if result.CriteriaSetup.Status != status.ProgressComplete {
		t.Fatalf("criteria setup = %s, want complete", result.CriteriaSetup.Status)
	}
	if result.CriteriaCoverage.Status != status.ProgressInProgress {
		t.Fatalf("criteria coverage = %s, want in_progress", result.CriteriaCoverage.Status)
	}
	if result.EvaluationLine.Status != status.ProgressInProgress {
		t.Fatalf("evaluation line = %s, want in_progress", result.EvaluationLine.Status)
	}
	if result.SelfEvaluation.Status != status.Approved {
		t.Fatalf("self status = %s, want approved", result.SelfEvaluation.Status)
	}
	if result.SelfEvaluation.Score == nil || *result.SelfEvaluation.Score != 87.0 {
		t.Fatalf("self score = %v, want 87.0", result.SelfEvaluation.Score)
	}
	if result.PrimaryDownward.Status != status.InProgress {
		t.Fatalf("primary status = %s, want in_progress", result.PrimaryDownward.Status)
	}
	if result.PeerEvaluation.Status != status.ProgressInProgress {
		t.Fatalf("peer status = %s, want in_progress", result.PeerEvaluation.Status)
	}
	if result.FinalEvaluation.Status != status.ProgressInProgress {
		t.Fatalf("final status = %s, want in_progress (unconfirmed)", result.FinalEvaluation.Status)
	}
}

func TestRevisionOutranksApproval(t *testing.T) {
	store := &fakeStore{
		target: TargetInfo{Mapped: true},
		selfCounts: SelfCounts{
			Assigned: 2, PerformanceInputs: 2, SubmittedToManager: 2,
		},
		approvals: map[string]status.Approval{
			"self/e1": {Status: status.ApprovalApproved, HasActiveRevision: true},
		},
	}
	svc := newTestService(store, &fakeScorer{})

	result, err := svc.ComputeEmployeeStatus(context.Background(), "p1", "e1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SelfEvaluation.Status != status.RevisionRequested {
		t.Fatalf("self status = %s, want revision_requested", result.SelfEvaluation.Status)
	}
}

func TestSecondaryTrackAggregation(t *testing.T) {
	store := &fakeStore{
		target: TargetInfo{Mapped: true},
		approvals: map[string]status.Approval{
			"secondary/s1": {Status: status.ApprovalApproved},
			"secondary/s2": {},
		},
	}
	scorer := &fakeScorer{
		secondary: scoring.SecondaryResult{Evaluators: []scoring.EvaluatorScore{
			{EvaluatorID: "s1", Assigned: 2, Completed: 2, IsSubmitted: true},
			{EvaluatorID: "s2", Assigned: 2, Completed: 1},
		}},
	}
	svc := newTestService(store, scorer)

	result, err := svc.ComputeEmployeeStatus(context.Background(), "p1", "e1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.SecondaryDownward.Evaluators) != 2 {
		t.Fatalf("evaluator count = %d, want 2", len(result.SecondaryDownward.Evaluators))
	}
	if got := result.SecondaryDownward.Evaluators[0].Status; got != status.Approved {
		t.Fatalf("s1 status = %s, want approved", got)
	}
	if got := result.SecondaryDownward.Evaluators[1].Status; got != status.InProgress {
		t.Fatalf("s2 status = %s, want in_progress", got)
	}
	if result.SecondaryDownward.Status != status.InProgress {
		t.Fatalf("aggregate = %s, want in_progress", result.SecondaryDownward.Status)
	}
}

func TestAssignedDataErrors(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeScorer{})
	if _, err := svc.AssignedData(context.Background(), "p1", "e1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unmapped: got %v, want ErrNotFound", err)
	}

	svc = newTestService(&fakeStore{target: TargetInfo{Mapped: true, Excluded: true}}, &fakeScorer{})
	if _, err := svc.AssignedData(context.Background(), "p1", "e1"); !errors.Is(err, ErrExcludedTarget) {
		t.Fatalf("excluded: got %v, want ErrExcludedTarget", err)
	}
}

func TestEvaluateeStatusRequiresMapping(t *testing.T) {
	store := &fakeStore{target: TargetInfo{Mapped: true}}
	svc := NewService(store, &fakeScorer{}, &fakeMappings{active: false}, slog.New(slog.NewTextHandler(io.Discard, nil)), nil, 4)

	if _, err := svc.EvaluateeStatus(context.Background(), "p1", "e1", "mgr"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	svc = NewService(store, &fakeScorer{}, &fakeMappings{active: true}, slog.New(slog.NewTextHandler(io.Discard, nil)), nil, 4)
	result, err := svc.EvaluateeStatus(context.Background(), "p1", "e1", "mgr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsEvaluationTarget {
		t.Fatal("expected evaluation target")
	}
}

func TestPeriodStatusesPartialFailure(t *testing.T) {
	store := &fakeStore{
		target:      TargetInfo{Mapped: true},
		employeeIDs: []string{"e1", "e2", "e3"},
		failFor:     map[string]bool{"e2": true},
	}
	svc := newTestService(store, &fakeScorer{})

	results, err := svc.PeriodStatuses(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("result count = %d, want 2 (failing employee omitted)", len(results))
	}
	for _, result := range results {
		if result.EmployeeID == "e2" {
			t.Fatal("failing employee should be omitted")
		}
	}
}

type fakeRecorder struct {
	computations int
}

func (f *fakeRecorder) RecordStatusComputation() { f.computations++ }

func TestComputeEmployeeStatusCountsComputations(t *testing.T) {
	store := &fakeStore{target: TargetInfo{Mapped: true}}
	recorder := &fakeRecorder{}
	svc := NewService(store, &fakeScorer{}, &fakeMappings{}, slog.New(slog.NewTextHandler(io.Discard, nil)), recorder, 4)

	if _, err := svc.ComputeEmployeeStatus(context.Background(), "p1", "e1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.ComputeEmployeeStatus(context.Background(), "p1", "e2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recorder.computations != 2 {
		t.Fatalf("computations counted = %d, want 2", recorder.computations)
	}
}
