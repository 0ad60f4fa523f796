package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"perfboard/internal/scoring"
	"perfboard/internal/status"
)

// Scorer is the slice of the scoring service the dashboard consumes.
type Scorer interface {
	ComputeSelfEvaluationScore(ctx context.Context, periodID, employeeID string) (scoring.SelfResult, error)
	ComputePrimaryDownwardScore(ctx context.Context, periodID, employeeID string) (scoring.DownwardResult, error)
	ComputeSecondaryDownwardScore(ctx context.Context, periodID, employeeID string) (scoring.SecondaryResult, error)
}

// MappingChecker verifies an active evaluator/evaluatee relation, satisfied by
// evaluators.Resolver.
type MappingChecker interface {
	HasActiveMapping(ctx context.Context, periodID, employeeID, evaluatorID string) (bool, error)
}

// MetricsRecorder counts completed status computations. A nil recorder
// disables counting.
type MetricsRecorder interface {
	RecordStatusComputation()
}

type Service struct {
	store       StoreAPI
	scorer      Scorer
	mappings    MappingChecker
	logger      *slog.Logger
	metrics     MetricsRecorder
	fanoutLimit int
}

func NewService(store StoreAPI, scorer Scorer, mappings MappingChecker, logger *slog.Logger, metrics MetricsRecorder, fanoutLimit int) *Service {
	if fanoutLimit <= 0 {
		fanoutLimit = 8
	}
	return &Service{store: store, scorer: scorer, mappings: mappings, logger: logger, metrics: metrics, fanoutLimit: fanoutLimit}
}

// ComputeEmployeeStatus builds the full per-track status payload. A missing or
// excluded mapping yields isEvaluationTarget=false rather than an error; the
// status view never 404s on membership.
func (s *Service) ComputeEmployeeStatus(ctx context.Context, periodID, employeeID string) (EmployeeStatus, error) {
	result := EmployeeStatus{PeriodID: periodID, EmployeeID: employeeID}

	target, err := s.store.EmployeeTarget(ctx, periodID, employeeID)
	if err != nil {
		return EmployeeStatus{}, fmt.Errorf("load target info: %w", err)
	}
	result.IsEvaluationTarget = target.Mapped && !target.Excluded
	if !result.IsEvaluationTarget {
		return result, nil
	}

	setup, err := s.store.SetupCounts(ctx, periodID, employeeID)
	if err != nil {
		return EmployeeStatus{}, fmt.Errorf("load setup counts: %w", err)
	}
	result.CriteriaSetup = TrackStatus{Status: status.TwoFactor(setup.HasProjectAssignment, setup.HasWbsAssignment)}
	result.CriteriaCoverage = CountedTrack{
		Status:    status.FromCounts(setup.WbsWithCriteria, setup.WbsAssigned),
		Assigned:  setup.WbsAssigned,
		Completed: setup.WbsWithCriteria,
	}

	hasPrimary, hasSecondary, err := s.store.LineMappingPresence(ctx, periodID, employeeID)
	if err != nil {
		return EmployeeStatus{}, fmt.Errorf("load line mappings: %w", err)
	}
	result.EvaluationLine = TrackStatus{Status: status.TwoFactor(hasPrimary, hasSecondary)}

	if err := s.fillSelfTracks(ctx, periodID, employeeID, &result); err != nil {
		return EmployeeStatus{}, err
	}
	if err := s.fillPrimaryTrack(ctx, periodID, employeeID, &result); err != nil {
		return EmployeeStatus{}, err
	}
	if err := s.fillSecondaryTrack(ctx, periodID, employeeID, &result); err != nil {
		return EmployeeStatus{}, err
	}

	peerAssigned, peerCompleted, err := s.store.PeerCounts(ctx, periodID, employeeID)
	if err != nil {
		return EmployeeStatus{}, fmt.Errorf("load peer counts: %w", err)
	}
	result.PeerEvaluation = CountedTrack{
		Status:    status.FromCounts(peerCompleted, peerAssigned),
		Assigned:  peerAssigned,
		Completed: peerCompleted,
	}

	final, err := s.store.FinalEvaluation(ctx, periodID, employeeID)
	if err != nil {
		return EmployeeStatus{}, fmt.Errorf("load final evaluation: %w", err)
	}
	result.FinalEvaluation = FinalTrack{
		Status:      status.FromFinal(final.Present, final.Confirmed),
		Grade:       final.Grade,
		JobGrade:    final.JobGrade,
		IsConfirmed: final.Confirmed,
	}

	if s.metrics != nil {
		s.metrics.RecordStatusComputation()
	}
	return result, nil
}

func (s *Service) fillSelfTracks(ctx context.Context, periodID, employeeID string, result *EmployeeStatus) error {
	counts, err := s.store.SelfCounts(ctx, periodID, employeeID)
	if err != nil {
		return fmt.Errorf("load self counts: %w", err)
	}
	result.PerformanceInput = CountedTrack{
		Status:    status.FromCounts(counts.PerformanceInputs, counts.Assigned),
		Assigned:  counts.Assigned,
		Completed: counts.PerformanceInputs,
	}

	selfResult, err := s.scorer.ComputeSelfEvaluationScore(ctx, periodID, employeeID)
	if err != nil {
		return fmt.Errorf("compute self score: %w", err)
	}
	approval, err := s.store.ApprovalContext(ctx, periodID, employeeID, StepSelf, employeeID)
	if err != nil {
		return fmt.Errorf("load self approval: %w", err)
	}

	progress := status.FromCounts(counts.SubmittedToManager, counts.Assigned)
	result.SelfEvaluation = SelfTrack{
		Status:               status.Combine(progress, approval, false),
		Assigned:             counts.Assigned,
		Completed:            counts.SubmittedToManager,
		Score:                selfResult.Score,
		Grade:                selfResult.Grade,
		SubmittedToEvaluator: counts.AllSubmittedToEvaluator,
		SubmittedToManager:   counts.AllSubmittedToManager,
	}
	return nil
}

func (s *Service) fillPrimaryTrack(ctx context.Context, periodID, employeeID string, result *EmployeeStatus) error {
	primary, err := s.scorer.ComputePrimaryDownwardScore(ctx, periodID, employeeID)
	if err != nil {
		return fmt.Errorf("compute primary score: %w", err)
	}

	approval := status.Approval{}
	if primary.EvaluatorID != nil {
		approval, err = s.store.ApprovalContext(ctx, periodID, employeeID, StepPrimary, *primary.EvaluatorID)
		if err != nil {
			return fmt.Errorf("load primary approval: %w", err)
		}
	}

	progress := status.FromCounts(primary.Completed, primary.Assigned)
	result.PrimaryDownward = PrimaryTrack{
		Status:      status.Combine(progress, approval, false),
		Assigned:    primary.Assigned,
		Completed:   primary.Completed,
		Score:       primary.Score,
		Grade:       primary.Grade,
		IsSubmitted: primary.IsSubmitted,
		EvaluatorID: primary.EvaluatorID,
	}
	return nil
}

func (s *Service) fillSecondaryTrack(ctx context.Context, periodID, employeeID string, result *EmployeeStatus) error {
	secondary, err := s.scorer.ComputeSecondaryDownwardScore(ctx, periodID, employeeID)
	if err != nil {
		return fmt.Errorf("compute secondary score: %w", err)
	}

	track := SecondaryTrack{
		Evaluators: make([]SecondaryEvaluatorTrack, 0, len(secondary.Evaluators)),
		Score:      secondary.Score,
		Grade:      secondary.Grade,
	}
	var unified []status.Unified
	for _, evaluator := range secondary.Evaluators {
		approval, err := s.store.ApprovalContext(ctx, periodID, employeeID, StepSecondary, evaluator.EvaluatorID)
		if err != nil {
			return fmt.Errorf("load secondary approval for %s: %w", evaluator.EvaluatorID, err)
		}
		progress := status.FromCounts(evaluator.Completed, evaluator.Assigned)
		combined := status.Combine(progress, approval, true)
		unified = append(unified, combined)
		track.Evaluators = append(track.Evaluators, SecondaryEvaluatorTrack{
			EvaluatorID: evaluator.EvaluatorID,
			Status:      combined,
			Assigned:    evaluator.Assigned,
			Completed:   evaluator.Completed,
			IsSubmitted: evaluator.IsSubmitted,
			Score:       evaluator.Score,
			Grade:       evaluator.Grade,
		})
	}
	track.Status = status.AggregateSecondary(unified)
	result.SecondaryDownward = track
	return nil
}

// AssignedData builds the per-employee assigned-data view. Unlike the status
// view this one errors: ErrNotFound when the employee is not mapped to the
// period, ErrExcludedTarget when mapped but excluded.
func (s *Service) AssignedData(ctx context.Context, periodID, employeeID string) (AssignedData, error) {
	target, err := s.store.EmployeeTarget(ctx, periodID, employeeID)
	if err != nil {
		return AssignedData{}, fmt.Errorf("load target info: %w", err)
	}
	if !target.Mapped {
		return AssignedData{}, ErrNotFound
	}
	if target.Excluded {
		return AssignedData{}, ErrExcludedTarget
	}

	assignments, err := s.store.AssignedWbsList(ctx, periodID, employeeID)
	if err != nil {
		return AssignedData{}, fmt.Errorf("load assigned wbs: %w", err)
	}
	selfResult, err := s.scorer.ComputeSelfEvaluationScore(ctx, periodID, employeeID)
	if err != nil {
		return AssignedData{}, fmt.Errorf("compute self score: %w", err)
	}

	return AssignedData{
		PeriodID:    periodID,
		EmployeeID:  employeeID,
		Assignments: assignments,
		Self:        selfResult,
	}, nil
}

// EvaluateeStatus is the evaluator-scoped status view; it requires an active
// mapping between the evaluator and the employee.
func (s *Service) EvaluateeStatus(ctx context.Context, periodID, employeeID, evaluatorID string) (EmployeeStatus, error) {
	ok, err := s.mappings.HasActiveMapping(ctx, periodID, employeeID, evaluatorID)
	if err != nil {
		return EmployeeStatus{}, fmt.Errorf("check mapping: %w", err)
	}
	if !ok {
		return EmployeeStatus{}, ErrNotFound
	}
	return s.ComputeEmployeeStatus(ctx, periodID, employeeID)
}

// PeriodStatuses computes the status of every employee mapped to the period.
// Employees are fanned out concurrently with bounded parallelism; one
// employee's failure is logged and their entry omitted, the batch succeeds.
func (s *Service) PeriodStatuses(ctx context.Context, periodID string) ([]EmployeeStatus, error) {
	employeeIDs, err := s.store.PeriodEmployeeIDs(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("list period employees: %w", err)
	}

	results := make([]EmployeeStatus, 0, len(employeeIDs))
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.fanoutLimit)
	for _, employeeID := range employeeIDs {
		employeeID := employeeID
		group.Go(func() error {
			defer func() {
				if rec := recover(); rec != nil {
					s.logger.Error("employee status panicked",
						"periodId", periodID, "employeeId", employeeID, "panic", rec)
				}
			}()
			employeeStatus, err := s.ComputeEmployeeStatus(groupCtx, periodID, employeeID)
			if err != nil {
				s.logger.Error("employee status failed",
					"periodId", periodID, "employeeId", employeeID, "err", err)
				return nil
			}
			mu.Lock()
			results = append(results, employeeStatus)
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()
	return results, nil
}
