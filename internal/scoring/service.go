package scoring

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	EvaluationTypePrimary   = "primary"
	EvaluationTypeSecondary = "secondary"
)

// SelfResult is the outcome of the self-evaluation composite. Nil score/grade
// means "not yet computable", never an error.
type SelfResult struct {
	Score *float64 `json:"score"`
	Grade *string  `json:"grade"`
}

// DownwardResult is the primary-track composite.
type DownwardResult struct {
	Score       *float64 `json:"score"`
	Grade       *string  `json:"grade"`
	IsSubmitted bool     `json:"isSubmitted"`
	EvaluatorID *string  `json:"evaluatorId,omitempty"`
	Assigned    int      `json:"assigned"`
	Completed   int      `json:"completed"`
}

// EvaluatorScore is one secondary evaluator's independent progress and score.
type EvaluatorScore struct {
	EvaluatorID string   `json:"evaluatorId"`
	Assigned    int      `json:"assigned"`
	Completed   int      `json:"completed"`
	IsSubmitted bool     `json:"isSubmitted"`
	Score       *float64 `json:"score"`
	Grade       *string  `json:"grade"`
}

// SecondaryResult is the secondary-track composite across all current
// secondary evaluators.
type SecondaryResult struct {
	Score       *float64         `json:"score"`
	Grade       *string          `json:"grade"`
	IsSubmitted bool             `json:"isSubmitted"`
	Evaluators  []EvaluatorScore `json:"evaluators"`
}

type Service struct {
	store     StoreAPI
	directory EvaluatorDirectory
	logger    *slog.Logger
}

func NewService(store StoreAPI, directory EvaluatorDirectory, logger *slog.Logger) *Service {
	return &Service{store: store, directory: directory, logger: logger}
}

// ComputeSelfEvaluationScore aggregates the employee's manager-submitted self
// evaluations. Raw scores are normalized by the period's self-evaluation
// ceiling before weighting. Partial submission yields a nil score.
func (s *Service) ComputeSelfEvaluationScore(ctx context.Context, periodID, employeeID string) (SelfResult, error) {
	cfg, err := s.store.PeriodConfig(ctx, periodID)
	if err != nil {
		return SelfResult{}, fmt.Errorf("load period config: %w", err)
	}
	weights, err := s.store.ValidWeights(ctx, periodID, employeeID)
	if err != nil {
		return SelfResult{}, fmt.Errorf("load weights: %w", err)
	}
	evals, err := s.store.CompletedSelfEvaluations(ctx, periodID, employeeID)
	if err != nil {
		return SelfResult{}, fmt.Errorf("load self evaluations: %w", err)
	}

	assigned := len(weights)
	completed := DistinctWbsCount(weights, evals)
	if assigned == 0 || completed < assigned {
		return SelfResult{}, nil
	}

	normalized := make([]Evaluation, len(evals))
	for i, ev := range evals {
		ev.Score = NormalizeSelf(ev.Score, cfg.MaxSelfEvaluationRate)
		normalized[i] = ev
	}

	score := WeightedScore(weights, normalized)
	result := SelfResult{Score: score}
	if score != nil {
		result.Grade = s.resolveGrade(cfg, periodID, *score)
	}
	return result, nil
}

// ComputePrimaryDownwardScore aggregates the current primary evaluators'
// completed evaluations. No current evaluator means the score is not
// computable at all.
func (s *Service) ComputePrimaryDownwardScore(ctx context.Context, periodID, employeeID string) (DownwardResult, error) {
	evaluatorIDs, err := s.directory.ResolvePrimaryEvaluators(ctx, periodID, employeeID)
	if err != nil {
		return DownwardResult{}, err
	}
	if len(evaluatorIDs) == 0 {
		return DownwardResult{}, nil
	}

	result := DownwardResult{EvaluatorID: &evaluatorIDs[0]}

	weights, err := s.store.ValidWeights(ctx, periodID, employeeID)
	if err != nil {
		return DownwardResult{}, fmt.Errorf("load weights: %w", err)
	}
	evals, err := s.store.CompletedDownwardEvaluations(ctx, periodID, employeeID, EvaluationTypePrimary, evaluatorIDs)
	if err != nil {
		return DownwardResult{}, fmt.Errorf("load primary evaluations: %w", err)
	}

	result.Assigned = len(weights)
	result.Completed = DistinctWbsCount(weights, evals)
	result.IsSubmitted = result.Completed >= result.Assigned && result.Completed > 0
	if !result.IsSubmitted {
		return result, nil
	}

	result.Score = WeightedScore(weights, evals)
	if result.Score != nil {
		cfg, err := s.store.PeriodConfig(ctx, periodID)
		if err != nil {
			return DownwardResult{}, fmt.Errorf("load period config: %w", err)
		}
		result.Grade = s.resolveGrade(cfg, periodID, *result.Score)
	}
	return result, nil
}

// ComputeSecondaryDownwardScore aggregates every current secondary evaluator
// independently, then combines them into one composite: per WBS the evaluator
// scores are averaged, then weighted. The composite exists only once every
// evaluator has submitted their full assigned set.
func (s *Service) ComputeSecondaryDownwardScore(ctx context.Context, periodID, employeeID string) (SecondaryResult, error) {
	evaluatorIDs, err := s.directory.ResolveSecondaryEvaluators(ctx, periodID, employeeID)
	if err != nil {
		return SecondaryResult{}, err
	}
	if len(evaluatorIDs) == 0 {
		return SecondaryResult{Evaluators: []EvaluatorScore{}}, nil
	}

	weights, err := s.store.ValidWeights(ctx, periodID, employeeID)
	if err != nil {
		return SecondaryResult{}, fmt.Errorf("load weights: %w", err)
	}
	cfg, err := s.store.PeriodConfig(ctx, periodID)
	if err != nil {
		return SecondaryResult{}, fmt.Errorf("load period config: %w", err)
	}

	result := SecondaryResult{Evaluators: make([]EvaluatorScore, 0, len(evaluatorIDs))}
	var combined []Evaluation
	allSubmitted := true
	for _, evaluatorID := range evaluatorIDs {
		evals, err := s.store.CompletedDownwardEvaluations(ctx, periodID, employeeID, EvaluationTypeSecondary, []string{evaluatorID})
		if err != nil {
			return SecondaryResult{}, fmt.Errorf("load secondary evaluations for %s: %w", evaluatorID, err)
		}
		assigned, err := s.directory.AssignedWbsCount(ctx, periodID, employeeID, evaluatorID)
		if err != nil {
			return SecondaryResult{}, fmt.Errorf("count assigned wbs for %s: %w", evaluatorID, err)
		}

		completed := DistinctWbsCount(weights, evals)
		evaluator := EvaluatorScore{
			EvaluatorID: evaluatorID,
			Assigned:    assigned,
			Completed:   completed,
			IsSubmitted: completed >= assigned && completed > 0,
		}
		if evaluator.IsSubmitted {
			evaluator.Score = WeightedScore(weights, evals)
			if evaluator.Score != nil {
				evaluator.Grade = s.resolveGrade(cfg, periodID, *evaluator.Score)
			}
		} else {
			allSubmitted = false
		}
		result.Evaluators = append(result.Evaluators, evaluator)
		combined = append(combined, evals...)
	}

	result.IsSubmitted = allSubmitted
	if !allSubmitted {
		return result, nil
	}

	result.Score = WeightedScore(weights, combined)
	if result.Score != nil {
		result.Grade = s.resolveGrade(cfg, periodID, *result.Score)
	}
	return result, nil
}

func (s *Service) resolveGrade(cfg PeriodConfig, periodID string, score float64) *string {
	if len(cfg.GradeBands) == 0 {
		s.logger.Warn("grade ranges not configured", "periodId", periodID)
		return nil
	}
	return ResolveGrade(cfg.GradeBands, score)
}
