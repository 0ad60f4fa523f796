package scoring

import "context"

// PeriodConfig is the slice of evaluation-period configuration scoring needs.
type PeriodConfig struct {
	MaxSelfEvaluationRate float64
	GradeBands            []GradeBand
}

type StoreAPI interface {
	PeriodConfig(ctx context.Context, periodID string) (PeriodConfig, error)
	// ValidWeights maps wbs item id -> persisted weight over the employee's
	// valid (non-cancelled) assignments for the period.
	ValidWeights(ctx context.Context, periodID, employeeID string) (map[string]float64, error)
	// CompletedSelfEvaluations returns manager-submitted, scored self
	// evaluations whose underlying assignment is still valid.
	CompletedSelfEvaluations(ctx context.Context, periodID, employeeID string) ([]Evaluation, error)
	// CompletedDownwardEvaluations returns completed downward evaluations of
	// the given type restricted to the supplied evaluator set and to valid
	// assignments. Rows from replaced evaluators never appear.
	CompletedDownwardEvaluations(ctx context.Context, periodID, employeeID, evaluationType string, evaluatorIDs []string) ([]Evaluation, error)
}

// EvaluatorDirectory is the current-evaluator view scoring depends on,
// satisfied by evaluators.Resolver.
type EvaluatorDirectory interface {
	ResolvePrimaryEvaluators(ctx context.Context, periodID, employeeID string) ([]string, error)
	ResolveSecondaryEvaluators(ctx context.Context, periodID, employeeID string) ([]string, error)
	AssignedWbsCount(ctx context.Context, periodID, employeeID, evaluatorID string) (int, error)
}
