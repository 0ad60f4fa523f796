package assignments

import "context"

// CriterionInput is one evaluation criterion to upsert on a WBS item.
type CriterionInput struct {
	Criterion  string `json:"criterion"`
	Importance int    `json:"importance"`
}

type StoreAPI interface {
	InsertProjectAssignment(ctx context.Context, id, periodID, employeeID, projectID string) error
	// SoftDeleteProjectAssignment marks the live assignment deleted and returns
	// whether a row was affected.
	SoftDeleteProjectAssignment(ctx context.Context, periodID, employeeID, projectID string) (bool, error)
	InsertWbsAssignment(ctx context.Context, id, periodID, employeeID, projectID, wbsItemID string, displayOrder int) error
	SoftDeleteWbsAssignment(ctx context.Context, periodID, employeeID, wbsItemID string) (bool, error)
	// NextDisplayOrder returns one past the highest live display order for the
	// pair, starting at 1.
	NextDisplayOrder(ctx context.Context, periodID, employeeID string) (int, error)
	ReplaceCriteria(ctx context.Context, wbsItemID string, criteria []CriterionInput) error
}

// Weigher is the slice of the weighting engine the assignment flows await.
type Weigher interface {
	RecomputeWeights(ctx context.Context, employeeID, periodID string) error
	RecomputeWeightsForWbs(ctx context.Context, wbsItemID string) error
}
