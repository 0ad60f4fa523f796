package weighting

import (
	"context"

	"github.com/shopspring/decimal"
)

// Pair identifies one employee/period whose weights need recomputation.
type Pair struct {
	EmployeeID string
	PeriodID   string
}

type StoreAPI interface {
	// AssignmentImportances returns every live WBS assignment for the pair in
	// stable order (display order, then creation), each with the summed
	// importance of its live criteria.
	AssignmentImportances(ctx context.Context, employeeID, periodID string) ([]ImportanceItem, error)
	UpdateAssignmentWeight(ctx context.Context, assignmentID string, weight decimal.Decimal) error
	// PairsForWbs returns the distinct employee/period pairs holding a live
	// assignment of the given WBS item.
	PairsForWbs(ctx context.Context, wbsItemID string) ([]Pair, error)
}
