package dashboard

import (
	"context"

	"perfboard/internal/status"
)

// TargetInfo describes the employee's relation to the period.
type TargetInfo struct {
	Mapped   bool
	Excluded bool
}

// SetupCounts backs the criteria-setup and coverage tracks.
type SetupCounts struct {
	HasProjectAssignment bool
	HasWbsAssignment     bool
	WbsAssigned          int
	WbsWithCriteria      int
}

// SelfCounts backs the performance-input and self-evaluation tracks.
// Submission flags are all-or-nothing across the assigned set.
type SelfCounts struct {
	Assigned                int
	PerformanceInputs       int
	SubmittedToManager      int
	AllSubmittedToEvaluator bool
	AllSubmittedToManager   bool
}

// FinalInfo backs the final-evaluation track.
type FinalInfo struct {
	Present          bool
	Confirmed        bool
	Grade            *string
	JobGrade         *string
	JobDetailedGrade *string
}

const (
	StepSelf      = "self"
	StepPrimary   = "primary"
	StepSecondary = "secondary"
)

type StoreAPI interface {
	EmployeeTarget(ctx context.Context, periodID, employeeID string) (TargetInfo, error)
	SetupCounts(ctx context.Context, periodID, employeeID string) (SetupCounts, error)
	LineMappingPresence(ctx context.Context, periodID, employeeID string) (hasPrimary, hasSecondary bool, err error)
	SelfCounts(ctx context.Context, periodID, employeeID string) (SelfCounts, error)
	PeerCounts(ctx context.Context, periodID, employeeID string) (assigned, completed int, err error)
	FinalEvaluation(ctx context.Context, periodID, employeeID string) (FinalInfo, error)
	// ApprovalContext resolves the approval and revision sub-state of one step
	// for one recipient. recipientID is the evaluatee for the self step and the
	// evaluator for downward steps.
	ApprovalContext(ctx context.Context, periodID, employeeID, step, recipientID string) (status.Approval, error)
	// PeriodEmployeeIDs lists the non-excluded employees mapped to the period.
	PeriodEmployeeIDs(ctx context.Context, periodID string) ([]string, error)
	AssignedWbsList(ctx context.Context, periodID, employeeID string) ([]AssignedWbs, error)
}
