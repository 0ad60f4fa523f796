package dashboard

import "errors"

var (
	// ErrNotFound covers a missing period, employee, or period mapping.
	ErrNotFound = errors.New("not found")
	// ErrExcludedTarget marks an assigned-data request for an employee who is
	// mapped to the period but excluded from evaluation. Distinct from
	// ErrNotFound so callers can render a dedicated message.
	ErrExcludedTarget = errors.New("employee is excluded from evaluation")
)
