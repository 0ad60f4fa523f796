package assignments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("assignment not found")
	// ErrInvalidImportance rejects criteria importance outside 1..10.
	ErrInvalidImportance = errors.New("importance must be between 1 and 10")
)

type Service struct {
	store   StoreAPI
	weigher Weigher
	logger  *slog.Logger
}

func NewService(store StoreAPI, weigher Weigher, logger *slog.Logger) *Service {
	return &Service{store: store, weigher: weigher, logger: logger}
}

func (s *Service) AssignProject(ctx context.Context, periodID, employeeID, projectID string) (string, error) {
	id := uuid.NewString()
	if err := s.store.InsertProjectAssignment(ctx, id, periodID, employeeID, projectID); err != nil {
		return "", fmt.Errorf("insert project assignment: %w", err)
	}
	return id, nil
}

// CancelProject soft-deletes the project assignment. WBS assignments under the
// project stop being valid through the assignment join, so weights must be
// recomputed before any subsequent read.
func (s *Service) CancelProject(ctx context.Context, periodID, employeeID, projectID string) error {
	affected, err := s.store.SoftDeleteProjectAssignment(ctx, periodID, employeeID, projectID)
	if err != nil {
		return fmt.Errorf("cancel project assignment: %w", err)
	}
	if !affected {
		return ErrNotFound
	}
	if err := s.weigher.RecomputeWeights(ctx, employeeID, periodID); err != nil {
		return fmt.Errorf("recompute weights: %w", err)
	}
	s.logger.Info("project assignment cancelled",
		"periodId", periodID, "employeeId", employeeID, "projectId", projectID)
	return nil
}

func (s *Service) AssignWbs(ctx context.Context, periodID, employeeID, projectID, wbsItemID string) (string, error) {
	displayOrder, err := s.store.NextDisplayOrder(ctx, periodID, employeeID)
	if err != nil {
		return "", fmt.Errorf("next display order: %w", err)
	}
	id := uuid.NewString()
	if err := s.store.InsertWbsAssignment(ctx, id, periodID, employeeID, projectID, wbsItemID, displayOrder); err != nil {
		return "", fmt.Errorf("insert wbs assignment: %w", err)
	}
	if err := s.weigher.RecomputeWeights(ctx, employeeID, periodID); err != nil {
		return "", fmt.Errorf("recompute weights: %w", err)
	}
	return id, nil
}

func (s *Service) CancelWbs(ctx context.Context, periodID, employeeID, wbsItemID string) error {
	affected, err := s.store.SoftDeleteWbsAssignment(ctx, periodID, employeeID, wbsItemID)
	if err != nil {
		return fmt.Errorf("cancel wbs assignment: %w", err)
	}
	if !affected {
		return ErrNotFound
	}
	if err := s.weigher.RecomputeWeights(ctx, employeeID, periodID); err != nil {
		return fmt.Errorf("recompute weights: %w", err)
	}
	s.logger.Info("wbs assignment cancelled",
		"periodId", periodID, "employeeId", employeeID, "wbsItemId", wbsItemID)
	return nil
}

// UpsertCriteria replaces the criteria set of a WBS item, then recomputes the
// weights of every employee/period holding a live assignment of that item.
func (s *Service) UpsertCriteria(ctx context.Context, wbsItemID string, criteria []CriterionInput) error {
	for _, c := range criteria {
		if c.Importance < 1 || c.Importance > 10 {
			return fmt.Errorf("criterion %q: %w", c.Criterion, ErrInvalidImportance)
		}
	}
	if err := s.store.ReplaceCriteria(ctx, wbsItemID, criteria); err != nil {
		return fmt.Errorf("replace criteria: %w", err)
	}
	if err := s.weigher.RecomputeWeightsForWbs(ctx, wbsItemID); err != nil {
		return fmt.Errorf("recompute weights for wbs: %w", err)
	}
	return nil
}
