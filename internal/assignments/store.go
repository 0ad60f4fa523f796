package assignments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

func (s *Store) InsertProjectAssignment(ctx context.Context, id, periodID, employeeID, projectID string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO project_assignments (id, period_id, employee_id, project_id)
    VALUES ($1, $2, $3, $4)
  `, id, periodID, employeeID, projectID)
	return err
}

func (s *Store) SoftDeleteProjectAssignment(ctx context.Context, periodID, employeeID, projectID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE project_assignments
    SET deleted_at = now()
    WHERE period_id = $1 AND employee_id = $2 AND project_id = $3 AND deleted_at IS NULL
  `, periodID, employeeID, projectID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) InsertWbsAssignment(ctx context.Context, id, periodID, employeeID, projectID, wbsItemID string, displayOrder int) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO wbs_assignments (id, period_id, employee_id, project_id, wbs_item_id, weight, display_order)
    VALUES ($1, $2, $3, $4, $5, 0, $6)
  `, id, periodID, employeeID, projectID, wbsItemID, displayOrder)
	return err
}

func (s *Store) SoftDeleteWbsAssignment(ctx context.Context, periodID, employeeID, wbsItemID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE wbs_assignments
    SET deleted_at = now()
    WHERE period_id = $1 AND employee_id = $2 AND wbs_item_id = $3 AND deleted_at IS NULL
  `, periodID, employeeID, wbsItemID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) NextDisplayOrder(ctx context.Context, periodID, employeeID string) (int, error) {
	var next int
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(MAX(display_order), 0) + 1
    FROM wbs_assignments
    WHERE period_id = $1 AND employee_id = $2 AND deleted_at IS NULL
  `, periodID, employeeID).Scan(&next)
	return next, err
}

// ReplaceCriteria swaps the live criteria set of a WBS item atomically: the
// old rows are soft-deleted and the new set inserted in one transaction.
func (s *Store) ReplaceCriteria(ctx context.Context, wbsItemID string, criteria []CriterionInput) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
    UPDATE wbs_evaluation_criteria
    SET deleted_at = now()
    WHERE wbs_item_id = $1 AND deleted_at IS NULL
  `, wbsItemID); err != nil {
		return fmt.Errorf("delete old criteria: %w", err)
	}

	for _, c := range criteria {
		if _, err := tx.Exec(ctx, `
      INSERT INTO wbs_evaluation_criteria (id, wbs_item_id, criterion, importance)
      VALUES ($1, $2, $3, $4)
    `, uuid.NewString(), wbsItemID, c.Criterion, c.Importance); err != nil {
			return fmt.Errorf("insert criterion: %w", err)
		}
	}
	return tx.Commit(ctx)
}
