package evaluators

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"perfboard/internal/db"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

func (s *Store) PrimaryMappings(ctx context.Context, periodID, employeeID string) ([]Mapping, error) {
	return s.mappings(ctx, periodID, employeeID, "PRIMARY")
}

func (s *Store) SecondaryMappings(ctx context.Context, periodID, employeeID string) ([]Mapping, error) {
	return s.mappings(ctx, periodID, employeeID, "SECONDARY")
}

func (s *Store) mappings(ctx context.Context, periodID, employeeID, evaluatorType string) ([]Mapping, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT m.evaluator_id, m.wbs_item_id, m.created_at
    FROM evaluation_line_mappings m
    JOIN evaluation_lines l ON l.id = m.evaluation_line_id
    WHERE m.period_id = $1 AND m.employee_id = $2
      AND l.evaluator_type = $3 AND m.deleted_at IS NULL
    ORDER BY m.created_at
  `, periodID, employeeID, evaluatorType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mappings []Mapping
	for rows.Next() {
		var m Mapping
		if err := rows.Scan(&m.EvaluatorID, &m.WbsItemID, &m.CreatedAt); err != nil {
			return nil, err
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

func (s *Store) AssignedWbsCountForEvaluator(ctx context.Context, periodID, employeeID, evaluatorID string) (int, error) {
	// A mapping with a NULL wbs item covers the employee's whole assignment set.
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(DISTINCT wa.wbs_item_id)
    FROM wbs_assignments wa
    `+db.ValidAssignmentJoin+`
    WHERE wa.period_id = $1 AND wa.employee_id = $2 AND wa.deleted_at IS NULL
      AND EXISTS (
        SELECT 1 FROM evaluation_line_mappings m
        WHERE m.period_id = wa.period_id
          AND m.employee_id = wa.employee_id
          AND m.evaluator_id = $3
          AND (m.wbs_item_id = wa.wbs_item_id OR m.wbs_item_id IS NULL)
          AND m.deleted_at IS NULL
      )
  `, periodID, employeeID, evaluatorID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) HasActiveMapping(ctx context.Context, periodID, employeeID, evaluatorID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM evaluation_line_mappings m
    WHERE m.period_id = $1 AND m.employee_id = $2 AND m.evaluator_id = $3
      AND m.deleted_at IS NULL
  `, periodID, employeeID, evaluatorID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
