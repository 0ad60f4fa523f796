package weighting

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) AssignmentImportances(ctx context.Context, employeeID, periodID string) ([]ImportanceItem, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT wa.id, wa.wbs_item_id,
           COALESCE((
             SELECT SUM(c.importance)
             FROM wbs_evaluation_criteria c
             WHERE c.wbs_item_id = wa.wbs_item_id AND c.deleted_at IS NULL
           ), 0)
    FROM wbs_assignments wa
    WHERE wa.employee_id = $1 AND wa.period_id = $2 AND wa.deleted_at IS NULL
    ORDER BY wa.display_order, wa.created_at
  `, employeeID, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ImportanceItem
	for rows.Next() {
		var item ImportanceItem
		if err := rows.Scan(&item.AssignmentID, &item.WbsItemID, &item.Importance); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) UpdateAssignmentWeight(ctx context.Context, assignmentID string, weight decimal.Decimal) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE wbs_assignments SET weight = $1 WHERE id = $2
  `, weight.StringFixed(2), assignmentID)
	return err
}

func (s *Store) PairsForWbs(ctx context.Context, wbsItemID string) ([]Pair, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT DISTINCT wa.employee_id, wa.period_id
    FROM wbs_assignments wa
    WHERE wa.wbs_item_id = $1 AND wa.deleted_at IS NULL
  `, wbsItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []Pair
	for rows.Next() {
		var pair Pair
		if err := rows.Scan(&pair.EmployeeID, &pair.PeriodID); err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, rows.Err()
}
