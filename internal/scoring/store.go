package scoring

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

func (s *Store) PeriodConfig(ctx context.Context, periodID string) (PeriodConfig, error) {
	var cfg PeriodConfig
	err := s.DB.QueryRow(ctx, `
    SELECT max_self_evaluation_rate
    FROM evaluation_periods
    WHERE id = $1 AND deleted_at IS NULL
  `, periodID).Scan(&cfg.MaxSelfEvaluationRate)
	if err != nil {
		return PeriodConfig{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT min_score, max_score, grade
    FROM grade_ranges
    WHERE period_id = $1
    ORDER BY band_order, min_score DESC
  `, periodID)
	if err != nil {
		return PeriodConfig{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var band GradeBand
		if err := rows.Scan(&band.MinScore, &band.MaxScore, &band.Grade); err != nil {
			return PeriodConfig{}, err
		}
		cfg.GradeBands = append(cfg.GradeBands, band)
	}
	return cfg, rows.Err()
}

func (s *Store) ValidWeights(ctx context.Context, periodID, employeeID string) (map[string]float64, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT wa.wbs_item_id, wa.weight
    FROM wbs_assignments wa
    `+db.ValidAssignmentJoin+`
    WHERE wa.period_id = $1 AND wa.employee_id = $2 AND wa.deleted_at IS NULL
  `, periodID, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	weights := map[string]float64{}
	for rows.Next() {
		var wbsItemID string
		var weight float64
		if err := rows.Scan(&wbsItemID, &weight); err != nil {
			return nil, err
		}
		weights[wbsItemID] = weight
	}
	return weights, rows.Err()
}

func (s *Store) CompletedSelfEvaluations(ctx context.Context, periodID, employeeID string) ([]Evaluation, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT se.wbs_item_id, se.employee_id, se.score
    FROM self_evaluations se
    JOIN wbs_assignments wa
      ON wa.period_id = se.period_id
     AND wa.employee_id = se.employee_id
     AND wa.wbs_item_id = se.wbs_item_id
     AND wa.deleted_at IS NULL
    `+db.ValidAssignmentJoin+`
    WHERE se.period_id = $1 AND se.employee_id = $2
      AND se.submitted_to_manager AND se.score IS NOT NULL
      AND se.deleted_at IS NULL
  `, periodID, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvaluations(rows)
}

func (s *Store) CompletedDownwardEvaluations(ctx context.Context, periodID, employeeID, evaluationType string, evaluatorIDs []string) ([]Evaluation, error) {
	if len(evaluatorIDs) == 0 {
		return nil, nil
	}
	rows, err := s.DB.Query(ctx, `
    SELECT de.wbs_item_id, de.evaluator_id, de.score
    FROM downward_evaluations de
    JOIN wbs_assignments wa
      ON wa.period_id = de.period_id
     AND wa.employee_id = de.employee_id
     AND wa.wbs_item_id = de.wbs_item_id
     AND wa.deleted_at IS NULL
    `+db.ValidAssignmentJoin+`
    WHERE de.period_id = $1 AND de.employee_id = $2
      AND de.evaluation_type = $3 AND de.evaluator_id = ANY($4)
      AND de.is_completed AND de.score IS NOT NULL
      AND de.deleted_at IS NULL
  `, periodID, employeeID, evaluationType, evaluatorIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvaluations(rows)
}

type evaluationRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanEvaluations(rows evaluationRows) ([]Evaluation, error) {
	var evals []Evaluation
	for rows.Next() {
		var ev Evaluation
		if err := rows.Scan(&ev.WbsItemID, &ev.EvaluatorID, &ev.Score); err != nil {
			return nil, err
		}
		evals = append(evals, ev)
	}
	return evals, rows.Err()
}
