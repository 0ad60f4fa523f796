package dashboard

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"perfboard/internal/db"
	"perfboard/internal/status"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

func (s *Store) EmployeeTarget(ctx context.Context, periodID, employeeID string) (TargetInfo, error) {
	var excluded bool
	err := s.DB.QueryRow(ctx, `
    SELECT is_excluded
    FROM evaluation_period_employees
    WHERE period_id = $1 AND employee_id = $2 AND deleted_at IS NULL
  `, periodID, employeeID).Scan(&excluded)
	if errors.Is(err, pgx.ErrNoRows) {
		return TargetInfo{}, nil
	}
	if err != nil {
		return TargetInfo{}, err
	}
	return TargetInfo{Mapped: true, Excluded: excluded}, nil
}

func (s *Store) SetupCounts(ctx context.Context, periodID, employeeID string) (SetupCounts, error) {
	var counts SetupCounts
	err := s.DB.QueryRow(ctx, `
    SELECT
      EXISTS (
        SELECT 1 FROM project_assignments pa
        JOIN projects p ON p.id = pa.project_id AND p.deleted_at IS NULL
        WHERE pa.period_id = $1 AND pa.employee_id = $2 AND pa.deleted_at IS NULL
      ),
      EXISTS (
        SELECT 1 FROM wbs_assignments wa
        `+db.ValidAssignmentJoin+`
        WHERE wa.period_id = $1 AND wa.employee_id = $2 AND wa.deleted_at IS NULL
      ),
      (
        SELECT COUNT(1) FROM wbs_assignments wa
        `+db.ValidAssignmentJoin+`
        WHERE wa.period_id = $1 AND wa.employee_id = $2 AND wa.deleted_at IS NULL
      ),
      (
        SELECT COUNT(1) FROM wbs_assignments wa
        `+db.ValidAssignmentJoin+`
        WHERE wa.period_id = $1 AND wa.employee_id = $2 AND wa.deleted_at IS NULL
          AND EXISTS (
            SELECT 1 FROM wbs_evaluation_criteria c
            WHERE c.wbs_item_id = wa.wbs_item_id AND c.deleted_at IS NULL
          )
      )
  `, periodID, employeeID).Scan(
		&counts.HasProjectAssignment,
		&counts.HasWbsAssignment,
		&counts.WbsAssigned,
		&counts.WbsWithCriteria,
	)
	return counts, err
}

func (s *Store) LineMappingPresence(ctx context.Context, periodID, employeeID string) (bool, bool, error) {
	var hasPrimary, hasSecondary bool
	err := s.DB.QueryRow(ctx, `
    SELECT
      EXISTS (
        SELECT 1 FROM evaluation_line_mappings m
        JOIN evaluation_lines l ON l.id = m.evaluation_line_id
        WHERE m.period_id = $1 AND m.employee_id = $2
          AND l.evaluator_type = 'PRIMARY' AND m.deleted_at IS NULL
      ),
      EXISTS (
        SELECT 1 FROM evaluation_line_mappings m
        JOIN evaluation_lines l ON l.id = m.evaluation_line_id
        WHERE m.period_id = $1 AND m.employee_id = $2
          AND l.evaluator_type = 'SECONDARY' AND m.deleted_at IS NULL
      )
  `, periodID, employeeID).Scan(&hasPrimary, &hasSecondary)
	return hasPrimary, hasSecondary, err
}

func (s *Store) SelfCounts(ctx context.Context, periodID, employeeID string) (SelfCounts, error) {
	var counts SelfCounts
	var submittedToEvaluator int
	err := s.DB.QueryRow(ctx, `
    WITH assigned AS (
      SELECT wa.wbs_item_id
      FROM wbs_assignments wa
      `+db.ValidAssignmentJoin+`
      WHERE wa.period_id = $1 AND wa.employee_id = $2 AND wa.deleted_at IS NULL
    ),
    evals AS (
      SELECT se.performance_result, se.submitted_to_evaluator, se.submitted_to_manager
      FROM self_evaluations se
      JOIN assigned a ON a.wbs_item_id = se.wbs_item_id
      WHERE se.period_id = $1 AND se.employee_id = $2 AND se.deleted_at IS NULL
    )
    SELECT
      (SELECT COUNT(1) FROM assigned),
      (SELECT COUNT(1) FROM evals WHERE performance_result <> ''),
      (SELECT COUNT(1) FROM evals WHERE submitted_to_manager),
      (SELECT COUNT(1) FROM evals WHERE submitted_to_evaluator)
  `, periodID, employeeID).Scan(
		&counts.Assigned,
		&counts.PerformanceInputs,
		&counts.SubmittedToManager,
		&submittedToEvaluator,
	)
	if err != nil {
		return SelfCounts{}, err
	}
	// Submission flags are all-or-nothing over the assigned set.
	counts.AllSubmittedToEvaluator = counts.Assigned > 0 && submittedToEvaluator >= counts.Assigned
	counts.AllSubmittedToManager = counts.Assigned > 0 && counts.SubmittedToManager >= counts.Assigned
	return counts, nil
}

func (s *Store) PeerCounts(ctx context.Context, periodID, employeeID string) (int, int, error) {
	var assigned, completed int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1), COUNT(1) FILTER (WHERE is_completed)
    FROM peer_evaluations
    WHERE period_id = $1 AND evaluatee_id = $2
      AND status <> 'cancelled' AND is_active AND deleted_at IS NULL
  `, periodID, employeeID).Scan(&assigned, &completed)
	return assigned, completed, err
}

func (s *Store) FinalEvaluation(ctx context.Context, periodID, employeeID string) (FinalInfo, error) {
	var info FinalInfo
	err := s.DB.QueryRow(ctx, `
    SELECT evaluation_grade, job_grade, job_detailed_grade, is_confirmed
    FROM final_evaluations
    WHERE period_id = $1 AND employee_id = $2 AND deleted_at IS NULL
  `, periodID, employeeID).Scan(&info.Grade, &info.JobGrade, &info.JobDetailedGrade, &info.Confirmed)
	if errors.Is(err, pgx.ErrNoRows) {
		return FinalInfo{}, nil
	}
	if err != nil {
		return FinalInfo{}, err
	}
	info.Present = true
	return info, nil
}

func (s *Store) ApprovalContext(ctx context.Context, periodID, employeeID, step, recipientID string) (status.Approval, error) {
	var approval status.Approval
	err := s.DB.QueryRow(ctx, `
    WITH approval AS (
      SELECT sa.status, sa.approved_at
      FROM step_approvals sa
      WHERE sa.period_id = $1 AND sa.employee_id = $2 AND sa.step = $3
        AND (sa.evaluator_id = $4 OR sa.evaluator_id IS NULL)
        AND sa.deleted_at IS NULL
      ORDER BY sa.created_at DESC
      LIMIT 1
    ),
    recipients AS (
      SELECT rec.is_completed, rec.completed_at
      FROM revision_requests rr
      JOIN revision_request_recipients rec
        ON rec.revision_request_id = rr.id AND rec.deleted_at IS NULL
      WHERE rr.period_id = $1 AND rr.employee_id = $2 AND rr.step = $3
        AND rec.recipient_id = $4 AND rr.deleted_at IS NULL
    )
    SELECT
      COALESCE((SELECT status FROM approval), ''),
      EXISTS (SELECT 1 FROM recipients WHERE NOT is_completed),
      EXISTS (
        SELECT 1 FROM recipients r
        WHERE r.is_completed
          AND (
            (SELECT status FROM approval) IS DISTINCT FROM 'approved'
            OR (SELECT approved_at FROM approval) < r.completed_at
          )
      )
  `, periodID, employeeID, step, recipientID).Scan(
		&approval.Status,
		&approval.HasActiveRevision,
		&approval.HasCompletedRevision,
	)
	return approval, err
}

func (s *Store) PeriodEmployeeIDs(ctx context.Context, periodID string) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id
    FROM evaluation_period_employees
    WHERE period_id = $1 AND NOT is_excluded AND deleted_at IS NULL
    ORDER BY created_at
  `, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) AssignedWbsList(ctx context.Context, periodID, employeeID string) ([]AssignedWbs, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT wa.wbs_item_id, w.title, wa.project_id, p.name, wa.weight, wa.display_order,
           se.performance_result, se.content, se.score,
           se.submitted_to_evaluator, se.submitted_to_manager
    FROM wbs_assignments wa
    JOIN wbs_items w ON w.id = wa.wbs_item_id
    `+db.ValidAssignmentJoin+`
    LEFT JOIN self_evaluations se
      ON se.period_id = wa.period_id
     AND se.employee_id = wa.employee_id
     AND se.wbs_item_id = wa.wbs_item_id
     AND se.deleted_at IS NULL
    WHERE wa.period_id = $1 AND wa.employee_id = $2 AND wa.deleted_at IS NULL
    ORDER BY wa.display_order, wa.created_at
  `, periodID, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []AssignedWbs
	for rows.Next() {
		var a AssignedWbs
		var performanceResult, content *string
		var score *float64
		var submittedToEvaluator, submittedToManager *bool
		if err := rows.Scan(&a.WbsItemID, &a.Title, &a.ProjectID, &a.ProjectName, &a.Weight, &a.DisplayOrder,
			&performanceResult, &content, &score, &submittedToEvaluator, &submittedToManager); err != nil {
			return nil, err
		}
		if performanceResult != nil {
			a.SelfEvaluation = &SelfEvaluationRow{
				PerformanceResult:    *performanceResult,
				Content:              deref(content),
				Score:                score,
				SubmittedToEvaluator: submittedToEvaluator != nil && *submittedToEvaluator,
				SubmittedToManager:   submittedToManager != nil && *submittedToManager,
			}
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range assignments {
		criteria, err := s.wbsCriteria(ctx, assignments[i].WbsItemID)
		if err != nil {
			return nil, err
		}
		assignments[i].Criteria = criteria
	}
	return assignments, nil
}

func (s *Store) wbsCriteria(ctx context.Context, wbsItemID string) ([]WbsCriterion, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT criterion, importance
    FROM wbs_evaluation_criteria
    WHERE wbs_item_id = $1 AND deleted_at IS NULL
    ORDER BY created_at
  `, wbsItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var criteria []WbsCriterion
	for rows.Next() {
		var c WbsCriterion
		if err := rows.Scan(&c.Criterion, &c.Importance); err != nil {
			return nil, err
		}
		criteria = append(criteria, c)
	}
	return criteria, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
