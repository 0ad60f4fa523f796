package db

// ValidAssignmentJoin restricts a query over wbs_assignments (aliased wa) to
// assignments whose parent project assignment and project are both live. Every
// scoring and status query must use the same predicate; a WBS assignment whose
// project assignment was cancelled contributes nothing anywhere.
const ValidAssignmentJoin = `
    JOIN project_assignments pa
      ON pa.period_id = wa.period_id
     AND pa.employee_id = wa.employee_id
     AND pa.project_id = wa.project_id
     AND pa.deleted_at IS NULL
    JOIN projects p
      ON p.id = wa.project_id
     AND p.deleted_at IS NULL`
