package dashboard

import (
	"perfboard/internal/scoring"
	"perfboard/internal/status"
)

// TrackStatus is a track with no approval subsystem; its status is the plain
// progress value.
type TrackStatus struct {
	Status status.Progress `json:"status"`
}

// CountedTrack adds the raw counts behind an approval-less track.
type CountedTrack struct {
	Status    status.Progress `json:"status"`
	Assigned  int             `json:"assigned"`
	Completed int             `json:"completed"`
}

type SelfTrack struct {
	Status               status.Unified `json:"status"`
	Assigned             int            `json:"assigned"`
	Completed            int            `json:"completed"`
	Score                *float64       `json:"score"`
	Grade                *string        `json:"grade"`
	SubmittedToEvaluator bool           `json:"submittedToEvaluator"`
	SubmittedToManager   bool           `json:"submittedToManager"`
}

type PrimaryTrack struct {
	Status      status.Unified `json:"status"`
	Assigned    int            `json:"assigned"`
	Completed   int            `json:"completed"`
	Score       *float64       `json:"score"`
	Grade       *string        `json:"grade"`
	IsSubmitted bool           `json:"isSubmitted"`
	EvaluatorID *string        `json:"evaluatorId,omitempty"`
}

type SecondaryEvaluatorTrack struct {
	EvaluatorID string         `json:"evaluatorId"`
	Status      status.Unified `json:"status"`
	Assigned    int            `json:"assigned"`
	Completed   int            `json:"completed"`
	IsSubmitted bool           `json:"isSubmitted"`
	Score       *float64       `json:"score"`
	Grade       *string        `json:"grade"`
}

type SecondaryTrack struct {
	Status     status.Unified            `json:"status"`
	Evaluators []SecondaryEvaluatorTrack `json:"evaluators"`
	Score      *float64                  `json:"score"`
	Grade      *string                   `json:"grade"`
}

type FinalTrack struct {
	Status      status.Progress `json:"status"`
	Grade       *string         `json:"grade"`
	JobGrade    *string         `json:"jobGrade"`
	IsConfirmed bool            `json:"isConfirmed"`
}

// EmployeeStatus is the dashboard-visible status payload for one employee in
// one period. Everything here is computed on read; nothing is stored.
type EmployeeStatus struct {
	PeriodID           string         `json:"periodId"`
	EmployeeID         string         `json:"employeeId"`
	IsEvaluationTarget bool           `json:"isEvaluationTarget"`
	CriteriaSetup      TrackStatus    `json:"criteriaSetup"`
	CriteriaCoverage   CountedTrack   `json:"criteriaCoverage"`
	EvaluationLine     TrackStatus    `json:"evaluationLine"`
	PerformanceInput   CountedTrack   `json:"performanceInput"`
	SelfEvaluation     SelfTrack      `json:"selfEvaluation"`
	PrimaryDownward    PrimaryTrack   `json:"primaryDownward"`
	SecondaryDownward  SecondaryTrack `json:"secondaryDownward"`
	PeerEvaluation     CountedTrack   `json:"peerEvaluation"`
	FinalEvaluation    FinalTrack     `json:"finalEvaluation"`
}

// AssignedWbs is one valid WBS assignment in the assigned-data view.
type AssignedWbs struct {
	WbsItemID      string             `json:"wbsItemId"`
	Title          string             `json:"title"`
	ProjectID      string             `json:"projectId"`
	ProjectName    string             `json:"projectName"`
	Weight         float64            `json:"weight"`
	DisplayOrder   int                `json:"displayOrder"`
	Criteria       []WbsCriterion     `json:"criteria"`
	SelfEvaluation *SelfEvaluationRow `json:"selfEvaluation,omitempty"`
}

type WbsCriterion struct {
	Criterion  string `json:"criterion"`
	Importance int    `json:"importance"`
}

type SelfEvaluationRow struct {
	PerformanceResult    string   `json:"performanceResult"`
	Content              string   `json:"content"`
	Score                *float64 `json:"score"`
	SubmittedToEvaluator bool     `json:"submittedToEvaluator"`
	SubmittedToManager   bool     `json:"submittedToManager"`
}

// AssignedData is the per-employee assigned-data payload.
type AssignedData struct {
	PeriodID    string             `json:"periodId"`
	EmployeeID  string             `json:"employeeId"`
	Assignments []AssignedWbs      `json:"assignments"`
	Self        scoring.SelfResult `json:"self"`
}
