package status

// Progress is the count-derived stage of a single evaluation track.
type Progress string

const (
	ProgressNone       Progress = "none"
	ProgressInProgress Progress = "in_progress"
	ProgressComplete   Progress = "complete"
)

// Unified is the dashboard-visible status after combining progress with the
// approval and revision-request sub-states.
type Unified string

const (
	None              Unified = "none"
	InProgress        Unified = "in_progress"
	Pending           Unified = "pending"
	Approved          Unified = "approved"
	RevisionRequested Unified = "revision_requested"
	RevisionCompleted Unified = "revision_completed"
)

const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
)

// Approval is the approval sub-state for one track and one recipient.
// Status is empty when no approval record exists yet.
type Approval struct {
	Status               string
	HasActiveRevision    bool
	HasCompletedRevision bool
}

// FromCounts derives progress from completed/assigned counts. Over-completion
// (historical rows outliving a shrunken assignment set) still reads as complete.
func FromCounts(completed, assigned int) Progress {
	switch {
	case assigned <= 0:
		return ProgressNone
	case completed >= assigned:
		return ProgressComplete
	default:
		return ProgressInProgress
	}
}

// TwoFactor is the two-factor AND/OR rule used for criteria setup (project and
// WBS assignment present) and evaluation-line setup (primary and secondary mapped).
func TwoFactor(first, second bool) Progress {
	switch {
	case first && second:
		return ProgressComplete
	case first || second:
		return ProgressInProgress
	default:
		return ProgressNone
	}
}

// FromFinal derives the final-evaluation track progress.
func FromFinal(present, confirmed bool) Progress {
	switch {
	case present && confirmed:
		return ProgressComplete
	case present:
		return ProgressInProgress
	default:
		return ProgressNone
	}
}

// Combine folds progress and approval into the unified status. Precedence:
// an active revision request wins over everything, a completed-but-unapproved
// revision next, then (secondary tracks only) a standing approval, then the
// plain progress ladder with approval deciding the terminal state.
func Combine(progress Progress, approval Approval, secondary bool) Unified {
	if approval.HasActiveRevision {
		return RevisionRequested
	}
	if approval.HasCompletedRevision {
		return RevisionCompleted
	}
	if secondary && approval.Status == ApprovalApproved {
		return Approved
	}
	switch progress {
	case ProgressNone:
		return None
	case ProgressInProgress:
		return InProgress
	}
	if approval.Status == ApprovalApproved {
		return Approved
	}
	return Pending
}

// AggregateSecondary folds the unified statuses of all current secondary
// evaluators into one track status.
func AggregateSecondary(statuses []Unified) Unified {
	if len(statuses) == 0 {
		return None
	}

	var (
		none, inProgress, pending, approved  int
		revisionRequested, revisionCompleted int
	)
	for _, s := range statuses {
		switch s {
		case None:
			none++
		case InProgress:
			inProgress++
		case Pending:
			pending++
		case Approved:
			approved++
		case RevisionRequested:
			revisionRequested++
		case RevisionCompleted:
			revisionCompleted++
		}
	}

	switch {
	case none == len(statuses):
		return None
	case revisionCompleted > 0:
		return RevisionCompleted
	case revisionRequested > 0:
		return RevisionRequested
	case pending > 0:
		return Pending
	case approved == len(statuses):
		return Approved
	default:
		return InProgress
	}
}
