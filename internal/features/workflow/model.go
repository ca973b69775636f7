package workflow

import (
	"strings"

	"go-ojs/internal/features/activity"
	"go-ojs/internal/features/submission"
)

// TransitionRequest is the body of POST /api/submissions/:submissionId/workflow.
type TransitionRequest struct {
	Action      string `json:"action,omitempty"`
	TargetStage string `json:"targetStage,omitempty"`
	Status      string `json:"status,omitempty"`
	Note        string `json:"note,omitempty"`
	// PublishAt is honoured alongside schedule_publication or a manual scheduled status.
	PublishAt       string `json:"publishAt,omitempty"`
	ExpectedVersion *int64 `json:"expectedVersion,omitempty"`
}

// IsEmpty reports a request that names nothing to change or record.
func (r TransitionRequest) IsEmpty() bool {
	return strings.TrimSpace(r.Action) == "" &&
		strings.TrimSpace(r.TargetStage) == "" &&
		strings.TrimSpace(r.Status) == "" &&
		strings.TrimSpace(r.Note) == ""
}

// Result describes a committed transition.
type Result struct {
	SubmissionID string
	Update       submission.Update
	Entry        activity.Entry
}
