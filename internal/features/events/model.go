package events

import (
	"time"

	"github.com/oklog/ulid/v2"
)

const TypeSubmissionTransitioned = "submission.transitioned"

// WorkflowEvent is broadcast after a transition has been committed.
type WorkflowEvent struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	SubmissionID string    `json:"submission_id"`
	JournalID    string    `json:"journal_id,omitempty"`
	Action       string    `json:"action"`
	Stage        string    `json:"stage,omitempty"`
	Status       string    `json:"status,omitempty"`
	ActorID      string    `json:"actor_id"`
	ActorRole    string    `json:"actor_role"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// NewTransitionEvent stamps a fresh id and type.
func NewTransitionEvent(submissionID string, occurredAt time.Time) WorkflowEvent {
	return WorkflowEvent{
		ID:           ulid.Make().String(),
		Type:         TypeSubmissionTransitioned,
		SubmissionID: submissionID,
		OccurredAt:   occurredAt,
	}
}
