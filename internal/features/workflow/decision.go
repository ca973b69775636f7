package workflow

import (
	"strings"

	"go-ojs/internal/features/submission"
)

// Action is an editorial decision from the fixed catalog.
type Action string

const (
	ActionSendToReview        Action = "send_to_review"
	ActionRequestRevisions    Action = "request_revisions"
	ActionAccept              Action = "accept"
	ActionDecline             Action = "decline"
	ActionRevertDecline       Action = "revert_decline"
	ActionSendToCopyediting   Action = "send_to_copyediting"
	ActionSendToProduction    Action = "send_to_production"
	ActionSchedulePublication Action = "schedule_publication"
	ActionPublish             Action = "publish"
	ActionUnpublish           Action = "unpublish"
	ActionReturnToSubmission  Action = "return_to_submission"
)

// Decision is the static effect of an action. Empty fields are left unchanged.
type Decision struct {
	Action    Action            `json:"action"`
	NextStage submission.Stage  `json:"next_stage,omitempty"`
	Status    submission.Status `json:"status,omitempty"`
	Message   string            `json:"message"`
}

// catalog is ordered the way editors usually walk a manuscript through.
var catalog = []Decision{
	{ActionSendToReview, submission.StageReview, submission.StatusInReview, "Submission sent to review"},
	{ActionRequestRevisions, "", submission.StatusInReview, "Revisions requested"},
	{ActionAccept, submission.StageCopyediting, submission.StatusAccepted, "Submission accepted"},
	{ActionDecline, "", submission.StatusDeclined, "Submission declined"},
	{ActionRevertDecline, "", submission.StatusQueued, "Decline reverted"},
	{ActionSendToCopyediting, submission.StageCopyediting, submission.StatusAccepted, "Submission sent to copyediting"},
	{ActionSendToProduction, submission.StageProduction, submission.StatusScheduled, "Submission sent to production"},
	{ActionSchedulePublication, submission.StageProduction, submission.StatusScheduled, "Submission scheduled for publication"},
	{ActionPublish, submission.StageProduction, submission.StatusPublished, "Submission published"},
	{ActionUnpublish, submission.StageProduction, submission.StatusScheduled, "Submission unpublished"},
	{ActionReturnToSubmission, submission.StageSubmission, submission.StatusQueued, "Submission returned to submission stage"},
}

var decisions = func() map[Action]Decision {
	m := make(map[Action]Decision, len(catalog))
	for _, d := range catalog {
		m[d.Action] = d
	}
	return m
}()

// ParseAction maps a request string onto the catalog.
func ParseAction(name string) (Action, bool) {
	a := Action(strings.TrimSpace(name))
	_, ok := decisions[a]
	return a, ok
}

func Lookup(a Action) (Decision, bool) {
	d, ok := decisions[a]
	return d, ok
}

// Catalog returns a copy of the decision table in display order.
func Catalog() []Decision {
	out := make([]Decision, len(catalog))
	copy(out, catalog)
	return out
}
