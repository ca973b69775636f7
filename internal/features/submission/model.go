package submission

import (
	"errors"
	"time"
)

// CollectionName is shared by the Mongo collection and the Postgres table.
const CollectionName = "submissions"

var (
	ErrNotFound        = errors.New("submission not found")
	ErrVersionConflict = errors.New("submission was modified by another request")
)

// Stage is the coarse-grained phase of editorial handling.
type Stage string

const (
	StageSubmission  Stage = "submission"
	StageReview      Stage = "review"
	StageCopyediting Stage = "copyediting"
	StageProduction  Stage = "production"
)

// Stages lists every stage in workflow order.
var Stages = []Stage{StageSubmission, StageReview, StageCopyediting, StageProduction}

func (s Stage) Valid() bool {
	for _, st := range Stages {
		if s == st {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusQueued    Status = "queued"
	StatusInReview  Status = "in_review"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
)

var Statuses = []Status{StatusQueued, StatusInReview, StatusAccepted, StatusDeclined, StatusScheduled, StatusPublished}

func (s Status) Valid() bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

// Submission is one manuscript under editorial handling.
type Submission struct {
	ID                 string     `bson:"_id" json:"id"`
	JournalID          string     `bson:"journal_id" json:"journal_id"`
	CurrentStage       Stage      `bson:"current_stage" json:"current_stage"`
	Status             Status     `bson:"status" json:"status"`
	IsArchived         bool       `bson:"is_archived" json:"is_archived"`
	Version            int64      `bson:"version" json:"version"`
	ScheduledPublishAt *time.Time `bson:"scheduled_publish_at,omitempty" json:"scheduled_publish_at,omitempty"`
	SubmittedAt        time.Time  `bson:"submitted_at" json:"submitted_at"`
	UpdatedAt          time.Time  `bson:"updated_at" json:"updated_at"`
}

// Update carries only the fields a transition changes. Nil fields are left untouched.
type Update struct {
	CurrentStage       *Stage
	Status             *Status
	ScheduledPublishAt *time.Time
	// ClearScheduledPublishAt removes a stored publish date. Ignored when ScheduledPublishAt is set.
	ClearScheduledPublishAt bool
	// ExpectedVersion makes the write conditional on the stored version.
	ExpectedVersion *int64
}

// Fields returns the changed columns keyed by their stored name. A nil value means the column is cleared.
func (u Update) Fields() map[string]any {
	fields := make(map[string]any)
	if u.CurrentStage != nil {
		fields["current_stage"] = string(*u.CurrentStage)
	}
	if u.Status != nil {
		fields["status"] = string(*u.Status)
	}
	if u.ScheduledPublishAt != nil {
		fields["scheduled_publish_at"] = u.ScheduledPublishAt.UTC()
	} else if u.ClearScheduledPublishAt {
		fields["scheduled_publish_at"] = nil
	}
	return fields
}
