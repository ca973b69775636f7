package activity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
)

// CollectionName is shared by the Mongo collection and the Postgres table.
const CollectionName = "submission_activity_logs"

type Category string

const CategoryWorkflow Category = "workflow"

// ManualAction is recorded when a transition was requested without a named action.
const ManualAction = "manual_update"

// Entry is an append-only audit record for a submission.
type Entry struct {
	ID           string    `bson:"_id" json:"id"`
	SubmissionID string    `bson:"submission_id" json:"submission_id"`
	Message      string    `bson:"message" json:"message"`
	Category     Category  `bson:"category" json:"category"`
	ActorID      string    `bson:"actor_id" json:"actor_id"`
	Metadata     Metadata  `bson:"metadata" json:"metadata"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

type Metadata struct {
	Action    string `bson:"action" json:"action"`
	Stage     string `bson:"stage,omitempty" json:"stage,omitempty"`
	Status    string `bson:"status,omitempty" json:"status,omitempty"`
	ActorRole string `bson:"actor_role" json:"actor_role"`
}

// Value stores metadata as jsonb. lib/pq sends []byte as bytea, so text is returned.
func (m Metadata) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *Metadata) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	case nil:
		*m = Metadata{}
		return nil
	default:
		return errors.New("activity: unsupported metadata column type")
	}
}

// NewEntryID returns a lexically time-ordered id.
func NewEntryID() string {
	return ulid.Make().String()
}
