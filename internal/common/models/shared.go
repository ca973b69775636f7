package models

import (
	"time"
)

type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
)

// SystemActorID is recorded as the actor of transitions applied by background jobs.
const SystemActorID = "system"

// AuthContext is the authenticated caller, passed explicitly to permission checks.
// A zero value means no session.
type AuthContext struct {
	UserID string
}

func (a AuthContext) Authenticated() bool {
	return a.UserID != ""
}

type Log struct {
	AppID        string    `bson:"app_id" json:"app_id"`
	Message      string    `bson:"message" json:"message"`
	Caller       string    `bson:"caller" json:"caller"`
	LogLevelId   int       `bson:"log_level_id" json:"log_level_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc" json:"created_on_utc"`
}
