package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	common_models "go-ojs/internal/common/models"
	"go-ojs/internal/features/activity"
	"go-ojs/internal/features/events"
	"go-ojs/internal/features/permission"
	"go-ojs/internal/features/submission"
)

// MockSubmissionRepo keeps submissions and their activity entries in memory
// and applies transitions atomically under one lock.
type MockSubmissionRepo struct {
	mu          sync.Mutex
	Submissions map[string]*submission.Submission
	Entries     []activity.Entry
	Calls       int
	FailWith    error
}

func newMockSubmissionRepo(subs ...submission.Submission) *MockSubmissionRepo {
	repo := &MockSubmissionRepo{Submissions: make(map[string]*submission.Submission)}
	for i := range subs {
		s := subs[i]
		repo.Submissions[s.ID] = &s
	}
	return repo
}

func (m *MockSubmissionRepo) Create(ctx context.Context, s submission.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Submissions[s.ID] = &s
	return nil
}

func (m *MockSubmissionRepo) GetByID(ctx context.Context, id string) (*submission.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Submissions[id]
	if !ok {
		return nil, submission.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *MockSubmissionRepo) FindJournalID(ctx context.Context, id string) (string, error) {
	s, err := m.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.JournalID, nil
}

func (m *MockSubmissionRepo) ListDueForPublication(ctx context.Context, now time.Time, limit int64) ([]submission.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []submission.Submission
	for _, s := range m.Submissions {
		if s.Status == submission.StatusScheduled && !s.IsArchived &&
			s.ScheduledPublishAt != nil && !s.ScheduledPublishAt.After(now) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *MockSubmissionRepo) ApplyTransition(ctx context.Context, id string, update submission.Update, entry activity.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.FailWith != nil {
		return m.FailWith
	}
	s, ok := m.Submissions[id]
	if !ok {
		return submission.ErrNotFound
	}
	if update.ExpectedVersion != nil && *update.ExpectedVersion != s.Version {
		return submission.ErrVersionConflict
	}
	if update.CurrentStage != nil {
		s.CurrentStage = *update.CurrentStage
	}
	if update.Status != nil {
		s.Status = *update.Status
	}
	if update.ScheduledPublishAt != nil {
		at := *update.ScheduledPublishAt
		s.ScheduledPublishAt = &at
	} else if update.ClearScheduledPublishAt {
		s.ScheduledPublishAt = nil
	}
	s.Version++
	s.UpdatedAt = entry.CreatedAt
	m.Entries = append(m.Entries, entry)
	return nil
}

func (m *MockSubmissionRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (m *MockSubmissionRepo) entryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Entries)
}

// MockPermissions grants editorial access from a fixed user -> role table.
type MockPermissions struct {
	Repo  *MockSubmissionRepo
	Roles map[string]string
}

func (m *MockPermissions) CheckEditorial(ctx context.Context, auth common_models.AuthContext, submissionID string) permission.Grant {
	if !auth.Authenticated() {
		return permission.Grant{}
	}
	role, ok := m.Roles[auth.UserID]
	if !ok {
		return permission.Grant{}
	}
	journalID, err := m.Repo.FindJournalID(ctx, submissionID)
	if err != nil {
		return permission.Grant{}
	}
	return permission.Grant{Allowed: true, UserID: auth.UserID, JournalID: journalID, Role: role}
}

func (m *MockPermissions) EditorialJournals(ctx context.Context, auth common_models.AuthContext) map[string]bool {
	if _, ok := m.Roles[auth.UserID]; !ok {
		return map[string]bool{}
	}
	return map[string]bool{"J1": true}
}

type eventRecorder struct {
	mu     sync.Mutex
	events []events.WorkflowEvent
}

func (r *eventRecorder) Publish(event events.WorkflowEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) all() []events.WorkflowEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.WorkflowEvent(nil), r.events...)
}

var errStoreDown = errors.New("connection reset")

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func reviewSubmission(id string) submission.Submission {
	return submission.Submission{
		ID:           id,
		JournalID:    "J1",
		CurrentStage: submission.StageReview,
		Status:       submission.StatusInReview,
		Version:      3,
		SubmittedAt:  fixedNow.Add(-48 * time.Hour),
	}
}
