package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	common_models "go-ojs/internal/common/models"
	"go-ojs/internal/features/activity"
	"go-ojs/internal/features/permission"
	"go-ojs/internal/features/submission"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type serviceFixture struct {
	service *WorkflowServiceImpl
	repo    *MockSubmissionRepo
	events  *eventRecorder
	metrics *Metrics
}

func newServiceFixture(subs ...submission.Submission) *serviceFixture {
	repo := newMockSubmissionRepo(subs...)
	recorder := &eventRecorder{}
	metrics := NewMetrics(prometheus.NewRegistry())
	perms := &MockPermissions{Repo: repo, Roles: map[string]string{
		"editor-1":  "editor",
		"manager-1": "manager",
	}}

	svc := NewWorkflowService(perms, repo, recorder, metrics, zap.NewNop()).(*WorkflowServiceImpl)
	svc.now = func() time.Time { return fixedNow }

	return &serviceFixture{service: svc, repo: repo, events: recorder, metrics: metrics}
}

func editor() common_models.AuthContext {
	return common_models.AuthContext{UserID: "editor-1"}
}

func TestTransitionAcceptMovesToCopyediting(t *testing.T) {
	f := newServiceFixture(reviewSubmission("S1"))

	res, err := f.service.Transition(context.Background(), editor(), "S1", TransitionRequest{Action: "accept"})
	require.NoError(t, err)

	s, _ := f.repo.GetByID(context.Background(), "S1")
	assert.Equal(t, submission.StageCopyediting, s.CurrentStage)
	assert.Equal(t, submission.StatusAccepted, s.Status)
	assert.Equal(t, int64(4), s.Version)

	require.Len(t, f.repo.Entries, 1)
	entry := f.repo.Entries[0]
	assert.Equal(t, "Submission accepted", entry.Message)
	assert.Equal(t, "accept", entry.Metadata.Action)
	assert.Equal(t, "copyediting", entry.Metadata.Stage)
	assert.Equal(t, "accepted", entry.Metadata.Status)
	assert.Equal(t, "editor", entry.Metadata.ActorRole)
	assert.Equal(t, "editor-1", entry.ActorID)
	assert.Equal(t, activity.CategoryWorkflow, entry.Category)
	assert.Equal(t, fixedNow, entry.CreatedAt)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, entry, res.Entry)

	evs := f.events.all()
	require.Len(t, evs, 1)
	assert.Equal(t, "S1", evs[0].SubmissionID)
	assert.Equal(t, "J1", evs[0].JournalID)
	assert.Equal(t, "accept", evs[0].Action)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.transitions.WithLabelValues("accept", outcomeApplied)))
}

func TestTransitionUnknownActionChangesNothing(t *testing.T) {
	f := newServiceFixture(reviewSubmission("S1"))

	_, err := f.service.Transition(context.Background(), editor(), "S1", TransitionRequest{Action: "not_a_real_action"})
	require.ErrorIs(t, err, ErrInvalidAction)
	assert.True(t, IsInputError(err))

	s, _ := f.repo.GetByID(context.Background(), "S1")
	assert.Equal(t, submission.StageReview, s.CurrentStage)
	assert.Equal(t, submission.StatusInReview, s.Status)
	assert.Zero(t, f.repo.Calls)
	assert.Empty(t, f.repo.Entries)
	assert.Empty(t, f.events.all())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.transitions.WithLabelValues("unknown", outcomeRejected)))
}

func TestEveryCatalogActionWritesOneEntry(t *testing.T) {
	for _, d := range Catalog() {
		t.Run(string(d.Action), func(t *testing.T) {
			f := newServiceFixture(reviewSubmission("S1"))

			_, err := f.service.Transition(context.Background(), editor(), "S1", TransitionRequest{Action: string(d.Action)})
			require.NoError(t, err)

			s, _ := f.repo.GetByID(context.Background(), "S1")
			if d.NextStage != "" {
				assert.Equal(t, d.NextStage, s.CurrentStage)
			} else {
				assert.Equal(t, submission.StageReview, s.CurrentStage)
			}
			if d.Status != "" {
				assert.Equal(t, d.Status, s.Status)
			}

			require.Len(t, f.repo.Entries, 1)
			assert.Equal(t, d.Message, f.repo.Entries[0].Message)
			assert.Equal(t, string(d.Action), f.repo.Entries[0].Metadata.Action)
		})
	}
}

func TestTransitionDeniedWithoutEditorialRole(t *testing.T) {
	cases := map[string]common_models.AuthContext{
		"anonymous": {},
		"author":    {UserID: "author-1"},
	}

	for name, auth := range cases {
		t.Run(name, func(t *testing.T) {
			f := newServiceFixture(reviewSubmission("S1"))

			_, err := f.service.Transition(context.Background(), auth, "S1", TransitionRequest{Action: "accept"})
			require.ErrorIs(t, err, ErrPermissionDenied)
			assert.Zero(t, f.repo.Calls)
			assert.Empty(t, f.repo.Entries)
			assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.transitions.WithLabelValues(unresolvedAction, outcomeDenied)))
		})
	}
}

func TestApplyRejectsDeniedGrant(t *testing.T) {
	f := newServiceFixture(reviewSubmission("S1"))

	_, err := f.service.Apply(context.Background(), permission.Grant{}, "S1", TransitionRequest{Action: "accept"})
	require.ErrorIs(t, err, ErrPermissionDenied)
	assert.Zero(t, f.repo.Calls)
}

func TestManualUpdateUsesDefaultMessage(t *testing.T) {
	f := newServiceFixture(reviewSubmission("S1"))

	_, err := f.service.Transition(context.Background(), editor(), "S1", TransitionRequest{TargetStage: "production"})
	require.NoError(t, err)

	s, _ := f.repo.GetByID(context.Background(), "S1")
	assert.Equal(t, submission.StageProduction, s.CurrentStage)
	assert.Equal(t, submission.StatusInReview, s.Status)

	require.Len(t, f.repo.Entries, 1)
	assert.Equal(t, manualUpdateMessage, f.repo.Entries[0].Message)
	assert.Equal(t, activity.ManualAction, f.repo.Entries[0].Metadata.Action)
	assert.Equal(t, "", f.repo.Entries[0].Metadata.Status)
}

func TestNoteOverridesCannedMessage(t *testing.T) {
	f := newServiceFixture(reviewSubmission("S1"))

	_, err := f.service.Transition(context.Background(), editor(), "S1", TransitionRequest{Action: "decline", Note: "  Out of scope  "})
	require.NoError(t, err)

	require.Len(t, f.repo.Entries, 1)
	assert.Equal(t, "Out of scope", f.repo.Entries[0].Message)
	assert.Equal(t, "decline", f.repo.Entries[0].Metadata.Action)
}

func TestNoteOnlyRecordsEntryWithoutFieldChanges(t *testing.T) {
	f := newServiceFixture(reviewSubmission("S1"))

	res, err := f.service.Transition(context.Background(), editor(), "S1", TransitionRequest{Note: "Chased reviewers"})
	require.NoError(t, err)
	assert.Empty(t, res.Update.Fields())

	s, _ := f.repo.GetByID(context.Background(), "S1")
	assert.Equal(t, submission.StageReview, s.CurrentStage)
	require.Len(t, f.repo.Entries, 1)
	assert.Equal(t, "Chased reviewers", f.repo.Entries[0].Message)
}

func TestResolve(t *testing.T) {
	stage := func(s submission.Stage) *submission.Stage { return &s }
	status := func(s submission.Status) *submission.Status { return &s }

	tests := []struct {
		name       string
		req        TransitionRequest
		wantErr    error
		wantStage  *submission.Stage
		wantStatus *submission.Status
	}{
		{name: "empty body", req: TransitionRequest{}, wantErr: ErrInvalidRequest},
		{name: "whitespace only", req: TransitionRequest{Action: "  ", Note: " "}, wantErr: ErrInvalidRequest},
		{name: "unknown action", req: TransitionRequest{Action: "promote"}, wantErr: ErrInvalidAction},
		{name: "invalid stage", req: TransitionRequest{TargetStage: "archive"}, wantErr: ErrInvalidStage},
		{name: "invalid status", req: TransitionRequest{Status: "lost"}, wantErr: ErrInvalidStatus},
		{name: "invalid stage with action", req: TransitionRequest{Action: "accept", TargetStage: "archive"}, wantErr: ErrInvalidStage},
		{
			name:       "decision wins over explicit fields",
			req:        TransitionRequest{Action: "accept", TargetStage: "review", Status: "declined"},
			wantStage:  stage(submission.StageCopyediting),
			wantStatus: status(submission.StatusAccepted),
		},
		{
			name:       "explicit stage fills status-only decision",
			req:        TransitionRequest{Action: "decline", TargetStage: "submission"},
			wantStage:  stage(submission.StageSubmission),
			wantStatus: status(submission.StatusDeclined),
		},
		{
			name:       "explicit status only",
			req:        TransitionRequest{Status: "queued"},
			wantStatus: status(submission.StatusQueued),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := resolve(tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStage, p.update.CurrentStage)
			assert.Equal(t, tt.wantStatus, p.update.Status)
		})
	}
}

func TestSchedulePublicationStoresPublishAt(t *testing.T) {
	f := newServiceFixture(reviewSubmission("S1"))

	_, err := f.service.Transition(context.Background(), editor(), "S1", TransitionRequest{
		Action:    "schedule_publication",
		PublishAt: "2024-06-01T08:00:00+02:00",
	})
	require.NoError(t, err)

	s, _ := f.repo.GetByID(context.Background(), "S1")
	require.NotNil(t, s.ScheduledPublishAt)
	assert.Equal(t, time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC), *s.ScheduledPublishAt)
}

func TestPublishAtRequiresScheduledStatus(t *testing.T) {
	for _, req := range []TransitionRequest{
		{Action: "schedule_publication", PublishAt: "tomorrow"},
		{Action: "accept", PublishAt: "2024-06-01T08:00:00Z"},
		{Note: "later", PublishAt: "2024-06-01T08:00:00Z"},
	} {
		_, err := resolve(req)
		assert.ErrorIs(t, err, ErrInvalidPublishAt, "%+v", req)
	}

	_, err := resolve(TransitionRequest{Status: "scheduled", PublishAt: "2024-06-01T08:00:00Z"})
	assert.NoError(t, err)
}

func TestExpectedVersionMismatchIsConflict(t *testing.T) {
	f := newServiceFixture(reviewSubmission("S1"))
	stale := int64(2)

	_, err := f.service.Transition(context.Background(), editor(), "S1", TransitionRequest{Action: "accept", ExpectedVersion: &stale})
	require.ErrorIs(t, err, submission.ErrVersionConflict)
	assert.Empty(t, f.repo.Entries)
	assert.Empty(t, f.events.all())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.transitions.WithLabelValues("accept", outcomeConflict)))

	current := int64(3)
	_, err = f.service.Transition(context.Background(), editor(), "S1", TransitionRequest{Action: "accept", ExpectedVersion: &current})
	require.NoError(t, err)
}

func TestStoreFailureIsWrapped(t *testing.T) {
	f := newServiceFixture(reviewSubmission("S1"))
	f.repo.FailWith = errStoreDown

	_, err := f.service.Transition(context.Background(), editor(), "S1", TransitionRequest{Action: "accept"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errStoreDown))
	assert.False(t, IsInputError(err))
	assert.Empty(t, f.events.all())
}

func TestNilMetricsAreIgnored(t *testing.T) {
	repo := newMockSubmissionRepo(reviewSubmission("S1"))
	perms := &MockPermissions{Repo: repo, Roles: map[string]string{"editor-1": "editor"}}
	svc := NewWorkflowService(perms, repo, nil, nil, zap.NewNop())

	_, err := svc.Transition(context.Background(), editor(), "S1", TransitionRequest{Action: "send_to_review"})
	assert.NoError(t, err)
}

func TestResolveClearsPublishDateOnScheduledStatus(t *testing.T) {
	p, err := resolve(TransitionRequest{Action: "unpublish"})
	require.NoError(t, err)
	assert.True(t, p.update.ClearScheduledPublishAt)
	assert.Nil(t, p.update.ScheduledPublishAt)

	p, err = resolve(TransitionRequest{Action: "schedule_publication", PublishAt: "2024-06-01T08:00:00Z"})
	require.NoError(t, err)
	assert.False(t, p.update.ClearScheduledPublishAt)
	require.NotNil(t, p.update.ScheduledPublishAt)

	p, err = resolve(TransitionRequest{Action: "accept"})
	require.NoError(t, err)
	assert.False(t, p.update.ClearScheduledPublishAt)
}
