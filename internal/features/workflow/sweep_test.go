package workflow

import (
	"context"
	"testing"
	"time"

	"go-ojs/internal/config"
	"go-ojs/internal/features/permission"
	"go-ojs/internal/features/submission"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func scheduledSubmission(id string, at time.Time) submission.Submission {
	s := reviewSubmission(id)
	s.CurrentStage = submission.StageProduction
	s.Status = submission.StatusScheduled
	s.ScheduledPublishAt = &at
	return s
}

func newSweepFixture(schedule string, subs ...submission.Submission) (*PublicationSweep, *serviceFixture) {
	f := newServiceFixture(subs...)
	sweep := NewPublicationSweep(f.service, f.repo, &config.Config{PublishSweepSchedule: schedule}, zap.NewNop())
	sweep.now = func() time.Time { return fixedNow }
	return sweep, f
}

func TestRunOncePublishesDueSubmissions(t *testing.T) {
	sweep, f := newSweepFixture("",
		scheduledSubmission("due", fixedNow.Add(-time.Minute)),
		scheduledSubmission("later", fixedNow.Add(time.Hour)),
		reviewSubmission("in-review"),
	)

	published, err := sweep.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, published)

	due, _ := f.repo.GetByID(context.Background(), "due")
	assert.Equal(t, submission.StatusPublished, due.Status)

	later, _ := f.repo.GetByID(context.Background(), "later")
	assert.Equal(t, submission.StatusScheduled, later.Status)

	require.Len(t, f.repo.Entries, 1)
	entry := f.repo.Entries[0]
	assert.Equal(t, "publish", entry.Metadata.Action)
	assert.Equal(t, permission.SystemRole, entry.Metadata.ActorRole)
	assert.Equal(t, publishNote, entry.Message)

	evs := f.events.all()
	require.Len(t, evs, 1)
	assert.Equal(t, "J1", evs[0].JournalID)
}

func TestRunOnceIsIdempotent(t *testing.T) {
	sweep, f := newSweepFixture("", scheduledSubmission("due", fixedNow.Add(-time.Minute)))

	_, err := sweep.RunOnce(context.Background())
	require.NoError(t, err)
	published, err := sweep.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Zero(t, published)
	assert.Equal(t, 1, f.repo.entryCount())
}

func TestRunOnceSkipsWhileRunning(t *testing.T) {
	sweep, f := newSweepFixture("", scheduledSubmission("due", fixedNow.Add(-time.Minute)))

	sweep.running.Lock()
	published, err := sweep.RunOnce(context.Background())
	sweep.running.Unlock()

	require.NoError(t, err)
	assert.Zero(t, published)
	assert.Zero(t, f.repo.entryCount())
}

func TestRunOnceReportsStoreErrors(t *testing.T) {
	sweep, f := newSweepFixture("", scheduledSubmission("due", fixedNow.Add(-time.Minute)))
	f.repo.FailWith = errStoreDown

	published, err := sweep.RunOnce(context.Background())
	assert.ErrorIs(t, err, errStoreDown)
	assert.Zero(t, published)
}

func TestStartValidatesSchedule(t *testing.T) {
	sweep, _ := newSweepFixture("every now and then")
	assert.Error(t, sweep.Start())

	disabled, _ := newSweepFixture("")
	require.NoError(t, disabled.Start())
	disabled.Stop()

	enabled, _ := newSweepFixture("@every 1h")
	require.NoError(t, enabled.Start())
	enabled.Stop()
}

func TestUnpublishedSubmissionIsNotRepublished(t *testing.T) {
	published := scheduledSubmission("S1", fixedNow.Add(-24*time.Hour))
	published.Status = submission.StatusPublished
	sweep, f := newSweepFixture("", published)

	_, err := f.service.Transition(context.Background(), editor(), "S1", TransitionRequest{Action: "unpublish"})
	require.NoError(t, err)

	count, err := sweep.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	s, _ := f.repo.GetByID(context.Background(), "S1")
	assert.Equal(t, submission.StatusScheduled, s.Status)
	assert.Nil(t, s.ScheduledPublishAt)
	assert.Equal(t, 1, f.repo.entryCount())
}

func TestSendToProductionDropsStalePublishDate(t *testing.T) {
	stale := scheduledSubmission("S1", fixedNow.Add(-time.Hour))
	stale.CurrentStage = submission.StageCopyediting
	stale.Status = submission.StatusAccepted
	sweep, f := newSweepFixture("", stale)

	_, err := f.service.Transition(context.Background(), editor(), "S1", TransitionRequest{Action: "send_to_production"})
	require.NoError(t, err)

	count, err := sweep.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
