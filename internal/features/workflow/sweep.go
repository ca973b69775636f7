package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-ojs/internal/config"
	"go-ojs/internal/features/permission"
	"go-ojs/internal/features/submission"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	sweepBatchSize = 100
	sweepTimeout   = 2 * time.Minute
	publishNote    = "Published on schedule"
)

// PublicationSweep publishes scheduled submissions whose publish time has passed.
type PublicationSweep struct {
	Service     WorkflowService
	Submissions submission.SubmissionRepository
	Logger      *zap.Logger

	schedule  string
	scheduler *cron.Cron
	running   sync.Mutex
	now       func() time.Time
}

func NewPublicationSweep(service WorkflowService, submissions submission.SubmissionRepository, cfg *config.Config, logger *zap.Logger) *PublicationSweep {
	return &PublicationSweep{
		Service:     service,
		Submissions: submissions,
		Logger:      logger,
		schedule:    cfg.PublishSweepSchedule,
		now:         time.Now,
	}
}

// Start registers the sweep with the scheduler. An empty schedule disables it.
func (s *PublicationSweep) Start() error {
	if s.schedule == "" {
		s.Logger.Info("publication sweep disabled")
		return nil
	}
	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid publication sweep schedule %q: %w", s.schedule, err)
	}

	s.scheduler = cron.New()
	if _, err := s.scheduler.AddFunc(s.schedule, s.tick); err != nil {
		return err
	}
	s.scheduler.Start()
	s.Logger.Info("publication sweep started", zap.String("schedule", s.schedule))
	return nil
}

func (s *PublicationSweep) Stop() {
	if s.scheduler != nil {
		ctx := s.scheduler.Stop()
		<-ctx.Done()
	}
}

func (s *PublicationSweep) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	published, err := s.RunOnce(ctx)
	if err != nil {
		s.Logger.Error("publication sweep failed", zap.Int("published", published), zap.Error(err))
		return
	}
	if published > 0 {
		s.Logger.Info("publication sweep completed", zap.Int("published", published))
	}
}

// RunOnce publishes every due submission and returns how many were published.
// Overlapping runs are skipped. A submission changed concurrently is left for the next run.
func (s *PublicationSweep) RunOnce(ctx context.Context) (int, error) {
	if !s.running.TryLock() {
		s.Logger.Debug("publication sweep already running")
		return 0, nil
	}
	defer s.running.Unlock()

	due, err := s.Submissions.ListDueForPublication(ctx, s.now().UTC(), sweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("list due submissions: %w", err)
	}

	published := 0
	var errs []error
	for _, sub := range due {
		grant := permission.SystemGrant()
		grant.JournalID = sub.JournalID

		version := sub.Version
		req := TransitionRequest{
			Action:          string(ActionPublish),
			Note:            publishNote,
			ExpectedVersion: &version,
		}

		if _, err := s.Service.Apply(ctx, grant, sub.ID, req); err != nil {
			if errors.Is(err, submission.ErrVersionConflict) {
				s.Logger.Debug("submission changed before publication", zap.String("submission_id", sub.ID))
				continue
			}
			errs = append(errs, err)
			continue
		}
		published++
	}

	return published, errors.Join(errs...)
}
