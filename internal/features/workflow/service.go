package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	common_models "go-ojs/internal/common/models"
	"go-ojs/internal/features/activity"
	"go-ojs/internal/features/events"
	"go-ojs/internal/features/permission"
	"go-ojs/internal/features/submission"

	"go.uber.org/zap"
)

const manualUpdateMessage = "Submission workflow updated"

type WorkflowService interface {
	// Authorize runs the permission check; a denied grant comes back with ErrPermissionDenied.
	Authorize(ctx context.Context, auth common_models.AuthContext, submissionID string) (permission.Grant, error)
	// Apply validates req and commits the submission update and its activity entry together.
	Apply(ctx context.Context, grant permission.Grant, submissionID string, req TransitionRequest) (*Result, error)
	Transition(ctx context.Context, auth common_models.AuthContext, submissionID string, req TransitionRequest) (*Result, error)
	Catalog() []Decision
}

type WorkflowServiceImpl struct {
	Permissions permission.PermissionService
	Submissions submission.SubmissionRepository
	Events      events.Publisher
	Metrics     *Metrics
	Logger      *zap.Logger
	now         func() time.Time
}

func NewWorkflowService(
	permissions permission.PermissionService,
	submissions submission.SubmissionRepository,
	publisher events.Publisher,
	metrics *Metrics,
	logger *zap.Logger,
) WorkflowService {
	return &WorkflowServiceImpl{
		Permissions: permissions,
		Submissions: submissions,
		Events:      publisher,
		Metrics:     metrics,
		Logger:      logger,
		now:         time.Now,
	}
}

func (s *WorkflowServiceImpl) Catalog() []Decision {
	return Catalog()
}

func (s *WorkflowServiceImpl) Authorize(ctx context.Context, auth common_models.AuthContext, submissionID string) (permission.Grant, error) {
	grant := s.Permissions.CheckEditorial(ctx, auth, submissionID)
	if !grant.Allowed {
		s.Metrics.observe(unresolvedAction, outcomeDenied, 0)
		return grant, ErrPermissionDenied
	}
	return grant, nil
}

func (s *WorkflowServiceImpl) Transition(ctx context.Context, auth common_models.AuthContext, submissionID string, req TransitionRequest) (*Result, error) {
	grant, err := s.Authorize(ctx, auth, submissionID)
	if err != nil {
		return nil, err
	}
	return s.Apply(ctx, grant, submissionID, req)
}

func (s *WorkflowServiceImpl) Apply(ctx context.Context, grant permission.Grant, submissionID string, req TransitionRequest) (*Result, error) {
	start := s.now()
	label := metricAction(req)

	if !grant.Allowed {
		s.Metrics.observe(label, outcomeDenied, 0)
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(submissionID) == "" {
		s.Metrics.observe(label, outcomeRejected, 0)
		return nil, ErrMissingID
	}

	p, err := resolve(req)
	if err != nil {
		s.Metrics.observe(label, outcomeRejected, 0)
		return nil, err
	}

	entry := activity.Entry{
		ID:           activity.NewEntryID(),
		SubmissionID: submissionID,
		Message:      p.message,
		Category:     activity.CategoryWorkflow,
		ActorID:      grant.UserID,
		Metadata: activity.Metadata{
			Action:    p.actionName(),
			Stage:     stageValue(p.update.CurrentStage),
			Status:    statusValue(p.update.Status),
			ActorRole: grant.Role,
		},
		CreatedAt: start.UTC(),
	}

	if err := s.Submissions.ApplyTransition(ctx, submissionID, p.update, entry); err != nil {
		outcome := outcomeError
		if errors.Is(err, submission.ErrVersionConflict) {
			outcome = outcomeConflict
		}
		s.Metrics.observe(label, outcome, 0)
		return nil, fmt.Errorf("apply %s to submission %s: %w", entry.Metadata.Action, submissionID, err)
	}
	s.Metrics.observe(label, outcomeApplied, s.now().Sub(start))

	s.Logger.Info("workflow transition applied",
		zap.String("submission_id", submissionID),
		zap.String("action", entry.Metadata.Action),
		zap.String("stage", entry.Metadata.Stage),
		zap.String("status", entry.Metadata.Status),
		zap.String("actor_id", grant.UserID),
		zap.String("actor_role", grant.Role),
	)

	if s.Events != nil {
		ev := events.NewTransitionEvent(submissionID, entry.CreatedAt)
		ev.JournalID = grant.JournalID
		ev.Action = entry.Metadata.Action
		ev.Stage = entry.Metadata.Stage
		ev.Status = entry.Metadata.Status
		ev.ActorID = grant.UserID
		ev.ActorRole = grant.Role
		s.Events.Publish(ev)
	}

	return &Result{SubmissionID: submissionID, Update: p.update, Entry: entry}, nil
}

type plan struct {
	action  Action
	update  submission.Update
	message string
}

func (p plan) actionName() string {
	if p.action == "" {
		return activity.ManualAction
	}
	return string(p.action)
}

// resolve turns a request into an update without touching storage. Decision
// fields take precedence; explicit targetStage/status fill what the decision leaves unset.
func resolve(req TransitionRequest) (plan, error) {
	var p plan
	if req.IsEmpty() {
		return p, ErrInvalidRequest
	}

	if name := strings.TrimSpace(req.Action); name != "" {
		action, ok := ParseAction(name)
		if !ok {
			return p, fmt.Errorf("%w: %q", ErrInvalidAction, name)
		}
		d, _ := Lookup(action)
		p.action = action
		p.message = d.Message
		if d.NextStage != "" {
			stage := d.NextStage
			p.update.CurrentStage = &stage
		}
		if d.Status != "" {
			status := d.Status
			p.update.Status = &status
		}
	}

	if raw := strings.TrimSpace(req.TargetStage); raw != "" {
		stage := submission.Stage(raw)
		if !stage.Valid() {
			return p, fmt.Errorf("%w: %q", ErrInvalidStage, raw)
		}
		if p.update.CurrentStage == nil {
			p.update.CurrentStage = &stage
		}
	}

	if raw := strings.TrimSpace(req.Status); raw != "" {
		status := submission.Status(raw)
		if !status.Valid() {
			return p, fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
		}
		if p.update.Status == nil {
			p.update.Status = &status
		}
	}

	if raw := strings.TrimSpace(req.PublishAt); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil || p.update.Status == nil || *p.update.Status != submission.StatusScheduled {
			return p, ErrInvalidPublishAt
		}
		at = at.UTC()
		p.update.ScheduledPublishAt = &at
	}

	// A scheduled status without a fresh publishAt drops any stored date.
	if p.update.ScheduledPublishAt == nil && p.update.Status != nil && *p.update.Status == submission.StatusScheduled {
		p.update.ClearScheduledPublishAt = true
	}

	p.update.ExpectedVersion = req.ExpectedVersion

	if note := strings.TrimSpace(req.Note); note != "" {
		p.message = note
	} else if p.message == "" {
		p.message = manualUpdateMessage
	}

	return p, nil
}

// metricAction bounds label cardinality to the catalog.
func metricAction(req TransitionRequest) string {
	name := strings.TrimSpace(req.Action)
	if name == "" {
		return activity.ManualAction
	}
	if _, ok := ParseAction(name); !ok {
		return "unknown"
	}
	return name
}

func stageValue(s *submission.Stage) string {
	if s == nil {
		return ""
	}
	return string(*s)
}

func statusValue(s *submission.Status) string {
	if s == nil {
		return ""
	}
	return string(*s)
}
