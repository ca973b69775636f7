package permission

import (
	"context"

	common_models "go-ojs/internal/common/models"
	"go-ojs/internal/features/role"

	"go.uber.org/zap"
)

// SystemRole is reported for transitions applied by background jobs.
const SystemRole = "system"

// editorialRoles may issue editorial decisions, highest precedence first.
var editorialRoles = []string{role.RoleManager, role.RoleEditor, role.RoleSectionEditor}

type SubmissionLookup interface {
	FindJournalID(ctx context.Context, submissionID string) (string, error)
}

type RoleLookup interface {
	FindRoles(ctx context.Context, userID, journalID string) ([]string, error)
	FindJournals(ctx context.Context, userID string, roles []string) ([]string, error)
}

// Grant is the outcome of a permission check. Role and UserID are set only when Allowed.
type Grant struct {
	Allowed   bool
	UserID    string
	JournalID string
	Role      string
}

// SystemGrant authorizes scheduled jobs acting without a user session.
func SystemGrant() Grant {
	return Grant{Allowed: true, UserID: common_models.SystemActorID, Role: SystemRole}
}

type PermissionService interface {
	// CheckEditorial fails closed: lookup errors are reported as not allowed.
	CheckEditorial(ctx context.Context, auth common_models.AuthContext, submissionID string) Grant
	// EditorialJournals returns the journals auth may follow editorially. Empty on any failure.
	EditorialJournals(ctx context.Context, auth common_models.AuthContext) map[string]bool
}

type PermissionServiceImpl struct {
	Submissions SubmissionLookup
	Roles       RoleLookup
	Logger      *zap.Logger
}

func NewPermissionService(submissions SubmissionLookup, roles RoleLookup, logger *zap.Logger) PermissionService {
	return &PermissionServiceImpl{
		Submissions: submissions,
		Roles:       roles,
		Logger:      logger,
	}
}

func (s *PermissionServiceImpl) CheckEditorial(ctx context.Context, auth common_models.AuthContext, submissionID string) Grant {
	if !auth.Authenticated() || submissionID == "" {
		return Grant{}
	}

	journalID, err := s.Submissions.FindJournalID(ctx, submissionID)
	if err != nil {
		s.Logger.Debug("permission lookup failed", zap.String("submission_id", submissionID), zap.Error(err))
		return Grant{}
	}

	roles, err := s.Roles.FindRoles(ctx, auth.UserID, journalID)
	if err != nil {
		s.Logger.Debug("role lookup failed", zap.String("journal_id", journalID), zap.Error(err))
		return Grant{}
	}

	for _, candidate := range editorialRoles {
		for _, held := range roles {
			if held == candidate {
				return Grant{Allowed: true, UserID: auth.UserID, JournalID: journalID, Role: candidate}
			}
		}
	}
	return Grant{}
}

func (s *PermissionServiceImpl) EditorialJournals(ctx context.Context, auth common_models.AuthContext) map[string]bool {
	journals := map[string]bool{}
	if !auth.Authenticated() {
		return journals
	}

	ids, err := s.Roles.FindJournals(ctx, auth.UserID, editorialRoles)
	if err != nil {
		s.Logger.Debug("journal lookup failed", zap.String("user_id", auth.UserID), zap.Error(err))
		return journals
	}
	for _, id := range ids {
		journals[id] = true
	}
	return journals
}
