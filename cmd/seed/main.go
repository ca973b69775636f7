package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"time"

	common_models "go-ojs/internal/common/models"
	"go-ojs/internal/config"
	"go-ojs/internal/database"
	"go-ojs/internal/features/activity"
	"go-ojs/internal/features/permission"
	"go-ojs/internal/features/role"
	"go-ojs/internal/features/submission"
	"go-ojs/internal/logger"
	"go-ojs/pkg/utils"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Paths are relative to the repository root.
var (
	rolesPath       = "cmd/seed/data/roles.json"
	submissionsPath = "cmd/seed/data/submissions.json"
)

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// Seed loads demo journal roles and submissions, then shuts the app down.
func Seed(
	lc fx.Lifecycle,
	roleRepo role.RoleRepository,
	submissionRepo submission.SubmissionRepository,
	activityRepo activity.ActivityRepository,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				defer cancel()

				if err := seed(ctx, roleRepo, submissionRepo, activityRepo, logger); err != nil {
					logger.Error("Seeding failed", zap.Error(err))
					return
				}
				logger.Info("Seeding complete")
			}()
			return nil
		},
	})
}

func seed(ctx context.Context, roleRepo role.RoleRepository, submissionRepo submission.SubmissionRepository, activityRepo activity.ActivityRepository, logger *zap.Logger) error {
	if err := roleRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := submissionRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := activityRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	var roles []role.JournalRole
	if err := readJSON(rolesPath, &roles); err != nil {
		return err
	}
	for _, r := range roles {
		if err := roleRepo.Assign(ctx, r); err != nil {
			return err
		}
		logger.Info("Assigned role", zap.String("user_id", r.UserID), zap.String("journal_id", r.JournalID), zap.String("role", r.Role))
	}

	var submissions []submission.Submission
	if err := readJSON(submissionsPath, &submissions); err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, s := range submissions {
		if _, err := submissionRepo.GetByID(ctx, s.ID); err == nil {
			logger.Info("Submission exists, skipping", zap.String("submission_id", s.ID))
			continue
		} else if !errors.Is(err, submission.ErrNotFound) {
			return err
		}

		s.SubmittedAt = now
		s.UpdatedAt = now
		if s.Status == submission.StatusScheduled && s.ScheduledPublishAt == nil {
			at := now.Add(10 * time.Minute)
			s.ScheduledPublishAt = &at
		}
		if err := submissionRepo.Create(ctx, s); err != nil {
			return err
		}
		if err := activityRepo.Append(ctx, receivedEntry(s)); err != nil {
			return err
		}
		logger.Info("Created submission", zap.String("submission_id", s.ID), zap.String("stage", string(s.CurrentStage)))
	}

	for _, r := range roles {
		token, err := utils.GenerateToken(r.UserID, 24*time.Hour)
		if err != nil {
			return err
		}
		logger.Info("Demo token", zap.String("user_id", r.UserID), zap.String("role", r.Role), zap.String("token", token))
	}
	return nil
}

// receivedEntry opens the activity history of a seeded submission.
func receivedEntry(s submission.Submission) activity.Entry {
	return activity.Entry{
		ID:           activity.NewEntryID(),
		SubmissionID: s.ID,
		Message:      "Submission received",
		Category:     activity.CategoryWorkflow,
		ActorID:      common_models.SystemActorID,
		Metadata: activity.Metadata{
			Action:    "seed",
			Stage:     string(s.CurrentStage),
			Status:    string(s.Status),
			ActorRole: permission.SystemRole,
		},
		CreatedAt: s.SubmittedAt,
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	utils.SetSecret(cfg.JWTSecret)

	store := fx.Provide(
		database.NewDatabase,
		logger.NewMongoSink,
		submission.NewSubmissionRepository,
		activity.NewActivityRepository,
		role.NewRoleRepository,
	)
	if cfg.StoreDriver == config.StorePostgres {
		store = fx.Provide(
			database.NewPostgres,
			logger.NewPostgresSink,
			submission.NewPostgresSubmissionRepository,
			activity.NewPostgresActivityRepository,
			role.NewPostgresRoleRepository,
		)
	}

	app := fx.New(
		fx.Supply(cfg),
		store,
		fx.Provide(logger.NewLogger),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
