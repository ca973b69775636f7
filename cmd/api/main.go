package main

import (
	"context"
	"errors"
	"fmt"
	common_api "go-ojs/internal/common/api"
	"go-ojs/internal/config"
	"go-ojs/internal/database"
	"go-ojs/internal/features/activity"
	"go-ojs/internal/features/events"
	"go-ojs/internal/features/permission"
	"go-ojs/internal/features/role"
	"go-ojs/internal/features/submission"
	"go-ojs/internal/features/system"
	"go-ojs/internal/features/workflow"
	"go-ojs/internal/logger"
	"go-ojs/internal/middleware"
	"go-ojs/pkg/utils"
	"log"
	"time"

	_ "go-ojs/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"ok":      false,
				"message": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	for _, h := range middleware.RequestIDMiddleware() {
		app.Use(h)
	}

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, logger *zap.Logger) {
	logger.Debug("registering routes", zap.Int("count", len(routes)))
	for _, route := range routes {
		logger.Debug("setting up route", zap.String("route", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				logger.Info("server listening", zap.String("addr", port), zap.String("store", cfg.StoreDriver))
				if err := app.Listen(port); err != nil {
					logger.Fatal("server failed to start", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, submissions submission.SubmissionRepository, activities activity.ActivityRepository, roles role.RoleRepository, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := submissions.EnsureIndexes(ctx); err != nil {
					logger.Error("failed to ensure submission indexes", zap.Error(err))
				}
				if err := activities.EnsureIndexes(ctx); err != nil {
					logger.Error("failed to ensure activity indexes", zap.Error(err))
				}
				if err := roles.EnsureIndexes(ctx); err != nil {
					logger.Error("failed to ensure role indexes", zap.Error(err))
				}
			}()
			return nil
		},
	})
}

// StartPublicationSweep runs the scheduled publication job for the app's lifetime.
func StartPublicationSweep(lc fx.Lifecycle, sweep *workflow.PublicationSweep, hub *events.Hub) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return sweep.Start()
		},
		OnStop: func(ctx context.Context) error {
			sweep.Stop()
			hub.Close()
			return nil
		},
	})
}

// storeModule selects the repositories and log sink for the configured driver.
func storeModule(cfg *config.Config) fx.Option {
	if cfg.StoreDriver == config.StorePostgres {
		return fx.Provide(
			database.NewPostgres,
			logger.NewPostgresSink,
			submission.NewPostgresSubmissionRepository,
			activity.NewPostgresActivityRepository,
			role.NewPostgresRoleRepository,
		)
	}
	return fx.Provide(
		database.NewDatabase,
		logger.NewMongoSink,
		submission.NewSubmissionRepository,
		activity.NewActivityRepository,
		role.NewRoleRepository,
	)
}

// @title           OJS Workflow API
// @version         1.0
// @description     Editorial workflow transitions for journal submissions.

// @host            localhost:8000
// @BasePath        /
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	utils.SetSecret(cfg.JWTSecret)

	app := fx.New(
		fx.Supply(cfg),
		storeModule(cfg),
		fx.Provide(
			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Metrics
			system.NewMetricsRegistry,
			func(r *prometheus.Registry) prometheus.Registerer { return r },
			workflow.NewMetrics,

			// Events
			events.NewWebhookNotifier,
			events.NewHub,
			func(h *events.Hub) events.Publisher { return h },

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(r submission.SubmissionRepository) permission.SubmissionLookup { return r },
			func(r role.RoleRepository) permission.RoleLookup { return r },

			// Initialize Service
			permission.NewPermissionService,
			submission.NewSubmissionService,
			activity.NewActivityService,
			workflow.NewWorkflowService,
			workflow.NewPublicationSweep,

			// Initialize Controller
			submission.NewSubmissionController,
			activity.NewActivityController,
			workflow.NewWorkflowController,
			system.NewWebSocketController,

			// Initialize API Routes
			AsRoute(submission.NewSubmissionApi),
			AsRoute(activity.NewActivityApi),
			AsRoute(workflow.NewWorkflowApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewMetricsApi),
			AsRoute(system.NewSwaggerApi),
			AsRoute(system.NewWebSocketApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartPublicationSweep,
			InitializeIndexes,
		),
	)

	app.Run()
}
