package workflow

import (
	"go-ojs/internal/common/api"
	"go-ojs/internal/config"
	"go-ojs/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type WorkflowApi struct {
	Controller *WorkflowController
	Config     *config.Config
}

func NewWorkflowApi(controller *WorkflowController, config *config.Config) api.Route {
	return &WorkflowApi{Controller: controller, Config: config}
}

func (a *WorkflowApi) Setup(app *fiber.App) {
	app.Post("/api/submissions/:submissionId/workflow", middleware.AuthMiddleware(a.Config.SkipAuth), a.Controller.Transition)
	app.Get("/api/workflow/actions", a.Controller.ListActions)
}
