package submission

import (
	"go-ojs/internal/common/api"
	"go-ojs/internal/config"
	"go-ojs/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SubmissionApi struct {
	Controller *SubmissionController
	Config     *config.Config
}

func NewSubmissionApi(controller *SubmissionController, config *config.Config) api.Route {
	return &SubmissionApi{Controller: controller, Config: config}
}

func (a *SubmissionApi) Setup(app *fiber.App) {
	app.Get("/api/submissions/:submissionId", middleware.AuthMiddleware(a.Config.SkipAuth), a.Controller.GetSubmission)
}
