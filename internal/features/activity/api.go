package activity

import (
	"go-ojs/internal/common/api"
	"go-ojs/internal/config"
	"go-ojs/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ActivityApi struct {
	Controller *ActivityController
	Config     *config.Config
}

func NewActivityApi(controller *ActivityController, config *config.Config) api.Route {
	return &ActivityApi{
		Controller: controller,
		Config:     config,
	}
}

func (a *ActivityApi) Setup(app *fiber.App) {
	group := app.Group("/api/submissions/:submissionId/activity", middleware.AuthMiddleware(a.Config.SkipAuth))
	group.Get("/", a.Controller.ListActivity)
	group.Get("/export", a.Controller.ExportActivity)
}
