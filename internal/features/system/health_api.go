package system

import (
	"go-ojs/internal/common/api"
	"go-ojs/internal/config"

	"github.com/gofiber/fiber/v2"
)

type HealthApi struct {
	Config *config.Config
}

func NewHealthApi(config *config.Config) api.Route {
	return &HealthApi{Config: config}
}

func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true, "store": h.Config.StoreDriver})
	})
}
