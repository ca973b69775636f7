package system

import (
	"go-ojs/internal/common/api"
	"go-ojs/internal/config"
	"go-ojs/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type WebSocketApi struct {
	Controller *WebSocketController
	Config     *config.Config
}

func NewWebSocketApi(controller *WebSocketController, config *config.Config) api.Route {
	return &WebSocketApi{
		Controller: controller,
		Config:     config,
	}
}

func (h *WebSocketApi) Setup(app *fiber.App) {
	app.Get("/api/ws/workflow",
		middleware.AuthMiddleware(h.Config.SkipAuth),
		h.Controller.Upgrade,
		websocket.New(h.Controller.HandleWebSocket),
	)
}
