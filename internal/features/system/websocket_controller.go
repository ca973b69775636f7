package system

import (
	"go-ojs/internal/features/events"
	"go-ojs/internal/features/permission"
	"go-ojs/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	subscriberBuffer = 64
	userIDLocal      = "ws_user_id"
	journalsLocal    = "ws_journals"
)

type WebSocketController struct {
	Hub         *events.Hub
	Permissions permission.PermissionService
	Logger      *zap.Logger
}

func NewWebSocketController(hub *events.Hub, permissions permission.PermissionService, logger *zap.Logger) *WebSocketController {
	return &WebSocketController{Hub: hub, Permissions: permissions, Logger: logger}
}

// Upgrade lets a handshake through only for users holding an editorial role on some journal.
func (h *WebSocketController) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	auth := middleware.AuthContext(c)
	journals := h.Permissions.EditorialJournals(c.UserContext(), auth)
	if len(journals) == 0 {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"ok": false, "message": "Permission denied"})
	}

	c.Locals(userIDLocal, auth.UserID)
	c.Locals(journalsLocal, journals)
	return c.Next()
}

// HandleWebSocket streams committed workflow events for the caller's journals until the client goes away.
func (h *WebSocketController) HandleWebSocket(c *websocket.Conn) {
	userID, _ := c.Locals(userIDLocal).(string)
	journals, _ := c.Locals(journalsLocal).(map[string]bool)

	stream, unsubscribe := h.Hub.Subscribe(subscriberBuffer)
	defer unsubscribe()

	h.Logger.Debug("workflow stream opened", zap.String("user_id", userID), zap.Int("journals", len(journals)))

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := forwardEvents(stream, gone, journals, func(ev events.WorkflowEvent) error { return c.WriteJSON(ev) }); err != nil {
		h.Logger.Debug("workflow stream write failed", zap.String("user_id", userID), zap.Error(err))
		return
	}
	h.Logger.Debug("workflow stream closed", zap.String("user_id", userID))
}

// forwardEvents sends events from journals the caller may see until gone closes,
// the stream ends, or send fails.
func forwardEvents(stream <-chan events.WorkflowEvent, gone <-chan struct{}, journals map[string]bool, send func(events.WorkflowEvent) error) error {
	for {
		select {
		case <-gone:
			return nil
		case ev, ok := <-stream:
			if !ok {
				return nil
			}
			if !journals[ev.JournalID] {
				continue
			}
			if err := send(ev); err != nil {
				return err
			}
		}
	}
}
