package workflow

import (
	"errors"
	"strings"

	"go-ojs/internal/features/submission"
	"go-ojs/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type WorkflowController struct {
	Service WorkflowService
	Logger  *zap.Logger
}

func NewWorkflowController(service WorkflowService, logger *zap.Logger) *WorkflowController {
	return &WorkflowController{Service: service, Logger: logger}
}

// Transition godoc
// @Summary Apply a workflow transition
// @Description Applies an editorial decision or an explicit stage/status change and records it in the activity log
// @Tags workflow
// @Accept json
// @Produce json
// @Param submissionId path string true "Submission ID"
// @Param request body TransitionRequest true "Transition"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/submissions/{submissionId}/workflow [post]
func (c *WorkflowController) Transition(ctx *fiber.Ctx) error {
	id := strings.TrimSpace(ctx.Params("submissionId"))
	if id == "" {
		return fail(ctx, fiber.StatusBadRequest, "Missing submission id")
	}

	grant, err := c.Service.Authorize(ctx.UserContext(), middleware.AuthContext(ctx), id)
	if err != nil {
		return fail(ctx, fiber.StatusForbidden, "Permission denied")
	}

	var req TransitionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fail(ctx, fiber.StatusBadRequest, "Invalid request body")
		}
	}

	if _, err := c.Service.Apply(ctx.UserContext(), grant, id, req); err != nil {
		status, message := statusFor(err)
		if status == fiber.StatusInternalServerError {
			c.Logger.Error("workflow transition failed", zap.String("submission_id", id), zap.Error(err))
		}
		return fail(ctx, status, message)
	}

	return ctx.JSON(fiber.Map{"ok": true})
}

// ListActions godoc
// @Summary List workflow actions
// @Description Named editorial decisions and the stage/status each one sets
// @Tags workflow
// @Produce json
// @Success 200 {array} Decision
// @Router /api/workflow/actions [get]
func (c *WorkflowController) ListActions(ctx *fiber.Ctx) error {
	return ctx.JSON(c.Service.Catalog())
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return fiber.StatusForbidden, "Permission denied"
	case errors.Is(err, ErrInvalidAction):
		return fiber.StatusBadRequest, "Invalid action"
	case IsInputError(err):
		return fiber.StatusBadRequest, capitalize(errorRoot(err))
	case errors.Is(err, submission.ErrVersionConflict):
		return fiber.StatusConflict, "Submission was modified by another request"
	default:
		return fiber.StatusInternalServerError, "Failed to update submission workflow"
	}
}

// errorRoot strips the quoted detail added by resolve.
func errorRoot(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i > 0 {
		return msg[:i]
	}
	return msg
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func fail(ctx *fiber.Ctx, status int, message string) error {
	return ctx.Status(status).JSON(fiber.Map{"ok": false, "message": message})
}
