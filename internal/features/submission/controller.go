package submission

import (
	"errors"

	"go-ojs/internal/features/permission"
	"go-ojs/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SubmissionController struct {
	Service     SubmissionService
	Permissions permission.PermissionService
	Logger      *zap.Logger
}

func NewSubmissionController(service SubmissionService, permissions permission.PermissionService, logger *zap.Logger) *SubmissionController {
	return &SubmissionController{Service: service, Permissions: permissions, Logger: logger}
}

// GetSubmission godoc
// @Summary Get a submission
// @Description Current stage, status and version of a submission
// @Tags submissions
// @Produce json
// @Param submissionId path string true "Submission ID"
// @Success 200 {object} Submission
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/submissions/{submissionId} [get]
func (c *SubmissionController) GetSubmission(ctx *fiber.Ctx) error {
	id := ctx.Params("submissionId")

	grant := c.Permissions.CheckEditorial(ctx.UserContext(), middleware.AuthContext(ctx), id)
	if !grant.Allowed {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"ok": false, "message": "Permission denied"})
	}

	sub, err := c.Service.GetSubmission(ctx.UserContext(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"ok": false, "message": "Submission not found"})
		}
		c.Logger.Error("failed to load submission", zap.String("submission_id", id), zap.Error(err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"ok": false, "message": "Failed to load submission"})
	}

	return ctx.JSON(sub)
}
