package activity

import (
	"strconv"

	"go-ojs/internal/features/permission"
	"go-ojs/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ActivityController struct {
	Service     ActivityService
	Permissions permission.PermissionService
	Logger      *zap.Logger
}

func NewActivityController(service ActivityService, permissions permission.PermissionService, logger *zap.Logger) *ActivityController {
	return &ActivityController{Service: service, Permissions: permissions, Logger: logger}
}

func (c *ActivityController) authorize(ctx *fiber.Ctx) (string, bool) {
	submissionID := ctx.Params("submissionId")
	grant := c.Permissions.CheckEditorial(ctx.UserContext(), middleware.AuthContext(ctx), submissionID)
	return submissionID, grant.Allowed
}

// ListActivity godoc
// @Summary List submission activity
// @Description Paginated activity log of a submission, newest first
// @Tags activity
// @Produce json
// @Param submissionId path string true "Submission ID"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {array} Entry
// @Failure 403 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/submissions/{submissionId}/activity [get]
func (c *ActivityController) ListActivity(ctx *fiber.Ctx) error {
	submissionID, ok := c.authorize(ctx)
	if !ok {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"ok": false, "message": "Permission denied"})
	}

	page, _ := strconv.ParseInt(ctx.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(ctx.Query("limit", "20"), 10, 64)

	entries, err := c.Service.ListForSubmission(ctx.UserContext(), submissionID, page, limit)
	if err != nil {
		c.Logger.Error("failed to list activity", zap.String("submission_id", submissionID), zap.Error(err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"ok": false, "message": "Failed to load activity"})
	}

	return ctx.JSON(entries)
}

// ExportActivity godoc
// @Summary Export submission activity
// @Description Download the activity log of a submission as an XLSX workbook
// @Tags activity
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param submissionId path string true "Submission ID"
// @Success 200 {file} file
// @Failure 403 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/submissions/{submissionId}/activity/export [get]
func (c *ActivityController) ExportActivity(ctx *fiber.Ctx) error {
	submissionID, ok := c.authorize(ctx)
	if !ok {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"ok": false, "message": "Permission denied"})
	}

	data, filename, err := c.Service.ExportForSubmission(ctx.UserContext(), submissionID)
	if err != nil {
		c.Logger.Error("failed to export activity", zap.String("submission_id", submissionID), zap.Error(err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"ok": false, "message": "Failed to export activity"})
	}

	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Attachment(filename)
	return ctx.Send(data)
}
