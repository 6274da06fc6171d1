package controller

import (
	"github.com/gofiber/fiber/v2"

	"edudbt_backend/internals/features/users/notifications/dto"
	"edudbt_backend/internals/features/users/notifications/service"
	helper "edudbt_backend/internals/helpers"
)

type NotificationController struct {
	svc *service.NotificationService
}

func NewNotificationController(svc *service.NotificationService) *NotificationController {
	return &NotificationController{svc: svc}
}

// GET /api/user/notifications?unread=true
func (nc *NotificationController) List(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	p := helper.ResolvePaging(c, 20, 100)
	res, err := nc.svc.List(c.UserContext(), userID, c.QueryBool("unread", false), p)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	pg := helper.BuildPagination(res.Total, p)
	pg.Count = len(res.Rows)
	return c.JSON(fiber.Map{
		"success":      true,
		"message":      "Notifications fetched",
		"data":         dto.FromModels(res.Rows),
		"unread_count": res.Unread,
		"pagination":   pg,
	})
}

// PUT /api/user/notifications/:id/read
func (nc *NotificationController) MarkRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := nc.svc.MarkRead(c.UserContext(), userID, id); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Notification marked as read", nil)
}

// PUT /api/user/notifications/read-all
func (nc *NotificationController) MarkAllRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	n, err := nc.svc.MarkAllRead(c.UserContext(), userID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "All notifications marked as read", fiber.Map{"updated": n})
}
