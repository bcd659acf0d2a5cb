package handlers

import (
	"cso-scholarhub/internal/core/services"
	"cso-scholarhub/internal/pkg/pagination"
	"cso-scholarhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles the notification inbox
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List lists the authenticated user's notifications
// @Summary List notifications
// @Description List notifications addressed to the authenticated user, newest first
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	email, ok := c.Locals("email").(string)
	if !ok || email == "" {
		return response.Unauthorized(c, "Authentication required")
	}

	params := pagination.GetParams(c)

	notifications, total, err := h.notificationService.ListByRecipient(c.Context(), email, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list notifications")
	}

	return response.Success(c, "Notifications retrieved", fiber.Map{
		"notifications": notifications,
		"pagination":    pagination.GetMeta(params, total),
	})
}
