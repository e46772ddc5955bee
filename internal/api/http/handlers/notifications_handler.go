package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shipment-service/internal/api/dto"
	"github.com/spec-kit/shipment-service/internal/auth"
)

// NotificationsHandler serves the caller's inbox.
type NotificationsHandler struct {
	service NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService}
}

// List GET /notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	actor, err := auth.MustActor(c)
	if err != nil {
		return err
	}
	items, err := h.service.List(c.UserContext(), actor, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	out := make([]dto.NotificationResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.NewNotificationResponse(&items[i]))
	}
	return success(c, fiber.StatusOK, "", fiber.Map{"data": out})
}

// UnreadCount GET /notifications/unread-count.
func (h *NotificationsHandler) UnreadCount(c *fiber.Ctx) error {
	actor, err := auth.MustActor(c)
	if err != nil {
		return err
	}
	count, err := h.service.UnreadCount(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", fiber.Map{"data": fiber.Map{"unread": count}})
}

// MarkRead PATCH /notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	actor, err := auth.MustActor(c)
	if err != nil {
		return err
	}
	notification, err := h.service.MarkRead(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", fiber.Map{"data": dto.NewNotificationResponse(notification)})
}
