package handler

import (
	"net/http"

	"medifind/internal/middleware"
	"medifind/internal/service"

	"github.com/labstack/echo/v4"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	ctx := c.Request().Context()

	notifications, err := h.notificationService.List(ctx, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	ctx := c.Request().Context()

	notificationID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid notification ID")
	}

	notification, err := h.notificationService.MarkRead(ctx, middleware.UserID(c), notificationID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, notification)
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.notificationService.MarkAllRead(ctx, middleware.UserID(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "All notifications marked as read",
	})
}
