package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"agrinet/internal/delivery/http/response"
	"agrinet/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type preferencesRequest struct {
	PushEnabled     bool     `json:"push_enabled"`
	SMSEnabled      bool     `json:"sms_enabled"`
	EmailEnabled    bool     `json:"email_enabled"`
	AlertThreshold  string   `json:"alert_threshold" validate:"required"`
	QuietHoursStart *int     `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd   *int     `json:"quiet_hours_end,omitempty"`
	FCMTokens       []string `json:"fcm_tokens,omitempty"`
}

// NotificationHandler holds dependencies for notification inbox handlers.
type NotificationHandler struct {
	notifications usecase.NotificationUsecase
	logger        *slog.Logger
}

// NewNotificationHandler is the constructor for NotificationHandler, injected by Fx.
func NewNotificationHandler(notifications usecase.NotificationUsecase, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		logger:        logger,
	}
}

// List retrieves a farmer's notifications, newest first. Supports
// ?unread_only=true and ?limit=N.
func (h *NotificationHandler) List(c echo.Context) error {
	unreadOnly := c.QueryParam("unread_only") == "true"
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid limit parameter")
		}
		limit = parsed
	}

	notifications, err := h.notifications.GetNotifications(c.Request().Context(), c.Param("id"), unreadOnly, limit)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, notifications, "")
}

// UnreadCount returns the farmer's unread notification count.
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	count, err := h.notifications.UnreadCount(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]int{"unread_count": count}, "")
}

// MarkRead flags one notification as read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	notificationID, err := uuid.Parse(c.Param("notificationID"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid notification ID")
	}

	changed, err := h.notifications.MarkAsRead(c.Request().Context(), c.Param("id"), notificationID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]bool{"changed": changed}, "Notification marked as read")
}

// MarkAllRead flags every unread notification as read.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	marked, err := h.notifications.MarkAllRead(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]int{"marked": marked}, "All notifications marked as read")
}

// GetPreferences retrieves the farmer's notification preferences.
func (h *NotificationHandler) GetPreferences(c echo.Context) error {
	preferences, err := h.notifications.GetPreferences(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, preferences, "")
}

// SetPreferences replaces the farmer's notification preferences.
func (h *NotificationHandler) SetPreferences(c echo.Context) error {
	var req preferencesRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid preferences input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	preferences, err := h.notifications.SetPreferences(c.Request().Context(), c.Param("id"), usecase.PreferencesInput{
		PushEnabled:     req.PushEnabled,
		SMSEnabled:      req.SMSEnabled,
		EmailEnabled:    req.EmailEnabled,
		AlertThreshold:  req.AlertThreshold,
		QuietHoursStart: req.QuietHoursStart,
		QuietHoursEnd:   req.QuietHoursEnd,
		FCMTokens:       req.FCMTokens,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, preferences, "Preferences updated")
}
