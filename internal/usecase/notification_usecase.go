package usecase

import (
	"context"

	"agrinet/internal/domain/entity"

	"github.com/google/uuid"
)

// PreferencesInput carries a full replacement of a farmer's notification
// preferences.
type PreferencesInput struct {
	PushEnabled     bool     `json:"push_enabled"`
	SMSEnabled      bool     `json:"sms_enabled"`
	EmailEnabled    bool     `json:"email_enabled"`
	AlertThreshold  string   `json:"alert_threshold"` // LOW, MEDIUM or HIGH.
	QuietHoursStart *int     `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd   *int     `json:"quiet_hours_end,omitempty"`
	FCMTokens       []string `json:"fcm_tokens,omitempty"`
}

// NotificationUsecase defines the notification gate and inbox use cases.
type NotificationUsecase interface {
	// ShouldNotify decides whether an alert of the given risk level reaches
	// the farmer, applying the push toggle, quiet hours (HIGH bypasses)
	// and the risk threshold. Farmers without a preference record get the
	// defaults.
	ShouldNotify(ctx context.Context, farmerID string, risk entity.RiskLevel) (bool, error)

	// AddNotification enqueues a notification at the head of the farmer's
	// list, evicting the oldest past the cap.
	AddNotification(ctx context.Context, farmerID, notificationType, title, message string, payload map[string]string, priority int) (*entity.Notification, error)

	// GetNotifications retrieves a farmer's notifications, newest first.
	GetNotifications(ctx context.Context, farmerID string, unreadOnly bool, limit int) ([]*entity.Notification, error)

	// MarkAsRead flags one notification as read. Idempotent.
	MarkAsRead(ctx context.Context, farmerID string, notificationID uuid.UUID) (bool, error)

	// MarkAllRead flags every unread notification as read and returns the
	// number flipped.
	MarkAllRead(ctx context.Context, farmerID string) (int, error)

	// MarkDelivered flags notifications as delivered after a successful push.
	MarkDelivered(ctx context.Context, farmerID string, notificationIDs []uuid.UUID) error

	// UnreadCount returns the farmer's unread notification count.
	UnreadCount(ctx context.Context, farmerID string) (int, error)

	// GetPreferences retrieves the farmer's preferences, falling back to the
	// defaults when none are stored.
	GetPreferences(ctx context.Context, farmerID string) (*entity.NotificationPreference, error)

	// SetPreferences validates and replaces the farmer's preferences.
	SetPreferences(ctx context.Context, farmerID string, input PreferencesInput) (*entity.NotificationPreference, error)
}
