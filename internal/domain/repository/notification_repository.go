package repository

import (
	"context"
	"errors"
	"time"

	"agrinet/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for notification persistence.
var (
	// ErrNotificationNotFound is returned when a notification is not found.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrPreferenceNotFound is returned when no preference record exists for a farmer.
	ErrPreferenceNotFound = errors.New("notification preference not found")
)

// NotificationRepository defines the interface for per-farmer notification
// lists and preference records. Implementations enforce the FIFO cap of
// entity.MaxNotificationsPerFarmer on insert.
type NotificationRepository interface {
	// AddNotification inserts a notification at the head of the farmer's
	// list, evicting the oldest entry past the cap.
	AddNotification(ctx context.Context, notification *entity.Notification) error

	// FindNotifications retrieves a farmer's notifications, newest first.
	// limit <= 0 means no limit.
	FindNotifications(ctx context.Context, farmerID string, unreadOnly bool, limit int) ([]*entity.Notification, error)

	// MarkNotificationRead flags one notification as read and reports
	// whether the state changed. Re-marking a read notification is a no-op.
	// Returns ErrNotificationNotFound when the notification does not exist
	// for this farmer.
	MarkNotificationRead(ctx context.Context, farmerID string, notificationID uuid.UUID, readAt time.Time) (bool, error)

	// MarkAllNotificationsRead flags every unread notification as read and
	// returns how many were flipped.
	MarkAllNotificationsRead(ctx context.Context, farmerID string, readAt time.Time) (int, error)

	// MarkNotificationsDelivered flags the given notifications as delivered.
	MarkNotificationsDelivered(ctx context.Context, farmerID string, notificationIDs []uuid.UUID) error

	// CountUnreadNotifications returns the farmer's unread count.
	CountUnreadNotifications(ctx context.Context, farmerID string) (int, error)

	// SavePreferences creates or replaces the farmer's preference record.
	SavePreferences(ctx context.Context, prefs *entity.NotificationPreference) error

	// FindPreferences retrieves the farmer's preference record, returning
	// ErrPreferenceNotFound when none has been saved.
	FindPreferences(ctx context.Context, farmerID string) (*entity.NotificationPreference, error)
}
