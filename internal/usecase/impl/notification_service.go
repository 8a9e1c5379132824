package impl

import (
	"context"
	"fmt"
	"time"

	"agrinet/internal/domain/entity"
	domainerrors "agrinet/internal/domain/errors"
	"agrinet/internal/domain/repository"
	"agrinet/internal/errors"
	"agrinet/internal/usecase"

	"github.com/google/uuid"
)

type notificationService struct {
	notificationRepo repository.NotificationRepository
	now              func() time.Time
}

// NewNotificationService creates the notification gate and inbox service.
func NewNotificationService(notificationRepo repository.NotificationRepository) usecase.NotificationUsecase {
	return &notificationService{
		notificationRepo: notificationRepo,
		now:              time.Now,
	}
}

// ShouldNotify applies the delivery gate: push toggle, quiet hours, risk
// threshold. HIGH risk bypasses quiet hours; farmers without a stored
// preference record are treated as having the defaults.
func (s *notificationService) ShouldNotify(ctx context.Context, farmerID string, risk entity.RiskLevel) (bool, error) {
	preference, err := s.preferencesOrDefault(ctx, farmerID)
	if err != nil {
		return false, err
	}

	if !preference.PushEnabled {
		return false, nil
	}

	if risk != entity.RiskHigh && preference.InQuietHours(s.now().Hour()) {
		return false, nil
	}

	return risk.Rank() >= preference.AlertThreshold.Rank(), nil
}

// AddNotification enqueues a notification at the head of the farmer's list.
func (s *notificationService) AddNotification(ctx context.Context, farmerID, notificationType, title, message string, payload map[string]string, priority int) (*entity.Notification, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate notification ID")
	}

	notification := &entity.Notification{
		ID:        id,
		FarmerID:  farmerID,
		Type:      notificationType,
		Title:     title,
		Message:   message,
		Payload:   payload,
		Priority:  priority,
		CreatedAt: s.now(),
	}

	if err := s.notificationRepo.AddNotification(ctx, notification); err != nil {
		return nil, errors.Wrap(err, "failed to add notification")
	}

	return notification, nil
}

// GetNotifications retrieves a farmer's notifications, newest first.
func (s *notificationService) GetNotifications(ctx context.Context, farmerID string, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	notifications, err := s.notificationRepo.FindNotifications(ctx, farmerID, unreadOnly, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load notifications")
	}

	return notifications, nil
}

// MarkAsRead flags one notification as read.
func (s *notificationService) MarkAsRead(ctx context.Context, farmerID string, notificationID uuid.UUID) (bool, error) {
	changed, err := s.notificationRepo.MarkNotificationRead(ctx, farmerID, notificationID, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return false, domainerrors.ErrNotificationNotFound
		}

		return false, errors.Wrap(err, "failed to mark notification read")
	}

	return changed, nil
}

// MarkAllRead flags every unread notification as read.
func (s *notificationService) MarkAllRead(ctx context.Context, farmerID string) (int, error) {
	marked, err := s.notificationRepo.MarkAllNotificationsRead(ctx, farmerID, s.now())
	if err != nil {
		return 0, errors.Wrap(err, "failed to mark all notifications read")
	}

	return marked, nil
}

// MarkDelivered flags notifications as delivered after a successful push.
func (s *notificationService) MarkDelivered(ctx context.Context, farmerID string, notificationIDs []uuid.UUID) error {
	if err := s.notificationRepo.MarkNotificationsDelivered(ctx, farmerID, notificationIDs); err != nil {
		return errors.Wrap(err, "failed to mark notifications delivered")
	}

	return nil
}

// UnreadCount returns the farmer's unread notification count.
func (s *notificationService) UnreadCount(ctx context.Context, farmerID string) (int, error) {
	count, err := s.notificationRepo.CountUnreadNotifications(ctx, farmerID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count unread notifications")
	}

	return count, nil
}

// GetPreferences retrieves the farmer's preferences, falling back to the
// defaults.
func (s *notificationService) GetPreferences(ctx context.Context, farmerID string) (*entity.NotificationPreference, error) {
	return s.preferencesOrDefault(ctx, farmerID)
}

// SetPreferences validates and replaces the farmer's preferences.
func (s *notificationService) SetPreferences(ctx context.Context, farmerID string, input usecase.PreferencesInput) (*entity.NotificationPreference, error) {
	threshold := entity.RiskLevel(input.AlertThreshold)
	if !threshold.Valid() {
		return nil, domainerrors.ErrInvalidPreferences.WithDetails(
			fmt.Sprintf("alert_threshold must be LOW, MEDIUM or HIGH, got %q", input.AlertThreshold))
	}

	if err := validateQuietHours(input.QuietHoursStart, input.QuietHoursEnd); err != nil {
		return nil, err
	}

	preference := &entity.NotificationPreference{
		FarmerID:        farmerID,
		PushEnabled:     input.PushEnabled,
		SMSEnabled:      input.SMSEnabled,
		EmailEnabled:    input.EmailEnabled,
		AlertThreshold:  threshold,
		QuietHoursStart: input.QuietHoursStart,
		QuietHoursEnd:   input.QuietHoursEnd,
		FCMTokens:       input.FCMTokens,
		UpdatedAt:       s.now(),
	}

	if err := s.notificationRepo.SavePreferences(ctx, preference); err != nil {
		return nil, errors.Wrap(err, "failed to save preferences")
	}

	return preference, nil
}

func (s *notificationService) preferencesOrDefault(ctx context.Context, farmerID string) (*entity.NotificationPreference, error) {
	preference, err := s.notificationRepo.FindPreferences(ctx, farmerID)
	if err != nil {
		if errors.Is(err, repository.ErrPreferenceNotFound) {
			return entity.DefaultNotificationPreference(farmerID, true, s.now()), nil
		}

		return nil, errors.Wrap(err, "failed to load preferences")
	}

	return preference, nil
}

// validateQuietHours enforces both-or-neither bounds in [0, 23] with
// start < end. Wrap-around windows are not supported.
func validateQuietHours(start, end *int) error {
	if start == nil && end == nil {
		return nil
	}
	if start == nil || end == nil {
		return domainerrors.ErrInvalidPreferences.WithDetails(
			"quiet hours require both start and end")
	}
	if *start < 0 || *start > 23 || *end < 0 || *end > 23 {
		return domainerrors.ErrInvalidPreferences.WithDetails(
			fmt.Sprintf("quiet hours out of range: start=%d end=%d", *start, *end))
	}
	if *start >= *end {
		return domainerrors.ErrInvalidPreferences.WithDetails(
			fmt.Sprintf("quiet hours must satisfy start < end: start=%d end=%d", *start, *end))
	}

	return nil
}
