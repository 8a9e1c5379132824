package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"agrinet/internal/domain/entity"
	"agrinet/internal/domain/repository"

	"github.com/google/uuid"
)

type notificationRepository struct {
	mu sync.RWMutex
	// notifications stores the newest entry at index 0, capped at
	// entity.MaxNotificationsPerFarmer per recipient.
	notifications map[string][]*entity.Notification
	preferences   map[string]*entity.NotificationPreference
}

// NewNotificationRepository creates an in-memory notification repository.
func NewNotificationRepository() repository.NotificationRepository {
	return &notificationRepository{
		notifications: make(map[string][]*entity.Notification),
		preferences:   make(map[string]*entity.NotificationPreference),
	}
}

func (repo *notificationRepository) AddNotification(_ context.Context, notification *entity.Notification) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	queue := repo.notifications[notification.FarmerID]
	queue = append([]*entity.Notification{cloneNotification(notification)}, queue...)
	if len(queue) > entity.MaxNotificationsPerFarmer {
		queue = queue[:entity.MaxNotificationsPerFarmer]
	}
	repo.notifications[notification.FarmerID] = queue

	return nil
}

func (repo *notificationRepository) FindNotifications(_ context.Context, farmerID string, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	notifications := make([]*entity.Notification, 0, limit)
	for _, notification := range repo.notifications[farmerID] {
		if unreadOnly && notification.Read {
			continue
		}
		notifications = append(notifications, cloneNotification(notification))
		if limit > 0 && len(notifications) >= limit {
			break
		}
	}

	return notifications, nil
}

func (repo *notificationRepository) MarkNotificationRead(_ context.Context, farmerID string, notificationID uuid.UUID, readAt time.Time) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, notification := range repo.notifications[farmerID] {
		if notification.ID != notificationID {
			continue
		}
		if notification.Read {
			return false, nil
		}
		notification.Read = true
		notification.ReadAt = &readAt

		return true, nil
	}

	return false, repository.ErrNotificationNotFound
}

func (repo *notificationRepository) MarkAllNotificationsRead(_ context.Context, farmerID string, readAt time.Time) (int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var marked int
	for _, notification := range repo.notifications[farmerID] {
		if notification.Read {
			continue
		}
		notification.Read = true
		notification.ReadAt = &readAt
		marked++
	}

	return marked, nil
}

func (repo *notificationRepository) MarkNotificationsDelivered(_ context.Context, farmerID string, notificationIDs []uuid.UUID) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	delivered := make(map[uuid.UUID]struct{}, len(notificationIDs))
	for _, id := range notificationIDs {
		delivered[id] = struct{}{}
	}

	for _, notification := range repo.notifications[farmerID] {
		if _, ok := delivered[notification.ID]; ok {
			notification.Delivered = true
		}
	}

	return nil
}

func (repo *notificationRepository) CountUnreadNotifications(_ context.Context, farmerID string) (int, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var unread int
	for _, notification := range repo.notifications[farmerID] {
		if !notification.Read {
			unread++
		}
	}

	return unread, nil
}

func (repo *notificationRepository) SavePreferences(_ context.Context, preference *entity.NotificationPreference) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.preferences[preference.FarmerID] = clonePreference(preference)

	return nil
}

func (repo *notificationRepository) FindPreferences(_ context.Context, farmerID string) (*entity.NotificationPreference, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	preference, ok := repo.preferences[farmerID]
	if !ok {
		return nil, repository.ErrPreferenceNotFound
	}

	return clonePreference(preference), nil
}

func cloneNotification(notification *entity.Notification) *entity.Notification {
	cloned := *notification
	cloned.Payload = maps.Clone(notification.Payload)
	if notification.ReadAt != nil {
		readAt := *notification.ReadAt
		cloned.ReadAt = &readAt
	}

	return &cloned
}

func clonePreference(preference *entity.NotificationPreference) *entity.NotificationPreference {
	cloned := *preference
	cloned.FCMTokens = slices.Clone(preference.FCMTokens)
	if preference.QuietHoursStart != nil {
		start := *preference.QuietHoursStart
		cloned.QuietHoursStart = &start
	}
	if preference.QuietHoursEnd != nil {
		end := *preference.QuietHoursEnd
		cloned.QuietHoursEnd = &end
	}

	return &cloned
}
