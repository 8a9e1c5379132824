package postgres

import (
	"context"
	"time"

	"agrinet/internal/domain/entity"
	domainerrors "agrinet/internal/domain/errors"
	"agrinet/internal/domain/repository"
	"agrinet/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// notificationRepository implements the repository.NotificationRepository interface.
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository is the constructor for notificationRepository.
func NewNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &notificationRepository{
		db: db,
	}
}

// AddNotification inserts a notification and evicts rows past the per-farmer
// cap, oldest first.
func (repo *notificationRepository) AddNotification(ctx context.Context, notification *entity.Notification) error {
	notificationM := fromNotificationDomain(notification)

	if err := repo.db.WithContext(ctx).Create(notificationM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create notification")
	}

	evict := `
		DELETE FROM notifications
		WHERE farmer_id = ? AND id NOT IN (
			SELECT id FROM notifications
			WHERE farmer_id = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)`
	if err := repo.db.WithContext(ctx).
		Exec(evict, notification.FarmerID, notification.FarmerID, entity.MaxNotificationsPerFarmer).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to evict old notifications")
	}

	return nil
}

// FindNotifications retrieves a farmer's notifications, newest first.
func (repo *notificationRepository) FindNotifications(ctx context.Context, farmerID string, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	query := repo.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var notificationModels []*model.NotificationModel
	if err := query.
		Order("created_at DESC, id DESC").
		Find(&notificationModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find notifications")
	}

	notifications := make([]*entity.Notification, 0, len(notificationModels))
	for _, notificationM := range notificationModels {
		notifications = append(notifications, toNotificationDomain(notificationM))
	}

	return notifications, nil
}

// MarkNotificationRead flags one notification as read, reporting whether the
// state changed.
func (repo *notificationRepository) MarkNotificationRead(ctx context.Context, farmerID string, notificationID uuid.UUID, readAt time.Time) (bool, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Where("id = ? AND farmer_id = ? AND read = ?", notificationID, farmerID, false).
		Updates(map[string]any{"read": true, "read_at": readAt})
	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to mark notification read")
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Where("id = ? AND farmer_id = ?", notificationID, farmerID).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check notification existence")
	}
	if count == 0 {
		return false, repository.ErrNotificationNotFound
	}

	return false, nil
}

// MarkAllNotificationsRead flags every unread notification as read.
func (repo *notificationRepository) MarkAllNotificationsRead(ctx context.Context, farmerID string, readAt time.Time) (int, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Where("farmer_id = ? AND read = ?", farmerID, false).
		Updates(map[string]any{"read": true, "read_at": readAt})
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to mark all notifications read")
	}

	return int(result.RowsAffected), nil
}

// MarkNotificationsDelivered flags the given notifications as delivered.
func (repo *notificationRepository) MarkNotificationsDelivered(ctx context.Context, farmerID string, notificationIDs []uuid.UUID) error {
	if len(notificationIDs) == 0 {
		return nil
	}

	if err := repo.db.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Where("farmer_id = ? AND id IN ?", farmerID, notificationIDs).
		Update("delivered", true).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to mark notifications delivered")
	}

	return nil
}

// CountUnreadNotifications returns the farmer's unread count.
func (repo *notificationRepository) CountUnreadNotifications(ctx context.Context, farmerID string) (int, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Where("farmer_id = ? AND read = ?", farmerID, false).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count unread notifications")
	}

	return int(count), nil
}

// SavePreferences creates or replaces the farmer's preference record.
func (repo *notificationRepository) SavePreferences(ctx context.Context, prefs *entity.NotificationPreference) error {
	preferenceM := fromPreferenceDomain(prefs)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "farmer_id"}},
			UpdateAll: true,
		}).
		Create(preferenceM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to save preferences")
	}

	return nil
}

// FindPreferences retrieves the farmer's preference record.
func (repo *notificationRepository) FindPreferences(ctx context.Context, farmerID string) (*entity.NotificationPreference, error) {
	var preferenceM model.PreferenceModel

	if err := repo.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		First(&preferenceM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPreferenceNotFound
		}

		return nil, errors.Wrap(err, "failed to find preferences")
	}

	return toPreferenceDomain(&preferenceM), nil
}

// --- Mapper Functions ---

func toNotificationDomain(data *model.NotificationModel) *entity.Notification {
	if data == nil {
		return nil
	}

	return &entity.Notification{
		ID:        data.ID,
		FarmerID:  data.FarmerID,
		Type:      data.Type,
		Title:     data.Title,
		Message:   data.Message,
		Payload:   data.Payload,
		Priority:  data.Priority,
		CreatedAt: data.CreatedAt,
		Read:      data.Read,
		ReadAt:    data.ReadAt,
		Delivered: data.Delivered,
	}
}

func fromNotificationDomain(data *entity.Notification) *model.NotificationModel {
	if data == nil {
		return nil
	}

	return &model.NotificationModel{
		ID:        data.ID,
		FarmerID:  data.FarmerID,
		Type:      data.Type,
		Title:     data.Title,
		Message:   data.Message,
		Payload:   data.Payload,
		Priority:  data.Priority,
		CreatedAt: data.CreatedAt,
		Read:      data.Read,
		ReadAt:    data.ReadAt,
		Delivered: data.Delivered,
	}
}

func toPreferenceDomain(data *model.PreferenceModel) *entity.NotificationPreference {
	if data == nil {
		return nil
	}

	return &entity.NotificationPreference{
		FarmerID:        data.FarmerID,
		PushEnabled:     data.PushEnabled,
		SMSEnabled:      data.SMSEnabled,
		EmailEnabled:    data.EmailEnabled,
		AlertThreshold:  entity.RiskLevel(data.AlertThreshold),
		QuietHoursStart: data.QuietHoursStart,
		QuietHoursEnd:   data.QuietHoursEnd,
		FCMTokens:       data.FCMTokens,
		UpdatedAt:       data.UpdatedAt,
	}
}

func fromPreferenceDomain(data *entity.NotificationPreference) *model.PreferenceModel {
	if data == nil {
		return nil
	}

	return &model.PreferenceModel{
		FarmerID:        data.FarmerID,
		PushEnabled:     data.PushEnabled,
		SMSEnabled:      data.SMSEnabled,
		EmailEnabled:    data.EmailEnabled,
		AlertThreshold:  string(data.AlertThreshold),
		QuietHoursStart: data.QuietHoursStart,
		QuietHoursEnd:   data.QuietHoursEnd,
		FCMTokens:       data.FCMTokens,
		UpdatedAt:       data.UpdatedAt,
	}
}
