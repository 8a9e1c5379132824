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
)

// alertRepository implements the repository.AlertRepository interface.
type alertRepository struct {
	db *gorm.DB
}

// NewAlertRepository is the constructor for alertRepository.
func NewAlertRepository(db *gorm.DB) repository.AlertRepository {
	return &alertRepository{
		db: db,
	}
}

// CreateAlerts persists a batch of freshly generated alerts.
func (repo *alertRepository) CreateAlerts(ctx context.Context, alerts []*entity.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	alertModels := make([]*model.AlertModel, 0, len(alerts))
	for _, alert := range alerts {
		alertModels = append(alertModels, fromAlertDomain(alert))
	}

	if err := repo.db.WithContext(ctx).Create(&alertModels).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create alerts")
	}

	return nil
}

// FindAlertsByTarget retrieves non-dismissed alerts for a farmer, ordered by
// priority then creation time.
func (repo *alertRepository) FindAlertsByTarget(ctx context.Context, farmerID string, includeRead bool) ([]*entity.Alert, error) {
	query := repo.db.WithContext(ctx).
		Where("target_farmer_id = ? AND dismissed = ?", farmerID, false)
	if !includeRead {
		query = query.Where("read = ?", false)
	}

	var alertModels []*model.AlertModel
	if err := query.
		Order("priority ASC, created_at ASC").
		Find(&alertModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find alerts by target")
	}

	alerts := make([]*entity.Alert, 0, len(alertModels))
	for _, alertM := range alertModels {
		alerts = append(alerts, toAlertDomain(alertM))
	}

	return alerts, nil
}

// MarkAlertRead flags an alert as read, reporting whether the state changed.
func (repo *alertRepository) MarkAlertRead(ctx context.Context, alertID uuid.UUID, farmerID string, readAt time.Time) (bool, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.AlertModel{}).
		Where("id = ? AND target_farmer_id = ? AND read = ?", alertID, farmerID, false).
		Updates(map[string]any{"read": true, "read_at": readAt})
	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to mark alert read")
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	// Nothing updated: either the alert is already read or it does not exist.
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.AlertModel{}).
		Where("id = ? AND target_farmer_id = ?", alertID, farmerID).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check alert existence")
	}
	if count == 0 {
		return false, repository.ErrAlertNotFound
	}

	return false, nil
}

// DismissAlert flags an alert as dismissed, reporting whether the state changed.
func (repo *alertRepository) DismissAlert(ctx context.Context, alertID uuid.UUID, farmerID string) (bool, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.AlertModel{}).
		Where("id = ? AND target_farmer_id = ? AND dismissed = ?", alertID, farmerID, false).
		Update("dismissed", true)
	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to dismiss alert")
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.AlertModel{}).
		Where("id = ? AND target_farmer_id = ?", alertID, farmerID).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check alert existence")
	}
	if count == 0 {
		return false, repository.ErrAlertNotFound
	}

	return false, nil
}

// CountAlerts returns the total and unread counts of non-dismissed alerts.
func (repo *alertRepository) CountAlerts(ctx context.Context) (total, unread int64, err error) {
	if err := repo.db.WithContext(ctx).
		Model(&model.AlertModel{}).
		Where("dismissed = ?", false).
		Count(&total).Error; err != nil {
		return 0, 0, errors.Wrap(err, "failed to count alerts")
	}

	if err := repo.db.WithContext(ctx).
		Model(&model.AlertModel{}).
		Where("dismissed = ? AND read = ?", false, false).
		Count(&unread).Error; err != nil {
		return 0, 0, errors.Wrap(err, "failed to count unread alerts")
	}

	return total, unread, nil
}

// --- Mapper Functions ---

func toAlertDomain(data *model.AlertModel) *entity.Alert {
	if data == nil {
		return nil
	}

	return &entity.Alert{
		ID:              data.ID,
		TargetFarmerID:  data.TargetFarmerID,
		SourceFarmerID:  data.SourceFarmerID,
		Type:            data.Type,
		Disease:         data.Disease,
		Severity:        data.Severity,
		RiskLevel:       entity.RiskLevel(data.RiskLevel),
		RiskFactor:      data.RiskFactor,
		Priority:        data.Priority,
		SimilarityScore: data.SimilarityScore,
		DistanceKm:      data.DistanceKm,
		Message:         data.Message,
		Recommendations: data.Recommendations,
		CreatedAt:       data.CreatedAt,
		Read:            data.Read,
		ReadAt:          data.ReadAt,
		Dismissed:       data.Dismissed,
	}
}

func fromAlertDomain(data *entity.Alert) *model.AlertModel {
	if data == nil {
		return nil
	}

	return &model.AlertModel{
		ID:              data.ID,
		TargetFarmerID:  data.TargetFarmerID,
		SourceFarmerID:  data.SourceFarmerID,
		Type:            data.Type,
		Disease:         data.Disease,
		Severity:        data.Severity,
		RiskLevel:       string(data.RiskLevel),
		RiskFactor:      data.RiskFactor,
		Priority:        data.Priority,
		SimilarityScore: data.SimilarityScore,
		DistanceKm:      data.DistanceKm,
		Message:         data.Message,
		Recommendations: data.Recommendations,
		CreatedAt:       data.CreatedAt,
		Read:            data.Read,
		ReadAt:          data.ReadAt,
		Dismissed:       data.Dismissed,
	}
}
