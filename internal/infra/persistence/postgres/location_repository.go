package postgres

import (
	"context"

	"agrinet/internal/domain/entity"
	domainerrors "agrinet/internal/domain/errors"
	"agrinet/internal/domain/repository"
	"agrinet/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// locationRepository implements the repository.LocationRepository interface.
// Each farmer's rows form the current position plus a bounded history.
type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository is the constructor for locationRepository.
func NewLocationRepository(db *gorm.DB) repository.LocationRepository {
	return &locationRepository{
		db: db,
	}
}

// RecordLocation inserts a new position and evicts rows past the history cap.
func (repo *locationRepository) RecordLocation(ctx context.Context, farmerID string, point entity.LocationPoint) (*entity.LocationRecord, error) {
	pointM := &model.LocationPointModel{
		FarmerID:   farmerID,
		Latitude:   point.Latitude,
		Longitude:  point.Longitude,
		AccuracyM:  point.AccuracyM,
		RecordedAt: point.RecordedAt,
	}

	if err := repo.db.WithContext(ctx).Create(pointM).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to record location")
	}

	// Keep the current position plus the capped history.
	evict := `
		DELETE FROM farmer_locations
		WHERE farmer_id = ? AND id NOT IN (
			SELECT id FROM farmer_locations
			WHERE farmer_id = ?
			ORDER BY recorded_at DESC, id DESC
			LIMIT ?
		)`
	if err := repo.db.WithContext(ctx).
		Exec(evict, farmerID, farmerID, entity.MaxLocationHistoryPerFarmer+1).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to evict old locations")
	}

	return repo.FindLocation(ctx, farmerID)
}

// FindLocation retrieves a farmer's location record. The newest row is the
// current position, the remainder is the history.
func (repo *locationRepository) FindLocation(ctx context.Context, farmerID string) (*entity.LocationRecord, error) {
	var pointModels []*model.LocationPointModel

	if err := repo.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("recorded_at DESC, id DESC").
		Limit(entity.MaxLocationHistoryPerFarmer + 1).
		Find(&pointModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find location")
	}
	if len(pointModels) == 0 {
		return nil, repository.ErrLocationNotFound
	}

	record := &entity.LocationRecord{
		FarmerID:  farmerID,
		Current:   toLocationPoint(pointModels[0]),
		UpdatedAt: pointModels[0].RecordedAt,
	}
	for _, pointM := range pointModels[1:] {
		record.History = append(record.History, toLocationPoint(pointM))
	}

	return record, nil
}

// ListCurrentLocations retrieves every farmer's newest position.
func (repo *locationRepository) ListCurrentLocations(ctx context.Context) ([]*entity.LocationRecord, error) {
	var pointModels []*model.LocationPointModel

	latest := `
		SELECT DISTINCT ON (farmer_id) *
		FROM farmer_locations
		ORDER BY farmer_id, recorded_at DESC, id DESC`
	if err := repo.db.WithContext(ctx).
		Raw(latest).
		Scan(&pointModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list current locations")
	}

	records := make([]*entity.LocationRecord, 0, len(pointModels))
	for _, pointM := range pointModels {
		records = append(records, &entity.LocationRecord{
			FarmerID:  pointM.FarmerID,
			Current:   toLocationPoint(pointM),
			UpdatedAt: pointM.RecordedAt,
		})
	}

	return records, nil
}

func toLocationPoint(data *model.LocationPointModel) entity.LocationPoint {
	return entity.LocationPoint{
		Latitude:   data.Latitude,
		Longitude:  data.Longitude,
		AccuracyM:  data.AccuracyM,
		RecordedAt: data.RecordedAt,
	}
}
