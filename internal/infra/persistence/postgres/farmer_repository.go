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

// farmerRepository implements the repository.FarmerRepository interface.
type farmerRepository struct {
	db *gorm.DB
}

// NewFarmerRepository is the constructor for farmerRepository.
func NewFarmerRepository(db *gorm.DB) repository.FarmerRepository {
	return &farmerRepository{
		db: db,
	}
}

// CreateFarmer persists a new farmer node together with any initial disease
// reports.
func (repo *farmerRepository) CreateFarmer(ctx context.Context, farmer *entity.FarmerNode) error {
	farmerM := fromFarmerDomain(farmer)

	if err := repo.db.WithContext(ctx).Create(farmerM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrFarmerExists
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required farmer information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create farmer")
	}

	farmer.CreatedAt = farmerM.CreatedAt

	return nil
}

// FindFarmerByID retrieves a farmer node by its ID, including the full
// disease report log in detection order.
func (repo *farmerRepository) FindFarmerByID(ctx context.Context, farmerID string) (*entity.FarmerNode, error) {
	var farmerM model.FarmerModel

	if err := repo.db.WithContext(ctx).
		Preload("DiseaseReports", func(db *gorm.DB) *gorm.DB {
			return db.Order("detected_at ASC")
		}).
		Where("farmer_id = ?", farmerID).
		First(&farmerM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrFarmerNotFound
		}

		return nil, errors.Wrap(err, "failed to find farmer by ID")
	}

	return toFarmerDomain(&farmerM), nil
}

// UpdateFarmer saves the farmer row and appends any disease reports not yet
// persisted. The report log is append-only, so the tail of the entity slice
// beyond the stored count is exactly the new entries.
func (repo *farmerRepository) UpdateFarmer(ctx context.Context, farmer *entity.FarmerNode) error {
	farmerM := fromFarmerDomain(farmer)

	result := repo.db.WithContext(ctx).
		Model(&model.FarmerModel{}).
		Where("farmer_id = ?", farmer.FarmerID).
		Select("Name", "Phone", "Latitude", "Longitude", "SoilType", "SoilPH",
			"CurrentCrop", "WaterSource", "FarmSizeAcres", "LastUpdated").
		Updates(farmerM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update farmer")
	}
	if result.RowsAffected == 0 {
		return repository.ErrFarmerNotFound
	}

	var stored int64
	if err := repo.db.WithContext(ctx).
		Model(&model.DiseaseReportModel{}).
		Where("farmer_id = ?", farmer.FarmerID).
		Count(&stored).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to count disease reports")
	}

	if int(stored) < len(farmer.DiseaseReports) {
		newReports := fromReportEntries(farmer.FarmerID, farmer.DiseaseReports[stored:])
		if err := repo.db.WithContext(ctx).Create(&newReports).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to append disease reports")
		}
	}

	return nil
}

// ListFarmers retrieves every registered farmer with their report logs.
func (repo *farmerRepository) ListFarmers(ctx context.Context) ([]*entity.FarmerNode, error) {
	var farmerModels []*model.FarmerModel

	if err := repo.db.WithContext(ctx).
		Preload("DiseaseReports", func(db *gorm.DB) *gorm.DB {
			return db.Order("detected_at ASC")
		}).
		Order("farmer_id ASC").
		Find(&farmerModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list farmers")
	}

	farmers := make([]*entity.FarmerNode, 0, len(farmerModels))
	for _, farmerM := range farmerModels {
		farmers = append(farmers, toFarmerDomain(farmerM))
	}

	return farmers, nil
}

// CountFarmers returns the number of registered farmers.
func (repo *farmerRepository) CountFarmers(ctx context.Context) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.FarmerModel{}).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count farmers")
	}

	return count, nil
}

// --- Mapper Functions ---

func toFarmerDomain(data *model.FarmerModel) *entity.FarmerNode {
	if data == nil {
		return nil
	}

	reports := make([]entity.DiseaseReportEntry, 0, len(data.DiseaseReports))
	for _, reportM := range data.DiseaseReports {
		reports = append(reports, entity.DiseaseReportEntry{
			Disease:      reportM.Disease,
			Severity:     reportM.Severity,
			CropAffected: reportM.CropAffected,
			DetectedAt:   reportM.DetectedAt,
		})
	}

	return &entity.FarmerNode{
		FarmerID:       data.FarmerID,
		Name:           data.Name,
		Phone:          data.Phone,
		Latitude:       data.Latitude,
		Longitude:      data.Longitude,
		SoilType:       data.SoilType,
		SoilPH:         data.SoilPH,
		CurrentCrop:    data.CurrentCrop,
		WaterSource:    data.WaterSource,
		FarmSizeAcres:  data.FarmSizeAcres,
		DiseaseReports: reports,
		CreatedAt:      data.CreatedAt,
		LastUpdated:    data.LastUpdated,
	}
}

func fromFarmerDomain(data *entity.FarmerNode) *model.FarmerModel {
	if data == nil {
		return nil
	}

	return &model.FarmerModel{
		FarmerID:       data.FarmerID,
		Name:           data.Name,
		Phone:          data.Phone,
		Latitude:       data.Latitude,
		Longitude:      data.Longitude,
		SoilType:       data.SoilType,
		SoilPH:         data.SoilPH,
		CurrentCrop:    data.CurrentCrop,
		WaterSource:    data.WaterSource,
		FarmSizeAcres:  data.FarmSizeAcres,
		LastUpdated:    data.LastUpdated,
		DiseaseReports: fromReportEntries(data.FarmerID, data.DiseaseReports),
	}
}

func fromReportEntries(farmerID string, entries []entity.DiseaseReportEntry) []model.DiseaseReportModel {
	reports := make([]model.DiseaseReportModel, 0, len(entries))
	for _, entry := range entries {
		reports = append(reports, model.DiseaseReportModel{
			FarmerID:     farmerID,
			Disease:      entry.Disease,
			Severity:     entry.Severity,
			CropAffected: entry.CropAffected,
			DetectedAt:   entry.DetectedAt,
		})
	}

	return reports
}
