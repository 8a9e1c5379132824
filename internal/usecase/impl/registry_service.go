// Package impl contains the concrete implementations of the usecase
// interfaces.
package impl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agrinet/internal/domain/entity"
	domainerrors "agrinet/internal/domain/errors"
	"agrinet/internal/domain/repository"
	"agrinet/internal/domain/service"
	"agrinet/internal/errors"
	"agrinet/internal/infra/geo"
	"agrinet/internal/usecase"

	"github.com/google/uuid"
)

const (
	welcomeTitle   = "Welcome to the farmer alert network! 🌾"
	welcomeMessage = "You're now part of the farmer alert network. " +
		"You'll receive alerts about crop diseases and pests in your area."
)

type registryService struct {
	farmerRepo repository.FarmerRepository
	txManager  repository.TransactionManager
	qrcodeSvc  service.QRCodeService
	now        func() time.Time
}

// NewRegistryService creates the farmer registry service.
func NewRegistryService(
	farmerRepo repository.FarmerRepository,
	txManager repository.TransactionManager,
	qrcodeSvc service.QRCodeService,
) usecase.RegistryUsecase {
	return &registryService{
		farmerRepo: farmerRepo,
		txManager:  txManager,
		qrcodeSvc:  qrcodeSvc,
		now:        time.Now,
	}
}

// RegisterFarmer validates and persists a new farmer node, then sets up the
// surrounding records: default preferences, initial location, welcome
// notification. Validation happens before any write; the writes themselves
// commit or fail as one transaction.
func (s *registryService) RegisterFarmer(ctx context.Context, input usecase.RegisterFarmerInput) (*entity.FarmerNode, error) {
	if err := validateRegistration(input); err != nil {
		return nil, err
	}

	now := s.now()
	farmer := &entity.FarmerNode{
		FarmerID:      input.FarmerID,
		Name:          input.Name,
		Phone:         input.Phone,
		Latitude:      input.Latitude,
		Longitude:     input.Longitude,
		SoilType:      strings.ToLower(input.SoilType),
		SoilPH:        input.SoilPH,
		CurrentCrop:   strings.ToLower(input.CurrentCrop),
		WaterSource:   strings.ToLower(input.WaterSource),
		FarmSizeAcres: input.FarmSizeAcres,
		CreatedAt:     now,
		LastUpdated:   now,
	}

	welcomeID, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate notification ID")
	}

	err = s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.NewFarmerRepository().CreateFarmer(ctx, farmer); err != nil {
			if errors.Is(err, repository.ErrFarmerExists) {
				return domainerrors.ErrFarmerAlreadyExists
			}

			return errors.Wrap(err, "failed to register farmer")
		}

		notificationRepo := repoFactory.NewNotificationRepository()
		preference := entity.DefaultNotificationPreference(farmer.FarmerID, true, now)
		if err := notificationRepo.SavePreferences(ctx, preference); err != nil {
			return errors.Wrap(err, "failed to save default preferences")
		}

		if _, err := repoFactory.NewLocationRepository().RecordLocation(ctx, farmer.FarmerID, entity.LocationPoint{
			Latitude:   farmer.Latitude,
			Longitude:  farmer.Longitude,
			RecordedAt: now,
		}); err != nil {
			return errors.Wrap(err, "failed to record initial location")
		}

		welcome := &entity.Notification{
			ID:        welcomeID,
			FarmerID:  farmer.FarmerID,
			Type:      entity.NotificationTypeWelcome,
			Title:     welcomeTitle,
			Message:   welcomeMessage,
			Priority:  3,
			CreatedAt: now,
		}
		if err := notificationRepo.AddNotification(ctx, welcome); err != nil {
			return errors.Wrap(err, "failed to enqueue welcome notification")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return farmer, nil
}

// GetFarmer retrieves a farmer node by ID.
func (s *registryService) GetFarmer(ctx context.Context, farmerID string) (*entity.FarmerNode, error) {
	farmer, err := s.farmerRepo.FindFarmerByID(ctx, farmerID)
	if err != nil {
		if errors.Is(err, repository.ErrFarmerNotFound) {
			return nil, domainerrors.ErrFarmerNotFound
		}

		return nil, errors.Wrap(err, "failed to get farmer")
	}

	return farmer, nil
}

// UpdateFarmerLocation refreshes the registry node's coordinates.
// Best-effort: an unknown farmer yields false, not an error.
func (s *registryService) UpdateFarmerLocation(ctx context.Context, farmerID string, latitude, longitude float64) (bool, error) {
	if !geo.ValidCoordinate(latitude, longitude) {
		return false, domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("coordinate out of range: lat=%v lon=%v", latitude, longitude))
	}

	farmer, err := s.farmerRepo.FindFarmerByID(ctx, farmerID)
	if err != nil {
		if errors.Is(err, repository.ErrFarmerNotFound) {
			return false, nil
		}

		return false, errors.Wrap(err, "failed to load farmer for location update")
	}

	farmer.Latitude = latitude
	farmer.Longitude = longitude
	farmer.LastUpdated = s.now()

	if err := s.farmerRepo.UpdateFarmer(ctx, farmer); err != nil {
		return false, errors.Wrap(err, "failed to update farmer location")
	}

	return true, nil
}

// GenerateShareCard produces the farmer's QR share card.
func (s *registryService) GenerateShareCard(ctx context.Context, farmerID string) ([]byte, error) {
	if _, err := s.GetFarmer(ctx, farmerID); err != nil {
		return nil, err
	}

	png, err := s.qrcodeSvc.GenerateShareCard(farmerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate share card")
	}

	return png, nil
}

func validateRegistration(input usecase.RegisterFarmerInput) error {
	switch {
	case strings.TrimSpace(input.FarmerID) == "":
		return domainerrors.ErrValidationFailed.WithDetails("farmer_id must not be empty")
	case !geo.ValidCoordinate(input.Latitude, input.Longitude):
		return domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("coordinate out of range: lat=%v lon=%v", input.Latitude, input.Longitude))
	case input.SoilPH < 0 || input.SoilPH > 14:
		return domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("soil_ph out of range: %v", input.SoilPH))
	case input.FarmSizeAcres < 0:
		return domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("farm_size_acres must not be negative: %v", input.FarmSizeAcres))
	default:
		return nil
	}
}
