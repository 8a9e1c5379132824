package impl

import (
	"context"
	"fmt"
	"sort"
	"time"

	"agrinet/internal/domain/entity"
	domainerrors "agrinet/internal/domain/errors"
	"agrinet/internal/domain/repository"
	"agrinet/internal/errors"
	"agrinet/internal/infra/geo"
	"agrinet/internal/usecase"

	"github.com/paulmach/orb"
)

type locationService struct {
	locationRepo repository.LocationRepository
	registry     usecase.RegistryUsecase
	gridCellKm   float64
	now          func() time.Time
}

// NewLocationService creates the location store service. gridCellKm sizes
// the spatial index cells used by nearby queries.
func NewLocationService(
	locationRepo repository.LocationRepository,
	registry usecase.RegistryUsecase,
	gridCellKm float64,
) usecase.LocationUsecase {
	return &locationService{
		locationRepo: locationRepo,
		registry:     registry,
		gridCellKm:   gridCellKm,
		now:          time.Now,
	}
}

// UpdateLocation records a GPS ping. The location store and the registry
// node are independent stores; the registry update is best-effort and an
// unknown farmer only skips it.
func (s *locationService) UpdateLocation(ctx context.Context, input usecase.UpdateLocationInput) (*entity.LocationRecord, error) {
	if !geo.ValidCoordinate(input.Latitude, input.Longitude) {
		return nil, domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("coordinate out of range: lat=%v lon=%v", input.Latitude, input.Longitude))
	}

	record, err := s.locationRepo.RecordLocation(ctx, input.FarmerID, entity.LocationPoint{
		Latitude:   input.Latitude,
		Longitude:  input.Longitude,
		AccuracyM:  input.AccuracyM,
		RecordedAt: s.now(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to record location")
	}

	if _, err := s.registry.UpdateFarmerLocation(ctx, input.FarmerID, input.Latitude, input.Longitude); err != nil {
		return nil, errors.Wrap(err, "failed to sync registry location")
	}

	return record, nil
}

// GetLocation retrieves a farmer's current position and history.
func (s *locationService) GetLocation(ctx context.Context, farmerID string) (*entity.LocationRecord, error) {
	record, err := s.locationRepo.FindLocation(ctx, farmerID)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return nil, domainerrors.ErrNotFound.WithDetails("no location recorded for this farmer")
		}

		return nil, errors.Wrap(err, "failed to load location")
	}

	return record, nil
}

// GetNearby retrieves farmers within radiusKm of the given point, ordered
// by ascending distance. A grid index over the current positions
// pre-filters candidates before the exact haversine check.
func (s *locationService) GetNearby(ctx context.Context, latitude, longitude, radiusKm float64) ([]entity.NearbyFarmer, error) {
	if !geo.ValidCoordinate(latitude, longitude) {
		return nil, domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("coordinate out of range: lat=%v lon=%v", latitude, longitude))
	}
	if radiusKm <= 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("radius_km must be positive: %v", radiusKm))
	}

	records, err := s.locationRepo.ListCurrentLocations(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list current locations")
	}

	index := geo.NewGridIndex(s.gridCellKm)
	for _, record := range records {
		index.Insert(record.FarmerID, record.Current.Point())
	}

	matches := index.Within(orb.Point{longitude, latitude}, radiusKm)
	nearby := make([]entity.NearbyFarmer, 0, len(matches))
	for _, match := range matches {
		nearby = append(nearby, entity.NearbyFarmer{
			FarmerID:   match.ID,
			Latitude:   match.Point.Lat(),
			Longitude:  match.Point.Lon(),
			DistanceKm: match.DistanceKm,
		})
	}

	sort.Slice(nearby, func(i, j int) bool {
		if nearby[i].DistanceKm != nearby[j].DistanceKm {
			return nearby[i].DistanceKm < nearby[j].DistanceKm
		}

		return nearby[i].FarmerID < nearby[j].FarmerID
	})

	return nearby, nil
}
