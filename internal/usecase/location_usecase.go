package usecase

import (
	"context"

	"agrinet/internal/domain/entity"
)

// UpdateLocationInput carries one GPS ping from a farmer's device.
type UpdateLocationInput struct {
	FarmerID  string   `json:"farmer_id"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	AccuracyM *float64 `json:"accuracy_m,omitempty"`
}

// LocationUsecase defines the location store use cases.
type LocationUsecase interface {
	// UpdateLocation records a position in the location store and
	// best-effort refreshes the registry node's coordinates.
	UpdateLocation(ctx context.Context, input UpdateLocationInput) (*entity.LocationRecord, error)

	// GetLocation retrieves a farmer's current position and history.
	GetLocation(ctx context.Context, farmerID string) (*entity.LocationRecord, error)

	// GetNearby retrieves farmers within radiusKm of the given point,
	// ordered by ascending distance.
	GetNearby(ctx context.Context, latitude, longitude, radiusKm float64) ([]entity.NearbyFarmer, error)
}
