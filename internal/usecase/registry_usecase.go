// Package usecase defines the application-layer interfaces of the alert
// network.
package usecase

import (
	"context"

	"agrinet/internal/domain/entity"
)

// RegisterFarmerInput carries the attributes needed to register a farmer
// node. Categorical values are lowercased before persisting.
type RegisterFarmerInput struct {
	FarmerID      string  `json:"farmer_id"`
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	SoilType      string  `json:"soil_type"`
	SoilPH        float64 `json:"soil_ph"`
	CurrentCrop   string  `json:"current_crop"`
	WaterSource   string  `json:"water_source"`
	FarmSizeAcres float64 `json:"farm_size_acres"`
}

// RegistryUsecase defines the farmer registry use cases.
type RegistryUsecase interface {
	// RegisterFarmer validates and persists a new farmer node, creates the
	// default notification preference, records the initial location, and
	// enqueues a welcome notification. Nothing is persisted when validation
	// fails.
	RegisterFarmer(ctx context.Context, input RegisterFarmerInput) (*entity.FarmerNode, error)

	// GetFarmer retrieves a farmer node by ID.
	GetFarmer(ctx context.Context, farmerID string) (*entity.FarmerNode, error)

	// UpdateFarmerLocation refreshes the registry node's coordinates. It is
	// best-effort: false with no error when the farmer is unknown.
	UpdateFarmerLocation(ctx context.Context, farmerID string, latitude, longitude float64) (bool, error)

	// GenerateShareCard produces a PNG QR code referencing the farmer's
	// public profile.
	GenerateShareCard(ctx context.Context, farmerID string) ([]byte, error)
}
