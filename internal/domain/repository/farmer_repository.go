// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"agrinet/internal/domain/entity"
)

// Domain-specific errors for farmer persistence.
var (
	// ErrFarmerNotFound is returned when a farmer is not found.
	ErrFarmerNotFound = errors.New("farmer not found")
	// ErrFarmerExists is returned when a farmer ID is already registered.
	ErrFarmerExists = errors.New("farmer already exists")
)

// FarmerRepository defines the interface for farmer node storage.
type FarmerRepository interface {
	// CreateFarmer persists a new farmer node. Returns ErrFarmerExists when
	// the farmer ID is already registered.
	CreateFarmer(ctx context.Context, farmer *entity.FarmerNode) error

	// FindFarmerByID retrieves a farmer node by its unique ID.
	FindFarmerByID(ctx context.Context, farmerID string) (*entity.FarmerNode, error)

	// UpdateFarmer replaces the stored node with the given one. The whole
	// record is swapped so concurrent readers never observe a torn write.
	UpdateFarmer(ctx context.Context, farmer *entity.FarmerNode) error

	// ListFarmers retrieves every registered farmer node.
	ListFarmers(ctx context.Context) ([]*entity.FarmerNode, error)

	// CountFarmers returns the number of registered farmers.
	CountFarmers(ctx context.Context) (int64, error)
}
