package repository

import (
	"context"
	"errors"

	"agrinet/internal/domain/entity"
)

// ErrLocationNotFound is returned when no location has been recorded for a farmer.
var ErrLocationNotFound = errors.New("location not found")

// LocationRepository defines the interface for the per-farmer location
// store: a "current" pointer plus a capped history of recent pings.
type LocationRepository interface {
	// RecordLocation appends a point to the farmer's history (evicting the
	// oldest past entity.MaxLocationHistoryPerFarmer) and overwrites the
	// current position. It succeeds even for farmers unknown to the
	// registry; the stores are deliberately decoupled.
	RecordLocation(ctx context.Context, farmerID string, point entity.LocationPoint) (*entity.LocationRecord, error)

	// FindLocation retrieves a farmer's location record.
	FindLocation(ctx context.Context, farmerID string) (*entity.LocationRecord, error)

	// ListCurrentLocations retrieves every farmer's current position.
	ListCurrentLocations(ctx context.Context) ([]*entity.LocationRecord, error)
}
