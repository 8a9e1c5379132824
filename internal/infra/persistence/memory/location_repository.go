package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"agrinet/internal/domain/entity"
	"agrinet/internal/domain/repository"
)

type locationRepository struct {
	mu        sync.RWMutex
	locations map[string]*entity.LocationRecord
}

// NewLocationRepository creates an in-memory location repository.
func NewLocationRepository() repository.LocationRepository {
	return &locationRepository{
		locations: make(map[string]*entity.LocationRecord),
	}
}

func (repo *locationRepository) RecordLocation(_ context.Context, farmerID string, point entity.LocationPoint) (*entity.LocationRecord, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	record, ok := repo.locations[farmerID]
	if !ok {
		record = &entity.LocationRecord{FarmerID: farmerID}
		repo.locations[farmerID] = record
	} else {
		record.History = append([]entity.LocationPoint{record.Current}, record.History...)
		if len(record.History) > entity.MaxLocationHistoryPerFarmer {
			record.History = record.History[:entity.MaxLocationHistoryPerFarmer]
		}
	}

	record.Current = point
	record.UpdatedAt = time.Now()

	return cloneLocation(record), nil
}

func (repo *locationRepository) FindLocation(_ context.Context, farmerID string) (*entity.LocationRecord, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	record, ok := repo.locations[farmerID]
	if !ok {
		return nil, repository.ErrLocationNotFound
	}

	return cloneLocation(record), nil
}

func (repo *locationRepository) ListCurrentLocations(_ context.Context) ([]*entity.LocationRecord, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	records := make([]*entity.LocationRecord, 0, len(repo.locations))
	for _, record := range repo.locations {
		records = append(records, cloneLocation(record))
	}

	return records, nil
}

func cloneLocation(record *entity.LocationRecord) *entity.LocationRecord {
	cloned := *record
	cloned.History = slices.Clone(record.History)

	return &cloned
}
