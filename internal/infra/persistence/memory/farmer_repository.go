// Package memory contains the in-memory implementation of the persistence
// layer. It is the reference driver for tests and single-node deployments;
// every repository guards its map with a mutex and swaps whole records so
// concurrent readers never observe a torn write.
package memory

import (
	"context"
	"slices"
	"sync"

	"agrinet/internal/domain/entity"
	"agrinet/internal/domain/repository"
)

type farmerRepository struct {
	mu      sync.RWMutex
	farmers map[string]*entity.FarmerNode
}

// NewFarmerRepository creates an in-memory farmer repository.
func NewFarmerRepository() repository.FarmerRepository {
	return &farmerRepository{
		farmers: make(map[string]*entity.FarmerNode),
	}
}

func (repo *farmerRepository) CreateFarmer(_ context.Context, farmer *entity.FarmerNode) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, exists := repo.farmers[farmer.FarmerID]; exists {
		return repository.ErrFarmerExists
	}

	repo.farmers[farmer.FarmerID] = cloneFarmer(farmer)

	return nil
}

func (repo *farmerRepository) FindFarmerByID(_ context.Context, farmerID string) (*entity.FarmerNode, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	farmer, ok := repo.farmers[farmerID]
	if !ok {
		return nil, repository.ErrFarmerNotFound
	}

	return cloneFarmer(farmer), nil
}

func (repo *farmerRepository) UpdateFarmer(_ context.Context, farmer *entity.FarmerNode) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.farmers[farmer.FarmerID]; !ok {
		return repository.ErrFarmerNotFound
	}

	repo.farmers[farmer.FarmerID] = cloneFarmer(farmer)

	return nil
}

func (repo *farmerRepository) ListFarmers(_ context.Context) ([]*entity.FarmerNode, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	farmers := make([]*entity.FarmerNode, 0, len(repo.farmers))
	for _, farmer := range repo.farmers {
		farmers = append(farmers, cloneFarmer(farmer))
	}

	return farmers, nil
}

func (repo *farmerRepository) CountFarmers(_ context.Context) (int64, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	return int64(len(repo.farmers)), nil
}

func cloneFarmer(farmer *entity.FarmerNode) *entity.FarmerNode {
	cloned := *farmer
	cloned.DiseaseReports = slices.Clone(farmer.DiseaseReports)

	return &cloned
}
