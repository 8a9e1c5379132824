package memory

import (
	"context"
	"sync"

	"agrinet/internal/domain/repository"
)

// transactionManager serializes transactional sections against each other.
// The in-memory driver has no rollback; the mutex only guarantees that a
// grouped write is not interleaved with another transaction.
type transactionManager struct {
	mu      sync.Mutex
	factory repository.RepositoryFactory
}

// NewTransactionManager creates a transaction manager over the shared
// in-memory repositories.
func NewTransactionManager(factory repository.RepositoryFactory) repository.TransactionManager {
	return &transactionManager{factory: factory}
}

func (manager *transactionManager) Execute(_ context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) error {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	return fn(manager.factory)
}

// repositoryFactory hands out the shared singleton repositories.
type repositoryFactory struct {
	farmers       repository.FarmerRepository
	alerts        repository.AlertRepository
	notifications repository.NotificationRepository
	locations     repository.LocationRepository
}

// NewRepositoryFactory bundles the shared in-memory repositories into a
// factory usable both directly and inside transactions.
func NewRepositoryFactory(
	farmers repository.FarmerRepository,
	alerts repository.AlertRepository,
	notifications repository.NotificationRepository,
	locations repository.LocationRepository,
) repository.RepositoryFactory {
	return &repositoryFactory{
		farmers:       farmers,
		alerts:        alerts,
		notifications: notifications,
		locations:     locations,
	}
}

func (factory *repositoryFactory) NewFarmerRepository() repository.FarmerRepository {
	return factory.farmers
}

func (factory *repositoryFactory) NewAlertRepository() repository.AlertRepository {
	return factory.alerts
}

func (factory *repositoryFactory) NewNotificationRepository() repository.NotificationRepository {
	return factory.notifications
}

func (factory *repositoryFactory) NewLocationRepository() repository.LocationRepository {
	return factory.locations
}
