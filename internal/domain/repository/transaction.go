package repository

import "context"

// TransactionManager defines the interface for managing storage transactions.
// This allows the use case layer to group writes atomically without
// depending on a specific driver like GORM.
type TransactionManager interface {
	// Execute runs a function within a storage transaction. If the function
	// returns an error the transaction is rolled back, otherwise committed.
	// All repository operations obtained from the factory share the same
	// transaction.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides repository instances bound to a specific
// transaction.
type RepositoryFactory interface {
	// NewFarmerRepository returns a FarmerRepository bound to the current transaction.
	NewFarmerRepository() FarmerRepository

	// NewAlertRepository returns an AlertRepository bound to the current transaction.
	NewAlertRepository() AlertRepository

	// NewNotificationRepository returns a NotificationRepository bound to the current transaction.
	NewNotificationRepository() NotificationRepository

	// NewLocationRepository returns a LocationRepository bound to the current transaction.
	NewLocationRepository() LocationRepository
}
