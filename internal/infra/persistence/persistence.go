// Package persistence selects and wires the configured storage driver.
package persistence

import (
	"log/slog"

	"agrinet/config"
	"agrinet/internal/domain/constants"
	"agrinet/internal/domain/repository"
	"agrinet/internal/errors"
	"agrinet/internal/infra/persistence/memory"
	"agrinet/internal/infra/persistence/postgres"

	"go.uber.org/fx"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// Stores bundles the repositories and transaction manager for the selected
// driver.
type Stores struct {
	fx.Out

	Farmers       repository.FarmerRepository
	Alerts        repository.AlertRepository
	Notifications repository.NotificationRepository
	Locations     repository.LocationRepository
	TxManager     repository.TransactionManager
}

// New builds the storage stack for the driver named in the configuration.
// The memory driver is fully self-contained; the postgres driver opens a
// connection pool managed by the fx lifecycle.
func New(params Params) (Stores, error) {
	switch params.Config.Storage.Driver {
	case constants.StorageDriverMemory, "":
		farmers := memory.NewFarmerRepository()
		alerts := memory.NewAlertRepository()
		notifications := memory.NewNotificationRepository()
		locations := memory.NewLocationRepository()
		factory := memory.NewRepositoryFactory(farmers, alerts, notifications, locations)

		return Stores{
			Farmers:       farmers,
			Alerts:        alerts,
			Notifications: notifications,
			Locations:     locations,
			TxManager:     memory.NewTransactionManager(factory),
		}, nil
	case constants.StorageDriverPostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return Stores{}, errors.Wrap(err, "failed to initialize postgres storage")
		}

		return Stores{
			Farmers:       postgres.NewFarmerRepository(db),
			Alerts:        postgres.NewAlertRepository(db),
			Notifications: postgres.NewNotificationRepository(db),
			Locations:     postgres.NewLocationRepository(db),
			TxManager:     postgres.NewTransactionManager(db),
		}, nil
	default:
		return Stores{}, errors.Errorf("unknown storage driver: %s", params.Config.Storage.Driver)
	}
}
