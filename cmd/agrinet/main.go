package main

import (
	"context"
	"log/slog"
	"os"

	"agrinet/config"
	"agrinet/internal/delivery"
	"agrinet/internal/delivery/http"
	"agrinet/internal/delivery/http/router/handler"
	"agrinet/internal/domain/repository"
	"agrinet/internal/domain/service"
	logs "agrinet/internal/infra/log"
	"agrinet/internal/infra/persistence"
	"agrinet/internal/infra/pubsub"
	"agrinet/internal/infra/qrcode"
	"agrinet/internal/infra/similarity"
	"agrinet/internal/usecase"
	"agrinet/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectService(),
		injectUsecase(),
		injectHandler(),
		injectDelivery(),
		pubsub.Module,
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		newAlertNetworkConfig,
		logs.New,
		context.Background,
		persistence.New,
	)
}

// newAlertNetworkConfig exposes the alert tunables for the services
func newAlertNetworkConfig(cfg *config.Config) *config.AlertNetworkConfig {
	if cfg == nil || cfg.AlertNetwork == nil {
		return config.DefaultAlertNetworkConfig()
	}

	return cfg.AlertNetwork
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			similarity.NewRuleScorer,
			newQRCodeService,
		),
	)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		// Use default values if not configured
		return qrcode.NewQRCodeService(256, "M", "")
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel, cfg.QRCode.BaseURL)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewNotificationService,
			impl.NewRegistryService,
			impl.NewSimilarityService,
			impl.NewAlertService,
			newLocationService,
			impl.NewDashboardService,
		),
	)
}

// newLocationService sizes the nearby-query grid from config
func newLocationService(
	locationRepo repository.LocationRepository,
	registry usecase.RegistryUsecase,
	cfg *config.AlertNetworkConfig,
) usecase.LocationUsecase {
	return impl.NewLocationService(locationRepo, registry, cfg.NearbyGridCellKm)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewFarmerHandler,
			handler.NewAlertHandler,
			handler.NewNotificationHandler,
			handler.NewLocationHandler,
			handler.NewDashboardHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
