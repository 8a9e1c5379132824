package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"agrinet/config"
	"agrinet/internal/domain/repository"
	"agrinet/internal/domain/service"
	"agrinet/internal/infra/persistence/memory"
	"agrinet/internal/infra/qrcode"
	"agrinet/internal/infra/similarity"
	"agrinet/internal/usecase"

	"github.com/stretchr/testify/require"
)

// capturePublisher records published report events for assertions.
type capturePublisher struct {
	events []*service.ReportEvent
}

func (p *capturePublisher) PublishReportEvent(_ context.Context, event *service.ReportEvent) error {
	p.events = append(p.events, event)

	return nil
}

func (p *capturePublisher) Close() error { return nil }

// countingTxManager delegates to the real in-memory transaction manager and
// records how often a grouped write ran.
type countingTxManager struct {
	inner    repository.TransactionManager
	executed int
}

func (m *countingTxManager) Execute(ctx context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) error {
	m.executed++

	return m.inner.Execute(ctx, fn)
}

// testEnv wires every service against the in-memory repositories with a
// fixed clock so risk factors and quiet-hour checks are deterministic.
type testEnv struct {
	farmerRepo       repository.FarmerRepository
	alertRepo        repository.AlertRepository
	notificationRepo repository.NotificationRepository
	locationRepo     repository.LocationRepository

	registry      usecase.RegistryUsecase
	similarity    usecase.SimilarityUsecase
	alerts        usecase.AlertUsecase
	notifications usecase.NotificationUsecase
	location      usecase.LocationUsecase
	dashboard     usecase.DashboardUsecase

	publisher *capturePublisher
	txManager *countingTxManager
	cfg       *config.AlertNetworkConfig
	now       time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// Tuesday 14:00 UTC, outside any quiet window the tests configure
	// unless they cover this hour on purpose.
	now := time.Date(2025, 6, 12, 14, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	farmerRepo := memory.NewFarmerRepository()
	alertRepo := memory.NewAlertRepository()
	notificationRepo := memory.NewNotificationRepository()
	locationRepo := memory.NewLocationRepository()
	factory := memory.NewRepositoryFactory(farmerRepo, alertRepo, notificationRepo, locationRepo)
	txManager := &countingTxManager{inner: memory.NewTransactionManager(factory)}

	cfg := &config.AlertNetworkConfig{
		AlertRadiusKm:    50,
		MinSimilarity:    0.3,
		TopK:             10,
		NearbyGridCellKm: 5,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := &capturePublisher{}

	notifications := &notificationService{notificationRepo: notificationRepo, now: clock}
	registry := &registryService{
		farmerRepo: farmerRepo,
		txManager:  txManager,
		qrcodeSvc:  qrcode.NewQRCodeService(256, "M", "https://agrinet.example"),
		now:        clock,
	}
	similaritySvc := &similarityService{
		farmerRepo: farmerRepo,
		scorer:     similarity.NewRuleScorer(),
	}
	alerts := &alertService{
		farmerRepo:    farmerRepo,
		alertRepo:     alertRepo,
		txManager:     txManager,
		similarity:    similaritySvc,
		notifications: notifications,
		publisher:     publisher,
		cfg:           cfg,
		logger:        logger,
		now:           clock,
	}
	location := &locationService{
		locationRepo: locationRepo,
		registry:     registry,
		gridCellKm:   cfg.NearbyGridCellKm,
		now:          clock,
	}
	dashboard := &dashboardService{
		farmerRepo:    farmerRepo,
		alertRepo:     alertRepo,
		locationRepo:  locationRepo,
		similarity:    similaritySvc,
		notifications: notifications,
		cfg:           cfg,
	}

	return &testEnv{
		farmerRepo:       farmerRepo,
		alertRepo:        alertRepo,
		notificationRepo: notificationRepo,
		locationRepo:     locationRepo,
		registry:         registry,
		similarity:       similaritySvc,
		alerts:           alerts,
		notifications:    notifications,
		location:         location,
		dashboard:        dashboard,
		publisher:        publisher,
		txManager:        txManager,
		cfg:              cfg,
		now:              now,
	}
}

// riceFarmerInput returns a registration for a rice farmer near Guwahati.
// Two farmers built from this input at nearby coordinates score a perfect
// 1.0 similarity.
func riceFarmerInput(farmerID string, latitude, longitude float64) usecase.RegisterFarmerInput {
	return usecase.RegisterFarmerInput{
		FarmerID:      farmerID,
		Name:          "Farmer " + farmerID,
		Phone:         "+91-98000-00000",
		Latitude:      latitude,
		Longitude:     longitude,
		SoilType:      "Loamy",
		SoilPH:        6.5,
		CurrentCrop:   "Rice",
		WaterSource:   "Canal",
		FarmSizeAcres: 2.5,
	}
}

func mustRegister(t *testing.T, env *testEnv, input usecase.RegisterFarmerInput) {
	t.Helper()

	_, err := env.registry.RegisterFarmer(context.Background(), input)
	require.NoError(t, err)
}
