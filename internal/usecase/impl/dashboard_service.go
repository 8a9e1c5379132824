package impl

import (
	"context"

	"agrinet/config"
	"agrinet/internal/domain/entity"
	"agrinet/internal/domain/repository"
	"agrinet/internal/errors"
	"agrinet/internal/usecase"
)

const (
	dashboardAlertLimit        = 5
	dashboardNotificationLimit = 10
	dashboardSimilarLimit      = 5
)

type dashboardService struct {
	farmerRepo    repository.FarmerRepository
	alertRepo     repository.AlertRepository
	locationRepo  repository.LocationRepository
	similarity    usecase.SimilarityUsecase
	notifications usecase.NotificationUsecase
	cfg           *config.AlertNetworkConfig
}

// NewDashboardService creates the aggregated read service.
func NewDashboardService(
	farmerRepo repository.FarmerRepository,
	alertRepo repository.AlertRepository,
	locationRepo repository.LocationRepository,
	similarity usecase.SimilarityUsecase,
	notifications usecase.NotificationUsecase,
	cfg *config.AlertNetworkConfig,
) usecase.DashboardUsecase {
	return &dashboardService{
		farmerRepo:    farmerRepo,
		alertRepo:     alertRepo,
		locationRepo:  locationRepo,
		similarity:    similarity,
		notifications: notifications,
		cfg:           cfg,
	}
}

// GetDashboard assembles the farmer's view. Each section degrades
// independently: a missing farmer or location leaves the field nil instead
// of failing the whole request.
func (s *dashboardService) GetDashboard(ctx context.Context, farmerID string) (*usecase.Dashboard, error) {
	dashboard := &usecase.Dashboard{
		UnreadAlerts:   []*entity.Alert{},
		Notifications:  []*entity.Notification{},
		SimilarFarmers: []usecase.SimilarFarmer{},
	}

	farmer, err := s.farmerRepo.FindFarmerByID(ctx, farmerID)
	if err != nil && !errors.Is(err, repository.ErrFarmerNotFound) {
		return nil, errors.Wrap(err, "failed to load farmer")
	}
	dashboard.Farmer = farmer

	alerts, err := s.alertRepo.FindAlertsByTarget(ctx, farmerID, false)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load alerts")
	}
	if len(alerts) > dashboardAlertLimit {
		alerts = alerts[:dashboardAlertLimit]
	}
	dashboard.UnreadAlerts = alerts

	notifications, err := s.notifications.GetNotifications(ctx, farmerID, false, dashboardNotificationLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load notifications")
	}
	dashboard.Notifications = notifications

	unread, err := s.notifications.UnreadCount(ctx, farmerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count unread notifications")
	}
	dashboard.UnreadCount = unread

	similar, err := s.similarity.FindSimilar(ctx, farmerID, dashboardSimilarLimit, s.cfg.MinSimilarity)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find similar farmers")
	}
	dashboard.SimilarFarmers = similar

	location, err := s.locationRepo.FindLocation(ctx, farmerID)
	if err != nil && !errors.Is(err, repository.ErrLocationNotFound) {
		return nil, errors.Wrap(err, "failed to load location")
	}
	dashboard.Location = location

	stats, err := s.GetNetworkStats(ctx)
	if err != nil {
		return nil, err
	}
	dashboard.Stats = stats

	return dashboard, nil
}

// GetNetworkStats aggregates network-wide counters and the active tunables.
func (s *dashboardService) GetNetworkStats(ctx context.Context) (*entity.NetworkStats, error) {
	farmers, err := s.farmerRepo.ListFarmers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list farmers")
	}

	totalAlerts, unreadAlerts, err := s.alertRepo.CountAlerts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count alerts")
	}

	distribution := make(map[string]int)
	for _, farmer := range farmers {
		for _, report := range farmer.DiseaseReports {
			distribution[report.Disease]++
		}
	}

	return &entity.NetworkStats{
		TotalFarmers:        len(farmers),
		TotalAlerts:         int(totalAlerts),
		UnreadAlerts:        int(unreadAlerts),
		DiseaseDistribution: distribution,
		MinSimilarity:       s.cfg.MinSimilarity,
		AlertRadiusKm:       s.cfg.AlertRadiusKm,
	}, nil
}
