package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"agrinet/config"
	"agrinet/internal/domain/entity"
	domainerrors "agrinet/internal/domain/errors"
	"agrinet/internal/domain/repository"
	"agrinet/internal/domain/service"
	"agrinet/internal/errors"
	"agrinet/internal/usecase"

	"github.com/google/uuid"
)

// preventionTips maps normalized disease names (lowercase, spaces replaced
// by underscores) to prevention recommendations. Unknown diseases fall back
// to the "default" entry.
var preventionTips = map[string][]string{
	"default": {
		"Regularly inspect your crops for early signs",
		"Maintain proper field hygiene",
		"Consult with local agricultural extension officer",
		"Consider preventive fungicide/pesticide application",
	},
	"bacterial_blight": {
		"Use disease-free seeds",
		"Apply copper-based bactericides",
		"Avoid overhead irrigation",
		"Remove and destroy infected plants",
	},
	"brown_spot": {
		"Apply potassium fertilizer to strengthen plants",
		"Use fungicides like Mancozeb or Carbendazim",
		"Maintain balanced fertilization",
		"Improve drainage in fields",
	},
	"leaf_blast": {
		"Apply systemic fungicides like Tricyclazole",
		"Avoid excess nitrogen fertilization",
		"Use resistant varieties",
		"Maintain proper water management",
	},
	"aphids": {
		"Apply neem-based pesticides",
		"Release natural predators like ladybugs",
		"Use yellow sticky traps for monitoring",
		"Apply insecticidal soap",
	},
	"bollworm": {
		"Use pheromone traps for monitoring",
		"Apply Bt-based insecticides",
		"Practice crop rotation",
		"Destroy crop residues after harvest",
	},
}

type alertService struct {
	farmerRepo    repository.FarmerRepository
	alertRepo     repository.AlertRepository
	txManager     repository.TransactionManager
	similarity    usecase.SimilarityUsecase
	notifications usecase.NotificationUsecase
	publisher     service.EventPublisher
	cfg           *config.AlertNetworkConfig
	logger        *slog.Logger
	now           func() time.Time
}

// NewAlertService creates the alert generation service.
func NewAlertService(
	farmerRepo repository.FarmerRepository,
	alertRepo repository.AlertRepository,
	txManager repository.TransactionManager,
	similarity usecase.SimilarityUsecase,
	notifications usecase.NotificationUsecase,
	publisher service.EventPublisher,
	cfg *config.AlertNetworkConfig,
	logger *slog.Logger,
) usecase.AlertUsecase {
	return &alertService{
		farmerRepo:    farmerRepo,
		alertRepo:     alertRepo,
		txManager:     txManager,
		similarity:    similarity,
		notifications: notifications,
		publisher:     publisher,
		cfg:           cfg,
		logger:        logger,
		now:           time.Now,
	}
}

// ReportDisease records the report and fans alerts out to similar farmers
// within the alert radius. Every invocation generates a fresh alert set;
// repeated identical reports are deliberately not deduplicated.
func (s *alertService) ReportDisease(ctx context.Context, input usecase.DiseaseReportInput) (*entity.DiseaseReportSummary, error) {
	if strings.TrimSpace(input.Disease) == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("disease must not be empty")
	}
	if input.Severity < 0 || input.Severity > 1 {
		return nil, domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("severity out of range: %v", input.Severity))
	}

	reporter, err := s.farmerRepo.FindFarmerByID(ctx, input.FarmerID)
	if err != nil {
		if errors.Is(err, repository.ErrFarmerNotFound) {
			return nil, domainerrors.ErrFarmerNotFound
		}

		return nil, errors.Wrap(err, "failed to load reporting farmer")
	}

	now := s.now()
	reporter.AddDiseaseReport(input.Disease, input.Severity, input.CropAffected, now)
	reportEntry := reporter.DiseaseReports[len(reporter.DiseaseReports)-1]

	matches, err := s.similarity.FindSimilar(ctx, input.FarmerID, s.cfg.TopK, s.cfg.MinSimilarity)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find similar farmers")
	}

	reportID, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate report ID")
	}

	alerts := make([]*entity.Alert, 0, len(matches))
	for _, match := range matches {
		if match.DistanceKm > s.cfg.AlertRadiusKm {
			continue
		}

		alert, err := s.buildAlert(reporter, match, input.Disease, input.Severity, reportEntry.CropAffected, now)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, alert)
	}

	// The report log append and the alert fan-out land together or not at
	// all; a failure must not leave a report without its alerts.
	err = s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.NewFarmerRepository().UpdateFarmer(ctx, reporter); err != nil {
			return errors.Wrap(err, "failed to append disease report")
		}

		if err := repoFactory.NewAlertRepository().CreateAlerts(ctx, alerts); err != nil {
			return errors.Wrap(err, "failed to persist alerts")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	notified := s.notifyTargets(ctx, input.Disease, alerts)

	if len(notified) > 0 {
		event := &service.ReportEvent{
			RequestID:      input.RequestID,
			ReportID:       reportID.String(),
			SourceFarmerID: input.FarmerID,
			Disease:        input.Disease,
			Severity:       input.Severity,
			TargetIDs:      notified,
		}
		// Push delivery is asynchronous and best-effort; a publish failure
		// must not lose the already-persisted alerts.
		if err := s.publisher.PublishReportEvent(ctx, event); err != nil {
			s.logger.Warn("failed to publish report event",
				slog.String("report_id", event.ReportID),
				slog.Any("error", err),
			)
		}
	}

	return &entity.DiseaseReportSummary{
		ReportID:            reportID,
		FarmerID:            input.FarmerID,
		Disease:             input.Disease,
		Severity:            input.Severity,
		CropAffected:        reportEntry.CropAffected,
		Latitude:            reporter.Latitude,
		Longitude:           reporter.Longitude,
		SimilarFarmersFound: len(matches),
		AlertsGenerated:     len(alerts),
		NotificationsSent:   len(notified),
		Alerts:              alerts,
		CreatedAt:           now,
	}, nil
}

func (s *alertService) buildAlert(
	reporter *entity.FarmerNode,
	match usecase.SimilarFarmer,
	disease string,
	severity float64,
	cropAffected string,
	now time.Time,
) (*entity.Alert, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate alert ID")
	}

	factor := riskFactor(match.Similarity, match.DistanceKm, severity, s.cfg.AlertRadiusKm)
	level, priority := entity.RiskFromFactor(factor)

	return &entity.Alert{
		ID:              id,
		TargetFarmerID:  match.Farmer.FarmerID,
		SourceFarmerID:  reporter.FarmerID,
		Type:            entity.AlertTypeDisease,
		Disease:         disease,
		Severity:        severity,
		RiskLevel:       level,
		RiskFactor:      factor,
		Priority:        priority,
		SimilarityScore: match.Similarity,
		DistanceKm:      match.DistanceKm,
		Message:         alertMessage(level, disease, cropAffected, match.DistanceKm),
		Recommendations: recommendationsFor(disease),
		CreatedAt:       now,
	}, nil
}

// notifyTargets gates each alert through the target's preferences and
// enqueues a notification for those that pass. Returns the farmer IDs that
// were notified.
func (s *alertService) notifyTargets(ctx context.Context, disease string, alerts []*entity.Alert) []string {
	notified := make([]string, 0, len(alerts))
	for _, alert := range alerts {
		shouldSend, err := s.notifications.ShouldNotify(ctx, alert.TargetFarmerID, alert.RiskLevel)
		if err != nil {
			s.logger.Warn("notification gate check failed",
				slog.String("farmer_id", alert.TargetFarmerID),
				slog.Any("error", err),
			)

			continue
		}
		if !shouldSend {
			continue
		}

		payload := map[string]string{
			"alert_id":    alert.ID.String(),
			"disease":     disease,
			"risk_level":  string(alert.RiskLevel),
			"distance_km": fmt.Sprintf("%.2f", alert.DistanceKm),
		}
		title := fmt.Sprintf("⚠️ %s Risk: %s", alert.RiskLevel, disease)
		if _, err := s.notifications.AddNotification(ctx, alert.TargetFarmerID,
			entity.NotificationTypeDiseaseAlert, title, alert.Message, payload, alert.Priority); err != nil {
			s.logger.Warn("failed to enqueue alert notification",
				slog.String("farmer_id", alert.TargetFarmerID),
				slog.Any("error", err),
			)

			continue
		}

		notified = append(notified, alert.TargetFarmerID)
	}

	return notified
}

// GetAlertsForFarmer retrieves a farmer's alerts ordered by priority then
// creation time.
func (s *alertService) GetAlertsForFarmer(ctx context.Context, farmerID string, includeRead bool) ([]*entity.Alert, error) {
	alerts, err := s.alertRepo.FindAlertsByTarget(ctx, farmerID, includeRead)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load alerts")
	}

	return alerts, nil
}

// MarkAlertRead flags an alert as read. Safe to repeat; the flag never
// transitions back.
func (s *alertService) MarkAlertRead(ctx context.Context, alertID uuid.UUID, farmerID string) (bool, error) {
	changed, err := s.alertRepo.MarkAlertRead(ctx, alertID, farmerID, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrAlertNotFound) {
			return false, domainerrors.ErrAlertNotFound
		}

		return false, errors.Wrap(err, "failed to mark alert read")
	}

	return changed, nil
}

// DismissAlert removes an alert from the farmer's feed.
func (s *alertService) DismissAlert(ctx context.Context, alertID uuid.UUID, farmerID string) (bool, error) {
	changed, err := s.alertRepo.DismissAlert(ctx, alertID, farmerID)
	if err != nil {
		if errors.Is(err, repository.ErrAlertNotFound) {
			return false, domainerrors.ErrAlertNotFound
		}

		return false, errors.Wrap(err, "failed to dismiss alert")
	}

	return changed, nil
}

// riskFactor combines similarity, proximity and severity into [0, 1]. The
// distance term decays linearly to zero at the alert radius.
func riskFactor(similarity, distanceKm, severity, radiusKm float64) float64 {
	clamped := distanceKm
	if clamped > radiusKm {
		clamped = radiusKm
	}

	return similarity * (1 - clamped/radiusKm) * severity
}

func alertMessage(level entity.RiskLevel, disease, crop string, distanceKm float64) string {
	return fmt.Sprintf(
		"⚠️ %s RISK ALERT: %s has been detected in %s crops approximately %.1f km from your farm. "+
			"A nearby farmer with similar conditions has reported this issue. "+
			"Please inspect your crops and take preventive measures.",
		level, disease, crop, distanceKm,
	)
}

// recommendationsFor normalizes the disease name and looks up the tips
// table, falling back to the generic advice.
func recommendationsFor(disease string) []string {
	key := strings.ReplaceAll(strings.ToLower(disease), " ", "_")
	if tips, ok := preventionTips[key]; ok {
		return tips
	}

	return preventionTips["default"]
}
