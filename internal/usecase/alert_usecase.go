package usecase

import (
	"context"

	"agrinet/internal/domain/entity"

	"github.com/google/uuid"
)

// DiseaseReportInput carries a farmer's disease or pest sighting.
type DiseaseReportInput struct {
	FarmerID     string  `json:"farmer_id"`
	Disease      string  `json:"disease"`
	Severity     float64 `json:"severity"` // In [0, 1].
	CropAffected string  `json:"crop_affected,omitempty"`
	RequestID    string  `json:"-"` // Propagated to the report event for tracing.
}

// AlertUsecase defines the alert generation and consumption use cases.
type AlertUsecase interface {
	// ReportDisease appends the report to the farmer's log, fans alerts out
	// to similar farmers within the alert radius, gates each alert through
	// the notification preferences, and publishes a report event for async
	// push delivery. Repeated identical reports produce fresh alert sets.
	ReportDisease(ctx context.Context, input DiseaseReportInput) (*entity.DiseaseReportSummary, error)

	// GetAlertsForFarmer retrieves a farmer's alerts ordered by priority
	// then creation time.
	GetAlertsForFarmer(ctx context.Context, farmerID string, includeRead bool) ([]*entity.Alert, error)

	// MarkAlertRead flags an alert as read. Idempotent; the read flag never
	// transitions back.
	MarkAlertRead(ctx context.Context, alertID uuid.UUID, farmerID string) (bool, error)

	// DismissAlert removes an alert from the farmer's feed. Idempotent.
	DismissAlert(ctx context.Context, alertID uuid.UUID, farmerID string) (bool, error)
}
