package repository

import (
	"context"
	"errors"
	"time"

	"agrinet/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrAlertNotFound is returned when an alert is not found.
var ErrAlertNotFound = errors.New("alert not found")

// AlertRepository defines the interface for the append-only alert log.
type AlertRepository interface {
	// CreateAlerts persists a batch of freshly generated alerts.
	CreateAlerts(ctx context.Context, alerts []*entity.Alert) error

	// FindAlertsByTarget retrieves alerts addressed to a farmer, ordered by
	// priority ascending then creation time ascending. Read alerts are
	// filtered out unless includeRead is set.
	FindAlertsByTarget(ctx context.Context, farmerID string, includeRead bool) ([]*entity.Alert, error)

	// MarkAlertRead flags an alert as read and reports whether the state
	// changed. Marking an already-read alert is a no-op. Returns
	// ErrAlertNotFound when no alert with the given ID is addressed to the
	// farmer.
	MarkAlertRead(ctx context.Context, alertID uuid.UUID, farmerID string, readAt time.Time) (bool, error)

	// DismissAlert flags an alert as dismissed, with the same semantics as
	// MarkAlertRead.
	DismissAlert(ctx context.Context, alertID uuid.UUID, farmerID string) (bool, error)

	// CountAlerts returns the total and unread alert counts across the
	// whole network.
	CountAlerts(ctx context.Context) (total, unread int64, err error)
}
