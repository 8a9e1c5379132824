package usecase

import (
	"context"

	"agrinet/internal/domain/entity"
)

// Dashboard is the aggregated read-only view for one farmer. Missing pieces
// degrade to nil or empty; the dashboard never fails because one source is
// unavailable.
type Dashboard struct {
	Farmer         *entity.FarmerNode     `json:"farmer"` // nil when the farmer is unknown.
	UnreadAlerts   []*entity.Alert        `json:"unread_alerts"`
	Notifications  []*entity.Notification `json:"notifications"`
	UnreadCount    int                    `json:"unread_count"`
	SimilarFarmers []SimilarFarmer        `json:"similar_farmers"`
	Location       *entity.LocationRecord `json:"location,omitempty"`
	Stats          *entity.NetworkStats   `json:"stats"`
}

// DashboardUsecase defines the aggregated read use cases.
type DashboardUsecase interface {
	// GetDashboard assembles the farmer's dashboard view.
	GetDashboard(ctx context.Context, farmerID string) (*Dashboard, error)

	// GetNetworkStats aggregates network-wide counters and the active
	// tunables.
	GetNetworkStats(ctx context.Context) (*entity.NetworkStats, error)
}
