package entity

import (
	"time"

	"github.com/google/uuid"
)

// DiseaseReportSummary is the result returned to the caller after a disease
// report has been processed: the appended log entry plus every alert that
// was fanned out to similar farmers.
type DiseaseReportSummary struct {
	ReportID            uuid.UUID `json:"report_id"` // Time-ordered (UUIDv7) identifier.
	FarmerID            string    `json:"farmer_id"`
	Disease             string    `json:"disease"`
	Severity            float64   `json:"severity"`
	CropAffected        string    `json:"crop_affected"`
	Latitude            float64   `json:"latitude"`
	Longitude           float64   `json:"longitude"`
	SimilarFarmersFound int       `json:"similar_farmers_found"`
	AlertsGenerated     int       `json:"alerts_generated"`
	NotificationsSent   int       `json:"notifications_sent"` // Alerts that passed the notification gate.
	Alerts              []*Alert  `json:"alerts"`
	CreatedAt           time.Time `json:"created_at"`
}

// NetworkStats is the network-wide aggregate exposed on dashboards.
type NetworkStats struct {
	TotalFarmers        int            `json:"total_farmers"`
	TotalAlerts         int            `json:"total_alerts"`
	UnreadAlerts        int            `json:"unread_alerts"`
	DiseaseDistribution map[string]int `json:"disease_distribution"` // Disease name -> report count.
	MinSimilarity       float64        `json:"min_similarity"`       // Active similarity tunable.
	AlertRadiusKm       float64        `json:"alert_radius_km"`      // Active distance tunable.
}
