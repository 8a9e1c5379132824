package entity

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel classifies an alert's computed risk.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Rank returns the numeric ordering of a risk level (LOW=1, MEDIUM=2,
// HIGH=3). Unknown values rank as MEDIUM so a corrupt preference record
// never silences everything.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	default:
		return 2
	}
}

// Valid reports whether r is one of the three defined levels.
func (r RiskLevel) Valid() bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh
}

// RiskFromFactor maps a risk factor in [0, 1] onto a risk level and a
// delivery priority (1 = highest, 3 = lowest). The bands are exhaustive and
// non-overlapping: >0.6 HIGH, >0.3 MEDIUM, else LOW.
func RiskFromFactor(factor float64) (RiskLevel, int) {
	switch {
	case factor > 0.6:
		return RiskHigh, 1
	case factor > 0.3:
		return RiskMedium, 2
	default:
		return RiskLow, 3
	}
}

// AlertTypeDisease is the alert type emitted by the disease report flow.
const AlertTypeDisease = "DISEASE_ALERT"

// Alert is a targeted warning generated for one farmer because a
// similar/nearby farmer reported a disease or pest. Alerts are owned by the
// alert generator; after creation only the read/dismiss flags may change,
// and neither transition can be undone.
type Alert struct {
	ID              uuid.UUID  `json:"alert_id"`         // Time-ordered (UUIDv7) identifier.
	TargetFarmerID  string     `json:"target_farmer_id"` // Farmer receiving the alert.
	SourceFarmerID  string     `json:"source_farmer_id"` // Farmer whose report triggered it.
	Type            string     `json:"type"`             // Alert type, e.g. DISEASE_ALERT.
	Disease         string     `json:"disease"`          // Reported disease or pest name.
	Severity        float64    `json:"severity"`         // Severity from the source report, [0, 1].
	RiskLevel       RiskLevel  `json:"risk_level"`       // LOW / MEDIUM / HIGH.
	RiskFactor      float64    `json:"risk_factor"`      // Derived risk in [0, 1].
	Priority        int        `json:"priority"`         // 1 = highest, 3 = lowest.
	SimilarityScore float64    `json:"similarity_score"` // Similarity between source and target.
	DistanceKm      float64    `json:"distance_km"`      // Great-circle distance in km.
	Message         string     `json:"message"`          // Human-readable alert text.
	Recommendations []string   `json:"recommendations"`  // Prevention tips for the disease.
	CreatedAt       time.Time  `json:"created_at"`
	Read            bool       `json:"read"`
	ReadAt          *time.Time `json:"read_at,omitempty"`
	Dismissed       bool       `json:"dismissed"`
}
