package model

import (
	"time"

	"github.com/google/uuid"
)

// AlertModel mirrors the 'alerts' table. IDs are UUIDv7 generated by the
// application so that primary-key order matches creation order.
type AlertModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key"`
	TargetFarmerID  string     `gorm:"type:varchar(64);not null;index"`
	SourceFarmerID  string     `gorm:"type:varchar(64);not null;index"`
	Type            string     `gorm:"type:varchar(32);not null"`
	Disease         string     `gorm:"type:varchar(100);not null"`
	Severity        float64    `gorm:"type:decimal(3,2);not null"`
	RiskLevel       string     `gorm:"type:varchar(10);not null"`
	RiskFactor      float64    `gorm:"type:decimal(5,4);not null"`
	Priority        int        `gorm:"not null"`
	SimilarityScore float64    `gorm:"type:decimal(5,4);not null"`
	DistanceKm      float64    `gorm:"type:decimal(8,3);not null"`
	Message         string     `gorm:"type:text;not null"`
	Recommendations []string   `gorm:"type:jsonb;serializer:json"`
	CreatedAt       time.Time  `gorm:"not null;index"`
	Read            bool       `gorm:"not null;default:false"`
	ReadAt          *time.Time ``
	Dismissed       bool       `gorm:"not null;default:false"`
}

// TableName explicitly sets the table name for GORM.
func (AlertModel) TableName() string {
	return "alerts"
}
