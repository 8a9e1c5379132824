// Package model contains the GORM persistence structs. They mirror the
// database tables and are kept separate from the domain entities so schema
// concerns never leak into business logic.
package model

import (
	"time"

	"github.com/google/uuid"
)

// FarmerModel mirrors the 'farmers' table. The farmer ID is a natural key
// supplied at registration, not a generated UUID.
type FarmerModel struct {
	FarmerID      string  `gorm:"type:varchar(64);primaryKey"`
	Name          string  `gorm:"type:varchar(100)"`
	Phone         string  `gorm:"type:varchar(32)"`
	Latitude      float64 `gorm:"type:decimal(10,8);not null"`
	Longitude     float64 `gorm:"type:decimal(11,8);not null"`
	SoilType      string  `gorm:"type:varchar(32);not null"`
	SoilPH        float64 `gorm:"type:decimal(4,2);not null"`
	CurrentCrop   string  `gorm:"type:varchar(64);not null"`
	WaterSource   string  `gorm:"type:varchar(32);not null"`
	FarmSizeAcres float64 `gorm:"type:decimal(8,2);not null"`
	CreatedAt     time.Time
	LastUpdated   time.Time

	DiseaseReports []DiseaseReportModel `gorm:"foreignKey:FarmerID"`
}

// TableName explicitly sets the table name for GORM.
func (FarmerModel) TableName() string {
	return "farmers"
}

// DiseaseReportModel mirrors the 'disease_reports' table, the append-only
// log of reports filed by each farmer.
type DiseaseReportModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	FarmerID     string    `gorm:"type:varchar(64);not null;index"`
	Disease      string    `gorm:"type:varchar(100);not null"`
	Severity     float64   `gorm:"type:decimal(3,2);not null"`
	CropAffected string    `gorm:"type:varchar(64);not null"`
	DetectedAt   time.Time `gorm:"not null;index"`
}

// TableName explicitly sets the table name for GORM.
func (DiseaseReportModel) TableName() string {
	return "disease_reports"
}
