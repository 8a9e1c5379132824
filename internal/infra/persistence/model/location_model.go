package model

import (
	"time"

	"github.com/google/uuid"
)

// LocationPointModel mirrors the 'farmer_locations' table. Each row is one
// recorded position; the newest row per farmer is the current location and
// the rest form the bounded history.
type LocationPointModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	FarmerID   string    `gorm:"type:varchar(64);not null;index:idx_farmer_locations_farmer_recorded,priority:1"`
	Latitude   float64   `gorm:"type:decimal(10,8);not null"`
	Longitude  float64   `gorm:"type:decimal(11,8);not null"`
	AccuracyM  *float64  `gorm:"column:accuracy_m;type:decimal(8,2)"`
	RecordedAt time.Time `gorm:"not null;index:idx_farmer_locations_farmer_recorded,priority:2,sort:desc"`
}

// TableName explicitly sets the table name for GORM.
func (LocationPointModel) TableName() string {
	return "farmer_locations"
}
