package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationModel mirrors the 'notifications' table. Each farmer keeps at
// most a fixed number of rows; the repository evicts the oldest on insert.
type NotificationModel struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key"`
	FarmerID  string            `gorm:"type:varchar(64);not null;index"`
	Type      string            `gorm:"type:varchar(32);not null"`
	Title     string            `gorm:"type:varchar(200);not null"`
	Message   string            `gorm:"type:text;not null"`
	Payload   map[string]string `gorm:"type:jsonb;serializer:json"`
	Priority  int               `gorm:"not null"`
	CreatedAt time.Time         `gorm:"not null;index"`
	Read      bool              `gorm:"not null;default:false"`
	ReadAt    *time.Time        ``
	Delivered bool              `gorm:"not null;default:false"`
}

// TableName explicitly sets the table name for GORM.
func (NotificationModel) TableName() string {
	return "notifications"
}

// PreferenceModel mirrors the 'notification_preferences' table, one row per
// farmer.
type PreferenceModel struct {
	FarmerID        string    `gorm:"type:varchar(64);primaryKey"`
	PushEnabled     bool      `gorm:"not null;default:true"`
	SMSEnabled      bool      `gorm:"column:sms_enabled;not null;default:false"`
	EmailEnabled    bool      `gorm:"not null;default:false"`
	AlertThreshold  string    `gorm:"type:varchar(10);not null"`
	QuietHoursStart *int      ``
	QuietHoursEnd   *int      ``
	FCMTokens       []string  `gorm:"column:fcm_tokens;type:jsonb;serializer:json"`
	UpdatedAt       time.Time ``
}

// TableName explicitly sets the table name for GORM.
func (PreferenceModel) TableName() string {
	return "notification_preferences"
}
