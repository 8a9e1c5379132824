package entity

import "time"

// NotificationPreference holds one farmer's delivery preferences. Exactly
// one record exists per farmer; a defaulted record is created on
// registration.
//
// Quiet hours suppress non-HIGH alerts while the current hour falls within
// [QuietHoursStart, QuietHoursEnd). Both bounds are set or both are unset,
// and wrap-around windows (start >= end) are not supported.
type NotificationPreference struct {
	FarmerID        string    `json:"farmer_id"`
	PushEnabled     bool      `json:"push_enabled"`
	SMSEnabled      bool      `json:"sms_enabled"`
	EmailEnabled    bool      `json:"email_enabled"`
	AlertThreshold  RiskLevel `json:"alert_threshold"` // Minimum risk level to notify.
	QuietHoursStart *int      `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd   *int      `json:"quiet_hours_end,omitempty"`
	FCMTokens       []string  `json:"fcm_tokens,omitempty"` // Registered device tokens for push delivery.
	UpdatedAt       time.Time `json:"updated_at"`
}

// DefaultNotificationPreference returns the preference record assigned at
// registration: push on, SMS/email off, MEDIUM threshold, no quiet hours.
func DefaultNotificationPreference(farmerID string, pushEnabled bool, now time.Time) *NotificationPreference {
	return &NotificationPreference{
		FarmerID:       farmerID,
		PushEnabled:    pushEnabled,
		AlertThreshold: RiskMedium,
		UpdatedAt:      now,
	}
}

// InQuietHours reports whether the given hour falls inside the quiet
// window. It returns false when no window is configured.
func (p *NotificationPreference) InQuietHours(hour int) bool {
	if p.QuietHoursStart == nil || p.QuietHoursEnd == nil {
		return false
	}

	return *p.QuietHoursStart <= hour && hour < *p.QuietHoursEnd
}
