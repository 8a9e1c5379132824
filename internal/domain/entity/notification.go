package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notification types emitted by the core flows.
const (
	NotificationTypeWelcome      = "WELCOME"
	NotificationTypeDiseaseAlert = "DISEASE_ALERT"
)

// MaxNotificationsPerFarmer caps each farmer's notification list. Inserting
// past the cap evicts the oldest entry by insertion order.
const MaxNotificationsPerFarmer = 100

// Notification is the delivery-layer record derived from an accepted alert
// (or a system event such as registration). Newest entries sit at the head
// of a farmer's list.
type Notification struct {
	ID        uuid.UUID         `json:"id"` // Time-ordered (UUIDv7) identifier.
	FarmerID  string            `json:"farmer_id"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Payload   map[string]string `json:"payload,omitempty"` // Structured data for the client app.
	Priority  int               `json:"priority"`          // 1 = highest, 3 = lowest.
	CreatedAt time.Time         `json:"created_at"`
	Read      bool              `json:"read"`
	ReadAt    *time.Time        `json:"read_at,omitempty"`
	Delivered bool              `json:"delivered"` // Set once a push has been sent.
}
