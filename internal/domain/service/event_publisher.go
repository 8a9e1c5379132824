package service

import (
	"context"
)

// ReportEvent represents a processed disease report to be picked up by the
// alert worker for push delivery.
type ReportEvent struct {
	RequestID      string   `json:"request_id,omitempty"` // For distributed tracing
	ReportID       string   `json:"report_id"`
	SourceFarmerID string   `json:"source_farmer_id"`
	Disease        string   `json:"disease"`
	Severity       float64  `json:"severity"`
	TargetIDs      []string `json:"target_ids"` // Farmers whose alerts passed the notification gate
}

// EventPublisher defines the interface for publishing events to a message queue.
type EventPublisher interface {
	// PublishReportEvent publishes a disease report event for async delivery.
	PublishReportEvent(ctx context.Context, event *ReportEvent) error

	// Close releases any resources held by the publisher.
	Close() error
}
