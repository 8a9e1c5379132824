package service

import "context"

// PushService defines the interface for delivering push notifications to
// farmer devices.
type PushService interface {
	// SendSingleNotification sends a push notification to a single device token.
	SendSingleNotification(ctx context.Context, token, title, body string, data map[string]string) error

	// SendBatchNotification sends push notifications to multiple device
	// tokens (max 500) and reports per-batch results along with any tokens
	// the provider flagged as invalid or unregistered.
	SendBatchNotification(ctx context.Context, tokens []string, title, body string, data map[string]string) (successCount, failureCount int, invalidTokens []string, err error)
}
