// Package handler contains the Pub/Sub push handler of the alert worker.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"agrinet/config"
	deliverycontext "agrinet/internal/delivery/context"
	"agrinet/internal/domain/constants"
	"agrinet/internal/domain/entity"
	"agrinet/internal/domain/repository"
	"agrinet/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// retryableError wraps an error to indicate it should trigger a Pub/Sub retry
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

func newRetryableError(err error) error {
	return &retryableError{err: err}
}

func isRetryableError(err error) bool {
	var re *retryableError

	return errors.As(err, &re)
}

// PushHandler delivers queued alert notifications to farmer devices.
type PushHandler struct {
	verifyPushAuth   bool
	logger           *slog.Logger
	pushSvc          service.PushService
	notificationRepo repository.NotificationRepository
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config           *config.Config
	Logger           *slog.Logger
	PushSvc          service.PushService
	NotificationRepo repository.NotificationRepository
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	// Google-signed push tokens are only verified outside local development
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	return &PushHandler{
		verifyPushAuth:   verifyPushAuth,
		logger:           params.Logger,
		pushSvc:          params.PushSvc,
		notificationRepo: params.NotificationRepo,
	}
}

// HandlePush handles incoming Pub/Sub push messages
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	var event service.ReportEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("[Worker] Failed to parse report event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	requestID := h.extractRequestID(ctx, &pushMsg, &event)
	reqLogger := h.logger.With(slog.String("request_id", requestID))
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	reqLogger.Info("[Worker] Processing report event",
		slog.String("report_id", event.ReportID),
		slog.String("source_farmer_id", event.SourceFarmerID),
		slog.String("disease", event.Disease),
		slog.Int("target_count", len(event.TargetIDs)),
	)

	if err := h.processReport(ctx, &event); err != nil {
		reqLogger.Error("[Worker] Failed to process report event",
			slog.String("report_id", event.ReportID),
			slog.Any("error", err),
			slog.Bool("retryable", isRetryableError(err)),
		)
		// 503 triggers a Pub/Sub retry; 200 acknowledges non-retryable
		// failures so they don't loop forever.
		if isRetryableError(err) {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	reqLogger.Info("[Worker] Report event processed successfully",
		slog.String("report_id", event.ReportID),
	)

	return c.NoContent(http.StatusOK)
}

// extractRequestID extracts request_id from message attributes, event, or generates a new one
func (h *PushHandler) extractRequestID(ctx context.Context, pushMsg *PubSubMessage, event *service.ReportEvent) string {
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}
	if event.RequestID != "" {
		return event.RequestID
	}
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// processReport pushes the undelivered alert notifications of every target
// farmer named by the event. Each target is handled independently; a farmer
// without tokens or pending notifications is skipped, not an error.
func (h *PushHandler) processReport(ctx context.Context, event *service.ReportEvent) error {
	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)

	if h.pushSvc == nil {
		logger.Info("[Worker] Push service not configured, skipping delivery",
			slog.String("report_id", event.ReportID),
		)

		return nil
	}

	for _, farmerID := range event.TargetIDs {
		if err := h.deliverToFarmer(ctx, farmerID, event); err != nil {
			return err
		}
	}

	return nil
}

func (h *PushHandler) deliverToFarmer(ctx context.Context, farmerID string, event *service.ReportEvent) error {
	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)

	preference, err := h.notificationRepo.FindPreferences(ctx, farmerID)
	if err != nil {
		if errors.Is(err, repository.ErrPreferenceNotFound) {
			logger.Info("[Worker] No preference record, skipping farmer",
				slog.String("farmer_id", farmerID),
			)

			return nil
		}

		return newRetryableError(errors.WithStack(err))
	}

	if len(preference.FCMTokens) == 0 {
		logger.Info("[Worker] No registered devices, skipping farmer",
			slog.String("farmer_id", farmerID),
		)

		return nil
	}

	pending, err := h.pendingNotifications(ctx, farmerID)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	delivered := make([]uuid.UUID, 0, len(pending))
	var invalidTokens []string
	for _, notification := range pending {
		sent, failed, invalid, sendErr := h.sendBatched(ctx, preference.FCMTokens, notification)
		if sendErr != nil {
			return newRetryableError(errors.WithStack(sendErr))
		}

		logger.Info("[Worker] Sent alert notification",
			slog.String("farmer_id", farmerID),
			slog.String("notification_id", notification.ID.String()),
			slog.Int("sent", sent),
			slog.Int("failed", failed),
		)

		invalidTokens = append(invalidTokens, invalid...)
		if sent > 0 {
			delivered = append(delivered, notification.ID)
		}
	}

	if len(delivered) > 0 {
		if err := h.notificationRepo.MarkNotificationsDelivered(ctx, farmerID, delivered); err != nil {
			return newRetryableError(errors.WithStack(err))
		}
	}

	h.cleanupInvalidTokens(ctx, preference, invalidTokens)

	return nil
}

// pendingNotifications returns the farmer's undelivered disease alerts.
func (h *PushHandler) pendingNotifications(ctx context.Context, farmerID string) ([]*entity.Notification, error) {
	notifications, err := h.notificationRepo.FindNotifications(ctx, farmerID, true, 0)
	if err != nil {
		return nil, newRetryableError(errors.WithStack(err))
	}

	pending := make([]*entity.Notification, 0, len(notifications))
	for _, notification := range notifications {
		if notification.Delivered || notification.Type != entity.NotificationTypeDiseaseAlert {
			continue
		}
		pending = append(pending, notification)
	}

	return pending, nil
}

// sendBatched fans a notification out to the farmer's tokens in provider
// sized batches.
func (h *PushHandler) sendBatched(ctx context.Context, tokens []string, notification *entity.Notification) (sent, failed int, invalidTokens []string, err error) {
	const batchSize = 500

	for idx := 0; idx < len(tokens); idx += batchSize {
		end := min(idx+batchSize, len(tokens))
		batch := tokens[idx:end]

		successCount, failureCount, batchInvalid, sendErr := h.pushSvc.SendBatchNotification(
			ctx, batch, notification.Title, notification.Message, notification.Payload,
		)
		if sendErr != nil {
			return sent, failed, invalidTokens, sendErr
		}

		sent += successCount
		failed += failureCount
		invalidTokens = append(invalidTokens, batchInvalid...)
	}

	return sent, failed, invalidTokens, nil
}

// cleanupInvalidTokens drops tokens the provider flagged as dead. Best
// effort: a failed save only logs since the tokens will be flagged again on
// the next delivery.
func (h *PushHandler) cleanupInvalidTokens(ctx context.Context, preference *entity.NotificationPreference, invalidTokens []string) {
	if len(invalidTokens) == 0 {
		return
	}

	kept := make([]string, 0, len(preference.FCMTokens))
	for _, token := range preference.FCMTokens {
		if !slices.Contains(invalidTokens, token) {
			kept = append(kept, token)
		}
	}
	preference.FCMTokens = kept

	if err := h.notificationRepo.SavePreferences(ctx, preference); err != nil {
		h.logger.Warn("[Worker] Failed to prune invalid tokens",
			slog.String("farmer_id", preference.FarmerID),
			slog.Int("invalid_count", len(invalidTokens)),
			slog.Any("error", err),
		)
	}
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// The audience is the URL of this push endpoint.
	scheme := "https"
	if req.TLS == nil {
		scheme = "http" // For local development
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	if _, err := idtoken.Validate(req.Context(), token, audience); err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	return nil
}
