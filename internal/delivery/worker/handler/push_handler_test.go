package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"agrinet/config"
	"agrinet/internal/domain/entity"
	"agrinet/internal/domain/repository"
	"agrinet/internal/domain/service"
	"agrinet/internal/infra/persistence/memory"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPushService records batch sends and reports configurable results.
type stubPushService struct {
	calls         [][]string
	invalidTokens []string
	err           error
}

func (s *stubPushService) SendSingleNotification(_ context.Context, _, _, _ string, _ map[string]string) error {
	return s.err
}

func (s *stubPushService) SendBatchNotification(_ context.Context, tokens []string, _, _ string, _ map[string]string) (int, int, []string, error) {
	if s.err != nil {
		return 0, len(tokens), nil, s.err
	}
	s.calls = append(s.calls, tokens)

	return len(tokens) - len(s.invalidTokens), len(s.invalidTokens), s.invalidTokens, nil
}

func newTestPushHandler(pushSvc service.PushService, notificationRepo repository.NotificationRepository) *PushHandler {
	return NewPushHandler(PushHandlerParams{
		Config:           &config.Config{},
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		PushSvc:          pushSvc,
		NotificationRepo: notificationRepo,
	})
}

func pushRequest(t *testing.T, event *service.ReportEvent) *http.Request {
	t.Helper()

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var msg PubSubMessage
	msg.Message.Data = base64.StdEncoding.EncodeToString(payload)
	msg.Message.MessageID = "1"
	msg.Subscription = "projects/local/subscriptions/report-sub"

	body, err := json.Marshal(msg)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(string(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	return req
}

func seedNotification(t *testing.T, repo repository.NotificationRepository, farmerID string) *entity.Notification {
	t.Helper()

	id, err := uuid.NewV7()
	require.NoError(t, err)
	notification := &entity.Notification{
		ID:        id,
		FarmerID:  farmerID,
		Type:      entity.NotificationTypeDiseaseAlert,
		Title:     "⚠️ HIGH Risk: Brown Spot",
		Message:   "inspect your crops",
		Payload:   map[string]string{"disease": "Brown Spot"},
		Priority:  1,
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.AddNotification(context.Background(), notification))

	return notification
}

func TestHandlePushDeliversToTargets(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNotificationRepository()
	push := &stubPushService{}
	h := newTestPushHandler(push, repo)

	require.NoError(t, repo.SavePreferences(ctx, &entity.NotificationPreference{
		FarmerID:       "F002",
		PushEnabled:    true,
		AlertThreshold: entity.RiskMedium,
		FCMTokens:      []string{"token-a", "token-b"},
	}))
	notification := seedNotification(t, repo, "F002")

	e := echo.New()
	req := pushRequest(t, &service.ReportEvent{
		ReportID:       uuid.New().String(),
		SourceFarmerID: "F001",
		Disease:        "Brown Spot",
		Severity:       0.7,
		TargetIDs:      []string{"F002"},
	})
	rec := httptest.NewRecorder()

	err := h.HandlePush(e.NewContext(req, rec))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, push.calls, 1)
	assert.Equal(t, []string{"token-a", "token-b"}, push.calls[0])

	// Delivered notifications are flagged so they are not pushed twice.
	stored, err := repo.FindNotifications(ctx, "F002", false, 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, notification.ID, stored[0].ID)
	assert.True(t, stored[0].Delivered)
}

func TestHandlePushSkipsFarmersWithoutTokens(t *testing.T) {
	repo := memory.NewNotificationRepository()
	push := &stubPushService{}
	h := newTestPushHandler(push, repo)

	seedNotification(t, repo, "F002")

	e := echo.New()
	req := pushRequest(t, &service.ReportEvent{
		ReportID:  uuid.New().String(),
		Disease:   "Brown Spot",
		TargetIDs: []string{"F002"},
	})
	rec := httptest.NewRecorder()

	require.NoError(t, h.HandlePush(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, push.calls)
}

func TestHandlePushRetryableOnSendFailure(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNotificationRepository()
	push := &stubPushService{err: errors.New("fcm unavailable")}
	h := newTestPushHandler(push, repo)

	require.NoError(t, repo.SavePreferences(ctx, &entity.NotificationPreference{
		FarmerID:       "F002",
		PushEnabled:    true,
		AlertThreshold: entity.RiskMedium,
		FCMTokens:      []string{"token-a"},
	}))
	seedNotification(t, repo, "F002")

	e := echo.New()
	req := pushRequest(t, &service.ReportEvent{
		ReportID:  uuid.New().String(),
		Disease:   "Brown Spot",
		TargetIDs: []string{"F002"},
	})
	rec := httptest.NewRecorder()

	require.NoError(t, h.HandlePush(e.NewContext(req, rec)))
	// 503 asks Pub/Sub to redeliver.
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	stored, err := repo.FindNotifications(ctx, "F002", false, 0)
	require.NoError(t, err)
	assert.False(t, stored[0].Delivered)
}

func TestHandlePushPrunesInvalidTokens(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNotificationRepository()
	push := &stubPushService{invalidTokens: []string{"token-dead"}}
	h := newTestPushHandler(push, repo)

	require.NoError(t, repo.SavePreferences(ctx, &entity.NotificationPreference{
		FarmerID:       "F002",
		PushEnabled:    true,
		AlertThreshold: entity.RiskMedium,
		FCMTokens:      []string{"token-a", "token-dead"},
	}))
	seedNotification(t, repo, "F002")

	e := echo.New()
	req := pushRequest(t, &service.ReportEvent{
		ReportID:  uuid.New().String(),
		Disease:   "Brown Spot",
		TargetIDs: []string{"F002"},
	})
	rec := httptest.NewRecorder()

	require.NoError(t, h.HandlePush(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	preference, err := repo.FindPreferences(ctx, "F002")
	require.NoError(t, err)
	assert.Equal(t, []string{"token-a"}, preference.FCMTokens)
}

func TestHandlePushRejectsMalformedPayload(t *testing.T) {
	repo := memory.NewNotificationRepository()
	h := newTestPushHandler(&stubPushService{}, repo)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/push",
		strings.NewReader(`{"message":{"data":"not-base64!!"},"subscription":"s"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.HandlePush(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
