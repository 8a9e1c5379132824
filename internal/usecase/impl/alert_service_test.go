package impl

import (
	"context"
	"testing"

	"agrinet/internal/domain/entity"
	domainerrors "agrinet/internal/domain/errors"
	"agrinet/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportDiseaseHighRisk(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustRegister(t, env, riceFarmerInput("F001", 26.1445, 91.7362))
	mustRegister(t, env, riceFarmerInput("F002", 26.1600, 91.7400))

	summary, err := env.alerts.ReportDisease(ctx, usecase.DiseaseReportInput{
		FarmerID:  "F001",
		Disease:   "Brown Spot",
		Severity:  0.7,
		RequestID: "req-1",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.SimilarFarmersFound)
	assert.Equal(t, 1, summary.AlertsGenerated)
	assert.Equal(t, 1, summary.NotificationsSent)
	require.Len(t, summary.Alerts, 1)

	alert := summary.Alerts[0]
	assert.Equal(t, "F002", alert.TargetFarmerID)
	assert.Equal(t, "F001", alert.SourceFarmerID)
	assert.Equal(t, "Brown Spot", alert.Disease)
	// Perfect similarity, ~1.76 km away, severity 0.7.
	assert.InDelta(t, 0.675, alert.RiskFactor, 0.002)
	assert.Equal(t, entity.RiskHigh, alert.RiskLevel)
	assert.Equal(t, 1, alert.Priority)
	assert.Contains(t, alert.Message, "HIGH RISK ALERT: Brown Spot")
	assert.Contains(t, alert.Message, "rice crops")
	assert.Contains(t, alert.Recommendations, "Improve drainage in fields")

	// The target got an inbox notification on top of the welcome one.
	notifications, err := env.notifications.GetNotifications(ctx, "F002", false, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, entity.NotificationTypeDiseaseAlert, notifications[0].Type)
	assert.Equal(t, "⚠️ HIGH Risk: Brown Spot", notifications[0].Title)
	assert.Equal(t, alert.ID.String(), notifications[0].Payload["alert_id"])

	// And the report event went out for async push delivery.
	require.Len(t, env.publisher.events, 1)
	event := env.publisher.events[0]
	assert.Equal(t, "req-1", event.RequestID)
	assert.Equal(t, "F001", event.SourceFarmerID)
	assert.Equal(t, []string{"F002"}, event.TargetIDs)

	// The report itself lands on the farmer's log.
	reporter, err := env.registry.GetFarmer(ctx, "F001")
	require.NoError(t, err)
	require.Len(t, reporter.DiseaseReports, 1)
	assert.Equal(t, "brown spot", reporter.DiseaseReports[0].Disease)
}

func TestReportDiseaseValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustRegister(t, env, riceFarmerInput("F001", 26.1445, 91.7362))

	_, err := env.alerts.ReportDisease(ctx, usecase.DiseaseReportInput{FarmerID: "F001", Disease: "  ", Severity: 0.5})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = env.alerts.ReportDisease(ctx, usecase.DiseaseReportInput{FarmerID: "F001", Disease: "Aphids", Severity: 1.5})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = env.alerts.ReportDisease(ctx, usecase.DiseaseReportInput{FarmerID: "ghost", Disease: "Aphids", Severity: 0.5})
	assert.ErrorIs(t, err, domainerrors.ErrFarmerNotFound)
}

func TestReportDiseaseWritesAreTransactional(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustRegister(t, env, riceFarmerInput("F001", 26.1445, 91.7362))
	mustRegister(t, env, riceFarmerInput("F002", 26.1600, 91.7400))
	registrations := env.txManager.executed

	_, err := env.alerts.ReportDisease(ctx, usecase.DiseaseReportInput{
		FarmerID: "F001",
		Disease:  "Brown Spot",
		Severity: 0.7,
	})
	require.NoError(t, err)

	// The report log append and the alert fan-out share one grouped write.
	assert.Equal(t, registrations+1, env.txManager.executed)

	// Validation failures never reach the transaction.
	_, err = env.alerts.ReportDisease(ctx, usecase.DiseaseReportInput{FarmerID: "F001", Disease: "", Severity: 0.5})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	assert.Equal(t, registrations+1, env.txManager.executed)
}

func TestReportDiseaseBeyondRadius(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustRegister(t, env, riceFarmerInput("F001", 26.1445, 91.7362))
	// Similar conditions but ~60 km away, outside the 50 km alert radius.
	mustRegister(t, env, riceFarmerInput("F003", 26.6835, 91.7362))

	summary, err := env.alerts.ReportDisease(ctx, usecase.DiseaseReportInput{
		FarmerID: "F001",
		Disease:  "Leaf Blast",
		Severity: 0.8,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.SimilarFarmersFound)
	assert.Zero(t, summary.AlertsGenerated)
	assert.Zero(t, summary.NotificationsSent)
	assert.Empty(t, env.publisher.events)
}

func TestReportDiseaseRepeatedReports(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustRegister(t, env, riceFarmerInput("F001", 26.1445, 91.7362))
	mustRegister(t, env, riceFarmerInput("F002", 26.1600, 91.7400))

	input := usecase.DiseaseReportInput{FarmerID: "F001", Disease: "Brown Spot", Severity: 0.7}
	_, err := env.alerts.ReportDisease(ctx, input)
	require.NoError(t, err)
	_, err = env.alerts.ReportDisease(ctx, input)
	require.NoError(t, err)

	// No deduplication: every report fans out a fresh alert set.
	alerts, err := env.alerts.GetAlertsForFarmer(ctx, "F002", false)
	require.NoError(t, err)
	assert.Len(t, alerts, 2)

	reporter, err := env.registry.GetFarmer(ctx, "F001")
	require.NoError(t, err)
	assert.Len(t, reporter.DiseaseReports, 2)
}

func TestReportDiseaseThresholdGate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustRegister(t, env, riceFarmerInput("F001", 26.1445, 91.7362))
	mustRegister(t, env, riceFarmerInput("F002", 26.1600, 91.7400))

	// Severity 0.2 yields a LOW risk alert, below the default MEDIUM
	// threshold: the alert is stored but no notification goes out.
	summary, err := env.alerts.ReportDisease(ctx, usecase.DiseaseReportInput{
		FarmerID: "F001",
		Disease:  "Aphids",
		Severity: 0.2,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.AlertsGenerated)
	assert.Equal(t, entity.RiskLow, summary.Alerts[0].RiskLevel)
	assert.Zero(t, summary.NotificationsSent)
	assert.Empty(t, env.publisher.events)

	alerts, err := env.alerts.GetAlertsForFarmer(ctx, "F002", false)
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
}

func TestReportDiseaseQuietHours(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustRegister(t, env, riceFarmerInput("F001", 26.1445, 91.7362))
	mustRegister(t, env, riceFarmerInput("F002", 26.1600, 91.7400))

	// Quiet window covering the fixed clock hour (14:00).
	start, end := 13, 18
	_, err := env.notifications.SetPreferences(ctx, "F002", usecase.PreferencesInput{
		PushEnabled:     true,
		AlertThreshold:  string(entity.RiskLow),
		QuietHoursStart: &start,
		QuietHoursEnd:   &end,
	})
	require.NoError(t, err)

	// MEDIUM risk is suppressed during quiet hours.
	summary, err := env.alerts.ReportDisease(ctx, usecase.DiseaseReportInput{
		FarmerID: "F001",
		Disease:  "Brown Spot",
		Severity: 0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RiskMedium, summary.Alerts[0].RiskLevel)
	assert.Zero(t, summary.NotificationsSent)

	// HIGH risk bypasses the window.
	summary, err = env.alerts.ReportDisease(ctx, usecase.DiseaseReportInput{
		FarmerID: "F001",
		Disease:  "Brown Spot",
		Severity: 0.7,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RiskHigh, summary.Alerts[0].RiskLevel)
	assert.Equal(t, 1, summary.NotificationsSent)
}

func TestReportDiseaseUnknownDiseaseRecommendations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustRegister(t, env, riceFarmerInput("F001", 26.1445, 91.7362))
	mustRegister(t, env, riceFarmerInput("F002", 26.1600, 91.7400))

	summary, err := env.alerts.ReportDisease(ctx, usecase.DiseaseReportInput{
		FarmerID: "F001",
		Disease:  "Mystery Wilt",
		Severity: 0.6,
	})
	require.NoError(t, err)
	require.Len(t, summary.Alerts, 1)
	assert.Equal(t, preventionTips["default"], summary.Alerts[0].Recommendations)
}

func TestMarkAlertReadAndDismiss(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustRegister(t, env, riceFarmerInput("F001", 26.1445, 91.7362))
	mustRegister(t, env, riceFarmerInput("F002", 26.1600, 91.7400))

	summary, err := env.alerts.ReportDisease(ctx, usecase.DiseaseReportInput{
		FarmerID: "F001",
		Disease:  "Brown Spot",
		Severity: 0.7,
	})
	require.NoError(t, err)
	alertID := summary.Alerts[0].ID

	changed, err := env.alerts.MarkAlertRead(ctx, alertID, "F002")
	require.NoError(t, err)
	assert.True(t, changed)

	// Re-marking is a no-op, not an error.
	changed, err = env.alerts.MarkAlertRead(ctx, alertID, "F002")
	require.NoError(t, err)
	assert.False(t, changed)

	// Read alerts drop out of the unread feed but stay listable.
	unread, err := env.alerts.GetAlertsForFarmer(ctx, "F002", false)
	require.NoError(t, err)
	assert.Empty(t, unread)
	all, err := env.alerts.GetAlertsForFarmer(ctx, "F002", true)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	changed, err = env.alerts.DismissAlert(ctx, alertID, "F002")
	require.NoError(t, err)
	assert.True(t, changed)
	all, err = env.alerts.GetAlertsForFarmer(ctx, "F002", true)
	require.NoError(t, err)
	assert.Empty(t, all)

	// Wrong target farmer never sees the alert.
	_, err = env.alerts.MarkAlertRead(ctx, alertID, "F001")
	assert.ErrorIs(t, err, domainerrors.ErrAlertNotFound)
}
