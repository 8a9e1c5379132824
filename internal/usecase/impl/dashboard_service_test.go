package impl

import (
	"context"
	"fmt"
	"testing"

	"agrinet/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustRegister(t, env, riceFarmerInput("F001", 26.1445, 91.7362))
	mustRegister(t, env, riceFarmerInput("F002", 26.1600, 91.7400))

	_, err := env.alerts.ReportDisease(ctx, usecase.DiseaseReportInput{
		FarmerID: "F001",
		Disease:  "Brown Spot",
		Severity: 0.7,
	})
	require.NoError(t, err)

	dashboard, err := env.dashboard.GetDashboard(ctx, "F002")
	require.NoError(t, err)

	require.NotNil(t, dashboard.Farmer)
	assert.Equal(t, "F002", dashboard.Farmer.FarmerID)

	require.Len(t, dashboard.UnreadAlerts, 1)
	assert.Equal(t, "Brown Spot", dashboard.UnreadAlerts[0].Disease)

	// Welcome plus the disease alert.
	assert.Len(t, dashboard.Notifications, 2)
	assert.Equal(t, 2, dashboard.UnreadCount)

	require.Len(t, dashboard.SimilarFarmers, 1)
	assert.Equal(t, "F001", dashboard.SimilarFarmers[0].Farmer.FarmerID)

	require.NotNil(t, dashboard.Location)
	assert.InDelta(t, 26.16, dashboard.Location.Current.Latitude, 1e-9)

	require.NotNil(t, dashboard.Stats)
	assert.Equal(t, 2, dashboard.Stats.TotalFarmers)
	assert.Equal(t, 1, dashboard.Stats.TotalAlerts)
}

func TestGetDashboardUnknownFarmer(t *testing.T) {
	env := newTestEnv(t)

	// Every section degrades instead of failing.
	dashboard, err := env.dashboard.GetDashboard(context.Background(), "ghost")
	require.NoError(t, err)

	assert.Nil(t, dashboard.Farmer)
	assert.Empty(t, dashboard.UnreadAlerts)
	assert.Empty(t, dashboard.Notifications)
	assert.Zero(t, dashboard.UnreadCount)
	assert.Empty(t, dashboard.SimilarFarmers)
	assert.Nil(t, dashboard.Location)
	require.NotNil(t, dashboard.Stats)
	assert.Zero(t, dashboard.Stats.TotalFarmers)
}

func TestGetDashboardLimits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustRegister(t, env, riceFarmerInput("F001", 26.1445, 91.7362))
	mustRegister(t, env, riceFarmerInput("F002", 26.1600, 91.7400))

	for i := 0; i < 7; i++ {
		_, err := env.alerts.ReportDisease(ctx, usecase.DiseaseReportInput{
			FarmerID: "F001",
			Disease:  fmt.Sprintf("Disease %d", i),
			Severity: 0.7,
		})
		require.NoError(t, err)
	}

	dashboard, err := env.dashboard.GetDashboard(ctx, "F002")
	require.NoError(t, err)

	assert.Len(t, dashboard.UnreadAlerts, dashboardAlertLimit)
	// 7 alert notifications plus the welcome one, capped at 10.
	assert.Len(t, dashboard.Notifications, 8)
	assert.Equal(t, 8, dashboard.UnreadCount)
}

func TestGetNetworkStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustRegister(t, env, riceFarmerInput("F001", 26.1445, 91.7362))
	mustRegister(t, env, riceFarmerInput("F002", 26.1600, 91.7400))

	_, err := env.alerts.ReportDisease(ctx, usecase.DiseaseReportInput{
		FarmerID: "F001", Disease: "Brown Spot", Severity: 0.7,
	})
	require.NoError(t, err)
	_, err = env.alerts.ReportDisease(ctx, usecase.DiseaseReportInput{
		FarmerID: "F001", Disease: "Brown Spot", Severity: 0.5,
	})
	require.NoError(t, err)
	_, err = env.alerts.ReportDisease(ctx, usecase.DiseaseReportInput{
		FarmerID: "F002", Disease: "Aphids", Severity: 0.4,
	})
	require.NoError(t, err)

	stats, err := env.dashboard.GetNetworkStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalFarmers)
	assert.Equal(t, 3, stats.TotalAlerts)
	assert.Equal(t, 3, stats.UnreadAlerts)
	assert.Equal(t, map[string]int{"brown spot": 2, "aphids": 1}, stats.DiseaseDistribution)
	assert.InDelta(t, env.cfg.MinSimilarity, stats.MinSimilarity, 1e-9)
	assert.InDelta(t, env.cfg.AlertRadiusKm, stats.AlertRadiusKm, 1e-9)
}
