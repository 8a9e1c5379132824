package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"agrinet/internal/domain/entity"
	"agrinet/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFarmerRepository_CreateAndFind(t *testing.T) {
	repo := NewFarmerRepository()
	ctx := context.Background()

	farmer := &entity.FarmerNode{FarmerID: "F001", Name: "Ravi", CurrentCrop: "wheat"}
	require.NoError(t, repo.CreateFarmer(ctx, farmer))

	err := repo.CreateFarmer(ctx, farmer)
	assert.ErrorIs(t, err, repository.ErrFarmerExists)

	found, err := repo.FindFarmerByID(ctx, "F001")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", found.Name)

	// Mutating the returned copy must not leak into the store.
	found.Name = "changed"
	again, err := repo.FindFarmerByID(ctx, "F001")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", again.Name)

	_, err = repo.FindFarmerByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrFarmerNotFound)
}

func TestFarmerRepository_UpdateAndCount(t *testing.T) {
	repo := NewFarmerRepository()
	ctx := context.Background()

	err := repo.UpdateFarmer(ctx, &entity.FarmerNode{FarmerID: "F001"})
	assert.ErrorIs(t, err, repository.ErrFarmerNotFound)

	require.NoError(t, repo.CreateFarmer(ctx, &entity.FarmerNode{FarmerID: "F001", CurrentCrop: "rice"}))
	require.NoError(t, repo.UpdateFarmer(ctx, &entity.FarmerNode{FarmerID: "F001", CurrentCrop: "maize"}))

	found, err := repo.FindFarmerByID(ctx, "F001")
	require.NoError(t, err)
	assert.Equal(t, "maize", found.CurrentCrop)

	count, err := repo.CountFarmers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAlertRepository_FindOrdersByPriorityThenTime(t *testing.T) {
	repo := NewAlertRepository()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	newAlert := func(priority int, createdAt time.Time) *entity.Alert {
		id, err := uuid.NewV7()
		require.NoError(t, err)

		return &entity.Alert{
			ID:             id,
			TargetFarmerID: "F001",
			Priority:       priority,
			CreatedAt:      createdAt,
		}
	}

	low := newAlert(3, base)
	highLate := newAlert(1, base.Add(2*time.Minute))
	highEarly := newAlert(1, base.Add(time.Minute))
	require.NoError(t, repo.CreateAlerts(ctx, []*entity.Alert{low, highLate, highEarly}))

	alerts, err := repo.FindAlertsByTarget(ctx, "F001", true)
	require.NoError(t, err)
	require.Len(t, alerts, 3)
	assert.Equal(t, highEarly.ID, alerts[0].ID)
	assert.Equal(t, highLate.ID, alerts[1].ID)
	assert.Equal(t, low.ID, alerts[2].ID)
}

func TestAlertRepository_MarkReadIdempotent(t *testing.T) {
	repo := NewAlertRepository()
	ctx := context.Background()

	id, err := uuid.NewV7()
	require.NoError(t, err)
	alert := &entity.Alert{ID: id, TargetFarmerID: "F001", Priority: 2, CreatedAt: time.Now()}
	require.NoError(t, repo.CreateAlerts(ctx, []*entity.Alert{alert}))

	marked, err := repo.MarkAlertRead(ctx, id, "F001", time.Now())
	require.NoError(t, err)
	assert.True(t, marked)

	marked, err = repo.MarkAlertRead(ctx, id, "F001", time.Now())
	require.NoError(t, err)
	assert.False(t, marked)

	_, err = repo.MarkAlertRead(ctx, id, "F999", time.Now())
	assert.ErrorIs(t, err, repository.ErrAlertNotFound)

	alerts, err := repo.FindAlertsByTarget(ctx, "F001", false)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestAlertRepository_DismissAndCount(t *testing.T) {
	repo := NewAlertRepository()
	ctx := context.Background()

	first, err := uuid.NewV7()
	require.NoError(t, err)
	second, err := uuid.NewV7()
	require.NoError(t, err)
	require.NoError(t, repo.CreateAlerts(ctx, []*entity.Alert{
		{ID: first, TargetFarmerID: "F001", Priority: 1, CreatedAt: time.Now()},
		{ID: second, TargetFarmerID: "F001", Priority: 2, CreatedAt: time.Now()},
	}))

	dismissed, err := repo.DismissAlert(ctx, first, "F001")
	require.NoError(t, err)
	assert.True(t, dismissed)

	dismissed, err = repo.DismissAlert(ctx, first, "F001")
	require.NoError(t, err)
	assert.False(t, dismissed)

	alerts, err := repo.FindAlertsByTarget(ctx, "F001", true)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, second, alerts[0].ID)

	total, unread, err := repo.CountAlerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(1), unread)
}

func TestNotificationRepository_CapKeepsNewest(t *testing.T) {
	repo := NewNotificationRepository()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < entity.MaxNotificationsPerFarmer+1; i++ {
		id, err := uuid.NewV7()
		require.NoError(t, err)
		require.NoError(t, repo.AddNotification(ctx, &entity.Notification{
			ID:        id,
			FarmerID:  "F001",
			Title:     fmt.Sprintf("notification %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	notifications, err := repo.FindNotifications(ctx, "F001", false, 0)
	require.NoError(t, err)
	require.Len(t, notifications, entity.MaxNotificationsPerFarmer)
	assert.Equal(t, fmt.Sprintf("notification %d", entity.MaxNotificationsPerFarmer), notifications[0].Title)
	assert.Equal(t, "notification 1", notifications[len(notifications)-1].Title)
}

func TestNotificationRepository_UnreadFilterAndLimit(t *testing.T) {
	repo := NewNotificationRepository()
	ctx := context.Background()

	ids := make([]uuid.UUID, 3)
	for i := range ids {
		id, err := uuid.NewV7()
		require.NoError(t, err)
		ids[i] = id
		require.NoError(t, repo.AddNotification(ctx, &entity.Notification{ID: id, FarmerID: "F001"}))
	}

	marked, err := repo.MarkNotificationRead(ctx, "F001", ids[1], time.Now())
	require.NoError(t, err)
	assert.True(t, marked)

	unread, err := repo.FindNotifications(ctx, "F001", true, 0)
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	limited, err := repo.FindNotifications(ctx, "F001", false, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	count, err := repo.CountUnreadNotifications(ctx, "F001")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	markedAll, err := repo.MarkAllNotificationsRead(ctx, "F001", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, markedAll)

	count, err = repo.CountUnreadNotifications(ctx, "F001")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotificationRepository_Preferences(t *testing.T) {
	repo := NewNotificationRepository()
	ctx := context.Background()

	_, err := repo.FindPreferences(ctx, "F001")
	assert.ErrorIs(t, err, repository.ErrPreferenceNotFound)

	preference := entity.DefaultNotificationPreference("F001", true, time.Now())
	preference.FCMTokens = []string{"token-1"}
	require.NoError(t, repo.SavePreferences(ctx, preference))

	found, err := repo.FindPreferences(ctx, "F001")
	require.NoError(t, err)
	assert.Equal(t, entity.RiskMedium, found.AlertThreshold)
	assert.Equal(t, []string{"token-1"}, found.FCMTokens)
}

func TestLocationRepository_HistoryCap(t *testing.T) {
	repo := NewLocationRepository()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	total := entity.MaxLocationHistoryPerFarmer + 3
	for i := 0; i < total; i++ {
		_, err := repo.RecordLocation(ctx, "F001", entity.LocationPoint{
			Latitude:   30.0 + float64(i)*0.001,
			Longitude:  78.0,
			RecordedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	record, err := repo.FindLocation(ctx, "F001")
	require.NoError(t, err)
	assert.InDelta(t, 30.0+float64(total-1)*0.001, record.Current.Latitude, 1e-9)
	require.Len(t, record.History, entity.MaxLocationHistoryPerFarmer)
	assert.InDelta(t, 30.0+float64(total-2)*0.001, record.History[0].Latitude, 1e-9)
}

func TestLocationRepository_ListCurrent(t *testing.T) {
	repo := NewLocationRepository()
	ctx := context.Background()

	_, err := repo.FindLocation(ctx, "F001")
	assert.ErrorIs(t, err, repository.ErrLocationNotFound)

	record, err := repo.RecordLocation(ctx, "F001", entity.LocationPoint{Latitude: 30.3, Longitude: 78.0})
	require.NoError(t, err)
	assert.InDelta(t, 30.3, record.Current.Latitude, 1e-9)
	_, err = repo.RecordLocation(ctx, "F002", entity.LocationPoint{Latitude: 28.6, Longitude: 77.2})
	require.NoError(t, err)

	records, err := repo.ListCurrentLocations(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestTransactionManager_SharesRepositories(t *testing.T) {
	farmers := NewFarmerRepository()
	factory := NewRepositoryFactory(farmers, NewAlertRepository(), NewNotificationRepository(), NewLocationRepository())
	manager := NewTransactionManager(factory)
	ctx := context.Background()

	err := manager.Execute(ctx, func(txRepoFactory repository.RepositoryFactory) error {
		return txRepoFactory.NewFarmerRepository().CreateFarmer(ctx, &entity.FarmerNode{FarmerID: "F001"})
	})
	require.NoError(t, err)

	_, err = farmers.FindFarmerByID(ctx, "F001")
	assert.NoError(t, err)
}
