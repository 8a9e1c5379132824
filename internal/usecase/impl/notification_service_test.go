package impl

import (
	"context"
	"testing"

	"agrinet/internal/domain/entity"
	domainerrors "agrinet/internal/domain/errors"
	"agrinet/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldNotifyDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// No stored record: defaults apply (push on, MEDIUM threshold).
	ok, err := env.notifications.ShouldNotify(ctx, "F001", entity.RiskHigh)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.notifications.ShouldNotify(ctx, "F001", entity.RiskMedium)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.notifications.ShouldNotify(ctx, "F001", entity.RiskLow)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestShouldNotifyPushDisabled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.notifications.SetPreferences(ctx, "F001", usecase.PreferencesInput{
		PushEnabled:    false,
		AlertThreshold: string(entity.RiskLow),
	})
	require.NoError(t, err)

	// Even HIGH risk stays silent when push is off.
	ok, err := env.notifications.ShouldNotify(ctx, "F001", entity.RiskHigh)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestShouldNotifyQuietHours(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// The fixed clock sits at 14:00.
	start, end := 13, 18
	_, err := env.notifications.SetPreferences(ctx, "F001", usecase.PreferencesInput{
		PushEnabled:     true,
		AlertThreshold:  string(entity.RiskLow),
		QuietHoursStart: &start,
		QuietHoursEnd:   &end,
	})
	require.NoError(t, err)

	ok, err := env.notifications.ShouldNotify(ctx, "F001", entity.RiskMedium)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = env.notifications.ShouldNotify(ctx, "F001", entity.RiskHigh)
	require.NoError(t, err)
	assert.True(t, ok)

	// A window ending at the current hour is already over: [start, end).
	start2, end2 := 8, 14
	_, err = env.notifications.SetPreferences(ctx, "F001", usecase.PreferencesInput{
		PushEnabled:     true,
		AlertThreshold:  string(entity.RiskLow),
		QuietHoursStart: &start2,
		QuietHoursEnd:   &end2,
	})
	require.NoError(t, err)

	ok, err = env.notifications.ShouldNotify(ctx, "F001", entity.RiskLow)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSetPreferencesValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.notifications.SetPreferences(ctx, "F001", usecase.PreferencesInput{
		PushEnabled:    true,
		AlertThreshold: "URGENT",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidPreferences)

	start := 22
	_, err = env.notifications.SetPreferences(ctx, "F001", usecase.PreferencesInput{
		PushEnabled:     true,
		AlertThreshold:  string(entity.RiskLow),
		QuietHoursStart: &start,
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidPreferences)

	// Wrap-around windows are rejected.
	end := 6
	_, err = env.notifications.SetPreferences(ctx, "F001", usecase.PreferencesInput{
		PushEnabled:     true,
		AlertThreshold:  string(entity.RiskLow),
		QuietHoursStart: &start,
		QuietHoursEnd:   &end,
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidPreferences)

	outOfRange := 24
	_, err = env.notifications.SetPreferences(ctx, "F001", usecase.PreferencesInput{
		PushEnabled:     true,
		AlertThreshold:  string(entity.RiskLow),
		QuietHoursStart: &start,
		QuietHoursEnd:   &outOfRange,
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidPreferences)
}

func TestNotificationInbox(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.notifications.AddNotification(ctx, "F001",
		entity.NotificationTypeDiseaseAlert, "first", "body", nil, 2)
	require.NoError(t, err)
	_, err = env.notifications.AddNotification(ctx, "F001",
		entity.NotificationTypeDiseaseAlert, "second", "body", nil, 1)
	require.NoError(t, err)

	count, err := env.notifications.UnreadCount(ctx, "F001")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Newest first.
	inbox, err := env.notifications.GetNotifications(ctx, "F001", false, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, "second", inbox[0].Title)

	changed, err := env.notifications.MarkAsRead(ctx, "F001", first.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = env.notifications.MarkAsRead(ctx, "F001", first.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	unread, err := env.notifications.GetNotifications(ctx, "F001", true, 0)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "second", unread[0].Title)

	marked, err := env.notifications.MarkAllRead(ctx, "F001")
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	count, err = env.notifications.UnreadCount(ctx, "F001")
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = env.notifications.MarkAsRead(ctx, "F002", first.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotificationNotFound)
}

func TestMarkDelivered(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	notification, err := env.notifications.AddNotification(ctx, "F001",
		entity.NotificationTypeDiseaseAlert, "title", "body", nil, 1)
	require.NoError(t, err)

	err = env.notifications.MarkDelivered(ctx, "F001", []uuid.UUID{notification.ID})
	require.NoError(t, err)

	inbox, err := env.notifications.GetNotifications(ctx, "F001", false, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.True(t, inbox[0].Delivered)
}
