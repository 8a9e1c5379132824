package impl

import (
	"bytes"
	"context"
	"testing"

	"agrinet/internal/domain/entity"
	domainerrors "agrinet/internal/domain/errors"
	"agrinet/internal/errors"
	"agrinet/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterFarmer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	farmer, err := env.registry.RegisterFarmer(ctx, riceFarmerInput("F001", 26.1445, 91.7362))
	require.NoError(t, err)

	// Categorical attributes are lowercased for comparison.
	assert.Equal(t, "rice", farmer.CurrentCrop)
	assert.Equal(t, "loamy", farmer.SoilType)
	assert.Equal(t, "canal", farmer.WaterSource)
	assert.Equal(t, env.now, farmer.CreatedAt)

	// Registration sets up the surrounding records in one go.
	preference, err := env.notifications.GetPreferences(ctx, "F001")
	require.NoError(t, err)
	assert.True(t, preference.PushEnabled)
	assert.Equal(t, entity.RiskMedium, preference.AlertThreshold)

	record, err := env.location.GetLocation(ctx, "F001")
	require.NoError(t, err)
	assert.InDelta(t, 26.1445, record.Current.Latitude, 1e-9)

	notifications, err := env.notifications.GetNotifications(ctx, "F001", false, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, entity.NotificationTypeWelcome, notifications[0].Type)
	assert.Equal(t, welcomeTitle, notifications[0].Title)
	assert.Equal(t, 3, notifications[0].Priority)
}

func TestRegisterFarmerWritesAreTransactional(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustRegister(t, env, riceFarmerInput("F001", 26.1445, 91.7362))

	// Farmer, preferences, location and welcome notification all land
	// through a single grouped write.
	assert.Equal(t, 1, env.txManager.executed)

	// A failing write inside the group surfaces through the transaction.
	_, err := env.registry.RegisterFarmer(ctx, riceFarmerInput("F001", 26.2, 91.8))
	assert.ErrorIs(t, err, domainerrors.ErrFarmerAlreadyExists)
	assert.Equal(t, 2, env.txManager.executed)
}

func TestRegisterFarmerValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*usecase.RegisterFarmerInput)
	}{
		{"empty farmer ID", func(in *usecase.RegisterFarmerInput) { in.FarmerID = "  " }},
		{"latitude out of range", func(in *usecase.RegisterFarmerInput) { in.Latitude = 95 }},
		{"longitude out of range", func(in *usecase.RegisterFarmerInput) { in.Longitude = 181 }},
		{"soil pH above scale", func(in *usecase.RegisterFarmerInput) { in.SoilPH = 14.5 }},
		{"negative farm size", func(in *usecase.RegisterFarmerInput) { in.FarmSizeAcres = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := riceFarmerInput("F100", 26.1445, 91.7362)
			tt.mutate(&input)

			_, err := env.registry.RegisterFarmer(ctx, input)
			assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
		})
	}

	// Validation failures must not leave partial state behind.
	count, err := env.farmerRepo.CountFarmers(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRegisterFarmerDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustRegister(t, env, riceFarmerInput("F001", 26.1445, 91.7362))

	_, err := env.registry.RegisterFarmer(ctx, riceFarmerInput("F001", 26.2, 91.8))
	assert.ErrorIs(t, err, domainerrors.ErrFarmerAlreadyExists)
}

func TestGetFarmerUnknown(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.registry.GetFarmer(context.Background(), "ghost")
	assert.ErrorIs(t, err, domainerrors.ErrFarmerNotFound)
}

func TestUpdateFarmerLocation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustRegister(t, env, riceFarmerInput("F001", 26.1445, 91.7362))

	updated, err := env.registry.UpdateFarmerLocation(ctx, "F001", 26.2, 91.8)
	require.NoError(t, err)
	assert.True(t, updated)

	farmer, err := env.registry.GetFarmer(ctx, "F001")
	require.NoError(t, err)
	assert.InDelta(t, 26.2, farmer.Latitude, 1e-9)
	assert.InDelta(t, 91.8, farmer.Longitude, 1e-9)

	// Unknown farmers are skipped, not errors.
	updated, err = env.registry.UpdateFarmerLocation(ctx, "ghost", 26.2, 91.8)
	require.NoError(t, err)
	assert.False(t, updated)

	_, err = env.registry.UpdateFarmerLocation(ctx, "F001", 95, 91.8)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestGenerateShareCard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustRegister(t, env, riceFarmerInput("F001", 26.1445, 91.7362))

	png, err := env.registry.GenerateShareCard(ctx, "F001")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")))

	_, err = env.registry.GenerateShareCard(ctx, "ghost")
	assert.True(t, errors.Is(err, domainerrors.ErrFarmerNotFound))
}
