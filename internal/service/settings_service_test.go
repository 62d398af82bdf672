package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNotificationChat(t *testing.T) {
	ctx := context.Background()

	t.Run("stored value wins", func(t *testing.T) {
		store := &fakeSettingsStore{values: map[string]string{SettingNotificationChannel: "-1001"}}
		svc := NewSettingsService(store, 42, zaptest.NewLogger(t))

		chatID, ok, err := svc.NotificationChat(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(-1001), chatID)
	})

	t.Run("fallback from config", func(t *testing.T) {
		svc := NewSettingsService(&fakeSettingsStore{}, 42, zaptest.NewLogger(t))

		chatID, ok, err := svc.NotificationChat(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(42), chatID)
	})

	t.Run("garbage value falls back", func(t *testing.T) {
		store := &fakeSettingsStore{values: map[string]string{SettingNotificationChannel: "general"}}
		svc := NewSettingsService(store, 0, zaptest.NewLogger(t))

		_, ok, err := svc.NotificationChat(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("store error", func(t *testing.T) {
		svc := NewSettingsService(&fakeSettingsStore{GetErr: errors.New("down")}, 42, zaptest.NewLogger(t))

		_, _, err := svc.NotificationChat(ctx)
		assert.ErrorIs(t, err, ErrStoreUnavailable)
	})
}

func TestSetNotificationChat(t *testing.T) {
	store := &fakeSettingsStore{}
	svc := NewSettingsService(store, 0, zaptest.NewLogger(t))

	require.NoError(t, svc.SetNotificationChat(context.Background(), -200))
	assert.Equal(t, "-200", store.values[SettingNotificationChannel])

	chatID, ok, err := svc.NotificationChat(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(-200), chatID)

	store.SetErr = errors.New("read only")
	assert.ErrorIs(t, svc.SetNotificationChat(context.Background(), 1), ErrStoreUnavailable)
}
