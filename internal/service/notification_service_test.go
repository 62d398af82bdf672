package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/boss_timer_bot/internal/model"
	"github.com/Freeeeeet/boss_timer_bot/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

var testWindow = Window{Low: 570 * time.Second, High: 630 * time.Second}

type scanFixture struct {
	store    *fakeBossStore
	notifier *fakeNotifier
	svc      *NotificationService
}

func newScanFixture(t *testing.T, slots []model.FixedSlot, chats ChatResolver, logger *zap.Logger, bosses ...*model.Boss) *scanFixture {
	t.Helper()
	if logger == nil {
		logger = zaptest.NewLogger(t)
	}
	store := newFakeBossStore(bosses...)
	notifier := &fakeNotifier{}
	resolver := schedule.NewResolver(slots, 8*time.Hour)
	bossSvc := NewBossService(store, resolver, logger)
	return &scanFixture{
		store:    store,
		notifier: notifier,
		svc:      NewNotificationService(store, bossSvc, chats, notifier, testWindow, logger),
	}
}

var withChat = fakeChats{chatID: -100500, ok: true}

func TestScanIncludesOnlyWindow(t *testing.T) {
	now := time.Date(2026, 2, 10, 1, 0, 0, 0, time.UTC)
	f := newScanFixture(t, nil, withChat, nil,
		&model.Boss{ID: 1, Name: "Venatus", Level: 60, Location: "Corrupted Basin", AttackType: model.AttackTypeMagic, RespawnHours: 10, NextSpawnAt: timep(now.Add(10 * time.Minute))},
		&model.Boss{ID: 2, Name: "Baron", RespawnHours: 10, NextSpawnAt: timep(now.Add(15 * time.Minute))},
		&model.Boss{ID: 3, Name: "Livera", RespawnHours: 10},
	)

	report := f.svc.Scan(context.Background(), now)

	assert.Equal(t, 1, report.Matched)
	assert.Equal(t, 1, report.Sent)
	assert.NotEmpty(t, report.ScanID)
	require.Equal(t, []string{"Venatus"}, f.notifier.names())

	n := f.notifier.sent[0]
	assert.Equal(t, int64(-100500), f.notifier.chats[0])
	assert.Equal(t, now.Add(10*time.Minute), n.SpawnAt)
	assert.Equal(t, 60, n.Level)
	assert.Equal(t, "Corrupted Basin", n.Location)
	assert.Equal(t, model.AttackTypeMagic, n.AttackType)
	assert.False(t, n.Fixed)

	require.Len(t, f.store.dueCalls, 1)
	assert.Equal(t, now.Add(570*time.Second), f.store.dueCalls[0][0])
	assert.Equal(t, now.Add(630*time.Second), f.store.dueCalls[0][1])
	assert.Equal(t, []int64{1}, f.store.notifiedCalls)
}

func TestScanFailureDoesNotBlockOthers(t *testing.T) {
	now := time.Date(2026, 2, 10, 1, 0, 0, 0, time.UTC)
	core, logs := observer.New(zap.ErrorLevel)
	f := newScanFixture(t, nil, withChat, zap.New(core),
		&model.Boss{ID: 1, Name: "Venatus", RespawnHours: 10, NextSpawnAt: timep(now.Add(10 * time.Minute))},
		&model.Boss{ID: 2, Name: "Baron", RespawnHours: 10, NextSpawnAt: timep(now.Add(10 * time.Minute))},
	)
	f.notifier.NotifyFunc = func(n model.Notification) error {
		if n.Name == "Venatus" {
			return errors.New("telegram: too many requests")
		}
		return nil
	}

	report := f.svc.Scan(context.Background(), now)

	assert.ElementsMatch(t, []string{"Venatus", "Baron"}, f.notifier.names())
	assert.Equal(t, 2, report.Matched)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []int64{2}, f.store.notifiedCalls, "only delivered occurrences are marked")
	assert.Equal(t, 1, logs.FilterMessage("Failed to send spawn notification").Len())
}

func TestScanNotifierPanicIsContained(t *testing.T) {
	now := time.Date(2026, 2, 10, 1, 0, 0, 0, time.UTC)
	f := newScanFixture(t, nil, withChat, nil,
		&model.Boss{ID: 1, Name: "Venatus", RespawnHours: 10, NextSpawnAt: timep(now.Add(10 * time.Minute))},
		&model.Boss{ID: 2, Name: "Baron", RespawnHours: 10, NextSpawnAt: timep(now.Add(10 * time.Minute))},
	)
	f.notifier.NotifyFunc = func(n model.Notification) error {
		if n.Name == "Venatus" {
			panic("nil channel")
		}
		return nil
	}

	var report ScanReport
	require.NotPanics(t, func() { report = f.svc.Scan(context.Background(), now) })
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 1, report.Failed)
}

func TestScanStoreUnavailable(t *testing.T) {
	now := time.Date(2026, 2, 10, 1, 0, 0, 0, time.UTC)
	core, logs := observer.New(zap.ErrorLevel)
	f := newScanFixture(t, nil, withChat, zap.New(core))
	f.store.FindDueBetweenErr = errors.New("connection reset")

	report := f.svc.Scan(context.Background(), now)

	assert.Zero(t, report.Sent)
	assert.Empty(t, f.notifier.names())
	require.Equal(t, 1, logs.FilterMessage("Failed to query bosses due in window").Len())

	// Следующий тик работает как обычно
	f.store.FindDueBetweenErr = nil
	report = f.svc.Scan(context.Background(), now.Add(time.Minute))
	assert.Zero(t, report.Failed)
}

func TestScanWithoutDestinationIsIdle(t *testing.T) {
	now := time.Date(2026, 2, 10, 1, 0, 0, 0, time.UTC)
	f := newScanFixture(t, nil, fakeChats{}, nil,
		&model.Boss{ID: 1, Name: "Venatus", RespawnHours: 10, NextSpawnAt: timep(now.Add(10 * time.Minute))},
	)

	report := f.svc.Scan(context.Background(), now)

	assert.True(t, report.Idle)
	assert.Empty(t, f.notifier.names())
	assert.Empty(t, f.store.dueCalls)
}

func TestScanChatLookupFailure(t *testing.T) {
	now := time.Date(2026, 2, 10, 1, 0, 0, 0, time.UTC)
	f := newScanFixture(t, nil, fakeChats{err: errors.New("db down")}, nil,
		&model.Boss{ID: 1, Name: "Venatus", RespawnHours: 10, NextSpawnAt: timep(now.Add(10 * time.Minute))},
	)

	report := f.svc.Scan(context.Background(), now)

	assert.False(t, report.Idle)
	assert.Empty(t, f.notifier.names())
}

func TestScanConsecutiveWindowsNotifyOnce(t *testing.T) {
	start := time.Date(2026, 2, 10, 1, 0, 0, 0, time.UTC)
	spawn := start.Add(25*time.Minute + 17*time.Second)
	f := newScanFixture(t, nil, withChat, nil,
		&model.Boss{ID: 1, Name: "Venatus", RespawnHours: 10, NextSpawnAt: timep(spawn)},
	)

	for tick := start; tick.Before(spawn); tick = tick.Add(time.Minute) {
		f.svc.Scan(context.Background(), tick)
	}

	assert.Equal(t, []string{"Venatus"}, f.notifier.names())
}

func TestScanSkipsAlreadyNotifiedOccurrence(t *testing.T) {
	now := time.Date(2026, 2, 10, 1, 0, 0, 0, time.UTC)
	spawn := now.Add(10 * time.Minute)
	f := newScanFixture(t, nil, withChat, nil,
		&model.Boss{ID: 1, Name: "Venatus", RespawnHours: 10, NextSpawnAt: timep(spawn), NotifiedSpawnAt: timep(spawn)},
	)

	report := f.svc.Scan(context.Background(), now)

	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, f.notifier.names())
}

func TestScanMissedWindowIsNotRetried(t *testing.T) {
	now := time.Date(2026, 2, 10, 1, 0, 0, 0, time.UTC)
	f := newScanFixture(t, nil, withChat, nil,
		&model.Boss{ID: 1, Name: "Venatus", RespawnHours: 10, NextSpawnAt: timep(now.Add(9 * time.Minute))},
	)

	f.svc.Scan(context.Background(), now)

	assert.Empty(t, f.notifier.names())
}

func TestScanFixedSchedule(t *testing.T) {
	// Вторник 2026-02-10, слот Auraq в среду 21:00 (+8) = 13:00 UTC
	slots := []model.FixedSlot{{Weekday: 3, Hour: 21, Minute: 0, BossName: "Auraq"}}
	spawn := time.Date(2026, 2, 11, 13, 0, 0, 0, time.UTC)
	now := spawn.Add(-10 * time.Minute)

	t.Run("synthetic boss", func(t *testing.T) {
		f := newScanFixture(t, slots, withChat, nil)

		report := f.svc.Scan(context.Background(), now)

		require.Equal(t, []string{"Auraq"}, f.notifier.names())
		assert.True(t, f.notifier.sent[0].Fixed)
		assert.Equal(t, spawn, f.notifier.sent[0].SpawnAt)
		assert.Equal(t, 1, report.Sent)
		assert.Empty(t, f.store.notifiedCalls)
	})

	t.Run("persisted boss uses slot time, not stored time", func(t *testing.T) {
		f := newScanFixture(t, slots, withChat, nil,
			&model.Boss{ID: 7, Name: "Auraq", Level: 85, NextSpawnAt: timep(now.Add(10 * time.Minute))},
		)

		f.svc.Scan(context.Background(), now)
		require.Equal(t, []string{"Auraq"}, f.notifier.names(), "stored row must not double notify")
		assert.Equal(t, 85, f.notifier.sent[0].Level)
		assert.Equal(t, []int64{7}, f.store.notifiedCalls)

		f.svc.Scan(context.Background(), now.Add(30*time.Second))
		assert.Len(t, f.notifier.names(), 1, "marked occurrence is skipped")
	})

	t.Run("outside window", func(t *testing.T) {
		f := newScanFixture(t, slots, withChat, nil)
		f.svc.Scan(context.Background(), spawn.Add(-30*time.Minute))
		assert.Empty(t, f.notifier.names())
	})
}
