package handlers

import (
	"fmt"
	"testing"
	"time"

	"github.com/Freeeeeet/boss_timer_bot/internal/schedule"
	"github.com/Freeeeeet/boss_timer_bot/internal/service"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandArgs(t *testing.T) {
	cases := map[string]string{
		"/kill Venatus":                        "Venatus",
		"/kill@boss_bot  Venatus ":             "Venatus",
		"/kill":                                "",
		"/setnext Lady Dalia 2026-02-09 14:30": "Lady Dalia 2026-02-09 14:30",
		"plain text":                           "plain text",
	}
	for in, want := range cases {
		assert.Equal(t, want, commandArgs(in), in)
	}
}

func TestParseSetNextArgs(t *testing.T) {
	name, at, err := parseSetNextArgs("Lady Dalia 2026-02-09 14:30")
	require.NoError(t, err)
	assert.Equal(t, "Lady Dalia", name)
	assert.Equal(t, time.Date(2026, 2, 9, 14, 30, 0, 0, time.UTC), at)

	_, _, err = parseSetNextArgs("Venatus 14:30")
	assert.Error(t, err)

	_, _, err = parseSetNextArgs("Venatus 2026-13-01 14:30")
	assert.Error(t, err)
}

func TestParseSpawnTimeCollapsesSpaces(t *testing.T) {
	at, err := parseSpawnTime("  2026-02-09   07:05 ")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, at.Location())
	assert.Equal(t, 7, at.Hour())
	assert.Equal(t, 5, at.Minute())
}

func TestUserMessage(t *testing.T) {
	assert.Contains(t, userMessage(fmt.Errorf("x: %w", service.ErrBossNotFound), "Ven"), `"Ven"`)
	assert.Contains(t, userMessage(schedule.ErrInvalidInterval, "Clemantis"), "fixed weekly schedule")
	assert.Contains(t, userMessage(fmt.Errorf("x: %w", service.ErrInvalidSchedule), "Venatus"), "earlier than its last kill")
	assert.Equal(t, msgInternalError, userMessage(service.ErrStoreUnavailable, "x"))
}

func TestSenderIDFallsBackToChat(t *testing.T) {
	msg := &models.Message{Chat: models.Chat{ID: -100}}
	assert.Equal(t, int64(-100), senderID(msg))

	msg.From = &models.User{ID: 42}
	assert.Equal(t, int64(42), senderID(msg))
}
