package handlers

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/boss_timer_bot/internal/model"
	"github.com/Freeeeeet/boss_timer_bot/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fmtNow = time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := fmtNow.Add(d)
	return &t
}

func TestFormatSpawnTime(t *testing.T) {
	assert.Equal(t, "Not Scheduled", FormatSpawnTime(nil))
	assert.Equal(t, "Feb 9, 2026 2:30 PM UTC", FormatSpawnTime(at(150*time.Minute)))
}

func TestFormatBossTablesChunks(t *testing.T) {
	var bosses []*model.Boss
	for i := 0; i < tableChunkSize+3; i++ {
		bosses = append(bosses, &model.Boss{
			ID:           int64(i + 1),
			Name:         fmt.Sprintf("Boss%02d", i),
			Level:        40 + i,
			RespawnHours: 10,
			NextSpawnAt:  at(time.Duration(i) * time.Hour),
		})
	}

	chunks := FormatBossTables("Field", bosses, fmtNow)

	require.Len(t, chunks, 2)
	assert.Contains(t, chunks[0], "part 1")
	assert.Contains(t, chunks[1], "part 2")
	assert.Contains(t, chunks[0], "Boss00")
	assert.Contains(t, chunks[1], "Boss17")
	assert.True(t, strings.Contains(chunks[0], "<pre>"))
}

func TestFormatBossTablesEscapesAndMarksFixed(t *testing.T) {
	bosses := []*model.Boss{
		{ID: -9000, Name: "<Saphirus>", NextSpawnAt: at(30 * time.Minute)},
		{ID: 2, Name: "Venatus", RespawnHours: 10},
	}

	chunks := FormatBossTables("Fixed", bosses, fmtNow)

	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0], "&lt;Saphirus&gt;")
	assert.Contains(t, chunks[0], "fixed")
	assert.Contains(t, chunks[0], "10h")
	assert.Contains(t, chunks[0], "Not Scheduled")
	assert.Contains(t, chunks[0], "??")
}

func TestFormatOverviewEmpty(t *testing.T) {
	assert.Empty(t, FormatOverview(&service.Overview{}, fmtNow))
}

func TestFormatNearest(t *testing.T) {
	assert.Contains(t, FormatNearest(nil, fmtNow), "No upcoming spawns")

	occ := &model.Occurrence{
		Boss:    &model.Boss{Name: "Clemantis", Location: "Fixed Event"},
		SpawnAt: fmtNow.Add(time.Hour + 2*time.Minute),
		Fixed:   true,
	}
	text := FormatNearest(occ, fmtNow)
	assert.Contains(t, text, "Clemantis")
	assert.Contains(t, text, "fixed event")
	assert.Contains(t, text, "1h 2m 0s")
}

func TestFormatSpawnNotification(t *testing.T) {
	n := model.Notification{
		Name:    "Clemantis",
		SpawnAt: fmtNow.Add(9*time.Minute + 40*time.Second),
		Fixed:   true,
	}

	text := FormatSpawnNotification(n, fmtNow)

	assert.Contains(t, text, "approximately <b>10 minutes</b>")
	assert.Contains(t, text, "Level: ??")
	assert.Contains(t, text, "Location: Unknown")
	assert.Contains(t, text, "Fixed event")
}
