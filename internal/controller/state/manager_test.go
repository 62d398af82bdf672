package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManagerDialogLifecycle(t *testing.T) {
	sm := NewManager(time.Minute)

	assert.Equal(t, StateNone, sm.GetState(1))

	sm.SetState(1, StateSetNextBoss)
	sm.SetData(1, DataBossID, int64(7))
	assert.Equal(t, StateSetNextBoss, sm.GetState(1))

	v, ok := sm.GetData(1, DataBossID)
	assert.True(t, ok)
	assert.Equal(t, int64(7), v)

	sm.SetState(1, StateSetNextTime)
	v, ok = sm.GetData(1, DataBossID)
	assert.True(t, ok, "data survives state change")
	assert.Equal(t, int64(7), v)

	sm.ClearState(1)
	assert.Equal(t, StateNone, sm.GetState(1))
	_, ok = sm.GetData(1, DataBossID)
	assert.False(t, ok)
}

func TestManagerExpiresAbandonedDialogs(t *testing.T) {
	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	sm := NewManager(time.Minute)
	sm.now = func() time.Time { return now }

	sm.SetState(1, StateSetNextTime)
	sm.SetData(1, DataBossID, int64(3))
	sm.SetState(2, StateSetNextBoss)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, StateNone, sm.GetState(1))
	_, ok := sm.GetData(1, DataBossID)
	assert.False(t, ok)

	assert.Equal(t, 2, sm.Cleanup())
	assert.Empty(t, sm.states)
}
