package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextFromKill(t *testing.T) {
	kill := time.Date(2026, 2, 10, 2, 23, 0, 0, time.UTC)

	next, err := NextFromKill(kill, 10)
	require.NoError(t, err)
	assert.Equal(t, kill.Add(10*time.Hour), next)
}

func TestRespawnRoundTrip(t *testing.T) {
	kills := []time.Time{
		time.Date(2026, 2, 10, 2, 23, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 23, 59, 59, 123000000, time.UTC),
		time.Unix(0, 0).UTC(),
	}

	for _, kill := range kills {
		for _, hours := range []int{1, 10, 24, 168} {
			next, err := NextFromKill(kill, hours)
			require.NoError(t, err)

			last, err := LastFromNext(next, hours)
			require.NoError(t, err)
			assert.True(t, kill.Equal(last), "kill=%s hours=%d", kill, hours)
		}
	}
}

func TestInvalidInterval(t *testing.T) {
	now := time.Now()
	for _, hours := range []int{0, -1, -24} {
		_, err := NextFromKill(now, hours)
		assert.ErrorIs(t, err, ErrInvalidInterval)

		_, err = LastFromNext(now, hours)
		assert.ErrorIs(t, err, ErrInvalidInterval)
	}
}
