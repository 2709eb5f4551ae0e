package icron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTriggerInfo(t *testing.T) {
	ref := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	info, err := GetTriggerInfo(time.Minute, ref)
	require.NoError(t, err)

	assert.Equal(t, "@every 1m0s", info.Expression)
	assert.Equal(t, ref.Add(time.Minute), info.Next)
	assert.Equal(t, time.Minute, info.TimeUntilNext)
}

func TestGetTriggerInfo_TruncatesSubSecondRef(t *testing.T) {
	ref := time.Date(2025, 3, 1, 12, 0, 0, 250*int(time.Millisecond), time.UTC)

	info, err := GetTriggerInfo(30*time.Second, ref)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 30, 0, time.UTC), info.Next)
	assert.Equal(t, 29750*time.Millisecond, info.TimeUntilNext)
}

func TestEvery_RejectsSubSecond(t *testing.T) {
	_, err := Every(500 * time.Millisecond)
	assert.Error(t, err)

	_, err = Every(0)
	assert.Error(t, err)
}
