package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRepository_AppendAndRecent(t *testing.T) {
	repo := newTestStore(t).History()

	for i := 1; i <= 5; i++ {
		e := &Entry{BindingID: "b", FingerCount: i, Command: "cmd"}
		require.NoError(t, repo.Append(e))
		assert.Equal(t, int64(i), e.ID)
		assert.False(t, e.CreatedAt.IsZero())
	}

	recent, err := repo.Recent(3)
	require.NoError(t, err)
	require.Len(t, recent, 3)

	// Newest first.
	assert.Equal(t, 5, recent[0].FingerCount)
	assert.Equal(t, 4, recent[1].FingerCount)
	assert.Equal(t, 3, recent[2].FingerCount)
	assert.Equal(t, "b", recent[0].BindingID)
}

func TestHistoryRepository_RecentDefaultLimit(t *testing.T) {
	repo := newTestStore(t).History()

	for i := 0; i < DefaultHistoryLimit+5; i++ {
		require.NoError(t, repo.Append(&Entry{FingerCount: 1, Command: "cmd"}))
	}

	recent, err := repo.Recent(0)
	require.NoError(t, err)
	assert.Len(t, recent, DefaultHistoryLimit)
}

func TestHistoryRepository_Clear(t *testing.T) {
	repo := newTestStore(t).History()

	require.NoError(t, repo.Append(&Entry{FingerCount: 2, Command: "next"}))
	require.NoError(t, repo.Clear())

	recent, err := repo.Recent(10)
	require.NoError(t, err)
	assert.NotNil(t, recent)
	assert.Empty(t, recent)
}
