package index

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventIndexPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	now := time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)

	idx, err := NewEventIndex(path)
	require.NoError(t, err)
	assert.Empty(t, idx.Get("plants@2025-03-14"))

	idx.Set("plants@2025-03-14", "evt-1", now)
	require.NoError(t, idx.Save())

	reloaded, err := NewEventIndex(path)
	require.NoError(t, err)
	assert.Equal(t, "evt-1", reloaded.Get("plants@2025-03-14"))
}

func TestEventIndexPrune(t *testing.T) {
	idx, err := NewEventIndex(filepath.Join(t.TempDir(), "events.json"))
	require.NoError(t, err)

	now := time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)
	idx.Set("old", "evt-old", now.AddDate(0, -2, 0))
	idx.Set("new", "evt-new", now.AddDate(0, 0, -1))

	assert.Equal(t, 1, idx.Prune(now, DefaultRetention))
	assert.Empty(t, idx.Get("old"))
	assert.Equal(t, "evt-new", idx.Get("new"))

	idx.Remove("new")
	assert.Empty(t, idx.Get("new"))
}

func TestEventIndexNullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte("null"), 0o600))

	idx, err := NewEventIndex(path)
	require.NoError(t, err)
	idx.Set("k", "e", time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, "e", idx.Get("k"))
}
