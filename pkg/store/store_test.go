package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/systasks/pkg/model"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	out := make(map[string]Store)
	for _, kind := range []string{BackendFile, BackendSQLite} {
		s, err := Open(kind, t.TempDir())
		require.NoError(t, err, kind)
		t.Cleanup(func() { s.Close() })
		out[kind] = s
	}
	return out
}

func sampleTasks() []model.Task {
	paris := time.FixedZone("CET", 3600)
	return []model.Task{
		{
			ID:       "page-backup",
			Name:     "Sauvegarde",
			Category: "💾 Numérique",
			Previous: time.Date(2025, 2, 10, 0, 0, 0, 0, paris),
			Next:     time.Date(2025, 3, 12, 0, 0, 0, 0, paris),
			Days:     -2,
		},
		{
			ID:      "page-vacuum",
			Name:    "Aspirateur",
			Next:    time.Date(2025, 3, 19, 0, 0, 0, 0, paris),
			Days:    5,
			Actions: "Vider le bac",
		},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	savedAt := time.Date(2025, 3, 14, 7, 30, 0, 0, time.UTC)
	for kind, s := range backends(t) {
		t.Run(kind, func(t *testing.T) {
			want := sampleTasks()
			require.NoError(t, s.SaveSnapshot(want, savedAt))

			snap, err := s.LoadSnapshot()
			require.NoError(t, err)
			require.Len(t, snap.Tasks, len(want))
			for i := range want {
				assert.Equal(t, want[i].ID, snap.Tasks[i].ID)
				assert.Equal(t, want[i].Name, snap.Tasks[i].Name)
				assert.True(t, want[i].Next.Equal(snap.Tasks[i].Next), "next date of %s", want[i].ID)
				assert.True(t, want[i].Previous.Equal(snap.Tasks[i].Previous), "previous date of %s", want[i].ID)
				assert.Equal(t, want[i].Days, snap.Tasks[i].Days)
			}
			assert.WithinDuration(t, savedAt, snap.SavedAt, time.Second)
		})
	}
}

func TestSnapshotMissing(t *testing.T) {
	for kind, s := range backends(t) {
		t.Run(kind, func(t *testing.T) {
			_, err := s.LoadSnapshot()
			assert.ErrorIs(t, err, ErrNoSnapshot)
		})
	}
}

func TestLedgerRoundTrip(t *testing.T) {
	for kind, s := range backends(t) {
		t.Run(kind, func(t *testing.T) {
			entries, err := s.LoadLedger()
			require.NoError(t, err)
			assert.Nil(t, entries)

			want := []model.LedgerEntry{
				{ID: "page-backup", Name: "Sauvegarde", LastNotifiedDate: "2025-03-14", EveningNotified: true},
				{ID: "page-vacuum", Name: "Aspirateur"},
			}
			require.NoError(t, s.SaveLedger(want))

			got, err := s.LoadLedger()
			require.NoError(t, err)
			assert.Equal(t, want, got)

			// Overwrite keeps a single row / file.
			require.NoError(t, s.SaveLedger(want[:1]))
			got, err = s.LoadLedger()
			require.NoError(t, err)
			assert.Equal(t, want[:1], got)
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("redis", t.TempDir())
	assert.Error(t, err)
}
