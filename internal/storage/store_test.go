package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/sol-telemetry/internal/navigation"
	"github.com/roman-kulish/sol-telemetry/internal/sol"
	"github.com/roman-kulish/sol-telemetry/internal/spectrum"
	"github.com/roman-kulish/sol-telemetry/internal/temperature"
	"github.com/roman-kulish/sol-telemetry/internal/units"
)

func newSnapshot(number int, meanK float64, label string) sol.Snapshot {
	return sol.Snapshot{
		Sol:         number,
		Temperature: temperature.Summary{Mean: meanK, Median: meanK + 1, Min: meanK - 5, Max: meanK + 5, Count: 3},
		Navigation: sol.NavigationSummary{
			FinalDistance:  units.Meters(float64(number) * 10),
			FinalDirection: navigation.Right,
		},
		Sample: spectrum.Classification{Label: label},
	}
}

// forEachStore runs the test against every Store implementation
func forEachStore(t *testing.T, test func(t *testing.T, s Store)) {
	t.Run("sqlite", func(t *testing.T) {
		s := NewSqliteStore(filepath.Join(t.TempDir(), "telemetry.db"))
		t.Cleanup(func() { _ = s.Close() })
		test(t, s)
	})
	t.Run("memory", func(t *testing.T) {
		s := NewMemoryStore()
		t.Cleanup(func() { _ = s.Close() })
		test(t, s)
	})
}

func TestStore_Missions(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		first, err := s.CreateMission(ctx, "first")
		require.NoError(t, err)
		second, err := s.CreateMission(ctx, "second")
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		assert.Len(t, first.ID, 26)

		got, err := s.Mission(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
		assert.Equal(t, "first", got.Name)
		assert.WithinDuration(t, first.StartTime, got.StartTime, time.Millisecond)

		missions, err := s.Missions(ctx)
		require.NoError(t, err)
		require.Len(t, missions, 2)
		assert.Equal(t, first.ID, missions[0].ID)
		assert.Equal(t, second.ID, missions[1].ID)

		_, err = s.Mission(ctx, "missing")
		assert.ErrorIs(t, err, ErrMissionNotFound)
	})
}

func TestStore_Snapshots(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		m, err := s.CreateMission(ctx, "curiosity")
		require.NoError(t, err)

		// Out of order on purpose
		for _, snap := range []sol.Snapshot{
			newSnapshot(2, 250, "Iron"),
			newSnapshot(1, 240, spectrum.Unknown),
			newSnapshot(3, 260, "Sodium"),
		} {
			require.NoError(t, s.StoreSnapshot(ctx, m.ID, snap))
		}

		got, err := s.Snapshot(ctx, m.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, newSnapshot(2, 250, "Iron"), got)

		all, err := s.Snapshots(ctx, m.ID)
		require.NoError(t, err)
		require.Len(t, all, 3)
		for i, snap := range all {
			assert.Equal(t, i+1, snap.Sol)
		}
		assert.Equal(t, spectrum.Unknown, all[0].Sample.Label)

		_, err = s.Snapshot(ctx, m.ID, 9)
		assert.ErrorIs(t, err, sol.ErrSnapshotNotFound)
	})
}

func TestStore_SnapshotsAreImmutable(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		m, err := s.CreateMission(ctx, "opportunity")
		require.NoError(t, err)

		require.NoError(t, s.StoreSnapshot(ctx, m.ID, newSnapshot(1, 240, "Iron")))
		err = s.StoreSnapshot(ctx, m.ID, newSnapshot(1, 100, "Carbon"))
		assert.ErrorIs(t, err, ErrSnapshotExists)

		got, err := s.Snapshot(ctx, m.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, "Iron", got.Sample.Label)
	})
}

func TestStore_UnknownMission(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		// Make sure the schema exists before writing to an unknown mission
		_, err := s.CreateMission(ctx, "spirit")
		require.NoError(t, err)

		err = s.StoreSnapshot(ctx, "missing", newSnapshot(1, 240, "Iron"))
		assert.ErrorIs(t, err, ErrMissionNotFound)

		snapshots, err := s.Snapshots(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, snapshots)
	})
}

func TestSqliteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "telemetry.db")

	s := NewSqliteStore(path)
	m, err := s.CreateMission(ctx, "perseverance")
	require.NoError(t, err)
	require.NoError(t, s.StoreSnapshot(ctx, m.ID, newSnapshot(1, 230, "Silicon")))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "Close must be idempotent")

	reopened := NewSqliteStore(path)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.Snapshot(ctx, m.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Silicon", got.Sample.Label)
	assert.Equal(t, units.Meters(10), got.Navigation.FinalDistance)
}

func TestSqliteStore_CancelledFirstWrite(t *testing.T) {
	s := NewSqliteStore(filepath.Join(t.TempDir(), "telemetry.db"))
	t.Cleanup(func() { _ = s.Close() })

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.CreateMission(cancelled, "early")
	require.ErrorIs(t, err, context.Canceled)

	m, err := s.CreateMission(context.Background(), "curiosity")
	require.NoError(t, err)
	require.NoError(t, s.StoreSnapshot(context.Background(), m.ID, newSnapshot(1, 230, "Iron")))
}

func TestSqliteStore_StoresNames(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "telemetry.db")

	s := NewSqliteStore(path)
	t.Cleanup(func() { _ = s.Close() })

	m, err := s.CreateMission(ctx, "curiosity")
	require.NoError(t, err)
	require.NoError(t, s.StoreSnapshot(ctx, m.ID, newSnapshot(1, 230, "Iron")))

	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer raw.Close()

	var unit, direction string
	err = raw.QueryRowContext(ctx, "SELECT distance_unit, direction FROM snapshots WHERE mission_id = ? AND sol = 1", m.ID).
		Scan(&unit, &direction)
	require.NoError(t, err)
	assert.Equal(t, "meters", unit)
	assert.Equal(t, "Right", direction)

	_, err = raw.ExecContext(ctx, "UPDATE snapshots SET direction = 'Sideways' WHERE mission_id = ?", m.ID)
	require.NoError(t, err)

	_, err = s.Snapshot(ctx, m.ID, 1)
	assert.ErrorContains(t, err, "invalid direction")
}
