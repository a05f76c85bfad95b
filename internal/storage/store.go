package storage

import (
	"context"
	"errors"
	"time"

	"github.com/roman-kulish/sol-telemetry/internal/sol"
)

var (
	// ErrMissionNotFound is returned when a mission id is not known to the store
	ErrMissionNotFound = errors.New("mission not found")

	// ErrSnapshotExists is returned when a snapshot for the same mission and Sol was already stored.
	// Stored snapshots are immutable.
	ErrSnapshotExists = errors.New("snapshot already exists")
)

// Mission is a single run of telemetry ingestion
type Mission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"startTime"`
}

// Store persists missions and their finalized Sol snapshots. Implementations
// are safe for concurrent use.
type Store interface {
	sol.Store

	// CreateMission starts a new mission and assigns it a unique, time-ordered id.
	CreateMission(ctx context.Context, name string) (*Mission, error)

	// Mission returns a mission by id, or ErrMissionNotFound.
	Mission(ctx context.Context, id string) (*Mission, error)

	// Missions returns all missions, oldest first.
	Missions(ctx context.Context) ([]*Mission, error)

	// Close releases all resources. It is safe to call Close multiple times.
	Close() error
}

var (
	_ Store = (*SqliteStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
