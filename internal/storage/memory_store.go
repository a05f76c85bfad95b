package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/roman-kulish/sol-telemetry/internal/sol"
)

// MemoryStore keeps missions and snapshots in process memory
type MemoryStore struct {
	mu        sync.RWMutex
	missions  []*Mission
	snapshots map[string][]sol.Snapshot
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string][]sol.Snapshot)}
}

// CreateMission starts a new mission with a time-ordered ULID
func (s *MemoryStore) CreateMission(ctx context.Context, name string) (*Mission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m := Mission{ID: newMissionID(now), Name: name, StartTime: now}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.missions = append(s.missions, &m)
	s.snapshots[m.ID] = nil

	c := m
	return &c, nil
}

func (s *MemoryStore) Mission(ctx context.Context, id string) (*Mission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.missions {
		if m.ID == id {
			c := *m
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: '%s'", ErrMissionNotFound, id)
}

func (s *MemoryStore) Missions(ctx context.Context) ([]*Mission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	missions := make([]*Mission, 0, len(s.missions))
	for _, m := range s.missions {
		c := *m
		missions = append(missions, &c)
	}
	return missions, nil
}

// StoreSnapshot saves a copy of a finalized Sol, keeping snapshots in Sol order
func (s *MemoryStore) StoreSnapshot(ctx context.Context, missionID string, snapshot sol.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.snapshots[missionID]
	if !ok {
		return fmt.Errorf("inserting snapshot of Sol %d: %w: '%s'", snapshot.Sol, ErrMissionNotFound, missionID)
	}

	i, found := slices.BinarySearchFunc(stored, snapshot.Sol, func(s sol.Snapshot, n int) int { return s.Sol - n })
	if found {
		return fmt.Errorf("inserting snapshot of Sol %d: %w", snapshot.Sol, ErrSnapshotExists)
	}

	s.snapshots[missionID] = slices.Insert(stored, i, snapshot)
	return nil
}

func (s *MemoryStore) Snapshot(ctx context.Context, missionID string, number int) (sol.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return sol.Snapshot{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.snapshots[missionID]
	i, found := slices.BinarySearchFunc(stored, number, func(s sol.Snapshot, n int) int { return s.Sol - n })
	if !found {
		return sol.Snapshot{}, fmt.Errorf("%w: Sol %d", sol.ErrSnapshotNotFound, number)
	}
	return stored[i], nil
}

// Snapshots returns all snapshots of a mission in Sol order
func (s *MemoryStore) Snapshots(ctx context.Context, missionID string) ([]sol.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.snapshots[missionID]), nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
