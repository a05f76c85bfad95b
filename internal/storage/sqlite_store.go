package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roman-kulish/sol-telemetry/internal/sol"
)

// SqliteStore persists missions and snapshots in a sqlite database file.
// Writes go through a single WAL connection, reads through a read-only one.
// Both connections are opened lazily on first use.
type SqliteStore struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a store backed by the database file at dbPath.
// The schema is created on the first write.
func NewSqliteStore(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

// getWriteDB opens the write connection and creates the schema once. The
// schema is not bound to a caller's context: a failed Once is permanent.
func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=1"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}
		db.SetMaxOpenConns(1)

		if err = runSQLCommand(context.Background(), db, initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

// CreateMission starts a new mission with a time-ordered ULID
func (s *SqliteStore) CreateMission(ctx context.Context, name string) (mission *Mission, err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return nil, fmt.Errorf("getting write connection: %w", err)
	}

	now := time.Now().UTC()
	m := Mission{
		ID:        newMissionID(now),
		Name:      name,
		StartTime: now,
	}

	stmt, err := db.PrepareContext(ctx, insertMissionSQL)
	if err != nil {
		return nil, fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	if _, err = stmt.ExecContext(ctx, m.ID, m.Name, m.StartTime); err != nil {
		return nil, fmt.Errorf("inserting mission: %w", err)
	}

	return &m, nil
}

// Mission returns the mission with the given id or ErrMissionNotFound
func (s *SqliteStore) Mission(ctx context.Context, id string) (mission *Mission, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	var m Mission
	if err = db.QueryRowContext(ctx, selectMissionSQL, id).Scan(&m.ID, &m.Name, &m.StartTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: '%s'", ErrMissionNotFound, id)
		}
		return nil, fmt.Errorf("scanning mission: %w", err)
	}

	return &m, nil
}

// Missions returns all missions, oldest first
func (s *SqliteStore) Missions(ctx context.Context) (missions []*Mission, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	rows, err := db.QueryContext(ctx, selectMissionsSQL)
	if err != nil {
		return nil, fmt.Errorf("querying missions: %w", err)
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var m Mission
		if err = rows.Scan(&m.ID, &m.Name, &m.StartTime); err != nil {
			return nil, fmt.Errorf("scanning mission: %w", err)
		}
		missions = append(missions, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating missions: %w", err)
	}

	return missions, nil
}

// StoreSnapshot saves a finalized Sol. A second snapshot for the same Sol
// fails with ErrSnapshotExists and an unknown mission with ErrMissionNotFound.
func (s *SqliteStore) StoreSnapshot(ctx context.Context, missionID string, snapshot sol.Snapshot) (err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	data := toSnapshotData(snapshot)
	if _, err = tx.ExecContext(ctx, insertSnapshotSQL, data.args(missionID)...); err != nil {
		return fmt.Errorf("inserting snapshot of Sol %d: %w", snapshot.Sol, translateError(err))
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// Snapshot returns the snapshot of one Sol or sol.ErrSnapshotNotFound
func (s *SqliteStore) Snapshot(ctx context.Context, missionID string, number int) (snapshot sol.Snapshot, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return sol.Snapshot{}, fmt.Errorf("getting read connection: %w", err)
	}

	var data snapshotData
	if err = data.scan(db.QueryRowContext(ctx, selectSnapshotSQL, missionID, number)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sol.Snapshot{}, fmt.Errorf("%w: Sol %d", sol.ErrSnapshotNotFound, number)
		}
		return sol.Snapshot{}, fmt.Errorf("scanning snapshot: %w", err)
	}

	return data.toSnapshot()
}

// Snapshots returns all snapshots of a mission in Sol order
func (s *SqliteStore) Snapshots(ctx context.Context, missionID string) (snapshots []sol.Snapshot, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	rows, err := db.QueryContext(ctx, selectSnapshotsSQL, missionID)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var data snapshotData
		if err = data.scan(rows); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		snapshot, err := data.toSnapshot()
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}

	return snapshots, nil
}

// Close closes both connections. It is safe to call more than once.
func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		s.closeErr = errors.Join(writeErr, readErr)
	})

	return s.closeErr
}
