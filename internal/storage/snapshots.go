package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// SaveSnapshot stores a request/response pair. Empty ID and CreatedAt are
// filled in; the stored record is returned.
func (s *Store) SaveSnapshot(ctx context.Context, snap Snapshot) (Snapshot, error) {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, session_id, created_at, request_json, response_json)
		VALUES (?, ?, ?, ?, ?)`,
		snap.ID, snap.SessionID, formatTime(snap.CreatedAt), snap.RequestJSON, snap.ResponseJSON,
	)
	if err != nil {
		return Snapshot{}, fmt.Errorf("saving snapshot: %w", err)
	}
	return snap, nil
}

func (s *Store) GetSnapshot(ctx context.Context, id string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, created_at, request_json, response_json
		FROM snapshots WHERE id = ?`, id)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	return snap, err
}

// ListSnapshots returns a session's snapshots, oldest first.
func (s *Store) ListSnapshots(ctx context.Context, sessionID string) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, created_at, request_json, response_json
		FROM snapshots WHERE session_id = ? ORDER BY created_at ASC, rowid ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, snap)
	}
	return results, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(sc scanner) (Snapshot, error) {
	var snap Snapshot
	var createdAt string
	if err := sc.Scan(&snap.ID, &snap.SessionID, &createdAt, &snap.RequestJSON, &snap.ResponseJSON); err != nil {
		return Snapshot{}, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return Snapshot{}, err
	}
	snap.CreatedAt = t
	return snap, nil
}
