package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// SaveChoice records a picked treatment. Empty ID and CreatedAt are filled in.
func (s *Store) SaveChoice(ctx context.Context, c Choice) (Choice, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO choices (id, session_id, snapshot_id, problem, method, type, success_prob, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.SessionID, c.SnapshotID, c.Problem, c.Method, c.Type, c.SuccessProb, formatTime(c.CreatedAt),
	)
	if err != nil {
		return Choice{}, fmt.Errorf("saving choice: %w", err)
	}
	return c, nil
}

func (s *Store) GetChoice(ctx context.Context, id string) (Choice, error) {
	var c Choice
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, snapshot_id, problem, method, type, success_prob, created_at
		FROM choices WHERE id = ?`, id,
	).Scan(&c.ID, &c.SessionID, &c.SnapshotID, &c.Problem, &c.Method, &c.Type, &c.SuccessProb, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Choice{}, ErrNotFound
	}
	if err != nil {
		return Choice{}, err
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return Choice{}, err
	}
	return c, nil
}

// SaveFeedback rates an existing choice. It returns ErrNotFound when the
// choice does not exist and ErrInvalidRating for ratings outside 1..5.
func (s *Store) SaveFeedback(ctx context.Context, f Feedback) (Feedback, error) {
	if f.Rating < 1 || f.Rating > 5 {
		return Feedback{}, ErrInvalidRating
	}
	if _, err := s.GetChoice(ctx, f.ChoiceID); err != nil {
		return Feedback{}, err
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback (id, choice_id, rating, notes, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		f.ID, f.ChoiceID, f.Rating, f.Notes, formatTime(f.CreatedAt),
	)
	if err != nil {
		return Feedback{}, fmt.Errorf("saving feedback: %w", err)
	}
	return f, nil
}

// ListFeedback returns the feedback for a choice, oldest first.
func (s *Store) ListFeedback(ctx context.Context, choiceID string) ([]Feedback, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, choice_id, rating, notes, created_at
		FROM feedback WHERE choice_id = ? ORDER BY created_at ASC, rowid ASC`, choiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Feedback
	for rows.Next() {
		var f Feedback
		var createdAt string
		if err := rows.Scan(&f.ID, &f.ChoiceID, &f.Rating, &f.Notes, &createdAt); err != nil {
			return nil, err
		}
		if f.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		results = append(results, f)
	}
	return results, rows.Err()
}
