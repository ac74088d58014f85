package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidRating is returned for feedback ratings outside 1..5.
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// Snapshot is a saved recommendation request together with its response.
type Snapshot struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	CreatedAt    time.Time `json:"created_at"`
	RequestJSON  string    `json:"request_json"`
	ResponseJSON string    `json:"response_json"`
}

// Choice records the treatment a user picked from a response.
type Choice struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	SnapshotID  string    `json:"snapshot_id,omitempty"`
	Problem     string    `json:"problem"`
	Method      string    `json:"method"`
	Type        string    `json:"type"`
	SuccessProb int       `json:"success_prob"`
	CreatedAt   time.Time `json:"created_at"`
}

// Feedback is a 1..5 rating of a chosen treatment.
type Feedback struct {
	ID        string    `json:"id"`
	ChoiceID  string    `json:"choice_id"`
	Rating    int       `json:"rating"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
