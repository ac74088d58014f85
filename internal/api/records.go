package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/kalambet/skinrec/internal/skin"
	"github.com/kalambet/skinrec/internal/storage"
)

// SnapshotResponse is a stored exchange with its JSON bodies inlined.
type SnapshotResponse struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	CreatedAt time.Time       `json:"created_at"`
	Request   json.RawMessage `json:"request"`
	Response  json.RawMessage `json:"response"`
}

func toSnapshotResponse(s storage.Snapshot) SnapshotResponse {
	return SnapshotResponse{
		ID:        s.ID,
		SessionID: s.SessionID,
		CreatedAt: s.CreatedAt,
		Request:   json.RawMessage(s.RequestJSON),
		Response:  json.RawMessage(s.ResponseJSON),
	}
}

type ChoiceRequest struct {
	SessionID   string `json:"session_id" validate:"required,max=128"`
	SnapshotID  string `json:"snapshot_id,omitempty" validate:"omitempty,max=128"`
	Problem     string `json:"problem" validate:"required,max=200"`
	Method      string `json:"method" validate:"required,method"`
	Type        string `json:"type" validate:"required,max=200"`
	SuccessProb int    `json:"success_prob" validate:"gte=0,lte=100"`
}

type FeedbackRequest struct {
	ChoiceID string `json:"choice_id" validate:"required"`
	Rating   int    `json:"rating" validate:"gte=1,lte=5"`
	Notes    string `json:"notes,omitempty" validate:"max=2000"`
}

func requireStore(w http.ResponseWriter, deps Deps) bool {
	if deps.Store == nil {
		httpError(w, http.StatusServiceUnavailable, "api_error", "storage is disabled")
		return false
	}
	return true
}

func handleGetSnapshot(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStore(w, deps) {
			return
		}
		snap, err := deps.Store.GetSnapshot(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "snapshot not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get snapshot: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, toSnapshotResponse(snap))
	}
}

func handleListSnapshots(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStore(w, deps) {
			return
		}
		snaps, err := deps.Store.ListSnapshots(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list snapshots: %v", err)
			return
		}
		out := make([]SnapshotResponse, len(snaps))
		for i, s := range snaps {
			out[i] = toSnapshotResponse(s)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleCreateChoice(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStore(w, deps) {
			return
		}
		var req ChoiceRequest
		if !decodeBody(w, r, &req) {
			return
		}
		m, _ := skin.ParseMethod(req.Method)
		typ := req.Type
		if canonical, ok := m.CanonicalType(req.Type); ok {
			typ = canonical
		}

		c, err := deps.Store.SaveChoice(r.Context(), storage.Choice{
			SessionID:   req.SessionID,
			SnapshotID:  req.SnapshotID,
			Problem:     req.Problem,
			Method:      m.String(),
			Type:        typ,
			SuccessProb: req.SuccessProb,
		})
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save choice: %v", err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

func handleCreateFeedback(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStore(w, deps) {
			return
		}
		var req FeedbackRequest
		if !decodeBody(w, r, &req) {
			return
		}
		f, err := deps.Store.SaveFeedback(r.Context(), storage.Feedback{
			ChoiceID: req.ChoiceID,
			Rating:   req.Rating,
			Notes:    req.Notes,
		})
		switch {
		case errors.Is(err, storage.ErrNotFound):
			httpError(w, http.StatusNotFound, "not_found", "choice not found")
		case errors.Is(err, storage.ErrInvalidRating):
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
		case err != nil:
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save feedback: %v", err)
		default:
			writeJSON(w, http.StatusCreated, f)
		}
	}
}

func handleListFeedback(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStore(w, deps) {
			return
		}
		id := chi.URLParam(r, "id")
		if _, err := deps.Store.GetChoice(r.Context(), id); errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "choice not found")
			return
		} else if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get choice: %v", err)
			return
		}
		list, err := deps.Store.ListFeedback(r.Context(), id)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list feedback: %v", err)
			return
		}
		if list == nil {
			list = []storage.Feedback{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}
