package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/kalambet/skinrec/internal/profile"
	"github.com/kalambet/skinrec/internal/recommend"
	"github.com/kalambet/skinrec/internal/skin"
	"github.com/kalambet/skinrec/internal/storage"
)

// RecommendRequest is the questionnaire payload. When Problems is empty they
// are derived from Symptoms.
type RecommendRequest struct {
	SessionID         string   `json:"session_id,omitempty" validate:"omitempty,max=128"`
	Problems          []string `json:"problems" validate:"max=20,dive,required,max=200"`
	SkinType          string   `json:"skin_type" validate:"required,skin_type"`
	AgeRange          string   `json:"age_range" validate:"required,age_range"`
	Symptoms          []string `json:"symptoms" validate:"max=50,dive,max=200"`
	Allergies         []string `json:"allergies" validate:"max=50,dive,max=200"`
	Contraindications []string `json:"contraindications" validate:"max=50,dive,max=200"`
	IsPregnant        bool     `json:"is_pregnant"`
	TopPerProblem     int      `json:"top_per_problem" validate:"gte=0,lte=10"`
}

// Profile converts the request into a scoring profile.
func (req RecommendRequest) Profile(symptoms *skin.SymptomMap) (profile.Profile, error) {
	st, err := skin.ParseSkinType(req.SkinType)
	if err != nil {
		return profile.Profile{}, err
	}
	ar, err := skin.ParseAgeRange(req.AgeRange)
	if err != nil {
		return profile.Profile{}, err
	}
	problems := req.Problems
	if len(problems) == 0 {
		problems = symptoms.Problems(req.Symptoms)
	}
	return profile.Profile{
		SkinType:          st,
		AgeRange:          ar,
		Problems:          problems,
		Symptoms:          req.Symptoms,
		Allergies:         req.Allergies,
		Contraindications: req.Contraindications,
		IsPregnant:        req.IsPregnant,
	}, nil
}

// Recommend validates req and runs it through the engine.
func Recommend(ctx context.Context, engine *recommend.Engine, symptoms *skin.SymptomMap, req RecommendRequest) ([]recommend.ProblemResult, error) {
	if err := validateStruct(&req); err != nil {
		return nil, err
	}
	p, err := req.Profile(symptoms)
	if err != nil {
		return nil, err
	}
	return engine.Recommend(ctx, p, req.TopPerProblem)
}

func handleRecommend(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RecommendRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.SessionID == "" {
			req.SessionID = uuid.NewString()
		}

		p, err := req.Profile(deps.Symptoms)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}
		results, err := deps.Engine.Recommend(r.Context(), p, req.TopPerProblem)
		if err != nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "recommendation aborted: %v", err)
			return
		}

		w.Header().Set("X-Session-ID", req.SessionID)
		if id, err := saveSnapshot(r.Context(), deps, req, results); err != nil {
			deps.logger().Error("saving snapshot", "session_id", req.SessionID, "error", err)
		} else if id != "" {
			w.Header().Set("X-Snapshot-ID", id)
		}
		writeJSON(w, http.StatusOK, results)
	}
}

// saveSnapshot persists the exchange; it returns "" when snapshots are off.
func saveSnapshot(ctx context.Context, deps Deps, req RecommendRequest, results []recommend.ProblemResult) (string, error) {
	if deps.Store == nil || !deps.SnapshotsEnabled {
		return "", nil
	}
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshalling request: %w", err)
	}
	respJSON, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("marshalling response: %w", err)
	}
	snap, err := deps.Store.SaveSnapshot(ctx, storage.Snapshot{
		SessionID:    req.SessionID,
		RequestJSON:  string(reqJSON),
		ResponseJSON: string(respJSON),
	})
	if err != nil {
		return "", err
	}
	return snap.ID, nil
}
