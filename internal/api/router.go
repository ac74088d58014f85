// Package api serves the recommendation engine over HTTP and MCP.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kalambet/skinrec/internal/metrics"
	"github.com/kalambet/skinrec/internal/recommend"
	"github.com/kalambet/skinrec/internal/skin"
	"github.com/kalambet/skinrec/internal/storage"
)

// Deps holds what the HTTP handlers need.
type Deps struct {
	Engine   *recommend.Engine
	Symptoms *skin.SymptomMap
	// Store is optional; without it snapshots are not saved and the
	// choice/feedback routes answer 503.
	Store            *storage.Store
	SnapshotsEnabled bool
	// Token enables bearer authentication when non-empty.
	Token string
	// RateLimit is requests per minute per client IP; 0 disables it.
	RateLimit int
	Logger    *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// NewHandler returns the HTTP API.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(instrument)

	r.Get("/health", handleHealth(deps))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if deps.RateLimit > 0 {
			r.Use(httprate.LimitByIP(deps.RateLimit, time.Minute))
		}
		if deps.Token != "" {
			r.Use(RequireToken(deps.Token))
		}

		r.Post("/recommend", handleRecommend(deps))
		r.Get("/symptoms", handleSymptoms(deps))

		r.Get("/snapshots/{id}", handleGetSnapshot(deps))
		r.Get("/sessions/{id}/snapshots", handleListSnapshots(deps))
		r.Post("/choices", handleCreateChoice(deps))
		r.Get("/choices/{id}/feedback", handleListFeedback(deps))
		r.Post("/feedback", handleCreateFeedback(deps))
	})

	return r
}

// instrument counts every request by route pattern and status code.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		var route string
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordHTTPRequest(route, status)
	})
}

func handleHealth(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{
			"status":    "ok",
			"templates": deps.Engine.Catalog().Len(),
			"strategy":  deps.Engine.Strategy(),
		}
		if deps.Store != nil {
			v, err := deps.Store.SchemaVersion(r.Context())
			if err != nil {
				deps.logger().ErrorContext(r.Context(), "health: schema version", "error", err)
				httpError(w, http.StatusServiceUnavailable, "api_error", "storage unavailable")
				return
			}
			body["schema_version"] = v
		}
		writeJSON(w, http.StatusOK, body)
	}
}

func handleSymptoms(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, deps.Symptoms.Groups())
	}
}
