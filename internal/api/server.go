// Package api exposes the advisory pipeline over HTTP and MCP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sharath2004-tech/climate-disaster-sub000/internal/alert"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/forecast"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/monitor"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/pipeline"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/session"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/storage"
)

const maxChatBodySize = 1 << 20 // 1MB

type AppDeps struct {
	Advisor  *pipeline.Advisor
	Sessions *session.Manager
	Monitor  *monitor.Monitor
	Registry *prometheus.Registry
}

func NewAppHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", handleHealth)
	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat", handleChat(deps))
		r.Get("/risk-predictions", handleRiskPredictions(deps))
		r.Get("/alerts", handleAlerts(deps))
		r.Get("/sessions/{id}/export", handleExportSession(deps))
		r.Post("/sessions/{id}/clear", handleClearSession(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type ChatRequest struct {
	Message   string  `json:"message"`
	SessionID string  `json:"session_id"`
	Location  string  `json:"location"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Language  string  `json:"language"`
}

type ChatResponse struct {
	Response          string           `json:"response"`
	ProviderUsed      string           `json:"provider_used"`
	SessionID         string           `json:"session_id"`
	ForecastAvailable bool             `json:"forecast_available"`
	Urgent            bool             `json:"urgent"`
	Prediction        *json.RawMessage `json:"prediction,omitempty"`
}

func handleChat(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxChatBodySize)
		defer r.Body.Close()

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Message == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "message is required")
			return
		}

		resp, err := deps.Advisor.Turn(r.Context(), pipeline.TurnRequest{
			Message:        req.Message,
			SessionID:      req.SessionID,
			Location:       req.Location,
			Lat:            req.Lat,
			Lon:            req.Lon,
			Language:       req.Language,
			AlertSummaries: alertSummariesFor(deps.Monitor, req.Location),
		})
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "processing turn: %v", err)
			return
		}

		out := ChatResponse{
			Response:          resp.Text,
			ProviderUsed:      resp.Provider,
			SessionID:         resp.SessionID,
			ForecastAvailable: resp.ForecastAvailable,
			Urgent:            resp.Urgent,
		}
		if resp.Prediction != nil {
			if raw, err := json.Marshal(resp.Prediction); err == nil {
				rm := json.RawMessage(raw)
				out.Prediction = &rm
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// alertSummariesFor pulls the monitor's current alerts for a location. An
// unknown location or a nil monitor yields none, never an error.
func alertSummariesFor(m *monitor.Monitor, location string) []string {
	if m == nil {
		return nil
	}
	var matched []alert.Alert
	for _, a := range m.Alerts() {
		if location == "" || a.Location == location {
			matched = append(matched, a)
		}
	}
	return alert.Summaries(matched)
}

func handleRiskPredictions(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lat, lon, ok := coordinates(r)
		if ok {
			pred, err := deps.Advisor.Predict(r.Context(), lat, lon)
			if err != nil {
				if errors.Is(err, forecast.ErrUnavailable) {
					httpError(w, http.StatusBadGateway, "forecast_unavailable", "forecast source unavailable")
					return
				}
				httpError(w, http.StatusInternalServerError, "api_error", "classifying forecast: %v", err)
				return
			}
			writeJSON(w, http.StatusOK, pred)
			return
		}

		// Without coordinates, serve the monitor's latest sweep.
		if deps.Monitor == nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "lat and lon are required")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"locations": deps.Monitor.Snapshots(),
		})
	}
}

func handleAlerts(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var alerts []alert.Alert
		if lat, lon, ok := coordinates(r); ok {
			// On-demand derivation for arbitrary coordinates.
			pred, err := deps.Advisor.Predict(r.Context(), lat, lon)
			if err != nil {
				if errors.Is(err, forecast.ErrUnavailable) {
					httpError(w, http.StatusBadGateway, "forecast_unavailable", "forecast source unavailable")
					return
				}
				httpError(w, http.StatusInternalServerError, "api_error", "classifying forecast: %v", err)
				return
			}
			alerts = alert.FromPrediction(pred, r.URL.Query().Get("location"))
		} else if deps.Monitor != nil {
			alerts = deps.Monitor.Alerts()
		}
		if alerts == nil {
			alerts = []alert.Alert{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
	}
}

func handleExportSession(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		export, err := deps.Sessions.ExportFull(id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				httpError(w, http.StatusNotFound, "not_found_error", "session %s not found", id)
				return
			}
			httpError(w, http.StatusInternalServerError, "api_error", "exporting session: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, export)
	}
}

func handleClearSession(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		fresh, err := deps.Sessions.ArchiveAndReset(id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				httpError(w, http.StatusNotFound, "not_found_error", "session %s not found", id)
				return
			}
			httpError(w, http.StatusInternalServerError, "api_error", "clearing session: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"archived_session_id": id,
			"session_id":          fresh.ID,
		})
	}
}

func coordinates(r *http.Request) (lat, lon float64, ok bool) {
	latStr := r.URL.Query().Get("lat")
	lonStr := r.URL.Query().Get("lon")
	if latStr == "" || lonStr == "" {
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(latStr, "%f", &lat); err != nil {
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(lonStr, "%f", &lon); err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
