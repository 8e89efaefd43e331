package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vibracore/pkg/realtime"
	"vibracore/pkg/reliability"
	"vibracore/pkg/vibration"
)

// EventPublisher pushes envelopes onto the event bus. *bus.Publisher is
// the production implementation.
type EventPublisher interface {
	Publish(env realtime.Envelope) error
}

type Handler struct {
	Bus    EventPublisher
	Logger *slog.Logger
}

type errorResponse struct {
	Ok      bool   `json:"ok"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type weibullRequest struct {
	Shape    float64 `json:"shape"`
	Scale    float64 `json:"scale"`
	Location float64 `json:"location"`
}

func (r weibullRequest) params() reliability.Parameters {
	return reliability.Parameters{Shape: r.Shape, Scale: r.Scale, Location: r.Location}
}

type weibullMetricsResponse struct {
	MTTFHours       float64 `json:"mttfHours"`
	MedianLifeHours float64 `json:"medianLifeHours"`
	B10LifeHours    float64 `json:"b10LifeHours"`
	B50LifeHours    float64 `json:"b50LifeHours"`
}

type curveRequest struct {
	weibullRequest
	HorizonHours float64 `json:"horizonHours"`
	Points       int     `json:"points"`
}

type analyzeRequest struct {
	EquipmentID string              `json:"equipmentId"`
	Points      []vibration.Reading `json:"points"`
}

type analyzeResponse struct {
	EquipmentID string               `json:"equipmentId"`
	Assessment  vibration.Assessment `json:"assessment"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", handleHealthz)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/weibull/metrics", h.handleWeibullMetrics)
		r.Post("/weibull/curve", h.handleWeibullCurve)
		r.Post("/vibration/analyze", h.handleVibrationAnalyze)
		r.Get("/vibration/zones", h.handleVibrationZones)
	})
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *Handler) handleWeibullMetrics(w http.ResponseWriter, r *http.Request) {
	var req weibullRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: err.Error()})
		return
	}
	params := req.params()
	mttf, err := reliability.MeanTimeToFailure(params)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	median, err := reliability.MedianLife(params)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	b10, err := reliability.B10Life(params)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	b50, err := reliability.B50Life(params)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, weibullMetricsResponse{
		MTTFHours:       mttf,
		MedianLifeHours: median,
		B10LifeHours:    b10,
		B50LifeHours:    b50,
	})
}

func (h *Handler) handleWeibullCurve(w http.ResponseWriter, r *http.Request) {
	var req curveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: err.Error()})
		return
	}
	curve, err := reliability.Curve(req.params(), req.HorizonHours, req.Points)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"curve": curve})
}

func (h *Handler) handleVibrationAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: err.Error()})
		return
	}
	assessment, err := vibration.Analyze(req.Points)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	h.publishAlerts(req.EquipmentID, assessment.Alerts)
	writeJSON(w, http.StatusOK, analyzeResponse{EquipmentID: req.EquipmentID, Assessment: assessment})
}

func (h *Handler) handleVibrationZones(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"zones": vibration.Zones()})
}

// publishAlerts raises one alert_new envelope per CRITICAL line. Bus
// failures are logged, not surfaced: the assessment itself already
// succeeded.
func (h *Handler) publishAlerts(equipmentID string, alerts []string) {
	if h.Bus == nil {
		return
	}
	for _, msg := range alerts {
		env, err := realtime.NewEnvelope(realtime.EventAlertNew, realtime.Alert{
			ID:          uuid.NewString(),
			EquipmentID: equipmentID,
			Severity:    "critical",
			Message:     msg,
			TS:          time.Now().UTC(),
		})
		if err != nil {
			h.logError("failed to build alert envelope", err)
			continue
		}
		if err := h.Bus.Publish(env); err != nil {
			h.logError("failed to publish alert", err)
		}
	}
}

func (h *Handler) logError(msg string, err error) {
	if h.Logger != nil {
		h.Logger.Error(msg, slog.String("error", err.Error()))
	}
}

func writeEngineError(w http.ResponseWriter, err error) {
	var de *reliability.DomainError
	if errors.As(err, &de) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "DOMAIN_ERROR", Message: de.Error()})
		return
	}
	var ve *vibration.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "VALIDATION_ERROR", Message: ve.Error()})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Code: "INTERNAL", Message: "computation failed"})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
