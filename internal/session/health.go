package session

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/ayurveda-clinic-platform/internal/bookings"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/healthmetrics"
)

type healthResponse struct {
	Metrics  []healthmetrics.Metric        `json:"metrics"`
	Progress []healthmetrics.ProgressEntry `json:"progress"`
	Tips     []string                      `json:"tips"`
}

type updateMetricRequest struct {
	Value *int `json:"value"`
}

// Health handles GET /api/wizard/sessions/{sessionID}/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Metrics:  s.Health.Metrics(),
		Progress: s.Health.Progress(),
		Tips:     healthmetrics.WellnessTips(),
	})
}

// UpdateMetric handles PUT /api/wizard/sessions/{sessionID}/health/metrics/{metricID}
func (h *Handler) UpdateMetric(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req updateMetricRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Value == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "value is required"})
		return
	}
	m, err := s.Health.Update(chi.URLParam(r, "metricID"), *req.Value)
	if err != nil {
		writeJSON(w, healthStatus(err), errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// AddMetric handles POST /api/wizard/sessions/{sessionID}/health/metrics
func (h *Handler) AddMetric(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req healthmetrics.CustomMetric
	if !decode(w, r, &req) {
		return
	}
	m, err := s.Health.AddCustom(req)
	if err != nil {
		writeJSON(w, healthStatus(err), errorResponse{Error: err.Error()})
		return
	}
	h.logger.Info("custom health metric added", "session_id", s.ID, "metric_id", m.ID)
	writeJSON(w, http.StatusCreated, m)
}

// RecordProgress handles POST /api/wizard/sessions/{sessionID}/health/progress.
// Feedback is accepted only for appointments in the session's store that
// have already taken place.
func (h *Handler) RecordProgress(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req healthmetrics.Feedback
	if !decode(w, r, &req) {
		return
	}
	apt, found := s.Store.FindByID(req.AppointmentID)
	if !found {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "appointment not found"})
		return
	}
	if s.Store.Status(apt, h.now()) != bookings.StatusCompleted {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "feedback opens once the session has taken place"})
		return
	}

	entry, err := s.Health.Record(healthmetrics.Session{
		AppointmentID: apt.ID,
		TherapyID:     apt.TherapyID,
		Therapy:       apt.TherapyTitle,
		Date:          apt.Date,
	}, req)
	if err != nil {
		writeJSON(w, healthStatus(err), errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func healthStatus(err error) int {
	switch {
	case errors.Is(err, healthmetrics.ErrUnknownMetric):
		return http.StatusNotFound
	case errors.Is(err, healthmetrics.ErrDuplicateMetric):
		return http.StatusConflict
	case errors.Is(err, healthmetrics.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
