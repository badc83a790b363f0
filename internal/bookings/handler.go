package bookings

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/ayurveda-clinic-platform/internal/identity"
	"github.com/wolfman30/ayurveda-clinic-platform/pkg/logging"
)

// Handler handles HTTP requests for appointments
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new bookings handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// CreateResponse is returned after a successful booking.
type CreateResponse struct {
	Success     bool         `json:"success"`
	BookingID   string       `json:"bookingId"`
	Appointment *Appointment `json:"appointment"`
}

// Create handles POST /api/appointments
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.PatientID) == "" {
		if patientID, ok := identity.PatientIDFromContext(r.Context()); ok {
			req.PatientID = patientID
		}
	}

	apt, err := h.service.Submit(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("failed to book appointment", "error", err, "therapy_id", req.TherapyID)
			writeJSON(w, status, map[string]string{"error": "failed to book appointment"})
			return
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, CreateResponse{
		Success:     true,
		BookingID:   apt.ID,
		Appointment: apt,
	})
}

// ListForPatient handles GET /api/patients/{patientID}/appointments
func (h *Handler) ListForPatient(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	if patientID == "" {
		http.Error(w, `{"error": "missing patient id"}`, http.StatusBadRequest)
		return
	}

	items, err := h.service.ListForPatient(r.Context(), patientID)
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err, "patient_id", patientID)
		http.Error(w, `{"error": "failed to list appointments"}`, http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []Appointment{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Cancel handles DELETE /api/appointments/{appointmentID}
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	appointmentID := chi.URLParam(r, "appointmentID")
	if appointmentID == "" {
		http.Error(w, `{"error": "missing appointment id"}`, http.StatusBadRequest)
		return
	}

	if _, err := h.service.Cancel(r.Context(), appointmentID); err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			http.Error(w, `{"error": "appointment not found"}`, http.StatusNotFound)
			return
		}
		h.logger.Error("failed to cancel appointment", "error", err, "appointment_id", appointmentID)
		http.Error(w, `{"error": "failed to cancel appointment"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnknownTherapy):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrSlotUnavailable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
