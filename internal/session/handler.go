package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/ayurveda-clinic-platform/internal/backend"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/bookings"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/identity"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/wizard"
	"github.com/wolfman30/ayurveda-clinic-platform/pkg/logging"
)

// Handler exposes wizard sessions over HTTP. Every route expects the patient
// id in the request context.
type Handler struct {
	manager *Manager
	backend backend.Service
	now     func() time.Time
	logger  *logging.Logger
}

// NewHandler creates a new session handler
func NewHandler(manager *Manager, svc backend.Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{manager: manager, backend: svc, now: time.Now, logger: logger}
}

type openRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type sessionResponse struct {
	SessionID string      `json:"sessionId"`
	View      wizard.View `json:"view"`
}

type errorResponse struct {
	Error string       `json:"error"`
	View  *wizard.View `json:"view,omitempty"`
}

// Open handles POST /api/wizard/sessions
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	patientID, ok := identity.PatientIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing patient id"})
		return
	}
	var req openRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
	}

	s, err := h.manager.Open(r.Context(), patientID, wizard.Contact{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
	})
	if err != nil {
		h.logger.Error("failed to open wizard session", "error", err, "patient_id", patientID)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "Could not load your appointments. Try again."})
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: s.ID, View: s.Wizard.View()})
}

// View handles GET /api/wizard/sessions/{sessionID}
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Wizard.View())
}

// Close handles DELETE /api/wizard/sessions/{sessionID}
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	patientID, _ := identity.PatientIDFromContext(r.Context())
	if err := h.manager.Close(chi.URLParam(r, "sessionID"), patientID); err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Load handles POST /api/wizard/sessions/{sessionID}/load
func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.respond(w, s, s.Wizard.Load(r.Context()))
}

// SelectTherapy handles POST /api/wizard/sessions/{sessionID}/therapy
func (h *Handler) SelectTherapy(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		TherapyID string `json:"therapyId"`
	}
	if !decode(w, r, &req) {
		return
	}
	h.respond(w, s, s.Wizard.SelectTherapy(req.TherapyID))
}

// SelectDate handles POST /api/wizard/sessions/{sessionID}/date
func (h *Handler) SelectDate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Date string `json:"date"`
	}
	if !decode(w, r, &req) {
		return
	}
	h.respond(w, s, s.Wizard.SelectDate(r.Context(), req.Date))
}

// SelectTime handles POST /api/wizard/sessions/{sessionID}/time
func (h *Handler) SelectTime(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Time string `json:"time"`
	}
	if !decode(w, r, &req) {
		return
	}
	h.respond(w, s, s.Wizard.SelectTime(req.Time))
}

// SetNote handles POST /api/wizard/sessions/{sessionID}/note
func (h *Handler) SetNote(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Note string `json:"note"`
	}
	if !decode(w, r, &req) {
		return
	}
	h.respond(w, s, s.Wizard.SetNote(req.Note))
}

// Proceed handles POST /api/wizard/sessions/{sessionID}/proceed
func (h *Handler) Proceed(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.respond(w, s, s.Wizard.Proceed())
}

// Back handles POST /api/wizard/sessions/{sessionID}/back
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.respond(w, s, s.Wizard.Back())
}

// Reset handles POST /api/wizard/sessions/{sessionID}/reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Wizard.Reset()
	h.respond(w, s, nil)
}

type confirmResponse struct {
	Appointment bookings.Appointment `json:"appointment"`
	View        wizard.View          `json:"view"`
}

// Confirm handles POST /api/wizard/sessions/{sessionID}/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	apt, err := s.Wizard.Confirm(r.Context())
	if err != nil {
		h.respond(w, s, err)
		return
	}
	writeJSON(w, http.StatusCreated, confirmResponse{Appointment: apt, View: s.Wizard.View()})
}

// Appointment list views.
const (
	ViewAll       = "all"
	ViewUpcoming  = "upcoming"
	ViewPast      = "past"
	ViewCancelled = "cancelled"
)

type appointmentsResponse struct {
	View         string                 `json:"view"`
	Appointments []bookings.Appointment `json:"appointments"`
	Count        int                    `json:"count"`
}

// Appointments handles GET /api/wizard/sessions/{sessionID}/appointments?view=
func (h *Handler) Appointments(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	now := h.now()
	view := r.URL.Query().Get("view")
	var items []bookings.Appointment
	switch view {
	case "", ViewAll:
		view = ViewAll
		items = s.Store.Derived(now)
	case ViewUpcoming:
		items = s.Store.Upcoming(now)
	case ViewPast:
		items = s.Store.Past(now)
	case ViewCancelled:
		items = s.Store.Cancelled()
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "view must be all, upcoming, past or cancelled"})
		return
	}
	writeJSON(w, http.StatusOK, appointmentsResponse{View: view, Appointments: items, Count: len(items)})
}

// CancelAppointment handles POST /api/wizard/sessions/{sessionID}/appointments/{appointmentID}/cancel
func (h *Handler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	appointmentID := chi.URLParam(r, "appointmentID")

	if err := h.backend.CancelAppointment(r.Context(), appointmentID); err != nil && !backend.IsNotFound(err) {
		h.logger.Error("failed to cancel appointment", "error", err, "appointment_id", appointmentID)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "Could not cancel the appointment. Try again."})
		return
	}
	if !s.Store.Cancel(appointmentID) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "appointment not found"})
		return
	}

	apt, _ := s.Store.FindByID(appointmentID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "appointment": apt})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	patientID, _ := identity.PatientIDFromContext(r.Context())
	s, err := h.manager.Get(chi.URLParam(r, "sessionID"), patientID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return nil, false
	}
	return s, true
}

// respond writes the wizard view, or the error mapped to a status with the
// view attached.
func (h *Handler) respond(w http.ResponseWriter, s *Session, err error) {
	view := s.Wizard.View()
	if err == nil || errors.Is(err, wizard.ErrStaleResponse) {
		writeJSON(w, http.StatusOK, view)
		return
	}

	status, msg := statusFor(err, view)
	if status >= http.StatusInternalServerError {
		h.logger.Warn("wizard backend call failed", "session_id", s.ID, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: msg, View: &view})
}

func statusFor(err error, view wizard.View) (int, string) {
	var fe *backend.FetchError
	var be *backend.BookingError
	switch {
	case errors.As(err, &be):
		return http.StatusBadGateway, wizard.MsgBookingFailed
	case errors.As(err, &fe):
		if view.AvailabilityError != "" {
			return http.StatusBadGateway, view.AvailabilityError
		}
		if view.Error != "" {
			return http.StatusBadGateway, view.Error
		}
		return http.StatusBadGateway, err.Error()
	case errors.Is(err, wizard.ErrUnknownTherapy):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, wizard.ErrInvalidTransition),
		errors.Is(err, wizard.ErrIncomplete),
		errors.Is(err, wizard.ErrUnknownSlot),
		errors.Is(err, wizard.ErrAvailabilityPending):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
