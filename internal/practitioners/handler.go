package practitioners

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/ayurveda-clinic-platform/pkg/logging"
)

// Handler serves practitioner profiles.
type Handler struct {
	directory Directory
	logger    *logging.Logger
}

// NewHandler creates a new practitioners handler
func NewHandler(directory Directory, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{directory: directory, logger: logger}
}

// Get handles GET /api/practitioners/{practitionerID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "practitionerID")
	p, err := h.directory.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPractitionerNotFound) {
			http.Error(w, `{"error": "practitioner not found"}`, http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load practitioner", "error", err, "practitioner_id", id)
		http.Error(w, `{"error": "failed to load practitioner"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
