package therapies

import (
	"encoding/json"
	"net/http"

	"github.com/wolfman30/ayurveda-clinic-platform/pkg/logging"
)

// Handler serves the therapy catalog over HTTP.
type Handler struct {
	catalog Catalog
	logger  *logging.Logger
}

// NewHandler creates a new therapies handler
func NewHandler(catalog Catalog, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{catalog: catalog, logger: logger}
}

// List handles GET /api/therapies
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list therapies", "error", err)
		http.Error(w, `{"error": "failed to load therapies"}`, http.StatusBadGateway)
		return
	}
	if items == nil {
		items = []Therapy{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(items); err != nil {
		h.logger.Error("failed to encode therapies", "error", err)
	}
}
