package recommend

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/wolfman30/ayurveda-clinic-platform/internal/therapies"
	"github.com/wolfman30/ayurveda-clinic-platform/pkg/logging"
)

// Handler serves therapy recommendations.
type Handler struct {
	recommender Recommender
	catalog     therapies.Catalog
	logger      *logging.Logger
}

// NewHandler creates a new recommendation handler.
func NewHandler(recommender Recommender, catalog therapies.Catalog, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{recommender: recommender, catalog: catalog, logger: logger}
}

type recommendRequest struct {
	Symptoms string `json:"symptoms"`
}

// Recommend handles POST /api/ai/recommend-therapy
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	rec, err := h.recommender.Recommend(r.Context(), req.Symptoms)
	if err != nil {
		if errors.Is(err, ErrNoSymptoms) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		h.logger.Error("recommendation failed", "error", err)
		http.Error(w, `{"error": "Failed to analyze symptoms. Please try again."}`, http.StatusBadGateway)
		return
	}

	if h.catalog != nil {
		items, err := h.catalog.List(r.Context())
		if err != nil {
			h.logger.Warn("recommendation catalog lookup failed", "error", err)
		} else {
			rec = Resolve(rec, items)
		}
	}
	writeJSON(w, http.StatusOK, rec)
}

// Suggestions handles GET /api/ai/symptom-suggestions
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	items := SymptomSuggestions()
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	writeJSON(w, http.StatusOK, items)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
