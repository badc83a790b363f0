package availability

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/wolfman30/ayurveda-clinic-platform/pkg/logging"
)

// Metrics records availability lookups.
type Metrics interface {
	ObserveAvailabilityCheck(result string, elapsed time.Duration)
}

// Handler serves availability queries over HTTP.
type Handler struct {
	checker Checker
	metrics Metrics
	logger  *logging.Logger
}

// NewHandler creates a new availability handler. metrics may be nil.
func NewHandler(checker Checker, metrics Metrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{checker: checker, metrics: metrics, logger: logger}
}

// CheckRequest is the body of an availability query.
type CheckRequest struct {
	TherapyID string `json:"therapyId" validate:"required,max=64"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate trims the request and checks its shape.
func (r *CheckRequest) Validate() error {
	r.TherapyID = strings.TrimSpace(r.TherapyID)
	r.Date = strings.TrimSpace(r.Date)
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid availability request: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid availability request: %w", err)
	}
	return nil
}

// Check handles POST /api/practitioners/availability
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	slots, err := h.checker.Check(r.Context(), req.TherapyID, req.Date)
	if err != nil {
		h.observe("error", start)
		h.logger.Error("availability check failed", "error", err, "therapy_id", req.TherapyID, "date", req.Date)
		http.Error(w, `{"error": "failed to check availability"}`, http.StatusBadGateway)
		return
	}
	result := NewResult(slots)
	if result.Available {
		h.observe("available", start)
	} else {
		h.observe("empty", start)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("failed to encode availability", "error", err)
	}
}

func (h *Handler) observe(result string, start time.Time) {
	if h.metrics != nil {
		h.metrics.ObserveAvailabilityCheck(result, time.Since(start))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
