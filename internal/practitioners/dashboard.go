package practitioners

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/wolfman30/ayurveda-clinic-platform/internal/bookings"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/identity"
	"github.com/wolfman30/ayurveda-clinic-platform/pkg/logging"
)

// DayLister lists the appointments booked on a date.
type DayLister interface {
	ListForDate(ctx context.Context, date string) ([]bookings.Appointment, error)
}

// DashboardHandler serves the practitioner's schedule and booking stats.
type DashboardHandler struct {
	days   DayLister
	db     *sql.DB
	loc    *time.Location
	now    func() time.Time
	logger *logging.Logger
}

// NewDashboardHandler creates the practitioner dashboard handler. db may be
// nil when no database is configured; Stats then answers 503.
func NewDashboardHandler(days DayLister, db *sql.DB, loc *time.Location, logger *logging.Logger) *DashboardHandler {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DashboardHandler{days: days, db: db, loc: loc, now: time.Now, logger: logger}
}

// ScheduleResponse is the day view of the practitioner's appointments.
type ScheduleResponse struct {
	Date           string                 `json:"date"`
	PractitionerID string                 `json:"practitionerId,omitempty"`
	Appointments   []bookings.Appointment `json:"appointments"`
	Confirmed      int                    `json:"confirmed"`
	Cancelled      int                    `json:"cancelled"`
}

// Schedule handles GET /api/practitioner/schedule?date=YYYY-MM-DD
func (h *DashboardHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.today()
	} else if _, err := time.Parse(bookings.DateLayout, date); err != nil {
		http.Error(w, `{"error": "date must be YYYY-MM-DD"}`, http.StatusBadRequest)
		return
	}

	items, err := h.days.ListForDate(r.Context(), date)
	if err != nil {
		h.logger.Error("failed to load schedule", "error", err, "date", date)
		http.Error(w, `{"error": "failed to load schedule"}`, http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []bookings.Appointment{}
	}

	resp := ScheduleResponse{Date: date, Appointments: items}
	resp.PractitionerID, _ = identity.PractitionerIDFromContext(r.Context())
	for _, apt := range items {
		switch apt.Status {
		case bookings.StatusCancelled:
			resp.Cancelled++
		default:
			resp.Confirmed++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// StatsResponse aggregates appointments by derived status.
type StatsResponse struct {
	AsOf      string  `json:"asOf"`
	Upcoming  int     `json:"upcoming"`
	Completed int     `json:"completed"`
	Cancelled int     `json:"cancelled"`
	Revenue   float64 `json:"revenue"`
}

// statsQuery splits confirmed appointments on their start instant. $1 is the
// clinic's wall clock, matching the appointments' local date and time columns.
const statsQuery = `
	SELECT
		COUNT(*) FILTER (WHERE status = 'confirmed' AND appointment_date + appointment_time > $1::timestamp),
		COUNT(*) FILTER (WHERE status = 'completed' OR (status = 'confirmed' AND appointment_date + appointment_time <= $1::timestamp)),
		COUNT(*) FILTER (WHERE status = 'cancelled'),
		COALESCE(SUM(price) FILTER (WHERE status <> 'cancelled'), 0)
	FROM appointments
`

const wallClockLayout = "2006-01-02 15:04:05"

// Stats handles GET /api/practitioner/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		http.Error(w, `{"error": "stats require a database"}`, http.StatusServiceUnavailable)
		return
	}

	now := h.now().In(h.loc)
	resp := StatsResponse{AsOf: now.Format(bookings.DateLayout)}
	err := h.db.QueryRowContext(r.Context(), statsQuery, now.Format(wallClockLayout)).
		Scan(&resp.Upcoming, &resp.Completed, &resp.Cancelled, &resp.Revenue)
	if err != nil {
		h.logger.Error("failed to load practitioner stats", "error", err)
		http.Error(w, `{"error": "failed to load stats"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *DashboardHandler) today() string {
	return h.now().In(h.loc).Format(bookings.DateLayout)
}
