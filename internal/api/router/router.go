package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/ayurveda-clinic-platform/internal/availability"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/bookings"
	httpmiddleware "github.com/wolfman30/ayurveda-clinic-platform/internal/http/middleware"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/practitioners"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/recommend"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/session"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/therapies"
	"github.com/wolfman30/ayurveda-clinic-platform/pkg/logging"
)

// Config holds router configuration. Nil handlers leave their routes
// unmounted.
type Config struct {
	Logger              *logging.Logger
	TherapiesHandler    *therapies.Handler
	AvailabilityHandler *availability.Handler
	BookingsHandler     *bookings.Handler
	RecommendHandler    *recommend.Handler
	PractitionerHandler *practitioners.Handler
	SessionHandler      *session.Handler

	// Practitioner dashboard, behind PractitionerJWT.
	DashboardHandler      *practitioners.DashboardHandler
	PractitionerJWTSecret string

	MetricsHandler     http.Handler
	HealthCheck        func() error
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthHandler(cfg.HealthCheck))
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.RateLimitRPS > 0 {
			api.Use(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
		}

		if cfg.TherapiesHandler != nil {
			api.Get("/therapies", cfg.TherapiesHandler.List)
		}
		if cfg.AvailabilityHandler != nil {
			api.Post("/practitioners/availability", cfg.AvailabilityHandler.Check)
		}
		if cfg.PractitionerHandler != nil {
			api.Get("/practitioners/{practitionerID}", cfg.PractitionerHandler.Get)
		}
		if cfg.RecommendHandler != nil {
			api.Route("/ai", func(ai chi.Router) {
				ai.Post("/recommend-therapy", cfg.RecommendHandler.Recommend)
				ai.Get("/symptom-suggestions", cfg.RecommendHandler.Suggestions)
			})
		}

		if cfg.BookingsHandler != nil {
			api.Group(func(patient chi.Router) {
				patient.Use(optionalPatientID)
				patient.Post("/appointments", cfg.BookingsHandler.Create)
				patient.Delete("/appointments/{appointmentID}", cfg.BookingsHandler.Cancel)
				patient.Get("/patients/{patientID}/appointments", cfg.BookingsHandler.ListForPatient)
			})
		}

		if cfg.SessionHandler != nil {
			h := cfg.SessionHandler
			api.Route("/wizard/sessions", func(ws chi.Router) {
				ws.Use(requirePatientID)
				ws.Post("/", h.Open)
				ws.Route("/{sessionID}", func(s chi.Router) {
					s.Get("/", h.View)
					s.Delete("/", h.Close)
					s.Post("/load", h.Load)
					s.Post("/therapy", h.SelectTherapy)
					s.Post("/date", h.SelectDate)
					s.Post("/time", h.SelectTime)
					s.Post("/note", h.SetNote)
					s.Post("/proceed", h.Proceed)
					s.Post("/back", h.Back)
					s.Post("/confirm", h.Confirm)
					s.Post("/reset", h.Reset)
					s.Get("/appointments", h.Appointments)
					s.Post("/appointments/{appointmentID}/cancel", h.CancelAppointment)
					s.Route("/health", func(hr chi.Router) {
						hr.Get("/", h.Health)
						hr.Post("/metrics", h.AddMetric)
						hr.Put("/metrics/{metricID}", h.UpdateMetric)
						hr.Post("/progress", h.RecordProgress)
					})
				})
			})
		}

		if cfg.DashboardHandler != nil {
			api.Route("/practitioner", func(p chi.Router) {
				p.Use(httpmiddleware.PractitionerJWT(cfg.PractitionerJWTSecret))
				p.Get("/schedule", cfg.DashboardHandler.Schedule)
				p.Get("/stats", cfg.DashboardHandler.Stats)
			})
		}
	})

	return r
}

func healthHandler(check func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if check != nil {
			if err := check(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "degraded", "error": err.Error()})
				return
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
