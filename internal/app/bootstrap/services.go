package bootstrap

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/ayurveda-clinic-platform/internal/availability"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/backend"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/bookings"
	appconfig "github.com/wolfman30/ayurveda-clinic-platform/internal/config"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/notify"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/observability/metrics"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/practitioners"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/recommend"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/session"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/therapies"
	"github.com/wolfman30/ayurveda-clinic-platform/pkg/logging"
)

// Dependencies are the optional infrastructure handles. Nil Pool or Redis
// selects the in-memory alternative.
type Dependencies struct {
	Pool     *pgxpool.Pool
	Redis    redis.Cmdable
	Email    notify.EmailSender
	Metrics  *metrics.BookingMetrics
	Location *time.Location
}

// Components is the wired clinic domain.
type Components struct {
	Catalog     therapies.Catalog
	Repository  bookings.Repository
	Checker     availability.Checker
	Bookings    *bookings.Service
	Recommender recommend.Recommender
	Directory   practitioners.Directory
	Local       *backend.Local
	Backend     backend.Service
	Sessions    *session.Manager
}

// BuildComponents wires the domain services over deps.
func BuildComponents(cfg *appconfig.Config, deps Dependencies, logger *logging.Logger) (*Components, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}

	c := &Components{
		Recommender: recommend.NewPlaceholder(nil),
		Directory:   practitioners.NewStaticDirectory(cfg.PractitionerName),
	}

	var repo bookings.Repository
	if deps.Pool != nil {
		c.Catalog = therapies.NewPostgresCatalog(deps.Pool)
		repo = bookings.NewPostgresRepository(deps.Pool)
		logger.Info("using postgres catalog and appointments")
	} else {
		c.Catalog = therapies.NewStaticCatalog()
		repo = bookings.NewInMemoryRepository()
		logger.Info("using in-memory catalog and appointments")
	}
	c.Repository = repo

	closed, err := availability.ParseWeekdays(cfg.ClosedWeekdays)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: closed weekdays: %w", err)
	}
	schedule := availability.NewScheduleChecker(cfg.SlotTemplate,
		availability.WithClosedWeekdays(closed...),
		availability.WithBookedSlots(repo),
	)

	opts := []bookings.Option{
		bookings.WithPractitioner(cfg.PractitionerName),
		bookings.WithMetrics(deps.Metrics),
	}
	if deps.Redis != nil {
		cached := availability.NewCachedChecker(schedule, deps.Redis, cfg.AvailabilityCacheTTL, logger)
		c.Checker = cached
		opts = append(opts, bookings.WithInvalidator(cached))
		logger.Info("availability cache enabled", "ttl", cfg.AvailabilityCacheTTL.String())
	} else {
		c.Checker = schedule
	}
	// Submissions always re-check against the source of truth, never the cache.
	opts = append(opts, bookings.WithChecker(schedule))
	if deps.Email != nil {
		opts = append(opts, bookings.WithNotifier(notify.NewBookingNotifier(deps.Email, cfg.EmailFromName, logger)))
	}

	c.Bookings = bookings.NewService(repo, c.Catalog, logger, opts...)
	c.Local = backend.NewLocal(c.Catalog, c.Checker, c.Bookings, c.Recommender, c.Directory)

	c.Backend, err = BuildBackend(cfg, c.Local, logger)
	if err != nil {
		return nil, err
	}

	managerOpts := []session.ManagerOption{session.WithLocation(loc)}
	if deps.Metrics != nil {
		managerOpts = append(managerOpts, session.WithGauge(deps.Metrics), session.WithWizardObserver(deps.Metrics))
	}
	c.Sessions = session.NewManager(c.Backend, logger, managerOpts...)
	return c, nil
}

// BuildBackend selects the service wizard sessions call.
func BuildBackend(cfg *appconfig.Config, local *backend.Local, logger *logging.Logger) (backend.Service, error) {
	switch cfg.BackendMode {
	case "", appconfig.BackendLocal:
		if local == nil {
			return nil, fmt.Errorf("bootstrap: local backend not built")
		}
		return local, nil
	case appconfig.BackendMock:
		logger.Info("wizard backend is the mock", "latency_scale", cfg.MockLatencyScale)
		return backend.NewMock(backend.WithLatencyScale(cfg.MockLatencyScale)), nil
	case appconfig.BackendHTTP:
		logger.Info("wizard backend is remote", "base_url", cfg.BackendBaseURL)
		return backend.NewHTTPClient(cfg.BackendBaseURL, logger), nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown backend mode %q", cfg.BackendMode)
	}
}
