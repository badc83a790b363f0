package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/ayurveda-clinic-platform/internal/api/router"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/app/bootstrap"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/availability"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/bookings"
	appconfig "github.com/wolfman30/ayurveda-clinic-platform/internal/config"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/observability/metrics"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/practitioners"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/recommend"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/session"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/therapies"
	"github.com/wolfman30/ayurveda-clinic-platform/pkg/logging"
)

func main() {
	cfg := appconfig.Load()

	logger := logging.NewWithWriter(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting ayurveda clinic API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"backend_mode", cfg.BackendMode,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler, cleanup, err := setupServer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupServer wires infrastructure, services and routes. cleanup releases
// connections and stops the session pruner.
func setupServer(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (http.Handler, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	loc, err := bootstrap.LoadLocation(cfg.ClinicTimezone)
	if err != nil {
		return nil, cleanup, err
	}

	pool, err := bootstrap.BuildPostgresPool(ctx, cfg)
	if err != nil {
		return nil, cleanup, err
	}
	if pool != nil {
		closers = append(closers, pool.Close)
	}
	sqlDB := bootstrap.OpenSQLDB(pool)
	if sqlDB != nil {
		closers = append(closers, func() { _ = sqlDB.Close() })
	}

	deps := newDependencies(pool, loc)
	if client := bootstrap.BuildRedisClient(ctx, cfg, logger, true); client != nil {
		deps.Redis = client
		closers = append(closers, func() { _ = client.Close() })
	}
	deps.Email, err = bootstrap.BuildEmailSender(ctx, cfg, logger)
	if err != nil {
		return nil, cleanup, err
	}

	metricsHandler, bookingMetrics := setupMetrics()
	deps.Metrics = bookingMetrics

	c, err := bootstrap.BuildComponents(cfg, deps, logger)
	if err != nil {
		return nil, cleanup, err
	}

	pruneCtx, cancelPruner := context.WithCancel(ctx)
	closers = append(closers, cancelPruner)
	go c.Sessions.RunPruner(pruneCtx, time.Minute, cfg.SessionIdleTimeout)

	routerCfg := &router.Config{
		Logger:                logger,
		TherapiesHandler:      therapies.NewHandler(c.Catalog, logger),
		AvailabilityHandler:   availability.NewHandler(c.Checker, bookingMetrics, logger),
		BookingsHandler:       bookings.NewHandler(c.Bookings, logger),
		RecommendHandler:      recommend.NewHandler(c.Recommender, c.Catalog, logger),
		PractitionerHandler:   practitioners.NewHandler(c.Directory, logger),
		SessionHandler:        session.NewHandler(c.Sessions, c.Backend, logger),
		DashboardHandler:      practitioners.NewDashboardHandler(c.Bookings, sqlDB, loc, logger),
		PractitionerJWTSecret: cfg.PractitionerJWTSecret,
		MetricsHandler:        metricsHandler,
		CORSAllowedOrigins:    cfg.CORSAllowedOrigins,
		RateLimitRPS:          cfg.RateLimitRPS,
		RateLimitBurst:        cfg.RateLimitBurst,
	}
	if sqlDB != nil {
		routerCfg.HealthCheck = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return sqlDB.PingContext(pingCtx)
		}
	}
	return router.New(routerCfg), cleanup, nil
}

// newDependencies collects the handles BuildComponents selects storage from.
// A nil pool keeps the catalog and appointments in memory.
func newDependencies(pool *pgxpool.Pool, loc *time.Location) bootstrap.Dependencies {
	return bootstrap.Dependencies{Pool: pool, Location: loc}
}

// setupMetrics registers the booking collectors on a private registry along
// with the Go runtime and process collectors.
func setupMetrics() (http.Handler, *metrics.BookingMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewBookingMetrics(reg)
}
