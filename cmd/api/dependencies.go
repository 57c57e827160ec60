package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/handler"
	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/layout"
	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/service"
	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/workbook"
	"github.com/FACorreiaa/smart-water-tracker/pkg/config"
	"github.com/FACorreiaa/smart-water-tracker/pkg/cron"
	"github.com/FACorreiaa/smart-water-tracker/pkg/middleware"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger

	Registry  *prometheus.Registry
	Cache     *service.ResultCache
	Scheduler *cron.Scheduler

	ConsumptionService *service.ConsumptionService
	UploadHandler      *handler.UploadHandler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	if err := deps.initScheduler(); err != nil {
		return nil, fmt.Errorf("failed to init scheduler: %w", err)
	}

	deps.UploadHandler = handler.NewUploadHandler(deps.ConsumptionService, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func (d *Dependencies) initServices() error {
	p := d.Config.Pipeline
	svc, err := service.NewConsumptionService(service.Config{
		Layout: layout.Config{
			Kind:      p.Strategy,
			Sheet:     p.Sheet,
			HeaderRow: p.HeaderRow,
			ScanRows:  p.ScanRows,
		},
		ReferenceYear: p.ReferenceYear,
		Currency:      p.Currency,
		Read:          workbook.Options{FormattedValues: p.FormattedValues},
		Dashboard:     p.Strategy == layout.KindFixedRegion,
	}, d.Logger)
	if err != nil {
		return err
	}

	if d.Config.Observability.MetricsEnabled {
		d.Registry = prometheus.NewRegistry()
		d.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		svc.WithMetrics(service.NewMetrics(d.Registry))
	}

	if d.Config.Cache.Enabled {
		d.Cache = service.NewResultCache(d.Config.Cache.MaxEntries)
		svc.WithCache(d.Cache)
	}

	d.ConsumptionService = svc
	d.Logger.Info("services initialized",
		slog.String("strategy", p.Strategy),
		slog.String("sheet", p.Sheet),
		slog.Int("reference_year", p.ReferenceYear),
	)
	return nil
}

func (d *Dependencies) initScheduler() error {
	if d.Cache == nil {
		return nil
	}
	d.Scheduler = cron.NewScheduler(d.Cache, d.Config.Cache.PurgeSchedule, d.Config.Cache.TTL, d.Logger)
	return d.Scheduler.Start()
}

// Router returns the HTTP handler with middleware applied.
func (d *Dependencies) Router() http.Handler {
	mux := http.NewServeMux()
	d.UploadHandler.Register(mux)
	if d.Registry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	s := d.Config.Server
	return middleware.Chain(mux,
		middleware.Logging(d.Logger),
		middleware.CORS(s.AllowedOrigins),
		middleware.RateLimit(s.RateLimitPerSecond, s.RateLimitBurst),
		middleware.MaxBytes(s.MaxUploadBytes),
	)
}

// Cleanup stops background jobs
func (d *Dependencies) Cleanup() {
	if d.Scheduler != nil {
		<-d.Scheduler.Stop().Done()
	}
	d.Logger.Info("cleanup completed")
}
