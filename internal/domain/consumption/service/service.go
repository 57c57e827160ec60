// Package service orchestrates the consumption pipeline: it opens an
// uploaded workbook, resolves its layout, normalizes the rows and
// summarizes the result.
package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/coerce"
	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/insights"
	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/layout"
	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/normalizer"
	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/workbook"
)

// Status is the outcome of a processed upload.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusEmpty     Status = "empty"
	StatusFailed    Status = "failed"
)

// Job is the result of processing one upload.
type Job struct {
	ID        uuid.UUID             `json:"id"`
	FileName  string                `json:"file_name"`
	Checksum  string                `json:"checksum"`
	Strategy  string                `json:"strategy"`
	Sheet     string                `json:"sheet"`
	Status    Status                `json:"status"`
	Stats     normalizer.Stats      `json:"stats"`
	Table     normalizer.CleanTable `json:"table"`
	Summary   *insights.Summary     `json:"summary"`
	Dashboard *insights.Dashboard   `json:"dashboard,omitempty"`
	Warnings  []string              `json:"warnings,omitempty"`
	Cached    bool                  `json:"cached"`
	CreatedAt time.Time             `json:"created_at"`
	Duration  time.Duration         `json:"duration_ns"`
}

// Config describes how uploads are read.
type Config struct {
	Layout        layout.Config
	ReferenceYear int
	Currency      string
	Read          workbook.Options
	// Dashboard also reads the side tables of the dashboard sheet. It only
	// applies to the fixed-region strategy.
	Dashboard bool
}

// ConsumptionService turns uploaded workbooks into clean consumption tables.
// It is safe for concurrent use.
type ConsumptionService struct {
	cfg        Config
	strategy   layout.Strategy
	coercer    *coerce.Coercer
	normalizer *normalizer.Normalizer
	cache      *ResultCache // optional
	metrics    *Metrics     // optional
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewConsumptionService creates a service for cfg.
func NewConsumptionService(cfg Config, logger *slog.Logger) (*ConsumptionService, error) {
	strategy, err := layout.New(cfg.Layout)
	if err != nil {
		return nil, err
	}
	if cfg.Currency == "" {
		cfg.Currency = "BRL"
	}

	c := coerce.New(cfg.ReferenceYear)
	return &ConsumptionService{
		cfg:        cfg,
		strategy:   strategy,
		coercer:    c,
		normalizer: normalizer.New(c),
		tracer:     otel.Tracer("github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/service"),
		logger:     logger,
	}, nil
}

// WithCache memoises results by upload checksum.
func (s *ConsumptionService) WithCache(cache *ResultCache) *ConsumptionService {
	s.cache = cache
	return s
}

// WithMetrics records pipeline metrics.
func (s *ConsumptionService) WithMetrics(m *Metrics) *ConsumptionService {
	s.metrics = m
	return s
}

// Job returns a processed job by ID. Only cached jobs can be found.
func (s *ConsumptionService) Job(id uuid.UUID) (*Job, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Lookup(id)
}

// Process runs the pipeline over one uploaded workbook. Layout problems are
// returned as *layout.LayoutError; an upload without valid rows is not an
// error and yields StatusEmpty.
func (s *ConsumptionService) Process(ctx context.Context, fileName string, data []byte) (*Job, error) {
	ctx, span := s.tracer.Start(ctx, "consumption.Process",
		trace.WithAttributes(
			attribute.String("file.name", fileName),
			attribute.Int("file.size", len(data)),
			attribute.String("layout.strategy", s.strategy.Name()),
		),
	)
	defer span.End()

	start := time.Now()
	sum := sha256.Sum256(data)
	checksum := hex.EncodeToString(sum[:])

	if s.cache != nil {
		if cached, ok := s.cache.Get(checksum); ok {
			s.metrics.observeCacheHit()
			span.SetAttributes(attribute.Bool("cache.hit", true))
			s.logger.Debug("upload served from cache",
				slog.String("job_id", cached.ID.String()),
				slog.String("checksum", checksum[:12]),
			)
			hit := *cached
			hit.Cached = true
			return &hit, nil
		}
	}

	job, err := s.run(ctx, fileName, checksum, data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.observeFailure(time.Since(start))
		s.logger.Warn("upload rejected",
			slog.String("file", fileName),
			slog.String("strategy", s.strategy.Name()),
			slog.Any("error", err),
		)
		return nil, err
	}

	job.Duration = time.Since(start)
	span.SetAttributes(
		attribute.String("job.id", job.ID.String()),
		attribute.Int("rows.total", job.Stats.TotalRows),
		attribute.Int("rows.valid", job.Stats.ValidRows),
	)
	s.metrics.observeJob(job)
	if s.cache != nil {
		s.cache.Put(job)
	}

	s.logger.Info("upload processed",
		slog.String("job_id", job.ID.String()),
		slog.String("file", fileName),
		slog.String("sheet", job.Sheet),
		slog.String("status", string(job.Status)),
		slog.Int("rows_total", job.Stats.TotalRows),
		slog.Int("rows_valid", job.Stats.ValidRows),
		slog.Int("rows_dropped", job.Stats.Dropped()),
		slog.Duration("duration", job.Duration),
	)
	return job, nil
}

func (s *ConsumptionService) run(ctx context.Context, fileName, checksum string, data []byte) (*Job, error) {
	wb, err := workbook.Open(bytes.NewReader(data), s.cfg.Read)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	raw, err := s.strategy.Resolve(ctx, wb)
	if err != nil {
		return nil, err
	}

	result, err := s.normalizer.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize %s: %w", fileName, err)
	}

	summary, err := insights.Summarize(result.Table, s.cfg.Currency)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize %s: %w", fileName, err)
	}

	job := &Job{
		ID:        uuid.New(),
		FileName:  fileName,
		Checksum:  checksum,
		Strategy:  s.strategy.Name(),
		Sheet:     raw.Sheet,
		Status:    StatusSucceeded,
		Stats:     result.Stats,
		Table:     result.Table,
		Summary:   summary,
		CreatedAt: time.Now(),
	}

	if want := s.preferredSheet(); raw.Sheet != want {
		if _, found, _ := wb.FindSheet(want); !found {
			job.Warnings = append(job.Warnings, fmt.Sprintf("sheet %q not found, read %q instead", want, raw.Sheet))
		}
	}
	if result.Stats.ValidRows == 0 {
		job.Status = StatusEmpty
		job.Warnings = append(job.Warnings, "no row had a valid date, volume and amount")
	}
	if result.Stats.CoerceMisses > 0 {
		job.Warnings = append(job.Warnings, fmt.Sprintf("%d cells could not be read as dates or numbers", result.Stats.CoerceMisses))
	}

	if s.cfg.Dashboard && s.strategy.Name() == layout.KindFixedRegion {
		dashboard, err := s.dashboard(ctx, wb, raw.Sheet)
		if err != nil {
			job.Warnings = append(job.Warnings, "dashboard tables unavailable: "+err.Error())
		} else {
			job.Dashboard = dashboard
		}
	}

	return job, nil
}

func (s *ConsumptionService) dashboard(ctx context.Context, wb *workbook.Workbook, sheet string) (*insights.Dashboard, error) {
	tables, err := layout.DashboardRegions(sheet).ExtractAll(ctx, wb)
	if err != nil {
		return nil, err
	}
	return insights.BuildDashboard(tables, s.coercer, s.cfg.Currency)
}

// preferredSheet mirrors the default layout.New applies.
func (s *ConsumptionService) preferredSheet() string {
	if s.cfg.Layout.Sheet != "" {
		return s.cfg.Layout.Sheet
	}
	return layout.DashboardSheet
}
