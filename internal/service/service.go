package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"logistics-insights/internal/analytics"
	"logistics-insights/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.uber.org/atomic"
)

// Provider supplies the aggregated history the analyses run on.
type Provider interface {
	WeeklyProductDemand(ctx context.Context, since time.Time) ([]analytics.WeeklyProductRow, error)
	CarrierStats(ctx context.Context, warehouseID *int64) ([]analytics.CarrierStats, error)
	ShipmentPopulation(ctx context.Context) (analytics.PopulationStats, error)
	AnomalyCandidates(ctx context.Context, th analytics.Thresholds, limit int) ([]analytics.ShipmentRecord, error)
	TopProducts(ctx context.Context, warehouseID int64, since time.Time, limit int) ([]analytics.TopProductRow, error)
	BestWeekday(ctx context.Context, warehouseID int64, since time.Time) (*analytics.WeekdayRow, error)
	DailyTrend(ctx context.Context, warehouseID int64, since time.Time) ([]analytics.DailyTrendRow, error)
	Ping(ctx context.Context) error
}

var (
	ErrInvalidWarehouse = errors.New("warehouse id must be a positive integer")
	ErrInvalidOption    = errors.New("invalid analysis option")
)

// Analysis names, used in logs, metrics and failure messages.
const (
	AnalysisDemand    = "demand"
	AnalysisCarriers  = "carriers"
	AnalysisAnomalies = "anomalies"
	AnalysisInsights  = "warehouse_insights"
)

// ServiceName identifies the service in health responses.
const ServiceName = "logistics-insights"

// Options carries the defaults applied when a request leaves a parameter unset.
type Options struct {
	DemandWindowDays int
	DemandTopN       int
	AnomalyLimit     int
	Now              func() time.Time
}

// Service runs the analyses against a Provider.
type Service struct {
	provider Provider
	opts     Options
	started  time.Time

	requests *atomic.Int64
	failures *atomic.Int64
}

// New creates a Service. Zero options take the analytics defaults.
func New(provider Provider, opts Options) *Service {
	if opts.DemandWindowDays <= 0 {
		opts.DemandWindowDays = analytics.DefaultDemandWindowDays
	}
	if opts.DemandTopN <= 0 {
		opts.DemandTopN = analytics.DefaultDemandTopN
	}
	if opts.AnomalyLimit <= 0 {
		opts.AnomalyLimit = analytics.DefaultAnomalyLimit
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		provider: provider,
		opts:     opts,
		started:  opts.Now(),
		requests: atomic.NewInt64(0),
		failures: atomic.NewInt64(0),
	}
}

// AnalysisError carries the request id and analysis name of a failed analysis.
type AnalysisError struct {
	RequestID string
	Analysis  string
	Err       error
}

func (e *AnalysisError) Error() string {
	return e.Err.Error()
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// Failure is the structured response returned instead of partial data.
type Failure struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

var failureMessages = map[string]string{
	AnalysisDemand:    "Failed to forecast product demand",
	AnalysisCarriers:  "Failed to recommend a carrier",
	AnalysisAnomalies: "Failed to detect shipment anomalies",
	AnalysisInsights:  "Failed to build warehouse insights",
}

// NewFailure builds the failure envelope for an error returned by the service.
func NewFailure(err error) Failure {
	f := Failure{Error: err.Error(), Message: "Analysis failed"}
	var ae *AnalysisError
	if errors.As(err, &ae) {
		f.RequestID = ae.RequestID
		if msg, ok := failureMessages[ae.Analysis]; ok {
			f.Message = msg
		}
	}
	return f
}

// IsInvalidInput reports whether err was caused by the caller's parameters.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidWarehouse) || errors.Is(err, ErrInvalidOption)
}

// Meta is attached to every successful analysis response.
type Meta struct {
	Success     bool   `json:"success"`
	RequestID   string `json:"request_id"`
	GeneratedAt string `json:"generated_at"`
}

// observe runs one analysis with a fresh request id, recording logs, metrics and health counters.
func observe[T any](s *Service, analysis string, fn func(meta Meta) (T, int, error)) (T, error) {
	start := time.Now()
	meta := Meta{
		Success:     true,
		RequestID:   uuid.NewString(),
		GeneratedAt: s.opts.Now().Format(time.RFC3339),
	}
	s.requests.Inc()

	res, faults, err := fn(meta)
	metrics.ObserveAnalysis(analysis, start, err)
	metrics.AddFaults(analysis, faults)

	logger := log.With().Str("analysis", analysis).Str("request_id", meta.RequestID).Logger()
	if err != nil {
		s.failures.Inc()
		logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("Analysis failed")
		return res, &AnalysisError{RequestID: meta.RequestID, Analysis: analysis, Err: err}
	}
	if faults > 0 {
		logger.Warn().Int("faults", faults).Msg("Analysis reported data faults")
	}
	logger.Info().Dur("elapsed", time.Since(start)).Msg("Analysis completed")
	return res, nil
}

// HealthStatus reports service liveness and database reachability.
type HealthStatus struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
	Database  string `json:"database"`
	Requests  int64  `json:"requests"`
	Failures  int64  `json:"failures"`
}

// Health pings the database and reports counters. Status is "degraded" when the database is down.
func (s *Service) Health(ctx context.Context) HealthStatus {
	now := s.opts.Now()
	h := HealthStatus{
		Status:    "ok",
		Service:   ServiceName,
		Timestamp: now.Format(time.RFC3339),
		Uptime:    now.Sub(s.started).Round(time.Second).String(),
		Database:  "up",
		Requests:  s.requests.Load(),
		Failures:  s.failures.Load(),
	}
	if err := s.provider.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("Health check: database unreachable")
		h.Status = "degraded"
		h.Database = "down"
	}
	return h
}

func wrapProvider(what string, err error) error {
	return fmt.Errorf("failed to load %s: %w", what, err)
}
