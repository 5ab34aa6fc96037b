package service

import (
	"context"
	"fmt"

	"logistics-insights/internal/analytics"

	"golang.org/x/sync/errgroup"
)

// Windows and limits of the warehouse insight queries.
const (
	topProductsWindowDays = 30
	topProductsLimit      = 5
	bestWeekdayWindowDays = 60
	trendWindowDays       = 7
)

// DemandRequest parameters; zero values take the configured defaults.
type DemandRequest struct {
	WindowDays int
	TopN       int
}

// DemandResult is the demand forecast with response metadata.
type DemandResult struct {
	Meta
	AnalysisDate string `json:"analysis_date"`
	analytics.DemandReport
}

// Demand forecasts product demand from the weekly history of the requested window.
func (s *Service) Demand(ctx context.Context, req DemandRequest) (*DemandResult, error) {
	return observe(s, AnalysisDemand, func(meta Meta) (*DemandResult, int, error) {
		if req.WindowDays < 0 || req.TopN < 0 {
			return nil, 0, fmt.Errorf("%w: window_days and top_n must not be negative", ErrInvalidOption)
		}
		window := req.WindowDays
		if window == 0 {
			window = s.opts.DemandWindowDays
		}
		topN := req.TopN
		if topN == 0 {
			topN = s.opts.DemandTopN
		}

		now := s.opts.Now()
		rows, err := s.provider.WeeklyProductDemand(ctx, now.AddDate(0, 0, -window))
		if err != nil {
			return nil, 0, wrapProvider("product demand", err)
		}

		report := analytics.EstimateDemand(rows, analytics.DemandOptions{WindowDays: window, TopN: topN})
		return &DemandResult{Meta: meta, AnalysisDate: meta.GeneratedAt, DemandReport: report}, 0, nil
	})
}

// CarrierRequest parameters. WarehouseID restricts the history to shipments bound for that warehouse.
type CarrierRequest struct {
	WarehouseID *int64
}

// CarrierResult is the carrier ranking with response metadata.
type CarrierResult struct {
	Meta
	analytics.CarrierReport
}

// Carriers ranks carriers by delivery performance.
func (s *Service) Carriers(ctx context.Context, req CarrierRequest) (*CarrierResult, error) {
	return observe(s, AnalysisCarriers, func(meta Meta) (*CarrierResult, int, error) {
		if req.WarehouseID != nil && *req.WarehouseID <= 0 {
			return nil, 0, fmt.Errorf("%w: got %d", ErrInvalidWarehouse, *req.WarehouseID)
		}

		stats, err := s.provider.CarrierStats(ctx, req.WarehouseID)
		if err != nil {
			return nil, 0, wrapProvider("carrier statistics", err)
		}

		report := analytics.RankCarriers(stats, analytics.CarrierOptions{WarehouseID: req.WarehouseID})
		return &CarrierResult{Meta: meta, CarrierReport: report}, len(report.Faults), nil
	})
}

// AnomalyRequest parameters; a zero Limit takes the configured default.
type AnomalyRequest struct {
	Limit int
}

// AnomalyResult is the anomaly report with response metadata.
type AnomalyResult struct {
	Meta
	analytics.AnomalyReport
}

// Anomalies resolves the population band and flags the most recent shipments outside it.
func (s *Service) Anomalies(ctx context.Context, req AnomalyRequest) (*AnomalyResult, error) {
	return observe(s, AnalysisAnomalies, func(meta Meta) (*AnomalyResult, int, error) {
		if req.Limit < 0 {
			return nil, 0, fmt.Errorf("%w: limit must not be negative", ErrInvalidOption)
		}
		limit := req.Limit
		if limit == 0 {
			limit = s.opts.AnomalyLimit
		}

		pop, err := s.provider.ShipmentPopulation(ctx)
		if err != nil {
			return nil, 0, wrapProvider("shipment population", err)
		}
		candidates, err := s.provider.AnomalyCandidates(ctx, analytics.ResolveThresholds(pop), limit)
		if err != nil {
			return nil, 0, wrapProvider("anomaly candidates", err)
		}

		report := analytics.DetectAnomalies(pop, candidates, analytics.AnomalyOptions{
			Limit:      limit,
			DetectedAt: s.opts.Now(),
		})
		return &AnomalyResult{Meta: meta, AnomalyReport: report}, len(report.Faults), nil
	})
}

// InsightResult is the warehouse insight with response metadata.
type InsightResult struct {
	Meta
	WarehouseID int64 `json:"warehouse_id"`
	analytics.WarehouseInsight
}

// WarehouseInsights loads top products, the busiest weekday and the recent daily trend of a
// warehouse concurrently and folds them into a recommendation.
func (s *Service) WarehouseInsights(ctx context.Context, warehouseID int64) (*InsightResult, error) {
	return observe(s, AnalysisInsights, func(meta Meta) (*InsightResult, int, error) {
		if warehouseID <= 0 {
			return nil, 0, fmt.Errorf("%w: got %d", ErrInvalidWarehouse, warehouseID)
		}

		now := s.opts.Now()
		var (
			top   []analytics.TopProductRow
			best  *analytics.WeekdayRow
			trend []analytics.DailyTrendRow
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			top, err = s.provider.TopProducts(gctx, warehouseID, now.AddDate(0, 0, -topProductsWindowDays), topProductsLimit)
			if err != nil {
				return wrapProvider("top products", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			best, err = s.provider.BestWeekday(gctx, warehouseID, now.AddDate(0, 0, -bestWeekdayWindowDays))
			if err != nil {
				return wrapProvider("weekday distribution", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			trend, err = s.provider.DailyTrend(gctx, warehouseID, now.AddDate(0, 0, -trendWindowDays))
			if err != nil {
				return wrapProvider("daily trend", err)
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, 0, err
		}

		insight := analytics.SynthesizeInsight(top, best, trend)
		return &InsightResult{Meta: meta, WarehouseID: warehouseID, WarehouseInsight: insight}, 0, nil
	})
}
