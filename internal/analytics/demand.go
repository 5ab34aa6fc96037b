package analytics

import (
	"fmt"
	"slices"
)

const (
	DefaultDemandWindowDays = 90
	DefaultDemandTopN       = 20

	recentWeeks       = 4
	weeksPerMonth     = 4
	trendThresholdPct = 5.0
)

// Trend classifies the short-horizon direction of a product's demand.
type Trend string

const (
	TrendGrowing   Trend = "growing"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// Priority is the restocking priority derived from the weekly estimate.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DemandOptions tunes EstimateDemand. Zero values select the defaults.
type DemandOptions struct {
	WindowDays int
	TopN       int
}

// ProductHistory accumulates a product's weekly totals, most recent week first.
type ProductHistory struct {
	Name           string
	TotalFrequency int
	TotalQuantity  float64
	Weekly         []float64
}

// DemandForecast is the demand estimate for one product.
type DemandForecast struct {
	Product         string   `json:"product"`
	WeeklyEstimate  float64  `json:"weekly_estimate"`
	MonthlyEstimate float64  `json:"monthly_estimate"`
	OrderFrequency  int      `json:"order_frequency"`
	Trend           Trend    `json:"trend"`
	ChangePercent   float64  `json:"change_percent"`
	Priority        Priority `json:"priority"`
}

// DemandReport is the ranked output of EstimateDemand.
type DemandReport struct {
	Forecasts        []DemandForecast `json:"forecasts"`
	WindowDays       int              `json:"window_days"`
	AnalyzedPeriod   string           `json:"analyzed_period"`
	ProductsAnalyzed int              `json:"products_analyzed"`
}

// FoldProductHistory groups weekly rows per product, preserving first-appearance order.
// Rows must arrive ordered by week, most recent first.
func FoldProductHistory(rows []WeeklyProductRow) []*ProductHistory {
	index := make(map[string]*ProductHistory)
	var histories []*ProductHistory

	for _, row := range rows {
		h, ok := index[row.Product]
		if !ok {
			h = &ProductHistory{Name: row.Product}
			index[row.Product] = h
			histories = append(histories, h)
		}
		h.TotalFrequency += row.Frequency
		h.TotalQuantity += row.TotalQuantity
		h.Weekly = append(h.Weekly, row.TotalQuantity)
	}

	return histories
}

// EstimateDemand forecasts weekly and monthly demand per product from its recent weekly totals.
func EstimateDemand(rows []WeeklyProductRow, opts DemandOptions) DemandReport {
	if opts.WindowDays <= 0 {
		opts.WindowDays = DefaultDemandWindowDays
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultDemandTopN
	}

	histories := FoldProductHistory(rows)
	forecasts := make([]DemandForecast, 0, len(histories))

	for _, h := range histories {
		recent := h.Weekly[:min(recentWeeks, len(h.Weekly))]
		weekly := Mean(recent)
		trend, change := classifyTrend(recent)

		forecasts = append(forecasts, DemandForecast{
			Product:         h.Name,
			WeeklyEstimate:  Round2(weekly),
			MonthlyEstimate: Round2(weekly * weeksPerMonth),
			OrderFrequency:  h.TotalFrequency,
			Trend:           trend,
			ChangePercent:   Round2(change),
			Priority:        classifyPriority(weekly),
		})
	}

	slices.SortStableFunc(forecasts, func(a, b DemandForecast) int {
		switch {
		case a.WeeklyEstimate > b.WeeklyEstimate:
			return -1
		case a.WeeklyEstimate < b.WeeklyEstimate:
			return 1
		}
		return 0
	})

	analyzed := len(forecasts)
	if len(forecasts) > opts.TopN {
		forecasts = forecasts[:opts.TopN]
	}

	return DemandReport{
		Forecasts:        forecasts,
		WindowDays:       opts.WindowDays,
		AnalyzedPeriod:   fmt.Sprintf("%d days", opts.WindowDays),
		ProductsAnalyzed: analyzed,
	}
}

// classifyTrend compares the newest and oldest of the recent weeks.
func classifyTrend(recent []float64) (Trend, float64) {
	if len(recent) < 2 {
		return TrendStable, 0
	}

	oldest := recent[len(recent)-1]
	change := 0.0
	if oldest > 0 {
		change = SafeDiv(recent[0]-oldest, oldest) * 100
	}

	switch {
	case change > trendThresholdPct:
		return TrendGrowing, change
	case change < -trendThresholdPct:
		return TrendDeclining, change
	}
	return TrendStable, change
}

func classifyPriority(weekly float64) Priority {
	switch {
	case weekly > 50:
		return PriorityHigh
	case weekly > 20:
		return PriorityMedium
	}
	return PriorityLow
}
