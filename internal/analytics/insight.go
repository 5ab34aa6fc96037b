package analytics

import (
	"fmt"
	"strings"
)

const (
	maxTopProducts  = 5
	recentTrendDays = 3
	growthFactor    = 1.2
	declineFactor   = 0.8
	unknownWeekday  = "N/A"
	trendDateLayout = "2006-01-02"
)

// RecommendationKind identifies which rule produced a warehouse recommendation.
type RecommendationKind string

const (
	RecommendNeedHistory RecommendationKind = "need-history"
	RecommendGrowth      RecommendationKind = "growth"
	RecommendDecline     RecommendationKind = "decline"
	RecommendStarProduct RecommendationKind = "star-product"
	RecommendKeepRecords RecommendationKind = "keep-records"
)

const (
	msgNeedHistory = "More historical data is needed to generate recommendations."
	msgGrowth      = "Sales are growing! Consider increasing inventory of your best-selling products."
	msgDecline     = "Sales are dropping. Review your pricing strategy and promotions."
	msgStarProduct = "'%s' is your star product. Make sure it is always in stock."
	msgKeepRecords = "Keep a good record of your operations to get better insights."
)

// TrendPoint is one day of the warehouse trend as rendered in the insight.
type TrendPoint struct {
	Date      string  `json:"date"`
	Shipments int     `json:"shipments"`
	Revenue   float64 `json:"revenue"`
}

// WarehouseInsight summarizes recent activity of one warehouse.
type WarehouseInsight struct {
	TopProducts        []TopProductRow    `json:"top_products"`
	BestWeekday        string             `json:"best_weekday"`
	Trend              []TrendPoint       `json:"trend_7_days"`
	Recommendation     string             `json:"recommendation"`
	RecommendationKind RecommendationKind `json:"recommendation_kind"`
	RecentMeanRevenue  float64            `json:"recent_mean_revenue"`
	OlderMeanRevenue   float64            `json:"older_mean_revenue"`
}

// SynthesizeInsight combines top sellers, the busiest weekday and the daily trend of a warehouse
// into a summary with a textual recommendation. The trend must be ordered most recent day first.
func SynthesizeInsight(top []TopProductRow, best *WeekdayRow, trend []DailyTrendRow) WarehouseInsight {
	if len(top) > maxTopProducts {
		top = top[:maxTopProducts]
	}

	insight := WarehouseInsight{
		TopProducts: make([]TopProductRow, 0, len(top)),
		BestWeekday: unknownWeekday,
		Trend:       make([]TrendPoint, 0, len(trend)),
	}
	for _, p := range top {
		p.Revenue = Round2(p.Revenue)
		insight.TopProducts = append(insight.TopProducts, p)
	}
	if best != nil {
		if day := strings.TrimSpace(best.Weekday); day != "" {
			insight.BestWeekday = day
		}
	}
	for _, d := range trend {
		insight.Trend = append(insight.Trend, TrendPoint{
			Date:      d.Date.Format(trendDateLayout),
			Shipments: d.Shipments,
			Revenue:   Round2(d.Revenue),
		})
	}

	insight.RecommendationKind, insight.Recommendation = recommend(top, trend, &insight)
	return insight
}

func recommend(top []TopProductRow, trend []DailyTrendRow, insight *WarehouseInsight) (RecommendationKind, string) {
	if len(trend) == 0 {
		return RecommendNeedHistory, msgNeedHistory
	}

	split := min(recentTrendDays, len(trend))
	recent, older := trend[:split], trend[split:]
	if len(recent) > 0 && len(older) > 0 {
		recentMean := meanRevenue(recent)
		olderMean := meanRevenue(older)
		insight.RecentMeanRevenue = Round2(recentMean)
		insight.OlderMeanRevenue = Round2(olderMean)

		switch {
		case recentMean > olderMean*growthFactor:
			return RecommendGrowth, msgGrowth
		case recentMean < olderMean*declineFactor:
			return RecommendDecline, msgDecline
		}
	}

	if len(top) > 0 {
		return RecommendStarProduct, fmt.Sprintf(msgStarProduct, top[0].Product)
	}
	return RecommendKeepRecords, msgKeepRecords
}

func meanRevenue(days []DailyTrendRow) float64 {
	values := make([]float64, len(days))
	for i, d := range days {
		values[i] = d.Revenue
	}
	return Mean(values)
}
