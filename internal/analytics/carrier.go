package analytics

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// CarrierLabel is the coarse recommendation attached to a carrier score.
type CarrierLabel string

const (
	LabelExcellent CarrierLabel = "excellent"
	LabelGood      CarrierLabel = "good"
	LabelFair      CarrierLabel = "fair"
)

// Score weights. The three components sum to at most 100.
const (
	successWeight        = 0.5
	experienceCap        = 20.0
	experiencePerTenJobs = 20.0
	speedBudget          = 30.0
	speedPenaltyPerDay   = 10.0
)

// CarrierOptions tunes RankCarriers.
type CarrierOptions struct {
	// WarehouseID is echoed in the report. Filtering by warehouse is done by the provider.
	WarehouseID *int64
}

// CarrierPerformance is the statistics block of a carrier recommendation.
type CarrierPerformance struct {
	TotalShipments       int     `json:"total_shipments"`
	SuccessfulDeliveries int     `json:"successful_deliveries"`
	SuccessRate          float64 `json:"success_rate"`
	AvgTurnaroundHours   float64 `json:"avg_turnaround_hours"`
	Cancellations        int     `json:"cancellations"`
}

// CarrierRecommendation is one scored carrier.
type CarrierRecommendation struct {
	CarrierID int64              `json:"carrier_id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Score     float64            `json:"score"`
	Stats     CarrierPerformance `json:"stats"`
	Label     CarrierLabel       `json:"label"`
}

// CarrierReport is the ranked output of RankCarriers.
type CarrierReport struct {
	Recommendations []CarrierRecommendation `json:"recommendations"`
	BestOption      *CarrierRecommendation  `json:"best_option"`
	WarehouseID     *int64                  `json:"warehouse_id,omitempty"`
	Faults          []DataFault             `json:"faults,omitempty"`
}

// CarrierScore combines reliability, experience and speed into a 0-100 score.
func CarrierScore(successRate float64, total int, avgHours float64) float64 {
	reliability := successRate * successWeight
	experience := math.Min(float64(total)/10*experiencePerTenJobs, experienceCap)
	speed := math.Max(speedBudget-(avgHours/24*speedPenaltyPerDay), 0)
	return reliability + experience + speed
}

// RankCarriers scores each carrier and orders them by success rate, then volume, then ID.
func RankCarriers(stats []CarrierStats, opts CarrierOptions) CarrierReport {
	report := CarrierReport{
		Recommendations: make([]CarrierRecommendation, 0, len(stats)),
		WarehouseID:     opts.WarehouseID,
	}

	type ranked struct {
		rec  CarrierRecommendation
		rate float64
	}
	candidates := make([]ranked, 0, len(stats))

	for _, s := range stats {
		if s.TotalShipments <= 0 {
			continue
		}
		if s.SuccessfulDeliveries > s.TotalShipments || s.SuccessfulDeliveries < 0 {
			report.Faults = append(report.Faults, DataFault{
				Kind:    "carrier-stats",
				Subject: fmt.Sprintf("carrier %d", s.ID),
				Detail:  fmt.Sprintf("successful deliveries (%d) outside [0, %d]", s.SuccessfulDeliveries, s.TotalShipments),
			})
			continue
		}

		hours := CoalesceZero(s.AvgTurnaroundHours)
		rate := SafeDiv(float64(s.SuccessfulDeliveries), float64(s.TotalShipments)) * 100
		score := CarrierScore(rate, s.TotalShipments, hours)

		candidates = append(candidates, ranked{
			rate: rate,
			rec: CarrierRecommendation{
				CarrierID: s.ID,
				Name:      s.Name,
				Email:     s.Email,
				Score:     Round2(score),
				Stats: CarrierPerformance{
					TotalShipments:       s.TotalShipments,
					SuccessfulDeliveries: s.SuccessfulDeliveries,
					SuccessRate:          Round2(rate),
					AvgTurnaroundHours:   Round2(hours),
					Cancellations:        s.Cancellations,
				},
				Label: labelFor(score),
			},
		})
	}

	slices.SortStableFunc(candidates, func(a, b ranked) int {
		if c := cmp.Compare(b.rate, a.rate); c != 0 {
			return c
		}
		if c := cmp.Compare(b.rec.Stats.TotalShipments, a.rec.Stats.TotalShipments); c != 0 {
			return c
		}
		return cmp.Compare(a.rec.CarrierID, b.rec.CarrierID)
	})

	for _, c := range candidates {
		report.Recommendations = append(report.Recommendations, c.rec)
	}
	if len(report.Recommendations) > 0 {
		best := report.Recommendations[0]
		report.BestOption = &best
	}

	return report
}

func labelFor(score float64) CarrierLabel {
	switch {
	case score >= 80:
		return LabelExcellent
	case score >= 60:
		return LabelGood
	}
	return LabelFair
}
