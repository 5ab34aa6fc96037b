package analytics

import (
	"fmt"
	"time"
)

const (
	DefaultAnomalyLimit = 50

	zScoreBand = 2.0
)

// AnomalyKind tags the dimension in which a shipment is an outlier.
type AnomalyKind string

const (
	KindPriceHigh         AnomalyKind = "price-high"
	KindPriceLow          AnomalyKind = "price-low"
	KindDurationExcessive AnomalyKind = "duration-excessive"
)

// Severity is the coarse outlier strength.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// AnomalyOptions tunes DetectAnomalies.
type AnomalyOptions struct {
	Limit      int
	DetectedAt time.Time
}

// Thresholds is the mean ± 2σ band resolved from PopulationStats.
type Thresholds struct {
	MeanPrice           float64 `json:"mean_price"`
	StdDevPrice         float64 `json:"stddev_price"`
	MeanDurationHours   float64 `json:"mean_duration_hours"`
	StdDevDurationHours float64 `json:"stddev_duration_hours"`
	PriceUpper          float64 `json:"price_upper"`
	PriceLower          float64 `json:"price_lower"`
	DurationUpper       float64 `json:"duration_upper"`
}

// AnomalyRecord is a flagged shipment.
type AnomalyRecord struct {
	ShipmentRecord
	Kinds      []AnomalyKind `json:"kinds"`
	Severity   Severity      `json:"severity"`
	DetectedAt string        `json:"detected_at"`
}

// AnomalyReport lists flagged shipments together with the band used to flag them.
type AnomalyReport struct {
	Anomalies      []AnomalyRecord `json:"anomalies"`
	TotalAnomalies int             `json:"total_anomalies"`
	Thresholds     Thresholds      `json:"thresholds"`
	Faults         []DataFault     `json:"faults,omitempty"`
}

// ResolveThresholds coalesces missing statistics to zero and computes the z-score band.
func ResolveThresholds(pop PopulationStats) Thresholds {
	meanPrice := CoalesceZero(pop.MeanPrice)
	sdPrice := CoalesceZero(pop.StdDevPrice)
	meanDuration := CoalesceZero(pop.MeanDurationHours)
	sdDuration := CoalesceZero(pop.StdDevDurationHours)

	return Thresholds{
		MeanPrice:           meanPrice,
		StdDevPrice:         sdPrice,
		MeanDurationHours:   meanDuration,
		StdDevDurationHours: sdDuration,
		PriceUpper:          meanPrice + zScoreBand*sdPrice,
		PriceLower:          meanPrice - zScoreBand*sdPrice,
		DurationUpper:       meanDuration + zScoreBand*sdDuration,
	}
}

// IsCandidate reports whether a shipment falls outside the band in any dimension.
func (th Thresholds) IsCandidate(price, durationHours float64) bool {
	return price > th.PriceUpper || price < th.PriceLower || durationHours > th.DurationUpper
}

func (th Thresholds) rounded() Thresholds {
	return Thresholds{
		MeanPrice:           Round2(th.MeanPrice),
		StdDevPrice:         Round2(th.StdDevPrice),
		MeanDurationHours:   Round2(th.MeanDurationHours),
		StdDevDurationHours: Round2(th.StdDevDurationHours),
		PriceUpper:          Round2(th.PriceUpper),
		PriceLower:          Round2(th.PriceLower),
		DurationUpper:       Round2(th.DurationUpper),
	}
}

// Classify returns the anomaly kinds of a shipment against the band.
func (th Thresholds) Classify(price, durationHours float64) []AnomalyKind {
	var kinds []AnomalyKind
	if price > th.PriceUpper {
		kinds = append(kinds, KindPriceHigh)
	} else if price < th.PriceLower {
		kinds = append(kinds, KindPriceLow)
	}
	if durationHours > th.DurationUpper {
		kinds = append(kinds, KindDurationExcessive)
	}
	return kinds
}

// DetectAnomalies tags each candidate shipment that lies outside the population band.
// Candidates are expected to be pre-filtered by the provider and ordered most recent first.
func DetectAnomalies(pop PopulationStats, candidates []ShipmentRecord, opts AnomalyOptions) AnomalyReport {
	if opts.Limit <= 0 {
		opts.Limit = DefaultAnomalyLimit
	}
	if opts.DetectedAt.IsZero() {
		opts.DetectedAt = time.Now().UTC()
	}
	detectedAt := opts.DetectedAt.Format(time.RFC3339)

	th := ResolveThresholds(pop)
	if len(candidates) > opts.Limit {
		candidates = candidates[:opts.Limit]
	}

	report := AnomalyReport{
		Anomalies:  make([]AnomalyRecord, 0, len(candidates)),
		Thresholds: th.rounded(),
	}

	for _, c := range candidates {
		kinds := th.Classify(c.Price, c.DurationHours)
		if len(kinds) == 0 {
			report.Faults = append(report.Faults, DataFault{
				Kind:    "anomaly-candidate",
				Subject: fmt.Sprintf("shipment %d", c.ID),
				Detail:  fmt.Sprintf("price %.2f and duration %.2fh are inside the band", c.Price, c.DurationHours),
			})
			continue
		}

		severity := SeverityMedium
		if len(kinds) >= 2 {
			severity = SeverityHigh
		}

		rec := c
		rec.DurationHours = Round2(c.DurationHours)
		report.Anomalies = append(report.Anomalies, AnomalyRecord{
			ShipmentRecord: rec,
			Kinds:          kinds,
			Severity:       severity,
			DetectedAt:     detectedAt,
		})
	}

	report.TotalAnomalies = len(report.Anomalies)
	return report
}
