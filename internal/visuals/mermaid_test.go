package visuals

import (
	"strings"
	"testing"

	"logistics-insights/internal/analytics"
)

func TestCharts_EmptyInput(t *testing.T) {
	if GenerateDemandChart(analytics.DemandReport{}) != "" {
		t.Error("Expected no demand chart for an empty report")
	}
	if GenerateCarrierChart(analytics.CarrierReport{}) != "" {
		t.Error("Expected no carrier chart for an empty report")
	}
	if GenerateAnomalyPie(analytics.AnomalyReport{}) != "" {
		t.Error("Expected no anomaly pie for an empty report")
	}
	if GenerateTrendChart(nil) != "" {
		t.Error("Expected no trend chart for an empty trend")
	}
}

func TestGenerateDemandChart(t *testing.T) {
	report := analytics.DemandReport{
		AnalyzedPeriod: "90 days",
		Forecasts: []analytics.DemandForecast{
			{Product: "Tomato", WeeklyEstimate: 30},
			{Product: `Pepper "hot"`, WeeklyEstimate: 12.5},
		},
	}

	chart := GenerateDemandChart(report)
	expected := []string{
		"title \"Weekly Demand Estimate (90 days)\"",
		"x-axis [\"Tomato\", \"Pepper 'hot'\"]",
		"y-axis \"Units per Week\" 0 --> 36",
		"bar [30.0, 12.5]",
	}
	for _, e := range expected {
		if !strings.Contains(chart, e) {
			t.Errorf("Expected chart to contain %q, got:\n%s", e, chart)
		}
	}
}

func TestGenerateAnomalyPie(t *testing.T) {
	report := analytics.AnomalyReport{
		TotalAnomalies: 2,
		Anomalies: []analytics.AnomalyRecord{
			{Kinds: []analytics.AnomalyKind{analytics.KindPriceHigh, analytics.KindDurationExcessive}},
			{Kinds: []analytics.AnomalyKind{analytics.KindPriceHigh}},
		},
	}

	chart := GenerateAnomalyPie(report)
	if !strings.Contains(chart, "\"price-high\" : 2") || !strings.Contains(chart, "\"duration-excessive\" : 1") {
		t.Errorf("Unexpected pie: %s", chart)
	}
	if strings.Contains(chart, "price-low") {
		t.Errorf("Expected kinds without anomalies to be omitted: %s", chart)
	}
}

func TestGenerateTrendChart_OldestFirst(t *testing.T) {
	trend := []analytics.TrendPoint{
		{Date: "2026-10-16", Revenue: 200},
		{Date: "2026-10-15", Revenue: 100},
	}

	chart := GenerateTrendChart(trend)
	if !strings.Contains(chart, "x-axis [\"2026-10-15\", \"2026-10-16\"]") {
		t.Errorf("Expected oldest day first, got:\n%s", chart)
	}
	if !strings.Contains(chart, "line [100.0, 200.0]") {
		t.Errorf("Unexpected series: %s", chart)
	}
}

func TestGenerateCarrierChart(t *testing.T) {
	report := analytics.CarrierReport{Recommendations: []analytics.CarrierRecommendation{{Name: "Ana", Score: 85}}}
	chart := GenerateCarrierChart(report)
	if !strings.Contains(chart, "bar [85.0]") || !strings.Contains(chart, "0 --> 100") {
		t.Errorf("Unexpected carrier chart: %s", chart)
	}
}
