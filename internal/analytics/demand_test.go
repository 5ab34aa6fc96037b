package analytics

import (
	"fmt"
	"testing"
	"time"
)

func weekRows(product string, start time.Time, quantities ...float64) []WeeklyProductRow {
	rows := make([]WeeklyProductRow, len(quantities))
	for i, q := range quantities {
		rows[i] = WeeklyProductRow{
			Product:       product,
			WeekStart:     start.AddDate(0, 0, -7*i),
			Frequency:     1,
			TotalQuantity: q,
			AvgQuantity:   q,
		}
	}
	return rows
}

func TestEstimateDemand_EndToEnd(t *testing.T) {
	now := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	rows := weekRows("A", now, 40, 20)

	report := EstimateDemand(rows, DemandOptions{})

	if len(report.Forecasts) != 1 {
		t.Fatalf("Expected 1 forecast, got %d", len(report.Forecasts))
	}
	f := report.Forecasts[0]
	if f.WeeklyEstimate != 30.0 {
		t.Errorf("Expected weekly estimate 30, got %v", f.WeeklyEstimate)
	}
	if f.MonthlyEstimate != 120.0 {
		t.Errorf("Expected monthly estimate 120, got %v", f.MonthlyEstimate)
	}
	if f.ChangePercent != 100.0 {
		t.Errorf("Expected change 100%%, got %v", f.ChangePercent)
	}
	if f.Trend != TrendGrowing {
		t.Errorf("Expected trend growing, got %s", f.Trend)
	}
	if f.Priority != PriorityMedium {
		t.Errorf("Expected priority medium, got %s", f.Priority)
	}
	if f.OrderFrequency != 2 {
		t.Errorf("Expected order frequency 2, got %d", f.OrderFrequency)
	}
	if report.WindowDays != DefaultDemandWindowDays || report.AnalyzedPeriod != "90 days" {
		t.Errorf("Expected default window of 90 days, got %d (%s)", report.WindowDays, report.AnalyzedPeriod)
	}
}

func TestEstimateDemand_ShortHistoryIsStable(t *testing.T) {
	now := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	rows := weekRows("Single", now, 75)

	f := EstimateDemand(rows, DemandOptions{}).Forecasts[0]

	if f.Trend != TrendStable {
		t.Errorf("Expected stable trend for one data point, got %s", f.Trend)
	}
	if f.ChangePercent != 0 {
		t.Errorf("Expected change 0, got %v", f.ChangePercent)
	}
	if f.Priority != PriorityHigh {
		t.Errorf("Expected priority high, got %s", f.Priority)
	}
}

func TestEstimateDemand_TrendClassification(t *testing.T) {
	now := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		quantities []float64
		trend      Trend
		change     float64
	}{
		{"Declining", []float64{10, 20}, TrendDeclining, -50},
		{"WithinBand", []float64{104, 100}, TrendStable, 4},
		{"EdgeOfBand", []float64{105, 100}, TrendStable, 5},
		{"ZeroOldestGuarded", []float64{30, 0}, TrendStable, 0},
		{"OnlyFirstFourWeeksCount", []float64{50, 40, 30, 25, 1000}, TrendGrowing, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := EstimateDemand(weekRows("P", now, tt.quantities...), DemandOptions{}).Forecasts[0]
			if f.Trend != tt.trend {
				t.Errorf("Expected trend %s, got %s", tt.trend, f.Trend)
			}
			if f.ChangePercent != tt.change {
				t.Errorf("Expected change %v, got %v", tt.change, f.ChangePercent)
			}
		})
	}
}

func TestEstimateDemand_RecentWindowAverage(t *testing.T) {
	now := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	f := EstimateDemand(weekRows("P", now, 50, 40, 30, 20, 1000), DemandOptions{}).Forecasts[0]

	if f.WeeklyEstimate != 35 {
		t.Errorf("Expected weekly estimate 35 over the last four weeks, got %v", f.WeeklyEstimate)
	}
	if f.OrderFrequency != 5 {
		t.Errorf("Expected frequency to count the whole window, got %d", f.OrderFrequency)
	}
}

func TestEstimateDemand_StableRankingAndTopN(t *testing.T) {
	now := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	var rows []WeeklyProductRow
	rows = append(rows, weekRows("Tie-1", now, 10)...)
	rows = append(rows, weekRows("Big", now, 90)...)
	rows = append(rows, weekRows("Tie-2", now, 10)...)
	rows = append(rows, weekRows("Tie-3", now, 10)...)

	report := EstimateDemand(rows, DemandOptions{TopN: 3})

	expected := []string{"Big", "Tie-1", "Tie-2"}
	if len(report.Forecasts) != len(expected) {
		t.Fatalf("Expected %d forecasts, got %d", len(expected), len(report.Forecasts))
	}
	for i, name := range expected {
		if report.Forecasts[i].Product != name {
			t.Errorf("at index %d: expected %s, got %s", i, name, report.Forecasts[i].Product)
		}
	}
	if report.ProductsAnalyzed != 4 {
		t.Errorf("Expected 4 products analyzed, got %d", report.ProductsAnalyzed)
	}
}

func TestEstimateDemand_DefaultTopN(t *testing.T) {
	now := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	var rows []WeeklyProductRow
	for i := 0; i < 30; i++ {
		rows = append(rows, weekRows(fmt.Sprintf("P-%02d", i), now, float64(i))...)
	}

	report := EstimateDemand(rows, DemandOptions{})
	if len(report.Forecasts) != DefaultDemandTopN {
		t.Errorf("Expected %d forecasts, got %d", DefaultDemandTopN, len(report.Forecasts))
	}
	if report.Forecasts[0].Product != "P-29" {
		t.Errorf("Expected P-29 first, got %s", report.Forecasts[0].Product)
	}
}

func TestEstimateDemand_Empty(t *testing.T) {
	report := EstimateDemand(nil, DemandOptions{WindowDays: 30})
	if report.Forecasts == nil || len(report.Forecasts) != 0 {
		t.Errorf("Expected empty non-nil forecast list, got %v", report.Forecasts)
	}
	if report.AnalyzedPeriod != "30 days" {
		t.Errorf("Expected period '30 days', got %q", report.AnalyzedPeriod)
	}
}

func TestFoldProductHistory(t *testing.T) {
	now := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	rows := []WeeklyProductRow{
		{Product: "B", WeekStart: now, Frequency: 2, TotalQuantity: 5},
		{Product: "A", WeekStart: now, Frequency: 1, TotalQuantity: 7},
		{Product: "B", WeekStart: now.AddDate(0, 0, -7), Frequency: 3, TotalQuantity: 9},
	}

	histories := FoldProductHistory(rows)
	if len(histories) != 2 {
		t.Fatalf("Expected 2 histories, got %d", len(histories))
	}
	b := histories[0]
	if b.Name != "B" || b.TotalFrequency != 5 || b.TotalQuantity != 14 {
		t.Errorf("Unexpected fold for B: %+v", *b)
	}
	if len(b.Weekly) != 2 || b.Weekly[0] != 5 || b.Weekly[1] != 9 {
		t.Errorf("Expected weekly sequence [5 9], got %v", b.Weekly)
	}
}
