package visuals

import (
	"fmt"
	"math"
	"strings"

	"logistics-insights/internal/analytics"
)

// maxBars caps the number of categories so the text chart stays readable.
const maxBars = 20

func quote(label string) string {
	// Mermaid labels cannot carry double quotes.
	return fmt.Sprintf("\"%s\"", strings.ReplaceAll(label, "\"", "'"))
}

func yCeil(maxVal, headroom float64) int {
	return int(math.Max(1, math.Ceil(maxVal*headroom)))
}

// GenerateDemandChart creates a Mermaid bar chart of the weekly demand estimate per product.
func GenerateDemandChart(report analytics.DemandReport) string {
	if len(report.Forecasts) == 0 {
		return ""
	}

	var labels []string
	var values []string
	maxVal := 0.0

	for i, f := range report.Forecasts {
		if i >= maxBars {
			break
		}
		labels = append(labels, quote(f.Product))
		values = append(values, fmt.Sprintf("%.1f", f.WeeklyEstimate))
		maxVal = math.Max(maxVal, f.WeeklyEstimate)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"Weekly Demand Estimate (%s)\"\n", report.AnalyzedPeriod))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Units per Week\" 0 --> %d\n", yCeil(maxVal, 1.2)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateCarrierChart creates a Mermaid bar chart of carrier scores in ranking order.
func GenerateCarrierChart(report analytics.CarrierReport) string {
	if len(report.Recommendations) == 0 {
		return ""
	}

	var labels []string
	var values []string

	for i, r := range report.Recommendations {
		if i >= maxBars {
			break
		}
		labels = append(labels, quote(r.Name))
		values = append(values, fmt.Sprintf("%.1f", r.Score))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Carrier Score\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString("    y-axis \"Score\" 0 --> 100\n")
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateAnomalyPie creates a Mermaid pie chart of anomaly kinds.
func GenerateAnomalyPie(report analytics.AnomalyReport) string {
	if report.TotalAnomalies == 0 {
		return ""
	}

	counts := make(map[analytics.AnomalyKind]int)
	for _, a := range report.Anomalies {
		for _, k := range a.Kinds {
			counts[k]++
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie title Shipment Anomalies by Kind\n")
	for _, k := range []analytics.AnomalyKind{analytics.KindPriceHigh, analytics.KindPriceLow, analytics.KindDurationExcessive} {
		if counts[k] > 0 {
			sb.WriteString(fmt.Sprintf("    \"%s\" : %d\n", k, counts[k]))
		}
	}
	sb.WriteString("```")
	return sb.String()
}

// GenerateTrendChart creates a Mermaid line chart of daily warehouse revenue, oldest day first.
func GenerateTrendChart(trend []analytics.TrendPoint) string {
	if len(trend) == 0 {
		return ""
	}

	var labels []string
	var values []string
	maxVal := 0.0

	// The trend is most recent first; charts read left to right.
	for i := len(trend) - 1; i >= 0; i-- {
		p := trend[i]
		labels = append(labels, quote(p.Date))
		values = append(values, fmt.Sprintf("%.1f", p.Revenue))
		maxVal = math.Max(maxVal, p.Revenue)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Daily Revenue\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Revenue\" 0 --> %d\n", yCeil(maxVal, 1.2)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}
