package mcp

import (
	"context"
	"fmt"

	"logistics-insights/internal/service"
	"logistics-insights/internal/visuals"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// DemandInput are the arguments of forecast_product_demand.
type DemandInput struct {
	WindowDays int `json:"window_days,omitempty" jsonschema:"History window in days (default 90)"`
	TopN       int `json:"top_n,omitempty" jsonschema:"Maximum number of products returned (default 20)"`
}

// CarrierInput are the arguments of recommend_carrier.
type CarrierInput struct {
	WarehouseID *int64 `json:"warehouse_id,omitempty" jsonschema:"Only count shipments bound for this warehouse"`
}

// AnomalyInput are the arguments of detect_shipment_anomalies.
type AnomalyInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of anomalies returned (default 50)"`
}

// InsightInput are the arguments of get_warehouse_insights.
type InsightInput struct {
	WarehouseID int64 `json:"warehouse_id" jsonschema:"The warehouse ID"`
}

// HealthInput takes no arguments.
type HealthInput struct{}

// inputSchema infers the schema of T and applies inclusive lower bounds to the named properties.
func inputSchema[T any](minimums map[string]float64) *jsonschema.Schema {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		panic(fmt.Sprintf("invalid tool input schema: %v", err))
	}
	for name, lower := range minimums {
		if prop, ok := schema.Properties[name]; ok {
			bound := lower
			prop.Minimum = &bound
		}
	}
	return schema
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name: "forecast_product_demand",
		Description: "Estimate weekly and monthly demand per product from the recent shipment history. " +
			"The estimate is the mean of the last (up to) 4 weekly totals; the trend compares the newest week to the oldest of those weeks.\n\n" +
			"Use it to plan restocking: 'priority' ranks products by expected weekly volume (high > 50, medium > 20 units).\n" +
			"DO NOT present the estimate as a statistical forecast with confidence intervals: it is a moving average.",
		InputSchema: inputSchema[DemandInput](map[string]float64{"window_days": 1, "top_n": 1}),
	}, s.handleForecastDemand)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name: "recommend_carrier",
		Description: "Rank carriers by historical delivery performance and recommend the best option. " +
			"The 0-100 score combines success rate (50%), experience (up to 20 points for 10+ shipments) and speed (up to 30 points, minus 10 per day of average turnaround).\n\n" +
			"Ordering is by success rate, then shipment volume, NOT by score: mention both when they disagree.",
		InputSchema: inputSchema[CarrierInput](map[string]float64{"warehouse_id": 1}),
	}, s.handleRecommendCarrier)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name: "detect_shipment_anomalies",
		Description: "Flag recent shipments whose price or duration lies more than 2 standard deviations from the mean " +
			"of delivered and in-transit shipments. Severity is 'high' when a shipment is an outlier in two dimensions.\n\n" +
			"The thresholds used are returned with the result; quote them when explaining why a shipment was flagged.",
		InputSchema: inputSchema[AnomalyInput](map[string]float64{"limit": 1}),
	}, s.handleDetectAnomalies)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name: "get_warehouse_insights",
		Description: "Summarize a warehouse: top 5 products of the last 30 days, busiest weekday of the last 60 days, " +
			"the last 7 days of activity and a plain-language recommendation derived from the revenue trend.",
		InputSchema: inputSchema[InsightInput](map[string]float64{"warehouse_id": 1}),
	}, s.handleWarehouseInsights)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "check_health",
		Description: "Report service status, database reachability, uptime and request counters.",
		InputSchema: inputSchema[HealthInput](nil),
	}, s.handleCheckHealth)
}

func (s *Server) handleForecastDemand(ctx context.Context, _ *sdk.CallToolRequest, in DemandInput) (*sdk.CallToolResult, any, error) {
	res, err := s.svc.Demand(ctx, service.DemandRequest{WindowDays: in.WindowDays, TopN: in.TopN})
	if err != nil {
		return failureResult(err)
	}

	guidance := []string{
		"Forecasts are sorted by weekly_estimate, highest first.",
		"A trend based on fewer than 2 weeks of data is always reported as 'stable'.",
	}
	if len(res.Forecasts) == 0 {
		guidance = append(guidance, "No shipment items were found in the window. Try a larger window_days.")
	}
	return s.toolResult(WrapResponse(res, nil, guidance), visuals.GenerateDemandChart(res.DemandReport))
}

func (s *Server) handleRecommendCarrier(ctx context.Context, _ *sdk.CallToolRequest, in CarrierInput) (*sdk.CallToolResult, any, error) {
	res, err := s.svc.Carriers(ctx, service.CarrierRequest{WarehouseID: in.WarehouseID})
	if err != nil {
		return failureResult(err)
	}

	var guidance []string
	if res.BestOption == nil {
		guidance = append(guidance, "No carrier has assigned shipments yet, so no recommendation can be made.")
	} else {
		guidance = append(guidance, fmt.Sprintf("Best option: %s (%s, score %.2f).", res.BestOption.Name, res.BestOption.Label, res.BestOption.Score))
	}
	return s.toolResult(WrapResponse(res, res.Faults, guidance), visuals.GenerateCarrierChart(res.CarrierReport))
}

func (s *Server) handleDetectAnomalies(ctx context.Context, _ *sdk.CallToolRequest, in AnomalyInput) (*sdk.CallToolResult, any, error) {
	res, err := s.svc.Anomalies(ctx, service.AnomalyRequest{Limit: in.Limit})
	if err != nil {
		return failureResult(err)
	}

	guidance := []string{
		"Anomalies are listed newest first.",
		"A standard deviation of 0 collapses the band to the mean: every shipment that differs from it is flagged.",
	}
	return s.toolResult(WrapResponse(res, res.Faults, guidance), visuals.GenerateAnomalyPie(res.AnomalyReport))
}

func (s *Server) handleWarehouseInsights(ctx context.Context, _ *sdk.CallToolRequest, in InsightInput) (*sdk.CallToolResult, any, error) {
	res, err := s.svc.WarehouseInsights(ctx, in.WarehouseID)
	if err != nil {
		return failureResult(err)
	}
	return s.toolResult(WrapResponse(res, nil, nil), visuals.GenerateTrendChart(res.Trend))
}

func (s *Server) handleCheckHealth(ctx context.Context, _ *sdk.CallToolRequest, _ HealthInput) (*sdk.CallToolResult, any, error) {
	return s.toolResult(WrapResponse(s.svc.Health(ctx), nil, nil))
}
