package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"logistics-insights/internal/analytics"
	"logistics-insights/internal/config"
	"logistics-insights/internal/service"

	"github.com/gin-gonic/gin"
)

var testNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

type stubProvider struct {
	err         error
	gotWindow   time.Time
	gotCarrier  *int64
	gotLimit    int
	gotInsights int64
}

func (p *stubProvider) WeeklyProductDemand(_ context.Context, since time.Time) ([]analytics.WeeklyProductRow, error) {
	p.gotWindow = since
	if p.err != nil {
		return nil, p.err
	}
	week := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	return []analytics.WeeklyProductRow{
		{Product: "Tomato", WeekStart: week, Frequency: 3, TotalQuantity: 60, AvgQuantity: 20},
	}, nil
}

func (p *stubProvider) CarrierStats(_ context.Context, warehouseID *int64) ([]analytics.CarrierStats, error) {
	p.gotCarrier = warehouseID
	if p.err != nil {
		return nil, p.err
	}
	hours := 12.0
	return []analytics.CarrierStats{
		{ID: 7, Name: "Ana", Email: "ana@example.com", TotalShipments: 10, SuccessfulDeliveries: 9, AvgTurnaroundHours: &hours},
	}, nil
}

func (p *stubProvider) ShipmentPopulation(context.Context) (analytics.PopulationStats, error) {
	return analytics.PopulationStats{}, p.err
}

func (p *stubProvider) AnomalyCandidates(_ context.Context, _ analytics.Thresholds, limit int) ([]analytics.ShipmentRecord, error) {
	p.gotLimit = limit
	return nil, p.err
}

func (p *stubProvider) TopProducts(_ context.Context, warehouseID int64, _ time.Time, _ int) ([]analytics.TopProductRow, error) {
	p.gotInsights = warehouseID
	return nil, p.err
}

func (p *stubProvider) BestWeekday(context.Context, int64, time.Time) (*analytics.WeekdayRow, error) {
	return nil, p.err
}

func (p *stubProvider) DailyTrend(context.Context, int64, time.Time) ([]analytics.DailyTrendRow, error) {
	return nil, p.err
}

func (p *stubProvider) Ping(context.Context) error {
	return p.err
}

func newTestServer(p *stubProvider) http.Handler {
	gin.SetMode(gin.TestMode)
	svc := service.New(p, service.Options{Now: func() time.Time { return testNow }})
	return NewServer(&config.AppConfig{HTTPAddr: ":0", RequestTimeout: time.Second}, svc).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var decoded map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("Expected JSON body, got %q: %v", w.Body.String(), err)
		}
	}
	return w.Code, decoded
}

func TestDemandEndpoint(t *testing.T) {
	p := &stubProvider{}
	code, body := do(t, newTestServer(p), http.MethodGet, "/api/v1/analytics/demand?window_days=30&top_n=5", "")

	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %v", code, body)
	}
	if body["analyzed_period"] != "30 days" || body["success"] != true {
		t.Errorf("Unexpected body: %v", body)
	}
	if want := testNow.AddDate(0, 0, -30); !p.gotWindow.Equal(want) {
		t.Errorf("Expected window start %v, got %v", want, p.gotWindow)
	}
}

func TestDemandEndpoint_Validation(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   int
		path   string
	}{
		{"ZeroWindowTakesDefault", "/api/v1/analytics/demand?window_days=0", http.StatusOK, ""},
		{"NegativeTopN", "/api/v1/analytics/demand?top_n=-1", http.StatusBadRequest, "top_n"},
		{"WindowTooLarge", "/api/v1/analytics/demand?window_days=5000", http.StatusBadRequest, "window_days"},
		{"NotANumber", "/api/v1/analytics/demand?window_days=abc", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, newTestServer(&stubProvider{}), http.MethodGet, tt.target, "")

			if code != tt.want {
				t.Fatalf("Expected %d, got %d: %v", tt.want, code, body)
			}
			if code == http.StatusOK {
				return
			}
			if body["success"] != false || body["message"] != "Validation failed" {
				t.Errorf("Unexpected failure body: %v", body)
			}
			if tt.path == "" {
				return
			}
			details, _ := body["details"].([]any)
			if len(details) != 1 || details[0].(map[string]any)["path"] != tt.path {
				t.Errorf("Expected one detail for %s, got %v", tt.path, body["details"])
			}
		})
	}
}

func TestRecommendCarrierEndpoint(t *testing.T) {
	t.Run("EmptyBody", func(t *testing.T) {
		p := &stubProvider{}
		code, body := do(t, newTestServer(p), http.MethodPost, "/api/v1/analytics/carriers/recommend", "")
		if code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %v", code, body)
		}
		if p.gotCarrier != nil {
			t.Errorf("Expected no warehouse filter, got %d", *p.gotCarrier)
		}
		best := body["best_option"].(map[string]any)
		if best["name"] != "Ana" {
			t.Errorf("Expected Ana as best option, got %v", best)
		}
	})

	t.Run("WarehouseFilter", func(t *testing.T) {
		p := &stubProvider{}
		code, _ := do(t, newTestServer(p), http.MethodPost, "/api/v1/analytics/carriers/recommend", `{"warehouse_id": 3}`)
		if code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", code)
		}
		if p.gotCarrier == nil || *p.gotCarrier != 3 {
			t.Errorf("Expected warehouse filter 3, got %v", p.gotCarrier)
		}
	})

	t.Run("InvalidWarehouse", func(t *testing.T) {
		code, body := do(t, newTestServer(&stubProvider{}), http.MethodPost, "/api/v1/analytics/carriers/recommend", `{"warehouse_id": 0}`)
		if code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %v", code, body)
		}
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		code, _ := do(t, newTestServer(&stubProvider{}), http.MethodPost, "/api/v1/analytics/carriers/recommend", `{"warehouse_id":`)
		if code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", code)
		}
	})
}

func TestAnomaliesEndpoint(t *testing.T) {
	p := &stubProvider{}
	code, body := do(t, newTestServer(p), http.MethodGet, "/api/v1/analytics/anomalies?limit=7", "")
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %v", code, body)
	}
	if body["total_anomalies"] != 0.0 {
		t.Errorf("Expected 0 anomalies, got %v", body["total_anomalies"])
	}
}

func TestWarehouseInsightsEndpoint(t *testing.T) {
	p := &stubProvider{}
	code, body := do(t, newTestServer(p), http.MethodGet, "/api/v1/analytics/warehouses/4/insights", "")
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %v", code, body)
	}
	if p.gotInsights != 4 || body["warehouse_id"] != 4.0 {
		t.Errorf("Expected warehouse 4, got provider=%d body=%v", p.gotInsights, body["warehouse_id"])
	}
	if body["best_weekday"] != "N/A" {
		t.Errorf("Expected N/A weekday on empty history, got %v", body["best_weekday"])
	}

	code, body = do(t, newTestServer(&stubProvider{}), http.MethodGet, "/api/v1/analytics/warehouses/0/insights", "")
	if code != http.StatusBadRequest {
		t.Errorf("Expected 400 for warehouse 0, got %d: %v", code, body)
	}
}

func TestProviderFailureIs500(t *testing.T) {
	p := &stubProvider{err: errors.New("connection refused")}
	code, body := do(t, newTestServer(p), http.MethodGet, "/api/v1/analytics/demand", "")

	if code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", code)
	}
	if body["success"] != false || body["message"] != "Failed to forecast product demand" {
		t.Errorf("Unexpected failure body: %v", body)
	}
	if id, _ := body["request_id"].(string); id == "" {
		t.Error("Expected a request id on the failure")
	}
	if _, ok := body["forecasts"]; ok {
		t.Error("Expected no partial data on failure")
	}
}

func TestHealthEndpoint(t *testing.T) {
	code, body := do(t, newTestServer(&stubProvider{}), http.MethodGet, "/health", "")
	if code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("Expected healthy 200, got %d: %v", code, body)
	}

	code, body = do(t, newTestServer(&stubProvider{err: errors.New("down")}), http.MethodGet, "/health", "")
	if code != http.StatusServiceUnavailable || body["status"] != "degraded" {
		t.Errorf("Expected degraded 503, got %d: %v", code, body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(&stubProvider{})
	do(t, h, http.MethodGet, "/api/v1/analytics/anomalies", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "logistics_insights_http_request_duration_seconds") {
		t.Error("Expected the HTTP duration histogram in the scrape")
	}
}
