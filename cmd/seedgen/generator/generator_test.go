package generator

import (
	"testing"
	"time"

	"logistics-insights/internal/store"
)

var now = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func TestGenerate_Shape(t *testing.T) {
	data := Generate(GeneratorConfig{Scenario: ScenarioMild, Count: 300, Days: 90, Seed: 7, Now: now})

	if len(data.Carriers) != len(carriers) || len(data.Warehouses) != len(warehouses) {
		t.Errorf("Expected %d carriers and %d warehouses, got %d and %d", len(carriers), len(warehouses), len(data.Carriers), len(data.Warehouses))
	}
	if len(data.Shipments) != 300 {
		t.Fatalf("Expected 300 shipments, got %d", len(data.Shipments))
	}

	codes := make(map[string]bool)
	for _, s := range data.Shipments {
		if codes[s.Code] {
			t.Errorf("Duplicate shipment code %s", s.Code)
		}
		codes[s.Code] = true

		if s.CreatedAt.Before(now.AddDate(0, 0, -90)) || s.CreatedAt.After(now) {
			t.Errorf("Shipment %d created outside the window: %v", s.ID, s.CreatedAt)
		}
		if s.UpdatedAt.Before(s.CreatedAt) || s.UpdatedAt.After(now) {
			t.Errorf("Shipment %d has updated_at %v outside [created, now]", s.ID, s.UpdatedAt)
		}
		if len(s.Items) == 0 {
			t.Errorf("Shipment %d has no items", s.ID)
		}
		if s.State == store.StatePending && s.Assignment != nil {
			t.Errorf("Pending shipment %d should not be assigned", s.ID)
		}
		if s.State != store.StatePending && s.Assignment == nil {
			t.Errorf("Shipment %d in state %s should be assigned", s.ID, s.State)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(GeneratorConfig{Scenario: ScenarioSpiky, Count: 50, Seed: 3, Now: now})
	b := Generate(GeneratorConfig{Scenario: ScenarioSpiky, Count: 50, Seed: 3, Now: now})

	for i := range a.Shipments {
		if a.Shipments[i].TotalPrice != b.Shipments[i].TotalPrice || a.Shipments[i].State != b.Shipments[i].State {
			t.Fatalf("Expected identical output for the same seed at shipment %d", i)
		}
	}
}
