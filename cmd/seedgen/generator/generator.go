package generator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"logistics-insights/internal/store"
)

// Scenarios supported by Generate.
const (
	ScenarioMild  = "mild"
	ScenarioSpiky = "spiky"
)

type GeneratorConfig struct {
	Scenario string // "mild" or "spiky"
	Count    int
	Days     int
	Seed     int64
	Now      time.Time
}

type carrierProfile struct {
	name        string
	successRate float64
	cancelRate  float64
	meanHours   float64
}

var carriers = []carrierProfile{
	{"Ana Ribeiro", 0.96, 0.01, 20},
	{"Bruno Costa", 0.88, 0.04, 36},
	{"Carla Mendes", 0.80, 0.08, 60},
	{"Diego Souza", 0.92, 0.02, 28},
}

var warehouses = []string{"North Hub", "South Hub", "Harbor Depot"}

type product struct {
	name      string
	unitPrice float64
	meanQty   float64
	growth    float64 // relative change of the mean quantity over the whole period
}

var products = []product{
	{"Tomato", 2.5, 40, 0.4},
	{"Onion", 1.8, 25, 0},
	{"Potato", 1.2, 60, -0.3},
	{"Lettuce", 3.0, 12, 0.1},
	{"Carrot", 1.5, 18, 0},
	{"Pepper", 4.2, 8, 0.6},
	{"Garlic", 6.0, 5, -0.1},
}

// Generate builds a deterministic shipment history ending at cfg.Now.
func Generate(cfg GeneratorConfig) store.SeedData {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now().UTC()
	}
	if cfg.Days <= 0 {
		cfg.Days = 120
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	var data store.SeedData
	for i, c := range carriers {
		data.Carriers = append(data.Carriers, store.User{
			ID:    int64(i + 1),
			Name:  c.name,
			Email: fmt.Sprintf("carrier%d@example.com", i+1),
			Kind:  store.KindCarrier,
		})
	}
	for i, name := range warehouses {
		data.Warehouses = append(data.Warehouses, store.Warehouse{ID: int64(i + 1), Name: name})
	}

	start := cfg.Now.AddDate(0, 0, -cfg.Days)
	span := cfg.Now.Sub(start)

	for i := 0; i < cfg.Count; i++ {
		id := int64(i + 1)
		// Spread creation times evenly with some jitter; the last shipment lands close to Now.
		offset := time.Duration(float64(span) * (float64(i) + rng.Float64()) / float64(cfg.Count))
		created := start.Add(offset).Truncate(time.Second)
		progress := offset.Seconds() / span.Seconds()

		carrierIdx := rng.Intn(len(carriers))
		profile := carriers[carrierIdx]
		wh := int64(rng.Intn(len(warehouses)) + 1)

		items, price := sampleItems(rng, progress)
		hours := math.Max(1, rng.NormFloat64()*profile.meanHours*0.25+profile.meanHours)

		if cfg.Scenario == ScenarioSpiky && rng.Float64() < 0.03 {
			// Outliers: an overpriced consignment or one stuck in transit.
			if rng.Intn(2) == 0 {
				price *= 6 + rng.Float64()*4
			} else {
				hours *= 8 + rng.Float64()*4
			}
		}

		state := sampleState(rng, profile, created, hours, cfg.Now)
		updated := created.Add(time.Duration(hours * float64(time.Hour)))
		if state == store.StatePending || updated.After(cfg.Now) {
			updated = cfg.Now
		}

		s := store.Shipment{
			ID:                     id,
			Code:                   fmt.Sprintf("SHP-%06d", id),
			State:                  state,
			DestinationWarehouseID: &wh,
			TotalPrice:             math.Round(price*100) / 100,
			CreatedAt:              created,
			UpdatedAt:              updated,
			Items:                  items,
		}
		if state != store.StatePending {
			s.Assignment = &store.ShipmentAssignment{CarrierID: int64(carrierIdx + 1)}
		}
		data.Shipments = append(data.Shipments, s)
	}
	return data
}

func sampleItems(rng *rand.Rand, progress float64) ([]store.ShipmentItem, float64) {
	n := 1 + rng.Intn(3)
	picked := rng.Perm(len(products))[:n]

	items := make([]store.ShipmentItem, 0, n)
	var total float64
	for _, idx := range picked {
		p := products[idx]
		mean := p.meanQty * (1 + p.growth*progress)
		qty := math.Max(1, math.Round(rng.NormFloat64()*mean*0.2+mean))
		line := math.Round(qty*p.unitPrice*100) / 100
		items = append(items, store.ShipmentItem{ProductName: p.name, Quantity: qty, TotalPrice: line})
		total += line
	}
	return items, total
}

func sampleState(rng *rand.Rand, profile carrierProfile, created time.Time, hours float64, now time.Time) string {
	if now.Sub(created).Hours() < 6 && rng.Float64() < 0.5 {
		return store.StatePending
	}
	if created.Add(time.Duration(hours * float64(time.Hour))).After(now) {
		return store.StateInTransit
	}
	r := rng.Float64()
	switch {
	case r < profile.cancelRate:
		return store.StateCancelled
	case r < profile.cancelRate+profile.successRate:
		return store.StateDelivered
	default:
		// Neither delivered nor cancelled: lost in transit.
		return store.StateInTransit
	}
}
