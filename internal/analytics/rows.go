package analytics

import "time"

// WeeklyProductRow is one product's totals for one calendar week.
type WeeklyProductRow struct {
	Product       string    `json:"product"`
	WeekStart     time.Time `json:"week_start"`
	Frequency     int       `json:"frequency"`
	TotalQuantity float64   `json:"total_quantity"`
	AvgQuantity   float64   `json:"avg_quantity"`
}

// CarrierStats summarizes the delivery history of one carrier.
type CarrierStats struct {
	ID                   int64    `json:"id"`
	Name                 string   `json:"name"`
	Email                string   `json:"email"`
	TotalShipments       int      `json:"total_shipments"`
	SuccessfulDeliveries int      `json:"successful_deliveries"`
	Cancellations        int      `json:"cancellations"`
	AvgTurnaroundHours   *float64 `json:"avg_turnaround_hours"`
}

// PopulationStats holds price and duration moments of the reference population.
// A nil field means the population was too small to compute it.
type PopulationStats struct {
	MeanPrice           *float64 `json:"mean_price"`
	StdDevPrice         *float64 `json:"stddev_price"`
	MeanDurationHours   *float64 `json:"mean_duration_hours"`
	StdDevDurationHours *float64 `json:"stddev_duration_hours"`
}

// ShipmentRecord is a single shipment considered by the anomaly detector.
type ShipmentRecord struct {
	ID            int64     `json:"shipment_id"`
	Code          string    `json:"code"`
	State         string    `json:"state"`
	Price         float64   `json:"price"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Warehouse     string    `json:"warehouse,omitempty"`
	Carrier       string    `json:"carrier,omitempty"`
	DurationHours float64   `json:"duration_hours"`
}

// TopProductRow is a product's sales within one warehouse.
type TopProductRow struct {
	Product       string  `json:"product"`
	QuantitySold  float64 `json:"quantity_sold"`
	ShipmentCount int     `json:"shipment_count"`
	Revenue       float64 `json:"revenue"`
}

// WeekdayRow is the shipment count for one day of the week.
type WeekdayRow struct {
	Weekday       string `json:"weekday"`
	ShipmentCount int    `json:"shipment_count"`
}

// DailyTrendRow is the shipment count and revenue for one calendar day.
type DailyTrendRow struct {
	Date      time.Time `json:"date"`
	Shipments int       `json:"shipments"`
	Revenue   float64   `json:"revenue"`
}

// DataFault reports provider rows that contradict each other, such as more deliveries than shipments.
type DataFault struct {
	Kind    string `json:"kind"`
	Subject string `json:"subject"`
	Detail  string `json:"detail"`
}
