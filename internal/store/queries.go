package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"logistics-insights/internal/analytics"
)

// Queries load narrow row sets with dialect-neutral SQL and do the calendar bucketing in Go,
// so the same code runs on MySQL and SQLite. All buckets are computed in UTC.

type itemRow struct {
	ProductName string
	Quantity    float64
	CreatedAt   time.Time
}

// WeeklyProductDemand groups line items created since the given time by product and calendar week.
// Rows are ordered by week descending, then total quantity descending, then product name.
func (p *Provider) WeeklyProductDemand(ctx context.Context, since time.Time) ([]analytics.WeeklyProductRow, error) {
	var items []itemRow
	err := p.db.WithContext(ctx).
		Table("shipment_items AS si").
		Select("si.product_name, si.quantity, s.created_at").
		Joins("JOIN shipments AS s ON s.id = si.shipment_id").
		Where("s.created_at >= ?", since.UTC()).
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load product demand: %w", err)
	}

	type key struct {
		product string
		week    time.Time
	}
	buckets := make(map[key]*analytics.WeeklyProductRow)
	for _, it := range items {
		k := key{product: it.ProductName, week: weekStart(it.CreatedAt)}
		row, ok := buckets[k]
		if !ok {
			row = &analytics.WeeklyProductRow{Product: k.product, WeekStart: k.week}
			buckets[k] = row
		}
		row.Frequency++
		row.TotalQuantity += it.Quantity
	}

	out := make([]analytics.WeeklyProductRow, 0, len(buckets))
	for _, row := range buckets {
		row.AvgQuantity = analytics.SafeDiv(row.TotalQuantity, float64(row.Frequency))
		out = append(out, *row)
	}
	slices.SortFunc(out, func(a, b analytics.WeeklyProductRow) int {
		if c := b.WeekStart.Compare(a.WeekStart); c != 0 {
			return c
		}
		if c := cmp.Compare(b.TotalQuantity, a.TotalQuantity); c != 0 {
			return c
		}
		return cmp.Compare(a.Product, b.Product)
	})
	return out, nil
}

type assignmentRow struct {
	CarrierID int64
	State     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CarrierStats returns delivery statistics of every carrier with at least one assigned shipment.
// When warehouseID is set only shipments bound for that warehouse are counted.
func (p *Provider) CarrierStats(ctx context.Context, warehouseID *int64) ([]analytics.CarrierStats, error) {
	var carriers []User
	if err := p.db.WithContext(ctx).Where("kind = ?", KindCarrier).Order("id").Find(&carriers).Error; err != nil {
		return nil, fmt.Errorf("failed to load carriers: %w", err)
	}

	q := p.db.WithContext(ctx).
		Table("shipment_assignments AS sa").
		Select("sa.carrier_id, s.state, s.created_at, s.updated_at").
		Joins("JOIN shipments AS s ON s.id = sa.shipment_id")
	if warehouseID != nil {
		q = q.Where("s.destination_warehouse_id = ?", *warehouseID)
	}
	var assignments []assignmentRow
	if err := q.Scan(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to load carrier assignments: %w", err)
	}

	type tally struct {
		total, delivered, cancelled int
		hours                       float64
	}
	tallies := make(map[int64]*tally)
	for _, a := range assignments {
		t, ok := tallies[a.CarrierID]
		if !ok {
			t = &tally{}
			tallies[a.CarrierID] = t
		}
		t.total++
		switch a.State {
		case StateDelivered:
			t.delivered++
		case StateCancelled:
			t.cancelled++
		}
		t.hours += hoursBetween(a.CreatedAt, a.UpdatedAt)
	}

	out := make([]analytics.CarrierStats, 0, len(tallies))
	for _, c := range carriers {
		t, ok := tallies[c.ID]
		if !ok || t.total == 0 {
			continue
		}
		avg := t.hours / float64(t.total)
		out = append(out, analytics.CarrierStats{
			ID:                   c.ID,
			Name:                 c.Name,
			Email:                c.Email,
			TotalShipments:       t.total,
			SuccessfulDeliveries: t.delivered,
			Cancellations:        t.cancelled,
			AvgTurnaroundHours:   &avg,
		})
	}
	return out, nil
}

type populationRow struct {
	TotalPrice float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ShipmentPopulation computes price and duration moments over delivered and in-transit shipments.
func (p *Provider) ShipmentPopulation(ctx context.Context) (analytics.PopulationStats, error) {
	var rows []populationRow
	err := p.db.WithContext(ctx).
		Model(&Shipment{}).
		Select("total_price, created_at, updated_at").
		Where("state IN ?", []string{StateDelivered, StateInTransit}).
		Scan(&rows).Error
	if err != nil {
		return analytics.PopulationStats{}, fmt.Errorf("failed to load shipment population: %w", err)
	}

	prices := make([]float64, len(rows))
	durations := make([]float64, len(rows))
	for i, r := range rows {
		prices[i] = r.TotalPrice
		durations[i] = hoursBetween(r.CreatedAt, r.UpdatedAt)
	}

	var pop analytics.PopulationStats
	pop.MeanPrice, pop.StdDevPrice = moments(prices)
	pop.MeanDurationHours, pop.StdDevDurationHours = moments(durations)
	return pop, nil
}

type candidateRow struct {
	ID         int64
	Code       string
	State      string
	TotalPrice float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Warehouse  *string
	Carrier    *string
}

// AnomalyCandidates streams shipments newest first (created_at DESC, id DESC) and returns at most
// limit of those lying outside the threshold band.
func (p *Provider) AnomalyCandidates(ctx context.Context, th analytics.Thresholds, limit int) ([]analytics.ShipmentRecord, error) {
	rows, err := p.db.WithContext(ctx).
		Table("shipments AS s").
		Select("s.id, s.code, s.state, s.total_price, s.created_at, s.updated_at, w.name AS warehouse, u.name AS carrier").
		Joins("LEFT JOIN warehouses AS w ON w.id = s.destination_warehouse_id").
		Joins("LEFT JOIN shipment_assignments AS sa ON sa.shipment_id = s.id").
		Joins("LEFT JOIN users AS u ON u.id = sa.carrier_id").
		Order("s.created_at DESC").
		Order("s.id DESC").
		Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query anomaly candidates: %w", err)
	}
	defer rows.Close()

	out := make([]analytics.ShipmentRecord, 0)
	for rows.Next() {
		if limit > 0 && len(out) >= limit {
			break
		}
		var r candidateRow
		if err := p.db.ScanRows(rows, &r); err != nil {
			return nil, fmt.Errorf("failed to scan anomaly candidate: %w", err)
		}
		duration := hoursBetween(r.CreatedAt, r.UpdatedAt)
		if !th.IsCandidate(r.TotalPrice, duration) {
			continue
		}
		rec := analytics.ShipmentRecord{
			ID:            r.ID,
			Code:          r.Code,
			State:         r.State,
			Price:         r.TotalPrice,
			CreatedAt:     r.CreatedAt,
			UpdatedAt:     r.UpdatedAt,
			DurationHours: duration,
		}
		if r.Warehouse != nil {
			rec.Warehouse = *r.Warehouse
		}
		if r.Carrier != nil {
			rec.Carrier = *r.Carrier
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate anomaly candidates: %w", err)
	}
	return out, nil
}

// TopProducts returns the best selling products of a warehouse by quantity.
func (p *Provider) TopProducts(ctx context.Context, warehouseID int64, since time.Time, limit int) ([]analytics.TopProductRow, error) {
	out := make([]analytics.TopProductRow, 0, limit)
	err := p.db.WithContext(ctx).
		Table("shipment_items AS si").
		Select("si.product_name AS product, " +
			"COALESCE(SUM(si.quantity), 0) AS quantity_sold, " +
			"COUNT(DISTINCT s.id) AS shipment_count, " +
			"COALESCE(SUM(si.total_price), 0) AS revenue").
		Joins("JOIN shipments AS s ON s.id = si.shipment_id").
		Where("s.destination_warehouse_id = ? AND s.created_at >= ?", warehouseID, since.UTC()).
		Group("si.product_name").
		Order("quantity_sold DESC").
		Order("si.product_name").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load top products: %w", err)
	}
	return out, nil
}

func (p *Provider) warehouseShipments(ctx context.Context, warehouseID int64, since time.Time) ([]populationRow, error) {
	var rows []populationRow
	err := p.db.WithContext(ctx).
		Model(&Shipment{}).
		Select("total_price, created_at, updated_at").
		Where("destination_warehouse_id = ? AND created_at >= ?", warehouseID, since.UTC()).
		Scan(&rows).Error
	return rows, err
}

// BestWeekday returns the day of the week with the most shipments to a warehouse, or nil when there
// are none. Ties go to the lower weekday number (Sunday = 0).
func (p *Provider) BestWeekday(ctx context.Context, warehouseID int64, since time.Time) (*analytics.WeekdayRow, error) {
	rows, err := p.warehouseShipments(ctx, warehouseID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load weekday distribution: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var counts [7]int
	for _, r := range rows {
		counts[r.CreatedAt.UTC().Weekday()]++
	}
	best := time.Sunday
	for d := time.Monday; d <= time.Saturday; d++ {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return &analytics.WeekdayRow{Weekday: best.String(), ShipmentCount: counts[best]}, nil
}

// DailyTrend returns shipments and revenue per calendar day, most recent day first.
// Days without shipments are omitted.
func (p *Provider) DailyTrend(ctx context.Context, warehouseID int64, since time.Time) ([]analytics.DailyTrendRow, error) {
	rows, err := p.warehouseShipments(ctx, warehouseID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily trend: %w", err)
	}

	days := make(map[time.Time]*analytics.DailyTrendRow)
	for _, r := range rows {
		d := dayStart(r.CreatedAt)
		row, ok := days[d]
		if !ok {
			row = &analytics.DailyTrendRow{Date: d}
			days[d] = row
		}
		row.Shipments++
		row.Revenue += r.TotalPrice
	}

	out := make([]analytics.DailyTrendRow, 0, len(days))
	for _, row := range days {
		out = append(out, *row)
	}
	slices.SortFunc(out, func(a, b analytics.DailyTrendRow) int {
		return b.Date.Compare(a.Date)
	})
	return out, nil
}
