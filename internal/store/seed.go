package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// SeedData is a batch of history written by Seed.
type SeedData struct {
	Carriers   []User
	Warehouses []Warehouse
	Shipments  []Shipment
}

const seedBatchSize = 200

// Seed inserts the batch in one transaction. Shipment items and assignments are written through
// the shipment associations.
func (p *Provider) Seed(ctx context.Context, data SeedData) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(data.Carriers) > 0 {
			if err := tx.CreateInBatches(&data.Carriers, seedBatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert carriers: %w", err)
			}
		}
		if len(data.Warehouses) > 0 {
			if err := tx.CreateInBatches(&data.Warehouses, seedBatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert warehouses: %w", err)
			}
		}
		if len(data.Shipments) > 0 {
			if err := tx.CreateInBatches(&data.Shipments, seedBatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert shipments: %w", err)
			}
		}
		return nil
	})
}
