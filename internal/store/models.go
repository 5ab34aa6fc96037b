package store

import "time"

// Shipment states.
const (
	StatePending   = "pending"
	StateInTransit = "in-transit"
	StateDelivered = "delivered"
	StateCancelled = "cancelled"
)

// KindCarrier marks users that can be assigned to shipments.
const KindCarrier = "carrier"

// User is an account of the platform. Carriers have Kind == KindCarrier.
type User struct {
	ID    int64  `gorm:"column:id;primaryKey"`
	Name  string `gorm:"column:name;type:varchar(128);not null"`
	Email string `gorm:"column:email;type:varchar(255);not null;uniqueIndex:uk_users_email"`
	Kind  string `gorm:"column:kind;type:varchar(32);not null;index:idx_users_kind"`
}

// TableName pins the table name.
func (User) TableName() string {
	return "users"
}

// Warehouse is a shipment destination.
type Warehouse struct {
	ID   int64  `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;type:varchar(128);not null"`
}

// TableName pins the table name.
func (Warehouse) TableName() string {
	return "warehouses"
}

// Shipment is one consignment. UpdatedAt doubles as the time of the last state change.
type Shipment struct {
	ID                     int64     `gorm:"column:id;primaryKey"`
	Code                   string    `gorm:"column:code;type:varchar(64);not null;uniqueIndex:uk_shipments_code"`
	State                  string    `gorm:"column:state;type:varchar(32);not null;index:idx_shipments_state"`
	DestinationWarehouseID *int64    `gorm:"column:destination_warehouse_id;index:idx_shipments_warehouse_created"`
	TotalPrice             float64   `gorm:"column:total_price;not null;default:0"`
	CreatedAt              time.Time `gorm:"column:created_at;not null;index:idx_shipments_warehouse_created;index:idx_shipments_created"`
	UpdatedAt              time.Time `gorm:"column:updated_at;not null"`

	Items      []ShipmentItem      `gorm:"foreignKey:ShipmentID"`
	Assignment *ShipmentAssignment `gorm:"foreignKey:ShipmentID"`
}

// TableName pins the table name.
func (Shipment) TableName() string {
	return "shipments"
}

// ShipmentItem is a product line of a shipment.
type ShipmentItem struct {
	ID          int64   `gorm:"column:id;primaryKey"`
	ShipmentID  int64   `gorm:"column:shipment_id;not null;index:idx_items_shipment"`
	ProductName string  `gorm:"column:product_name;type:varchar(128);not null"`
	Quantity    float64 `gorm:"column:quantity;not null"`
	TotalPrice  float64 `gorm:"column:total_price;not null;default:0"`
}

// TableName pins the table name.
func (ShipmentItem) TableName() string {
	return "shipment_items"
}

// ShipmentAssignment links a shipment to the carrier delivering it.
type ShipmentAssignment struct {
	ID         int64 `gorm:"column:id;primaryKey"`
	ShipmentID int64 `gorm:"column:shipment_id;not null;uniqueIndex:uk_assignments_shipment"`
	CarrierID  int64 `gorm:"column:carrier_id;not null;index:idx_assignments_carrier"`
}

// TableName pins the table name.
func (ShipmentAssignment) TableName() string {
	return "shipment_assignments"
}

func models() []any {
	return []any{&User{}, &Warehouse{}, &Shipment{}, &ShipmentItem{}, &ShipmentAssignment{}}
}
