package models

import (
	"github.com/google/uuid"
)

// Order statuses. Only OrderStatusCreated is assigned by checkout; the
// remaining transitions belong to fulfilment, which this core does not own.
const (
	OrderStatusCreated    = "created"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Order is the immutable record of a completed checkout. Items and Total are
// snapshots taken from the cart at checkout time and are never recomputed.
type Order struct {
	BaseModel
	UserID uuid.UUID   `gorm:"type:uuid;index" json:"user_id"`
	Status string      `gorm:"default:created" json:"status"`
	Total  float64     `json:"total"`
	Items  []OrderItem `json:"items"`
}

// OrderItem is one snapshotted line of an order. Price is the cart entry's
// PriceAtAdd, not the product's live price.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid" json:"product_id"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
}
