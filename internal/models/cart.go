package models

import (
	"github.com/google/uuid"
)

// MaxItemQuantity caps the quantity of a single cart entry. Merging adds
// saturates at this value instead of failing.
const MaxItemQuantity = 9999

// Cart is the single live cart of a user, created lazily on first access and
// emptied (not deleted) by checkout.
//
// Version implements optimistic concurrency: every mutation and the checkout
// clear are guarded by a compare-and-bump on this column, so two writers
// racing on the same cart cannot both win.
type Cart struct {
	BaseModel
	UserID  uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Version int64      `json:"-"`
	Items   []CartItem `json:"items"`
}

// CartItem is one entry of a cart. There is at most one entry per product;
// adds against an existing entry merge quantities. PriceAtAdd is captured
// when the entry is created and never re-synced to the live product price.
type CartItem struct {
	BaseModel
	CartID     uuid.UUID `gorm:"type:uuid;index:idx_cart_product,unique" json:"-"`
	ProductID  uuid.UUID `gorm:"type:uuid;index:idx_cart_product,unique" json:"product_id"`
	Quantity   int       `json:"quantity"`
	PriceAtAdd float64   `json:"price_at_add"`
}

// Item returns the cart entry for the given product, or nil.
func (c *Cart) Item(productID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}
