package models

// Product is a catalog entry. The cart engine consults it for existence and
// for the price captured into PriceAtAdd; it never reads the live price back
// out of a cart entry.
type Product struct {
	BaseModel
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	Category      string  `gorm:"index" json:"category"`
	Brand         string  `json:"brand"`
	Image         string  `json:"image"`
	InStock       bool    `gorm:"default:true" json:"in_stock"`
	StockQuantity int     `json:"stock_quantity"`
	Rating        float64 `json:"rating"`
	NumReviews    int     `json:"num_reviews"`
}
