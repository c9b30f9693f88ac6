package models

import "time"

// CartLine references a product by id; price and weight are resolved from
// the catalog when the cart is read, not stored here.
type CartLine struct {
	ProductID string `json:"productId" bson:"productId"`
	Quantity  int    `json:"quantity" bson:"quantity"`
}

// Cart is the single mutable cart document per user.
type Cart struct {
	UserID    string     `json:"userId" bson:"_id"`
	Items     []CartLine `json:"items" bson:"items"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}
