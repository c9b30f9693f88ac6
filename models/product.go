package models

// Product is the catalog read model consumed by the cart snapshot. The
// catalog itself is managed elsewhere; this backend only reads it.
type Product struct {
	ProductID string   `json:"productId" bson:"_id"`
	Name      string   `json:"name" bson:"name"`
	Price     float64  `json:"price" bson:"price"`
	Weight    float64  `json:"weight" bson:"weight"`
	Image     string   `json:"image" bson:"image"`
	Images    []string `json:"images,omitempty" bson:"images,omitempty"`
}
