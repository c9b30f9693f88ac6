package models

import "time"

// Order status values. Three coupled fields track the order, the payment
// and the carrier shipment independently.
const (
	OrderPending   = "Pending"
	OrderConfirmed = "Confirmed"
	OrderCancelled = "Cancelled"
	OrderShipped   = "Shipped"
	OrderDelivered = "Delivered"

	PaymentPending = "Pending"
	PaymentPaid    = "Paid"

	ShipmentNotCreated = "Not Created"
	ShipmentManifested = "Manifested"
	ShipmentCancelled  = "Cancelled"

	PartnerAdmin     = "ADMIN"
	PartnerDelhivery = "DELHIVERY"

	PaymentMethodCOD = "COD"
)

// OrderItem is a snapshot of a cart line at placement time. Price and
// weight are copied from the catalog so later product edits never touch
// historical orders.
type OrderItem struct {
	ProductID string  `json:"productId" bson:"productId"`
	Title     string  `json:"title" bson:"title"`
	Price     float64 `json:"price" bson:"price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Weight    float64 `json:"weight" bson:"weight"`
	Image     string  `json:"image" bson:"image"`
}

// DeliveryAddress is embedded into the order, decoupled from the user's
// saved addresses.
type DeliveryAddress struct {
	FullName     string `json:"fullName" bson:"fullName"`
	Phone        string `json:"phone" bson:"phone"`
	AddressLine1 string `json:"addressLine1" bson:"addressLine1"`
	AddressLine2 string `json:"addressLine2" bson:"addressLine2"`
	City         string `json:"city" bson:"city"`
	State        string `json:"state" bson:"state"`
	Pincode      string `json:"pincode" bson:"pincode"`
	AddressType  string `json:"addressType" bson:"addressType"`
}

// Order is the aggregate root. Created once by the orchestrator, mutated
// only through status transitions, never deleted.
type Order struct {
	OrderID          string          `json:"orderId" bson:"_id"`
	UserID           string          `json:"userId" bson:"userId"`
	Items            []OrderItem     `json:"items" bson:"items"`
	PickupPin        string          `json:"pickupPin" bson:"pickupPin"`
	DeliveryPin      string          `json:"deliveryPin" bson:"deliveryPin"`
	Distance         float64         `json:"distance" bson:"distance"`
	ShippingCost     float64         `json:"shippingCost" bson:"shippingCost"`
	Subtotal         float64         `json:"subtotal" bson:"subtotal"`
	TotalAmount      float64         `json:"totalAmount" bson:"totalAmount"`
	TotalWeight      float64         `json:"totalWeight" bson:"totalWeight"`
	DeliveryAddress  DeliveryAddress `json:"deliveryAddress" bson:"deliveryAddress"`
	PaymentMethod    string          `json:"paymentMethod" bson:"paymentMethod"`
	PaymentStatus    string          `json:"paymentStatus" bson:"paymentStatus"`
	OrderStatus      string          `json:"orderStatus" bson:"orderStatus"`
	ShipmentStatus   string          `json:"shipmentStatus" bson:"shipmentStatus"`
	DeliveryPartner  string          `json:"deliveryPartner" bson:"deliveryPartner"`
	Waybill          string          `json:"waybill,omitempty" bson:"waybill,omitempty"`
	ShipmentResponse any             `json:"shipmentResponse,omitempty" bson:"shipmentResponse,omitempty"`
	CancellationDate *time.Time      `json:"cancellationDate,omitempty" bson:"cancellationDate,omitempty"`
	CreatedAt        time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// Cancellable reports whether an order in the given status may still be
// cancelled by its owner. Shipped, Delivered and Cancelled are final for
// the cancel path.
func Cancellable(orderStatus string) bool {
	return orderStatus == OrderPending || orderStatus == OrderConfirmed
}

// ValidOrderStatus guards admin-supplied status strings.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderCancelled, OrderShipped, OrderDelivered:
		return true
	}
	return false
}

// ValidPaymentStatus guards admin-supplied payment status strings.
func ValidPaymentStatus(s string) bool {
	return s == PaymentPending || s == PaymentPaid
}
