// Package orders runs the order lifecycle: the place and cancel sagas,
// admin status transitions and the bulk transitioner.
package orders

import (
	"context"
	"errors"
	"log"
	"time"

	"kirana/apperr"
	"kirana/cart"
	"kirana/delhivery"
	"kirana/models"
	"kirana/mq"

	"github.com/google/uuid"
)

// Carrier is the outbound boundary to the shipping provider. Failures
// during placement abort before anything is persisted; failures during
// cancellation leave the order untouched.
type Carrier interface {
	CreateShipment(ctx context.Context, order *models.Order) (*delhivery.CreateResponse, error)
	CancelShipment(ctx context.Context, waybill string) (*delhivery.CancelResponse, error)
}

// CartReader supplies the priced snapshot a placement consumes.
type CartReader interface {
	Snapshot(ctx context.Context, userID string) (*cart.Snapshot, error)
	Clear(ctx context.Context, userID string) error
}

type Service struct {
	store     Store
	carts     CartReader
	carrier   Carrier
	events    mq.Publisher
	pickupPin string
}

func NewService(store Store, carts CartReader, carrier Carrier, events mq.Publisher, pickupPin string) *Service {
	if pickupPin == "" {
		pickupPin = "600001"
	}
	return &Service{store: store, carts: carts, carrier: carrier, events: events, pickupPin: pickupPin}
}

// PlaceRequest carries the client's placement input. Distance and
// shipping cost come from a prior quote call and are trusted as-is;
// pointers distinguish absent from zero.
type PlaceRequest struct {
	DeliveryPin            string
	Distance               *float64
	ShippingCost           *float64
	DeliveryAddress        *models.DeliveryAddress
	PaymentMethod          string
	IsDelhiveryServiceable bool
}

// Place runs the placement saga: snapshot the cart, build the immutable
// order, optionally manifest a carrier shipment, persist, then clear the
// cart. The carrier call happens before any write, so its failure is a
// clean abort with no compensation needed.
func (s *Service) Place(ctx context.Context, userID string, req PlaceRequest) (*models.Order, error) {
	if userID == "" {
		return nil, apperr.New(apperr.Authentication, "Authentication required")
	}
	if req.DeliveryPin == "" || req.Distance == nil || req.ShippingCost == nil || req.DeliveryAddress == nil {
		return nil, apperr.New(apperr.Validation,
			"Delivery PIN, distance, shipping cost, and delivery address are required")
	}

	snap, err := s.carts.Snapshot(ctx, userID)
	if err != nil {
		if errors.Is(err, cart.ErrEmptyCart) {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.Internal, "cart snapshot failed", err)
	}

	shippingCost := *req.ShippingCost
	addr := *req.DeliveryAddress
	addr.Pincode = req.DeliveryPin
	if addr.AddressType == "" {
		addr.AddressType = "home"
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.PaymentMethodCOD
	}

	now := time.Now()
	order := &models.Order{
		OrderID:         uuid.NewString(),
		UserID:          userID,
		Items:           snap.Items,
		PickupPin:       s.pickupPin,
		DeliveryPin:     req.DeliveryPin,
		Distance:        *req.Distance,
		ShippingCost:    shippingCost,
		Subtotal:        snap.Subtotal,
		TotalAmount:     snap.Subtotal + shippingCost,
		TotalWeight:     snap.TotalWeight,
		DeliveryAddress: addr,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   models.PaymentPending,
		OrderStatus:     models.OrderConfirmed,
		ShipmentStatus:  models.ShipmentNotCreated,
		DeliveryPartner: models.PartnerAdmin,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if req.IsDelhiveryServiceable {
		order.DeliveryPartner = models.PartnerDelhivery

		resp, err := s.carrier.CreateShipment(ctx, order)
		if err != nil {
			return nil, apperr.Wrap(apperr.Carrier, "Delhivery shipment creation failed", err)
		}
		if !resp.Success {
			return nil, apperr.NewCarrier("Delhivery shipment creation failed", resp.Remark)
		}
		if len(resp.Packages) > 0 {
			order.Waybill = resp.Packages[0].Waybill
		}
		order.ShipmentStatus = models.ShipmentManifested
		order.ShipmentResponse = resp
	}

	if err := s.store.Insert(ctx, order); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "order insert failed", err)
	}

	// The order is committed; a failed cart clear must not undo it.
	if err := s.carts.Clear(ctx, userID); err != nil {
		log.Println("cart clear after placement failed for user", userID, ":", err)
	}

	s.events.Publish(ctx, mq.OrderEvent{
		Type:          mq.EventOrderPlaced,
		OrderID:       order.OrderID,
		UserID:        userID,
		OrderStatus:   order.OrderStatus,
		PaymentStatus: order.PaymentStatus,
	})
	return order, nil
}

// Cancel runs the cancellation saga. The carrier shipment, when one
// exists, must cancel first; only then is the local record mutated, so a
// carrier failure never leaves a half-cancelled order.
func (s *Service) Cancel(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := s.store.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "order lookup failed", err)
	}
	if order == nil {
		return nil, apperr.New(apperr.NotFound, "Order not found")
	}
	if !models.Cancellable(order.OrderStatus) {
		return nil, apperr.New(apperr.Conflict, "Order cannot be cancelled now")
	}

	if order.Waybill != "" {
		resp, err := s.carrier.CancelShipment(ctx, order.Waybill)
		if err != nil {
			return nil, apperr.Wrap(apperr.Carrier, "Delhivery cancellation failed", err)
		}
		if !resp.Success {
			return nil, apperr.NewCarrier("Delhivery cancellation failed", resp.Message)
		}
	}

	now := time.Now()
	patch := StatusPatch{
		OrderStatus:      models.OrderCancelled,
		CancellationDate: &now,
	}
	if order.ShipmentStatus != models.ShipmentNotCreated && order.ShipmentStatus != "" {
		patch.ShipmentStatus = models.ShipmentCancelled
	}

	updated, err := s.store.ApplyStatus(ctx, order.OrderID, patch)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "order cancel update failed", err)
	}
	if updated == nil {
		return nil, apperr.New(apperr.NotFound, "Order not found")
	}

	s.events.Publish(ctx, mq.OrderEvent{
		Type:          mq.EventOrderCancelled,
		OrderID:       updated.OrderID,
		UserID:        userID,
		OrderStatus:   updated.OrderStatus,
		PaymentStatus: updated.PaymentStatus,
	})
	return updated, nil
}

// UpdateStatus applies an admin transition. No guard on the transition
// itself, but a COD order reaching Delivered forces its payment to Paid.
func (s *Service) UpdateStatus(ctx context.Context, orderID, orderStatus string) (*models.Order, error) {
	if orderStatus == "" {
		return nil, apperr.New(apperr.Validation, "orderStatus is required")
	}
	if !models.ValidOrderStatus(orderStatus) {
		return nil, apperr.New(apperr.Validation, "Invalid order status")
	}

	order, err := s.store.FindByID(ctx, orderID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "order lookup failed", err)
	}
	if order == nil {
		return nil, apperr.New(apperr.NotFound, "Order not found")
	}

	patch := StatusPatch{OrderStatus: orderStatus}
	if order.PaymentMethod == models.PaymentMethodCOD && orderStatus == models.OrderDelivered {
		patch.PaymentStatus = models.PaymentPaid
	}

	updated, err := s.store.ApplyStatus(ctx, orderID, patch)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "order status update failed", err)
	}
	if updated == nil {
		return nil, apperr.New(apperr.NotFound, "Order not found")
	}

	s.events.Publish(ctx, mq.OrderEvent{
		Type:          mq.EventStatusChanged,
		OrderID:       updated.OrderID,
		UserID:        updated.UserID,
		OrderStatus:   updated.OrderStatus,
		PaymentStatus: updated.PaymentStatus,
	})
	return updated, nil
}

// BulkUpdate sets orderStatus and/or paymentStatus across the given ids
// in one batch write and reports how many documents changed. The COD
// auto-Paid rule deliberately does not run here; the bulk path writes
// exactly what the admin asked for.
func (s *Service) BulkUpdate(ctx context.Context, orderIDs []string, orderStatus, paymentStatus string) (int64, error) {
	if len(orderIDs) == 0 {
		return 0, apperr.New(apperr.Validation, "Order IDs array is required")
	}
	if orderStatus == "" && paymentStatus == "" {
		return 0, apperr.New(apperr.Validation, "At least one status field required")
	}
	if orderStatus != "" && !models.ValidOrderStatus(orderStatus) {
		return 0, apperr.New(apperr.Validation, "Invalid order status")
	}
	if paymentStatus != "" && !models.ValidPaymentStatus(paymentStatus) {
		return 0, apperr.New(apperr.Validation, "Invalid payment status")
	}
	for _, id := range orderIDs {
		if _, err := uuid.Parse(id); err != nil {
			return 0, apperr.New(apperr.Validation, "Invalid order IDs found")
		}
	}

	count, err := s.store.BulkSetStatus(ctx, orderIDs, orderStatus, paymentStatus)
	if err != nil {
		return 0, apperr.Wrap(apperr.Internal, "bulk status update failed", err)
	}
	return count, nil
}

// Get returns one order scoped to its owner.
func (s *Service) Get(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := s.store.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "order lookup failed", err)
	}
	if order == nil {
		return nil, apperr.New(apperr.NotFound, "Order not found")
	}
	return order, nil
}

// ListMine returns the caller's orders, newest first.
func (s *Service) ListMine(ctx context.Context, userID string, page, limit int) ([]models.Order, int64, error) {
	orders, total, err := s.store.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, "order list failed", err)
	}
	return orders, total, nil
}

// ListAll returns every order, optionally filtered by status.
func (s *Service) ListAll(ctx context.Context, status string, page, limit int) ([]models.Order, int64, error) {
	orders, total, err := s.store.ListAll(ctx, status, page, limit)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, "order list failed", err)
	}
	return orders, total, nil
}
