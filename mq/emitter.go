package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"kirana/rdx"
)

const orderEventsChannel = "order-events"

// Event types published on the order-events channel.
const (
	EventOrderPlaced    = "order.placed"
	EventOrderCancelled = "order.cancelled"
	EventStatusChanged  = "order.status_changed"
)

// OrderEvent is the message downstream consumers (notifications,
// analytics) receive when an order changes.
type OrderEvent struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"orderId"`
	UserID        string    `json:"userId"`
	OrderStatus   string    `json:"orderStatus"`
	PaymentStatus string    `json:"paymentStatus"`
	At            time.Time `json:"at"`
}

// Publisher emits order events. The Redis implementation is best effort;
// a dead broker never fails the originating request.
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent)
}

// RedisPublisher publishes to the order-events Redis channel.
type RedisPublisher struct{}

func (RedisPublisher) Publish(ctx context.Context, event OrderEvent) {
	if rdx.Conn == nil {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Println("mq: failed to marshal order event:", err)
		return
	}
	if err := rdx.Conn.Publish(ctx, orderEventsChannel, data).Err(); err != nil {
		log.Println("mq: failed to publish order event:", err)
	}
}
