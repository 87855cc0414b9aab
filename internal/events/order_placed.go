package events

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wichananm65/shopease/internal/order"
)

const (
	EventsExchange          = "shopease.events"
	OrderPlacedRoutingKey   = "order.placed.v1"
	EventTypeOrderPlaced    = "OrderPlaced"
	orderPlacedVersion      = 1
	defaultProducerIdentity = "shopease"
)

type PlacedItem struct {
	ProductID int             `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type OrderPlacedPayload struct {
	OrderID       string          `json:"orderId"`
	UserID        int             `json:"userId"`
	Items         []PlacedItem    `json:"items"`
	Total         decimal.Decimal `json:"total"`
	CouponCode    string          `json:"couponCode,omitempty"`
	PaymentMethod string          `json:"paymentMethod"`
	PlacedAt      time.Time       `json:"placedAt"`
}

type OrderPlacedEvent = EventEnvelope[OrderPlacedPayload]

// newOrderPlacedEvent keys the event by user id.
func newOrderPlacedEvent(producer string, userID int, o order.Order, occurredAt time.Time) OrderPlacedEvent {
	payload := OrderPlacedPayload{
		OrderID:       o.ID,
		UserID:        userID,
		Items:         make([]PlacedItem, 0, len(o.Items)),
		Total:         o.Total,
		PaymentMethod: o.PaymentMethod,
		PlacedAt:      o.OrderDate,
	}
	if o.Coupon != nil {
		payload.CouponCode = o.Coupon.Code
	}
	for _, it := range o.Items {
		payload.Items = append(payload.Items, PlacedItem{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return OrderPlacedEvent{
		EventName:    EventTypeOrderPlaced,
		EventVersion: orderPlacedVersion,
		EventID:      uuid.NewString(),
		Producer:     producer,
		PartitionKey: strconv.Itoa(userID),
		OccurredAt:   occurredAt,
		Payload:      payload,
	}
}
