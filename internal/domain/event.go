package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventOrderCreated        EventType = "order_created"
	EventOrderStatusChanged  EventType = "order_status_changed"
	EventOrderNotesUpdated   EventType = "order_notes_updated"
	EventCodVerified         EventType = "cod_verified"
	EventCodRejected         EventType = "cod_rejected"
	EventCodDeliveredAndPaid EventType = "cod_delivered_and_paid"
)

// Event is published after the owning transaction commits.
type Event struct {
	Type       EventType `json:"type"`
	OrderID    uuid.UUID `json:"order_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderNumber        string          `json:"order_number"`
	Currency           string          `json:"currency"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	DeliveryFee        decimal.Decimal `json:"delivery_fee"`
	Tax                decimal.Decimal `json:"tax"`
	Total              decimal.Decimal `json:"total"`
	DiscountSavings    decimal.Decimal `json:"discount_savings"`
	PaymentMethod      PaymentMethod   `json:"payment_method"`
	IsCashOnDelivery   bool            `json:"is_cash_on_delivery"`
	HasDiscountedItems bool            `json:"has_discounted_items"`
}

type OrderStatusChangedPayload struct {
	From  OrderStatus `json:"from"`
	To    OrderStatus `json:"to"`
	Actor string      `json:"actor"`
	Note  string      `json:"note,omitempty"`
}

type OrderNotesUpdatedPayload struct {
	TrackingNumber *string `json:"tracking_number,omitempty"`
}

type CodPayload struct {
	Actor  string    `json:"actor"`
	Status CodStatus `json:"status"`
}

func NewOrderCreatedEvent(o Order) Event {
	return Event{
		Type:       EventOrderCreated,
		OrderID:    o.ID,
		OccurredAt: o.CreatedAt,
		Payload: OrderCreatedPayload{
			OrderNumber:        o.Number,
			Currency:           o.Total.Currency.String(),
			Subtotal:           o.Subtotal.Amount,
			DeliveryFee:        o.DeliveryFee.Amount,
			Tax:                o.Tax.Amount,
			Total:              o.Total.Amount,
			DiscountSavings:    o.DiscountSavings.Amount,
			PaymentMethod:      o.PaymentMethod,
			IsCashOnDelivery:   o.IsCashOnDelivery,
			HasDiscountedItems: o.HasDiscountedItems,
		},
	}
}

func NewOrderStatusChangedEvent(c StatusChange) Event {
	return Event{
		Type:       EventOrderStatusChanged,
		OrderID:    c.OrderID,
		OccurredAt: c.CreatedAt,
		Payload: OrderStatusChangedPayload{
			From:  c.From,
			To:    c.To,
			Actor: c.Actor,
			Note:  c.Note,
		},
	}
}

func NewOrderNotesUpdatedEvent(o Order) Event {
	return Event{
		Type:       EventOrderNotesUpdated,
		OrderID:    o.ID,
		OccurredAt: o.UpdatedAt,
		Payload: OrderNotesUpdatedPayload{
			TrackingNumber: o.TrackingNumber,
		},
	}
}

func NewCodEvent(t EventType, c CodVerification, actor string) Event {
	return Event{
		Type:       t,
		OrderID:    c.OrderID,
		OccurredAt: c.UpdatedAt,
		Payload: CodPayload{
			Actor:  actor,
			Status: c.Status,
		},
	}
}
