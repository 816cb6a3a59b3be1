package domain

import (
	"errors"
	"slices"
)

type OrderStatus string

// remember to add new statuses to the validOrderStatuses map and orderTransitions
const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusRefunded       OrderStatus = "refunded"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

var validOrderStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:        {},
	OrderStatusConfirmed:      {},
	OrderStatusProcessing:     {},
	OrderStatusOutForDelivery: {},
	OrderStatusDelivered:      {},
	OrderStatusRefunded:       {},
	OrderStatusCancelled:      {},
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:        {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:      {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing:     {OrderStatusOutForDelivery, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:      {OrderStatusRefunded},
}

// forwardChain is the happy path an order walks when it is not cancelled.
var forwardChain = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusRefunded,
}

func ToOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := validOrderStatuses[status]; ok {
		return status, nil
	}

	return "", errors.New("invalid order status")
}

func OrderStatuses() []OrderStatus {
	result := make([]OrderStatus, 0, len(validOrderStatuses))
	for status := range validOrderStatuses {
		result = append(result, status)
	}
	return result
}

func CanTransition(from, to OrderStatus) bool {
	return slices.Contains(orderTransitions[from], to)
}

func (s OrderStatus) IsCancellable() bool {
	return CanTransition(s, OrderStatusCancelled)
}

// ForwardPath lists the hops from 'from' to 'to' along the forward chain, excluding 'from'.
// It returns InvalidTransitionError when 'to' is not ahead of 'from'.
func ForwardPath(from, to OrderStatus) ([]OrderStatus, error) {
	fromIdx := slices.Index(forwardChain, from)
	toIdx := slices.Index(forwardChain, to)

	if fromIdx == -1 || toIdx == -1 || toIdx <= fromIdx {
		return nil, &InvalidTransitionError{From: from, To: to}
	}

	return slices.Clone(forwardChain[fromIdx+1 : toIdx+1]), nil
}
