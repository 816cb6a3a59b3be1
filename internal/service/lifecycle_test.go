package service_test

import (
	"github.com/google/uuid"
	"github.com/nikolayk812/flashcheckout/internal/domain"
	"github.com/nikolayk812/flashcheckout/internal/service"
	"github.com/samber/lo"
)

func (suite *serviceSuite) TestTransition_ForwardChain() {
	ctx := suite.T().Context()

	product := suite.insertProduct(5_000, 3)
	order, err := suite.checkout.CreateOrder(ctx, orderInput(domain.PaymentMethodMpesa, "", line(product.ID, 1)))
	suite.Require().NoError(err)

	for _, to := range []domain.OrderStatus{
		domain.OrderStatusConfirmed,
		domain.OrderStatusProcessing,
		domain.OrderStatusOutForDelivery,
		domain.OrderStatusDelivered,
	} {
		updated, err := suite.lifecycle.Transition(ctx, service.TransitionInput{
			OrderID: order.ID,
			To:      to,
			Actor:   "ops",
		})
		suite.Require().NoError(err, to)
		suite.Equal(to, updated.Status)
	}

	delivered, err := suite.checkout.GetOrder(ctx, order.ID)
	suite.Require().NoError(err)

	suite.Require().NotNil(delivered.ConfirmedAt)
	suite.Require().NotNil(delivered.DeliveredAt)
	suite.False(delivered.DeliveredAt.Before(*delivered.ConfirmedAt))
	suite.Nil(delivered.CancelledAt)
	suite.Equal(domain.PaymentStatusPending, delivered.PaymentStatus, "prepaid orders are settled by the payment provider")

	history, err := suite.lifecycle.History(ctx, order.ID)
	suite.Require().NoError(err)
	suite.Require().Len(history, 4)
	suite.Equal(domain.OrderStatusPending, history[0].From)
	suite.Equal(domain.OrderStatusDelivered, history[3].To)
	suite.Equal("ops", history[3].Actor)

	refunded, err := suite.lifecycle.Transition(ctx, service.TransitionInput{
		OrderID: order.ID,
		To:      domain.OrderStatusRefunded,
		Actor:   "finance",
		Note:    "damaged in transit",
	})
	suite.Require().NoError(err)
	suite.Equal(domain.PaymentStatusRefunded, refunded.PaymentStatus)
}

func (suite *serviceSuite) TestTransition_Invalid() {
	ctx := suite.T().Context()

	product := suite.insertProduct(5_000, 3)
	order, err := suite.checkout.CreateOrder(ctx, orderInput(domain.PaymentMethodMpesa, "", line(product.ID, 1)))
	suite.Require().NoError(err)

	tests := []struct {
		name      string
		input     service.TransitionInput
		wantError error
		wantEdge  *domain.InvalidTransitionError
	}{
		{
			name:     "skip to delivered",
			input:    service.TransitionInput{OrderID: order.ID, To: domain.OrderStatusDelivered, Actor: "ops"},
			wantEdge: &domain.InvalidTransitionError{From: domain.OrderStatusPending, To: domain.OrderStatusDelivered},
		},
		{
			name:     "refund before delivery",
			input:    service.TransitionInput{OrderID: order.ID, To: domain.OrderStatusRefunded, Actor: "ops"},
			wantEdge: &domain.InvalidTransitionError{From: domain.OrderStatusPending, To: domain.OrderStatusRefunded},
		},
		{
			name:      "missing actor",
			input:     service.TransitionInput{OrderID: order.ID, To: domain.OrderStatusConfirmed},
			wantError: domain.ErrEmptyActor,
		},
		{
			name:      "unknown order",
			input:     service.TransitionInput{OrderID: uuid.New(), To: domain.OrderStatusConfirmed, Actor: "ops"},
			wantError: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.lifecycle.Transition(ctx, tt.input)
			suite.Require().Error(err)

			if tt.wantEdge != nil {
				var edge *domain.InvalidTransitionError
				suite.Require().ErrorAs(err, &edge)
				suite.Equal(tt.wantEdge, edge)
				return
			}
			suite.ErrorIs(err, tt.wantError)
		})
	}

	history, err := suite.lifecycle.History(ctx, order.ID)
	suite.Require().NoError(err)
	suite.Empty(history)

	unchanged, err := suite.checkout.GetOrder(ctx, order.ID)
	suite.Require().NoError(err)
	suite.Equal(domain.OrderStatusPending, unchanged.Status)
}

func (suite *serviceSuite) TestCancel_ReleasesStock() {
	ctx := suite.T().Context()

	discounted := suite.insertProduct(100_000, 10)
	plain := suite.insertProduct(2_000, 4)

	offer := suite.runningOffer(20, 0)
	discountLine := suite.addLine(offer.ID, discounted.ID, lo.ToPtr(2))

	order, err := suite.checkout.CreateOrder(ctx, orderInput(domain.PaymentMethodMpesa, "",
		line(discounted.ID, 2), line(plain.ID, 3)))
	suite.Require().NoError(err)

	soldOut := suite.getLine(discountLine.ID)
	suite.False(soldOut.Active)
	suite.Equal(domain.Quantity(8), suite.stock(discounted.ID))
	suite.Equal(domain.Quantity(1), suite.stock(plain.ID))

	_, err = suite.lifecycle.Transition(ctx, service.TransitionInput{OrderID: order.ID, To: domain.OrderStatusConfirmed, Actor: "ops"})
	suite.Require().NoError(err)

	cancelled, err := suite.lifecycle.Transition(ctx, service.TransitionInput{
		OrderID: order.ID,
		To:      domain.OrderStatusCancelled,
		Actor:   "customer",
		Note:    "changed my mind",
	})
	suite.Require().NoError(err)
	suite.Equal(domain.OrderStatusCancelled, cancelled.Status)
	suite.NotNil(cancelled.CancelledAt)

	suite.Equal(domain.Quantity(10), suite.stock(discounted.ID))
	suite.Equal(domain.Quantity(4), suite.stock(plain.ID))

	released := suite.getLine(discountLine.ID)
	suite.Equal(domain.Quantity(0), released.Sold)
	suite.False(released.Active, "reactivation is off by default")

	_, err = suite.lifecycle.Transition(ctx, service.TransitionInput{OrderID: order.ID, To: domain.OrderStatusCancelled, Actor: "customer"})
	suite.ErrorIs(err, domain.ErrNotCancellable)

	suite.Equal(domain.Quantity(10), suite.stock(discounted.ID), "a rejected cancel releases nothing")

	suite.Equal([]domain.EventType{
		domain.EventOrderCreated,
		domain.EventOrderStatusChanged,
		domain.EventOrderStatusChanged,
	}, suite.sink.types())
}
