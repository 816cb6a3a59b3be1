package service_test

import (
	"github.com/nikolayk812/flashcheckout/internal/domain"
	"github.com/nikolayk812/flashcheckout/internal/service"
)

func (suite *serviceSuite) TestCod_VerifyThenSettle() {
	ctx := suite.T().Context()

	product := suite.insertProduct(20_000, 5)
	order, err := suite.checkout.CreateOrder(ctx, orderInput(domain.PaymentMethodCashOnDelivery, "", line(product.ID, 1)))
	suite.Require().NoError(err)
	suite.True(order.IsCashOnDelivery)

	pending, err := suite.cod.Get(ctx, order.ID)
	suite.Require().NoError(err)
	suite.Equal(domain.CodStatusPending, pending.Status)

	input := service.CodInput{OrderID: order.ID, Actor: "agent-7", Notes: "called customer"}

	_, err = suite.cod.MarkDeliveredAndPaid(ctx, input)
	var codErr *domain.InvalidCodTransitionError
	suite.Require().ErrorAs(err, &codErr)
	suite.Equal(domain.CodStatusPending, codErr.From)

	verified, err := suite.cod.MarkVerified(ctx, input)
	suite.Require().NoError(err)
	suite.Equal(domain.CodStatusVerified, verified.Status)
	suite.True(verified.PhoneVerified)
	suite.Equal("agent-7", *verified.VerifiedBy)
	suite.NotNil(verified.VerifiedAt)

	afterVerify, err := suite.checkout.GetOrder(ctx, order.ID)
	suite.Require().NoError(err)
	suite.True(afterVerify.CodVerified)
	suite.Equal(domain.OrderStatusPending, afterVerify.Status)

	settled, err := suite.cod.MarkDeliveredAndPaid(ctx, service.CodInput{OrderID: order.ID, Actor: "rider-3"})
	suite.Require().NoError(err)
	suite.Equal(domain.CodStatusDeliveredPaid, settled.Status)
	suite.True(settled.PhoneVerified)
	suite.True(settled.DeliveryConfirmed)
	suite.True(settled.PaymentReceived)

	delivered, err := suite.checkout.GetOrder(ctx, order.ID)
	suite.Require().NoError(err)
	suite.Equal(domain.OrderStatusDelivered, delivered.Status)
	suite.Equal(domain.PaymentStatusCompleted, delivered.PaymentStatus)
	suite.NotNil(delivered.ConfirmedAt)
	suite.NotNil(delivered.DeliveredAt)

	history, err := suite.lifecycle.History(ctx, order.ID)
	suite.Require().NoError(err)
	suite.Require().Len(history, 4)
	for _, change := range history {
		suite.Equal("rider-3", change.Actor)
	}

	_, err = suite.cod.MarkVerified(ctx, input)
	suite.Require().ErrorAs(err, &codErr)
	suite.Equal(domain.CodStatusDeliveredPaid, codErr.From)

	suite.Equal([]domain.EventType{
		domain.EventOrderCreated,
		domain.EventCodVerified,
		domain.EventCodDeliveredAndPaid,
		domain.EventOrderStatusChanged,
		domain.EventOrderStatusChanged,
		domain.EventOrderStatusChanged,
		domain.EventOrderStatusChanged,
	}, suite.sink.types())
}

func (suite *serviceSuite) TestCod_Reject() {
	ctx := suite.T().Context()

	product := suite.insertProduct(20_000, 5)
	order, err := suite.checkout.CreateOrder(ctx, orderInput(domain.PaymentMethodCashOnDelivery, "", line(product.ID, 1)))
	suite.Require().NoError(err)

	_, err = suite.cod.MarkRejected(ctx, service.CodInput{OrderID: order.ID})
	suite.ErrorIs(err, domain.ErrEmptyActor)

	rejected, err := suite.cod.MarkRejected(ctx, service.CodInput{OrderID: order.ID, Actor: "agent-7", Notes: "unreachable"})
	suite.Require().NoError(err)
	suite.Equal(domain.CodStatusRejected, rejected.Status)
	suite.False(rejected.PhoneVerified)

	unchanged, err := suite.checkout.GetOrder(ctx, order.ID)
	suite.Require().NoError(err)
	suite.Equal(domain.OrderStatusPending, unchanged.Status)
	suite.False(unchanged.CodVerified)

	_, err = suite.cod.MarkDeliveredAndPaid(ctx, service.CodInput{OrderID: order.ID, Actor: "rider-3"})
	var codErr *domain.InvalidCodTransitionError
	suite.ErrorAs(err, &codErr)
}

func (suite *serviceSuite) TestCod_PrepaidOrderHasNoVerification() {
	ctx := suite.T().Context()

	product := suite.insertProduct(20_000, 5)
	order, err := suite.checkout.CreateOrder(ctx, orderInput(domain.PaymentMethodMpesa, "", line(product.ID, 1)))
	suite.Require().NoError(err)

	_, err = suite.cod.Get(ctx, order.ID)
	suite.ErrorIs(err, domain.ErrNotFound)
}
