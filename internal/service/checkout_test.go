package service_test

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/flashcheckout/internal/domain"
	"github.com/nikolayk812/flashcheckout/internal/service"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

func (suite *serviceSuite) TestCreateOrder_DiscountedLine() {
	t := suite.T()
	ctx := t.Context()

	product := suite.insertProduct(100_000, 10)
	offer := suite.runningOffer(20, 0)
	discountLine := suite.addLine(offer.ID, product.ID, lo.ToPtr(5))

	order, err := suite.checkout.CreateOrder(ctx, orderInput(domain.PaymentMethodMpesa, "", line(product.ID, 2)))
	suite.Require().NoError(err)

	suite.Require().Len(order.Items, 1)
	item := order.Items[0]

	suite.True(item.IsDiscounted)
	suite.True(kes(80_000).Equal(item.UnitPrice), item.UnitPrice.String())
	suite.True(kes(160_000).Equal(item.TotalPrice))
	suite.True(kes(40_000).Equal(item.Savings))
	suite.Require().NotNil(item.OriginalPrice)
	suite.True(kes(100_000).Equal(*item.OriginalPrice))
	suite.Require().NotNil(item.DiscountPct)
	suite.True(decimal.NewFromInt(20).Equal(*item.DiscountPct))
	suite.Equal(&discountLine.ID, item.DiscountLineID)

	suite.True(kes(160_000).Equal(order.Subtotal))
	suite.True(kes(0).Equal(order.DeliveryFee), "subtotal above threshold ships free")
	suite.True(kes(160_000).Equal(order.Total))
	suite.True(kes(40_000).Equal(order.DiscountSavings))
	suite.True(order.HasDiscountedItems)
	suite.False(order.IsCashOnDelivery)
	suite.Equal(domain.OrderStatusPending, order.Status)
	suite.Equal(domain.PaymentStatusPending, order.PaymentStatus)
	suite.Regexp(`^ORD-\d{8}-[0-9A-Z]{10}$`, order.Number)
	suite.NoError(order.CheckTotals())

	suite.Equal(domain.Quantity(8), suite.stock(product.ID))
	suite.Equal(domain.Quantity(2), suite.getLine(discountLine.ID).Sold)

	suite.Equal([]domain.EventType{domain.EventOrderCreated}, suite.sink.types())

	found, err := suite.checkout.GetOrder(ctx, order.ID)
	suite.Require().NoError(err)
	suite.Equal(order.Number, found.Number)
}

func (suite *serviceSuite) TestCreateOrder_DeliveryFee() {
	tests := []struct {
		name      string
		price     int64
		zone      string
		wantFee   int64
		wantTotal int64
	}{
		{
			name:      "below threshold pays flat fee",
			price:     25_000,
			wantFee:   500,
			wantTotal: 50_500,
		},
		{
			name:      "at or above threshold ships free",
			price:     75_000,
			zone:      "Westlands",
			wantFee:   0,
			wantTotal: 150_000,
		},
		{
			name:      "remote zone pays remote fee regardless of subtotal",
			price:     75_000,
			zone:      "turkana",
			wantFee:   1_500,
			wantTotal: 151_500,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			product := suite.insertProduct(tt.price, 5)

			order, err := suite.checkout.CreateOrder(suite.T().Context(), orderInput(domain.PaymentMethodAirtelMoney, tt.zone, line(product.ID, 2)))
			suite.Require().NoError(err)

			suite.True(kes(tt.wantFee).Equal(order.DeliveryFee), order.DeliveryFee.String())
			suite.True(kes(tt.wantTotal).Equal(order.Total), order.Total.String())
			suite.False(order.HasDiscountedItems)
			suite.True(order.Tax.IsZero())
		})
	}
}

func (suite *serviceSuite) TestCreateOrder_Validation() {
	ctx := suite.T().Context()

	product := suite.insertProduct(1_000, 5)
	inactive := suite.insertProduct(1_000, 5)
	_, err := suite.pool.Exec(ctx, `UPDATE products SET active = false WHERE id = $1`, inactive.ID)
	suite.Require().NoError(err)

	tests := []struct {
		name      string
		input     service.CreateOrderInput
		wantError error
		wantType  any
	}{
		{
			name:      "empty order",
			input:     orderInput(domain.PaymentMethodMpesa, ""),
			wantError: domain.ErrEmptyOrder,
		},
		{
			name: "too many lines",
			input: orderInput(domain.PaymentMethodMpesa, "",
				line(product.ID, 1), line(product.ID, 1), line(product.ID, 1), line(product.ID, 1)),
			wantError: domain.ErrTooManyLines,
		},
		{
			name:      "zero quantity",
			input:     orderInput(domain.PaymentMethodMpesa, "", line(product.ID, 0)),
			wantError: domain.ErrInvalidQuantity,
		},
		{
			name: "unknown payment method",
			input: func() service.CreateOrderInput {
				input := orderInput(domain.PaymentMethodMpesa, "", line(product.ID, 1))
				input.PaymentMethod = "barter"
				return input
			}(),
			wantError: domain.ErrInvalidPaymentMethod,
		},
		{
			name: "missing phone",
			input: func() service.CreateOrderInput {
				input := orderInput(domain.PaymentMethodMpesa, "", line(product.ID, 1))
				input.Customer.Phone = " "
				return input
			}(),
			wantError: domain.ErrInvalidContact,
		},
		{
			name:      "unknown product",
			input:     orderInput(domain.PaymentMethodMpesa, "", line(uuid.New(), 1)),
			wantError: domain.ErrProductNotFound,
		},
		{
			name:     "inactive product",
			input:    orderInput(domain.PaymentMethodMpesa, "", line(product.ID, 1), line(inactive.ID, 1)),
			wantType: &domain.ProductInactiveError{},
		},
		{
			name:     "more than in stock",
			input:    orderInput(domain.PaymentMethodMpesa, "", line(product.ID, 6)),
			wantType: &domain.OutOfStockError{},
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.checkout.CreateOrder(ctx, tt.input)
			suite.Require().Error(err)

			switch target := tt.wantType.(type) {
			case *domain.ProductInactiveError:
				suite.ErrorAs(err, &target)
			case *domain.OutOfStockError:
				suite.ErrorAs(err, &target)
				suite.Equal(domain.Quantity(5), target.Available)
				suite.Equal(domain.Quantity(6), target.Requested)
			default:
				suite.ErrorIs(err, tt.wantError)
			}
		})
	}

	// failed orders roll back every reservation, including earlier lines
	suite.Equal(domain.Quantity(5), suite.stock(product.ID))
	suite.Empty(suite.sink.types())
}

func (suite *serviceSuite) TestCreateOrder_CapRace() {
	ctx := suite.T().Context()

	product := suite.insertProduct(100_000, 10)
	offer := suite.runningOffer(20, 0)
	discountLine := suite.addLine(offer.ID, product.ID, lo.ToPtr(5))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		orders []domain.Order
		errs   []error
	)

	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			order, err := suite.checkout.CreateOrder(ctx, orderInput(domain.PaymentMethodMpesa, "", line(product.ID, 3)))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			orders = append(orders, order)
		}()
	}
	wg.Wait()

	suite.Require().Len(orders, 1)
	suite.Require().Len(errs, 1)

	var outOfStock *domain.OutOfStockError
	suite.Require().ErrorAs(errs[0], &outOfStock)
	suite.Equal(product.ID, outOfStock.ProductID)

	suite.True(orders[0].Items[0].IsDiscounted)
	suite.Equal(domain.Quantity(3), suite.getLine(discountLine.ID).Sold)
	suite.Equal(domain.Quantity(7), suite.stock(product.ID))
}

func (suite *serviceSuite) TestCreateOrder_ConcurrentNeverOversells() {
	const (
		workers  = 10
		stockCap = 4
	)

	ctx := suite.T().Context()

	product := suite.insertProduct(10_000, workers)
	offer := suite.runningOffer(50, 0)
	discountLine := suite.addLine(offer.ID, product.ID, lo.ToPtr(stockCap))

	var (
		wg                        sync.WaitGroup
		mu                        sync.Mutex
		discounted, full, outages int
		unexpected                []error
	)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			order, err := suite.checkout.CreateOrder(ctx, orderInput(domain.PaymentMethodMpesa, "", line(product.ID, 1)))

			mu.Lock()
			defer mu.Unlock()

			var outOfStock *domain.OutOfStockError
			switch {
			case errors.As(err, &outOfStock):
				outages++
			case err != nil:
				unexpected = append(unexpected, err)
			case order.Items[0].IsDiscounted:
				discounted++
			default:
				full++
			}
		}()
	}
	wg.Wait()

	suite.Empty(unexpected)
	suite.Equal(stockCap, discounted)
	suite.Equal(workers, discounted+full+outages)

	soldOut := suite.getLine(discountLine.ID)
	suite.Equal(domain.Quantity(stockCap), soldOut.Sold)
	suite.False(soldOut.Active)
	suite.NotNil(soldOut.SoldOutAt)

	suite.Equal(domain.Quantity(workers-discounted-full), suite.stock(product.ID))
}

func (suite *serviceSuite) TestCreateOrder_LinesFromDifferentOffers() {
	ctx := suite.T().Context()

	first := suite.insertProduct(10_000, 5)
	second := suite.insertProduct(10_000, 5)

	low := suite.runningOffer(10, 1)
	high := suite.runningOffer(30, 5)

	suite.addLine(low.ID, first.ID, nil)
	winner := suite.addLine(high.ID, second.ID, nil)

	order, err := suite.checkout.CreateOrder(ctx, orderInput(domain.PaymentMethodMpesa, "",
		line(first.ID, 1), line(second.ID, 1)))
	suite.Require().NoError(err)

	suite.Require().Len(order.Items, 2)
	suite.True(kes(9_000).Equal(order.Items[0].UnitPrice))
	suite.True(kes(7_000).Equal(order.Items[1].UnitPrice))
	suite.Equal(&winner.ID, order.Items[1].DiscountLineID)
	suite.True(kes(4_000).Equal(order.DiscountSavings))
}

func (suite *serviceSuite) TestUpdateNotes() {
	ctx := suite.T().Context()

	product := suite.insertProduct(1_000, 5)
	order, err := suite.checkout.CreateOrder(ctx, orderInput(domain.PaymentMethodMpesa, "", line(product.ID, 1)))
	suite.Require().NoError(err)

	updated, err := suite.checkout.UpdateNotes(ctx, order.ID, "fragile", lo.ToPtr("TRK-1"))
	suite.Require().NoError(err)

	suite.Equal("fragile", updated.AdminNotes)
	suite.Equal(lo.ToPtr("TRK-1"), updated.TrackingNumber)
	suite.Equal(domain.OrderStatusPending, updated.Status)
	suite.Equal([]domain.EventType{domain.EventOrderCreated, domain.EventOrderNotesUpdated}, suite.sink.types())

	_, err = suite.checkout.UpdateNotes(ctx, uuid.New(), "", nil)
	suite.ErrorIs(err, domain.ErrNotFound)

	found, err := suite.checkout.SearchOrders(ctx, domain.OrderFilter{Numbers: []string{order.Number}})
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.Equal(order.ID, found[0].ID)
}
