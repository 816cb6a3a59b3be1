package service_test

import (
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/flashcheckout/internal/domain"
	"github.com/nikolayk812/flashcheckout/internal/service"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

func (suite *serviceSuite) TestCreateOffer_Validation() {
	ctx := suite.T().Context()
	now := time.Now().UTC()

	tests := []struct {
		name      string
		input     service.NewOffer
		wantError error
	}{
		{
			name: "percentage above 100",
			input: service.NewOffer{
				Name: "too good", DiscountPct: decimal.NewFromInt(120),
				StartsAt: now, EndsAt: now.Add(time.Hour),
			},
			wantError: domain.ErrInvalidOffer,
		},
		{
			name: "ends before it starts",
			input: service.NewOffer{
				Name: "backwards", DiscountPct: decimal.NewFromInt(10),
				StartsAt: now.Add(2 * time.Hour), EndsAt: now.Add(time.Hour),
			},
			wantError: domain.ErrInvalidOffer,
		},
		{
			name: "already over",
			input: service.NewOffer{
				Name: "yesterday", DiscountPct: decimal.NewFromInt(10),
				StartsAt: now.Add(-2 * time.Hour), EndsAt: now.Add(-time.Hour),
			},
			wantError: domain.ErrInvalidOffer,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.offers.CreateOffer(ctx, tt.input)
			suite.ErrorIs(err, tt.wantError)
		})
	}
}

func (suite *serviceSuite) TestAddLine() {
	ctx := suite.T().Context()

	product := suite.insertProduct(100_000, 10)
	offer := suite.runningOffer(20, 0)

	capped, err := suite.offers.CreateOffer(ctx, service.NewOffer{
		Name:        "capped",
		DiscountPct: decimal.NewFromInt(50),
		PriceCap:    lo.ToPtr(decimal.NewFromInt(10_000)),
		StartsAt:    time.Now().UTC().Add(2 * time.Hour),
		EndsAt:      time.Now().UTC().Add(3 * time.Hour),
	})
	suite.Require().NoError(err)

	discountLine := suite.addLine(offer.ID, product.ID, lo.ToPtr(5))
	suite.True(kes(100_000).Equal(discountLine.BasePrice))
	suite.True(kes(80_000).Equal(discountLine.DiscountedPrice))
	suite.True(discountLine.Active)

	_, err = suite.offers.AddLine(ctx, service.AddLineInput{OfferID: offer.ID, ProductID: product.ID})
	suite.ErrorIs(err, domain.ErrDiscountOverlap)

	// windows do not intersect, and the price cap bounds the reduction
	later := suite.addLine(capped.ID, product.ID, nil)
	suite.True(kes(90_000).Equal(later.DiscountedPrice), later.DiscountedPrice.String())

	override := suite.insertProduct(1_000, 1)
	overridden, err := suite.offers.AddLine(ctx, service.AddLineInput{
		OfferID:     offer.ID,
		ProductID:   override.ID,
		DiscountPct: lo.ToPtr(decimal.NewFromInt(35)),
	})
	suite.Require().NoError(err)
	suite.True(kes(650).Equal(overridden.DiscountedPrice))

	_, err = suite.offers.AddLine(ctx, service.AddLineInput{OfferID: uuid.New(), ProductID: product.ID})
	suite.ErrorIs(err, domain.ErrNotFound)

	_, err = suite.offers.AddLine(ctx, service.AddLineInput{OfferID: offer.ID, ProductID: uuid.New()})
	suite.ErrorIs(err, domain.ErrProductNotFound)
}

func (suite *serviceSuite) TestDeactivateOffer() {
	ctx := suite.T().Context()

	product := suite.insertProduct(10_000, 10)
	offer := suite.runningOffer(20, 0)
	suite.addLine(offer.ID, product.ID, nil)

	suite.Require().NoError(suite.offers.DeactivateOffer(ctx, offer.ID))

	found, err := suite.offers.GetOffer(ctx, offer.ID)
	suite.Require().NoError(err)
	suite.False(found.Active)

	order, err := suite.checkout.CreateOrder(ctx, orderInput(domain.PaymentMethodMpesa, "", line(product.ID, 1)))
	suite.Require().NoError(err)
	suite.False(order.Items[0].IsDiscounted)
	suite.True(kes(10_000).Equal(order.Items[0].UnitPrice))

	_, err = suite.offers.AddLine(ctx, service.AddLineInput{OfferID: offer.ID, ProductID: product.ID})
	suite.ErrorIs(err, domain.ErrOfferExpired)

	suite.ErrorIs(suite.offers.DeactivateOffer(ctx, uuid.New()), domain.ErrNotFound)
}

func (suite *serviceSuite) TestDeactivateExpired() {
	ctx := suite.T().Context()

	running := suite.runningOffer(20, 0)

	// an offer whose window closed is inserted directly; CreateOffer refuses it
	_, err := suite.pool.Exec(ctx, `INSERT INTO discount_offers (name, discount_pct, starts_at, ends_at, active, priority)
		VALUES ('closed', 10, now() - interval '2 hours', now() - interval '1 hour', true, 0)`)
	suite.Require().NoError(err)

	n, err := suite.offers.DeactivateExpired(ctx)
	suite.Require().NoError(err)
	suite.Equal(int64(1), n)

	stillRunning, err := suite.offers.GetOffer(ctx, running.ID)
	suite.Require().NoError(err)
	suite.True(stillRunning.Active)

	n, err = suite.offers.DeactivateExpired(ctx)
	suite.Require().NoError(err)
	suite.Zero(n)
}
