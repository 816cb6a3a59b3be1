package repository_test

import (
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/flashcheckout/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// discount repository cases share the ledger suite container

func (suite *stockLedgerSuite) TestInsertAndGetOffer() {
	t := suite.T()
	ctx := t.Context()
	now := time.Now().UTC().Truncate(time.Microsecond)

	offer := domain.DiscountOffer{
		Name:        "weekend flash",
		DiscountPct: decimal.RequireFromString("12.5"),
		PriceCap:    lo.ToPtr(decimal.NewFromInt(500)),
		StartsAt:    now,
		EndsAt:      now.Add(48 * time.Hour),
		Active:      true,
		Priority:    3,
	}

	inserted, err := suite.discounts.InsertOffer(ctx, offer)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, inserted.ID)

	actual, err := suite.discounts.GetOffer(ctx, inserted.ID)
	require.NoError(t, err)

	assert.Equal(t, offer.Name, actual.Name)
	assert.True(t, offer.DiscountPct.Equal(actual.DiscountPct))
	require.NotNil(t, actual.PriceCap)
	assert.True(t, offer.PriceCap.Equal(*actual.PriceCap))
	assert.True(t, offer.StartsAt.Equal(actual.StartsAt))
	assert.True(t, offer.EndsAt.Equal(actual.EndsAt))
	assert.Equal(t, 3, actual.Priority)
	assert.True(t, actual.Active)

	_, err = suite.discounts.GetOffer(ctx, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *stockLedgerSuite) TestInsertLine_SnapshotsPrices() {
	t := suite.T()
	now := time.Now()

	p := randomProduct(10)
	p.Price = money(100_000)
	product := suite.insertProduct(p)

	line := suite.insertLine(product, suite.insertOffer(now.Add(-time.Hour), now.Add(time.Hour)), lo.ToPtr(domain.Quantity(7)))

	assert.Equal(t, product.ID, line.ProductID)
	assert.True(t, money(100_000).Equal(line.BasePrice))
	assert.True(t, money(80_000).Equal(line.DiscountedPrice), line.DiscountedPrice.String())
	assert.Equal(t, lo.ToPtr(domain.Quantity(7)), line.StockCap)
	assert.Equal(t, domain.Quantity(0), line.Sold)
	assert.True(t, line.Active)
	assert.Nil(t, line.DiscountPctOverride)

	_, err := suite.discounts.GetLine(t.Context(), uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *stockLedgerSuite) TestCandidateLines() {
	t := suite.T()
	ctx := t.Context()
	now := time.Now()

	product := suite.insertProduct(randomProduct(10))

	running := suite.insertLine(product, suite.insertOffer(now.Add(-time.Hour), now.Add(time.Hour)), nil)
	suite.insertLine(product, suite.insertOffer(now.Add(-2*time.Hour), now.Add(-time.Hour)), nil)
	suite.insertLine(product, suite.insertOffer(now.Add(time.Hour), now.Add(2*time.Hour)), nil)

	deactivated := suite.insertOffer(now.Add(-time.Hour), now.Add(time.Hour))
	suite.insertLine(product, deactivated, nil)
	require.NoError(t, suite.discounts.DeactivateOffer(ctx, deactivated.ID))

	candidates, err := suite.discounts.CandidateLines(ctx, product.ID, now)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	assert.Equal(t, running.ID, candidates[0].Line.ID)
	assert.Equal(t, running.OfferID, candidates[0].Offer.ID)
	assert.True(t, candidates[0].Offer.IsRunning(now))

	other, err := suite.discounts.CandidateLines(ctx, uuid.New(), now)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func (suite *stockLedgerSuite) TestOverlappingLines() {
	t := suite.T()
	ctx := t.Context()
	now := time.Now()

	product := suite.insertProduct(randomProduct(10))
	existing := suite.insertLine(product, suite.insertOffer(now, now.Add(2*time.Hour)), nil)

	tests := []struct {
		name       string
		start, end time.Time
		wantLines  []uuid.UUID
	}{
		{
			name:      "window inside: overlaps",
			start:     now.Add(30 * time.Minute),
			end:       now.Add(time.Hour),
			wantLines: []uuid.UUID{existing.ID},
		},
		{
			name:      "window straddles end: overlaps",
			start:     now.Add(time.Hour),
			end:       now.Add(3 * time.Hour),
			wantLines: []uuid.UUID{existing.ID},
		},
		{
			name:  "window starts at existing end: no overlap",
			start: now.Add(2 * time.Hour),
			end:   now.Add(3 * time.Hour),
		},
		{
			name:  "window ends at existing start: no overlap",
			start: now.Add(-time.Hour),
			end:   now,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			lines, err := suite.discounts.OverlappingLines(ctx, product.ID, tt.start, tt.end)
			require.NoError(t, err)

			got := lo.Map(lines, func(d domain.ActiveDiscount, _ int) uuid.UUID {
				return d.Line.ID
			})
			assert.ElementsMatch(t, tt.wantLines, got)
		})
	}
}

func (suite *stockLedgerSuite) TestDeactivateOffers() {
	t := suite.T()
	ctx := t.Context()
	now := time.Now()

	expired := suite.insertOffer(now.Add(-2*time.Hour), now.Add(-time.Hour))
	running := suite.insertOffer(now.Add(-time.Hour), now.Add(time.Hour))

	n, err := suite.discounts.DeactivateExpiredOffers(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := suite.discounts.GetOffer(ctx, expired.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	got, err = suite.discounts.GetOffer(ctx, running.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)

	n, err = suite.discounts.DeactivateExpiredOffers(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.ErrorIs(t, suite.discounts.DeactivateOffer(ctx, uuid.New()), domain.ErrNotFound)
}
