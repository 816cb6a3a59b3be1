package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/flashcheckout/internal/cache"
	"github.com/nikolayk812/flashcheckout/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/text/currency"
)

var storeCurrency = currency.MustParseISO("KES")

type fakeOrders struct {
	orders map[uuid.UUID]domain.Order
	gets   int
}

func (f *fakeOrders) GetOrder(_ context.Context, orderID uuid.UUID) (domain.Order, error) {
	f.gets++
	order, ok := f.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	return order, nil
}

func (f *fakeOrders) SearchOrders(context.Context, domain.OrderFilter) ([]domain.Order, error) {
	return nil, nil
}

type orderCacheSuite struct {
	suite.Suite

	container *tcredis.RedisContainer
	rdb       *redis.Client
}

func TestOrderCacheSuite(t *testing.T) {
	suite.Run(t, new(orderCacheSuite))
}

func (suite *orderCacheSuite) SetupSuite() {
	ctx := suite.T().Context()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx)
	suite.Require().NoError(err)

	opts, err := redis.ParseURL(connStr)
	suite.Require().NoError(err)

	suite.rdb = redis.NewClient(opts)
}

func (suite *orderCacheSuite) TearDownSuite() {
	if suite.rdb != nil {
		suite.NoError(suite.rdb.Close())
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *orderCacheSuite) TestReadThroughAndInvalidate() {
	t := suite.T()
	ctx := t.Context()

	order := sampleOrder()
	next := &fakeOrders{orders: map[uuid.UUID]domain.Order{order.ID: order}}

	c, err := cache.NewOrderCache(next, suite.rdb, time.Minute)
	require.NoError(t, err)

	first, err := c.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, next.gets, "miss goes to the repository")

	second, err := c.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, next.gets, "hit is served from redis")

	assert.Equal(t, first.Number, second.Number)
	assert.True(t, first.Total.Equal(second.Total))
	require.Len(t, second.Items, 1)
	assert.True(t, order.Items[0].UnitPrice.Equal(second.Items[0].UnitPrice))
	assert.True(t, order.CreatedAt.Equal(second.CreatedAt))

	require.NoError(t, c.Publish(ctx, domain.Event{Type: domain.EventOrderStatusChanged, OrderID: order.ID}))

	_, err = c.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, next.gets, "event drops the cached copy")

	ttl, err := suite.rdb.TTL(ctx, "order:"+order.ID.String()).Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)
}

func (suite *orderCacheSuite) TestMissIsNotCached() {
	t := suite.T()
	ctx := t.Context()

	next := &fakeOrders{}

	c, err := cache.NewOrderCache(next, suite.rdb, time.Minute)
	require.NoError(t, err)

	for range 2 {
		_, err := c.GetOrder(ctx, uuid.New())
		require.ErrorIs(t, err, domain.ErrNotFound)
	}
	assert.Equal(t, 2, next.gets)
}

func TestNewOrderCache(t *testing.T) {
	_, err := cache.NewOrderCache(nil, redis.NewClient(&redis.Options{}), time.Minute)
	require.EqualError(t, err, "next is nil")

	_, err = cache.NewOrderCache(&fakeOrders{}, redis.NewClient(&redis.Options{}), 0)
	require.EqualError(t, err, "ttl must be positive")
}

func sampleOrder() domain.Order {
	kes := func(v int64) domain.Money {
		return domain.NewMoney(decimal.NewFromInt(v), storeCurrency)
	}

	return domain.Order{
		ID:       uuid.New(),
		Number:   "ORD-20261019-ABCDEFGHJK",
		Customer: domain.CustomerInfo{Name: "Amani", Phone: "+254700000000"},
		Subtotal: kes(1_000),
		Total:    kes(1_000),
		Status:   domain.OrderStatusPending,
		Items: []domain.OrderItem{{
			ProductID: uuid.New(),
			UnitPrice: kes(500),
			Quantity:  2,
		}},
		CreatedAt: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
	}
}
