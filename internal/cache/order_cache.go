package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/flashcheckout/internal/domain"
	"github.com/nikolayk812/flashcheckout/internal/port"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "order:"

// OrderCache is a read-through redis cache in front of an OrderReader.
// Registered as an event sink it drops the cached copy on every order event.
type OrderCache struct {
	next port.OrderReader
	rdb  redis.Cmdable
	ttl  time.Duration
}

func NewOrderCache(next port.OrderReader, rdb redis.Cmdable, ttl time.Duration) (*OrderCache, error) {
	if next == nil {
		return nil, errors.New("next is nil")
	}
	if rdb == nil {
		return nil, errors.New("redis client is nil")
	}
	if ttl <= 0 {
		return nil, errors.New("ttl must be positive")
	}

	return &OrderCache{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
	}, nil
}

func (c *OrderCache) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	key := cacheKey(orderID)

	cached, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var order domain.Order
		if err := json.Unmarshal(cached, &order); err == nil {
			return order, nil
		}
	case !errors.Is(err, redis.Nil):
		slog.Warn("order cache get", "method", "OrderCache.GetOrder", "order_id", orderID, "error", err)
	}

	order, err := c.next.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	data, err := json.Marshal(order)
	if err != nil {
		return order, nil
	}

	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		slog.Warn("order cache set", "method", "OrderCache.GetOrder", "order_id", orderID, "error", err)
	}

	return order, nil
}

// SearchOrders is not cached.
func (c *OrderCache) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	return c.next.SearchOrders(ctx, filter)
}

func (c *OrderCache) Publish(ctx context.Context, event domain.Event) error {
	if err := c.rdb.Del(ctx, cacheKey(event.OrderID)).Err(); err != nil {
		return fmt.Errorf("rdb.Del: %w", err)
	}
	return nil
}

func cacheKey(orderID uuid.UUID) string {
	return keyPrefix + orderID.String()
}
