package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/flashcheckout/internal/db"
	"github.com/nikolayk812/flashcheckout/internal/domain"
	"github.com/nikolayk812/flashcheckout/internal/port"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type orderRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:    db.New(tx),
		dbtx: tx, // use provided transaction instead
	}
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	order, err := withTx(ctx, r.dbtx, func(q *db.Queries) (domain.Order, error) {
		return getOrder(ctx, q, orderID, q.GetOrder)
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("withTx: %w", err)
	}

	return order, nil
}

func (r *orderRepository) GetOrderForUpdate(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	if _, ok := r.dbtx.(pgx.Tx); !ok {
		return domain.Order{}, errors.New("GetOrderForUpdate requires a transaction")
	}

	return getOrder(ctx, r.q, orderID, r.q.GetOrderForUpdate)
}

func getOrder(ctx context.Context, q *db.Queries, orderID uuid.UUID, load func(context.Context, uuid.UUID) (db.Order, error)) (domain.Order, error) {
	var o domain.Order

	dbOrder, err := load(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return o, fmt.Errorf("q.GetOrder: %w", domain.ErrNotFound)
		}
		return o, fmt.Errorf("q.GetOrder: %w", err)
	}

	dbOrderItems, err := q.GetOrderItems(ctx, orderID)
	if err != nil {
		return o, fmt.Errorf("q.GetOrderItems: %w", err)
	}

	o, err = mapDBOrderToDomain(dbOrder, dbOrderItems)
	if err != nil {
		return o, fmt.Errorf("mapDBOrderToDomain: %w", err)
	}

	return o, nil
}

func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error) {
	if len(order.Items) == 0 {
		return uuid.Nil, errors.New("no items in order")
	}

	if err := order.CheckTotals(); err != nil {
		return uuid.Nil, fmt.Errorf("order.CheckTotals: %w", err)
	}

	orderID, err := withTx(ctx, r.dbtx, func(q *db.Queries) (uuid.UUID, error) {
		orderID, err := q.InsertOrder(ctx, db.InsertOrderParams{
			OrderNumber:           order.Number,
			CustomerName:          order.Customer.Name,
			CustomerEmail:         order.Customer.Email,
			CustomerPhone:         order.Customer.Phone,
			DeliveryAddress:       order.Delivery.Address,
			DeliveryCity:          order.Delivery.City,
			DeliveryZone:          order.Delivery.Zone,
			DeliveryNotes:         order.Delivery.Notes,
			Currency:              order.Total.Currency.String(),
			SubtotalAmount:        order.Subtotal.Amount,
			TaxAmount:             order.Tax.Amount,
			DeliveryFeeAmount:     order.DeliveryFee.Amount,
			DiscountAmount:        order.DiscountAmount.Amount,
			TotalAmount:           order.Total.Amount,
			DiscountSavingsAmount: order.DiscountSavings.Amount,
			Status:                string(order.Status),
			PaymentMethod:         string(order.PaymentMethod),
			PaymentStatus:         string(order.PaymentStatus),
			IsCashOnDelivery:      order.IsCashOnDelivery,
			HasDiscountedItems:    order.HasDiscountedItems,
		})
		if err != nil {
			return uuid.Nil, fmt.Errorf("q.InsertOrder: %w", err)
		}

		for i, item := range order.Items {
			arg, err := mapDomainOrderItemToDB(orderID, int32(i+1), item)
			if err != nil {
				return uuid.Nil, fmt.Errorf("mapDomainOrderItemToDB[%d]: %w", i, err)
			}

			if err := q.InsertOrderItem(ctx, arg); err != nil {
				return uuid.Nil, fmt.Errorf("q.InsertOrderItem: %w", err)
			}
		}

		return orderID, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("withTx: %w", err)
	}

	return orderID, nil
}

func (r *orderRepository) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	orders, err := withTx(ctx, r.dbtx, func(q *db.Queries) ([]domain.Order, error) {
		dbOrders, err := q.SearchOrders(ctx, mapDomainOrderFilterToDBFilter(filter))
		if err != nil {
			return nil, fmt.Errorf("q.SearchOrders: %w", err)
		}

		if len(dbOrders) == 0 {
			return nil, nil
		}

		orderIDs := lo.Map(dbOrders, func(o db.Order, _ int) uuid.UUID {
			return o.ID
		})

		dbItems, err := q.GetOrderItemsByOrderIDs(ctx, orderIDs)
		if err != nil {
			return nil, fmt.Errorf("q.GetOrderItemsByOrderIDs: %w", err)
		}

		itemsByOrder := lo.GroupBy(dbItems, func(item db.OrderItem) uuid.UUID {
			return item.OrderID
		})

		// keep the created_at DESC order of the search query
		result := make([]domain.Order, 0, len(dbOrders))
		for _, dbOrder := range dbOrders {
			order, err := mapDBOrderToDomain(dbOrder, itemsByOrder[dbOrder.ID])
			if err != nil {
				return nil, fmt.Errorf("mapDBOrderToDomain: %w", err)
			}
			result = append(result, order)
		}

		return result, nil
	})
	if err != nil {
		return nil, fmt.Errorf("withTx: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, order domain.Order) error {
	cmdTag, err := r.q.UpdateOrderStatus(ctx, db.UpdateOrderStatusParams{
		ID:            order.ID,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		ConfirmedAt:   order.ConfirmedAt,
		DeliveredAt:   order.DeliveredAt,
		CancelledAt:   order.CancelledAt,
		UpdatedAt:     order.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("q.UpdateOrderStatus: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.UpdateOrderStatus: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *orderRepository) UpdateOrderNotes(ctx context.Context, orderID uuid.UUID, notes string, trackingNumber *string) error {
	cmdTag, err := r.q.UpdateOrderNotes(ctx, db.UpdateOrderNotesParams{
		ID:             orderID,
		AdminNotes:     notes,
		TrackingNumber: trackingNumber,
	})
	if err != nil {
		return fmt.Errorf("q.UpdateOrderNotes: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.UpdateOrderNotes: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *orderRepository) SetCodVerified(ctx context.Context, orderID uuid.UUID, verified bool) error {
	cmdTag, err := r.q.SetOrderCodVerified(ctx, db.SetOrderCodVerifiedParams{
		ID:          orderID,
		CodVerified: verified,
	})
	if err != nil {
		return fmt.Errorf("q.SetOrderCodVerified: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.SetOrderCodVerified: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *orderRepository) AppendStatusChange(ctx context.Context, change domain.StatusChange) (domain.StatusChange, error) {
	row, err := r.q.InsertOrderStatusHistory(ctx, db.InsertOrderStatusHistoryParams{
		OrderID:    change.OrderID,
		FromStatus: string(change.From),
		ToStatus:   string(change.To),
		Actor:      change.Actor,
		Note:       change.Note,
		CreatedAt:  change.CreatedAt,
	})
	if err != nil {
		return domain.StatusChange{}, fmt.Errorf("q.InsertOrderStatusHistory: %w", err)
	}

	result, err := mapDBStatusChangeToDomain(row)
	if err != nil {
		return domain.StatusChange{}, fmt.Errorf("mapDBStatusChangeToDomain: %w", err)
	}

	return result, nil
}

func (r *orderRepository) GetStatusHistory(ctx context.Context, orderID uuid.UUID) ([]domain.StatusChange, error) {
	rows, err := r.q.GetOrderStatusHistory(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("q.GetOrderStatusHistory: %w", err)
	}

	result, err := mapRows(rows, mapDBStatusChangeToDomain)
	if err != nil {
		return nil, fmt.Errorf("mapRows: %w", err)
	}

	return result, nil
}

func (r *orderRepository) InsertCodVerification(ctx context.Context, cod domain.CodVerification) (domain.CodVerification, error) {
	row, err := r.q.InsertCodVerification(ctx, db.InsertCodVerificationParams{
		OrderID: cod.OrderID,
		Status:  string(cod.Status),
	})
	if err != nil {
		return domain.CodVerification{}, fmt.Errorf("q.InsertCodVerification: %w", err)
	}

	result, err := mapDBCodToDomain(row)
	if err != nil {
		return domain.CodVerification{}, fmt.Errorf("mapDBCodToDomain: %w", err)
	}

	return result, nil
}

func (r *orderRepository) GetCodVerification(ctx context.Context, orderID uuid.UUID) (domain.CodVerification, error) {
	return getCod(ctx, orderID, r.q.GetCodVerification)
}

func (r *orderRepository) GetCodVerificationForUpdate(ctx context.Context, orderID uuid.UUID) (domain.CodVerification, error) {
	if _, ok := r.dbtx.(pgx.Tx); !ok {
		return domain.CodVerification{}, errors.New("GetCodVerificationForUpdate requires a transaction")
	}

	return getCod(ctx, orderID, r.q.GetCodVerificationForUpdate)
}

func getCod(ctx context.Context, orderID uuid.UUID, load func(context.Context, uuid.UUID) (db.CodVerification, error)) (domain.CodVerification, error) {
	row, err := load(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CodVerification{}, fmt.Errorf("q.GetCodVerification: %w", domain.ErrNotFound)
		}
		return domain.CodVerification{}, fmt.Errorf("q.GetCodVerification: %w", err)
	}

	result, err := mapDBCodToDomain(row)
	if err != nil {
		return domain.CodVerification{}, fmt.Errorf("mapDBCodToDomain: %w", err)
	}

	return result, nil
}

func (r *orderRepository) UpdateCodVerification(ctx context.Context, cod domain.CodVerification) error {
	cmdTag, err := r.q.UpdateCodVerification(ctx, db.UpdateCodVerificationParams{
		ID:                cod.ID,
		Status:            string(cod.Status),
		PhoneVerified:     cod.PhoneVerified,
		DeliveryConfirmed: cod.DeliveryConfirmed,
		PaymentReceived:   cod.PaymentReceived,
		VerifiedBy:        cod.VerifiedBy,
		VerifiedAt:        cod.VerifiedAt,
		Notes:             cod.Notes,
		UpdatedAt:         cod.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("q.UpdateCodVerification: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.UpdateCodVerification: %w", domain.ErrNotFound)
	}

	return nil
}

func mapDomainOrderFilterToDBFilter(filter domain.OrderFilter) db.SearchOrdersParams {
	statuses := lo.Map(filter.Statuses, func(s domain.OrderStatus, _ int) string {
		return string(s)
	})

	paymentMethods := lo.Map(filter.PaymentMethods, func(m domain.PaymentMethod, _ int) string {
		return string(m)
	})

	var createdAfter, createdBefore *time.Time

	if filter.CreatedAt != nil {
		createdAfter = filter.CreatedAt.After
		createdBefore = filter.CreatedAt.Before
	}

	return db.SearchOrdersParams{
		Ids:            nilSliceIfEmpty(filter.IDs),
		Numbers:        nilSliceIfEmpty(filter.Numbers),
		Statuses:       nilSliceIfEmpty(statuses),
		PaymentMethods: nilSliceIfEmpty(paymentMethods),
		Phones:         nilSliceIfEmpty(filter.Phones),
		CreatedAfter:   createdAfter,
		CreatedBefore:  createdBefore,
	}
}

func mapDomainOrderItemToDB(orderID uuid.UUID, lineNo int32, item domain.OrderItem) (db.InsertOrderItemParams, error) {
	qty, err := toInt32(item.Quantity.Int())
	if err != nil {
		return db.InsertOrderItemParams{}, fmt.Errorf("quantity: %w", err)
	}

	var originalPrice decimal.NullDecimal
	if item.OriginalPrice != nil {
		originalPrice = decimal.NewNullDecimal(item.OriginalPrice.Amount)
	}

	return db.InsertOrderItemParams{
		OrderID:             orderID,
		LineNo:              lineNo,
		ProductID:           item.ProductID,
		ProductName:         item.ProductName,
		ProductSku:          item.ProductSKU,
		ProductCategory:     item.ProductCategory,
		ProductImageUrl:     item.ProductImageURL,
		UnitPriceAmount:     item.UnitPrice.Amount,
		Quantity:            qty,
		TotalPriceAmount:    item.TotalPrice.Amount,
		IsDiscounted:        item.IsDiscounted,
		OriginalPriceAmount: originalPrice,
		DiscountPct:         toNullDecimal(item.DiscountPct),
		SavingsAmount:       item.Savings.Amount,
		DiscountLineID:      item.DiscountLineID,
	}, nil
}

func mapDBOrderToDomain(dbOrder db.Order, dbOrderItems []db.OrderItem) (domain.Order, error) {
	var o domain.Order

	parsedCurrency, err := currency.ParseISO(dbOrder.Currency)
	if err != nil {
		return o, fmt.Errorf("currency[%s] is not valid: %w", dbOrder.Currency, err)
	}

	items, err := mapRows(dbOrderItems, func(row db.OrderItem) (domain.OrderItem, error) {
		return mapDBOrderItemToDomain(row, parsedCurrency), nil
	})
	if err != nil {
		return o, fmt.Errorf("mapRows: %w", err)
	}

	status, err := domain.ToOrderStatus(dbOrder.Status)
	if err != nil {
		return o, fmt.Errorf("domain.ToOrderStatus[%s]: %w", dbOrder.Status, err)
	}

	paymentMethod, err := domain.ToPaymentMethod(dbOrder.PaymentMethod)
	if err != nil {
		return o, fmt.Errorf("domain.ToPaymentMethod[%s]: %w", dbOrder.PaymentMethod, err)
	}

	paymentStatus, err := domain.ToPaymentStatus(dbOrder.PaymentStatus)
	if err != nil {
		return o, fmt.Errorf("domain.ToPaymentStatus[%s]: %w", dbOrder.PaymentStatus, err)
	}

	money := func(amount decimal.Decimal) domain.Money {
		return domain.Money{Amount: amount, Currency: parsedCurrency}
	}

	return domain.Order{
		ID:     dbOrder.ID,
		Number: dbOrder.OrderNumber,
		Customer: domain.CustomerInfo{
			Name:  dbOrder.CustomerName,
			Email: dbOrder.CustomerEmail,
			Phone: dbOrder.CustomerPhone,
		},
		Delivery: domain.DeliveryInfo{
			Address: dbOrder.DeliveryAddress,
			City:    dbOrder.DeliveryCity,
			Zone:    dbOrder.DeliveryZone,
			Notes:   dbOrder.DeliveryNotes,
		},
		Subtotal:           money(dbOrder.SubtotalAmount),
		Tax:                money(dbOrder.TaxAmount),
		DeliveryFee:        money(dbOrder.DeliveryFeeAmount),
		DiscountAmount:     money(dbOrder.DiscountAmount),
		Total:              money(dbOrder.TotalAmount),
		DiscountSavings:    money(dbOrder.DiscountSavingsAmount),
		Status:             status,
		PaymentMethod:      paymentMethod,
		PaymentStatus:      paymentStatus,
		IsCashOnDelivery:   dbOrder.IsCashOnDelivery,
		HasDiscountedItems: dbOrder.HasDiscountedItems,
		CodVerified:        dbOrder.CodVerified,
		TrackingNumber:     dbOrder.TrackingNumber,
		AdminNotes:         dbOrder.AdminNotes,
		Items:              items,
		ConfirmedAt:        dbOrder.ConfirmedAt,
		DeliveredAt:        dbOrder.DeliveredAt,
		CancelledAt:        dbOrder.CancelledAt,
		CreatedAt:          dbOrder.CreatedAt,
		UpdatedAt:          dbOrder.UpdatedAt,
	}, nil
}

func mapDBOrderItemToDomain(row db.OrderItem, unit currency.Unit) domain.OrderItem {
	var originalPrice *domain.Money
	if row.OriginalPriceAmount.Valid {
		originalPrice = &domain.Money{Amount: row.OriginalPriceAmount.Decimal, Currency: unit}
	}

	return domain.OrderItem{
		ID:              row.ID,
		ProductID:       row.ProductID,
		ProductName:     row.ProductName,
		ProductSKU:      row.ProductSku,
		ProductCategory: row.ProductCategory,
		ProductImageURL: row.ProductImageUrl,
		UnitPrice:       domain.Money{Amount: row.UnitPriceAmount, Currency: unit},
		Quantity:        domain.Quantity(row.Quantity),
		TotalPrice:      domain.Money{Amount: row.TotalPriceAmount, Currency: unit},
		IsDiscounted:    row.IsDiscounted,
		OriginalPrice:   originalPrice,
		DiscountPct:     fromNullDecimal(row.DiscountPct),
		Savings:         domain.Money{Amount: row.SavingsAmount, Currency: unit},
		DiscountLineID:  row.DiscountLineID,
		CreatedAt:       row.CreatedAt,
	}
}

func mapDBStatusChangeToDomain(row db.OrderStatusHistory) (domain.StatusChange, error) {
	from, err := domain.ToOrderStatus(row.FromStatus)
	if err != nil {
		return domain.StatusChange{}, fmt.Errorf("domain.ToOrderStatus[%s]: %w", row.FromStatus, err)
	}

	to, err := domain.ToOrderStatus(row.ToStatus)
	if err != nil {
		return domain.StatusChange{}, fmt.Errorf("domain.ToOrderStatus[%s]: %w", row.ToStatus, err)
	}

	return domain.StatusChange{
		ID:        row.ID,
		OrderID:   row.OrderID,
		From:      from,
		To:        to,
		Actor:     row.Actor,
		Note:      row.Note,
		CreatedAt: row.CreatedAt,
	}, nil
}

func mapDBCodToDomain(row db.CodVerification) (domain.CodVerification, error) {
	status, err := domain.ToCodStatus(row.Status)
	if err != nil {
		return domain.CodVerification{}, fmt.Errorf("domain.ToCodStatus[%s]: %w", row.Status, err)
	}

	return domain.CodVerification{
		ID:                row.ID,
		OrderID:           row.OrderID,
		Status:            status,
		PhoneVerified:     row.PhoneVerified,
		DeliveryConfirmed: row.DeliveryConfirmed,
		PaymentReceived:   row.PaymentReceived,
		VerifiedBy:        row.VerifiedBy,
		VerifiedAt:        row.VerifiedAt,
		Notes:             row.Notes,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}, nil
}

func nilSliceIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
