package httpapi

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/flashcheckout/internal/domain"
	"github.com/nikolayk812/flashcheckout/internal/service"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type customerDTO struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone"`
}

type deliveryDTO struct {
	Address string `json:"address"`
	City    string `json:"city"`
	Zone    string `json:"zone,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

type lineDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type createOrderRequest struct {
	Customer      customerDTO `json:"customer"`
	Delivery      deliveryDTO `json:"delivery"`
	PaymentMethod string      `json:"payment_method"`
	Lines         []lineDTO   `json:"lines"`
}

func (r createOrderRequest) toInput() service.CreateOrderInput {
	return service.CreateOrderInput{
		Customer: domain.CustomerInfo{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
			Phone: r.Customer.Phone,
		},
		Delivery: domain.DeliveryInfo{
			Address: r.Delivery.Address,
			City:    r.Delivery.City,
			Zone:    r.Delivery.Zone,
			Notes:   r.Delivery.Notes,
		},
		PaymentMethod: r.PaymentMethod,
		Lines: lo.Map(r.Lines, func(l lineDTO, _ int) service.LineRequest {
			return service.LineRequest{ProductID: l.ProductID, Quantity: l.Quantity}
		}),
	}
}

type searchOrdersRequest struct {
	IDs            []uuid.UUID `json:"ids,omitempty"`
	Numbers        []string    `json:"numbers,omitempty"`
	Statuses       []string    `json:"statuses,omitempty"`
	PaymentMethods []string    `json:"payment_methods,omitempty"`
	Phones         []string    `json:"phones,omitempty"`
	CreatedAfter   *time.Time  `json:"created_after,omitempty"`
	CreatedBefore  *time.Time  `json:"created_before,omitempty"`
}

func (r searchOrdersRequest) toFilter() (domain.OrderFilter, error) {
	filter := domain.OrderFilter{
		IDs:     r.IDs,
		Numbers: r.Numbers,
		Phones:  r.Phones,
	}

	for _, s := range r.Statuses {
		status, err := domain.ToOrderStatus(s)
		if err != nil {
			return domain.OrderFilter{}, fmt.Errorf("status[%s]: %w", s, err)
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	for _, s := range r.PaymentMethods {
		method, err := domain.ToPaymentMethod(s)
		if err != nil {
			return domain.OrderFilter{}, fmt.Errorf("payment method[%s]: %w", s, err)
		}
		filter.PaymentMethods = append(filter.PaymentMethods, method)
	}

	if r.CreatedAfter != nil || r.CreatedBefore != nil {
		filter.CreatedAt = &domain.TimeRange{
			After:  r.CreatedAfter,
			Before: r.CreatedBefore,
		}
	}

	return filter, nil
}

type transitionRequest struct {
	Status string `json:"status"`
	Actor  string `json:"actor"`
	Note   string `json:"note,omitempty"`
}

type notesRequest struct {
	AdminNotes     string  `json:"admin_notes"`
	TrackingNumber *string `json:"tracking_number,omitempty"`
}

type codRequest struct {
	Actor string `json:"actor"`
	Notes string `json:"notes,omitempty"`
}

type createOfferRequest struct {
	Name        string           `json:"name"`
	DiscountPct decimal.Decimal  `json:"discount_pct"`
	PriceCap    *decimal.Decimal `json:"price_cap,omitempty"`
	StartsAt    time.Time        `json:"starts_at"`
	EndsAt      time.Time        `json:"ends_at"`
	Priority    int              `json:"priority"`
}

func (r createOfferRequest) toInput() service.NewOffer {
	return service.NewOffer{
		Name:        r.Name,
		DiscountPct: r.DiscountPct,
		PriceCap:    r.PriceCap,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
		Priority:    r.Priority,
	}
}

type addLineRequest struct {
	ProductID   uuid.UUID        `json:"product_id"`
	DiscountPct *decimal.Decimal `json:"discount_pct,omitempty"`
	StockCap    *int             `json:"stock_cap,omitempty"`
}

func (r addLineRequest) toInput(offerID uuid.UUID) service.AddLineInput {
	return service.AddLineInput{
		OfferID:     offerID,
		ProductID:   r.ProductID,
		DiscountPct: r.DiscountPct,
		StockCap:    r.StockCap,
	}
}

type orderItemResponse struct {
	ProductID      uuid.UUID        `json:"product_id"`
	ProductName    string           `json:"product_name"`
	ProductSKU     string           `json:"product_sku"`
	UnitPrice      domain.Money     `json:"unit_price"`
	Quantity       int              `json:"quantity"`
	TotalPrice     domain.Money     `json:"total_price"`
	IsDiscounted   bool             `json:"is_discounted"`
	OriginalPrice  *domain.Money    `json:"original_price,omitempty"`
	DiscountPct    *decimal.Decimal `json:"discount_pct,omitempty"`
	Savings        domain.Money     `json:"savings"`
	DiscountLineID *uuid.UUID       `json:"discount_line_id,omitempty"`
}

type orderResponse struct {
	ID       uuid.UUID   `json:"id"`
	Number   string      `json:"number"`
	Customer customerDTO `json:"customer"`
	Delivery deliveryDTO `json:"delivery"`

	Subtotal        domain.Money `json:"subtotal"`
	Tax             domain.Money `json:"tax"`
	DeliveryFee     domain.Money `json:"delivery_fee"`
	DiscountAmount  domain.Money `json:"discount_amount"`
	Total           domain.Money `json:"total"`
	DiscountSavings domain.Money `json:"discount_savings"`

	Status             string  `json:"status"`
	PaymentMethod      string  `json:"payment_method"`
	PaymentStatus      string  `json:"payment_status"`
	IsCashOnDelivery   bool    `json:"is_cash_on_delivery"`
	HasDiscountedItems bool    `json:"has_discounted_items"`
	CodVerified        bool    `json:"cod_verified"`
	TrackingNumber     *string `json:"tracking_number,omitempty"`
	AdminNotes         string  `json:"admin_notes,omitempty"`

	Items []orderItemResponse `json:"items"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toOrderResponse(o domain.Order) orderResponse {
	return orderResponse{
		ID:     o.ID,
		Number: o.Number,
		Customer: customerDTO{
			Name:  o.Customer.Name,
			Email: o.Customer.Email,
			Phone: o.Customer.Phone,
		},
		Delivery: deliveryDTO{
			Address: o.Delivery.Address,
			City:    o.Delivery.City,
			Zone:    o.Delivery.Zone,
			Notes:   o.Delivery.Notes,
		},
		Subtotal:           o.Subtotal,
		Tax:                o.Tax,
		DeliveryFee:        o.DeliveryFee,
		DiscountAmount:     o.DiscountAmount,
		Total:              o.Total,
		DiscountSavings:    o.DiscountSavings,
		Status:             string(o.Status),
		PaymentMethod:      string(o.PaymentMethod),
		PaymentStatus:      string(o.PaymentStatus),
		IsCashOnDelivery:   o.IsCashOnDelivery,
		HasDiscountedItems: o.HasDiscountedItems,
		CodVerified:        o.CodVerified,
		TrackingNumber:     o.TrackingNumber,
		AdminNotes:         o.AdminNotes,
		Items: lo.Map(o.Items, func(i domain.OrderItem, _ int) orderItemResponse {
			return orderItemResponse{
				ProductID:      i.ProductID,
				ProductName:    i.ProductName,
				ProductSKU:     i.ProductSKU,
				UnitPrice:      i.UnitPrice,
				Quantity:       i.Quantity.Int(),
				TotalPrice:     i.TotalPrice,
				IsDiscounted:   i.IsDiscounted,
				OriginalPrice:  i.OriginalPrice,
				DiscountPct:    i.DiscountPct,
				Savings:        i.Savings,
				DiscountLineID: i.DiscountLineID,
			}
		}),
		ConfirmedAt: o.ConfirmedAt,
		DeliveredAt: o.DeliveredAt,
		CancelledAt: o.CancelledAt,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

type statusChangeResponse struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Actor     string    `json:"actor"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toStatusChangeResponse(c domain.StatusChange) statusChangeResponse {
	return statusChangeResponse{
		From:      string(c.From),
		To:        string(c.To),
		Actor:     c.Actor,
		Note:      c.Note,
		CreatedAt: c.CreatedAt,
	}
}

type codResponse struct {
	OrderID           uuid.UUID  `json:"order_id"`
	Status            string     `json:"status"`
	PhoneVerified     bool       `json:"phone_verified"`
	DeliveryConfirmed bool       `json:"delivery_confirmed"`
	PaymentReceived   bool       `json:"payment_received"`
	VerifiedBy        *string    `json:"verified_by,omitempty"`
	VerifiedAt        *time.Time `json:"verified_at,omitempty"`
	Notes             string     `json:"notes,omitempty"`
}

func toCodResponse(c domain.CodVerification) codResponse {
	return codResponse{
		OrderID:           c.OrderID,
		Status:            string(c.Status),
		PhoneVerified:     c.PhoneVerified,
		DeliveryConfirmed: c.DeliveryConfirmed,
		PaymentReceived:   c.PaymentReceived,
		VerifiedBy:        c.VerifiedBy,
		VerifiedAt:        c.VerifiedAt,
		Notes:             c.Notes,
	}
}

type offerResponse struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	DiscountPct decimal.Decimal  `json:"discount_pct"`
	PriceCap    *decimal.Decimal `json:"price_cap,omitempty"`
	StartsAt    time.Time        `json:"starts_at"`
	EndsAt      time.Time        `json:"ends_at"`
	Active      bool             `json:"active"`
	Priority    int              `json:"priority"`
	State       string           `json:"state"`
}

func toOfferResponse(o domain.DiscountOffer) offerResponse {
	return offerResponse{
		ID:          o.ID,
		Name:        o.Name,
		DiscountPct: o.DiscountPct,
		PriceCap:    o.PriceCap,
		StartsAt:    o.StartsAt,
		EndsAt:      o.EndsAt,
		Active:      o.Active,
		Priority:    o.Priority,
		State:       string(o.State(time.Now())),
	}
}

type lineResponse struct {
	ID              uuid.UUID    `json:"id"`
	OfferID         uuid.UUID    `json:"offer_id"`
	ProductID       uuid.UUID    `json:"product_id"`
	BasePrice       domain.Money `json:"base_price"`
	DiscountedPrice domain.Money `json:"discounted_price"`
	StockCap        *int         `json:"stock_cap,omitempty"`
	Sold            int          `json:"sold"`
	Active          bool         `json:"active"`
}

func toLineResponse(l domain.DiscountOfferLine) lineResponse {
	var stockCap *int
	if l.StockCap != nil {
		stockCap = lo.ToPtr(l.StockCap.Int())
	}

	return lineResponse{
		ID:              l.ID,
		OfferID:         l.OfferID,
		ProductID:       l.ProductID,
		BasePrice:       l.BasePrice,
		DiscountedPrice: l.DiscountedPrice,
		StockCap:        stockCap,
		Sold:            l.Sold.Int(),
		Active:          l.Active,
	}
}
