package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/nikolayk812/flashcheckout/internal/domain"
	"github.com/nikolayk812/flashcheckout/internal/service"
)

type CheckoutService interface {
	CreateOrder(ctx context.Context, input service.CreateOrderInput) (domain.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	UpdateNotes(ctx context.Context, orderID uuid.UUID, notes string, trackingNumber *string) (domain.Order, error)
}

type LifecycleService interface {
	Transition(ctx context.Context, input service.TransitionInput) (domain.Order, error)
	History(ctx context.Context, orderID uuid.UUID) ([]domain.StatusChange, error)
}

type CodService interface {
	Get(ctx context.Context, orderID uuid.UUID) (domain.CodVerification, error)
	MarkVerified(ctx context.Context, input service.CodInput) (domain.CodVerification, error)
	MarkRejected(ctx context.Context, input service.CodInput) (domain.CodVerification, error)
	MarkDeliveredAndPaid(ctx context.Context, input service.CodInput) (domain.CodVerification, error)
}

type OfferService interface {
	CreateOffer(ctx context.Context, input service.NewOffer) (domain.DiscountOffer, error)
	GetOffer(ctx context.Context, offerID uuid.UUID) (domain.DiscountOffer, error)
	AddLine(ctx context.Context, input service.AddLineInput) (domain.DiscountOfferLine, error)
	DeactivateOffer(ctx context.Context, offerID uuid.UUID) error
}

type Handler struct {
	checkout  CheckoutService
	lifecycle LifecycleService
	cod       CodService
	offers    OfferService
}

func NewHandler(checkout CheckoutService, lifecycle LifecycleService, cod CodService, offers OfferService) (*Handler, error) {
	if checkout == nil {
		return nil, errors.New("checkout is nil")
	}
	if lifecycle == nil {
		return nil, errors.New("lifecycle is nil")
	}
	if cod == nil {
		return nil, errors.New("cod is nil")
	}
	if offers == nil {
		return nil, errors.New("offers is nil")
	}

	return &Handler{
		checkout:  checkout,
		lifecycle: lifecycle,
		cod:       cod,
		offers:    offers,
	}, nil
}

// Routes registers every endpoint. checkoutLimit wraps order creation only.
func (h *Handler) Routes(checkoutLimit func(http.Handler) http.Handler) *http.ServeMux {
	if checkoutLimit == nil {
		checkoutLimit = func(next http.Handler) http.Handler { return next }
	}

	mux := http.NewServeMux()

	mux.Handle("POST /orders", checkoutLimit(http.HandlerFunc(h.createOrder)))
	mux.HandleFunc("POST /orders/search", h.searchOrders)
	mux.HandleFunc("GET /orders/{id}", h.getOrder)
	mux.HandleFunc("GET /orders/{id}/history", h.history)
	mux.HandleFunc("POST /orders/{id}/status", h.transition)
	mux.HandleFunc("POST /orders/{id}/notes", h.updateNotes)

	mux.HandleFunc("GET /orders/{id}/cod", h.getCod)
	mux.HandleFunc("POST /orders/{id}/cod/verify", h.codStep(h.cod.MarkVerified))
	mux.HandleFunc("POST /orders/{id}/cod/reject", h.codStep(h.cod.MarkRejected))
	mux.HandleFunc("POST /orders/{id}/cod/settle", h.codStep(h.cod.MarkDeliveredAndPaid))

	mux.HandleFunc("POST /offers", h.createOffer)
	mux.HandleFunc("GET /offers/{id}", h.getOffer)
	mux.HandleFunc("POST /offers/{id}/lines", h.addLine)
	mux.HandleFunc("POST /offers/{id}/deactivate", h.deactivateOffer)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return mux
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !decode(w, r, &req) {
		return
	}

	order, err := h.checkout.CreateOrder(r.Context(), req.toInput())
	if err != nil {
		writeError(w, "Handler.createOrder", err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r)
	if !ok {
		return
	}

	order, err := h.checkout.GetOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, "Handler.getOrder", err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) searchOrders(w http.ResponseWriter, r *http.Request) {
	var req searchOrdersRequest
	if !decode(w, r, &req) {
		return
	}

	filter, err := req.toFilter()
	if err != nil {
		writeError(w, "Handler.searchOrders", badRequest(err))
		return
	}

	if err := filter.Validate(); err != nil {
		writeError(w, "Handler.searchOrders", badRequest(fmt.Errorf("filter.Validate: %w", err)))
		return
	}

	orders, err := h.checkout.SearchOrders(r.Context(), filter)
	if err != nil {
		writeError(w, "Handler.searchOrders", err)
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, toOrderResponse(order))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r)
	if !ok {
		return
	}

	changes, err := h.lifecycle.History(r.Context(), orderID)
	if err != nil {
		writeError(w, "Handler.history", err)
		return
	}

	resp := make([]statusChangeResponse, 0, len(changes))
	for _, c := range changes {
		resp = append(resp, toStatusChangeResponse(c))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req transitionRequest
	if !decode(w, r, &req) {
		return
	}

	to, err := domain.ToOrderStatus(req.Status)
	if err != nil {
		writeError(w, "Handler.transition", badRequest(err))
		return
	}

	order, err := h.lifecycle.Transition(r.Context(), service.TransitionInput{
		OrderID: orderID,
		To:      to,
		Actor:   req.Actor,
		Note:    req.Note,
	})
	if err != nil {
		writeError(w, "Handler.transition", err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) updateNotes(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req notesRequest
	if !decode(w, r, &req) {
		return
	}

	order, err := h.checkout.UpdateNotes(r.Context(), orderID, req.AdminNotes, req.TrackingNumber)
	if err != nil {
		writeError(w, "Handler.updateNotes", err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) getCod(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r)
	if !ok {
		return
	}

	cod, err := h.cod.Get(r.Context(), orderID)
	if err != nil {
		writeError(w, "Handler.getCod", err)
		return
	}

	writeJSON(w, http.StatusOK, toCodResponse(cod))
}

func (h *Handler) codStep(step func(context.Context, service.CodInput) (domain.CodVerification, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, ok := pathID(w, r)
		if !ok {
			return
		}

		var req codRequest
		if !decode(w, r, &req) {
			return
		}

		cod, err := step(r.Context(), service.CodInput{
			OrderID: orderID,
			Actor:   req.Actor,
			Notes:   req.Notes,
		})
		if err != nil {
			writeError(w, "Handler.codStep", err)
			return
		}

		writeJSON(w, http.StatusOK, toCodResponse(cod))
	}
}

func (h *Handler) createOffer(w http.ResponseWriter, r *http.Request) {
	var req createOfferRequest
	if !decode(w, r, &req) {
		return
	}

	offer, err := h.offers.CreateOffer(r.Context(), req.toInput())
	if err != nil {
		writeError(w, "Handler.createOffer", err)
		return
	}

	writeJSON(w, http.StatusCreated, toOfferResponse(offer))
}

func (h *Handler) getOffer(w http.ResponseWriter, r *http.Request) {
	offerID, ok := pathID(w, r)
	if !ok {
		return
	}

	offer, err := h.offers.GetOffer(r.Context(), offerID)
	if err != nil {
		writeError(w, "Handler.getOffer", err)
		return
	}

	writeJSON(w, http.StatusOK, toOfferResponse(offer))
}

func (h *Handler) addLine(w http.ResponseWriter, r *http.Request) {
	offerID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req addLineRequest
	if !decode(w, r, &req) {
		return
	}

	line, err := h.offers.AddLine(r.Context(), req.toInput(offerID))
	if err != nil {
		writeError(w, "Handler.addLine", err)
		return
	}

	writeJSON(w, http.StatusCreated, toLineResponse(line))
}

func (h *Handler) deactivateOffer(w http.ResponseWriter, r *http.Request) {
	offerID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.offers.DeactivateOffer(r.Context(), offerID); err != nil {
		writeError(w, "Handler.deactivateOffer", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, "pathID", badRequest(fmt.Errorf("id: %w", err)))
		return uuid.Nil, false
	}
	return id, true
}

const maxBodyBytes = 1 << 20

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, "decode", badRequest(fmt.Errorf("dec.Decode: %w", err)))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response", "method", "writeJSON", "error", err)
	}
}
