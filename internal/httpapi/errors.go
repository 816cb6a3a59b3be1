package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/nikolayk812/flashcheckout/internal/domain"
)

// badRequestError marks malformed input caught before a service is called.
type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string {
	return e.err.Error()
}

func (e *badRequestError) Unwrap() error {
	return e.err
}

func badRequest(err error) error {
	return &badRequestError{err: err}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	ProductID      *uuid.UUID `json:"product_id,omitempty"`
	DiscountLineID *uuid.UUID `json:"discount_line_id,omitempty"`
	Available      *int       `json:"available,omitempty"`
	Requested      *int       `json:"requested,omitempty"`

	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

var badRequestErrors = []error{
	domain.ErrEmptyOrder,
	domain.ErrTooManyLines,
	domain.ErrInvalidQuantity,
	domain.ErrInvalidPaymentMethod,
	domain.ErrInvalidContact,
	domain.ErrInvalidOffer,
	domain.ErrCurrencyMismatch,
	domain.ErrEmptyActor,
}

func writeError(w http.ResponseWriter, method string, err error) {
	status, body := mapError(err)

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", method, "error", err)
		body.Message = http.StatusText(status)
	}

	writeJSON(w, status, body)
}

func mapError(err error) (int, errorResponse) {
	var (
		outOfStock    *domain.OutOfStockError
		inactive      *domain.ProductInactiveError
		transition    *domain.InvalidTransitionError
		codTransition *domain.InvalidCodTransitionError
		contention    *domain.ContentionError
		malformed     *badRequestError
	)

	body := errorResponse{Message: err.Error()}

	switch {
	case errors.As(err, &outOfStock):
		body.Code = "out_of_stock"
		body.ProductID = &outOfStock.ProductID
		body.DiscountLineID = outOfStock.DiscountLineID
		available, requested := outOfStock.Available.Int(), outOfStock.Requested.Int()
		body.Available = &available
		body.Requested = &requested
		return http.StatusConflict, body

	case errors.As(err, &inactive):
		body.Code = "product_inactive"
		body.ProductID = &inactive.ProductID
		return http.StatusConflict, body

	case errors.As(err, &transition):
		body.Code = "invalid_transition"
		if errors.Is(err, domain.ErrNotCancellable) {
			body.Code = "not_cancellable"
		}
		body.From = string(transition.From)
		body.To = string(transition.To)
		return http.StatusConflict, body

	case errors.As(err, &codTransition):
		body.Code = "invalid_cod_transition"
		body.From = string(codTransition.From)
		body.To = string(codTransition.To)
		return http.StatusConflict, body

	case errors.Is(err, domain.ErrOfferExpired):
		body.Code = "offer_expired"
		return http.StatusConflict, body

	case errors.Is(err, domain.ErrDiscountOverlap):
		body.Code = "discount_overlap"
		return http.StatusConflict, body

	case errors.As(err, &contention):
		body.Code = "contention"
		body.ProductID = &contention.ProductID
		return http.StatusServiceUnavailable, body

	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrProductNotFound):
		body.Code = "not_found"
		return http.StatusNotFound, body

	case errors.As(err, &malformed):
		body.Code = "bad_request"
		return http.StatusBadRequest, body
	}

	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			body.Code = "validation_failed"
			return http.StatusBadRequest, body
		}
	}

	body.Code = "internal"
	return http.StatusInternalServerError, body
}
