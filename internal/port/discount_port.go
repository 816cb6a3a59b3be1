package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/flashcheckout/internal/domain"
)

type DiscountReader interface {
	// CandidateLines returns every active line for the product whose offer is running at 'at'
	// and whose cap, if any, is not exhausted.
	CandidateLines(ctx context.Context, productID uuid.UUID, at time.Time) ([]domain.ActiveDiscount, error)
}

type DiscountRepository interface {
	DiscountReader

	InsertOffer(ctx context.Context, offer domain.DiscountOffer) (domain.DiscountOffer, error)
	GetOffer(ctx context.Context, offerID uuid.UUID) (domain.DiscountOffer, error)
	DeactivateOffer(ctx context.Context, offerID uuid.UUID) error
	DeactivateExpiredOffers(ctx context.Context, now time.Time) (int64, error)

	InsertLine(ctx context.Context, line domain.DiscountOfferLine) (domain.DiscountOfferLine, error)
	GetLine(ctx context.Context, lineID uuid.UUID) (domain.DiscountOfferLine, error)
	// OverlappingLines returns active lines of active offers for the product whose window intersects [start, end).
	OverlappingLines(ctx context.Context, productID uuid.UUID, start, end time.Time) ([]domain.ActiveDiscount, error)
}
