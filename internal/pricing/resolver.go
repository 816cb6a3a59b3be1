package pricing

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/flashcheckout/internal/domain"
	"github.com/nikolayk812/flashcheckout/internal/port"
	"github.com/samber/lo"
)

// Resolver finds the discount line that applies to a product at an instant.
type Resolver struct {
	discounts port.DiscountReader
}

func NewResolver(discounts port.DiscountReader) (*Resolver, error) {
	if discounts == nil {
		return nil, errors.New("discounts is nil")
	}

	return &Resolver{discounts: discounts}, nil
}

// Resolve returns nil when no discount is running for the product at 'at'.
// More than one candidate is a data problem: the first by priority desc, end asc, line id asc wins
// and the conflict is logged.
func (r *Resolver) Resolve(ctx context.Context, productID uuid.UUID, at time.Time) (*domain.ActiveDiscount, error) {
	candidates, err := r.discounts.CandidateLines(ctx, productID, at)
	if err != nil {
		return nil, fmt.Errorf("discounts.CandidateLines: %w", err)
	}

	candidates = lo.Filter(candidates, func(d domain.ActiveDiscount, _ int) bool {
		return eligible(d, at)
	})

	if len(candidates) == 0 {
		return nil, nil
	}

	slices.SortFunc(candidates, compareCandidates)

	winner := candidates[0]

	if len(candidates) > 1 {
		slog.Warn("overlapping discount lines",
			"method", "Resolver.Resolve",
			"product_id", productID,
			"chosen_line_id", winner.Line.ID,
			"ignored_line_ids", lo.Map(candidates[1:], func(d domain.ActiveDiscount, _ int) string {
				return d.Line.ID.String()
			}),
		)
	}

	return &winner, nil
}

func eligible(d domain.ActiveDiscount, at time.Time) bool {
	if !d.Line.Active || !d.Offer.IsRunning(at) {
		return false
	}

	remaining, capped := d.Line.Remaining()
	return !capped || remaining > 0
}

func compareCandidates(a, b domain.ActiveDiscount) int {
	if c := cmp.Compare(b.Offer.Priority, a.Offer.Priority); c != 0 {
		return c
	}
	if c := a.Offer.EndsAt.Compare(b.Offer.EndsAt); c != 0 {
		return c
	}
	return slices.Compare(a.Line.ID[:], b.Line.ID[:])
}
