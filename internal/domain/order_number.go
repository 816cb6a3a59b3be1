package domain

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// NewOrderNumber builds a human-readable order number like ORD-20261019-7ZQ4K9M2XA.
// The suffix is the random tail of a ULID.
func NewOrderNumber(now time.Time) string {
	id := ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()
	return "ORD-" + now.UTC().Format("20060102") + "-" + id[len(id)-10:]
}
