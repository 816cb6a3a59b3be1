package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type CodStatus string

const (
	CodStatusPending       CodStatus = "pending"
	CodStatusVerified      CodStatus = "verified"
	CodStatusRejected      CodStatus = "rejected"
	CodStatusDeliveredPaid CodStatus = "delivered_paid"
)

func ToCodStatus(s string) (CodStatus, error) {
	switch status := CodStatus(s); status {
	case CodStatusPending, CodStatusVerified, CodStatusRejected, CodStatusDeliveredPaid:
		return status, nil
	}

	return "", errors.New("invalid cod status")
}

// CodVerification tracks a cash-on-delivery order separately from its main status.
type CodVerification struct {
	ID                uuid.UUID
	OrderID           uuid.UUID
	Status            CodStatus
	PhoneVerified     bool
	DeliveryConfirmed bool
	PaymentReceived   bool
	VerifiedBy        *string
	VerifiedAt        *time.Time
	Notes             string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCodVerification(orderID uuid.UUID) CodVerification {
	return CodVerification{
		OrderID: orderID,
		Status:  CodStatusPending,
	}
}

func (c *CodVerification) MarkVerified(actor, notes string, now time.Time) error {
	if c.Status != CodStatusPending {
		return &InvalidCodTransitionError{From: c.Status, To: CodStatusVerified}
	}

	c.Status = CodStatusVerified
	c.PhoneVerified = true
	c.VerifiedBy = &actor
	c.VerifiedAt = &now
	c.Notes = notes
	c.UpdatedAt = now
	return nil
}

func (c *CodVerification) MarkRejected(actor, notes string, now time.Time) error {
	if c.Status != CodStatusPending {
		return &InvalidCodTransitionError{From: c.Status, To: CodStatusRejected}
	}

	c.Status = CodStatusRejected
	c.VerifiedBy = &actor
	c.VerifiedAt = &now
	c.Notes = notes
	c.UpdatedAt = now
	return nil
}

func (c *CodVerification) MarkDeliveredAndPaid(now time.Time) error {
	if c.Status != CodStatusVerified {
		return &InvalidCodTransitionError{From: c.Status, To: CodStatusDeliveredPaid}
	}

	c.Status = CodStatusDeliveredPaid
	c.PhoneVerified = true
	c.DeliveryConfirmed = true
	c.PaymentReceived = true
	c.UpdatedAt = now
	return nil
}
