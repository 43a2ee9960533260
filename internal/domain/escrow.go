package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EscrowStatus represents the lifecycle state of an escrow
type EscrowStatus string

const (
	EscrowStatusActive    EscrowStatus = "ACTIVE"
	EscrowStatusCompleted EscrowStatus = "COMPLETED"
	EscrowStatusCancelled EscrowStatus = "CANCELLED"
)

// Escrow represents a time-boxed, single-use holding state for an
// agreed share transfer pending payment confirmation.
// Lifecycle: ACTIVE → COMPLETED or ACTIVE → CANCELLED; terminal states
// are final.
type Escrow struct {
	ID               uuid.UUID
	PropertyID       string
	Buyer            Address
	SharesAmount     int64
	Deadline         time.Time
	PaymentReference string // external correlation string
	Status           EscrowStatus
}

// IsActive reports whether the escrow can still be completed or
// cancelled.
func (e *Escrow) IsActive() bool {
	return e.Status == EscrowStatusActive
}

// IsCompleted reports whether the escrow finished successfully.
func (e *Escrow) IsCompleted() bool {
	return e.Status == EscrowStatusCompleted
}

// Expired reports whether the deadline has passed at the given time.
// Expiry is evaluated lazily at call time, never proactively.
func (e *Escrow) Expired(now time.Time) bool {
	return now.After(e.Deadline)
}

// Validate ensures the escrow adheres to coordinator rules.
// Returns an error if validation fails
func (e *Escrow) Validate() error {
	if e.PropertyID == "" {
		return fmt.Errorf("escrow property id cannot be empty: %w", ErrInvalidInput)
	}
	if e.Buyer == "" {
		return fmt.Errorf("escrow buyer address cannot be empty: %w", ErrInvalidInput)
	}
	if e.SharesAmount <= 0 {
		return fmt.Errorf("escrow shares amount must be positive: %w", ErrInvalidInput)
	}
	if e.Status != EscrowStatusActive && e.Status != EscrowStatusCompleted && e.Status != EscrowStatusCancelled {
		return fmt.Errorf("escrow status must be ACTIVE, COMPLETED, or CANCELLED: %w", ErrInvalidInput)
	}
	return nil
}
