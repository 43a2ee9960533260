package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is a structured notification emitted after a mutating operation
// commits. The UI/service layer consumes these for display; the core
// never reads them back.
type Event interface {
	// Kind returns a stable event name, e.g. "property.registered".
	Kind() string
}

// EventPublisher delivers committed events. Publish must not fail the
// originating operation; implementations log or buffer as they see fit.
type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}

// PropertyRegistered is emitted once per atomic cross-component
// registration.
type PropertyRegistered struct {
	PropertyID  string
	Owner       Address
	TotalValue  int64
	TotalShares int64
	SharePrice  int64
}

func (PropertyRegistered) Kind() string { return "property.registered" }

// OwnershipTransferred is emitted when the registry records a new
// current owner.
type OwnershipTransferred struct {
	PropertyID    string
	PreviousOwner Address
	NewOwner      Address
}

func (OwnershipTransferred) Kind() string { return "property.ownership_transferred" }

// SharesPurchased is emitted after a purchase commits.
type SharesPurchased struct {
	PropertyID string
	Buyer      Address
	Quantity   int64
	Cost       int64
	Change     int64
}

func (SharesPurchased) Kind() string { return "shares.purchased" }

// SharesSold is emitted after a sale commits.
type SharesSold struct {
	PropertyID string
	Seller     Address
	Quantity   int64
	Refund     int64
}

func (SharesSold) Kind() string { return "shares.sold" }

// PaymentDistributed is emitted after a full stakeholder payout
// commits. Payouts sum to Amount exactly.
type PaymentDistributed struct {
	PropertyID string
	Amount     int64
	Payouts    map[Address]int64
}

func (PaymentDistributed) Kind() string { return "payment.distributed" }

// EscrowCreated carries the freshly generated escrow id.
type EscrowCreated struct {
	EscrowID         uuid.UUID
	PropertyID       string
	Buyer            Address
	SharesAmount     int64
	Deadline         time.Time
	PaymentReference string
}

func (EscrowCreated) Kind() string { return "escrow.created" }

// EscrowCompleted is emitted when an escrow finishes successfully and
// the shares have moved.
type EscrowCompleted struct {
	EscrowID     uuid.UUID
	PropertyID   string
	Buyer        Address
	SharesAmount int64
}

func (EscrowCompleted) Kind() string { return "escrow.completed" }

// EscrowCancelled is emitted when an expired escrow is cancelled
// without moving shares.
type EscrowCancelled struct {
	EscrowID   uuid.UUID
	PropertyID string
}

func (EscrowCancelled) Kind() string { return "escrow.cancelled" }
