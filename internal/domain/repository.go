package domain

import (
	"context"

	"github.com/google/uuid"
)

// PropertyRepository defines the interface for title registry storage.
// Each component mutates only its own propertyId → state mapping; the
// coordinator goes through these entry points, never the storage
// directly.
type PropertyRepository interface {
	// Create registers a new property record.
	// Returns ErrDuplicateProperty if the id already exists.
	Create(ctx context.Context, property *Property) error

	// GetByID retrieves a property record by its id.
	// Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*Property, error)

	// UpdateOwner atomically replaces the current owner.
	// Returns ErrNotFound if absent.
	UpdateOwner(ctx context.Context, id string, newOwner Address) error
}

// SharePoolRepository defines the interface for fractional share
// ledger storage: pools plus per-holder balances.
type SharePoolRepository interface {
	// Create registers a new share pool.
	// Returns ErrDuplicateProperty if the id already exists.
	Create(ctx context.Context, pool *SharePool) error

	// GetByID retrieves a share pool by property id.
	// Returns ErrNotFound if absent.
	GetByID(ctx context.Context, propertyID string) (*SharePool, error)

	// Update replaces the stored pool state (supply, reserve).
	// Returns ErrNotFound if absent.
	Update(ctx context.Context, pool *SharePool) error

	// BalanceOf returns the holder's share balance for a property.
	// A holder with no recorded balance has balance zero.
	BalanceOf(ctx context.Context, propertyID string, holder Address) (int64, error)

	// SetBalance records the holder's share balance for a property.
	SetBalance(ctx context.Context, propertyID string, holder Address, shares int64) error
}

// StakeholderRepository defines the interface for payment splitter
// storage. Stakeholder sets are fixed after registration.
type StakeholderRepository interface {
	// Create registers the stakeholder set for a property.
	// Returns ErrDuplicateProperty if one is already registered.
	Create(ctx context.Context, set *StakeholderSet) error

	// GetByPropertyID retrieves the stakeholder set for a property.
	// Returns ErrNotFound if absent.
	GetByPropertyID(ctx context.Context, propertyID string) (*StakeholderSet, error)
}

// EscrowRepository defines the interface for escrow coordinator
// storage. The coordinator exclusively owns escrow records.
type EscrowRepository interface {
	// Create stores a new escrow record.
	Create(ctx context.Context, escrow *Escrow) error

	// GetByID retrieves an escrow by its id.
	// Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Escrow, error)

	// Update replaces the stored escrow state.
	// Returns ErrNotFound if absent.
	Update(ctx context.Context, escrow *Escrow) error

	// ActiveByPropertyID retrieves the single active escrow for a
	// property. Returns ErrNotFound if none is active.
	ActiveByPropertyID(ctx context.Context, propertyID string) (*Escrow, error)
}

// Transactor runs fn as one all-or-nothing unit: every repository
// mutation performed inside fn commits together, or rolls back together
// when fn returns an error. Nested calls join the enclosing
// transaction, so a cross-component operation is a single commit.
type Transactor interface {
	Transact(ctx context.Context, fn func(ctx context.Context) error) error
}

// PaymentGateway moves funds out of the core to an account address.
// Transfers performed inside a Transactor transaction roll back with
// it; ErrTransferRejected indicates the recipient cannot accept funds.
type PaymentGateway interface {
	Transfer(ctx context.Context, to Address, amount int64) error
}
