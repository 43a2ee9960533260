package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/ardhilabs/plotshare-backend/internal/domain"
)

// escrowRepository implements domain.EscrowRepository
type escrowRepository struct {
	db *DB
}

// NewEscrowRepository creates a new escrow repository
func NewEscrowRepository(db *DB) domain.EscrowRepository {
	return &escrowRepository{db: db}
}

// Create stores a new escrow record
func (r *escrowRepository) Create(ctx context.Context, escrow *domain.Escrow) error {
	return r.db.Transact(ctx, func(ctx context.Context) error {
		r.db.putEscrow(*escrow)
		return nil
	})
}

// GetByID retrieves an escrow by its id
func (r *escrowRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Escrow, error) {
	var escrow domain.Escrow
	err := r.db.view(ctx, func() error {
		stored, exists := r.db.escrows[id]
		if !exists {
			return domain.ErrNotFound
		}
		escrow = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &escrow, nil
}

// Update replaces the stored escrow state
func (r *escrowRepository) Update(ctx context.Context, escrow *domain.Escrow) error {
	return r.db.Transact(ctx, func(ctx context.Context) error {
		if _, exists := r.db.escrows[escrow.ID]; !exists {
			return domain.ErrNotFound
		}
		r.db.putEscrow(*escrow)
		return nil
	})
}

// ActiveByPropertyID retrieves the single active escrow for a property.
// At most one exists at a time; the coordinator enforces that before
// creating a new one.
func (r *escrowRepository) ActiveByPropertyID(ctx context.Context, propertyID string) (*domain.Escrow, error) {
	var escrow domain.Escrow
	err := r.db.view(ctx, func() error {
		for _, stored := range r.db.escrows {
			if stored.PropertyID == propertyID && stored.IsActive() {
				escrow = stored
				return nil
			}
		}
		return domain.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &escrow, nil
}
