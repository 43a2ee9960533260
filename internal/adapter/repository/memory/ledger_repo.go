package memory

import (
	"context"

	"github.com/ardhilabs/plotshare-backend/internal/domain"
)

// sharePoolRepository implements domain.SharePoolRepository
type sharePoolRepository struct {
	db *DB
}

// NewSharePoolRepository creates a new share ledger repository
func NewSharePoolRepository(db *DB) domain.SharePoolRepository {
	return &sharePoolRepository{db: db}
}

// Create registers a new share pool
func (r *sharePoolRepository) Create(ctx context.Context, pool *domain.SharePool) error {
	return r.db.Transact(ctx, func(ctx context.Context) error {
		if _, exists := r.db.pools[pool.PropertyID]; exists {
			return domain.ErrDuplicateProperty
		}
		r.db.putPool(*pool)
		return nil
	})
}

// GetByID retrieves a share pool by property id
func (r *sharePoolRepository) GetByID(ctx context.Context, propertyID string) (*domain.SharePool, error) {
	var pool domain.SharePool
	err := r.db.view(ctx, func() error {
		stored, exists := r.db.pools[propertyID]
		if !exists {
			return domain.ErrNotFound
		}
		pool = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

// Update replaces the stored pool state
func (r *sharePoolRepository) Update(ctx context.Context, pool *domain.SharePool) error {
	return r.db.Transact(ctx, func(ctx context.Context) error {
		if _, exists := r.db.pools[pool.PropertyID]; !exists {
			return domain.ErrNotFound
		}
		r.db.putPool(*pool)
		return nil
	})
}

// BalanceOf returns the holder's share balance for a property
func (r *sharePoolRepository) BalanceOf(ctx context.Context, propertyID string, holder domain.Address) (int64, error) {
	var balance int64
	err := r.db.view(ctx, func() error {
		balance = r.db.balances[propertyID][holder]
		return nil
	})
	return balance, err
}

// SetBalance records the holder's share balance for a property
func (r *sharePoolRepository) SetBalance(ctx context.Context, propertyID string, holder domain.Address, shares int64) error {
	return r.db.Transact(ctx, func(ctx context.Context) error {
		r.db.putBalance(propertyID, holder, shares)
		return nil
	})
}
