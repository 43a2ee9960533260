package memory

import (
	"context"

	"github.com/ardhilabs/plotshare-backend/internal/domain"
)

// stakeholderRepository implements domain.StakeholderRepository
type stakeholderRepository struct {
	db *DB
}

// NewStakeholderRepository creates a new payment splitter repository
func NewStakeholderRepository(db *DB) domain.StakeholderRepository {
	return &stakeholderRepository{db: db}
}

// Create registers the stakeholder set for a property.
// The set is fixed after registration; no additions are supported.
func (r *stakeholderRepository) Create(ctx context.Context, set *domain.StakeholderSet) error {
	return r.db.Transact(ctx, func(ctx context.Context) error {
		if _, exists := r.db.stakeholders[set.PropertyID]; exists {
			return domain.ErrDuplicateProperty
		}
		r.db.putStakeholders(cloneSet(set))
		return nil
	})
}

// GetByPropertyID retrieves the stakeholder set for a property
func (r *stakeholderRepository) GetByPropertyID(ctx context.Context, propertyID string) (*domain.StakeholderSet, error) {
	var set domain.StakeholderSet
	err := r.db.view(ctx, func() error {
		stored, exists := r.db.stakeholders[propertyID]
		if !exists {
			return domain.ErrNotFound
		}
		set = cloneSet(&stored)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// cloneSet copies the stakeholder slice so callers cannot mutate
// stored state around the journal.
func cloneSet(set *domain.StakeholderSet) domain.StakeholderSet {
	cloned := domain.StakeholderSet{
		PropertyID:   set.PropertyID,
		Stakeholders: make([]domain.Stakeholder, len(set.Stakeholders)),
	}
	copy(cloned.Stakeholders, set.Stakeholders)
	return cloned
}
