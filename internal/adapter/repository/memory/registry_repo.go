package memory

import (
	"context"

	"github.com/ardhilabs/plotshare-backend/internal/domain"
)

// propertyRepository implements domain.PropertyRepository
type propertyRepository struct {
	db *DB
}

// NewPropertyRepository creates a new title registry repository
func NewPropertyRepository(db *DB) domain.PropertyRepository {
	return &propertyRepository{db: db}
}

// Create registers a new property record
func (r *propertyRepository) Create(ctx context.Context, property *domain.Property) error {
	return r.db.Transact(ctx, func(ctx context.Context) error {
		if _, exists := r.db.properties[property.ID]; exists {
			return domain.ErrDuplicateProperty
		}
		r.db.putProperty(*property)
		return nil
	})
}

// GetByID retrieves a property record by its id
func (r *propertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	var property domain.Property
	err := r.db.view(ctx, func() error {
		stored, exists := r.db.properties[id]
		if !exists {
			return domain.ErrNotFound
		}
		property = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// UpdateOwner atomically replaces the current owner
func (r *propertyRepository) UpdateOwner(ctx context.Context, id string, newOwner domain.Address) error {
	return r.db.Transact(ctx, func(ctx context.Context) error {
		stored, exists := r.db.properties[id]
		if !exists {
			return domain.ErrNotFound
		}
		stored.CurrentOwner = newOwner
		r.db.putProperty(stored)
		return nil
	})
}
