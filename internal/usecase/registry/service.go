// Package registry implements the title registry: one authoritative
// owner per property id, with atomic ownership transfer.
package registry

import (
	"context"
	"fmt"

	"github.com/ardhilabs/plotshare-backend/internal/domain"
)

// RegisterPropertyInput represents the input for registering a title
// deed record
type RegisterPropertyInput struct {
	PropertyID  string
	Location    string
	TotalValue  int64
	Owner       domain.Address
	MetadataURI string
}

// TransferOwnershipInput represents the input for transferring a title
type TransferOwnershipInput struct {
	PropertyID string
	NewOwner   domain.Address
	Caller     domain.Address
}

// Service handles title registry operations
type Service struct {
	Properties domain.PropertyRepository
	Events     domain.EventPublisher

	orchestrators map[domain.Address]struct{}
}

// NewService creates a new registry Service instance
func NewService(properties domain.PropertyRepository, events domain.EventPublisher) *Service {
	return &Service{
		Properties:    properties,
		Events:        events,
		orchestrators: make(map[domain.Address]struct{}),
	}
}

// AuthorizeOrchestrator allows an orchestrator address (the escrow
// coordinator) to transfer ownership on behalf of owners. Called once
// during wiring, before any requests are served.
func (s *Service) AuthorizeOrchestrator(addr domain.Address) {
	s.orchestrators[addr] = struct{}{}
}

// RegisterProperty creates a title record for a new property id.
// Fails with ErrDuplicateProperty if the id is already registered.
func (s *Service) RegisterProperty(ctx context.Context, input RegisterPropertyInput) (*domain.Property, error) {
	property := &domain.Property{
		ID:           input.PropertyID,
		Location:     input.Location,
		TotalValue:   input.TotalValue,
		CurrentOwner: input.Owner,
		MetadataURI:  input.MetadataURI,
	}

	if err := property.Validate(); err != nil {
		return nil, err
	}

	if err := s.Properties.Create(ctx, property); err != nil {
		return nil, fmt.Errorf("register property %s: %w", input.PropertyID, err)
	}

	return property, nil
}

// GetPropertyInfo returns the full title record for a property id.
// Fails with ErrNotFound if absent.
func (s *Service) GetPropertyInfo(ctx context.Context, propertyID string) (*domain.Property, error) {
	return s.Properties.GetByID(ctx, propertyID)
}

// TransferOwnership updates the current owner atomically. The caller
// must be the current owner or an authorized orchestrator.
func (s *Service) TransferOwnership(ctx context.Context, input TransferOwnershipInput) error {
	if input.NewOwner == "" {
		return fmt.Errorf("transfer ownership: new owner address cannot be empty: %w", domain.ErrInvalidInput)
	}

	property, err := s.Properties.GetByID(ctx, input.PropertyID)
	if err != nil {
		return err
	}

	if input.Caller != property.CurrentOwner {
		if _, ok := s.orchestrators[input.Caller]; !ok {
			return fmt.Errorf("transfer of %s by %s: %w", input.PropertyID, input.Caller, domain.ErrUnauthorized)
		}
	}

	if err := s.Properties.UpdateOwner(ctx, input.PropertyID, input.NewOwner); err != nil {
		return err
	}

	s.Events.Publish(ctx, domain.OwnershipTransferred{
		PropertyID:    input.PropertyID,
		PreviousOwner: property.CurrentOwner,
		NewOwner:      input.NewOwner,
	})

	return nil
}
