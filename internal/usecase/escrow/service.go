// Package escrow implements the settlement coordinator: atomic
// cross-component property registration and the time-boxed escrow
// lifecycle for share trades pending payment confirmation.
package escrow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ardhilabs/plotshare-backend/internal/domain"
	"github.com/ardhilabs/plotshare-backend/internal/usecase/ledger"
	"github.com/ardhilabs/plotshare-backend/internal/usecase/registry"
	"github.com/ardhilabs/plotshare-backend/internal/usecase/splitter"
)

// OrchestratorAddress is the identity under which the coordinator
// calls into the registry and ledger.
const OrchestratorAddress domain.Address = "escrow-coordinator"

// RegisterPropertyInput is the single input set for the atomic
// three-component registration.
type RegisterPropertyInput struct {
	PropertyID  string
	Location    string
	TotalValue  int64
	Owner       domain.Address
	MetadataURI string

	TotalShares int64
	SharePrice  int64

	StakeholderAddresses     []domain.Address
	StakeholderPercentagesBP []int64
	StakeholderRoles         []string
}

// CreateEscrowInput represents the input for opening an escrow
type CreateEscrowInput struct {
	PropertyID       string
	Buyer            domain.Address
	SharesAmount     int64
	Deadline         time.Time
	PaymentReference string
}

// Service coordinates the registry, ledger and splitter. It never
// writes their storage directly; every cross-component effect goes
// through their public operations inside one transaction.
type Service struct {
	Registry *registry.Service
	Ledger   *ledger.Service
	Splitter *splitter.Service
	Escrows  domain.EscrowRepository
	Tx       domain.Transactor
	Events   domain.EventPublisher

	// Now supplies the current time for deadline checks. Injected so
	// expiry is deterministic under test; defaults to time.Now.
	Now func() time.Time
}

// NewService creates a new coordinator Service instance. The three
// component services must already be constructed; the coordinator
// binds to them permanently and registers itself as their authorized
// orchestrator.
func NewService(
	reg *registry.Service,
	led *ledger.Service,
	spl *splitter.Service,
	escrows domain.EscrowRepository,
	tx domain.Transactor,
	events domain.EventPublisher,
) *Service {
	reg.AuthorizeOrchestrator(OrchestratorAddress)
	led.AuthorizeOrchestrator(OrchestratorAddress)

	return &Service{
		Registry: reg,
		Ledger:   led,
		Splitter: spl,
		Escrows:  escrows,
		Tx:       tx,
		Events:   events,
		Now:      time.Now,
	}
}

// RegisterProperty registers a property across the registry, ledger
// and splitter with one set of inputs. If any sub-call fails, all
// three roll back; partial registration is never observable.
func (s *Service) RegisterProperty(ctx context.Context, input RegisterPropertyInput) error {
	err := s.Tx.Transact(ctx, func(ctx context.Context) error {
		if _, err := s.Registry.RegisterProperty(ctx, registry.RegisterPropertyInput{
			PropertyID:  input.PropertyID,
			Location:    input.Location,
			TotalValue:  input.TotalValue,
			Owner:       input.Owner,
			MetadataURI: input.MetadataURI,
		}); err != nil {
			return err
		}

		if _, err := s.Ledger.RegisterShares(ctx, ledger.RegisterSharesInput{
			PropertyID:  input.PropertyID,
			TotalShares: input.TotalShares,
			SharePrice:  input.SharePrice,
			Owner:       input.Owner,
		}); err != nil {
			return err
		}

		_, err := s.Splitter.RegisterStakeholders(ctx, splitter.RegisterStakeholdersInput{
			PropertyID:    input.PropertyID,
			Addresses:     input.StakeholderAddresses,
			PercentagesBP: input.StakeholderPercentagesBP,
			Roles:         input.StakeholderRoles,
		})
		return err
	})
	if err != nil {
		return err
	}

	s.Events.Publish(ctx, domain.PropertyRegistered{
		PropertyID:  input.PropertyID,
		Owner:       input.Owner,
		TotalValue:  input.TotalValue,
		TotalShares: input.TotalShares,
		SharePrice:  input.SharePrice,
	})

	return nil
}

// CreateEscrow opens an Active escrow for a property. At most one
// Active escrow may exist per property at a time.
func (s *Service) CreateEscrow(ctx context.Context, input CreateEscrowInput) (*domain.Escrow, error) {
	now := s.Now()
	if !input.Deadline.After(now) {
		return nil, fmt.Errorf("deadline %s at %s: %w", input.Deadline.Format(time.RFC3339), now.Format(time.RFC3339), domain.ErrInvalidDeadline)
	}

	escrow := &domain.Escrow{
		ID:               uuid.New(),
		PropertyID:       input.PropertyID,
		Buyer:            input.Buyer,
		SharesAmount:     input.SharesAmount,
		Deadline:         input.Deadline,
		PaymentReference: input.PaymentReference,
		Status:           domain.EscrowStatusActive,
	}
	if err := escrow.Validate(); err != nil {
		return nil, err
	}

	err := s.Tx.Transact(ctx, func(ctx context.Context) error {
		// The property must be registered before it can be escrowed.
		if _, err := s.Registry.GetPropertyInfo(ctx, input.PropertyID); err != nil {
			return fmt.Errorf("create escrow for %s: %w", input.PropertyID, err)
		}

		active, err := s.hasActiveEscrow(ctx, input.PropertyID)
		if err != nil {
			return fmt.Errorf("create escrow for %s: %w", input.PropertyID, err)
		}
		if active {
			return fmt.Errorf("create escrow for %s: %w", input.PropertyID, domain.ErrActiveEscrowExists)
		}

		return s.Escrows.Create(ctx, escrow)
	})
	if err != nil {
		return nil, err
	}

	s.Events.Publish(ctx, domain.EscrowCreated{
		EscrowID:         escrow.ID,
		PropertyID:       escrow.PropertyID,
		Buyer:            escrow.Buyer,
		SharesAmount:     escrow.SharesAmount,
		Deadline:         escrow.Deadline,
		PaymentReference: escrow.PaymentReference,
	})

	return escrow, nil
}

// ConfirmPaymentAndComplete finalizes an Active escrow before its
// deadline: shares move to the buyer through the ledger and the escrow
// becomes COMPLETED, atomically.
func (s *Service) ConfirmPaymentAndComplete(ctx context.Context, escrowID uuid.UUID) (*domain.Escrow, error) {
	var completed domain.Escrow
	err := s.Tx.Transact(ctx, func(ctx context.Context) error {
		escrow, err := s.Escrows.GetByID(ctx, escrowID)
		if err != nil {
			return fmt.Errorf("confirm escrow %s: %w", escrowID, err)
		}
		if !escrow.IsActive() {
			return fmt.Errorf("confirm escrow %s in state %s: %w", escrowID, escrow.Status, domain.ErrAlreadyTerminal)
		}
		if escrow.Expired(s.Now()) {
			return fmt.Errorf("confirm escrow %s past deadline %s: %w", escrowID, escrow.Deadline.Format(time.RFC3339), domain.ErrDeadlinePassed)
		}

		if err := s.Ledger.TransferShares(ctx, ledger.TransferSharesInput{
			PropertyID: escrow.PropertyID,
			To:         escrow.Buyer,
			Quantity:   escrow.SharesAmount,
			Caller:     OrchestratorAddress,
		}); err != nil {
			return err
		}

		escrow.Status = domain.EscrowStatusCompleted
		if err := s.Escrows.Update(ctx, escrow); err != nil {
			return err
		}
		completed = *escrow
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Events.Publish(ctx, domain.EscrowCompleted{
		EscrowID:     completed.ID,
		PropertyID:   completed.PropertyID,
		Buyer:        completed.Buyer,
		SharesAmount: completed.SharesAmount,
	})

	return &completed, nil
}

// CancelExpiredEscrow closes an Active escrow whose deadline has
// passed. Shares never move.
func (s *Service) CancelExpiredEscrow(ctx context.Context, escrowID uuid.UUID) (*domain.Escrow, error) {
	var cancelled domain.Escrow
	err := s.Tx.Transact(ctx, func(ctx context.Context) error {
		escrow, err := s.Escrows.GetByID(ctx, escrowID)
		if err != nil {
			return fmt.Errorf("cancel escrow %s: %w", escrowID, err)
		}
		if !escrow.IsActive() {
			return fmt.Errorf("cancel escrow %s in state %s: %w", escrowID, escrow.Status, domain.ErrAlreadyTerminal)
		}
		if !escrow.Expired(s.Now()) {
			return fmt.Errorf("cancel escrow %s before deadline %s: %w", escrowID, escrow.Deadline.Format(time.RFC3339), domain.ErrNotYetExpired)
		}

		escrow.Status = domain.EscrowStatusCancelled
		if err := s.Escrows.Update(ctx, escrow); err != nil {
			return err
		}
		cancelled = *escrow
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Events.Publish(ctx, domain.EscrowCancelled{
		EscrowID:   cancelled.ID,
		PropertyID: cancelled.PropertyID,
	})

	return &cancelled, nil
}

// HasActiveEscrow reports whether an Active escrow exists for the
// property. Only a definitive ErrNotFound from the store counts as
// "no active escrow"; any other store error is surfaced.
func (s *Service) HasActiveEscrow(ctx context.Context, propertyID string) (bool, error) {
	return s.hasActiveEscrow(ctx, propertyID)
}

func (s *Service) hasActiveEscrow(ctx context.Context, propertyID string) (bool, error) {
	_, err := s.Escrows.ActiveByPropertyID(ctx, propertyID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// GetEscrowInfo returns the escrow record for an id.
// Fails with ErrNotFound if absent.
func (s *Service) GetEscrowInfo(ctx context.Context, escrowID uuid.UUID) (*domain.Escrow, error) {
	return s.Escrows.GetByID(ctx, escrowID)
}
