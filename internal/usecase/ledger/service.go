// Package ledger implements the fractional share ledger: per-property
// tokenized share balances with issuance against a fixed supply
// ceiling, purchase into a pooled reserve, and redemption out of it.
package ledger

import (
	"context"
	"fmt"

	"github.com/ardhilabs/plotshare-backend/internal/domain"
)

// RegisterSharesInput represents the input for initializing a share
// pool
type RegisterSharesInput struct {
	PropertyID  string
	TotalShares int64
	SharePrice  int64
	Owner       domain.Address
}

// PurchaseSharesInput represents a share purchase with an attached
// payment in the smallest currency unit
type PurchaseSharesInput struct {
	PropertyID string
	Buyer      domain.Address
	Quantity   int64
	Payment    int64
}

// SellSharesInput represents a share sale refunded at the pool price
type SellSharesInput struct {
	PropertyID string
	Seller     domain.Address
	Quantity   int64
}

// TransferSharesInput represents an orchestrator-driven allocation of
// unissued shares, used by escrow completion. No payment moves through
// the ledger; payment is confirmed out-of-band.
type TransferSharesInput struct {
	PropertyID string
	To         domain.Address
	Quantity   int64
	Caller     domain.Address
}

// PurchaseResult reports the committed effects of a purchase
type PurchaseResult struct {
	Cost    int64
	Change  int64
	Balance int64
}

// Service handles fractional share ledger operations
type Service struct {
	Pools   domain.SharePoolRepository
	Gateway domain.PaymentGateway
	Tx      domain.Transactor
	Events  domain.EventPublisher

	orchestrators map[domain.Address]struct{}
}

// NewService creates a new ledger Service instance
func NewService(pools domain.SharePoolRepository, gateway domain.PaymentGateway, tx domain.Transactor, events domain.EventPublisher) *Service {
	return &Service{
		Pools:         pools,
		Gateway:       gateway,
		Tx:            tx,
		Events:        events,
		orchestrators: make(map[domain.Address]struct{}),
	}
}

// AuthorizeOrchestrator allows an orchestrator address to move unissued
// shares via TransferShares. Called once during wiring.
func (s *Service) AuthorizeOrchestrator(addr domain.Address) {
	s.orchestrators[addr] = struct{}{}
}

// RegisterShares initializes the share pool for a property with
// circulating supply zero. Fails with ErrDuplicateProperty if a pool
// already exists for the id.
func (s *Service) RegisterShares(ctx context.Context, input RegisterSharesInput) (*domain.SharePool, error) {
	pool := &domain.SharePool{
		PropertyID:    input.PropertyID,
		TotalShares:   input.TotalShares,
		SharePrice:    input.SharePrice,
		PropertyOwner: input.Owner,
	}

	if err := pool.Validate(); err != nil {
		return nil, err
	}

	if err := s.Pools.Create(ctx, pool); err != nil {
		return nil, fmt.Errorf("register shares for %s: %w", input.PropertyID, err)
	}

	return pool, nil
}

// PurchaseShares issues quantity shares to the buyer against the
// attached payment. The cost is held in the pool reserve; overpayment
// is returned to the buyer through the gateway in the same transaction.
func (s *Service) PurchaseShares(ctx context.Context, input PurchaseSharesInput) (*PurchaseResult, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("purchase in %s: quantity must be positive: %w", input.PropertyID, domain.ErrInvalidInput)
	}

	var result PurchaseResult
	err := s.Tx.Transact(ctx, func(ctx context.Context) error {
		pool, err := s.Pools.GetByID(ctx, input.PropertyID)
		if err != nil {
			return err
		}

		cost, err := domain.MulChecked(input.Quantity, pool.SharePrice)
		if err != nil {
			return err
		}
		if input.Payment < cost {
			return fmt.Errorf("purchase of %d shares in %s needs %d, got %d: %w",
				input.Quantity, input.PropertyID, cost, input.Payment, domain.ErrInsufficientPayment)
		}
		supply, err := domain.AddChecked(pool.CirculatingSupply, input.Quantity)
		if err != nil {
			return err
		}
		if supply > pool.TotalShares {
			return fmt.Errorf("purchase of %d shares in %s with %d available: %w",
				input.Quantity, input.PropertyID, pool.Available(), domain.ErrSupplySaturated)
		}

		balance, err := s.Pools.BalanceOf(ctx, input.PropertyID, input.Buyer)
		if err != nil {
			return err
		}

		pool.CirculatingSupply = supply
		pool.Reserve, err = domain.AddChecked(pool.Reserve, cost)
		if err != nil {
			return err
		}
		if err := s.Pools.Update(ctx, pool); err != nil {
			return err
		}
		if err := s.Pools.SetBalance(ctx, input.PropertyID, input.Buyer, balance+input.Quantity); err != nil {
			return err
		}

		change := input.Payment - cost
		if change > 0 {
			if err := s.Gateway.Transfer(ctx, input.Buyer, change); err != nil {
				return err
			}
		}

		result = PurchaseResult{Cost: cost, Change: change, Balance: balance + input.Quantity}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Events.Publish(ctx, domain.SharesPurchased{
		PropertyID: input.PropertyID,
		Buyer:      input.Buyer,
		Quantity:   input.Quantity,
		Cost:       result.Cost,
		Change:     result.Change,
	})

	return &result, nil
}

// SellShares redeems quantity shares from the seller and refunds
// quantity × sharePrice out of the pool reserve.
func (s *Service) SellShares(ctx context.Context, input SellSharesInput) (int64, error) {
	if input.Quantity <= 0 {
		return 0, fmt.Errorf("sale in %s: quantity must be positive: %w", input.PropertyID, domain.ErrInvalidInput)
	}

	var refund int64
	err := s.Tx.Transact(ctx, func(ctx context.Context) error {
		pool, err := s.Pools.GetByID(ctx, input.PropertyID)
		if err != nil {
			return err
		}

		balance, err := s.Pools.BalanceOf(ctx, input.PropertyID, input.Seller)
		if err != nil {
			return err
		}
		if balance < input.Quantity {
			return fmt.Errorf("sale of %d shares in %s with balance %d: %w",
				input.Quantity, input.PropertyID, balance, domain.ErrInsufficientBalance)
		}

		refund, err = domain.MulChecked(input.Quantity, pool.SharePrice)
		if err != nil {
			return err
		}
		if refund > pool.Reserve {
			// Unreachable at a fixed price; the reserve accrues exactly
			// cost per purchase.
			return fmt.Errorf("refund %d exceeds reserve %d for %s: %w",
				refund, pool.Reserve, input.PropertyID, domain.ErrInsufficientBalance)
		}

		pool.CirculatingSupply -= input.Quantity
		pool.Reserve -= refund
		if err := s.Pools.Update(ctx, pool); err != nil {
			return err
		}
		if err := s.Pools.SetBalance(ctx, input.PropertyID, input.Seller, balance-input.Quantity); err != nil {
			return err
		}

		return s.Gateway.Transfer(ctx, input.Seller, refund)
	})
	if err != nil {
		return 0, err
	}

	s.Events.Publish(ctx, domain.SharesSold{
		PropertyID: input.PropertyID,
		Seller:     input.Seller,
		Quantity:   input.Quantity,
		Refund:     refund,
	})

	return refund, nil
}

// TransferShares allocates unissued shares to a recipient without
// payment. Only authorized orchestrators may call it; the escrow
// coordinator uses it to complete a confirmed escrow.
func (s *Service) TransferShares(ctx context.Context, input TransferSharesInput) error {
	if input.Quantity <= 0 {
		return fmt.Errorf("transfer in %s: quantity must be positive: %w", input.PropertyID, domain.ErrInvalidInput)
	}
	if _, ok := s.orchestrators[input.Caller]; !ok {
		return fmt.Errorf("share transfer in %s by %s: %w", input.PropertyID, input.Caller, domain.ErrUnauthorized)
	}

	return s.Tx.Transact(ctx, func(ctx context.Context) error {
		pool, err := s.Pools.GetByID(ctx, input.PropertyID)
		if err != nil {
			return err
		}
		supply, err := domain.AddChecked(pool.CirculatingSupply, input.Quantity)
		if err != nil {
			return err
		}
		if supply > pool.TotalShares {
			return fmt.Errorf("transfer of %d shares in %s with %d available: %w",
				input.Quantity, input.PropertyID, pool.Available(), domain.ErrSupplySaturated)
		}

		balance, err := s.Pools.BalanceOf(ctx, input.PropertyID, input.To)
		if err != nil {
			return err
		}

		pool.CirculatingSupply = supply
		if err := s.Pools.Update(ctx, pool); err != nil {
			return err
		}
		return s.Pools.SetBalance(ctx, input.PropertyID, input.To, balance+input.Quantity)
	})
}

// BalanceOf returns the holder's share balance for a property.
func (s *Service) BalanceOf(ctx context.Context, propertyID string, holder domain.Address) (int64, error) {
	return s.Pools.BalanceOf(ctx, propertyID, holder)
}

// CirculatingSupply returns the circulating supply for a property.
// Fails with ErrNotFound if no pool exists.
func (s *Service) CirculatingSupply(ctx context.Context, propertyID string) (int64, error) {
	pool, err := s.Pools.GetByID(ctx, propertyID)
	if err != nil {
		return 0, err
	}
	return pool.CirculatingSupply, nil
}

// GetPool returns the full share pool state for a property.
func (s *Service) GetPool(ctx context.Context, propertyID string) (*domain.SharePool, error) {
	return s.Pools.GetByID(ctx, propertyID)
}
