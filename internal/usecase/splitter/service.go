// Package splitter implements the payment splitter: a fixed
// percentage allocation per property, applied to incoming payments and
// paid out immediately.
package splitter

import (
	"context"
	"fmt"

	"github.com/ardhilabs/plotshare-backend/internal/domain"
	"github.com/ardhilabs/plotshare-backend/internal/usecase/payout"
)

// RegisterStakeholdersInput carries the parallel arrays the consumer
// surface accepts. Lengths must match.
type RegisterStakeholdersInput struct {
	PropertyID    string
	Addresses     []domain.Address
	PercentagesBP []int64
	Roles         []string
}

// Service handles payment splitting operations
type Service struct {
	Stakeholders domain.StakeholderRepository
	Gateway      domain.PaymentGateway
	Tx           domain.Transactor
	Events       domain.EventPublisher
}

// NewService creates a new splitter Service instance
func NewService(stakeholders domain.StakeholderRepository, gateway domain.PaymentGateway, tx domain.Transactor, events domain.EventPublisher) *Service {
	return &Service{
		Stakeholders: stakeholders,
		Gateway:      gateway,
		Tx:           tx,
		Events:       events,
	}
}

// RegisterStakeholders fixes the stakeholder set for a property.
// Fails with ErrLengthMismatch if the input arrays differ in length and
// with ErrPercentageSumInvalid unless percentages sum to 10000 bp.
func (s *Service) RegisterStakeholders(ctx context.Context, input RegisterStakeholdersInput) (*domain.StakeholderSet, error) {
	if len(input.Addresses) != len(input.PercentagesBP) || len(input.Addresses) != len(input.Roles) {
		return nil, fmt.Errorf("stakeholders for %s: %d addresses, %d percentages, %d roles: %w",
			input.PropertyID, len(input.Addresses), len(input.PercentagesBP), len(input.Roles), domain.ErrLengthMismatch)
	}

	set := &domain.StakeholderSet{PropertyID: input.PropertyID}
	for i := range input.Addresses {
		set.Stakeholders = append(set.Stakeholders, domain.Stakeholder{
			Address:      input.Addresses[i],
			PercentageBP: input.PercentagesBP[i],
			Role:         input.Roles[i],
		})
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}

	if err := s.Stakeholders.Create(ctx, set); err != nil {
		return nil, fmt.Errorf("register stakeholders for %s: %w", input.PropertyID, err)
	}

	return set, nil
}

// DistributePayment splits the attached payment across the property's
// stakeholders and pays each out through the gateway. The rounding
// remainder goes to the last stakeholder, so the payouts sum to the
// payment exactly. If any single transfer fails the whole distribution
// rolls back.
func (s *Service) DistributePayment(ctx context.Context, propertyID string, payment int64) (map[domain.Address]int64, error) {
	set, err := s.Stakeholders.GetByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("distribute payment for %s: %w", propertyID, err)
	}

	payouts, err := payout.CalculatePayouts(payment, set.Stakeholders)
	if err != nil {
		return nil, err
	}

	paid := make(map[domain.Address]int64, len(payouts))
	err = s.Tx.Transact(ctx, func(ctx context.Context) error {
		for _, p := range payouts {
			if err := s.Gateway.Transfer(ctx, p.Address, p.Amount); err != nil {
				return err
			}
			paid[p.Address] += p.Amount
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Events.Publish(ctx, domain.PaymentDistributed{
		PropertyID: propertyID,
		Amount:     payment,
		Payouts:    paid,
	})

	return paid, nil
}

// GetStakeholders returns the fixed stakeholder set for a property.
func (s *Service) GetStakeholders(ctx context.Context, propertyID string) (*domain.StakeholderSet, error) {
	return s.Stakeholders.GetByPropertyID(ctx, propertyID)
}
