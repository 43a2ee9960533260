package payout

import (
	"errors"
	"fmt"

	"github.com/ardhilabs/plotshare-backend/internal/domain"
)

// Payout is one stakeholder's cut of a distributed payment.
type Payout struct {
	Address domain.Address
	Amount  int64
}

// CalculatePayouts splits amount across the stakeholders by their basis
// point percentages.
// Logic:
//  1. Each stakeholder except the last receives amount × bp / 10000,
//     rounding down
//  2. The last stakeholder receives everything left, absorbing the
//     rounding remainder
//
// Safety: Ensures the payouts sum to amount exactly (no dust lost)
func CalculatePayouts(amount int64, stakeholders []domain.Stakeholder) ([]Payout, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("payment amount must be positive: %w", domain.ErrInvalidInput)
	}

	if len(stakeholders) == 0 {
		return nil, fmt.Errorf("stakeholders list cannot be empty: %w", domain.ErrInvalidInput)
	}

	payouts := make([]Payout, 0, len(stakeholders))
	remaining := amount

	for _, sh := range stakeholders[:len(stakeholders)-1] {
		cut, err := domain.BasisPointShare(amount, sh.PercentageBP)
		if err != nil {
			return nil, err
		}
		if cut > remaining {
			return nil, errors.New("stakeholder cut exceeds remaining balance")
		}
		payouts = append(payouts, Payout{Address: sh.Address, Amount: cut})
		remaining -= cut
	}

	// The last stakeholder absorbs the rounding remainder.
	last := stakeholders[len(stakeholders)-1]
	payouts = append(payouts, Payout{Address: last.Address, Amount: remaining})

	// Safety check: Ensure the payouts sum to the payment exactly
	var total int64
	for _, p := range payouts {
		total += p.Amount
	}
	if total != amount {
		return nil, errors.New("total payout does not equal payment amount")
	}

	return payouts, nil
}
