package domain

import "fmt"

// MaxStakeholders bounds the stakeholder list length per property.
const MaxStakeholders = 16

// Stakeholder is a party entitled to a fixed percentage of payments
// distributed for a property, expressed in basis points.
type Stakeholder struct {
	Address      Address
	PercentageBP int64
	Role         string
}

// StakeholderSet is the ordered, fixed stakeholder list for one
// property. Order matters: the rounding remainder of a distribution is
// always allocated to the last stakeholder.
type StakeholderSet struct {
	PropertyID   string
	Stakeholders []Stakeholder
}

// Validate ensures the stakeholder set adheres to splitter rules.
// Returns ErrPercentageSumInvalid unless percentages sum to exactly
// 10000 basis points.
func (s *StakeholderSet) Validate() error {
	if s.PropertyID == "" {
		return fmt.Errorf("stakeholder set property id cannot be empty: %w", ErrInvalidInput)
	}
	if len(s.Stakeholders) == 0 {
		return fmt.Errorf("stakeholder set must have at least one stakeholder: %w", ErrInvalidInput)
	}
	if len(s.Stakeholders) > MaxStakeholders {
		return fmt.Errorf("stakeholder set exceeds maximum length: %w", ErrInvalidInput)
	}

	var sum int64
	for _, sh := range s.Stakeholders {
		if sh.Address == "" {
			return fmt.Errorf("stakeholder address cannot be empty: %w", ErrInvalidInput)
		}
		if sh.PercentageBP <= 0 {
			return fmt.Errorf("stakeholder percentage must be positive: %w", ErrInvalidInput)
		}
		sum += sh.PercentageBP
	}

	if sum != BasisPointDenominator {
		return ErrPercentageSumInvalid
	}

	return nil
}
