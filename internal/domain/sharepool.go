package domain

import "fmt"

// SharePool represents the fractional share ledger state for one
// property: a fixed supply ceiling, a fixed price per share, and the
// reserve of purchase proceeds that backs sell refunds.
//
// Purchase proceeds are held in the pool's Reserve rather than being
// forwarded to the owner. At a fixed SharePrice the reserve grows by
// exactly quantity × SharePrice per purchase, so every SellShares
// refund is covered by construction.
type SharePool struct {
	PropertyID        string
	TotalShares       int64
	SharePrice        int64 // smallest currency unit per share
	PropertyOwner     Address
	CirculatingSupply int64 // sum of all non-owner holder balances
	Reserve           int64 // held purchase proceeds backing refunds
}

// Validate ensures the share pool adheres to ledger rules.
// Returns an error if validation fails
func (p *SharePool) Validate() error {
	if p.PropertyID == "" {
		return fmt.Errorf("share pool property id cannot be empty: %w", ErrInvalidInput)
	}
	if p.TotalShares <= 0 {
		return fmt.Errorf("total shares must be positive: %w", ErrInvalidInput)
	}
	if p.SharePrice <= 0 {
		return fmt.Errorf("share price must be positive: %w", ErrInvalidInput)
	}
	if p.PropertyOwner == "" {
		return fmt.Errorf("share pool must have a property owner address: %w", ErrInvalidInput)
	}
	if p.CirculatingSupply < 0 || p.CirculatingSupply > p.TotalShares {
		return fmt.Errorf("circulating supply must be between zero and total shares: %w", ErrInvalidInput)
	}
	return nil
}

// Available returns the number of shares that can still be issued.
func (p *SharePool) Available() int64 {
	return p.TotalShares - p.CirculatingSupply
}
