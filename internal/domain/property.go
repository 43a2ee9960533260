package domain

import "fmt"

// Address identifies an account that can own property, hold shares and
// receive payments. Addresses are opaque to the core.
type Address string

// Property represents a title registry record.
// Exactly one CurrentOwner exists at any time; the ID is immutable once
// registered.
type Property struct {
	ID           string
	Location     string
	TotalValue   int64 // smallest currency unit
	CurrentOwner Address
	MetadataURI  string
}

// Validate ensures the property record adheres to registry rules.
// Returns an error if validation fails
func (p *Property) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("property id cannot be empty: %w", ErrInvalidInput)
	}
	if p.CurrentOwner == "" {
		return fmt.Errorf("property must have an owner address: %w", ErrInvalidInput)
	}
	if p.TotalValue <= 0 {
		return fmt.Errorf("property total value must be positive: %w", ErrInvalidInput)
	}
	return nil
}
