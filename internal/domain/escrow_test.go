package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEscrow_Lifecycle(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	e := Escrow{
		ID:               uuid.New(),
		PropertyID:       "PROP-001",
		Buyer:            "buyer",
		SharesAmount:     100,
		Deadline:         now.Add(time.Hour),
		PaymentReference: "PAY-REF-42",
		Status:           EscrowStatusActive,
	}

	assert.NoError(t, e.Validate())
	assert.True(t, e.IsActive())
	assert.False(t, e.IsCompleted())
	assert.False(t, e.Expired(now))
	assert.True(t, e.Expired(now.Add(2*time.Hour)))

	// Deadline itself is not expiry; only strictly after counts.
	assert.False(t, e.Expired(e.Deadline))

	e.Status = EscrowStatusCompleted
	assert.False(t, e.IsActive())
	assert.True(t, e.IsCompleted())

	e.Status = EscrowStatusCancelled
	assert.False(t, e.IsActive())
	assert.False(t, e.IsCompleted())
}

func TestEscrow_Validate(t *testing.T) {
	tests := []struct {
		name    string
		escrow  Escrow
		wantErr bool
	}{
		{
			name: "Valid active escrow should pass",
			escrow: Escrow{
				ID:           uuid.New(),
				PropertyID:   "PROP-001",
				Buyer:        "buyer",
				SharesAmount: 1,
				Status:       EscrowStatusActive,
			},
			wantErr: false,
		},
		{
			name: "Missing property id should fail",
			escrow: Escrow{
				ID:           uuid.New(),
				Buyer:        "buyer",
				SharesAmount: 1,
				Status:       EscrowStatusActive,
			},
			wantErr: true,
		},
		{
			name: "Missing buyer should fail",
			escrow: Escrow{
				ID:           uuid.New(),
				PropertyID:   "PROP-001",
				SharesAmount: 1,
				Status:       EscrowStatusActive,
			},
			wantErr: true,
		},
		{
			name: "Zero shares amount should fail",
			escrow: Escrow{
				ID:         uuid.New(),
				PropertyID: "PROP-001",
				Buyer:      "buyer",
				Status:     EscrowStatusActive,
			},
			wantErr: true,
		},
		{
			name: "Unknown status should fail",
			escrow: Escrow{
				ID:           uuid.New(),
				PropertyID:   "PROP-001",
				Buyer:        "buyer",
				SharesAmount: 1,
				Status:       EscrowStatus("PENDING"),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.escrow.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
