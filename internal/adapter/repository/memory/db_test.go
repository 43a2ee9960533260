package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardhilabs/plotshare-backend/internal/domain"
)

func testProperty(id string) *domain.Property {
	return &domain.Property{
		ID:           id,
		Location:     "Dar es Salaam, Tanzania",
		TotalValue:   1_000_000,
		CurrentOwner: "owner",
		MetadataURI:  "ipfs://prop/" + id,
	}
}

func TestTransact_RollbackUndoesEveryMutation(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	properties := NewPropertyRepository(db)
	pools := NewSharePoolRepository(db)

	boom := errors.New("boom")
	err := db.Transact(ctx, func(ctx context.Context) error {
		require.NoError(t, properties.Create(ctx, testProperty("PROP-001")))
		require.NoError(t, pools.Create(ctx, &domain.SharePool{
			PropertyID:    "PROP-001",
			TotalShares:   1000,
			SharePrice:    1000,
			PropertyOwner: "owner",
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = properties.GetByID(ctx, "PROP-001")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = pools.GetByID(ctx, "PROP-001")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransact_NestedCallsJoinTheOuterTransaction(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	properties := NewPropertyRepository(db)

	boom := errors.New("boom")
	err := db.Transact(ctx, func(ctx context.Context) error {
		// Inner Transact commits only with the outer one.
		innerErr := db.Transact(ctx, func(ctx context.Context) error {
			return properties.Create(ctx, testProperty("PROP-001"))
		})
		require.NoError(t, innerErr)
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = properties.GetByID(ctx, "PROP-001")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransact_CommitPersists(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	properties := NewPropertyRepository(db)

	require.NoError(t, properties.Create(ctx, testProperty("PROP-001")))

	got, err := properties.GetByID(ctx, "PROP-001")
	require.NoError(t, err)
	assert.Equal(t, "Dar es Salaam, Tanzania", got.Location)
	assert.Equal(t, domain.Address("owner"), got.CurrentOwner)

	// Re-registration of an existing id is rejected.
	err = properties.Create(ctx, testProperty("PROP-001"))
	assert.ErrorIs(t, err, domain.ErrDuplicateProperty)
}

func TestPropertyRepository_UpdateOwner(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	properties := NewPropertyRepository(db)

	require.NoError(t, properties.Create(ctx, testProperty("PROP-001")))
	require.NoError(t, properties.UpdateOwner(ctx, "PROP-001", "new-owner"))

	got, err := properties.GetByID(ctx, "PROP-001")
	require.NoError(t, err)
	assert.Equal(t, domain.Address("new-owner"), got.CurrentOwner)

	err = properties.UpdateOwner(ctx, "PROP-404", "anyone")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepositories_ReturnCopies(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	properties := NewPropertyRepository(db)

	require.NoError(t, properties.Create(ctx, testProperty("PROP-001")))

	got, err := properties.GetByID(ctx, "PROP-001")
	require.NoError(t, err)
	got.CurrentOwner = "mallory"

	again, err := properties.GetByID(ctx, "PROP-001")
	require.NoError(t, err)
	assert.Equal(t, domain.Address("owner"), again.CurrentOwner, "mutating a read result must not touch stored state")
}

func TestSharePoolRepository_Balances(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	pools := NewSharePoolRepository(db)

	balance, err := pools.BalanceOf(ctx, "PROP-001", "buyer")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance, "unknown holder has zero balance")

	require.NoError(t, pools.SetBalance(ctx, "PROP-001", "buyer", 100))
	balance, err = pools.BalanceOf(ctx, "PROP-001", "buyer")
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)
}

func TestEscrowRepository_ActiveByPropertyID(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	escrows := NewEscrowRepository(db)

	_, err := escrows.ActiveByPropertyID(ctx, "PROP-001")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	active := &domain.Escrow{
		ID:           uuid.New(),
		PropertyID:   "PROP-001",
		Buyer:        "buyer",
		SharesAmount: 100,
		Status:       domain.EscrowStatusActive,
	}
	require.NoError(t, escrows.Create(ctx, active))

	got, err := escrows.ActiveByPropertyID(ctx, "PROP-001")
	require.NoError(t, err)
	assert.Equal(t, active.ID, got.ID)

	// A terminal escrow no longer counts as active.
	got.Status = domain.EscrowStatusCancelled
	require.NoError(t, escrows.Update(ctx, got))
	_, err = escrows.ActiveByPropertyID(ctx, "PROP-001")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGateway_TransferAndFreeze(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	gateway := NewGateway(db)

	require.NoError(t, gateway.Transfer(ctx, "alice", 500))
	balance, err := gateway.AccountBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance)

	gateway.Freeze("bob")
	err = gateway.Transfer(ctx, "bob", 100)
	assert.ErrorIs(t, err, domain.ErrTransferRejected)
}

func TestGateway_TransferRollsBackWithTransaction(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	gateway := NewGateway(db)
	gateway.Freeze("frozen")

	err := db.Transact(ctx, func(ctx context.Context) error {
		if err := gateway.Transfer(ctx, "alice", 300); err != nil {
			return err
		}
		return gateway.Transfer(ctx, "frozen", 700)
	})
	require.ErrorIs(t, err, domain.ErrTransferRejected)

	balance, err := gateway.AccountBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance, "partial distribution must never be observable")
}
