package splitter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardhilabs/plotshare-backend/internal/adapter/events"
	"github.com/ardhilabs/plotshare-backend/internal/adapter/repository/memory"
	"github.com/ardhilabs/plotshare-backend/internal/domain"
)

func newTestService(t *testing.T) (*Service, *memory.Gateway, *events.Recorder) {
	t.Helper()
	db := memory.NewDB()
	gateway := memory.NewGateway(db)
	recorder := events.NewRecorder()
	service := NewService(memory.NewStakeholderRepository(db), gateway, db, recorder)
	return service, gateway, recorder
}

func TestRegisterStakeholders(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(t)

	set, err := service.RegisterStakeholders(ctx, RegisterStakeholdersInput{
		PropertyID:    "PROP-001",
		Addresses:     []domain.Address{"agent", "owner"},
		PercentagesBP: []int64{1000, 9000},
		Roles:         []string{"AGENT", "OWNER"},
	})
	require.NoError(t, err)
	require.Len(t, set.Stakeholders, 2)
	assert.Equal(t, int64(1000), set.Stakeholders[0].PercentageBP)

	// The set is fixed after registration.
	_, err = service.RegisterStakeholders(ctx, RegisterStakeholdersInput{
		PropertyID:    "PROP-001",
		Addresses:     []domain.Address{"owner"},
		PercentagesBP: []int64{10000},
		Roles:         []string{"OWNER"},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateProperty)
}

func TestRegisterStakeholders_LengthMismatch(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(t)

	_, err := service.RegisterStakeholders(ctx, RegisterStakeholdersInput{
		PropertyID:    "PROP-001",
		Addresses:     []domain.Address{"agent", "owner"},
		PercentagesBP: []int64{10000},
		Roles:         []string{"AGENT", "OWNER"},
	})
	assert.ErrorIs(t, err, domain.ErrLengthMismatch)

	_, err = service.RegisterStakeholders(ctx, RegisterStakeholdersInput{
		PropertyID:    "PROP-001",
		Addresses:     []domain.Address{"agent", "owner"},
		PercentagesBP: []int64{1000, 9000},
		Roles:         []string{"AGENT"},
	})
	assert.ErrorIs(t, err, domain.ErrLengthMismatch)
}

func TestRegisterStakeholders_PercentageSumInvalid(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(t)

	_, err := service.RegisterStakeholders(ctx, RegisterStakeholdersInput{
		PropertyID:    "PROP-001",
		Addresses:     []domain.Address{"agent", "owner"},
		PercentagesBP: []int64{1000, 8000},
		Roles:         []string{"AGENT", "OWNER"},
	})
	assert.ErrorIs(t, err, domain.ErrPercentageSumInvalid)
}

func TestDistributePayment(t *testing.T) {
	ctx := context.Background()
	service, gateway, recorder := newTestService(t)

	_, err := service.RegisterStakeholders(ctx, RegisterStakeholdersInput{
		PropertyID:    "PROP-001",
		Addresses:     []domain.Address{"agent", "owner"},
		PercentagesBP: []int64{1000, 9000},
		Roles:         []string{"AGENT", "OWNER"},
	})
	require.NoError(t, err)

	// Distribute 10,000 at 10%/90% → 1,000 and 9,000.
	paid, err := service.DistributePayment(ctx, "PROP-001", 10_000)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000), paid["agent"])
	assert.Equal(t, int64(9_000), paid["owner"])

	agentBalance, err := gateway.AccountBalance(ctx, "agent")
	require.NoError(t, err)
	assert.Equal(t, int64(1_000), agentBalance)

	ownerBalance, err := gateway.AccountBalance(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, int64(9_000), ownerBalance)

	assert.Equal(t, []string{"payment.distributed"}, recorder.Kinds())
}

func TestDistributePayment_NoStakeholders(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(t)

	_, err := service.DistributePayment(ctx, "PROP-404", 10_000)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDistributePayment_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	service, gateway, recorder := newTestService(t)

	_, err := service.RegisterStakeholders(ctx, RegisterStakeholdersInput{
		PropertyID:    "PROP-001",
		Addresses:     []domain.Address{"agent", "frozen"},
		PercentagesBP: []int64{1000, 9000},
		Roles:         []string{"AGENT", "OWNER"},
	})
	require.NoError(t, err)

	gateway.Freeze("frozen")

	_, err = service.DistributePayment(ctx, "PROP-001", 10_000)
	require.ErrorIs(t, err, domain.ErrTransferRejected)

	// The agent's transfer was rolled back with the whole distribution.
	agentBalance, err := gateway.AccountBalance(ctx, "agent")
	require.NoError(t, err)
	assert.Equal(t, int64(0), agentBalance)

	assert.Empty(t, recorder.Kinds(), "no event for a rolled-back distribution")
}

func TestDistributePayment_RemainderToLastStakeholder(t *testing.T) {
	ctx := context.Background()
	service, gateway, _ := newTestService(t)

	_, err := service.RegisterStakeholders(ctx, RegisterStakeholdersInput{
		PropertyID:    "PROP-001",
		Addresses:     []domain.Address{"a", "b", "c"},
		PercentagesBP: []int64{3333, 3333, 3334},
		Roles:         []string{"INVESTOR", "INVESTOR", "OWNER"},
	})
	require.NoError(t, err)

	paid, err := service.DistributePayment(ctx, "PROP-001", 100)
	require.NoError(t, err)
	assert.Equal(t, int64(33), paid["a"])
	assert.Equal(t, int64(33), paid["b"])
	assert.Equal(t, int64(34), paid["c"], "rounding remainder goes to the last stakeholder")

	var total int64
	for _, addr := range []domain.Address{"a", "b", "c"} {
		balance, err := gateway.AccountBalance(ctx, addr)
		require.NoError(t, err)
		total += balance
	}
	assert.Equal(t, int64(100), total, "no dust lost or created")
}
