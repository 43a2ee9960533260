package payout

import (
	"math"
	"testing"

	"github.com/ardhilabs/plotshare-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePayouts_TenNinetySplit(t *testing.T) {
	// Distribute 10,000 with stakeholders at 10%/90%
	// Expected: agent=1,000, owner=9,000
	stakeholders := []domain.Stakeholder{
		{Address: "agent", PercentageBP: 1000, Role: "AGENT"},
		{Address: "owner", PercentageBP: 9000, Role: "OWNER"},
	}

	payouts, err := CalculatePayouts(10000, stakeholders)
	require.NoError(t, err)
	require.Len(t, payouts, 2)

	assert.Equal(t, domain.Address("agent"), payouts[0].Address)
	assert.Equal(t, int64(1000), payouts[0].Amount)
	assert.Equal(t, domain.Address("owner"), payouts[1].Address)
	assert.Equal(t, int64(9000), payouts[1].Amount)
}

func TestCalculatePayouts_RemainderGoesToLast(t *testing.T) {
	// 100 split three ways at 33.33/33.33/33.34 percent.
	// Floor division gives 33+33, so the last stakeholder gets 34.
	stakeholders := []domain.Stakeholder{
		{Address: "a", PercentageBP: 3333},
		{Address: "b", PercentageBP: 3333},
		{Address: "c", PercentageBP: 3334},
	}

	payouts, err := CalculatePayouts(100, stakeholders)
	require.NoError(t, err)

	assert.Equal(t, int64(33), payouts[0].Amount)
	assert.Equal(t, int64(33), payouts[1].Amount)
	assert.Equal(t, int64(34), payouts[2].Amount)
}

func TestCalculatePayouts_SingleStakeholderTakesAll(t *testing.T) {
	payouts, err := CalculatePayouts(777, []domain.Stakeholder{
		{Address: "owner", PercentageBP: 10000},
	})
	require.NoError(t, err)
	require.Len(t, payouts, 1)
	assert.Equal(t, int64(777), payouts[0].Amount)
}

func TestCalculatePayouts_NoDustForAnyAmount(t *testing.T) {
	stakeholders := []domain.Stakeholder{
		{Address: "a", PercentageBP: 1},
		{Address: "b", PercentageBP: 2500},
		{Address: "c", PercentageBP: 3333},
		{Address: "d", PercentageBP: 4166},
	}

	for _, amount := range []int64{1, 2, 3, 7, 99, 100, 101, 9999, 10000, 10001, 123456789} {
		payouts, err := CalculatePayouts(amount, stakeholders)
		require.NoError(t, err)

		var total int64
		for _, p := range payouts {
			total += p.Amount
			assert.GreaterOrEqual(t, p.Amount, int64(0))
		}
		assert.Equal(t, amount, total, "payment of %d must be distributed exactly", amount)
	}
}

func TestCalculatePayouts_InvalidInputs(t *testing.T) {
	stakeholders := []domain.Stakeholder{{Address: "a", PercentageBP: 10000}}

	_, err := CalculatePayouts(0, stakeholders)
	assert.Error(t, err)

	_, err = CalculatePayouts(-5, stakeholders)
	assert.Error(t, err)

	_, err = CalculatePayouts(100, nil)
	assert.Error(t, err)
}

func TestCalculatePayouts_Overflow(t *testing.T) {
	stakeholders := []domain.Stakeholder{
		{Address: "a", PercentageBP: 5000},
		{Address: "b", PercentageBP: 5000},
	}

	_, err := CalculatePayouts(math.MaxInt64, stakeholders)
	assert.ErrorIs(t, err, domain.ErrArithmeticOverflow)
}
