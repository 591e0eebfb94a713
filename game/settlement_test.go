package game

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettleSplitsPool(t *testing.T) {
	t.Parallel()

	got, err := Settle(decimal.NewFromInt(10), 20, decimal.NewFromFloat(0.20))
	require.NoError(t, err)
	assert.Equal(t, "40.00", got.Commission.StringFixed(2))
	assert.Equal(t, "160.00", got.Prize.StringFixed(2))
	assert.Equal(t, "200.00", got.Pool.StringFixed(2))
}

func TestSettleBoundaryRates(t *testing.T) {
	t.Parallel()

	free, err := Settle(decimal.NewFromInt(25), 4, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "100.00", free.Prize.StringFixed(2))
	assert.Equal(t, "0.00", free.Commission.StringFixed(2))

	house, err := Settle(decimal.NewFromInt(25), 4, decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.Equal(t, "0.00", house.Prize.StringFixed(2))
	assert.Equal(t, "100.00", house.Commission.StringFixed(2))
}

func TestSettleRejectsBadRates(t *testing.T) {
	t.Parallel()

	for _, rate := range []float64{-0.01, 1.01, 2, -5} {
		_, err := Settle(decimal.NewFromInt(10), 20, decimal.NewFromFloat(rate))
		assert.ErrorIs(t, err, ErrCommissionRate, "rate %v", rate)
	}
}

func TestSettleRoundingDrift(t *testing.T) {
	t.Parallel()

	// Awkward fees and rates: prize+commission may drift from the rounded
	// pool by at most one cent.
	cent := decimal.New(1, -2)
	fees := []decimal.Decimal{
		decimal.NewFromFloat(3.33),
		decimal.NewFromFloat(7.77),
		decimal.NewFromFloat(0.05),
	}
	rates := []decimal.Decimal{
		decimal.NewFromFloat(0.1),
		decimal.NewFromFloat(0.125),
		decimal.NewFromFloat(0.333),
	}
	for _, fee := range fees {
		for _, rate := range rates {
			for entries := 1; entries <= 40; entries++ {
				got, err := Settle(fee, entries, rate)
				require.NoError(t, err)
				drift := got.Prize.Add(got.Commission).Sub(got.Pool).Abs()
				assert.True(t, drift.LessThanOrEqual(cent),
					"fee=%s entries=%d rate=%s drift=%s", fee, entries, rate, drift)
			}
		}
	}
}
