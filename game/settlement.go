package game

import "github.com/shopspring/decimal"

// Settlement splits the entry pool between the winner and the house.
// Both amounts are computed from the unrounded pool and rounded half-up to
// two decimal places independently, so they may drift from the rounded pool
// by at most one cent.
type Settlement struct {
	Pool       decimal.Decimal
	Prize      decimal.Decimal
	Commission decimal.Decimal
}

// ValidateCommissionRate rejects rates outside [0,1]. A bad rate is a
// configuration error and must prevent the session from starting.
func ValidateCommissionRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return ErrCommissionRate
	}
	return nil
}

// Settle computes prize and commission for a finished round. entriesCount is
// the number of cards entered, not the number of players.
func Settle(entryFee decimal.Decimal, entriesCount int, rate decimal.Decimal) (Settlement, error) {
	if err := ValidateCommissionRate(rate); err != nil {
		return Settlement{}, err
	}

	pool := entryFee.Mul(decimal.NewFromInt(int64(entriesCount)))
	return Settlement{
		Pool:       pool.Round(2),
		Commission: pool.Mul(rate).Round(2),
		Prize:      pool.Mul(decimal.NewFromInt(1).Sub(rate)).Round(2),
	}, nil
}
