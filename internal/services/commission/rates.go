package commission

import "github.com/shopspring/decimal"

// Rates are the fractions of a fee paid to each category.
type Rates struct {
	Level1   decimal.Decimal
	Level2   decimal.Decimal
	Level3   decimal.Decimal
	Cashback decimal.Decimal
}

var (
	defaultLevel1Rate   = decimal.RequireFromString("0.30")
	defaultLevel2Rate   = decimal.RequireFromString("0.03")
	defaultLevel3Rate   = decimal.RequireFromString("0.02")
	defaultCashbackRate = decimal.RequireFromString("0.10")
)

// DefaultRates returns the 30/3/2 cascade with 10% cashback.
func DefaultRates() Rates {
	return Rates{
		Level1:   defaultLevel1Rate,
		Level2:   defaultLevel2Rate,
		Level3:   defaultLevel3Rate,
		Cashback: defaultCashbackRate,
	}
}

// Validate checks every rate is a fraction and that the shares do not
// exceed the fee.
func (r Rates) Validate() error {
	one := decimal.NewFromInt(1)
	for _, rate := range []decimal.Decimal{r.Level1, r.Level2, r.Level3, r.Cashback} {
		if rate.IsNegative() || rate.GreaterThan(one) {
			return ErrInvalidRates
		}
	}
	if r.Level1.Add(r.Level2).Add(r.Level3).Add(r.Cashback).GreaterThan(one) {
		return ErrInvalidRates
	}
	return nil
}
