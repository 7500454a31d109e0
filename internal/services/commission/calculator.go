package commission

import (
	"math"

	"github.com/shopspring/decimal"
)

// precision is the number of decimals kept for currency amounts.
const precision = 2

var half = decimal.RequireFromString("0.5")

// Calculator computes fee splits for a fixed set of rates.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	rates Rates
}

var defaultCalculator = &Calculator{rates: DefaultRates()}

// Default returns the calculator using DefaultRates.
func Default() *Calculator {
	return defaultCalculator
}

// NewCalculator creates a calculator for the given rates.
func NewCalculator(rates Rates) (*Calculator, error) {
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{rates: rates}, nil
}

// Rates returns the rates the calculator was built with.
func (c *Calculator) Rates() Rates {
	return c.rates
}

// Commissions returns the three level commissions of fees, each rounded
// independently, and their sum.
func (c *Calculator) Commissions(fees decimal.Decimal) (CommissionBreakdown, error) {
	if err := checkFee(fees); err != nil {
		return CommissionBreakdown{}, err
	}
	return c.commissions(fees), nil
}

// Cashback returns the trader's share of fees.
func (c *Calculator) Cashback(fees decimal.Decimal) (decimal.Decimal, error) {
	if err := checkFee(fees); err != nil {
		return decimal.Zero, err
	}
	return c.cashback(fees), nil
}

// TreasuryRevenue returns what is left of fees after commissions and
// cashback. It absorbs every rounding residue of the other categories.
func (c *Calculator) TreasuryRevenue(fees decimal.Decimal) (decimal.Decimal, error) {
	if err := checkFee(fees); err != nil {
		return decimal.Zero, err
	}
	return c.treasury(fees, c.commissions(fees), c.cashback(fees)), nil
}

// Distribute splits fees between the recipients that exist. Levels without
// a referrer and the cashback of a trader nobody referred go to the
// treasury share.
func (c *Calculator) Distribute(fees decimal.Decimal, to Recipients) (Distribution, error) {
	if err := checkFee(fees); err != nil {
		return Distribution{}, err
	}
	if to.Levels < 0 || to.Levels > Levels {
		return Distribution{}, ErrInvalidRecipients
	}

	breakdown := c.commissions(fees)
	cashback := c.cashback(fees)
	treasury := c.treasury(fees, breakdown, cashback)

	paid := [Levels]decimal.Decimal{decimal.Zero, decimal.Zero, decimal.Zero}
	for level := 1; level <= to.Levels; level++ {
		paid[level-1] = breakdown.Level(level)
	}
	payable := newBreakdown(paid[0], paid[1], paid[2])

	payableCashback := decimal.Zero
	if to.Referred {
		payableCashback = cashback
	}

	unpaid := breakdown.Total.Sub(payable.Total).Add(cashback.Sub(payableCashback))

	return Distribution{
		Fees:            roundHalfUp(fees),
		Commissions:     breakdown,
		Cashback:        cashback,
		Treasury:        treasury,
		Payable:         payable,
		PayableCashback: payableCashback,
		TreasuryShare:   treasury.Add(unpaid),
	}, nil
}

func (c *Calculator) commissions(fees decimal.Decimal) CommissionBreakdown {
	return newBreakdown(
		roundHalfUp(fees.Mul(c.rates.Level1)),
		roundHalfUp(fees.Mul(c.rates.Level2)),
		roundHalfUp(fees.Mul(c.rates.Level3)),
	)
}

func (c *Calculator) cashback(fees decimal.Decimal) decimal.Decimal {
	return roundHalfUp(fees.Mul(c.rates.Cashback))
}

func (c *Calculator) treasury(fees decimal.Decimal, b CommissionBreakdown, cashback decimal.Decimal) decimal.Decimal {
	return roundHalfUp(fees.Sub(b.Total).Sub(cashback))
}

// roundHalfUp rounds to cents with ties going toward positive infinity.
func roundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Shift(precision).Add(half).Floor().Shift(-precision)
}

func checkFee(fees decimal.Decimal) error {
	if fees.IsNegative() {
		return ErrNegativeFee
	}
	return nil
}

// FeeFromFloat converts an external float fee into a decimal, rejecting
// NaN, infinities and negative values.
func FeeFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, ErrNonFiniteFee
	}
	if f < 0 {
		return decimal.Zero, ErrNegativeFee
	}
	return decimal.NewFromFloat(f), nil
}

// ParseFee parses a decimal fee string such as "12.50".
func ParseFee(s string) (decimal.Decimal, error) {
	fees, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrMalformedFee.Wrap(err)
	}
	if err := checkFee(fees); err != nil {
		return decimal.Zero, err
	}
	return fees, nil
}

// ComputeCommissions runs Commissions with the default rates.
func ComputeCommissions(fees decimal.Decimal) (CommissionBreakdown, error) {
	return defaultCalculator.Commissions(fees)
}

// ComputeCashback runs Cashback with the default rates.
func ComputeCashback(fees decimal.Decimal) (decimal.Decimal, error) {
	return defaultCalculator.Cashback(fees)
}

// ComputeTreasuryRevenue runs TreasuryRevenue with the default rates.
func ComputeTreasuryRevenue(fees decimal.Decimal) (decimal.Decimal, error) {
	return defaultCalculator.TreasuryRevenue(fees)
}
