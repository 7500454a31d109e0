package commission

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Levels is the depth of the referral cascade.
const Levels = 3

// CommissionBreakdown is the per-level commission of one fee event.
// Total is always the sum of the three rounded levels.
type CommissionBreakdown struct {
	Level1 decimal.Decimal `json:"level1"`
	Level2 decimal.Decimal `json:"level2"`
	Level3 decimal.Decimal `json:"level3"`
	Total  decimal.Decimal `json:"total"`
}

// Level returns the commission for level n (1-based). Out of range levels
// earn nothing.
func (b CommissionBreakdown) Level(n int) decimal.Decimal {
	switch n {
	case 1:
		return b.Level1
	case 2:
		return b.Level2
	case 3:
		return b.Level3
	default:
		return decimal.Zero
	}
}

// MarshalJSON renders every amount with two decimals.
func (b CommissionBreakdown) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Level1 string `json:"level1"`
		Level2 string `json:"level2"`
		Level3 string `json:"level3"`
		Total  string `json:"total"`
	}{
		Level1: b.Level1.StringFixed(2),
		Level2: b.Level2.StringFixed(2),
		Level3: b.Level3.StringFixed(2),
		Total:  b.Total.StringFixed(2),
	})
}

func newBreakdown(l1, l2, l3 decimal.Decimal) CommissionBreakdown {
	return CommissionBreakdown{
		Level1: l1,
		Level2: l2,
		Level3: l3,
		Total:  l1.Add(l2).Add(l3),
	}
}

// Recipients describes who exists to receive the shares of a fee.
type Recipients struct {
	// Levels is the number of upline referrers found, 0 to 3.
	Levels int
	// Referred is true when the trader signed up with a referral code.
	Referred bool
}

// Distribution is the full split of one fee event.
type Distribution struct {
	Fees        decimal.Decimal     `json:"fees"`
	Commissions CommissionBreakdown `json:"commissions"`
	Cashback    decimal.Decimal     `json:"cashback"`
	Treasury    decimal.Decimal     `json:"treasury"`

	// Payable holds only the levels that have a beneficiary.
	Payable         CommissionBreakdown `json:"payable"`
	PayableCashback decimal.Decimal     `json:"payableCashback"`
	// TreasuryShare is Treasury plus every share nobody could receive.
	TreasuryShare decimal.Decimal `json:"treasuryShare"`
}

// MarshalJSON renders every amount with two decimals.
func (d Distribution) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Fees            string              `json:"fees"`
		Commissions     CommissionBreakdown `json:"commissions"`
		Cashback        string              `json:"cashback"`
		Treasury        string              `json:"treasury"`
		Payable         CommissionBreakdown `json:"payable"`
		PayableCashback string              `json:"payableCashback"`
		TreasuryShare   string              `json:"treasuryShare"`
	}{
		Fees:            d.Fees.StringFixed(2),
		Commissions:     d.Commissions,
		Cashback:        d.Cashback.StringFixed(2),
		Treasury:        d.Treasury.StringFixed(2),
		Payable:         d.Payable,
		PayableCashback: d.PayableCashback.StringFixed(2),
		TreasuryShare:   d.TreasuryShare.StringFixed(2),
	})
}
