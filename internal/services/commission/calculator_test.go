package commission

import (
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2), field)
}

func TestCommissions(t *testing.T) {
	tests := []struct {
		name                        string
		fees                        string
		level1, level2, level3, sum string
	}{
		{name: "ten dollars", fees: "10", level1: "3.00", level2: "0.30", level3: "0.20", sum: "3.50"},
		{name: "hundred dollars", fees: "100", level1: "30.00", level2: "3.00", level3: "2.00", sum: "35.00"},
		{name: "levels rounded independently", fees: "33.33", level1: "10.00", level2: "1.00", level3: "0.67", sum: "11.67"},
		{name: "zero", fees: "0", level1: "0.00", level2: "0.00", level3: "0.00", sum: "0.00"},
		{name: "one cent", fees: "0.01", level1: "0.00", level2: "0.00", level3: "0.00", sum: "0.00"},
		{name: "ties round up", fees: "0.05", level1: "0.02", level2: "0.00", level3: "0.00", sum: "0.02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ComputeCommissions(dec(tt.fees))
			require.NoError(t, err)

			assertAmount(t, tt.level1, b.Level1, "level1")
			assertAmount(t, tt.level2, b.Level2, "level2")
			assertAmount(t, tt.level3, b.Level3, "level3")
			assertAmount(t, tt.sum, b.Total, "total")
			assert.True(t, b.Total.Equal(b.Level1.Add(b.Level2).Add(b.Level3)))
		})
	}
}

func TestCommissions_TotalIsSumOfRoundedLevels(t *testing.T) {
	// 0.25 * 0.35 = 0.0875 rounds to 0.09, but the levels round to
	// 0.08 + 0.01 + 0.01.
	fees := dec("0.25")
	b, err := ComputeCommissions(fees)
	require.NoError(t, err)

	assertAmount(t, "0.10", b.Total, "total")
	assertAmount(t, "0.09", fees.Mul(dec("0.35")).Round(2), "direct")

	treasury, err := ComputeTreasuryRevenue(fees)
	require.NoError(t, err)
	assertAmount(t, "0.12", treasury, "treasury")
}

func TestCashback(t *testing.T) {
	for fees, want := range map[string]string{
		"10":    "1.00",
		"100":   "10.00",
		"33.33": "3.33",
		"0":     "0.00",
		"0.05":  "0.01",
	} {
		got, err := ComputeCashback(dec(fees))
		require.NoError(t, err)
		assertAmount(t, want, got, "cashback of "+fees)
	}
}

func TestTreasuryRevenue(t *testing.T) {
	for fees, want := range map[string]string{
		"10":    "5.50",
		"100":   "55.00",
		"33.33": "18.33",
		"0":     "0.00",
		"0.01":  "0.01",
		"0.005": "0.01",
	} {
		got, err := ComputeTreasuryRevenue(dec(fees))
		require.NoError(t, err)
		assertAmount(t, want, got, "treasury of "+fees)
	}
}

func assertConserved(t *testing.T, calc *Calculator, fees decimal.Decimal) {
	t.Helper()
	b, err := calc.Commissions(fees)
	require.NoError(t, err)
	cashback, err := calc.Cashback(fees)
	require.NoError(t, err)
	treasury, err := calc.TreasuryRevenue(fees)
	require.NoError(t, err)

	sum := b.Total.Add(cashback).Add(treasury)
	assert.True(t, sum.Equal(fees.Round(2)), "fees %s split into %s", fees, sum)
}

func TestConservation(t *testing.T) {
	calc := Default()

	// every amount from 0 to 20 in steps of a tenth of a cent
	for i := int64(0); i <= 20000; i++ {
		assertConserved(t, calc, decimal.New(i, -3))
	}

	r := rand.New(rand.NewSource(42))
	for i := 0; i < 5000; i++ {
		assertConserved(t, calc, decimal.New(r.Int63n(1_000_000_000), -int32(r.Intn(5))))
	}
}

func TestConservation_CustomRates(t *testing.T) {
	calc, err := NewCalculator(Rates{
		Level1:   dec("0.5"),
		Level2:   dec("0.25"),
		Level3:   dec("0.25"),
		Cashback: decimal.Zero,
	})
	require.NoError(t, err)

	// rounding up every level overshoots the fee; treasury goes negative
	// to keep the books balanced
	treasury, err := calc.TreasuryRevenue(dec("0.03"))
	require.NoError(t, err)
	assertAmount(t, "-0.01", treasury, "treasury")

	for i := int64(0); i <= 2000; i++ {
		assertConserved(t, calc, decimal.New(i, -3))
	}
}

func TestNegativeFeesRejected(t *testing.T) {
	fees := dec("-1")

	_, err := ComputeCommissions(fees)
	assert.True(t, errors.Is(err, ErrNegativeFee))

	_, err = ComputeCashback(fees)
	assert.True(t, errors.Is(err, ErrNegativeFee))

	_, err = ComputeTreasuryRevenue(fees)
	assert.True(t, errors.Is(err, ErrNegativeFee))

	_, err = Default().Distribute(fees, Recipients{})
	assert.True(t, errors.Is(err, ErrNegativeFee))
}

func TestFeeFromFloat(t *testing.T) {
	fees, err := FeeFromFloat(33.33)
	require.NoError(t, err)
	assert.Equal(t, "33.33", fees.String())

	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := FeeFromFloat(f)
		assert.True(t, errors.Is(err, ErrNonFiniteFee))
	}

	_, err = FeeFromFloat(-0.01)
	assert.True(t, errors.Is(err, ErrNegativeFee))
}

func TestParseFee(t *testing.T) {
	fees, err := ParseFee("12.50")
	require.NoError(t, err)
	assertAmount(t, "12.50", fees, "fees")

	_, err = ParseFee("twelve")
	assert.True(t, errors.Is(err, ErrMalformedFee))

	_, err = ParseFee("-3")
	assert.True(t, errors.Is(err, ErrNegativeFee))
}

func TestNewCalculator_RejectsBadRates(t *testing.T) {
	tests := []struct {
		name  string
		rates Rates
	}{
		{"negative rate", Rates{Level1: dec("-0.1"), Level2: dec("0.03"), Level3: dec("0.02"), Cashback: dec("0.1")}},
		{"rate above one", Rates{Level1: dec("1.5"), Level2: decimal.Zero, Level3: decimal.Zero, Cashback: decimal.Zero}},
		{"shares exceed fee", Rates{Level1: dec("0.6"), Level2: dec("0.2"), Level3: dec("0.2"), Cashback: dec("0.1")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCalculator(tt.rates)
			assert.True(t, errors.Is(err, ErrInvalidRates))
		})
	}

	calc, err := NewCalculator(DefaultRates())
	require.NoError(t, err)
	assert.True(t, calc.Rates().Level1.Equal(dec("0.30")))
}

func TestDistribute(t *testing.T) {
	tests := []struct {
		name          string
		fees          string
		to            Recipients
		payable       [3]string
		cashback      string
		treasuryShare string
	}{
		{
			name:          "full cascade",
			fees:          "100",
			to:            Recipients{Levels: 3, Referred: true},
			payable:       [3]string{"30.00", "3.00", "2.00"},
			cashback:      "10.00",
			treasuryShare: "55.00",
		},
		{
			name:          "two levels",
			fees:          "100",
			to:            Recipients{Levels: 2, Referred: true},
			payable:       [3]string{"30.00", "3.00", "0.00"},
			cashback:      "10.00",
			treasuryShare: "57.00",
		},
		{
			name:          "nobody upline",
			fees:          "33.33",
			to:            Recipients{},
			payable:       [3]string{"0.00", "0.00", "0.00"},
			cashback:      "0.00",
			treasuryShare: "33.33",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Default().Distribute(dec(tt.fees), tt.to)
			require.NoError(t, err)

			assertAmount(t, tt.payable[0], d.Payable.Level1, "level1")
			assertAmount(t, tt.payable[1], d.Payable.Level2, "level2")
			assertAmount(t, tt.payable[2], d.Payable.Level3, "level3")
			assertAmount(t, tt.cashback, d.PayableCashback, "cashback")
			assertAmount(t, tt.treasuryShare, d.TreasuryShare, "treasury share")

			sum := d.Payable.Total.Add(d.PayableCashback).Add(d.TreasuryShare)
			assert.True(t, sum.Equal(d.Fees))

			// the calculator's own figures are untouched
			treasury, err := ComputeTreasuryRevenue(dec(tt.fees))
			require.NoError(t, err)
			assert.True(t, d.Treasury.Equal(treasury))
		})
	}

	_, err := Default().Distribute(dec("1"), Recipients{Levels: 4})
	assert.True(t, errors.Is(err, ErrInvalidRecipients))
}

func TestRatesConvergeForLargeFees(t *testing.T) {
	fees := dec("1000000000.37")
	b, err := ComputeCommissions(fees)
	require.NoError(t, err)
	cashback, err := ComputeCashback(fees)
	require.NoError(t, err)

	tolerance := dec("0.000000001")
	ratio := func(d decimal.Decimal) decimal.Decimal { return d.DivRound(fees, 12) }

	assert.True(t, ratio(b.Level1).Sub(dec("0.30")).Abs().LessThan(tolerance))
	assert.True(t, ratio(b.Level2).Sub(dec("0.03")).Abs().LessThan(tolerance))
	assert.True(t, ratio(b.Level3).Sub(dec("0.02")).Abs().LessThan(tolerance))
	assert.True(t, ratio(cashback).Sub(dec("0.10")).Abs().LessThan(tolerance))
}

func TestCalculator_ConcurrentCallsAgree(t *testing.T) {
	fees := dec("123.45")
	want, err := ComputeCommissions(fees)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]CommissionBreakdown, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = ComputeCommissions(fees)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.True(t, got.Total.Equal(want.Total))
		assert.True(t, got.Level1.Equal(want.Level1))
	}
}

func TestDistributionJSONUsesTwoDecimals(t *testing.T) {
	dist, err := Default().Distribute(dec("100"), Recipients{Levels: 1, Referred: true})
	require.NoError(t, err)

	raw, err := json.Marshal(dist)
	require.NoError(t, err)

	var out struct {
		Fees        string            `json:"fees"`
		Commissions map[string]string `json:"commissions"`
		Payable     map[string]string `json:"payable"`
		Cashback    string            `json:"cashback"`
		Treasury    string            `json:"treasury"`
		Share       string            `json:"treasuryShare"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, "100.00", out.Fees)
	assert.Equal(t, "30.00", out.Commissions["level1"])
	assert.Equal(t, "35.00", out.Commissions["total"])
	assert.Equal(t, "0.00", out.Payable["level2"])
	assert.Equal(t, "30.00", out.Payable["total"])
	assert.Equal(t, "10.00", out.Cashback)
	assert.Equal(t, "55.00", out.Treasury)
	assert.Equal(t, "60.00", out.Share)

	var back Distribution
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.TreasuryShare.Equal(dist.TreasuryShare))
}
