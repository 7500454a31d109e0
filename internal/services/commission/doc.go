/*
Package commission splits a trading fee into the referral cascade.

Every fee event is divided into four categories:
- three referral commission levels (30%, 3% and 2% of the fee)
- cashback for the trader when they were referred (10%)
- treasury revenue, whatever remains

Usage:

	calc := commission.Default()

	breakdown, err := calc.Commissions(fees)
	cashback, err := calc.Cashback(fees)
	treasury, err := calc.TreasuryRevenue(fees)

Rounding:

Each level and the cashback are rounded on their own to two decimals, half
up. The breakdown total is the sum of the rounded levels. Treasury is the
rounded remainder of the fee, so

	breakdown.Total + cashback + treasury == round(fees, 2)

holds for every valid fee. Treasury must not be computed as a flat rate.

Input:

Negative fees are rejected with ErrNegativeFee. Floats coming from the
outside go through FeeFromFloat, which also rejects NaN and infinities.

Distribution:

Distribute is used when a trade is recorded. Shares that have nobody to
receive them (missing upline levels, a trader without a referrer) are
folded into the treasury share so the recorded ledger still adds up to
the rounded fee.
*/
package commission
