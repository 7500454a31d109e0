package referral

import "time"

// MaxDepth is how many levels below a user the network reaches.
const MaxDepth = 3

// NetworkMember is one user in a referrer's downline.
type NetworkMember struct {
	ID            uint      `json:"id"`
	Email         string    `json:"email"`
	ReferralCode  string    `json:"referralCode"`
	Level         int       `json:"level"`
	CreatedAt     time.Time `json:"createdAt"`
	TotalReferees int64     `json:"totalReferees"`
}

// NetworkPage is one page of the downline, ordered by level then signup time.
type NetworkPage struct {
	Referrals     []NetworkMember `json:"referrals"`
	CountsByLevel map[int]int64   `json:"countsByLevel"`
	Page          int             `json:"page"`
	Limit         int             `json:"limit"`
	Total         int64           `json:"total"`
	TotalPages    int             `json:"totalPages"`
}

// EarningRow is what one source user generated at one level and status.
type EarningRow struct {
	SourceUserID    uint      `json:"sourceUserId"`
	SourceEmail     string    `json:"sourceEmail"`
	XPAmount        string    `json:"xpAmount"`
	Status          string    `json:"status"`
	CommissionCount int64     `json:"commissionCount"`
	CreatedAt       time.Time `json:"createdAt"`
}

// EarningsSummary groups a user's earnings by level and source.
type EarningsSummary struct {
	TotalEarned     string                  `json:"totalEarned"`
	TotalClaimed    string                  `json:"totalClaimed"`
	TotalUnclaimed  string                  `json:"totalUnclaimed"`
	TotalCashback   string                  `json:"totalCashback"`
	EarningsByLevel map[string][]EarningRow `json:"earningsByLevel"`
	Cashback        []EarningRow            `json:"cashback"`
}

// Stats is the dashboard summary of a user.
type Stats struct {
	TotalReferrals    int64  `json:"totalReferrals"`
	DirectReferrals   int64  `json:"directReferrals"`
	TotalEarnings     string `json:"totalEarnings"`
	UnclaimedEarnings string `json:"unclaimedEarnings"`
	ThisMonthEarnings string `json:"thisMonthEarnings"`
}
