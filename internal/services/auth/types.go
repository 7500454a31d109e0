package auth

import "time"

// SignupRequest is a registration with an optional referral code.
type SignupRequest struct {
	Email        string
	Password     string
	Name         string
	ReferralCode string
}

// Session is returned after signup and login.
type Session struct {
	Token        string `json:"token"`
	UserID       uint   `json:"userId"`
	Email        string `json:"email"`
	ReferralCode string `json:"referralCode"`
	HasReferrer  bool   `json:"hasReferrer"`
}

// Profile is the public view of the signed-in user. PayoutAccountLinked
// is true once USD claims can be paid out.
type Profile struct {
	ID                  uint      `json:"id"`
	Email               string    `json:"email"`
	Name                string    `json:"name"`
	Role                string    `json:"role"`
	ReferralCode        string    `json:"referralCode"`
	HasReferrer         bool      `json:"hasReferrer"`
	PayoutAccountLinked bool      `json:"payoutAccountLinked"`
	CreatedAt           time.Time `json:"createdAt"`
}
