package validation

const (
	// Password requirements
	MinPasswordLength = 8
	MaxPasswordLength = 72

	// String lengths
	MaxNameLength  = 100
	MaxEmailLength = 254

	// Referral codes are uppercase alphanumerics
	ReferralCodeLength = 8

	MaxStripeAccountLength = 255
)
