package validation

import "strings"

// SignupInput is what a new user submits.
type SignupInput struct {
	Email        string
	Password     string
	Name         string
	ReferralCode string
}

// Signup validates a registration request. The referral code is optional.
func (v *Validator) Signup(in *SignupInput) {
	v.Required("email", in.Email)
	v.Email("email", in.Email)
	v.Password("password", in.Password)
	v.Required("name", in.Name)
	v.MaxLength("name", in.Name, MaxNameLength)
	if code := strings.TrimSpace(in.ReferralCode); code != "" {
		v.ReferralCode("referralCode", strings.ToUpper(code))
	}
}

// PayoutAccount validates a Stripe connected account id.
func (v *Validator) PayoutAccount(id string) {
	v.Required("stripeAccountId", id)
	v.MaxLength("stripeAccountId", id, MaxStripeAccountLength)
	v.Check(stripeAccountRegex.MatchString(id), "stripeAccountId", "must be a Stripe connected account id (acct_...)")
}

// Login validates a login request.
func (v *Validator) Login(email, password string) {
	v.Required("email", email)
	v.Required("password", password)
}
