// Package validation checks user input before it reaches the services.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRegex         = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	referralCodeRegex  = regexp.MustCompile(`^[A-Z0-9]+$`)
	stripeAccountRegex = regexp.MustCompile(`^acct_[A-Za-z0-9]+$`)
)

// Validator defines validation methods
type Validator struct {
	Errors map[string]string
}

// New creates a new validator
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid checks if there are any validation errors
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError adds an error to the validator. The first error of a field wins.
func (v *Validator) AddError(field, message string) {
	if _, exists := v.Errors[field]; !exists {
		v.Errors[field] = message
	}
}

// Check adds an error if the condition is false
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Email validates email format
func (v *Validator) Email(field, email string) {
	v.Check(len(email) <= MaxEmailLength && emailRegex.MatchString(email), field, "must be a valid email address")
}

// Required checks if a string is not empty
func (v *Validator) Required(field, value string) {
	v.Check(strings.TrimSpace(value) != "", field, "must not be empty")
}

// MinLength checks if a string has at least n characters
func (v *Validator) MinLength(field string, value string, n int) {
	v.Check(len(value) >= n, field, fmt.Sprintf("must be at least %d characters long", n))
}

// MaxLength checks if a string has at most n characters
func (v *Validator) MaxLength(field string, value string, n int) {
	v.Check(len(value) <= n, field, fmt.Sprintf("must not be more than %d characters long", n))
}

// Password validates password strength
func (v *Validator) Password(field, password string) {
	v.MinLength(field, password, MinPasswordLength)
	v.MaxLength(field, password, MaxPasswordLength)

	var (
		hasLetter bool
		hasNumber bool
	)
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	v.Check(hasLetter, field, "must contain at least one letter")
	v.Check(hasNumber, field, "must contain at least one number")
}

// ReferralCode validates the shape of a referral code.
func (v *Validator) ReferralCode(field, code string) {
	v.Check(len(code) == ReferralCodeLength && referralCodeRegex.MatchString(code), field,
		fmt.Sprintf("must be %d uppercase letters or digits", ReferralCodeLength))
}

// First returns one error message, for single-message responses.
func (v *Validator) First() string {
	for field, msg := range v.Errors {
		return field + " " + msg
	}
	return ""
}
