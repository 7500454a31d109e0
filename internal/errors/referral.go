package errors

var (
	ErrInvalidReferralCode = &DomainError{
		Code:    "INVALID_REFERRAL_CODE",
		Message: "referral code does not exist",
	}
	ErrReferralCodeExhausted = &DomainError{
		Code:    "REFERRAL_CODE_EXHAUSTED",
		Message: "could not allocate a unique referral code",
	}
	ErrUserNotFound = &DomainError{
		Code:    "USER_NOT_FOUND",
		Message: "user not found",
	}
	ErrEmailTaken = &DomainError{
		Code:    "EMAIL_TAKEN",
		Message: "email already registered",
	}
	ErrInvalidCredentials = &DomainError{
		Code:    "INVALID_CREDENTIALS",
		Message: "invalid credentials",
	}
)
