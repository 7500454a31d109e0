package errors

var (
	ErrNothingToClaim = &DomainError{
		Code:    "NOTHING_TO_CLAIM",
		Message: "no unclaimed earnings",
	}
	ErrUnsupportedToken = &DomainError{
		Code:    "UNSUPPORTED_TOKEN",
		Message: "token type is not supported for payouts",
	}
	ErrPayoutAccountRequired = &DomainError{
		Code:    "PAYOUT_ACCOUNT_REQUIRED",
		Message: "link a payout account before claiming this token type",
	}
	ErrPayoutFailed = &DomainError{
		Code:    "PAYOUT_FAILED",
		Message: "payout failed",
	}
	ErrDuplicateTrade = &DomainError{
		Code:    "DUPLICATE_TRADE",
		Message: "trade already recorded",
	}
	ErrInvalidTrade = &DomainError{
		Code:    "INVALID_TRADE",
		Message: "invalid trade",
	}
)
