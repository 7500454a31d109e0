package commission

import apperrors "cascade/internal/errors"

var (
	ErrNegativeFee = &apperrors.DomainError{
		Code:    "INVALID_FEE",
		Message: "fee amount must not be negative",
	}
	ErrNonFiniteFee = &apperrors.DomainError{
		Code:    "NON_FINITE_FEE",
		Message: "fee amount must be a finite number",
	}
	ErrMalformedFee = &apperrors.DomainError{
		Code:    "MALFORMED_FEE",
		Message: "fee amount is not a decimal number",
	}
	ErrInvalidRates = &apperrors.DomainError{
		Code:    "INVALID_RATES",
		Message: "commission rates must be within [0, 1] and sum to at most 1",
	}
	ErrInvalidRecipients = &apperrors.DomainError{
		Code:    "INVALID_RECIPIENTS",
		Message: "recipient levels must be between 0 and 3",
	}
)
