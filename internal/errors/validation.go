package errors

// ErrValidation matches every input validation failure.
var ErrValidation = &DomainError{
	Code:    "VALIDATION_FAILED",
	Message: "validation failed",
}

// Validation returns a validation failure carrying a readable message.
func Validation(message string) *DomainError {
	return &DomainError{Code: ErrValidation.Code, Message: message}
}
