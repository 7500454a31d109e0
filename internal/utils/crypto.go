package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateReferralCode returns an 8 character uppercase code taken from a
// random uuid. Collisions are possible and must be retried by the caller.
func GenerateReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// GenerateTxHash returns a 0x-prefixed identifier for an internal transfer.
func GenerateTxHash() string {
	return "0x" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
