package cache

import "fmt"

type EntityType string

const (
	EntityUser     EntityType = "user"
	EntityNetwork  EntityType = "network"
	EntityEarnings EntityType = "earnings"
	EntityStats    EntityType = "stats"
)

// GenerateKey creates a standardized cache key
func GenerateKey(entity EntityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entity, keyType, value)
}

// UserKey is the key of a cached user row.
func UserKey(userID uint) string {
	return GenerateKey(EntityUser, "id", userID)
}

// NetworkKey is the key of one cached network page.
func NetworkKey(userID uint, page, limit int) string {
	return fmt.Sprintf("%s:%d:%d", GenerateKey(EntityNetwork, "user", userID), page, limit)
}

// EarningsKey is the key of a cached earnings summary for a date range.
func EarningsKey(userID uint, from, to string) string {
	return fmt.Sprintf("%s:%s:%s", GenerateKey(EntityEarnings, "user", userID), from, to)
}

// StatsKey is the key of a user's cached stats.
func StatsKey(userID uint) string {
	return GenerateKey(EntityStats, "user", userID)
}

// UserReadModels returns the patterns of every read model derived from a
// user's ledger or network.
func UserReadModels(userID uint) []string {
	return []string{
		GenerateKey(EntityNetwork, "user", userID) + ":*",
		GenerateKey(EntityEarnings, "user", userID) + ":*",
		StatsKey(userID),
	}
}
