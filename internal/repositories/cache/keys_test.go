package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "user:id:7", UserKey(7))
	assert.Equal(t, "network:user:7:2:50", NetworkKey(7, 2, 50))
	assert.Equal(t, "earnings:user:7::", EarningsKey(7, "", ""))
	assert.Equal(t, []string{
		"network:user:7:*",
		"earnings:user:7:*",
		"stats:user:7",
	}, UserReadModels(7))
}
