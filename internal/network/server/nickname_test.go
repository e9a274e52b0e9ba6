package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateNickname(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		name := GenerateNickname()
		assert.NotEmpty(t, name)
		seen[name] = true
	}

	// With the numeric suffix collisions should be rare across 50 draws.
	assert.Greater(t, len(seen), 40)
}
