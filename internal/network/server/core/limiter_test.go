package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMessageRateLimiter(t *testing.T) {
	l := NewMessageRateLimiter(3)

	for i := 0; i < 3; i++ {
		assert.True(t, l.AllowMessage("c1"))
	}

	// The fourth message within the same second is rejected.
	assert.False(t, l.AllowMessage("c1"))
	assert.Equal(t, 1, l.GetWarningCount("c1"))

	// Other clients are unaffected.
	assert.True(t, l.AllowMessage("c2"))

	l.RemoveClient("c1")
	assert.Equal(t, 0, l.GetWarningCount("c1"))
	assert.True(t, l.AllowMessage("c1"))
}

func TestChatRateLimiter_SecondWindow(t *testing.T) {
	l := NewChatRateLimiter(1, 100, time.Minute)

	ok, _ := l.AllowChat("c1")
	assert.True(t, ok)

	ok, reason := l.AllowChat("c1")
	assert.False(t, ok)
	assert.NotEmpty(t, reason)

	// Cooldown keeps rejecting even fresh attempts.
	ok, reason = l.AllowChat("c1")
	assert.False(t, ok)
	assert.NotEmpty(t, reason)
}

func TestChatRateLimiter_CooldownExpires(t *testing.T) {
	l := NewChatRateLimiter(1, 100, 10*time.Millisecond)

	ok, _ := l.AllowChat("c1")
	assert.True(t, ok)
	ok, _ = l.AllowChat("c1")
	assert.False(t, ok)

	time.Sleep(1100 * time.Millisecond)

	ok, _ = l.AllowChat("c1")
	assert.True(t, ok, "chat allowed again after cooldown and window reset")
}
