package core

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func requestWithOrigin(origin string) *http.Request {
	r, _ := http.NewRequest(http.MethodGet, "/ws", nil)
	if origin != "" {
		r.Header.Set("Origin", origin)
	}
	return r
}

func TestOriginChecker(t *testing.T) {
	oc := NewOriginChecker([]string{"https://example.com"})

	assert.True(t, oc.Check(requestWithOrigin("https://example.com")))
	assert.True(t, oc.Check(requestWithOrigin("HTTPS://EXAMPLE.COM")))
	assert.False(t, oc.Check(requestWithOrigin("https://evil.com")))

	// No Origin header means same-origin or a native client.
	assert.True(t, oc.Check(requestWithOrigin("")))
}

func TestOriginChecker_Wildcard(t *testing.T) {
	oc := NewOriginChecker([]string{"*"})
	assert.True(t, oc.Check(requestWithOrigin("https://anything.example")))
}
