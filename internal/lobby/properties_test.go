package lobby

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProperties_CoercionDefaults(t *testing.T) {
	p := NewProperties()

	// Missing keys coerce to zero values instead of failing.
	assert.Equal(t, "", p.AsString("missing"))
	assert.Equal(t, 0, p.AsInt("missing"))
	assert.False(t, p.AsBool("missing"))
	assert.False(t, p.Has("missing"))

	p.Set("count", "42")
	p.Set("open", "true")
	p.Set("junk", "not-a-number")

	assert.Equal(t, 42, p.AsInt("count"))
	assert.True(t, p.AsBool("open"))
	assert.Equal(t, 0, p.AsInt("junk"))
	assert.False(t, p.AsBool("junk"))
	assert.True(t, p.Has("junk"))
}

func TestProperties_ObserverFiresPerKey(t *testing.T) {
	p := NewProperties()

	var changed []string
	p.SetObserver(func(key string) { changed = append(changed, key) })

	p.Set("a", "1")
	p.Set("a", "2") // overwrite still notifies
	p.Append(map[string]string{"b": "3"})

	assert.Equal(t, 3, len(changed))
	assert.Equal(t, 2, p.Len())
}

func TestProperties_ToMapIsACopy(t *testing.T) {
	p := NewProperties()
	p.Set("a", "1")

	m := p.ToMap()
	m["a"] = "mutated"

	assert.Equal(t, "1", p.AsString("a"))
}
