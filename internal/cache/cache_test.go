package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	c := New(true)
	defer c.Close()

	etag := c.Set("standings:A", []byte(`{"rows":[]}`), time.Minute)
	data, got, ok := c.Get("standings:A")
	require.True(t, ok)
	assert.Equal(t, etag, got)
	assert.JSONEq(t, `{"rows":[]}`, string(data))
}

func TestExpiredEntryMisses(t *testing.T) {
	c := New(true)
	defer c.Close()

	c.Set("k", []byte("v"), -time.Second)
	_, _, ok := c.Get("k")
	assert.False(t, ok)

	c.evict()
	assert.Equal(t, 0, c.Stats()["total_keys"])
}

func TestDisabledCache(t *testing.T) {
	c := New(false)
	etag := c.Set("k", []byte("v"), time.Minute)
	assert.NotEmpty(t, etag)
	_, _, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.InvalidatePrefix(""))
}

func TestInvalidatePrefix(t *testing.T) {
	c := New(true)
	defer c.Close()

	c.Set("group:A:standings", []byte("1"), time.Minute)
	c.Set("group:A:forecast", []byte("2"), time.Minute)
	c.Set("group:B:standings", []byte("3"), time.Minute)

	assert.Equal(t, 2, c.InvalidatePrefix("group:A:"))
	_, _, ok := c.Get("group:B:standings")
	assert.True(t, ok)

	assert.Equal(t, 1, c.InvalidatePrefix(""))
	assert.Equal(t, 0, c.Stats()["total_keys"])
}

func TestETag(t *testing.T) {
	a := ComputeETag([]byte("alpha"))
	assert.Equal(t, a, ComputeETag([]byte("alpha")))
	assert.NotEqual(t, a, ComputeETag([]byte("beta")))

	assert.False(t, CheckETagMatch("", a))
	assert.True(t, CheckETagMatch("*", a))
	assert.True(t, CheckETagMatch(a, a))
	assert.True(t, CheckETagMatch(`W/"0000", `+a, a))
	assert.False(t, CheckETagMatch(`W/"0000"`, a))
}
