package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/BifrostQL-sub002/internal/cache"
)

func TestSetGetRoundTrips(t *testing.T) {
	c, err := cache.New[string, string](4)
	require.NoError(t, err)

	c.Set("books", "SELECT * FROM books")
	val, ok := c.Get("books")
	require.True(t, ok)
	assert.Equal(t, "SELECT * FROM books", val)
}

func TestGetMissReturnsZeroValue(t *testing.T) {
	c, err := cache.New[string, int](4)
	require.NoError(t, err)

	val, ok := c.Get("missing")
	assert.False(t, ok)
	assert.Zero(t, val)
}

func TestPurgeEmptiesCache(t *testing.T) {
	c, err := cache.New[string, int](4)
	require.NoError(t, err)

	c.Set("a", 1)
	require.Equal(t, 1, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestEvictsBeyondCapacity(t *testing.T) {
	c, err := cache.New[string, int](2)
	require.NoError(t, err)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	assert.LessOrEqual(t, c.Len(), 2)
}
