package memory

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	c := New(nil)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	b, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), b)

	require.NoError(t, c.Del(ctx, "k", "absent"))
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTTLExpiry(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMock()
	c := New(clk)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 10*time.Second))

	clk.Add(9 * time.Second)
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok, "before expiry")

	clk.Add(2 * time.Second)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "after expiry")
	assert.Zero(t, c.Len(), "expired entry is evicted")
}

func TestDelByPattern(t *testing.T) {
	ctx := context.Background()
	c := New(nil)

	require.NoError(t, c.Set(ctx, "list:aaa", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "list:bbb", []byte("2"), 0))
	require.NoError(t, c.Set(ctx, "product:ccc", []byte("3"), 0))

	n, err := c.DelByPattern(ctx, "list:*")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, ok, _ := c.Get(ctx, "product:ccc")
	assert.True(t, ok, "other prefixes untouched")
	assert.Equal(t, 1, c.Len())
}

func TestGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c := New(nil)

	require.NoError(t, c.Set(ctx, "k", []byte("abc"), 0))
	b, _, _ := c.Get(ctx, "k")
	b[0] = 'X'

	b2, _, _ := c.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), b2, "stored value is not aliased")
}
