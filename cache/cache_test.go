package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := newRedisCache([]string{mr.Addr()}, false)
	require.NoError(t, err)
	return c
}

func TestCacheSetGetDelete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	type entry struct {
		Name  string
		Score int
	}

	err := c.Set(ctx, "application:1", &entry{Name: "kyc", Score: 92}, time.Minute)
	require.NoError(t, err)

	var got entry
	err = c.Get(ctx, "application:1", &got)
	require.NoError(t, err)
	assert.Equal(t, "kyc", got.Name)
	assert.Equal(t, 92, got.Score)

	err = c.Delete(ctx, "application:1")
	require.NoError(t, err)
}

func TestCacheMissIsNotAnError(t *testing.T) {
	c := newTestCache(t)

	var got string
	err := c.Get(context.Background(), "missing", &got)
	assert.NoError(t, err)
	assert.Empty(t, got)
}
