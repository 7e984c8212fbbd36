package session

import (
	"context"
	"testing"
	"time"

	"moviebrowse/internal/pagination"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, 12, 30*time.Minute, quietLogger())
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	require.NoError(t, s.Update(ctx, "abc", nil, func(c *pagination.Controller) error {
		return c.ReplaceResults(records(14))
	}))
	require.NoError(t, s.Update(ctx, "abc", nil, func(c *pagination.Controller) error {
		return c.GoToPage(+1)
	}))

	var st pagination.State
	var visible int
	require.NoError(t, s.Update(ctx, "abc", nil, func(c *pagination.Controller) error {
		st = c.State()
		start, end := pagination.Bounds(st.CurrentPage, st.PageSize, st.TotalItems)
		visible = end - start
		return nil
	}))
	assert.Equal(t, 2, st.CurrentPage)
	assert.Equal(t, 2, visible)

	assert.True(t, mr.Exists(viewKeyPrefix+"abc"))
	assert.Equal(t, 30*time.Minute, mr.TTL(viewKeyPrefix+"abc"))
}

func TestRedisStore_ExpiredViewStartsFresh(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	require.NoError(t, s.Update(ctx, "abc", nil, func(c *pagination.Controller) error {
		return c.ReplaceResults(records(3))
	}))
	mr.FastForward(31 * time.Minute)

	var total int
	require.NoError(t, s.Update(ctx, "abc", nil, func(c *pagination.Controller) error {
		total = c.State().TotalItems
		return nil
	}))
	assert.Zero(t, total)
}

func TestRedisStore_UnreadableSnapshotIsReset(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)
	require.NoError(t, mr.Set(viewKeyPrefix+"bad", "{not json"))

	var total int
	require.NoError(t, s.Update(ctx, "bad", nil, func(c *pagination.Controller) error {
		total = c.State().TotalItems
		return nil
	}))
	assert.Zero(t, total)
}

func TestRedisStore_StaleGenerationDropped(t *testing.T) {
	ctx := context.Background()
	s, _ := newRedisStore(t)

	var slow, fast uint64
	require.NoError(t, s.Update(ctx, "v", nil, func(c *pagination.Controller) error {
		slow = c.Begin()
		return nil
	}))
	require.NoError(t, s.Update(ctx, "v", nil, func(c *pagination.Controller) error {
		fast = c.Begin()
		return nil
	}))

	var applied bool
	require.NoError(t, s.Update(ctx, "v", nil, func(c *pagination.Controller) error {
		var err error
		applied, err = c.Apply(fast, pagination.Origin{}, records(4))
		return err
	}))
	assert.True(t, applied)

	require.NoError(t, s.Update(ctx, "v", nil, func(c *pagination.Controller) error {
		var err error
		applied, err = c.Apply(slow, pagination.Origin{}, records(30))
		return err
	}))
	assert.False(t, applied)
}

func TestRedisStore_ServerDown(t *testing.T) {
	s, mr := newRedisStore(t)
	mr.Close()

	err := s.Update(context.Background(), "v", nil, func(c *pagination.Controller) error {
		return nil
	})
	assert.Error(t, err)
}

func TestRedisStore_KeepsOrigin(t *testing.T) {
	ctx := context.Background()
	s, _ := newRedisStore(t)

	require.NoError(t, s.Update(ctx, "v", nil, func(c *pagination.Controller) error {
		_, err := c.Apply(c.Begin(), pagination.Origin{Source: "search", Query: "alien"}, records(3))
		return err
	}))

	var origin pagination.Origin
	var gen uint64
	require.NoError(t, s.Update(ctx, "v", nil, func(c *pagination.Controller) error {
		origin = c.Origin()
		gen = c.Generation()
		return nil
	}))
	assert.Equal(t, pagination.Origin{Source: "search", Query: "alien"}, origin)
	assert.Equal(t, uint64(1), gen)
}
