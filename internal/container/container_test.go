package container

import (
	"context"
	"net"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	_, err := New(context.Background())
	assert.Error(t, err)
}

func TestNew_MemoryBackend(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "k")
	t.Setenv("SESSION_BACKEND", "memory")
	t.Setenv("COOKIE_SECURE", "1")

	c, err := New(context.Background())
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.Memory)
	assert.Nil(t, c.Redis)
	assert.NotNil(t, c.Handler)
	assert.Equal(t, 12, c.Server.PageSize)
	assert.True(t, c.Server.SecureCookie)
}

func TestNew_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)

	t.Setenv("TMDB_API_KEY", "k")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("R_HOST", host)
	t.Setenv("R_PORT", port)

	c, err := New(context.Background())
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.Redis)
	assert.Nil(t, c.Memory)
}

func TestNew_UnknownBackend(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "k")
	t.Setenv("SESSION_BACKEND", "postgres")

	_, err := New(context.Background())
	assert.Error(t, err)
}
