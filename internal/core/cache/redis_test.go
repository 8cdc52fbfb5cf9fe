package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

type fixture struct {
	Name string `json:"name"`
}

func TestGetOrLoad_CachesValue(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	var calls int32
	load := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("payload"), nil
	}

	b, err := c.GetOrLoad(ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(b))

	b, err = c.GetOrLoad(ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(b))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	got, err := mr.Get("cms:k")
	require.NoError(t, err)
	assert.Equal(t, "payload", got)
	assert.Equal(t, time.Minute, mr.TTL("cms:k"))
}

func TestGetOrLoad_ErrorNotCached(t *testing.T) {
	c, mr := setupCache(t)
	boom := errors.New("boom")

	_, err := c.GetOrLoad(context.Background(), "k", time.Minute, func(context.Context) ([]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("cms:k"))
}

func TestGetOrLoad_ConcurrentMissesShareLoad(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	var calls int32
	release := make(chan struct{})
	load := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []byte("v"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := c.GetOrLoad(ctx, "hot", time.Minute, load)
			assert.NoError(t, err)
			assert.Equal(t, "v", string(b))
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(8))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
}

func TestGenerationAndBump(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	gen, err := c.Generation(ctx, "news")
	require.NoError(t, err)
	assert.EqualValues(t, 0, gen)
	assert.Equal(t, "news:v0:list:p1", c.VersionedKey(ctx, "news", "list", "p1"))

	require.NoError(t, c.Bump(ctx, "news"))
	require.NoError(t, c.Bump(ctx, "news"))
	gen, err = c.Generation(ctx, "news")
	require.NoError(t, err)
	assert.EqualValues(t, 2, gen)
	assert.Equal(t, "news:v2:list:p1", c.VersionedKey(ctx, "news", "list", "p1"))

	gen, err = c.Generation(ctx, "matches")
	require.NoError(t, err)
	assert.EqualValues(t, 0, gen)
}

func TestVersionedKey_EscapesParts(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	a := c.VersionedKey(ctx, "matches", "list", "Cup", "y:Rivals")
	b := c.VersionedKey(ctx, "matches", "list", "Cup:y", "Rivals")
	assert.NotEqual(t, a, b)
	assert.Equal(t, "matches:v0:list:Cup:y%3ARivals", a)
}

func TestGeneration_RedisDownSkipsCache(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	load := func(v string) func(context.Context) ([]byte, error) {
		return func(context.Context) ([]byte, error) { return []byte(v), nil }
	}
	b, err := c.GetOrLoad(ctx, c.VersionedKey(ctx, "news", "list"), time.Minute, load("old"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(b))

	mr.SetError("LOADING")
	_, err = c.Generation(ctx, "news")
	assert.Error(t, err)
	key := c.VersionedKey(ctx, "news", "list")
	assert.Empty(t, key)
	mr.SetError("")

	b, err = c.GetOrLoad(ctx, key, time.Minute, load("fresh"))
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(b))
	assert.False(t, mr.Exists("cms:"))
}

func TestGetOrLoadJSON(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	var calls int
	load := func(context.Context) (*fixture, error) {
		calls++
		return &fixture{Name: "derby"}, nil
	}

	for i := 0; i < 3; i++ {
		v, err := GetOrLoadJSON(c, ctx, "fx", time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, "derby", v.Name)
	}
	assert.Equal(t, 1, calls)

	v, err := GetOrLoadJSON(c, ctx, "nil", time.Minute, func(context.Context) (*fixture, error) { return nil, nil })
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestPassThrough(t *testing.T) {
	c := New("", "", 0)
	ctx := context.Background()
	assert.False(t, c.Enabled())
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Bump(ctx, "news"))
	gen, err := c.Generation(ctx, "news")
	assert.NoError(t, err)
	assert.EqualValues(t, 0, gen)

	var calls int
	for i := 0; i < 2; i++ {
		v, err := GetOrLoadJSON(c, ctx, "fx", time.Minute, func(context.Context) (*fixture, error) {
			calls++
			return &fixture{Name: "live"}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "live", v.Name)
	}
	assert.Equal(t, 2, calls)
	assert.NoError(t, c.Close())
}
