package geo

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIPAPIServer(t *testing.T, hits *int32, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestResolveSuccess(t *testing.T) {
	var hits int32
	srv := newIPAPIServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/8.8.8.8", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","country":"United States","city":"Mountain View"}`))
	})

	r := NewIPAPIResolver(srv.URL, 0)
	loc := r.Resolve(context.Background(), "8.8.8.8", time.Second)

	assert.Equal(t, Location{Country: "United States", City: "Mountain View"}, loc)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestResolvePrivateAndInvalidSkipLookup(t *testing.T) {
	var hits int32
	srv := newIPAPIServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r := NewIPAPIResolver(srv.URL, 0)

	for _, ip := range []string{"", "not-an-ip", "127.0.0.1", "10.1.2.3", "192.168.0.8:5050", "[::1]:80", "fe80::1"} {
		assert.Equal(t, Unknown(), r.Resolve(context.Background(), ip, time.Second), ip)
	}
	assert.EqualValues(t, 0, atomic.LoadInt32(&hits))
}

func TestResolveTimeoutFallsBack(t *testing.T) {
	var hits int32
	srv := newIPAPIServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte(`{"status":"success","country":"Late","city":"Late"}`))
	})
	r := NewIPAPIResolver(srv.URL, 0)

	start := time.Now()
	loc := r.Resolve(context.Background(), "1.1.1.1", 50*time.Millisecond)

	assert.Equal(t, Unknown(), loc)
	assert.Less(t, time.Since(start), 400*time.Millisecond)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestResolveServerErrorFallsBack(t *testing.T) {
	var hits int32
	srv := newIPAPIServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	r := NewIPAPIResolver(srv.URL, 0)

	assert.Equal(t, Unknown(), r.Resolve(context.Background(), "1.1.1.1", time.Second))
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits), "no retry")
}

func TestResolveFailStatusFallsBack(t *testing.T) {
	var hits int32
	srv := newIPAPIServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"fail","message":"reserved range"}`))
	})
	r := NewIPAPIResolver(srv.URL, 0)

	assert.Equal(t, Unknown(), r.Resolve(context.Background(), "1.1.1.1", time.Second))
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits int32
	srv := newIPAPIServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	r := NewIPAPIResolver(srv.URL, 0)

	for i := 0; i < 8; i++ {
		assert.Equal(t, Unknown(), r.Resolve(context.Background(), "1.1.1.1", time.Second))
	}
	assert.EqualValues(t, 5, atomic.LoadInt32(&hits))
}

func TestRateLimitedFallsBack(t *testing.T) {
	var hits int32
	srv := newIPAPIServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","country":"X","city":"Y"}`))
	})
	r := NewIPAPIResolver(srv.URL, 1)

	assert.True(t, r.Resolve(context.Background(), "1.1.1.1", time.Second).Known())
	assert.Equal(t, Unknown(), r.Resolve(context.Background(), "1.1.1.1", time.Second))
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

type countingResolver struct {
	calls int
	loc   Location
}

func (c *countingResolver) Resolve(_ context.Context, _ string, _ time.Duration) Location {
	c.calls++
	return c.loc
}

func TestCachedResolver(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	inner := &countingResolver{loc: Location{Country: "Ireland", City: "Dublin"}}
	c := NewCachedResolver(inner, rdb, time.Hour)

	first := c.Resolve(context.Background(), "8.8.4.4", time.Second)
	second := c.Resolve(context.Background(), "8.8.4.4", time.Second)

	assert.Equal(t, inner.loc, first)
	assert.Equal(t, inner.loc, second)
	assert.Equal(t, 1, inner.calls)
	require.True(t, mr.Exists("geo:location:8.8.4.4"))
}

func TestCachedResolverSkipsUnknown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	inner := &countingResolver{loc: Unknown()}
	c := NewCachedResolver(inner, rdb, time.Hour)

	c.Resolve(context.Background(), "8.8.4.4", time.Second)
	c.Resolve(context.Background(), "8.8.4.4", time.Second)

	assert.Equal(t, 2, inner.calls)
	assert.False(t, mr.Exists("geo:location:8.8.4.4"))
}

// 接受连接但从不应答的 redis
func newStalledRedis(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, conn := range conns {
			_ = conn.Close()
		}
	})
	return ln.Addr().String()
}

func TestCachedResolverStaysWithinTimeout(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:                  newStalledRedis(t),
		ContextTimeoutEnabled: true,
		MaxRetries:            -1,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	inner := &countingResolver{loc: Location{Country: "Ireland", City: "Cork"}}
	c := NewCachedResolver(inner, rdb, time.Hour)

	start := time.Now()
	c.Resolve(context.Background(), "8.8.4.4", 100*time.Millisecond)
	assert.Less(t, time.Since(start), time.Second)
}

