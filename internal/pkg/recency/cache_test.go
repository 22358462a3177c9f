package recency

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTouchMovesExistingToFront(t *testing.T) {
	ctx := context.Background()
	c := NewCache(NewMemoryStorage(), "recent_views:property", 10)

	require.NoError(t, c.Touch(ctx, 1))
	require.NoError(t, c.Touch(ctx, 2))
	require.NoError(t, c.Touch(ctx, 1))

	assert.Equal(t, []uint64{1, 2}, c.List(ctx))
}

func TestTouchEvictsOldest(t *testing.T) {
	ctx := context.Background()
	c := NewCache(NewMemoryStorage(), "k", 10)

	for id := uint64(1); id <= 11; id++ {
		require.NoError(t, c.Touch(ctx, id))
	}

	ids := c.List(ctx)
	require.Len(t, ids, 10)
	assert.Equal(t, []uint64{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}, ids)
}

func TestTouchSameIDTwiceKeepsOne(t *testing.T) {
	ctx := context.Background()
	c := NewCache(NewMemoryStorage(), "k", 0)

	require.NoError(t, c.Touch(ctx, 7))
	require.NoError(t, c.Touch(ctx, 7))

	assert.Equal(t, []uint64{7}, c.List(ctx))
}

func TestCorruptPayloadReadsEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	require.NoError(t, store.Set(ctx, "k", []byte("{not json")))
	c := NewCache(store, "k", 10)

	assert.Empty(t, c.List(ctx))

	require.NoError(t, c.Touch(ctx, 3))
	assert.Equal(t, []uint64{3}, c.List(ctx))
}

func TestListDropsDuplicatesAndZero(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	require.NoError(t, store.Set(ctx, "k", []byte("[4,0,4,5]")))

	assert.Equal(t, []uint64{4, 5}, NewCache(store, "k", 10).List(ctx))
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	c := NewCache(NewMemoryStorage(), "k", 10)
	require.NoError(t, c.Touch(ctx, 1))
	require.NoError(t, c.Clear(ctx))
	assert.Empty(t, c.List(ctx))
}

func TestRedisStorage(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewCache(NewRedisStorage(rdb, time.Hour), "client-1:property", 10)

	assert.Empty(t, c.List(ctx))
	require.NoError(t, c.Touch(ctx, 9))
	require.NoError(t, c.Touch(ctx, 8))

	assert.Equal(t, []uint64{8, 9}, c.List(ctx))
	assert.True(t, mr.Exists("recency:client:client-1:property"))
	assert.Equal(t, time.Hour, mr.TTL("recency:client:client-1:property"))
}

func TestSessionStorageRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("abode_session", cookie.NewStore([]byte("test-secret"))))
	r.POST("/touch/:id", func(ctx *gin.Context) {
		id, _ := strconv.ParseUint(ctx.Param("id"), 10, 64)
		c := NewCache(NewSessionStorage(sessions.Default(ctx)), "recent_views:property", 10)
		_ = c.Touch(ctx.Request.Context(), id)
		ctx.Status(http.StatusNoContent)
	})
	r.GET("/list", func(ctx *gin.Context) {
		c := NewCache(NewSessionStorage(sessions.Default(ctx)), "recent_views:property", 10)
		ctx.JSON(http.StatusOK, c.List(ctx.Request.Context()))
	})

	var cookies []*http.Cookie
	for _, id := range []string{"1", "2", "1"} {
		req := httptest.NewRequest(http.MethodPost, "/touch/"+id, nil)
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusNoContent, w.Code)
		if fresh := w.Result().Cookies(); len(fresh) > 0 {
			cookies = fresh
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/list", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var ids []uint64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ids))
	assert.Equal(t, []uint64{1, 2}, ids)
}
