package job

import (
	"Abode/internal/model"
	"Abode/internal/pkg/consts"
	"Abode/internal/pkg/redis"
	"Abode/internal/pkg/testutil"
	"Abode/internal/repository"
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	prev := redis.Rdb
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = redis.Rdb.Close()
		redis.Rdb = prev
	})
	return mr
}

func idStr(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func TestViewCountJobFlushesDirtyEntities(t *testing.T) {
	mr := setupRedis(t)
	db := testutil.NewTestDB(t)
	now := time.Now()

	a := testutil.SeedProperty(t, db, model.Property{IsActive: true})
	b := testutil.SeedProperty(t, db, model.Property{IsActive: true})
	untouched := testutil.SeedProperty(t, db, model.Property{IsActive: true})
	post := testutil.SeedPost(t, db, model.Post{Published: true, Category: "news"})
	testutil.SeedViews(t, db, model.EntityProperty, a.ID, 3, now)
	testutil.SeedViews(t, db, model.EntityProperty, untouched.ID, 4, now)
	testutil.SeedViews(t, db, model.EntityPost, post.ID, 2, now)

	_, err := mr.SAdd(consts.PropertyDirtyKey, idStr(a.ID), idStr(b.ID), "bogus")
	require.NoError(t, err)
	_, err = mr.SAdd(consts.PostDirtyKey, idStr(post.ID))
	require.NoError(t, err)

	registry := repository.NewEntityRegistry(repository.NewPropertyRepository(db), repository.NewPostRepository(db))
	NewViewCountJob(registry, repository.NewViewEventRepository(db)).Run()

	viewsCount := func(id uint64) int64 {
		var got model.Property
		require.NoError(t, db.First(&got, id).Error)
		return got.ViewsCount
	}
	assert.EqualValues(t, 3, viewsCount(a.ID))
	assert.EqualValues(t, 0, viewsCount(b.ID))
	assert.EqualValues(t, 0, viewsCount(untouched.ID))

	var gotPost model.Post
	require.NoError(t, db.First(&gotPost, post.ID).Error)
	assert.EqualValues(t, 2, gotPost.ViewsCount)

	assert.False(t, mr.Exists(consts.PropertyDirtyKey))
	assert.False(t, mr.Exists(consts.PropertyDirtyKey+":processing"))
	assert.False(t, mr.Exists(consts.ViewCountJobLock))
}

func TestViewCountJobKeepsUpdatedAt(t *testing.T) {
	mr := setupRedis(t)
	db := testutil.NewTestDB(t)
	updated := time.Now().Add(-48 * time.Hour)
	p := testutil.SeedProperty(t, db, model.Property{IsActive: true, UpdatedAt: updated})
	testutil.SeedViews(t, db, model.EntityProperty, p.ID, 1, time.Now())
	_, err := mr.SAdd(consts.PropertyDirtyKey, idStr(p.ID))
	require.NoError(t, err)

	registry := repository.NewEntityRegistry(repository.NewPropertyRepository(db))
	NewViewCountJob(registry, repository.NewViewEventRepository(db)).Run()

	var got model.Property
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.EqualValues(t, 1, got.ViewsCount)
	assert.WithinDuration(t, updated, got.UpdatedAt, time.Second)
}

func TestViewCountJobResumesLeftoverProcessingSet(t *testing.T) {
	mr := setupRedis(t)
	db := testutil.NewTestDB(t)
	p := testutil.SeedProperty(t, db, model.Property{IsActive: true})
	testutil.SeedViews(t, db, model.EntityProperty, p.ID, 2, time.Now())

	_, err := mr.SAdd(consts.PropertyDirtyKey+":processing", idStr(p.ID))
	require.NoError(t, err)
	_, err = mr.SAdd(consts.PropertyDirtyKey, "77")
	require.NoError(t, err)

	registry := repository.NewEntityRegistry(repository.NewPropertyRepository(db))
	NewViewCountJob(registry, repository.NewViewEventRepository(db)).Run()

	var got model.Property
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.EqualValues(t, 2, got.ViewsCount)
	// 新的脏集合留给下一轮
	assert.True(t, mr.Exists(consts.PropertyDirtyKey))
}

func TestViewCountJobSkipsWhenLocked(t *testing.T) {
	mr := setupRedis(t)
	db := testutil.NewTestDB(t)
	p := testutil.SeedProperty(t, db, model.Property{IsActive: true})
	_, err := mr.SAdd(consts.PropertyDirtyKey, idStr(p.ID))
	require.NoError(t, err)
	require.NoError(t, mr.Set(consts.ViewCountJobLock, "other"))

	registry := repository.NewEntityRegistry(repository.NewPropertyRepository(db))
	NewViewCountJob(registry, repository.NewViewEventRepository(db)).Run()

	assert.True(t, mr.Exists(consts.PropertyDirtyKey))
}

func TestRecencyPruneJob(t *testing.T) {
	setupRedis(t)
	db := testutil.NewTestDB(t)
	repo := repository.NewRecentViewRepository(db)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Upsert(ctx, 1, model.EntityProperty, 10, now.Add(-100*24*time.Hour)))
	require.NoError(t, repo.Upsert(ctx, 1, model.EntityProperty, 11, now.Add(-time.Hour)))

	j := NewRecencyPruneJob(repo, 90)
	j.now = func() time.Time { return now }
	j.Run()

	got, err := repo.ListRecent(ctx, 1, model.EntityProperty, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint64{11}, got)
}
