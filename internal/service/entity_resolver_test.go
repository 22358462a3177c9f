package service

import (
	"Abode/internal/model"
	"Abode/internal/pkg/testutil"
	"Abode/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePreservesOrderAndDropsStale(t *testing.T) {
	db := testutil.NewTestDB(t)
	a := testutil.SeedProperty(t, db, model.Property{IsActive: true})
	b := testutil.SeedProperty(t, db, model.Property{IsActive: true})
	hidden := testutil.SeedProperty(t, db, model.Property{IsActive: false})

	r := NewEntityResolver(newRegistry(db))
	got := r.Resolve(context.Background(), model.EntityProperty, []uint64{b.ID, 999, a.ID, b.ID, hidden.ID, 0})

	assert.Equal(t, []uint64{b.ID, a.ID}, ids(got))
}

func TestResolveEmptyInputs(t *testing.T) {
	db := testutil.NewTestDB(t)
	r := NewEntityResolver(newRegistry(db))

	assert.Empty(t, r.Resolve(context.Background(), model.EntityProperty, nil))
	assert.Empty(t, r.Resolve(context.Background(), model.EntityProperty, []uint64{1, 2}))
	assert.Empty(t, r.Resolve(context.Background(), model.EntityType("user"), []uint64{1}))
}

func TestListRecentlyViewedMergesDurableAndClient(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	recent := repository.NewRecentViewRepository(db)

	var props []*model.Property
	for i := 0; i < 5; i++ {
		props = append(props, testutil.SeedProperty(t, db, model.Property{IsActive: true}))
	}
	base := time.Now().Add(-time.Hour)
	require.NoError(t, recent.Upsert(ctx, 4, model.EntityProperty, props[0].ID, base))
	require.NoError(t, recent.Upsert(ctx, 4, model.EntityProperty, props[1].ID, base.Add(time.Minute)))

	svc := NewRecentViewService(recent, NewEntityResolver(newRegistry(db)), 10)

	got := svc.ListRecentlyViewed(ctx, model.EntityProperty, 4, []uint64{props[0].ID, props[3].ID, 12345, props[2].ID}, 0)
	assert.Equal(t, []uint64{props[1].ID, props[0].ID, props[3].ID, props[2].ID}, ids(got))

	got = svc.ListRecentlyViewed(ctx, model.EntityProperty, 4, []uint64{props[3].ID}, 2)
	assert.Equal(t, []uint64{props[1].ID, props[0].ID}, ids(got))

	// 匿名只看客户端缓存
	got = svc.ListRecentlyViewed(ctx, model.EntityProperty, 0, []uint64{props[4].ID}, 0)
	assert.Equal(t, []uint64{props[4].ID}, ids(got))
}
