package kafka

import (
	"Abode/internal/pkg/es"
	"Abode/internal/pkg/query"
	"Abode/internal/pkg/redis"
	"context"
	"testing"

	"github.com/IBM/sarama"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCanalMessage(t *testing.T) {
	raw := []byte(`{"table":"view_events","type":"INSERT","ts":1700000000000,"data":[{"id":"1","entity_type":"property","entity_id":"42"}]}`)

	msg, err := ParseCanalMessage(raw, "view_events")
	require.NoError(t, err)
	assert.Equal(t, INSERT, msg.Type)
	assert.EqualValues(t, 42, StrToUint64(msg.Data[0]["entity_id"]))

	_, err = ParseCanalMessage(raw, "properties")
	assert.ErrorIs(t, err, ErrTableMismatch)

	_, err = ParseCanalMessage([]byte(`{"table":"view_events","type":"DELETE","data":[]}`), "view_events")
	assert.ErrorIs(t, err, ErrEmptyData)

	_, err = ParseCanalMessage([]byte(`not json`), "view_events")
	assert.Error(t, err)
}

func TestCanalValueHelpers(t *testing.T) {
	assert.True(t, StrToBool("1"))
	assert.False(t, StrToBool("0"))
	assert.False(t, StrToBool(nil))
	assert.Equal(t, 3, StrToInt("3"))
	assert.Equal(t, 199.5, StrToFloat("199.5"))
	assert.Equal(t, 2026, StrToDateTime("2026-03-01 10:00:00").Year())
	assert.True(t, StrToDateTime("garbage").IsZero())
}

func TestViewsHandlerMarksDirty(t *testing.T) {
	mr := miniredis.RunT(t)
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	h := NewViewsHandler()
	insert := &sarama.ConsumerMessage{Value: []byte(`{"table":"view_events","type":"INSERT","data":[
		{"entity_type":"property","entity_id":"7"},
		{"entity_type":"post","entity_id":"3"},
		{"entity_type":"unknown","entity_id":"9"}]}`)}
	require.NoError(t, h.logic(context.Background(), insert))

	props, err := mr.Members("property:dirty")
	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, props)

	posts, err := mr.Members("post:dirty")
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, posts)

	update := &sarama.ConsumerMessage{Value: []byte(`{"table":"view_events","type":"UPDATE","data":[{"entity_type":"property","entity_id":"8"}]}`)}
	require.NoError(t, h.logic(context.Background(), update))
	props, _ = mr.Members("property:dirty")
	assert.Equal(t, []string{"7"}, props)
}

type fakePropertyES struct {
	indexed map[uint64]*es.PropertyES
	deleted []uint64
}

func (f *fakePropertyES) SearchProperties(context.Context, query.Predicate, int, int) ([]*es.PropertyES, error) {
	return nil, nil
}

func (f *fakePropertyES) IndexProperty(_ context.Context, p *es.PropertyES, _ int64) error {
	f.indexed[p.ID] = p
	return nil
}

func (f *fakePropertyES) DeleteProperty(_ context.Context, id uint64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestPropertiesHandlerSync(t *testing.T) {
	fake := &fakePropertyES{indexed: map[uint64]*es.PropertyES{}}
	h := NewPropertiesHandler(fake)
	ctx := context.Background()

	insert := &sarama.ConsumerMessage{Value: []byte(`{"table":"properties","type":"INSERT","ts":10,"data":[
		{"id":"1","title":"Sea view","price":"350000","status":"sale","detail":"villa","county":"Cork","bedrooms":"4","is_active":"1","updated_at":"2026-01-02 03:04:05"},
		{"id":"2","title":"Draft","status":"rent","is_active":"0"}]}`)}
	require.NoError(t, h.logic(ctx, insert))

	require.Contains(t, fake.indexed, uint64(1))
	assert.Equal(t, "villa", fake.indexed[1].Detail)
	assert.Equal(t, 350000.0, fake.indexed[1].Price)
	assert.Equal(t, 4, fake.indexed[1].Bedrooms)
	assert.Equal(t, []uint64{2}, fake.deleted)

	// 仅浏览量变化不重建索引
	viewsOnly := &sarama.ConsumerMessage{Value: []byte(`{"table":"properties","type":"UPDATE","ts":11,"data":[
		{"id":"3","title":"Loft","is_active":"1"}],"old":[{"views_count":"9"}]}`)}
	require.NoError(t, h.logic(ctx, viewsOnly))
	assert.NotContains(t, fake.indexed, uint64(3))

	deleted := &sarama.ConsumerMessage{Value: []byte(`{"table":"properties","type":"DELETE","ts":12,"data":[{"id":"1","is_active":"1"}]}`)}
	require.NoError(t, h.logic(ctx, deleted))
	assert.Equal(t, []uint64{2, 1}, fake.deleted)
}
