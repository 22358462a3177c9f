package es

import (
	"Abode/internal/pkg/query"
	"testing"

	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToESQueryEmptyMatchesAll(t *testing.T) {
	q, err := ToESQuery(query.PropertySchema, query.All())
	require.NoError(t, err)
	assert.NotNil(t, q.MatchAll)
}

func TestToESQueryGroup(t *testing.T) {
	p := query.All(
		query.Eq("status", "sale"),
		query.In("county", []string{"Dublin", "Cork"}),
		query.Gte("price", 250000),
		query.AnyOf(query.Like("title", "garden"), query.Like("description", "garden")),
	)

	q, err := ToESQuery(query.PropertySchema, p)
	require.NoError(t, err)
	require.NotNil(t, q.Bool)
	require.Len(t, q.Bool.Must, 4)

	assert.Equal(t, "sale", q.Bool.Must[0].Term["status"].Value)

	require.NotNil(t, q.Bool.Must[1].Terms)
	assert.Equal(t, []types.FieldValue{"Dublin", "Cork"}, q.Bool.Must[1].Terms.TermsQuery["county"])

	rq, ok := q.Bool.Must[2].Range["price"].(types.NumberRangeQuery)
	require.True(t, ok)
	require.NotNil(t, rq.Gte)
	assert.Equal(t, types.Float64(250000), *rq.Gte)
	assert.Nil(t, rq.Lte)

	or := q.Bool.Must[3].Bool
	require.NotNil(t, or)
	require.Len(t, or.Should, 2)
	assert.Equal(t, "garden", or.Should[0].Match["title"].Query)
	assert.Equal(t, 1, or.MinimumShouldMatch)
}

func TestToESQuerySingleItemGroupUnwraps(t *testing.T) {
	q, err := ToESQuery(query.PropertySchema, query.All(query.Like("city", "Gal")))
	require.NoError(t, err)
	require.NotNil(t, q.Wildcard)
	assert.Equal(t, "*Gal*", *q.Wildcard["city"].Value)
}

func TestToESQueryRejects(t *testing.T) {
	_, err := ToESQuery(query.PropertySchema, query.Eq("agent_secret", 1))
	assert.ErrorIs(t, err, query.ErrUnknownField)

	_, err = ToESQuery(query.PropertySchema, query.Gte("price", "cheap"))
	assert.ErrorIs(t, err, query.ErrInvalidValue)
}
