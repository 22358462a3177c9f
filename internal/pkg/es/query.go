package es

import (
	"Abode/internal/pkg/query"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

// ToESQuery 将类型化条件编译为 ES 查询，文本字段走 match，其余走 filter
func ToESQuery(schema query.Schema, p query.Predicate) (*types.Query, error) {
	if query.IsEmpty(p) {
		return &types.Query{MatchAll: &types.MatchAllQuery{}}, nil
	}
	return compile(schema, p)
}

func compile(schema query.Schema, p query.Predicate) (*types.Query, error) {
	switch v := p.(type) {
	case query.Clause:
		return compileClause(schema, v)
	case query.Group:
		items := make([]types.Query, 0, len(v.Items))
		for _, item := range v.Items {
			if query.IsEmpty(item) {
				continue
			}
			q, err := compile(schema, item)
			if err != nil {
				return nil, err
			}
			items = append(items, *q)
		}
		if len(items) == 1 {
			return &items[0], nil
		}
		switch v.Join {
		case query.Or:
			return &types.Query{Bool: &types.BoolQuery{Should: items, MinimumShouldMatch: 1}}, nil
		case query.And, "":
			return &types.Query{Bool: &types.BoolQuery{Must: items}}, nil
		default:
			return nil, fmt.Errorf("%w: join %s", query.ErrUnsupportedOp, v.Join)
		}
	default:
		return nil, fmt.Errorf("%w: %T", query.ErrUnsupportedOp, p)
	}
}

func compileClause(schema query.Schema, c query.Clause) (*types.Query, error) {
	f, err := schema.Lookup(c)
	if err != nil {
		return nil, err
	}

	switch c.Op {
	case query.OpEq:
		return &types.Query{Term: map[string]types.TermQuery{f.ESField: {Value: c.Value}}}, nil
	case query.OpIn:
		raw := query.Values(c.Value)
		values := make([]types.FieldValue, len(raw))
		for i, v := range raw {
			values[i] = v
		}
		return &types.Query{Terms: &types.TermsQuery{
			TermsQuery: map[string]types.TermsQueryField{f.ESField: values},
		}}, nil
	case query.OpGte, query.OpLte:
		n, ok := toFloat(c.Value)
		if !ok {
			return nil, fmt.Errorf("%w: %s needs a number", query.ErrInvalidValue, c.Field)
		}
		bound := types.Float64(n)
		rq := types.NumberRangeQuery{}
		if c.Op == query.OpGte {
			rq.Gte = &bound
		} else {
			rq.Lte = &bound
		}
		return &types.Query{Range: map[string]types.RangeQuery{f.ESField: rq}}, nil
	default:
		text := c.Value.(string)
		if f.Text {
			return &types.Query{Match: map[string]types.MatchQuery{f.ESField: {Query: text}}}, nil
		}
		pattern := "*" + text + "*"
		return &types.Query{Wildcard: map[string]types.WildcardQuery{f.ESField: {Value: &pattern}}}, nil
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
