package es

import (
	"Abode/internal/pkg/query"
	"context"
	"errors"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
	"github.com/goccy/go-json"
)

const MaxSearchDepth = 400

type PropertyRepo interface {
	SearchProperties(ctx context.Context, p query.Predicate, from, size int) ([]*PropertyES, error)
	IndexProperty(ctx context.Context, property *PropertyES, version int64) error
	DeleteProperty(ctx context.Context, id uint64) error
}

type PropertyRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewPropertyRepo(client *elasticsearch.TypedClient) PropertyRepo {
	return &PropertyRepoImpl{client: client}
}

// SearchProperties 只返回上架房源，按相关度再按更新时间排序
func (s *PropertyRepoImpl) SearchProperties(ctx context.Context, p query.Predicate, from, size int) ([]*PropertyES, error) {
	if from >= MaxSearchDepth {
		return []*PropertyES{}, nil
	}

	q, err := ToESQuery(query.PropertySchema, p)
	if err != nil {
		return nil, err
	}

	req := s.client.Search().Index(PropertyIndex).
		Query(&types.Query{
			Bool: &types.BoolQuery{
				Must: []types.Query{*q},
				Filter: []types.Query{
					{Term: map[string]types.TermQuery{"is_active": {Value: true}}},
				},
			},
		}).
		Sort(
			types.SortOptions{Score_: &types.ScoreSort{Order: &sortorder.Desc}},
			types.SortOptions{SortOptions: map[string]types.FieldSort{"updated_at": {Order: &sortorder.Desc}}},
		).
		From(from).
		Size(size)

	return s.executeSearch(ctx, req)
}

// IndexProperty 外部版本号写入，旧版本冲突直接忽略
func (s *PropertyRepoImpl) IndexProperty(ctx context.Context, property *PropertyES, version int64) error {
	docID := strconv.FormatUint(property.ID, 10)

	_, err := s.client.Index(PropertyIndex).
		Id(docID).
		Document(property).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == ConflictCode {
			return nil
		}
		return err
	}

	return nil
}

func (s *PropertyRepoImpl) DeleteProperty(ctx context.Context, id uint64) error {
	_, err := s.client.Delete(PropertyIndex, strconv.FormatUint(id, 10)).Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == NotFoundCode {
			return nil
		}
		return err
	}

	return nil
}

func (s *PropertyRepoImpl) executeSearch(ctx context.Context, req *search.Search) ([]*PropertyES, error) {
	resp, err := req.Do(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*PropertyES, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var property PropertyES
		if err = json.Unmarshal(hit.Source_, &property); err != nil {
			continue
		}
		results = append(results, &property)
	}
	return results, nil
}
