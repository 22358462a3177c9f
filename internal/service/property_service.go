package service

import (
	"Abode/internal/api/dto"
	"Abode/internal/model"
	"Abode/internal/pkg/consts"
	"Abode/internal/pkg/es"
	"Abode/internal/pkg/query"
	"Abode/internal/pkg/redis"
	"Abode/internal/pkg/util"
	"Abode/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
)

const defaultSearchPageSize = 20

type PropertyService interface {
	SearchProperties(ctx context.Context, req *dto.PropertySearchDTO) (*dto.PropertyPageDTO, error)
	GetProperty(ctx context.Context, id uint64) (*dto.PropertyDTO, error)
	DeleteProperty(ctx context.Context, operatorID uint64, roles []string, id uint64) error
}

type propertyServiceImpl struct {
	propertyRepo   repository.PropertyRepo
	propertyESRepo es.PropertyRepo
	resolver       EntityResolver
	detailTTL      time.Duration
}

// NewPropertyService propertyESRepo 为空时检索直接走数据库；detailTTL 为 0 时不缓存详情
func NewPropertyService(propertyRepo repository.PropertyRepo, propertyESRepo es.PropertyRepo, resolver EntityResolver, detailTTL time.Duration) PropertyService {
	return &propertyServiceImpl{
		propertyRepo:   propertyRepo,
		propertyESRepo: propertyESRepo,
		resolver:       resolver,
		detailTTL:      detailTTL,
	}
}

// BuildPropertyPredicate 检索条件转谓词，未填写的条件不参与过滤
func BuildPropertyPredicate(req *dto.PropertySearchDTO) query.Predicate {
	if req == nil {
		return query.All()
	}

	var items []query.Predicate
	if kw := strings.TrimSpace(req.Keyword); kw != "" {
		items = append(items, query.AnyOf(query.Like("title", kw), query.Like("description", kw)))
	}
	switch len(req.Status) {
	case 0:
	case 1:
		items = append(items, query.Eq("status", req.Status[0]))
	default:
		items = append(items, query.In("status", req.Status))
	}
	if req.Detail != "" {
		items = append(items, query.Eq("detail", req.Detail))
	}
	if req.County != "" {
		items = append(items, query.Eq("county", req.County))
	}
	if req.City != "" {
		items = append(items, query.Eq("city", req.City))
	}
	if req.MinPrice != nil {
		items = append(items, query.Gte("price", *req.MinPrice))
	}
	if req.MaxPrice != nil {
		items = append(items, query.Lte("price", *req.MaxPrice))
	}
	if req.MinBedrooms != nil {
		items = append(items, query.Gte("bedrooms", *req.MinBedrooms))
	}
	return query.All(items...)
}

// SearchProperties ES 可用时走 ES 取 ID 再回表，失败回落到数据库
func (s *propertyServiceImpl) SearchProperties(ctx context.Context, req *dto.PropertySearchDTO) (*dto.PropertyPageDTO, error) {
	if req == nil {
		req = &dto.PropertySearchDTO{}
	}
	if err := util.ValidateDTO(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParamInvalid, err)
	}
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return nil, ErrParamInvalid
	}

	page, pageSize := req.Page, req.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultSearchPageSize
	}
	offset := (page - 1) * pageSize
	p := BuildPropertyPredicate(req)

	res := &dto.PropertyPageDTO{Items: []*dto.PropertyDTO{}, Page: page, PageSize: pageSize}

	if s.propertyESRepo != nil {
		docs, err := s.propertyESRepo.SearchProperties(ctx, p, offset, pageSize)
		if err == nil {
			ids := make([]uint64, len(docs))
			for i, doc := range docs {
				ids[i] = doc.ID
			}
			res.Source = consts.SourceES
			res.Items = toPropertyDTOs(s.resolver.Resolve(ctx, model.EntityProperty, ids))
			return res, nil
		}
		log.WarnContext(ctx, "es property search failed, fallback to db", "err", err)
	}

	rows, err := s.propertyRepo.SearchProperties(ctx, p, offset, pageSize)
	if err != nil {
		log.ErrorContext(ctx, "db property search failed", "err", err)
		return nil, UnExpectedError
	}
	res.Source = consts.SourceDB
	for _, row := range rows {
		res.Items = append(res.Items, toPropertyDTO(row))
	}
	return res, nil
}

// GetProperty 只返回上架房源，不记录浏览
func (s *propertyServiceImpl) GetProperty(ctx context.Context, id uint64) (*dto.PropertyDTO, error) {
	if id == 0 {
		return nil, ErrParamInvalid
	}

	key := consts.PropertyDetailKey + strconv.FormatUint(id, 10)
	if s.cacheEnabled() {
		if raw, err := redis.GetValue(ctx, key); err == nil && raw != "" {
			var cached dto.PropertyDTO
			if err = json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	property, err := s.propertyRepo.GetProperty(ctx, id)
	if err != nil {
		log.ErrorContext(ctx, "get property failed", "property_id", id, "err", err)
		return nil, UnExpectedError
	}
	if property == nil || !property.IsActive {
		return nil, ErrPropertyNotFound
	}

	out := toPropertyDTO(property)
	if s.cacheEnabled() {
		if raw, err := json.Marshal(out); err == nil {
			if err = redis.SetWithExpiration(ctx, key, raw, s.detailTTL); err != nil {
				log.WarnContext(ctx, "cache property detail failed", "property_id", id, "err", err)
			}
		}
	}
	return out, nil
}

// DeleteProperty 管理员可删除任意房源，经纪人只能删除自己的
// 浏览事件与最近浏览随房源一并删除
func (s *propertyServiceImpl) DeleteProperty(ctx context.Context, operatorID uint64, roles []string, id uint64) error {
	property, err := s.propertyRepo.GetProperty(ctx, id)
	if err != nil {
		log.ErrorContext(ctx, "get property failed", "property_id", id, "err", err)
		return UnExpectedError
	}
	if property == nil {
		return ErrPropertyNotFound
	}

	isAdmin := slices.Contains(roles, consts.RoleAdmin)
	isOwner := slices.Contains(roles, consts.RoleAgent) && property.AgentID == operatorID
	if !isAdmin && !isOwner {
		return UnauthorizedError
	}

	if err = s.propertyRepo.Delete(ctx, id); err != nil {
		log.ErrorContext(ctx, "delete property failed", "property_id", id, "err", err)
		return UnExpectedError
	}

	if s.propertyESRepo != nil {
		if err = s.propertyESRepo.DeleteProperty(ctx, id); err != nil {
			log.WarnContext(ctx, "delete property doc failed", "property_id", id, "err", err)
		}
	}
	if s.cacheEnabled() {
		_ = redis.DeleteKey(ctx, consts.PropertyDetailKey+strconv.FormatUint(id, 10))
	}

	log.InfoContext(ctx, "property deleted", "property_id", id, "operator_id", operatorID)
	return nil
}

func (s *propertyServiceImpl) cacheEnabled() bool {
	return s.detailTTL > 0 && redis.GetRdbClient() != nil
}

func toPropertyDTO(p *model.Property) *dto.PropertyDTO {
	out := &dto.PropertyDTO{}
	_ = copier.Copy(out, p)
	return out
}

func toPropertyDTOs(items []model.Trackable) []*dto.PropertyDTO {
	res := make([]*dto.PropertyDTO, 0, len(items))
	for _, item := range items {
		if p, ok := item.(*model.Property); ok {
			res = append(res, toPropertyDTO(p))
		}
	}
	return res
}
