package kafka

import (
	"Abode/internal/model"
	"Abode/internal/pkg/es"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// searchFields 影响检索结果的字段，其余字段变更（如 views_count）不重建索引
var searchFields = []string{
	"title", "description", "price", "status", "detail", "county", "city",
	"bedrooms", "bathrooms", "area", "is_active", "agent_id",
}

// PropertiesHandler 房源变更同步到 ES，下架或删除时移出索引
type PropertiesHandler struct {
	propertyESRepo es.PropertyRepo
}

func NewPropertiesHandler(propertyESRepo es.PropertyRepo) *PropertiesHandler {
	return &PropertiesHandler{propertyESRepo: propertyESRepo}
}

func (s *PropertiesHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("property consumer setup")
	return nil
}

func (s *PropertiesHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("property consumer cleanup")
	return nil
}

func (s *PropertiesHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-property consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-property process batch error", "err", err)
		return err
	}
	return nil
}

func (s *PropertiesHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, model.Property{}.TableName())
	if err != nil {
		return err
	}
	return s.sync(ctx, canalMsg)
}

func (s *PropertiesHandler) sync(ctx context.Context, msg *CanalMessage) error {
	for i, row := range msg.Data {
		id := StrToUint64(row["id"])
		if id == 0 {
			continue
		}

		if msg.Type == DELETE || !StrToBool(row["is_active"]) {
			if err := s.propertyESRepo.DeleteProperty(ctx, id); err != nil {
				return err
			}
			log.InfoContext(ctx, "property removed from index", "id", id, "type", msg.Type)
			continue
		}

		if msg.Type != INSERT && msg.Type != UPDATE {
			continue
		}
		if !msg.Changed(i, searchFields...) {
			continue
		}

		if err := s.propertyESRepo.IndexProperty(ctx, toPropertyES(row), msg.TS); err != nil {
			return err
		}
		log.InfoContext(ctx, "property indexed", "id", id, "type", msg.Type)
	}
	return nil
}

func toPropertyES(row map[string]interface{}) *es.PropertyES {
	return es.NewPropertyES(&model.Property{
		ID:          StrToUint64(row["id"]),
		AgentID:     StrToUint64(row["agent_id"]),
		Title:       StrToString(row["title"]),
		Description: StrToString(row["description"]),
		Price:       StrToFloat(row["price"]),
		Status:      StrToString(row["status"]),
		Detail:      StrToString(row["detail"]),
		County:      StrToString(row["county"]),
		City:        StrToString(row["city"]),
		Bedrooms:    StrToInt(row["bedrooms"]),
		Bathrooms:   StrToInt(row["bathrooms"]),
		Area:        StrToFloat(row["area"]),
		IsActive:    StrToBool(row["is_active"]),
		UpdatedAt:   StrToDateTime(row["updated_at"]),
	})
}
