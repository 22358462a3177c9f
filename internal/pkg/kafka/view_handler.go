package kafka

import (
	"Abode/internal/model"
	"Abode/internal/pkg/redis"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ViewsHandler 浏览事件写入/级联删除后标记实体为脏，由定时任务回写浏览量
type ViewsHandler struct{}

func NewViewsHandler() *ViewsHandler {
	return &ViewsHandler{}
}

func (s *ViewsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("view event consumer setup")
	return nil
}

func (s *ViewsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("view event consumer cleanup")
	return nil
}

func (s *ViewsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-view consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-view process batch error", "err", err)
		return err
	}
	return nil
}

func (s *ViewsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, model.ViewEvent{}.TableName())
	if err != nil {
		return err
	}

	// 浏览记录不可修改，只关心新增与级联删除
	switch canalMsg.Type {
	case INSERT, DELETE:
		return s.markDirty(ctx, canalMsg)
	default:
		return nil
	}
}

func (s *ViewsHandler) markDirty(ctx context.Context, msg *CanalMessage) error {
	members := make(map[string][]interface{}, 2)
	for _, row := range msg.Data {
		entityID := StrToUint64(row["entity_id"])
		if entityID == 0 {
			continue
		}
		key := model.EntityType(StrToString(row["entity_type"])).DirtyKey()
		if key == "" {
			continue
		}
		members[key] = append(members[key], entityID)
	}

	for key, ids := range members {
		if err := redis.SAdd(ctx, key, ids...); err != nil {
			return err
		}
	}
	log.DebugContext(ctx, "view events marked dirty", "type", msg.Type, "rows", len(msg.Data))
	return nil
}
