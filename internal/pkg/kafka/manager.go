package kafka

import (
	"Abode/internal/api/config"
	"Abode/internal/pkg/es"
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
)

type consumer struct {
	name    string
	topic   string
	group   sarama.ConsumerGroup
	handler sarama.ConsumerGroupHandler
}

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	consumers []*consumer
}

// NewConsumerManager propertyESRepo 为空时不启动房源索引同步
func NewConsumerManager(cfg *config.Config, propertyESRepo es.PropertyRepo) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)
	m := &ConsumerManager{}

	viewsGroup, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaViewConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	m.consumers = append(m.consumers, &consumer{
		name:    "view_events",
		topic:   cfg.KafkaViewConsumer.Topic,
		group:   viewsGroup,
		handler: NewViewsHandler(),
	})

	if propertyESRepo != nil {
		propertyGroup, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaPropertyConsumer.GroupID, saramaCfg)
		if err != nil {
			_ = viewsGroup.Close()
			return nil, err
		}
		m.consumers = append(m.consumers, &consumer{
			name:    "properties",
			topic:   cfg.KafkaPropertyConsumer.Topic,
			group:   propertyGroup,
			handler: NewPropertiesHandler(propertyESRepo),
		})
	}

	return m, nil
}

// Start 启动所有消费者，ctx 结束后关闭
func (m *ConsumerManager) Start(ctx context.Context) error {
	for _, c := range m.consumers {
		go m.run(ctx, c)
	}

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	var errs []error
	for _, c := range m.consumers {
		if err := c.group.Close(); err != nil {
			log.Error("Failed to close consumer", "name", c.name, "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *ConsumerManager) run(ctx context.Context, c *consumer) {
	log.Info("consumer started", "name", c.name, "topic", c.topic)
	go func() {
		for err := range c.group.Errors() {
			log.Error("consumer group error", "name", c.name, "err", err)
		}
	}()
	for {
		if err := c.group.Consume(ctx, []string{c.topic}, c.handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			log.Error("Error from consumer", "name", c.name, "err", err)
		}
		if ctx.Err() != nil {
			return
		}
	}
}
