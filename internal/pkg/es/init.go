package es

import (
	"Abode/internal/api/config"
	"Abode/internal/pkg/logger"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

var Client *elasticsearch.TypedClient

var PropertyIndex = "properties"

const (
	NotFoundCode = 404
	ConflictCode = 409
)

// InitClient 连接 ES 并确保房源索引存在
func InitClient(elasticCfg config.ElasticConfig) error {
	if elasticCfg.Indices.PropertyIndex != "" {
		PropertyIndex = elasticCfg.Indices.PropertyIndex
	}

	client, err := elasticsearch.NewTypedClient(elasticsearch.Config{
		Addresses: []string{elasticCfg.Address},
		Username:  elasticCfg.Username,
		Password:  elasticCfg.Password,
		Transport: logger.NewESTransport(),
	})
	if err != nil {
		return fmt.Errorf("create elasticsearch client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	info, err := client.Info().Do(ctx)
	if err != nil {
		return fmt.Errorf("elasticsearch info: %w", err)
	}
	if err = ensurePropertyIndex(ctx, client); err != nil {
		return err
	}

	Client = client
	log.Info("Connected to Elasticsearch", "version", info.Version.Int, "index", PropertyIndex)
	return nil
}

// ensurePropertyIndex 文本字段分词检索，其余字段精确匹配与范围过滤
func ensurePropertyIndex(ctx context.Context, client *elasticsearch.TypedClient) error {
	exists, err := client.Indices.Exists(PropertyIndex).Do(ctx)
	if err != nil {
		return fmt.Errorf("check index %s: %w", PropertyIndex, err)
	}
	if exists {
		return nil
	}

	_, err = client.Indices.Create(PropertyIndex).
		Mappings(&types.TypeMapping{
			Properties: map[string]types.Property{
				"id":          types.NewLongNumberProperty(),
				"agent_id":    types.NewLongNumberProperty(),
				"title":       types.NewTextProperty(),
				"description": types.NewTextProperty(),
				"price":       types.NewDoubleNumberProperty(),
				"status":      types.NewKeywordProperty(),
				"detail":      types.NewKeywordProperty(),
				"county":      types.NewKeywordProperty(),
				"city":        types.NewKeywordProperty(),
				"bedrooms":    types.NewIntegerNumberProperty(),
				"bathrooms":   types.NewIntegerNumberProperty(),
				"area":        types.NewDoubleNumberProperty(),
				"is_active":   types.NewBooleanProperty(),
				"updated_at":  types.NewDateProperty(),
			},
		}).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("create index %s: %w", PropertyIndex, err)
	}
	log.Info("Elasticsearch index created", "index", PropertyIndex)
	return nil
}
