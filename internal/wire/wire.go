package wire

import (
	"Abode/internal/api"
	"Abode/internal/api/config"
	"Abode/internal/api/handler"
	"Abode/internal/job"
	"Abode/internal/pkg/cron"
	"Abode/internal/pkg/es"
	"Abode/internal/pkg/geo"
	"Abode/internal/pkg/kafka"
	"Abode/internal/pkg/redis"
	"Abode/internal/repository"
	"Abode/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	CronMgr      *cron.Manager
	KafkaManager *kafka.ConsumerManager // kafka 关闭时为空
}

// Options 可替换的外部依赖，为空时按配置创建
type Options struct {
	PropertyESRepo es.PropertyRepo
	Resolver       geo.LocationResolver
	SkipKafka      bool
}

func BuildApplication(db *gorm.DB, cfg *config.Config, opts Options) (*ApplicationContainer, error) {
	propertyRepo := repository.NewPropertyRepository(db)
	postRepo := repository.NewPostRepository(db)
	viewEventRepo := repository.NewViewEventRepository(db)
	recentViewRepo := repository.NewRecentViewRepository(db)
	registry := repository.NewEntityRegistry(propertyRepo, postRepo)

	propertyESRepo := opts.PropertyESRepo
	if propertyESRepo == nil && cfg.Elastic.Enable && es.Client != nil {
		propertyESRepo = es.NewPropertyRepo(es.Client)
	}

	resolver := opts.Resolver
	if resolver == nil {
		resolver = newLocationResolver(cfg.Geo)
	}

	entityResolver := service.NewEntityResolver(registry)
	viewService := service.NewViewService(
		registry, viewEventRepo, recentViewRepo, resolver,
		time.Duration(cfg.Geo.TimeoutMS)*time.Millisecond, cfg.Recency.Capacity,
	)
	rankingService := service.NewRankingService(registry, cfg.Trending.WindowDays)
	recentViewService := service.NewRecentViewService(recentViewRepo, entityResolver, cfg.Recency.Capacity)
	propertyService := service.NewPropertyService(
		propertyRepo, propertyESRepo, entityResolver,
		time.Duration(cfg.Cache.PropertyDetailSeconds)*time.Second,
	)

	handlers := &api.HandlersGroup{
		ViewHandler: handler.NewViewHandler(viewService, cfg.Recency.Capacity),
		RankingHandler: handler.NewRankingHandler(
			rankingService, recentViewService, entityResolver,
			cfg.Trending.DefaultLimit, cfg.Recency.Capacity,
		),
		PropertyHandler: handler.NewPropertyHandler(propertyService),
	}
	router := api.SetupRouter(handlers, cfg)

	cronMgr := cron.NewCronManager(
		cfg.Cron,
		job.NewViewCountJob(registry, viewEventRepo),
		job.NewRecencyPruneJob(recentViewRepo, cfg.Recency.RetentionDays),
	)

	app := &ApplicationContainer{
		Router:  router,
		DB:      db,
		CronMgr: cronMgr,
	}

	if cfg.Kafka.Enable && !opts.SkipKafka {
		kafkaMgr, err := kafka.NewConsumerManager(cfg, propertyESRepo)
		if err != nil {
			return nil, err
		}
		app.KafkaManager = kafkaMgr
	}

	return app, nil
}

// newLocationResolver ip-api 查询，redis 可用时加一层缓存
func newLocationResolver(cfg config.GeoConfig) geo.LocationResolver {
	if cfg.Endpoint == "" {
		return geo.StaticResolver{}
	}
	var resolver geo.LocationResolver = geo.NewIPAPIResolver(cfg.Endpoint, cfg.RatePerMinute)
	if rdb := redis.GetRdbClient(); rdb != nil && cfg.CacheTTLHours > 0 {
		resolver = geo.NewCachedResolver(resolver, rdb, time.Duration(cfg.CacheTTLHours)*time.Hour)
	}
	return resolver
}
