package config

// Config 配置主体
type Config struct {
	Server                ServerConfig          `mapstructure:"server"`
	DB                    DBConfig              `mapstructure:"database"`
	Redis                 RedisConfig           `mapstructure:"redis"`
	Elastic               ElasticConfig         `mapstructure:"elastic"`
	Logstash              LogstashConfig        `mapstructure:"logstash"`
	Auth                  AuthConfig            `mapstructure:"auth"`
	Cache                 CacheConfig           `mapstructure:"cache"`
	Geo                   GeoConfig             `mapstructure:"geo"`
	Recency               RecencyConfig         `mapstructure:"recency"`
	Trending              TrendingConfig        `mapstructure:"trending"`
	Cron                  CronConfig            `mapstructure:"cron"`
	Kafka                 KafkaConfig           `mapstructure:"kafka"`
	KafkaViewConsumer     KafkaViewConsumer     `mapstructure:"kafka_view_consumer"`
	KafkaPropertyConsumer KafkaPropertyConsumer `mapstructure:"kafka_property_consumer"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port         int      `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
	Audit        bool     `mapstructure:"audit"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// ElasticConfig Elastic配置
type ElasticConfig struct {
	Enable   bool           `mapstructure:"enable"`
	Address  string         `mapstructure:"address"`
	Username string         `mapstructure:"username"`
	Password string         `mapstructure:"password"`
	Indices  ElasticIndices `mapstructure:"indices"`
}

// ElasticIndices Elastic索引
type ElasticIndices struct {
	PropertyIndex string `mapstructure:"property_index"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// AuthConfig JWT 鉴权
type AuthConfig struct {
	JWTSecret   string `mapstructure:"jwt_secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
	Issuer      string `mapstructure:"issuer"`
}

type CacheConfig struct {
	PropertyDetailSeconds int `mapstructure:"property_detail_seconds"`
}

// GeoConfig IP 地理位置解析
type GeoConfig struct {
	Endpoint      string `mapstructure:"endpoint"`
	TimeoutMS     int    `mapstructure:"timeout_ms"`
	RatePerMinute int    `mapstructure:"rate_per_minute"`
	CacheTTLHours int    `mapstructure:"cache_ttl_hours"`
}

// RecencyConfig 最近浏览
type RecencyConfig struct {
	Capacity      int    `mapstructure:"capacity"`
	RetentionDays int    `mapstructure:"retention_days"`
	SessionName   string `mapstructure:"session_name"`
	SessionSecret string `mapstructure:"session_secret"`
}

type TrendingConfig struct {
	WindowDays   int `mapstructure:"window_days"`
	DefaultLimit int `mapstructure:"default_limit"`
}

type CronConfig struct {
	ViewCountSpec    string `mapstructure:"view_count_spec"`
	RecencyPruneSpec string `mapstructure:"recency_prune_spec"`
}

type KafkaConfig struct {
	Enable   bool           `mapstructure:"enable"`
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaViewConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

type KafkaPropertyConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}
