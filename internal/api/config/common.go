package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

// setDefaults 未配置时的兜底值
func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("auth.expire_hours", 24)
	viper.SetDefault("auth.issuer", "abode")
	viper.SetDefault("cache.property_detail_seconds", 300)
	viper.SetDefault("geo.endpoint", "http://ip-api.com/json")
	viper.SetDefault("geo.timeout_ms", 800)
	viper.SetDefault("geo.rate_per_minute", 45)
	viper.SetDefault("geo.cache_ttl_hours", 24)
	viper.SetDefault("recency.capacity", 10)
	viper.SetDefault("recency.retention_days", 90)
	viper.SetDefault("recency.session_name", "abode_session")
	viper.SetDefault("trending.window_days", 7)
	viper.SetDefault("trending.default_limit", 8)
	viper.SetDefault("cron.view_count_spec", "0 */5 * * * *")
	viper.SetDefault("cron.recency_prune_spec", "@daily")
	viper.SetDefault("elastic.indices.property_index", "properties")
}
