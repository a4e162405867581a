// Package config provides application configuration management using Viper.
// Configuration is loaded from YAML files and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Source  SourceConfig  `mapstructure:"source"`
	Cache   CacheConfig   `mapstructure:"cache"`
	History HistoryConfig `mapstructure:"history"`
	Refresh RefreshConfig `mapstructure:"refresh"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Sentry  SentryConfig  `mapstructure:"sentry"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name  string `mapstructure:"name"`
	Env   string `mapstructure:"env"` // development, staging, production
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`
}

// SourceConfig holds the upstream source settings.
type SourceConfig struct {
	Dramabox SourceEndpoint `mapstructure:"dramabox"`
	Netshort SourceEndpoint `mapstructure:"netshort"`
}

// SourceEndpoint holds a single source's configuration.
type SourceEndpoint struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retry   RetryConfig   `mapstructure:"retry"`
	CB      CBConfig      `mapstructure:"circuit_breaker"`
}

// RetryConfig holds retry settings.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	WaitTime    time.Duration `mapstructure:"wait_time"`
	MaxWaitTime time.Duration `mapstructure:"max_wait_time"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// CacheConfig holds catalog freshness cache settings.
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	ListTTL   time.Duration `mapstructure:"list_ttl"`
	SearchTTL time.Duration `mapstructure:"search_ttl"`
	KeyPrefix string        `mapstructure:"key_prefix"`
}

// HistoryConfig holds watch-history store settings.
type HistoryConfig struct {
	// Backend selects the storage primitive: "redis" or "file".
	Backend string `mapstructure:"backend"`
	Key     string `mapstructure:"key"`
	Cap     int    `mapstructure:"cap"`

	// Dir is the data directory for the file backend.
	Dir string `mapstructure:"dir"`
}

// RefreshConfig holds background cache refresh settings.
type RefreshConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval"`
	Timeout   time.Duration `mapstructure:"timeout"`
	OnStartup bool          `mapstructure:"on_startup"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the host:port address.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// Load reads configuration from file and environment variables.
// Priority: env vars > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found, continue with defaults + env vars
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "drama-catalog-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", true)

	// Source defaults. Two retries for transient failures, none for client
	// errors (see source.NewRestyClient).
	for _, s := range []string{"dramabox", "netshort"} {
		v.SetDefault("source."+s+".timeout", "20s")
		v.SetDefault("source."+s+".retry.max_attempts", 2)
		v.SetDefault("source."+s+".retry.wait_time", "500ms")
		v.SetDefault("source."+s+".retry.max_wait_time", "3s")
		v.SetDefault("source."+s+".circuit_breaker.max_requests", 3)
		v.SetDefault("source."+s+".circuit_breaker.interval", "60s")
		v.SetDefault("source."+s+".circuit_breaker.timeout", "30s")
		v.SetDefault("source."+s+".circuit_breaker.failure_ratio", 0.5)
	}
	v.SetDefault("source.dramabox.base_url", "http://localhost:8081")
	v.SetDefault("source.netshort.base_url", "http://localhost:8082")

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.list_ttl", "5m")
	v.SetDefault("cache.search_ttl", "2m")
	v.SetDefault("cache.key_prefix", "drama-catalog")

	// History defaults
	v.SetDefault("history.backend", "redis")
	v.SetDefault("history.key", "watch_history")
	v.SetDefault("history.cap", 50)
	v.SetDefault("history.dir", "./data")

	// Refresh defaults
	v.SetDefault("refresh.enabled", true)
	v.SetDefault("refresh.interval", "5m")
	v.SetDefault("refresh.timeout", "60s")
	v.SetDefault("refresh.on_startup", true)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)
}
