package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"

	NotifierLog   = "log"
	NotifierKafka = "kafka"
)

type Config struct {
	App       AppConfig
	Inventory InventoryConfig
	Breaker   BreakerConfig
	Session   SessionConfig
	Store     StoreConfig
	Redis     RedisConfig
	Mongo     MongoConfig
	Notifier  NotifierConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Port            string        `envconfig:"CART_HTTP_PORT" default:"8080"`
	RequestTimeout  time.Duration `envconfig:"CART_REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"CART_SHUTDOWN_TIMEOUT" default:"10s"`
	LogLevel        string        `envconfig:"CART_LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"CART_LOG_FORMAT" default:"json"`
}

type InventoryConfig struct {
	BaseURL string        `envconfig:"CART_INVENTORY_BASE_URL" default:"http://localhost:3333"`
	Timeout time.Duration `envconfig:"CART_INVENTORY_TIMEOUT" default:"5s"`
}

type BreakerConfig struct {
	FailureThreshold uint32        `envconfig:"CART_BREAKER_FAILURE_THRESHOLD" default:"5"`
	OpenTimeout      time.Duration `envconfig:"CART_BREAKER_OPEN_TIMEOUT" default:"30s"`
	HalfOpenRequests uint32        `envconfig:"CART_BREAKER_HALF_OPEN_REQUESTS" default:"1"`
}

type SessionConfig struct {
	CacheSize int           `envconfig:"CART_SESSION_CACHE_SIZE" default:"10000"`
	IdleTTL   time.Duration `envconfig:"CART_SESSION_IDLE_TTL" default:"30m"`
}

type StoreConfig struct {
	Backend string `envconfig:"CART_STORE_BACKEND" default:"memory"`
}

type RedisConfig struct {
	Addr     string `envconfig:"CART_REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"CART_REDIS_PASSWORD"`
	DB       int    `envconfig:"CART_REDIS_DB" default:"0"`
}

type MongoConfig struct {
	URI        string `envconfig:"CART_MONGO_URI" default:"mongodb://localhost:27017"`
	Database   string `envconfig:"CART_MONGO_DB" default:"cartdb"`
	Collection string `envconfig:"CART_MONGO_COLLECTION" default:"carts"`
}

type NotifierConfig struct {
	Backend      string   `envconfig:"CART_NOTIFIER_BACKEND" default:"log"`
	KafkaBrokers []string `envconfig:"CART_KAFKA_BROKERS"`
	KafkaTopic   string   `envconfig:"CART_KAFKA_TOPIC" default:"cart-notifications"`
}

func (c *Config) validate() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	switch c.Store.Backend {
	case StoreMemory, StoreRedis, StoreMongo:
	default:
		return fmt.Errorf("unsupported store backend %q", c.Store.Backend)
	}

	c.Notifier.Backend = strings.ToLower(strings.TrimSpace(c.Notifier.Backend))
	switch c.Notifier.Backend {
	case NotifierLog:
	case NotifierKafka:
		if len(c.Notifier.KafkaBrokers) == 0 {
			return fmt.Errorf("CART_KAFKA_BROKERS is required for the kafka notifier")
		}
	default:
		return fmt.Errorf("unsupported notifier backend %q", c.Notifier.Backend)
	}

	if c.Session.CacheSize <= 0 {
		return fmt.Errorf("CART_SESSION_CACHE_SIZE must be positive, got %d", c.Session.CacheSize)
	}
	if c.Session.IdleTTL <= 0 {
		return fmt.Errorf("CART_SESSION_IDLE_TTL must be positive, got %s", c.Session.IdleTTL)
	}

	u, err := url.Parse(c.Inventory.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid CART_INVENTORY_BASE_URL %q", c.Inventory.BaseURL)
	}
	return nil
}
