package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port            string        `envconfig:"INVENTORY_HTTP_PORT" default:"3333"`
	SeedFile        string        `envconfig:"INVENTORY_SEED_FILE" default:"inventory-service/server.json"`
	ShutdownTimeout time.Duration `envconfig:"INVENTORY_SHUTDOWN_TIMEOUT" default:"10s"`
	LogLevel        string        `envconfig:"INVENTORY_LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"INVENTORY_LOG_FORMAT" default:"json"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}
