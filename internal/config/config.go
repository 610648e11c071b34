package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port       string `env:"PORT" envDefault:"8080"`
	DataDir    string `env:"DATA_DIR" envDefault:"./data"`
	SessionDSN string `env:"SESSION_DSN" envDefault:"shopfront-sessions.db"` // sqlite file in project root
	LogFile    string `env:"LOG_FILE" envDefault:"./shopfront.log"`
	// SeedData loads the default admin, sample catalog and order history
	// into an empty data dir.
	SeedData          bool `env:"SEED_DATA" envDefault:"true"`
	LowStockThreshold int  `env:"LOW_STOCK_THRESHOLD" envDefault:"10"`

	// Order-created events also go to SQS when a queue URL is set.
	OrderEventsQueueURL string `env:"ORDER_EVENTS_QUEUE_URL"`
	AWSRegion           string `env:"AWS_REGION" envDefault:"us-east-1"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.LowStockThreshold < 0 {
		return Config{}, fmt.Errorf("LOW_STOCK_THRESHOLD must not be negative, got %d", cfg.LowStockThreshold)
	}
	log.Printf("[config] PORT=%s DATA_DIR=%s SESSION_DSN=%s LOG_FILE=%s SEED_DATA=%t LOW_STOCK_THRESHOLD=%d SQS=%t",
		cfg.Port, cfg.DataDir, cfg.SessionDSN, cfg.LogFile, cfg.SeedData, cfg.LowStockThreshold, cfg.OrderEventsQueueURL != "")
	return cfg, nil
}
