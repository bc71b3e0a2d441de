package config

import (
	"stockwatch/pkg/config"
)

// Monitor holds the price-monitoring loop configuration.
type Monitor struct {
	CycleInterval string `mapstructure:"cycle_interval"`
	StockDelay    string `mapstructure:"stock_delay"`
	AlertCooldown string `mapstructure:"alert_cooldown"`
	StopTimeout   string `mapstructure:"stop_timeout"`
	StartOnBoot   bool   `mapstructure:"start_on_boot"`
}

// Quotes holds quote-provider configuration.
type Quotes struct {
	BaseURL             string `mapstructure:"base_url"`
	Timeout             string `mapstructure:"timeout"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	CacheTTL            string `mapstructure:"cache_ttl"`
}

// SMTP holds email delivery configuration.
type SMTP struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
}

// Telegram holds the optional Telegram alert channel configuration.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the stockwatch service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	API      config.API      `mapstructure:"api"`
	Monitor  Monitor         `mapstructure:"monitor"`
	Quotes   Quotes          `mapstructure:"quotes"`
	SMTP     SMTP            `mapstructure:"smtp"`
	Telegram Telegram        `mapstructure:"telegram"`
}

// Load loads the service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
