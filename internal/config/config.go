package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Kalshi   KalshiConfig   `mapstructure:"kalshi"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// KalshiConfig holds Kalshi API configuration
type KalshiConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	PrivateKey     string        `mapstructure:"private_key"` // PEM body, or a path to a .pem file
	UseDemo        bool          `mapstructure:"use_demo"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// BaseURL returns the API base URL for the selected environment.
func (k KalshiConfig) BaseURL() string {
	if k.UseDemo {
		return "https://demo-api.kalshi.co"
	}
	return "https://api.elections.kalshi.com"
}

// AnalysisConfig holds fetch limits and qualification thresholds
type AnalysisConfig struct {
	MaxEventsToAnalyze int           `mapstructure:"max_events_to_analyze"`
	MaxMarketsPerEvent int           `mapstructure:"max_markets_per_event"`
	MaxHoursToClose    float64       `mapstructure:"max_hours_to_close"`
	MinYesPriceCents   int           `mapstructure:"min_yes_price_cents"`
	MinSpreadCents     int           `mapstructure:"min_spread_cents"`
	MaxYesAskCents     int           `mapstructure:"max_yes_ask_cents"`
	MinVolume24h       int64         `mapstructure:"min_volume_24h"`
	BatchSize          int           `mapstructure:"batch_size"`
	BatchPause         time.Duration `mapstructure:"batch_pause"`
}

// TelegramConfig holds Telegram notification configuration.
// Leaving bot_token or chat_id empty disables the notification stage.
type TelegramConfig struct {
	BotToken               string        `mapstructure:"bot_token"`
	ChatID                 string        `mapstructure:"chat_id"`
	MaxNotificationsPerRun int           `mapstructure:"max_notifications_per_run"`
	MaxRetries             int           `mapstructure:"max_retries"`
	RetryDelayBase         time.Duration `mapstructure:"retry_delay_base"`
}

// Enabled reports whether notification credentials are configured.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set config file
	v.SetConfigFile(path)

	// Set defaults
	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("KALSHI_NOTIFIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The private key may be supplied as a path to a PEM file
	if err := cfg.resolvePrivateKey(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Kalshi defaults
	v.SetDefault("kalshi.use_demo", true)
	v.SetDefault("kalshi.timeout", "30s")
	v.SetDefault("kalshi.max_retries", 3)
	v.SetDefault("kalshi.retry_delay_base", "1s")

	// Analysis defaults
	v.SetDefault("analysis.max_events_to_analyze", 600)
	v.SetDefault("analysis.max_markets_per_event", 10)
	v.SetDefault("analysis.max_hours_to_close", 24.0)
	v.SetDefault("analysis.min_yes_price_cents", 90)
	v.SetDefault("analysis.min_spread_cents", 1)
	v.SetDefault("analysis.max_yes_ask_cents", 98)
	v.SetDefault("analysis.min_volume_24h", 1000)
	v.SetDefault("analysis.batch_size", 20)
	v.SetDefault("analysis.batch_pause", "200ms")

	// Telegram defaults
	v.SetDefault("telegram.max_notifications_per_run", 5)
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// resolvePrivateKey reads the private key from disk when the configured value
// looks like a file path rather than inline PEM material.
func (c *Config) resolvePrivateKey() error {
	key := strings.TrimSpace(c.Kalshi.PrivateKey)
	if key == "" || strings.HasPrefix(key, "-----BEGIN") {
		return nil
	}
	if !strings.HasSuffix(key, ".pem") {
		if _, err := os.Stat(key); err != nil {
			return nil
		}
	}
	data, err := os.ReadFile(key)
	if err != nil {
		return fmt.Errorf("failed to read private key file %q: %w", key, err)
	}
	c.Kalshi.PrivateKey = string(data)
	return nil
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate Kalshi config
	if c.Kalshi.APIKey == "" {
		return fmt.Errorf("kalshi.api_key is required")
	}
	key := strings.TrimSpace(c.Kalshi.PrivateKey)
	if key == "" {
		return fmt.Errorf("kalshi.private_key is required")
	}
	if !strings.HasPrefix(key, "-----BEGIN") || !strings.HasSuffix(key, "-----") {
		return fmt.Errorf("kalshi.private_key must be PEM material starting with '-----BEGIN' and ending with '-----'")
	}
	if c.Kalshi.Timeout < time.Second {
		return fmt.Errorf("kalshi.timeout must be at least 1 second")
	}
	if c.Kalshi.MaxRetries < 1 {
		return fmt.Errorf("kalshi.max_retries must be at least 1")
	}

	// Validate Analysis config
	if c.Analysis.MaxEventsToAnalyze < 1 {
		return fmt.Errorf("analysis.max_events_to_analyze must be at least 1")
	}
	if c.Analysis.MaxMarketsPerEvent < 1 {
		return fmt.Errorf("analysis.max_markets_per_event must be at least 1")
	}
	if c.Analysis.MaxHoursToClose <= 0 {
		return fmt.Errorf("analysis.max_hours_to_close must be positive")
	}
	if c.Analysis.MinYesPriceCents < 1 || c.Analysis.MinYesPriceCents > 99 {
		return fmt.Errorf("analysis.min_yes_price_cents must be between 1 and 99")
	}
	if c.Analysis.MinSpreadCents < 0 {
		return fmt.Errorf("analysis.min_spread_cents must not be negative")
	}
	if c.Analysis.MaxYesAskCents < c.Analysis.MinYesPriceCents || c.Analysis.MaxYesAskCents > 100 {
		return fmt.Errorf("analysis.max_yes_ask_cents must be between min_yes_price_cents and 100")
	}
	if c.Analysis.MinVolume24h < 0 {
		return fmt.Errorf("analysis.min_volume_24h must not be negative")
	}
	if c.Analysis.BatchSize < 1 {
		return fmt.Errorf("analysis.batch_size must be at least 1")
	}
	if c.Analysis.BatchPause < 0 {
		return fmt.Errorf("analysis.batch_pause must not be negative")
	}

	// Validate Telegram config: token and chat id must be set together
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Telegram.Enabled() && c.Telegram.MaxNotificationsPerRun < 1 {
		return fmt.Errorf("telegram.max_notifications_per_run must be at least 1")
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
