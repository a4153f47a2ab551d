// Package config loads application configuration from file and environment
// and bootstraps the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Scrape      ScrapeConfig      `yaml:"scrape" mapstructure:"scrape"`
	Parse       ParseConfig       `yaml:"parse" mapstructure:"parse"`
	Stats       StatsConfig       `yaml:"stats" mapstructure:"stats"`
	Marketplace MarketplaceConfig `yaml:"marketplace" mapstructure:"marketplace"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// ScrapeConfig configures the scraping-proxy client and retry behavior.
type ScrapeConfig struct {
	APIKey            string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	CountryCode       string  `yaml:"country_code" mapstructure:"country_code"`
	Render            bool    `yaml:"render" mapstructure:"render"`
	Premium           bool    `yaml:"premium" mapstructure:"premium"`
	DeviceType        string  `yaml:"device_type" mapstructure:"device_type"`
	KeepHeaders       bool    `yaml:"keep_headers" mapstructure:"keep_headers"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	MaxRetries        int     `yaml:"max_retries" mapstructure:"max_retries"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	BaseDelayMs       int     `yaml:"base_delay_ms" mapstructure:"base_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms" mapstructure:"max_delay_ms"`
	MinBodyBytes      int     `yaml:"min_body_bytes" mapstructure:"min_body_bytes"`
	BlocklistPath     string  `yaml:"blocklist_path" mapstructure:"blocklist_path"`
}

// ParseConfig configures the listing parser.
type ParseConfig struct {
	WindowDays int     `yaml:"window_days" mapstructure:"window_days"`
	MinPrice   float64 `yaml:"min_price" mapstructure:"min_price"`
	MaxPrice   float64 `yaml:"max_price" mapstructure:"max_price"`
}

// StatsConfig configures outlier filtering and the weighted value blend.
// The weights and the variation threshold are tunable defaults rather than
// proven-optimal constants.
type StatsConfig struct {
	IQRMultiplier      float64 `yaml:"iqr_multiplier" mapstructure:"iqr_multiplier"`
	MaxRemovalFraction float64 `yaml:"max_removal_fraction" mapstructure:"max_removal_fraction"`
	CVThreshold        float64 `yaml:"cv_threshold" mapstructure:"cv_threshold"`
	MedianWeight       float64 `yaml:"median_weight" mapstructure:"median_weight"`
	MeanWeight         float64 `yaml:"mean_weight" mapstructure:"mean_weight"`
	ModeWeight         float64 `yaml:"mode_weight" mapstructure:"mode_weight"`
	RecentWeight       float64 `yaml:"recent_weight" mapstructure:"recent_weight"`
	RecentWindowDays   int     `yaml:"recent_window_days" mapstructure:"recent_window_days"`
}

// MarketplaceConfig holds the deep-link search URL templates.
type MarketplaceConfig struct {
	ActiveSearchTemplate string `yaml:"active_search_template" mapstructure:"active_search_template"`
	SoldSearchTemplate   string `yaml:"sold_search_template" mapstructure:"sold_search_template"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MARKETVAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("scrape.api_key", "")
	v.SetDefault("scrape.base_url", "https://api.scraperapi.com")
	v.SetDefault("scrape.country_code", "us")
	v.SetDefault("scrape.render", true)
	v.SetDefault("scrape.device_type", "desktop")
	v.SetDefault("scrape.requests_per_second", 1.0)
	v.SetDefault("scrape.max_retries", 3)
	v.SetDefault("scrape.timeout_secs", 20)
	v.SetDefault("scrape.base_delay_ms", 1000)
	v.SetDefault("scrape.max_delay_ms", 30000)
	v.SetDefault("scrape.min_body_bytes", 1000)
	v.SetDefault("scrape.premium", false)
	v.SetDefault("scrape.keep_headers", false)
	v.SetDefault("scrape.blocklist_path", "")
	v.SetDefault("parse.window_days", 30)
	v.SetDefault("parse.min_price", 0.0)
	v.SetDefault("parse.max_price", 0.0)
	v.SetDefault("stats.iqr_multiplier", 1.5)
	v.SetDefault("stats.max_removal_fraction", 0.5)
	v.SetDefault("stats.cv_threshold", 0.8)
	v.SetDefault("stats.median_weight", 0.4)
	v.SetDefault("stats.mean_weight", 0.3)
	v.SetDefault("stats.mode_weight", 0.2)
	v.SetDefault("stats.recent_weight", 0.1)
	v.SetDefault("stats.recent_window_days", 30)
	v.SetDefault("marketplace.active_search_template", "https://www.ebay.com/sch/i.html?_nkw=%s")
	v.SetDefault("marketplace.sold_search_template", "https://www.ebay.com/sch/i.html?_nkw=%s&LH_Sold=1&LH_Complete=1")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
