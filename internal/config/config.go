package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/agrisense/advisor-cli/internal/kvstore"
)

// Config holds the full application configuration.
type Config struct {
	Store    kvstore.Config `yaml:"store" mapstructure:"store"`
	Advisory AdvisoryConfig `yaml:"advisory" mapstructure:"advisory"`
	Location LocationConfig `yaml:"location" mapstructure:"location"`
	History  HistoryConfig  `yaml:"history" mapstructure:"history"`
	Disease  DiseaseConfig  `yaml:"disease" mapstructure:"disease"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// AdvisoryConfig configures the remote advisory service client.
type AdvisoryConfig struct {
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	RateRPS   float64 `yaml:"rate_rps" mapstructure:"rate_rps"`
	RateBurst int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// LocationConfig configures the location resolver.
type LocationConfig struct {
	GPSTimeoutMS int `yaml:"gps_timeout_ms" mapstructure:"gps_timeout_ms"`
}

// GPSTimeout returns the GPS fix timeout as a duration.
func (c LocationConfig) GPSTimeout() time.Duration {
	return time.Duration(c.GPSTimeoutMS) * time.Millisecond
}

// HistoryConfig configures the local analysis history.
type HistoryConfig struct {
	Capacity int `yaml:"capacity" mapstructure:"capacity"`
}

// DiseaseConfig configures the disease upload pipeline.
type DiseaseConfig struct {
	MaxUploadMB int64 `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
}

// MaxUploadBytes returns the upload ceiling in bytes.
func (c DiseaseConfig) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// ServerConfig configures the serve bridge.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
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
	v.SetEnvPrefix("AGRISENSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "agrisense.db")
	v.SetDefault("advisory.base_url", "http://localhost:8001")
	v.SetDefault("advisory.rate_rps", 10)
	v.SetDefault("advisory.rate_burst", 10)
	v.SetDefault("location.gps_timeout_ms", 8000)
	v.SetDefault("history.capacity", 20)
	v.SetDefault("disease.max_upload_mb", 10)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
