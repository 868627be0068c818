package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/clientpulse/health-cli/internal/health"
)

// Config holds the full application configuration.
type Config struct {
	Scoring ScoringConfig `yaml:"scoring" mapstructure:"scoring"`
	Intel   IntelConfig   `yaml:"intel" mapstructure:"intel"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// ScoringConfig configures the health score engine.
type ScoringConfig struct {
	Weights health.FactorWeights `yaml:"weights" mapstructure:"weights"`
}

// IntelConfig configures the market intelligence cache and generator.
type IntelConfig struct {
	TTLMinutes       int     `yaml:"ttl_minutes" mapstructure:"ttl_minutes"`
	SweepMinutes     int     `yaml:"sweep_minutes" mapstructure:"sweep_minutes"`
	MaxEntries       int     `yaml:"max_entries" mapstructure:"max_entries"`
	GenLatencyMillis int     `yaml:"gen_latency_ms" mapstructure:"gen_latency_ms"`
	GenRatePerSecond float64 `yaml:"gen_rate_per_second" mapstructure:"gen_rate_per_second"`
}

// TTL returns the cache TTL as a duration.
func (c IntelConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// SweepInterval returns the background sweep interval as a duration.
func (c IntelConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepMinutes) * time.Minute
}

// GenLatency returns the simulated generation latency as a duration.
func (c IntelConfig) GenLatency() time.Duration {
	return time.Duration(c.GenLatencyMillis) * time.Millisecond
}

// ServerConfig configures the HTTP server.
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
	v.SetEnvPrefix("HEALTH_CLI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("scoring.weights.payment", 0.4)
	v.SetDefault("scoring.weights.engagement", 0.3)
	v.SetDefault("scoring.weights.contract", 0.2)
	v.SetDefault("scoring.weights.support", 0.1)
	v.SetDefault("intel.ttl_minutes", 10)
	v.SetDefault("intel.sweep_minutes", 5)
	v.SetDefault("intel.max_entries", 1000)
	v.SetDefault("intel.gen_latency_ms", 150)
	v.SetDefault("intel.gen_rate_per_second", 20)

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

	if err := health.ValidateWeights(cfg.Scoring.Weights); err != nil {
		return nil, eris.Wrap(err, "config: scoring weights")
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
