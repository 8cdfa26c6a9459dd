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
	Lookup  LookupConfig  `yaml:"lookup" mapstructure:"lookup"`
	Harvest HarvestConfig `yaml:"harvest" mapstructure:"harvest"`
	Query   QueryConfig   `yaml:"query" mapstructure:"query"`
	Regions RegionsConfig `yaml:"regions" mapstructure:"regions"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// LookupConfig configures the detail-endpoint client.
type LookupConfig struct {
	BaseURL      string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs  int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimitRPS float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	UserAgent    string  `yaml:"user_agent" mapstructure:"user_agent"`
}

// HarvestConfig configures the harvest pass.
type HarvestConfig struct {
	IDFiles     []string `yaml:"id_files" mapstructure:"id_files"`
	Output      string   `yaml:"output" mapstructure:"output"`
	Concurrency int      `yaml:"concurrency" mapstructure:"concurrency"`
}

// QueryConfig configures the query engine defaults.
type QueryConfig struct {
	DefaultRadiusKm float64 `yaml:"default_radius_km" mapstructure:"default_radius_km"`
}

// RegionsConfig points at an optional region-registry override file.
type RegionsConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// StoreConfig configures the run-history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the query API server.
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
	v.SetEnvPrefix("SPOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("lookup.base_url", "https://gws.lavb.de")
	v.SetDefault("lookup.timeout_secs", 15)
	v.SetDefault("lookup.rate_limit_rps", 5)
	v.SetDefault("lookup.user_agent", "spot-cli/1.0")
	v.SetDefault("harvest.id_files", []string{
		"potsdam_ids.txt",
		"cottbus_ids.txt",
		"frankfurt_oder_ids.txt",
		"salmoniden_ids.txt",
	})
	v.SetDefault("harvest.output", "data.json")
	v.SetDefault("harvest.concurrency", 4)
	v.SetDefault("query.default_radius_km", 50)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "harvest_runs.db")
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
