// Package config loads application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/terralith/sitepoint-cli/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Load     LoadConfig     `yaml:"load" mapstructure:"load"`
	Classify ClassifyConfig `yaml:"classify" mapstructure:"classify"`
	Quality  QualityConfig  `yaml:"quality" mapstructure:"quality"`
	Cluster  ClusterConfig  `yaml:"cluster" mapstructure:"cluster"`
	Export   ExportConfig   `yaml:"export" mapstructure:"export"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// LoadConfig configures input parsing.
type LoadConfig struct {
	// Strict aborts on the first malformed record instead of skipping it.
	Strict bool `yaml:"strict" mapstructure:"strict"`
	// Format selects the input reader: auto, geojson, csv, shp, or xlsx.
	Format string `yaml:"format" mapstructure:"format"`
	// Sheet selects the XLSX sheet by name; empty means the first sheet.
	Sheet string `yaml:"sheet" mapstructure:"sheet"`
}

// ClassifyConfig configures region classification.
type ClassifyConfig struct {
	// Rules is an ordered rule list ("lon<-100=Western", ...) or one of
	// the presets "three-way" and "two-way".
	Rules []string `yaml:"rules" mapstructure:"rules"`
}

// QualityConfig configures duplicate and outlier detection.
type QualityConfig struct {
	DuplicatePrecision int     `yaml:"duplicate_precision" mapstructure:"duplicate_precision"`
	OutlierSigma       float64 `yaml:"outlier_sigma" mapstructure:"outlier_sigma"`
}

// ClusterConfig configures density clustering.
type ClusterConfig struct {
	Eps       float64 `yaml:"eps" mapstructure:"eps"`
	MinPoints int     `yaml:"min_points" mapstructure:"min_points"`
}

// ExportConfig configures the export stage.
type ExportConfig struct {
	Table         string `yaml:"table" mapstructure:"table"`
	SummaryFormat string `yaml:"summary_format" mapstructure:"summary_format"`
	DatabaseURL   string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath    string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// ServerConfig configures the HTTP adapter.
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
	v.SetEnvPrefix("SITEPOINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("load.strict", false)
	v.SetDefault("load.format", "auto")
	v.SetDefault("classify.rules", []string{"three-way"})
	v.SetDefault("quality.duplicate_precision", 6)
	v.SetDefault("quality.outlier_sigma", 3.0)
	v.SetDefault("cluster.eps", 0.5)
	v.SetDefault("cluster.min_points", 5)
	v.SetDefault("export.table", "site_points")
	v.SetDefault("export.summary_format", "json")
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

// Validate rejects parameter values no stage could run with. Called once
// before the pipeline starts so bad parameters never reach a stage.
func (c *Config) Validate() error {
	if c.Quality.DuplicatePrecision < 0 {
		return eris.Wrapf(model.ErrConfiguration, "config: quality.duplicate_precision %d < 0", c.Quality.DuplicatePrecision)
	}
	if c.Quality.OutlierSigma < 0 {
		return eris.Wrapf(model.ErrConfiguration, "config: quality.outlier_sigma %g < 0", c.Quality.OutlierSigma)
	}
	if c.Cluster.Eps < 0 {
		return eris.Wrapf(model.ErrConfiguration, "config: cluster.eps %g < 0", c.Cluster.Eps)
	}
	if c.Cluster.MinPoints < 1 {
		return eris.Wrapf(model.ErrConfiguration, "config: cluster.min_points %d < 1", c.Cluster.MinPoints)
	}
	if len(c.Classify.Rules) == 0 {
		return eris.Wrap(model.ErrConfiguration, "config: classify.rules is empty")
	}
	switch c.Export.SummaryFormat {
	case "", "json", "yaml":
	default:
		return eris.Wrapf(model.ErrConfiguration, "config: export.summary_format %q", c.Export.SummaryFormat)
	}
	return nil
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
