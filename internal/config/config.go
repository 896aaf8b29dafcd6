// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	SnapshotPath       string        `mapstructure:"snapshot_path"`
	DefaultSlippage    float64       `mapstructure:"default_slippage"`
	UseAutoSlippage    bool          `mapstructure:"use_auto_slippage"`
	DebugLogging       bool          `mapstructure:"debug_logging"`
	LogFile            string        `mapstructure:"log_file"`
	MetricsAddr        string        `mapstructure:"metrics_addr"`
	ExportDir          string        `mapstructure:"export_dir"`
	ExportFormat       string        `mapstructure:"export_format"`
	SnapshotRetries    int           `mapstructure:"snapshot_retries"`
	SnapshotRetryDelay time.Duration `mapstructure:"snapshot_retry_delay"`
	Workers            int           `mapstructure:"workers"`
}

const (
	DefaultSlippage           = 0.5
	DefaultLogFile            = "logs/hanji.log"
	DefaultMetricsAddr        = ":9090"
	DefaultExportDir          = "exports"
	DefaultExportFormat       = "csv"
	DefaultSnapshotRetries    = 3
	DefaultSnapshotRetryDelay = 200 * time.Millisecond
	DefaultWorkers            = 4
)

const envPrefix = "HANJI"

// LoadConfig читает файл конфигурации; пустой path - только defaults и env
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	defaults := map[string]interface{}{
		"snapshot_path":        "",
		"default_slippage":     DefaultSlippage,
		"use_auto_slippage":    false,
		"debug_logging":        false,
		"log_file":             DefaultLogFile,
		"metrics_addr":         DefaultMetricsAddr,
		"export_dir":           DefaultExportDir,
		"export_format":        DefaultExportFormat,
		"snapshot_retries":     DefaultSnapshotRetries,
		"snapshot_retry_delay": DefaultSnapshotRetryDelay,
		"workers":              DefaultWorkers,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.ExportFormat = strings.ToLower(cfg.ExportFormat)

	return &cfg, validateConfig(&cfg)
}

// Slippage возвращает default_slippage как decimal
func (c *Config) Slippage() decimal.Decimal {
	return decimal.NewFromFloat(c.DefaultSlippage)
}

func validateConfig(cfg *Config) error {
	if err := validateNumericParams(cfg); err != nil {
		return err
	}
	switch cfg.ExportFormat {
	case "csv", "json":
	default:
		return fmt.Errorf("unsupported export_format %q", cfg.ExportFormat)
	}
	return nil
}

func validateNumericParams(cfg *Config) error {
	if cfg.DefaultSlippage < 0 {
		return errors.New("invalid default_slippage")
	}
	if cfg.Workers <= 0 {
		return errors.New("invalid workers count")
	}
	if cfg.SnapshotRetries < 0 {
		return errors.New("invalid snapshot_retries")
	}
	if cfg.SnapshotRetryDelay < 0 {
		return errors.New("invalid snapshot_retry_delay")
	}
	return nil
}
