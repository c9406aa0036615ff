package config

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/thedev09/fintrack/internal/ledger"
)

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type RatesConfig struct {
	// USDToINR is the conversion rate threaded into every ledger
	// operation. A string so the decimal survives YAML parsing intact.
	USDToINR string `mapstructure:"usd_inr"`
}

type AppConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Rates    RatesConfig    `mapstructure:"rates"`
	App      AppConfig      `mapstructure:"app"`
}

// Load reads configuration from the given file path, or from fintrack.yaml
// in the working directory when path is empty. A missing file is not an
// error; defaults and FINTRACK_* environment overrides still apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8099")
	v.SetDefault("database.path", "fintrack.db")
	v.SetDefault("rates.usd_inr", ledger.DefaultUSDToINR.String())
	v.SetDefault("app.page_size", 20)

	if path == "" {
		v.SetConfigName("fintrack")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("FINTRACK")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// USDToINR parses the configured rate, falling back to the default when the
// value is absent or malformed.
func (c *Config) USDToINR() decimal.Decimal {
	d, err := decimal.NewFromString(c.Rates.USDToINR)
	if err != nil || !d.IsPositive() {
		return ledger.DefaultUSDToINR
	}
	return d
}
