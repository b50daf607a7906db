package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Binance BinanceConfig `mapstructure:"binance"`
	Log     LogConfig     `mapstructure:"log"`
	Trading TradingConfig `mapstructure:"trading"`
}

// BinanceConfig contains exchange API configuration
type BinanceConfig struct {
	APIKey             string `mapstructure:"api_key"`
	APISecret          string `mapstructure:"api_secret"`
	Testnet            bool   `mapstructure:"testnet"`
	APIBaseURL         string `mapstructure:"api_base_url"`
	HTTPTimeoutSeconds int    `mapstructure:"http_timeout_seconds"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Output string `mapstructure:"output"` // console, file, both
}

// TradingConfig contains order-entry defaults
type TradingConfig struct {
	DefaultSymbol      string `mapstructure:"default_symbol"`
	DefaultTimeInForce string `mapstructure:"default_time_in_force"`
}

// Load loads configuration from file and environment variables.
// If configPath is empty, it searches the default locations (./configs, .).
// A missing config file is fine; credentials may also arrive later through
// interactive prompts, so they are not required here.
func Load(configPath ...string) (*Config, error) {
	viper.SetConfigType("yaml")

	setDefaults()
	bindEnvVars()
	viper.AutomaticEnv()

	if len(configPath) > 0 && configPath[0] != "" {
		viper.SetConfigFile(configPath[0])
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Environment variables win over config file values. The unprefixed
	// names are the documented interface; the BINANCE_* forms also work.
	if v := firstEnv("API_KEY", "BINANCE_API_KEY"); v != "" {
		cfg.Binance.APIKey = v
	}
	if v := firstEnv("API_SECRET", "BINANCE_API_SECRET"); v != "" {
		cfg.Binance.APISecret = v
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("binance.testnet", true)
	viper.SetDefault("binance.http_timeout_seconds", 30)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "console")
	viper.SetDefault("trading.default_symbol", "BTCUSDT")
	viper.SetDefault("trading.default_time_in_force", "GTC")
}

func bindEnvVars() {
	viper.BindEnv("binance.api_key", "BINANCE_API_KEY", "API_KEY")
	viper.BindEnv("binance.api_secret", "BINANCE_API_SECRET", "API_SECRET")
	viper.BindEnv("binance.testnet", "BINANCE_TESTNET")
	viper.BindEnv("binance.api_base_url", "BINANCE_API_BASE_URL")
	viper.BindEnv("log.level", "LOG_LEVEL")
	viper.BindEnv("log.output", "LOG_OUTPUT")
	viper.BindEnv("trading.default_symbol", "DEFAULT_SYMBOL")
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

func validate(cfg *Config) error {
	if cfg.Binance.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("binance.http_timeout_seconds must be positive")
	}
	switch cfg.Trading.DefaultTimeInForce {
	case "GTC", "IOC", "FOK":
	default:
		return fmt.Errorf("invalid trading.default_time_in_force: must be GTC, IOC or FOK")
	}
	return nil
}
