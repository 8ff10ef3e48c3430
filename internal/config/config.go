package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config carries the recognized options for monitoring one extender.
type Config struct {
	IPAddress      string `mapstructure:"ip_address"`
	Password       string `mapstructure:"password"`
	TopN           int    `mapstructure:"top_n"`
	PollInterval   int    `mapstructure:"poll_interval"`   // seconds
	RequestTimeout int    `mapstructure:"request_timeout"` // seconds
	CycleTimeout   int    `mapstructure:"cycle_timeout"`   // seconds
}

// Load reads a YAML config file, applies defaults and validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Defaults match the stock device: factory password is "admin".
	v.SetDefault("password", "admin")
	v.SetDefault("top_n", 12)
	v.SetDefault("poll_interval", 120)
	v.SetDefault("request_timeout", 30)
	v.SetDefault("cycle_timeout", 60)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks option ranges.
func (c *Config) Validate() error {
	if c.IPAddress == "" {
		return fmt.Errorf("ip_address is required")
	}
	if c.TopN < 1 || c.TopN > 100 {
		return fmt.Errorf("top_n must be between 1 and 100, got %d", c.TopN)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %d", c.PollInterval)
	}
	return nil
}
