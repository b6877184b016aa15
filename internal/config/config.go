package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config holds server configuration values.
type Config struct {
	Host              string        `mapstructure:"host" yaml:"host"`
	Port              int           `mapstructure:"port" yaml:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	MaxHistory         int      `mapstructure:"max_history" yaml:"max_history"`
	ClientBuffer       int      `mapstructure:"client_buffer" yaml:"client_buffer"`
	MaxMessageBytes    int64    `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	RateLimitPerMinute int      `mapstructure:"rate_limit_per_minute" yaml:"rate_limit_per_minute"`
	AllowedOrigins     []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	CensoredWords      []string `mapstructure:"censored_words" yaml:"censored_words"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Port:              3000,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		LogFormat:         "console",
		MaxHistory:        100,
		ClientBuffer:      64,
		MaxMessageBytes:   64 << 10,
		AllowedOrigins:    []string{"*"},
		CensoredWords:     []string{},
	}
}

// Addr returns the listen address built from Host and Port.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.MaxHistory <= 0 {
		errs = append(errs, fmt.Errorf("max_history must be positive, got %d", c.MaxHistory))
	}
	if c.ClientBuffer <= 0 {
		errs = append(errs, fmt.Errorf("client_buffer must be positive, got %d", c.ClientBuffer))
	}
	if c.MaxMessageBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_message_bytes must be positive, got %d", c.MaxMessageBytes))
	}
	if c.RateLimitPerMinute < 0 {
		errs = append(errs, fmt.Errorf("rate_limit_per_minute must not be negative, got %d", c.RateLimitPerMinute))
	}
	return errors.Join(errs...)
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Host != "" {
		c.Host = other.Host
	}
	if other.Port != 0 {
		c.Port = other.Port
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.MaxHistory != 0 {
		c.MaxHistory = other.MaxHistory
	}
}
