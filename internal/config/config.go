// Package config loads service settings from configs/config.yml with DRIP_
// environment overrides, and watches the file for live changes.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvPrefix = "DRIP"

	DefaultPort              = "8080"
	DefaultDBPath            = "insulin_drip.db"
	DefaultLogLevel          = "info"
	DefaultTokenTTL          = 8 * time.Hour
	DefaultSchedulerTick     = 30 * time.Second
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 60 * time.Second
)

type Config struct {
	Port      string          `mapstructure:"port"`
	DB        DBConfig        `mapstructure:"db"`
	Log       LogConfig       `mapstructure:"log"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	HTTP      HTTPConfig      `mapstructure:"http"`

	// File is the config file actually read, empty when running on defaults.
	File string `mapstructure:"-"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

// SchedulerConfig controls how often due stop-then-ramp resumes are applied.
type SchedulerConfig struct {
	Tick time.Duration `mapstructure:"tick"`
}

type HTTPConfig struct {
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", DefaultPort)
	v.SetDefault("db.path", DefaultDBPath)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", DefaultTokenTTL)
	v.SetDefault("scheduler.tick", DefaultSchedulerTick)
	v.SetDefault("http.read_header_timeout", DefaultReadHeaderTimeout)
	v.SetDefault("http.write_timeout", DefaultWriteTimeout)
	v.SetDefault("http.idle_timeout", DefaultIdleTimeout)
}

// Load reads the config file at path. An empty path searches
// ./configs/config.yml and falls back to defaults when nothing is found.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Scheduler.Tick <= 0 {
		return fmt.Errorf("scheduler.tick must be positive, got %v", c.Scheduler.Tick)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %v", c.Auth.TokenTTL)
	}
	return nil
}
