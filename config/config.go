// Package config loads harmonline's settings from YAML.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/jsphweid/harmonline/constants"
	"github.com/jsphweid/harmonline/model"
)

type Config struct {
	LogLevel string `yaml:"log_level"`
	// Key spells names when a request gives none.
	Key           string       `yaml:"key"`
	IncludeShells bool         `yaml:"include_shells"`
	Serve         ServeConfig  `yaml:"serve"`
	Listen        ListenConfig `yaml:"listen"`
}

type ServeConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type ListenConfig struct {
	Port         int `yaml:"port"`
	SettleMillis int `yaml:"settle_ms"`
	// WSAddr, when set, serves live updates over websocket.
	WSAddr string `yaml:"ws_addr"`
}

func Default() Config {
	return Config{
		LogLevel: constants.DefaultLogLevel,
		Key:      "C",
		Serve: ServeConfig{
			Addr:           constants.DefaultAddr,
			AllowedOrigins: []string{"*"},
		},
		Listen: ListenConfig{
			SettleMillis: constants.DefaultSettleMillis,
		},
	}
}

// Load reads path over the defaults; fields absent from the file keep their
// default. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.Serve.Addr = constants.GetAddr(cfg.Serve.Addr)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if _, err := c.DefaultKey(); err != nil {
		return err
	}
	if c.Listen.Port < 0 {
		return fmt.Errorf("config: listen port %d is negative", c.Listen.Port)
	}
	if c.Listen.SettleMillis < 0 {
		return fmt.Errorf("config: settle_ms %d is negative", c.Listen.SettleMillis)
	}
	return nil
}

func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return level, nil
}

func (c Config) DefaultKey() (*model.Key, error) {
	k, err := model.ParseKey(c.Key)
	if err != nil {
		return nil, fmt.Errorf("config: key: %w", err)
	}
	return k, nil
}

func (c Config) Settle() time.Duration {
	return time.Duration(c.Listen.SettleMillis) * time.Millisecond
}

// Marshal renders c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
