// Package config loads service configuration from an optional yaml file.
// Values not set in the file keep their defaults; the binaries layer env
// overrides on top.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type BridgeConfig struct {
	Port string `yaml:"port"`
}

type NATSConfig struct {
	URL             string `yaml:"url"`
	MaxReconnects   int    `yaml:"max_reconnects"`
	ReconnectWaitMS int    `yaml:"reconnect_wait_ms"`
}

// ReconnectWait returns the configured reconnect wait as a duration.
func (n NATSConfig) ReconnectWait() time.Duration {
	return time.Duration(n.ReconnectWaitMS) * time.Millisecond
}

type Config struct {
	Server ServerConfig `yaml:"server"`
	Bridge BridgeConfig `yaml:"bridge"`
	NATS   NATSConfig   `yaml:"nats"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{Port: "8080"},
		Bridge: BridgeConfig{Port: "8081"},
		NATS: NATSConfig{
			URL:             "nats://localhost:4222",
			MaxReconnects:   5,
			ReconnectWaitMS: 1000,
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port must not be empty")
	}
	if c.Bridge.Port == "" {
		return fmt.Errorf("bridge.port must not be empty")
	}
	if c.NATS.URL == "" {
		return fmt.Errorf("nats.url must not be empty")
	}
	if c.NATS.MaxReconnects < 0 {
		return fmt.Errorf("nats.max_reconnects must be non-negative")
	}
	if c.NATS.ReconnectWaitMS <= 0 {
		return fmt.Errorf("nats.reconnect_wait_ms must be positive")
	}
	return nil
}
