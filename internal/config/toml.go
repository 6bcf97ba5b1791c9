// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Client ClientConfig `toml:"client"`
	Server ServerConfig `toml:"server"`
}

// ClientConfig maps racing client settings.
type ClientConfig struct {
	ServerURL *string `toml:"server-url"`
	Language  *string `toml:"language"`
	UserID    *string `toml:"user-id"`
}

// ServerConfig maps the service addresses and storage location.
type ServerConfig struct {
	Addr              *string `toml:"addr"`
	StatisticsAddr    *string `toml:"statistics-addr"`
	NotificationsAddr *string `toml:"notifications-addr"`
	StatisticsURL     *string `toml:"statistics-url"`
	NotificationsURL  *string `toml:"notifications-url"`
	DBPath            *string `toml:"db-path"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
