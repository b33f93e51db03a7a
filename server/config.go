package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`
	Storage struct {
		AssetDir string `yaml:"asset_dir"`
	} `yaml:"storage"`
	Advanced struct {
		EnableRequestLogging bool `yaml:"enable_request_logging"`
	} `yaml:"advanced"`
}

func defaultConfig() *ServerConfig {
	cfg := &ServerConfig{}
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080
	cfg.Storage.AssetDir = "assets"
	cfg.Advanced.EnableRequestLogging = true
	return cfg
}

// LoadServerConfig reads the YAML config, falling back to defaults
// when the file is missing.
func LoadServerConfig(path string) (*ServerConfig, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
