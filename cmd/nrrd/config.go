package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const envConfigPath = "NRRD_CONFIG"

// Config represents the nrrd configuration file (~/.config/nrrd/config.yaml).
// Pointer fields distinguish "not set" from zero values.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Reading
	Strict      *bool `yaml:"strict"`
	AnyOrder    *bool `yaml:"any_order"`
	Concurrency *int  `yaml:"concurrency"`

	// Writing
	Encoding string `yaml:"encoding"`

	// Server
	ServerAddress string `yaml:"server_address"`
	ServerRoot    string `yaml:"server_root"`
}

var appConfig Config

func configPath() string {
	if configFile != "" {
		return configFile
	}
	if p := os.Getenv(envConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "nrrd", "config.yaml")
}

// LoadConfig reads the config file. A missing file yields a zero Config; a
// file that exists but does not parse is an error.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func applyGlobalConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

func applyReadConfig(c *cli.Command, cfg Config) {
	if cfg.Strict != nil && !c.IsSet("strict") {
		strict = *cfg.Strict
	}
	if cfg.AnyOrder != nil && !c.IsSet("any-order") {
		anyOrder = *cfg.AnyOrder
	}
	if cfg.Concurrency != nil && !c.IsSet("concurrency") {
		concurrency = *cfg.Concurrency
	}
}

func applyConvertConfig(c *cli.Command, cfg Config, encoding *string) {
	if cfg.Encoding != "" && !c.IsSet("encoding") {
		*encoding = cfg.Encoding
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr, root *string) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.ServerRoot != "" && !c.IsSet("root") {
		*root = cfg.ServerRoot
	}
}
