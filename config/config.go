// Package config resolves runtime settings for wardrive-maint.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultServiceHost is used when neither SERVICE_HOST nor the config file
	// provide a host.
	DefaultServiceHost = "http://localhost:3000"

	// DefaultConfigPath is resolved relative to the working directory.
	DefaultConfigPath = "config.json"

	DefaultMaxAgeDays = 14
	DefaultTimeout    = 30 * time.Second
)

// Where the service host came from.
const (
	SourceEnv     = "env"
	SourceFile    = "file"
	SourceDefault = "default"
)

// Config holds the settings for one run.
type Config struct {
	ServiceHost string
	HostSource  string
	MaxAgeDays  int
	Timeout     time.Duration
	ConfigPath  string
	LogLevel    string
	AuthSecret  string

	// FileErr records why the config file was not used, if it was consulted.
	// It is informational only.
	FileErr error
}

// fileConfig models the optional config file.
type fileConfig struct {
	ServiceHost string `json:"service_host" yaml:"service_host"`
}

// Load reads config from environment variables, the config file and defaults.
// An empty path means MAINT_CONFIG, then DefaultConfigPath.
func Load(path string) *Config {
	if path == "" {
		path = getEnv("MAINT_CONFIG", DefaultConfigPath)
	}

	cfg := &Config{
		ConfigPath: path,
		MaxAgeDays: maxAgeDays(),
		Timeout:    DefaultTimeout,
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		AuthSecret: os.Getenv("MAINT_AUTH_SECRET"),
	}

	if host := os.Getenv("SERVICE_HOST"); host != "" {
		cfg.ServiceHost = host
		cfg.HostSource = SourceEnv
		return cfg
	}

	host, err := hostFromFile(path)
	if err != nil {
		cfg.FileErr = err
		cfg.ServiceHost = DefaultServiceHost
		cfg.HostSource = SourceDefault
		return cfg
	}
	cfg.ServiceHost = host
	cfg.HostSource = SourceFile
	return cfg
}

// hostFromFile returns service_host from the file at path. Any failure,
// including a missing or empty field, is returned as an error.
func hostFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return "", fmt.Errorf("parse config %s: %w", path, err)
	}
	if fc.ServiceHost == "" {
		return "", fmt.Errorf("config %s: service_host not set", path)
	}
	return fc.ServiceHost, nil
}

// maxAgeDays reads CONSOLIDATE_MAX_AGE_DAYS. Values that are not positive
// integers fall back to DefaultMaxAgeDays.
func maxAgeDays() int {
	v := strings.TrimSpace(os.Getenv("CONSOLIDATE_MAX_AGE_DAYS"))
	if v == "" {
		return DefaultMaxAgeDays
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return DefaultMaxAgeDays
	}
	return n
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
