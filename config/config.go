package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	DatabasePath string `yaml:"database_path"`

	Backend BackendConfig `yaml:"backend"`
	Web     WebConfig     `yaml:"web"`
	Refresh RefreshConfig `yaml:"refresh"`
}

// BackendConfig defines the order backend connection.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// WebConfig defines the web server settings.
type WebConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	SessionSecret string `yaml:"session_secret"`
}

// RefreshConfig defines the polling behavior of the monitored resources.
type RefreshConfig struct {
	// DashboardInterval is the auto-refresh period for stats and orders
	// while the toggle is on.
	DashboardInterval time.Duration `yaml:"dashboard_interval"`
	// MetricsInterval is the always-on poll period of the metrics view.
	MetricsInterval time.Duration `yaml:"metrics_interval"`
	// AutoStart arms the dashboard auto-refresh at boot.
	AutoStart bool `yaml:"auto_start"`
}

// Defaults returns a Config with sane defaults.
func Defaults() *Config {
	return &Config{
		DatabasePath: "logidash.db",
		Backend: BackendConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 30 * time.Second,
		},
		Web: WebConfig{
			Host: "0.0.0.0",
			Port: 8090,
		},
		Refresh: RefreshConfig{
			DashboardInterval: 10 * time.Second,
			MetricsInterval:   30 * time.Second,
		},
	}
}

// Load reads a YAML config file. If the file doesn't exist, defaults are
// used. The LOGIDASH_BACKEND_URL environment variable overrides the backend
// base URL in either case.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if url := os.Getenv("LOGIDASH_BACKEND_URL"); url != "" {
		c.Backend.BaseURL = url
	}
}

// Save writes the config to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
