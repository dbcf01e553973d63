package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Address         string        `yaml:"address"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Signal struct {
		Address      string        `yaml:"address"`
		PingInterval time.Duration `yaml:"ping_interval"`
		PongTimeout  time.Duration `yaml:"pong_timeout"`
	} `yaml:"signal"`

	Identity struct {
		IssuerURL       string        `yaml:"issuer_url"`
		ClientID        string        `yaml:"client_id"`
		ClientSecret    string        `yaml:"client_secret"`
		RedirectURL     string        `yaml:"redirect_url"`
		SessionSecret   string        `yaml:"session_secret"`
		SessionTokenTTL time.Duration `yaml:"session_token_ttl"`
	} `yaml:"identity"`

	Store struct {
		Enabled  bool   `yaml:"enabled"`
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		PoolSize int    `yaml:"pool_size"`
	} `yaml:"store"`

	Sync struct {
		BoardCacheTTL time.Duration `yaml:"board_cache_ttl"`
	} `yaml:"sync"`

	Player struct {
		WidgetControlURL     string        `yaml:"widget_control_url"`
		ProgressPollInterval time.Duration `yaml:"progress_poll_interval"`
	} `yaml:"player"`

	Monitoring struct {
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
	} `yaml:"monitoring"`

	RateLimiting struct {
		Enabled           bool    `yaml:"enabled"`
		MessagesPerSecond float64 `yaml:"messages_per_second"`
		Burst             int     `yaml:"burst"`
	} `yaml:"rate_limiting"`

	Tracing struct {
		Enabled     bool    `yaml:"enabled"`
		JaegerURL   string  `yaml:"jaeger_url"`
		Environment string  `yaml:"environment"`
		SampleRate  float64 `yaml:"sample_rate"`
	} `yaml:"tracing"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// Validate checks that configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address must not be empty")
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be > 0")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be > 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be > 0")
	}

	if c.Signal.Address == "" {
		return fmt.Errorf("signal.address must not be empty")
	}
	if c.Signal.PingInterval <= 0 {
		return fmt.Errorf("signal.ping_interval must be > 0")
	}
	if c.Signal.PongTimeout <= 0 {
		return fmt.Errorf("signal.pong_timeout must be > 0")
	}

	if c.Identity.SessionSecret == "" {
		return fmt.Errorf("identity.session_secret must not be empty")
	}
	if c.Identity.SessionTokenTTL <= 0 {
		return fmt.Errorf("identity.session_token_ttl must be > 0")
	}
	if c.Identity.IssuerURL != "" {
		if c.Identity.ClientID == "" {
			return fmt.Errorf("identity.client_id must not be empty when issuer_url is set")
		}
		if c.Identity.RedirectURL == "" {
			return fmt.Errorf("identity.redirect_url must not be empty when issuer_url is set")
		}
	}

	if c.Store.Enabled {
		if c.Store.Address == "" {
			return fmt.Errorf("store.address must not be empty when store.enabled=true")
		}
		if c.Store.PoolSize <= 0 {
			return fmt.Errorf("store.pool_size must be > 0 when store.enabled=true")
		}
	}

	if c.Sync.BoardCacheTTL <= 0 {
		return fmt.Errorf("sync.board_cache_ttl must be > 0")
	}

	if c.Player.WidgetControlURL == "" {
		return fmt.Errorf("player.widget_control_url must not be empty")
	}
	if c.Player.ProgressPollInterval <= 0 {
		return fmt.Errorf("player.progress_poll_interval must be > 0")
	}

	if c.RateLimiting.Enabled {
		if c.RateLimiting.MessagesPerSecond <= 0 {
			return fmt.Errorf("rate_limiting.messages_per_second must be > 0 when rate limiting is enabled")
		}
		if c.RateLimiting.Burst <= 0 {
			return fmt.Errorf("rate_limiting.burst must be > 0 when rate limiting is enabled")
		}
	}

	if c.Tracing.Enabled && c.Tracing.JaegerURL == "" {
		return fmt.Errorf("tracing.jaeger_url must not be empty when tracing.enabled=true")
	}

	if c.Logging.Level == "" {
		return fmt.Errorf("logging.level must not be empty")
	}

	return nil
}

// Load reads configuration from a YAML file, applies defaults and env
// overrides. A missing file falls back to defaults.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config yaml: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns configuration with sane defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Server.Address = ":8080"
	cfg.Server.ReadTimeout = 30 * time.Second
	cfg.Server.WriteTimeout = 30 * time.Second
	cfg.Server.ShutdownTimeout = 30 * time.Second

	cfg.Signal.Address = ":8081"
	cfg.Signal.PingInterval = 30 * time.Second
	cfg.Signal.PongTimeout = 60 * time.Second

	cfg.Identity.SessionSecret = "change-me-in-production"
	cfg.Identity.SessionTokenTTL = 24 * time.Hour

	cfg.Store.Enabled = false
	cfg.Store.Address = "localhost:6379"
	cfg.Store.DB = 0
	cfg.Store.PoolSize = 10

	cfg.Sync.BoardCacheTTL = 30 * time.Second

	cfg.Player.WidgetControlURL = "http://localhost:8090"
	cfg.Player.ProgressPollInterval = 800 * time.Millisecond

	cfg.Monitoring.PrometheusEnabled = true

	cfg.RateLimiting.Enabled = false
	cfg.RateLimiting.MessagesPerSecond = 50
	cfg.RateLimiting.Burst = 100

	cfg.Tracing.Enabled = false
	cfg.Tracing.JaegerURL = "http://localhost:14268/api/traces"
	cfg.Tracing.Environment = "development"
	cfg.Tracing.SampleRate = 1.0

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("VIDBOARD_SERVER_ADDRESS"); addr != "" {
		c.Server.Address = addr
	}
	if addr := os.Getenv("VIDBOARD_SIGNAL_ADDRESS"); addr != "" {
		c.Signal.Address = addr
	}
	if addr := os.Getenv("VIDBOARD_STORE_ADDRESS"); addr != "" {
		c.Store.Address = addr
	}
	if level := os.Getenv("VIDBOARD_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if secret := os.Getenv("VIDBOARD_SESSION_SECRET"); secret != "" {
		c.Identity.SessionSecret = secret
	}
	if secret := os.Getenv("VIDBOARD_OIDC_CLIENT_SECRET"); secret != "" {
		c.Identity.ClientSecret = secret
	}
}
