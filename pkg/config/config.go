package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// RateLimitClass is one named fixed-window budget. Each endpoint class gets
// an independent counter space.
type RateLimitClass struct {
	Window      time.Duration `yaml:"window"`
	MaxRequests int           `yaml:"max_requests"`
}

type Config struct {
	Server struct {
		Address         string        `yaml:"address"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	Monitoring struct {
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
	} `yaml:"monitoring"`

	Tracing struct {
		Enabled     bool    `yaml:"enabled"`
		JaegerURL   string  `yaml:"jaeger_url"`
		Environment string  `yaml:"environment"`
		SampleRate  float64 `yaml:"sample_rate"`
	} `yaml:"tracing"`

	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		PoolSize int    `yaml:"pool_size"`
	} `yaml:"redis"`

	Auth struct {
		JWTSecret string        `yaml:"jwt_secret"`
		TokenTTL  time.Duration `yaml:"token_ttl"`
	} `yaml:"auth"`

	Streams struct {
		MaxConcurrent int `yaml:"max_concurrent"`
	} `yaml:"streams"`

	RateLimiting struct {
		Enabled bool `yaml:"enabled"`

		// Coarse per-IP edge throttle in front of everything.
		HTTP struct {
			RequestsPerSecond float64 `yaml:"requests_per_second"`
			Burst             int     `yaml:"burst"`
			MaxConcurrent     int     `yaml:"max_concurrent"`
		} `yaml:"http"`

		// Fixed-window budgets per endpoint class.
		Classes struct {
			Auth    RateLimitClass `yaml:"auth"`
			Payment RateLimitClass `yaml:"payment"`
			Upload  RateLimitClass `yaml:"upload"`
			API     RateLimitClass `yaml:"api"`
			Media   RateLimitClass `yaml:"media"`
		} `yaml:"classes"`
	} `yaml:"rate_limiting"`

	Gatekeeper struct {
		BlockedUserAgents []string `yaml:"blocked_user_agents"`
		RequiredHeaders   []string `yaml:"required_headers"`
		AccessLogCapacity int      `yaml:"access_log_capacity"`
	} `yaml:"gatekeeper"`
}

// Validate checks that configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	// Server
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

	// Logging
	if c.Logging.Level == "" {
		return fmt.Errorf("logging.level must not be empty")
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Address == "" {
			return fmt.Errorf("redis.address must not be empty when redis.enabled=true")
		}
		if c.Redis.PoolSize <= 0 {
			return fmt.Errorf("redis.pool_size must be > 0 when redis.enabled=true")
		}
	}

	// Auth
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be > 0")
	}

	// Streams
	if c.Streams.MaxConcurrent <= 0 {
		return fmt.Errorf("streams.max_concurrent must be > 0")
	}

	// Rate limiting
	if c.RateLimiting.Enabled {
		if c.RateLimiting.HTTP.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate_limiting.http.requests_per_second must be > 0 when rate limiting is enabled")
		}
		if c.RateLimiting.HTTP.Burst <= 0 {
			return fmt.Errorf("rate_limiting.http.burst must be > 0 when rate limiting is enabled")
		}
		if c.RateLimiting.HTTP.MaxConcurrent < 0 {
			return fmt.Errorf("rate_limiting.http.max_concurrent must be >= 0 when rate limiting is enabled")
		}
		classes := map[string]RateLimitClass{
			"auth":    c.RateLimiting.Classes.Auth,
			"payment": c.RateLimiting.Classes.Payment,
			"upload":  c.RateLimiting.Classes.Upload,
			"api":     c.RateLimiting.Classes.API,
			"media":   c.RateLimiting.Classes.Media,
		}
		for name, class := range classes {
			if class.Window <= 0 {
				return fmt.Errorf("rate_limiting.classes.%s.window must be > 0 when rate limiting is enabled", name)
			}
			if class.MaxRequests <= 0 {
				return fmt.Errorf("rate_limiting.classes.%s.max_requests must be > 0 when rate limiting is enabled", name)
			}
		}
	}

	// Gatekeeper
	if c.Gatekeeper.AccessLogCapacity <= 0 {
		return fmt.Errorf("gatekeeper.access_log_capacity must be > 0")
	}

	return nil
}

// Load reads configuration from YAML file, applies defaults and env overrides.
func Load(configPath string) (*Config, error) {
	// If file does not exist, fall back to defaults
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

// DefaultConfig returns configuration with sane development defaults.
// Production deployments ship a stricter file (shorter token TTL, lower
// concurrent stream cap).
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Server.Address = ":8080"
	cfg.Server.ReadTimeout = 30 * time.Second
	cfg.Server.WriteTimeout = 30 * time.Second
	cfg.Server.ShutdownTimeout = 30 * time.Second

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"

	cfg.Monitoring.PrometheusEnabled = true

	cfg.Tracing.Enabled = false
	cfg.Tracing.JaegerURL = "http://localhost:14268/api/traces"
	cfg.Tracing.Environment = "development"
	cfg.Tracing.SampleRate = 1.0

	cfg.Redis.Enabled = false
	cfg.Redis.Address = "localhost:6379"
	cfg.Redis.DB = 0
	cfg.Redis.PoolSize = 10

	cfg.Auth.JWTSecret = "change-me-in-production"
	cfg.Auth.TokenTTL = 60 * time.Minute

	cfg.Streams.MaxConcurrent = 3

	cfg.RateLimiting.Enabled = true
	cfg.RateLimiting.HTTP.RequestsPerSecond = 50
	cfg.RateLimiting.HTTP.Burst = 100
	cfg.RateLimiting.HTTP.MaxConcurrent = 0
	cfg.RateLimiting.Classes.Auth = RateLimitClass{Window: 15 * time.Minute, MaxRequests: 20}
	cfg.RateLimiting.Classes.Payment = RateLimitClass{Window: time.Hour, MaxRequests: 10}
	cfg.RateLimiting.Classes.Upload = RateLimitClass{Window: time.Hour, MaxRequests: 30}
	cfg.RateLimiting.Classes.API = RateLimitClass{Window: time.Minute, MaxRequests: 120}
	cfg.RateLimiting.Classes.Media = RateLimitClass{Window: time.Minute, MaxRequests: 60}

	cfg.Gatekeeper.BlockedUserAgents = []string{
		"wget", "curl", "python-requests", "aria2", "youtube-dl", "yt-dlp",
		"ffmpeg", "go-http-client", "scrapy", "httrack", "bot", "spider",
	}
	cfg.Gatekeeper.RequiredHeaders = []string{"User-Agent", "Accept"}
	cfg.Gatekeeper.AccessLogCapacity = 1000

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("MEDIAGATE_SERVER_ADDRESS"); addr != "" {
		c.Server.Address = addr
	}
	if level := os.Getenv("MEDIAGATE_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if secret := os.Getenv("MEDIAGATE_JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}
	if ttl := os.Getenv("MEDIAGATE_TOKEN_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			c.Auth.TokenTTL = d
		}
	}
	if max := os.Getenv("MEDIAGATE_MAX_CONCURRENT_STREAMS"); max != "" {
		if n, err := strconv.Atoi(max); err == nil {
			c.Streams.MaxConcurrent = n
		}
	}
	if addr := os.Getenv("MEDIAGATE_REDIS_ADDRESS"); addr != "" {
		c.Redis.Enabled = true
		c.Redis.Address = addr
	}
}
