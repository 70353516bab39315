package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"90s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		SlowRequest     time.Duration `yaml:"slow_request" default:"30s"`
		AllowOrigins    []string      `yaml:"allow_origins"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Model struct {
		BaseURL         string        `yaml:"base_url" default:"https://openrouter.ai/api/v1"`
		APIKey          string        `yaml:"api_key"`
		Name            string        `yaml:"name" default:"anthropic/claude-sonnet-4"`
		MaxOutputTokens int           `yaml:"max_output_tokens" default:"4000"`
		ChatMaxTokens   int           `yaml:"chat_max_tokens" default:"2000"`
		Timeout         time.Duration `yaml:"timeout" default:"60s"`
		ChatTimeout     time.Duration `yaml:"chat_timeout" default:"60s"`
		StrictSchema    bool          `yaml:"strict_schema" default:"true"`
		Temperature     float32       `yaml:"temperature"`
	} `yaml:"model"`
	Analysis struct {
		RecentTxLimit int `yaml:"recent_tx_limit" default:"10"`
	} `yaml:"analysis"`
	RateLimit struct {
		Enabled bool    `yaml:"enabled" default:"true"`
		Burst   float64 `yaml:"burst" default:"10"`
		PerSec  float64 `yaml:"per_sec" default:"0.5"`
	} `yaml:"rate_limit"`
	Cache struct {
		Backend string        `yaml:"backend" default:"memory"`
		TTL     time.Duration `yaml:"ttl" default:"5m"`
		MaxSize int           `yaml:"max_size" default:"1000"`
		L1TTL   time.Duration `yaml:"l1_ttl" default:"1m"`
		Redis   struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			PoolSize int    `yaml:"pool_size" default:"10"`
			Prefix   string `yaml:"prefix" default:"onchainiq"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"onchainiq.analysis"`
		LogTopic     string        `yaml:"log_topic" default:"onchainiq.logs"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		Compression  string        `yaml:"compression" default:"gzip"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		Async        bool          `yaml:"async" default:"true"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file. Unset keys take their
// defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML into a defaulted Config without validating it.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML, overrides it with environment
// variables and validates the result. An empty path skips the file.
func LoadWithEnv(path string) (*Config, error) {
	var (
		c   *Config
		err error
	)
	if path == "" {
		c, err = Parse(nil)
	} else {
		c, err = Load(path)
	}
	if err != nil {
		return nil, err
	}

	if err := c.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				return v
			}
		}
		return ""
	}

	if v := get("MODEL_API_KEY", "OPENROUTER_API_KEY", "OPENAI_API_KEY"); v != "" {
		c.Model.APIKey = v
	}
	if v := get("MODEL_NAME"); v != "" {
		c.Model.Name = v
	}
	if v := get("MODEL_BASE_URL"); v != "" {
		c.Model.BaseURL = v
	}
	if v := get("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := get("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := get("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := get("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	if c.Environment == "" {
		errs = append(errs, fmt.Errorf("environment is required"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.Model.Name == "" {
		errs = append(errs, fmt.Errorf("model.name is required"))
	}
	if c.Model.BaseURL == "" {
		errs = append(errs, fmt.Errorf("model.base_url is required"))
	}
	if c.Model.APIKey == "" && c.Environment == "production" {
		errs = append(errs, fmt.Errorf("model.api_key is required in production"))
	}
	if c.Model.Timeout <= 0 || c.Model.ChatTimeout <= 0 {
		errs = append(errs, fmt.Errorf("model timeouts must be positive"))
	}
	switch c.Cache.Backend {
	case "none", "memory", "redis", "layered":
	default:
		errs = append(errs, fmt.Errorf("cache.backend must be 'none', 'memory', 'redis' or 'layered', got '%s'", c.Cache.Backend))
	}
	if c.RateLimit.Enabled && c.RateLimit.Burst < 1 {
		errs = append(errs, fmt.Errorf("rate_limit.burst must be at least 1"))
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled"))
	}
	return errors.Join(errs...)
}
