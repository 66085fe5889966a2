package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	API           APIConfig           `yaml:"api"`
	Session       SessionConfig       `yaml:"session"`
	Refresh       RefreshConfig       `yaml:"refresh"`
	Redis         RedisConfig         `yaml:"redis"`
	Kafka         KafkaConfig         `yaml:"kafka"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

type SessionConfig struct {
	TokenFile string `yaml:"token_file"`
}

type RefreshConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

func (r RefreshConfig) Interval() time.Duration {
	return time.Duration(r.IntervalSeconds) * time.Second
}

// RedisConfig is optional; an empty Addr disables the snapshot cache.
type RedisConfig struct {
	Addr               string `yaml:"addr"`
	Password           string `yaml:"password"`
	DB                 int    `yaml:"db"`
	SnapshotTTLSeconds int    `yaml:"snapshot_ttl_seconds"`
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// KafkaConfig is optional; without brokers there is no audit trail and no
// invalidation consumer.
type KafkaConfig struct {
	Brokers           []string `yaml:"brokers"`
	AuditTopic        string   `yaml:"audit_topic"`
	InvalidationTopic string   `yaml:"invalidation_topic"`
	GroupID           string   `yaml:"group_id"`
	PublishRetries    int      `yaml:"publish_retries"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type NotificationsConfig struct {
	History int `yaml:"history"`
}

const (
	defaultHTTPAddress = ":8080"
	defaultAPIURL      = "http://localhost:5000"
	defaultTokenFile   = ".eventspark/token"
)

// LoadConfig reads the YAML file at path, applies defaults and then the
// environment. A missing file is not an error; the process runs on defaults.
// Variables from a .env file in the working directory are loaded first and
// never override the real environment.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = defaultHTTPAddress
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultAPIURL
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = 15
	}
	if c.Session.TokenFile == "" {
		c.Session.TokenFile = defaultTokenFile
	}
	if c.Refresh.IntervalSeconds <= 0 {
		c.Refresh.IntervalSeconds = 30
	}
	if c.Redis.SnapshotTTLSeconds <= 0 {
		c.Redis.SnapshotTTLSeconds = 600
	}
	if c.Kafka.AuditTopic == "" {
		c.Kafka.AuditTopic = "eventspark.audit"
	}
	if c.Kafka.InvalidationTopic == "" {
		c.Kafka.InvalidationTopic = "eventspark.invalidations"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "eventspark-dashboard"
	}
	if c.Kafka.PublishRetries <= 0 {
		c.Kafka.PublishRetries = 3
	}
	if c.Notifications.History <= 0 {
		c.Notifications.History = 50
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("SESSION_TOKEN_FILE"); v != "" {
		c.Session.TokenFile = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		c.HTTP.Address = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
}
