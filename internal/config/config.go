package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMySQL  = "mysql"
	BackendSQLite = "sqlite"
)

type Config struct {
	AppEnv   string `yaml:"app_env"`
	LogLevel string `yaml:"log_level"`

	HTTPAddr string `yaml:"http_addr"`
	GRPCAddr string `yaml:"grpc_addr"`

	SessionCookie string `yaml:"session_cookie"`
	CheckoutPath  string `yaml:"checkout_path"`

	Storage StorageConfig `yaml:"storage"`
}

type StorageConfig struct {
	Backend    string        `yaml:"backend"`
	RedisAddr  string        `yaml:"redis_addr"`
	RedisTTL   time.Duration `yaml:"redis_ttl"`
	MySQLDSN   string        `yaml:"mysql_dsn"`
	SQLitePath string        `yaml:"sqlite_path"`
}

func Default() Config {
	return Config{
		AppEnv:        "dev",
		LogLevel:      "info",
		HTTPAddr:      ":8080",
		GRPCAddr:      ":50051",
		SessionCookie: "bata_session",
		CheckoutPath:  "pages/checkout.html",
		Storage: StorageConfig{
			Backend:    BackendMemory,
			RedisAddr:  "localhost:6379",
			RedisTTL:   30 * 24 * time.Hour,
			MySQLDSN:   "root:root@tcp(localhost:3306)/bata?parseTime=true",
			SQLitePath: "bata-cart.db",
		},
	}
}

// Load applies, in order: defaults, the YAML file at path (if path is not
// empty), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.GRPCAddr = getEnv("GRPC_ADDR", cfg.GRPCAddr)
	cfg.SessionCookie = getEnv("SESSION_COOKIE", cfg.SessionCookie)
	cfg.CheckoutPath = getEnv("CHECKOUT_PATH", cfg.CheckoutPath)

	cfg.Storage.Backend = strings.ToLower(getEnv("STORAGE_BACKEND", cfg.Storage.Backend))
	cfg.Storage.RedisAddr = getEnv("REDIS_ADDR", cfg.Storage.RedisAddr)
	cfg.Storage.MySQLDSN = getEnv("MYSQL_DSN", cfg.Storage.MySQLDSN)
	cfg.Storage.SQLitePath = getEnv("SQLITE_PATH", cfg.Storage.SQLitePath)

	ttl, err := getEnvDuration("REDIS_TTL", cfg.Storage.RedisTTL)
	if err != nil {
		return err
	}
	cfg.Storage.RedisTTL = ttl
	return nil
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendRedis, BackendMySQL, BackendSQLite:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.RedisTTL < 0 {
		return fmt.Errorf("redis ttl must not be negative")
	}
	if c.SessionCookie == "" {
		return fmt.Errorf("session cookie name is required")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
