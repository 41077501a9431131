package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all storefront configuration
type Config struct {
	App      AppConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Backend  BackendConfig
	Store    StoreConfig
	Sync     SyncConfig
	Auth     AuthConfig
	Checkout CheckoutConfig
	Kafka    KafkaConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds server timeouts
type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// BackendConfig describes the REST backend the storefront talks to
type BackendConfig struct {
	BaseURL            string
	RequestTimeout     time.Duration
	BreakerMaxFailures uint32
	BreakerTimeout     time.Duration
}

// StoreConfig selects and configures the durable slot driver
type StoreConfig struct {
	Driver        string // memory, redis, mongo, sqlite, postgres
	Prefix        string
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	MongoURI      string
	MongoDatabase string
	SQLitePath    string
	PostgresDSN   string
}

// SyncConfig selects which entities reload on changes made by another reader
type SyncConfig struct {
	Session  bool
	Cart     bool
	Wishlist bool
}

// AuthConfig holds settings for locally issued tokens
type AuthConfig struct {
	TokenSecret string
	TokenTTL    time.Duration
	Issuer      string
}

// CheckoutConfig holds checkout gate switches
type CheckoutConfig struct {
	RequireUPIID       bool
	RequireIndianPhone bool
}

// KafkaConfig holds order event publication settings
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

var validDrivers = map[string]bool{
	"memory":   true,
	"redis":    true,
	"mongo":    true,
	"sqlite":   true,
	"postgres": true,
}

// Load reads configuration from config.toml and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with STOREFRONT_ prefix (e.g., STOREFRONT_STORE_DRIVER)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Booleans cannot be told apart from "unset" after GetBool, so they get viper defaults.
	v.SetDefault("sync.session", true)
	v.SetDefault("sync.cart", false)
	v.SetDefault("sync.wishlist", false)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			IdleTimeout:     v.GetDuration("http.idle_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
		},
		Backend: BackendConfig{
			BaseURL:            v.GetString("backend.base_url"),
			RequestTimeout:     v.GetDuration("backend.request_timeout"),
			BreakerMaxFailures: v.GetUint32("backend.breaker_max_failures"),
			BreakerTimeout:     v.GetDuration("backend.breaker_timeout"),
		},
		Store: StoreConfig{
			Driver:        v.GetString("store.driver"),
			Prefix:        v.GetString("store.prefix"),
			TTL:           v.GetDuration("store.ttl"),
			RedisAddr:     v.GetString("store.redis_addr"),
			RedisPassword: v.GetString("store.redis_password"),
			RedisDB:       v.GetInt("store.redis_db"),
			MongoURI:      v.GetString("store.mongo_uri"),
			MongoDatabase: v.GetString("store.mongo_database"),
			SQLitePath:    v.GetString("store.sqlite_path"),
			PostgresDSN:   v.GetString("store.postgres_dsn"),
		},
		Sync: SyncConfig{
			Session:  v.GetBool("sync.session"),
			Cart:     v.GetBool("sync.cart"),
			Wishlist: v.GetBool("sync.wishlist"),
		},
		Auth: AuthConfig{
			TokenSecret: v.GetString("auth.token_secret"),
			TokenTTL:    v.GetDuration("auth.token_ttl"),
			Issuer:      v.GetString("auth.issuer"),
		},
		Checkout: CheckoutConfig{
			RequireUPIID:       v.GetBool("checkout.require_upi_id"),
			RequireIndianPhone: v.GetBool("checkout.require_indian_phone"),
		},
		Kafka: KafkaConfig{
			Enabled: v.GetBool("kafka.enabled"),
			Brokers: splitList(v.GetStringSlice("kafka.brokers")),
			Topic:   v.GetString("kafka.topic"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "storefront"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}

	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = "http://localhost:5000/api"
	}
	if cfg.Backend.RequestTimeout == 0 {
		cfg.Backend.RequestTimeout = 10 * time.Second
	}
	if cfg.Backend.BreakerMaxFailures == 0 {
		cfg.Backend.BreakerMaxFailures = 5
	}
	if cfg.Backend.BreakerTimeout == 0 {
		cfg.Backend.BreakerTimeout = 30 * time.Second
	}

	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "memory"
	}
	if cfg.Store.Prefix == "" {
		cfg.Store.Prefix = "storefront"
	}
	if cfg.Store.RedisAddr == "" {
		cfg.Store.RedisAddr = "localhost:6379"
	}
	if cfg.Store.MongoURI == "" {
		cfg.Store.MongoURI = "mongodb://localhost:27017"
	}
	if cfg.Store.MongoDatabase == "" {
		cfg.Store.MongoDatabase = "storefront"
	}
	if cfg.Store.SQLitePath == "" {
		cfg.Store.SQLitePath = "storefront.db"
	}

	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "storefront"
	}
	if cfg.Auth.TokenSecret == "" && cfg.App.Env != "production" {
		cfg.Auth.TokenSecret = "storefront-development-secret"
	}

	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "orders.placed"
	}
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{"localhost:9092"}
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if !validDrivers[c.Store.Driver] {
		return fmt.Errorf("store.driver %q is not one of memory, redis, mongo, sqlite, postgres", c.Store.Driver)
	}
	if c.Store.Driver == "postgres" && c.Store.PostgresDSN == "" {
		return fmt.Errorf("store.postgres_dsn is required when store.driver is postgres")
	}
	if c.Store.TTL < 0 {
		return fmt.Errorf("store.ttl cannot be negative")
	}
	if c.Backend.RequestTimeout < 0 {
		return fmt.Errorf("backend.request_timeout cannot be negative")
	}

	if c.App.Env == "production" {
		if c.Auth.TokenSecret == "" {
			return fmt.Errorf("auth.token_secret is required in production")
		}
		if len(c.Auth.TokenSecret) < 32 {
			return fmt.Errorf("auth.token_secret must be at least 32 characters in production")
		}
		if c.Store.Driver == "memory" {
			return fmt.Errorf("store.driver cannot be memory in production")
		}
	}

	return nil
}

// splitList accepts both TOML arrays and comma separated env values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
