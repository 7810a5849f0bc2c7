package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// HTTP holds HTTP server configuration.
type HTTP struct {
	Host string
	Port int
	// LegacyNotFound answers item lookups for missing records with 400 instead of 404.
	LegacyNotFound bool
}

// GRPC holds gRPC server configuration.
type GRPC struct {
	Enabled bool
	Host    string
	Port    int
}

// Cache configures caching behavior and backend selection.
type Cache struct {
	Enabled    bool
	Driver     string
	DefaultTTL time.Duration
	Redis      Redis
}

// Redis contains redis-specific connection settings.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Messaging configures the message bus used by the application.
type Messaging struct {
	Driver        string
	Enabled       bool
	Kafka         Kafka
	ConsumerGroup string
	Workers       Worker
}

// Kafka holds Kafka connection details.
type Kafka struct {
	Brokers        []string
	ClientID       string
	Topic          string
	CommitInterval time.Duration
	MinBytes       int
	MaxBytes       int
	ConnectTimeout time.Duration
}

// Worker configures background worker concurrency and polling.
type Worker struct {
	Enabled      bool
	PollInterval time.Duration
	Concurrency  int
}

// Database holds primary and read replica connection settings.
type Database struct {
	Driver          string
	WriterDSN       string
	ReaderDSN       string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	AutoMigrate     bool
}

// Seed locates the static data files loaded at startup.
type Seed struct {
	Enabled    bool
	Dir        string
	UsersFile  string
	OrdersFile string
	OffersFile string
}

// Observability contains logging, tracing, and metrics configuration.
type Observability struct {
	ServiceName     string
	Environment     string
	LogLevel        string
	LogEncoding     string
	EnableTracing   bool
	TraceExporter   string
	TraceEndpoint   string
	TraceInsecure   bool
	EnableMetrics   bool
	MetricsExporter string
	PrometheusPath  string
}

// Config wraps all application configuration knobs.
type Config struct {
	HTTP          HTTP
	GRPC          GRPC
	Cache         Cache
	Messaging     Messaging
	Database      Database
	Seed          Seed
	Observability Observability
}

// Module wires the configuration loader into the Fx graph.
var Module = fx.Provide(New)

var loadEnvOnce sync.Once

// New builds a Config from environment variables or defaults.
func New() (Config, error) {
	loadEnvOnce.Do(func() {
		_ = godotenv.Load()
	})

	cfg := Config{
		HTTP: HTTP{
			Host:           getEnv("HTTP_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("HTTP_PORT", 8080),
			LegacyNotFound: getEnvAsBool("HTTP_LEGACY_NOT_FOUND", true),
		},
		GRPC: GRPC{
			Enabled: getEnvAsBool("GRPC_ENABLED", false),
			Host:    getEnv("GRPC_HOST", "0.0.0.0"),
			Port:    getEnvAsInt("GRPC_PORT", 9090),
		},
		Cache: Cache{
			Enabled:    getEnvAsBool("CACHE_ENABLED", false),
			Driver:     getEnv("CACHE_DRIVER", "redis"),
			DefaultTTL: getEnvAsDuration("CACHE_DEFAULT_TTL", time.Minute*5),
			Redis: Redis{
				Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
				Password: getEnv("REDIS_PASSWORD", ""),
				DB:       getEnvAsInt("REDIS_DB", 0),
			},
		},
		Messaging: Messaging{
			Driver:  getEnv("MESSAGING_DRIVER", "kafka"),
			Enabled: getEnvAsBool("MESSAGING_ENABLED", false),
			Kafka: Kafka{
				Brokers:        getEnvAsStringSlice("KAFKA_BROKERS", []string{"127.0.0.1:9092"}),
				ClientID:       getEnv("KAFKA_CLIENT_ID", "exchange-service"),
				Topic:          getEnv("KAFKA_TOPIC", "records.events"),
				CommitInterval: getEnvAsDuration("KAFKA_COMMIT_INTERVAL", time.Second),
				MinBytes:       getEnvAsInt("KAFKA_MIN_BYTES", 10e3),
				MaxBytes:       getEnvAsInt("KAFKA_MAX_BYTES", 10e6),
				ConnectTimeout: getEnvAsDuration("KAFKA_CONNECT_TIMEOUT", 5*time.Second),
			},
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "exchange-worker"),
			Workers: Worker{
				Enabled:      getEnvAsBool("WORKER_ENABLED", true),
				PollInterval: getEnvAsDuration("WORKER_POLL_INTERVAL", time.Second),
				Concurrency:  getEnvAsInt("WORKER_CONCURRENCY", 4),
			},
		},
		Database: Database{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			WriterDSN:       getEnv("DB_WRITER_DSN", "file::memory:?cache=shared"),
			ReaderDSN:       getEnv("DB_READER_DSN", ""),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", time.Minute*5),
			AutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Seed: Seed{
			Enabled:    getEnvAsBool("SEED_ON_START", true),
			Dir:        getEnv("SEED_DIR", "data"),
			UsersFile:  getEnv("SEED_USERS_FILE", "Users_data.json"),
			OrdersFile: getEnv("SEED_ORDERS_FILE", "Orders_data.json"),
			OffersFile: getEnv("SEED_OFFERS_FILE", "Offers_data.json"),
		},
		Observability: Observability{
			ServiceName:     getEnv("OBS_SERVICE_NAME", "exchange"),
			Environment:     getEnv("OBS_ENVIRONMENT", "local"),
			LogLevel:        getEnv("OBS_LOG_LEVEL", "info"),
			LogEncoding:     getEnv("OBS_LOG_ENCODING", "json"),
			EnableTracing:   getEnvAsBool("OBS_ENABLE_TRACING", false),
			TraceExporter:   getEnv("OBS_TRACE_EXPORTER", "stdout"),
			TraceEndpoint:   getEnv("OBS_OTLP_ENDPOINT", "localhost:4317"),
			TraceInsecure:   getEnvAsBool("OBS_OTLP_INSECURE", true),
			EnableMetrics:   getEnvAsBool("OBS_ENABLE_METRICS", true),
			MetricsExporter: getEnv("OBS_METRICS_EXPORTER", "prometheus"),
			PrometheusPath:  getEnv("OBS_PROMETHEUS_PATH", "/metrics"),
		},
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// normalize fills derived values and canonicalizes free-form settings.
func (c *Config) normalize() {
	if !c.Cache.Enabled {
		c.Cache.Driver = "noop"
	}
	if c.Cache.DefaultTTL < 0 {
		c.Cache.DefaultTTL = 5 * time.Minute
	}
	if !c.Messaging.Enabled {
		c.Messaging.Driver = "noop"
	}
	if c.Messaging.Workers.Concurrency <= 0 {
		c.Messaging.Workers.Concurrency = 1
	}
	if c.Messaging.Workers.PollInterval <= 0 {
		c.Messaging.Workers.PollInterval = time.Second
	}
	if c.Database.ReaderDSN == "" {
		c.Database.ReaderDSN = c.Database.WriterDSN
	}

	obs := &c.Observability
	obs.LogLevel = canonical(obs.LogLevel, "info")
	obs.LogEncoding = canonical(obs.LogEncoding, "json")
	obs.TraceExporter = canonical(obs.TraceExporter, "stdout")
	obs.MetricsExporter = canonical(obs.MetricsExporter, "prometheus")
	obs.PrometheusPath = "/" + strings.TrimLeft(strings.TrimSpace(obs.PrometheusPath), "/")
	if obs.PrometheusPath == "/" {
		obs.PrometheusPath = "/metrics"
	}
}

func (c Config) validate() error {
	if c.HTTP.Port <= 0 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTP.Port)
	}
	if c.GRPC.Enabled && c.GRPC.Port <= 0 {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPC.Port)
	}

	if err := oneOf("cache driver", c.Cache.Driver, "redis", "memory", "noop"); err != nil {
		return err
	}
	if c.Cache.Driver == "redis" && c.Cache.Redis.Addr == "" {
		return errors.New("missing REDIS_ADDR for redis cache")
	}

	if err := oneOf("messaging driver", c.Messaging.Driver, "kafka", "memory", "noop"); err != nil {
		return err
	}
	if c.Messaging.Driver == "kafka" {
		switch {
		case len(c.Messaging.Kafka.Brokers) == 0:
			return errors.New("KAFKA_BROKERS must be provided")
		case c.Messaging.Kafka.Topic == "":
			return errors.New("KAFKA_TOPIC must be provided")
		case c.Messaging.ConsumerGroup == "":
			return errors.New("KAFKA_CONSUMER_GROUP must be provided")
		}
	}

	if c.Database.WriterDSN == "" {
		return errors.New("missing DB_WRITER_DSN")
	}
	if err := oneOf("database driver", c.Database.Driver, "sqlite", "postgres", "mysql"); err != nil {
		return err
	}

	if c.Seed.Enabled && (c.Seed.UsersFile == "" || c.Seed.OrdersFile == "" || c.Seed.OffersFile == "") {
		return errors.New("seed file names must be provided when SEED_ON_START is set")
	}
	return nil
}

func canonical(v, fallback string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return fallback
	}
	return v
}

func oneOf(what, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("unsupported %s: %s", what, v)
}
