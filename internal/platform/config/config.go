package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Index backends.
const (
	IndexMemory   = "memory"
	IndexPostgres = "postgres"
	IndexRedis    = "redis"
)

// Tracing exporters.
const (
	TracingNone   = "none"
	TracingStdout = "stdout"
	TracingOTLP   = "otlp"
)

// DefaultContractAddress is the demo deployment the front-end was built against.
const DefaultContractAddress = "0x499b6bfbc31e63C42EB477E9a883bAE2242a8B71"

// Config is the process configuration, read once at startup.
type Config struct {
	Server   Server
	Ledger   LedgerConfig
	Index    IndexConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Log      LogConfig
	Tracing  TracingConfig
	Feedback FeedbackConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	RequestTimeout time.Duration
}

// LedgerConfig points the connector at a JSON-RPC node and the deployed registry.
type LedgerConfig struct {
	RPCURL          string
	ContractAddress string
	GasLimit        uint64
	AccountIndex    int
	ReceiptPoll     time.Duration
	ReceiptTimeout  time.Duration
}

// IndexConfig selects the off-chain property index.
type IndexConfig struct {
	Backend     string
	Collection  string
	DatabaseURL string
}

// RedisConfig configures the go-redis client used by the redis index backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig enables the property event stream when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type LogConfig struct {
	Format string
	Level  string
}

// TracingConfig selects the span exporter. "none" keeps a no-op tracer.
type TracingConfig struct {
	Exporter     string
	OTLPEndpoint string
	SampleRate   float64
	ServiceName  string
}

// FeedbackConfig controls the banner shown after each action.
type FeedbackConfig struct {
	TTL time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:           envString("LANDREG_ADDR", ":8080"),
			RequestTimeout: envDuration("LANDREG_REQUEST_TIMEOUT", 3*time.Minute),
		},
		Ledger: LedgerConfig{
			RPCURL:          envString("LEDGER_RPC_URL", "http://127.0.0.1:7545"),
			ContractAddress: envString("LEDGER_CONTRACT_ADDRESS", DefaultContractAddress),
			GasLimit:        uint64(envInt("LEDGER_GAS_LIMIT", 3000000)),
			AccountIndex:    envInt("LEDGER_ACCOUNT_INDEX", 0),
			ReceiptPoll:     envDuration("LEDGER_RECEIPT_POLL", 500*time.Millisecond),
			ReceiptTimeout:  envDuration("LEDGER_RECEIPT_TIMEOUT", 2*time.Minute),
		},
		Index: IndexConfig{
			Backend:     strings.ToLower(envString("INDEX_BACKEND", IndexMemory)),
			Collection:  envString("INDEX_COLLECTION", "properties"),
			DatabaseURL: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   envString("KAFKA_TOPIC", "landregistry.events"),
		},
		Log: LogConfig{
			Format: strings.ToLower(envString("LOG_FORMAT", "json")),
			Level:  strings.ToLower(envString("LOG_LEVEL", "info")),
		},
		Tracing: TracingConfig{
			Exporter:     strings.ToLower(envString("TRACING_EXPORTER", TracingNone)),
			OTLPEndpoint: envString("OTLP_ENDPOINT", "localhost:4317"),
			SampleRate:   envFloat("TRACING_SAMPLE_RATE", 1.0),
			ServiceName:  envString("TRACING_SERVICE_NAME", "landregistry"),
		},
		Feedback: FeedbackConfig{
			TTL: envDuration("FEEDBACK_TTL", 5*time.Second),
		},
	}
}

// Validate rejects combinations the process cannot start with.
func (c Config) Validate() error {
	var errs []error
	switch c.Index.Backend {
	case IndexMemory:
	case IndexPostgres:
		if c.Index.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres index"))
		}
	case IndexRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis index"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown INDEX_BACKEND %q", c.Index.Backend))
	}
	if c.Index.Collection == "" {
		errs = append(errs, errors.New("INDEX_COLLECTION must not be empty"))
	}
	if c.Ledger.GasLimit == 0 {
		errs = append(errs, errors.New("LEDGER_GAS_LIMIT must be positive"))
	}
	if c.Ledger.AccountIndex < 0 {
		errs = append(errs, errors.New("LEDGER_ACCOUNT_INDEX must not be negative"))
	}
	if c.Ledger.ReceiptPoll <= 0 {
		errs = append(errs, errors.New("LEDGER_RECEIPT_POLL must be positive"))
	}
	switch c.Tracing.Exporter {
	case TracingNone, TracingStdout, TracingOTLP:
	default:
		errs = append(errs, fmt.Errorf("unknown TRACING_EXPORTER %q", c.Tracing.Exporter))
	}
	if c.Feedback.TTL <= 0 {
		errs = append(errs, errors.New("FEEDBACK_TTL must be positive"))
	}
	return errors.Join(errs...)
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
