package config

import (
	"fmt"
	"os"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/joho/godotenv"
)

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"neogarden-api"`
	Port                          int      `env:"PORT" env-default:"8000"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	MaxHeaderBytes                int      `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	ReadHeaderTimeoutSeconds      int      `env:"HTTP_SERVER_READ_HEADER_TIMEOUT_SECONDS" env-default:"10"`
	ShutdownTimeoutSeconds        int      `env:"HTTP_SERVER_SHUTDOWN_TIMEOUT_SECONDS" env-default:"5"`
	AllowOrigins                  []string `env:"CORS_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,HEAD,PUT,PATCH,POST,DELETE"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// Reject unknown fields in request bodies
	StrictRequestBody bool `env:"HTTP_STRICT_REQUEST_BODY" env-default:"true"`
	// Top-level request fields dropped before strict decoding
	RequestFieldAllowlist []string `env:"HTTP_REQUEST_FIELD_ALLOWLIST" env-default:""`
	// Answer garden not-found with 200 and an error body instead of 404
	LegacyNotFoundStatus bool `env:"LEGACY_NOT_FOUND_STATUS" env-default:"false"`

	// Store driver: mongo or badger
	StoreDriver string `env:"STORE_DRIVER" env-default:"mongo"`
	// Mongo connection string
	MongoURL string `env:"MONGO_URL" env-default:"mongodb://localhost:27017"`
	// Database name
	DatabaseName string `env:"DB_NAME" env-default:"neogarden"`
	// Connect and ping timeout
	MongoTimeout time.Duration `env:"MONGO_TIMEOUT" env-default:"10s"`
	// Badger data directory
	BadgerPath string `env:"BADGER_PATH" env-default:"./data/badger"`
	// Run badger without touching disk
	BadgerInMemory bool `env:"BADGER_IN_MEMORY" env-default:"false"`
	// Upper bound for list endpoints
	StoreFetchLimit int `env:"STORE_FETCH_LIMIT" env-default:"1000"`

	// Events: none, kafka or nats
	EventsBroker      string   `env:"EVENTS_BROKER" env-default:"none"`
	KafkaBrokers      []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaEventsTopic  string   `env:"KAFKA_EVENTS_TOPIC" env-default:"neogarden-events"`
	NatsURL           string   `env:"NATS_URL" env-default:"nats://localhost:4222"`
	NatsSubjectPrefix string   `env:"NATS_SUBJECT_PREFIX" env-default:"neogarden"`

	// Redis backed rate limiting of write routes
	RateLimitEnabled  bool          `env:"RATE_LIMIT_ENABLED" env-default:"false"`
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" env-default:"60"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"1m"`
	RedisHost         string        `env:"REDIS_HOST" env-default:"localhost"`
	RedisPort         int           `env:"REDIS_PORT" env-default:"6379"`
	RedisPassword     string        `env:"REDIS_PASSWORD" env-default:""`
	RedisDB           int           `env:"REDIS_DB" env-default:"0"`

	// Tracing: none, stdout or otlp
	TracingExporter string `env:"TRACING_EXPORTER" env-default:"none"`
	OTLPEndpoint    string `env:"OTLP_ENDPOINT" env-default:"localhost:4317"`
	OTLPProtocol    string `env:"OTLP_PROTOCOL" env-default:"grpc"`
	OTLPInsecure    bool   `env:"OTLP_INSECURE" env-default:"true"`

	MetricsEnabled bool `env:"METRICS_ENABLED" env-default:"true"`
}

const (
	StoreDriverMongo  = "mongo"
	StoreDriverBadger = "badger"

	EventsBrokerNone  = "none"
	EventsBrokerKafka = "kafka"
	EventsBrokerNats  = "nats"

	TracingExporterNone   = "none"
	TracingExporterStdout = "stdout"
	TracingExporterOTLP   = "otlp"
)

// Load reads an optional .env file and binds the process environment onto a Config.
// A missing .env file is not an error.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects option values the service cannot start with.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverMongo, StoreDriverBadger:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q (use %q or %q)", c.StoreDriver, StoreDriverMongo, StoreDriverBadger)
	}

	switch c.EventsBroker {
	case EventsBrokerNone, EventsBrokerKafka, EventsBrokerNats:
	default:
		return fmt.Errorf("unsupported EVENTS_BROKER %q", c.EventsBroker)
	}

	switch c.TracingExporter {
	case TracingExporterNone, TracingExporterStdout, TracingExporterOTLP:
	default:
		return fmt.Errorf("unsupported TRACING_EXPORTER %q", c.TracingExporter)
	}

	if c.StoreFetchLimit < 1 {
		return fmt.Errorf("STORE_FETCH_LIMIT must be positive, got %d", c.StoreFetchLimit)
	}

	if c.RateLimitEnabled && (c.RateLimitRequests < 1 || c.RateLimitWindow <= 0) {
		return fmt.Errorf("rate limiting requires a positive RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW")
	}

	return nil
}
