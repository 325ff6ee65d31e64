package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	pkgerrors "github.com/pkg/errors"
)

type MongoConfig struct {
	URI                    string
	AppName                string
	Database               string
	Timeout                time.Duration
	MaxPoolSize            uint64
	MinPoolSize            uint64
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
}

type RabbitMQConfig struct {
	URL             string
	MaxRetries      int
	RetryDelay      time.Duration
	ExchangeConfigs []ExchangeConfig
}

type ExchangeConfig struct {
	Name       string
	Type       string // direct, topic, fanout, headers
	Durable    bool
	AutoDelete bool
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
	PoolSize int
}

type OutboxConfig struct {
	BatchSize  int
	Interval   time.Duration
	MaxBackoff time.Duration
}

type HTTPConfig struct {
	Port          string
	BindInterface string
	StaticDir     string
	CORSOrigins   []string

	// ExposeErrorStack adds stack traces to error responses.
	ExposeErrorStack bool
}

type LoggerConfig struct {
	Endpoint     string
	ServiceName  string
	IsProduction bool
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

type IdempotencyConfig struct {
	TTL          time.Duration
	PollInterval time.Duration
	PollTimeout  time.Duration
}

type CatalogConfig struct {
	DemoFallback bool
	SeedDemo     bool
}

type Config struct {
	Mongo       MongoConfig
	Redis       RedisConfig
	RabbitMQ    RabbitMQConfig
	Outbox      OutboxConfig
	HTTP        HTTPConfig
	Logger      LoggerConfig
	Auth        AuthConfig
	Catalog     CatalogConfig
	Idempotency IdempotencyConfig
}

func exchange(name string) ExchangeConfig {
	return ExchangeConfig{
		Name:       name,
		Type:       getStringEnv("RABBITMQ_EXCHANGE_TYPE", "direct"),
		Durable:    getBoolEnv("RABBITMQ_EXCHANGE_DURABLE", true),
		AutoDelete: getBoolEnv("RABBITMQ_EXCHANGE_AUTO_DELETE", false),
	}
}

// DefaultJWTSecret only exists so local runs work without setup.
const DefaultJWTSecret = "change-me"

func NewConfig() *Config {
	_ = godotenv.Load()
	return &Config{
		Mongo: MongoConfig{
			URI:                    getStringEnv("MONGO_URI", "mongodb://localhost:27017"),
			AppName:                getStringEnv("MONGO_APP_NAME", "hoodlum-mentality-backend"),
			Database:               getStringEnv("MONGO_DATABASE", "hoodlum"),
			Timeout:                time.Duration(getIntEnv("MONGO_TIMEOUT", 10)) * time.Second,
			MaxPoolSize:            uint64(getIntEnv("MONGO_MAX_POOL_SIZE", 100)),
			MinPoolSize:            uint64(getIntEnv("MONGO_MIN_POOL_SIZE", 10)),
			ConnectTimeout:         time.Duration(getIntEnv("MONGO_CONNECT_TIMEOUT", 10)) * time.Second,
			ServerSelectionTimeout: time.Duration(getIntEnv("MONGO_SERVER_SELECTION_TIMEOUT", 5)) * time.Second,
		},
		Redis: RedisConfig{
			URL:      getStringEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getStringEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			PoolSize: getIntEnv("REDIS_POOL_SIZE", 0),
		},
		Outbox: OutboxConfig{
			BatchSize:  getPositiveIntEnv("OUTBOX_BATCH_SIZE", 100),
			Interval:   time.Duration(getPositiveIntEnv("OUTBOX_INTERVAL", 500)) * time.Millisecond,
			MaxBackoff: getDurationEnv("OUTBOX_MAX_BACKOFF", 30*time.Second),
		},
		HTTP: HTTPConfig{
			Port:             getStringEnv("PORT", "5000"),
			BindInterface:    getStringEnv("HTTP_BIND_INTERFACE", "0.0.0.0"),
			StaticDir:        getStringEnv("STATIC_DIR", "public"),
			CORSOrigins:      getListEnv("CORS_ORIGINS", []string{"http://localhost:3000"}),
			ExposeErrorStack: !getBoolEnv("IS_PRODUCTION", false),
		},
		RabbitMQ: RabbitMQConfig{
			URL:        getStringEnv("RABBITMQ_URL", "amqp://localhost:5672"),
			MaxRetries: getIntEnv("RABBITMQ_MAX_RETRIES", 3),
			RetryDelay: time.Duration(getIntEnv("RABBITMQ_RETRY_DELAY", 1)) * time.Second,
			ExchangeConfigs: []ExchangeConfig{
				exchange("exchange.product"),
				exchange("exchange.order"),
			},
		},
		Logger: LoggerConfig{
			Endpoint:     getStringEnv("OTEL_ENDPOINT", "localhost:4317"),
			ServiceName:  getStringEnv("OTEL_SERVICE_NAME", "hoodlum-mentality-backend"),
			IsProduction: getBoolEnv("IS_PRODUCTION", false),
		},
		Auth: AuthConfig{
			JWTSecret:     getStringEnv("JWT_SECRET", DefaultJWTSecret),
			TokenTTL:      getDurationEnv("JWT_TTL", 30*24*time.Hour),
			AdminName:     getStringEnv("ADMIN_NAME", "Admin"),
			AdminEmail:    getStringEnv("ADMIN_EMAIL", ""),
			AdminPassword: getStringEnv("ADMIN_PASSWORD", ""),
		},
		Catalog: CatalogConfig{
			DemoFallback: getBoolEnv("CATALOG_DEMO_FALLBACK", true),
			SeedDemo:     getBoolEnv("CATALOG_SEED_DEMO", false),
		},
		Idempotency: IdempotencyConfig{
			TTL:          getDurationEnv("IDEMPOTENCY_TTL", 15*time.Minute),
			PollInterval: getDurationEnv("IDEMPOTENCY_POLL_INTERVAL", time.Second),
			PollTimeout:  getDurationEnv("IDEMPOTENCY_POLL_TIMEOUT", 10*time.Second),
		},
	}
}

// Validate rejects settings the server must not start with. In production the
// JWT secret has to be set explicitly, otherwise anyone could sign tokens.
func (c *Config) Validate() error {
	secret := strings.TrimSpace(c.Auth.JWTSecret)
	if secret == "" {
		return pkgerrors.New("config: JWT_SECRET is empty")
	}
	if c.Logger.IsProduction && secret == DefaultJWTSecret {
		return pkgerrors.New("config: JWT_SECRET must be set in production")
	}
	return nil
}

// HasAdminBootstrap reports whether an admin account should be ensured at startup.
func (c AuthConfig) HasAdminBootstrap() bool {
	return strings.TrimSpace(c.AdminEmail) != "" && c.AdminPassword != ""
}
