package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverMongo  = "mongo"
	StoreDriverMemory = "memory"
)

type Config struct {
	Server    ServerConfig
	Worker    WorkerConfig
	Logging   LoggingConfig
	EventBus  EventBusConfig
	Store     StoreConfig
	Mongo     MongoConfig
	Gateway   GatewayConfig
	Realtime  RealtimeConfig
	Reconcile ReconcileConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ShutdownTimeout time.Duration
}

type WorkerConfig struct {
	PoolSize   int
	MaxRetries int
}

type LoggingConfig struct {
	Level string
}

type EventBusConfig struct {
	ChannelBufferSize int
}

type StoreConfig struct {
	Driver string
}

type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

type GatewayConfig struct {
	STKPushURL  string
	Username    string
	Password    string
	CallbackURL string
	ChannelID   int
	Provider    string
	Timeout     time.Duration
}

type RealtimeConfig struct {
	SendTimeout        time.Duration
	PingInterval       time.Duration
	MaxConcurrentSends int
	AllowedOrigins     []string
}

type ReconcileConfig struct {
	PendingExpiry time.Duration
	SweepInterval time.Duration
}

type RateLimitConfig struct {
	InitiateRPS   float64
	InitiateBurst int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values")
	}

	return &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Worker: WorkerConfig{
			PoolSize:   getIntEnv("WORKER_POOL_SIZE", 10),
			MaxRetries: getIntEnv("MAX_RETRIES", 5),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		EventBus: EventBusConfig{
			ChannelBufferSize: getIntEnv("EVENT_CHANNEL_BUFFER_SIZE", 1000),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverMongo)),
		},
		Mongo: MongoConfig{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("DATABASE_NAME", "donations"),
			ConnectTimeout: getDurationEnv("MONGODB_CONNECT_TIMEOUT", 10*time.Second),
		},
		Gateway: GatewayConfig{
			STKPushURL:  getEnv("PAYHERO_STKPUSH_URL", "https://backend.payhero.co.ke/api/v2/payments"),
			Username:    getEnv("PAYHERO_USERNAME", ""),
			Password:    getEnv("PAYHERO_PASSWORD", ""),
			CallbackURL: getEnv("PAYHERO_CALLBACK_URL", ""),
			ChannelID:   getIntEnv("PAYHERO_CHANNEL_ID", 2175),
			Provider:    getEnv("PAYHERO_PROVIDER", "m-pesa"),
			Timeout:     getDurationEnv("PAYHERO_TIMEOUT", 60*time.Second),
		},
		Realtime: RealtimeConfig{
			SendTimeout:        getDurationEnv("REALTIME_SEND_TIMEOUT", 5*time.Second),
			PingInterval:       getDurationEnv("REALTIME_PING_INTERVAL", 30*time.Second),
			MaxConcurrentSends: getIntEnv("REALTIME_MAX_CONCURRENT_SENDS", 64),
			AllowedOrigins:     getListEnv("FRONTEND_URL", []string{"http://localhost:3000"}),
		},
		Reconcile: ReconcileConfig{
			PendingExpiry: getDurationEnv("RECONCILE_PENDING_EXPIRY", 30*time.Minute),
			SweepInterval: getDurationEnv("RECONCILE_SWEEP_INTERVAL", time.Minute),
		},
		RateLimit: RateLimitConfig{
			InitiateRPS:   getFloatEnv("RATE_LIMIT_INITIATE_RPS", 1),
			InitiateBurst: getIntEnv("RATE_LIMIT_INITIATE_BURST", 5),
		},
	}
}

// Validate reports every setting the service cannot start without.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case StoreDriverMemory:
	case StoreDriverMongo:
		if c.Mongo.URI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required for the mongo store"))
		}
		if c.Mongo.Database == "" {
			errs = append(errs, errors.New("DATABASE_NAME is required for the mongo store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}

	if c.Gateway.STKPushURL == "" {
		errs = append(errs, errors.New("PAYHERO_STKPUSH_URL is required"))
	}
	if c.Gateway.Username == "" || c.Gateway.Password == "" {
		errs = append(errs, errors.New("PAYHERO_USERNAME and PAYHERO_PASSWORD are required"))
	}
	if c.Gateway.CallbackURL == "" {
		errs = append(errs, errors.New("PAYHERO_CALLBACK_URL is required"))
	}
	if c.RateLimit.InitiateRPS < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_INITIATE_RPS must not be negative"))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

func getFloatEnv(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default: %g", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid duration for %s: %s, using default: %s", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// getListEnv splits a comma separated value, dropping empty entries.
func getListEnv(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
