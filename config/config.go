package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all app configuration
type Config struct {
	// Server
	Env      string
	HTTPPort string

	// Storage: a postgres:// or postgresql:// DSN selects the Postgres
	// backend, anything else is treated as a SQLite file path
	DatabaseURL string

	// Redis (optional enrichment snapshot store)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Kafka (optional activity event queue). With the consumer enabled the
	// analytics sink is fed through the topic instead of in-process.
	KafkaBrokers         []string
	KafkaTopic           string
	KafkaConsumerGroup   string
	KafkaConsumerEnabled bool

	// ClickHouse (optional activity analytics sink)
	ClickhouseAddr     string
	ClickhouseUsername string
	ClickhousePassword string
	ClickhouseTimeout  int

	// Enrichment provider
	NansenAPIKey    string
	NansenBaseURL   string
	NansenTimeout   time.Duration
	EnrichmentTTL   time.Duration
	SolanaBaseAsset string

	// Feed
	FeedQuota     int
	FeedScanLimit int

	// Auth
	AuthRequired bool

	// App settings
	EventBufferSize int
	Debug           bool
}

// LoadConfig loads configuration from environment variables, with optional .env file
func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := &Config{
		// Server
		Env:      getEnv("ENV", "local"),
		HTTPPort: getEnv("HTTP_PORT", "8000"),

		// Storage
		DatabaseURL: getEnv("DATABASE_URL", "smartmoney.db"),

		// Redis
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// Kafka
		KafkaBrokers:         getEnvAsSlice("KAFKA_BROKERS", nil, ","),
		KafkaTopic:           getEnv("KAFKA_TOPIC", "activity-events"),
		KafkaConsumerGroup:   getEnv("KAFKA_CONSUMER_GROUP", "smartmatch-group"),
		KafkaConsumerEnabled: getEnvAsBool("KAFKA_CONSUMER_ENABLED", false),

		// ClickHouse
		ClickhouseAddr:     getEnv("CLICKHOUSE_ADDR", ""),
		ClickhouseUsername: getEnv("CLICKHOUSE_USERNAME", ""),
		ClickhousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),
		ClickhouseTimeout:  getEnvAsInt("CLICKHOUSE_TIMEOUT", 10),

		// Enrichment provider
		NansenAPIKey:    getEnv("NANSEN_API_KEY", ""),
		NansenBaseURL:   getEnv("NANSEN_BASE_URL", "https://api.nansen.ai/api/v1"),
		NansenTimeout:   getEnvAsDuration("NANSEN_TIMEOUT", 10*time.Second),
		EnrichmentTTL:   getEnvAsDuration("ENRICHMENT_TTL", 5*time.Minute),
		SolanaBaseAsset: getEnv("BASE_ASSET_SYMBOL", "SOL"),

		// Feed
		FeedQuota:     getEnvAsInt("FEED_QUOTA", 8),
		FeedScanLimit: getEnvAsInt("FEED_SCAN_LIMIT", 12),

		// Auth
		AuthRequired: getEnvAsBool("AUTH_REQUIRED", false),

		// App settings
		EventBufferSize: getEnvAsInt("EVENT_BUFFER_SIZE", 1024),
		Debug:           getEnvAsBool("DEBUG", false),
	}

	return cfg
}

// UsePostgres reports whether DatabaseURL points at a Postgres server.
func (c *Config) UsePostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") ||
		strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

// Helper functions for parsing environment variables
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := getEnv(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	valStr := getEnv(key, "")
	if val, err := time.ParseDuration(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsSlice(key string, defaultVal []string, sep string) []string {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultVal
	}
	return strings.Split(valStr, sep)
}
