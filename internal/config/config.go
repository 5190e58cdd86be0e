package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	// SQLite Configuration (empty path falls back to the in-memory store)
	SQLitePath string
	SeedData   bool
	// JWT Configuration
	JWTSecret string
	// Redis Configuration (optional - for report cache)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	CacheTTL      int  // Cache TTL in seconds
	UseCache      bool // Whether to use cache (Redis) or not
	// Kafka Configuration
	KafkaBrokers        []string
	KafkaTopicOrders    string
	KafkaTopicInventory string
	KafkaClientID       string
	KafkaAcks           string
	KafkaRetries        int
	UseKafka            bool
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Parse Kafka brokers (comma-separated)
	kafkaBrokersStr := getEnv("KAFKA_BROKERS", "localhost:9093")
	kafkaBrokers := strings.Split(kafkaBrokersStr, ",")
	for i, broker := range kafkaBrokers {
		kafkaBrokers[i] = strings.TrimSpace(broker)
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		SQLitePath:  getEnv("SQLITE_PATH", ""),
		SeedData:    getEnvAsBool("SEED_DATA", true),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key-change-in-production-min-32-chars"),
		// Redis Configuration (optional)
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		CacheTTL:      getEnvAsInt("CACHE_TTL", 300),
		UseCache:      getEnvAsBool("USE_CACHE", false),
		// Kafka Configuration
		KafkaBrokers:        kafkaBrokers,
		KafkaTopicOrders:    getEnv("KAFKA_TOPIC_ORDERS", "pharmacy.orders"),
		KafkaTopicInventory: getEnv("KAFKA_TOPIC_INVENTORY", "pharmacy.inventory"),
		KafkaClientID:       getEnv("KAFKA_CLIENT_ID", "pharmacy-portal"),
		KafkaAcks:           getEnv("KAFKA_ACKS", "all"),
		KafkaRetries:        getEnvAsInt("KAFKA_RETRIES", 3),
		UseKafka:            getEnvAsBool("USE_KAFKA", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return result
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return result
}
