package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends for the local ledger snapshot.
const (
	StorageBolt   = "bolt"
	StorageMemory = "memory"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	LogLevel     string

	// Ledger
	FunctionalCurrency string
	StorageBackend     string
	SnapshotPath       string
	ChartSeedFile      string

	// Remote sync
	DatabaseURL     string
	RunMigrations   bool
	MigrationsPath  string
	SyncHistoryDB   string
	SyncMaxAttempts int
	SyncRetryDelay  time.Duration
	SyncInterval    time.Duration // background push of pending changes; zero disables it

	// Shared sequence allocator; empty disables it
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Ledger events; no brokers disables publishing
	KafkaBrokers []string
	KafkaTopic   string

	RateLimit              string
	FlushInterval          time.Duration
	IntegrityCheckInterval time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("FUNCTIONAL_CURRENCY", "PKR")
	viper.SetDefault("STORAGE_BACKEND", StorageBolt)
	viper.SetDefault("SNAPSHOT_PATH", "data/ledger.db")
	viper.SetDefault("CHART_SEED_FILE", "")
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("SYNC_HISTORY_DB", "data/sync_history.db")
	viper.SetDefault("SYNC_MAX_ATTEMPTS", 3)
	viper.SetDefault("SYNC_RETRY_DELAY", "2s")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "ledger-events")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("FLUSH_INTERVAL", "30s")
	viper.SetDefault("INTEGRITY_CHECK_INTERVAL", "1h")
	viper.SetDefault("SYNC_INTERVAL", "1m")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.LogLevel = strings.ToLower(viper.GetString("LOG_LEVEL"))

	cfg.FunctionalCurrency = strings.ToUpper(viper.GetString("FUNCTIONAL_CURRENCY"))
	if len(cfg.FunctionalCurrency) != 3 {
		log.Printf("Warning: Invalid FUNCTIONAL_CURRENCY ('%s'). Defaulting to PKR.\n", cfg.FunctionalCurrency)
		cfg.FunctionalCurrency = "PKR"
	}

	cfg.StorageBackend = strings.ToLower(viper.GetString("STORAGE_BACKEND"))
	if cfg.StorageBackend != StorageBolt && cfg.StorageBackend != StorageMemory {
		log.Printf("Warning: Unknown STORAGE_BACKEND ('%s'). Defaulting to %s.\n", cfg.StorageBackend, StorageBolt)
		cfg.StorageBackend = StorageBolt
	}
	cfg.SnapshotPath = viper.GetString("SNAPSHOT_PATH")
	cfg.ChartSeedFile = viper.GetString("CHART_SEED_FILE")

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set. Remote sync is disabled.")
	}
	cfg.RunMigrations = viper.GetBool("RUN_MIGRATIONS")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.SyncHistoryDB = viper.GetString("SYNC_HISTORY_DB")

	cfg.SyncMaxAttempts = viper.GetInt("SYNC_MAX_ATTEMPTS")
	if cfg.SyncMaxAttempts < 1 {
		log.Printf("Warning: Invalid value for SYNC_MAX_ATTEMPTS (%d). Defaulting to 3.\n", cfg.SyncMaxAttempts)
		cfg.SyncMaxAttempts = 3
	}
	cfg.SyncRetryDelay = parseDuration("SYNC_RETRY_DELAY", 2*time.Second)
	cfg.SyncInterval = parseDuration("SYNC_INTERVAL", time.Minute)

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")

	cfg.KafkaBrokers = splitList(viper.GetString("KAFKA_BROKERS"))
	cfg.KafkaTopic = viper.GetString("KAFKA_TOPIC")

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.FlushInterval = parseDuration("FLUSH_INTERVAL", 30*time.Second)
	cfg.IntegrityCheckInterval = parseDuration("INTEGRITY_CHECK_INTERVAL", time.Hour)

	return cfg, nil
}

// parseDuration reads a duration key (e.g. "30s", "1h"), falling back on invalid input.
func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
