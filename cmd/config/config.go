package config

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	RunAddress         string
	DatabaseURI        string
	StorageDriver      string
	SQLitePath         string
	RedisAddress       string
	LogLevel           string
	AuthDelay          time.Duration
	SessionIdleTimeout time.Duration
	CatalogSeed        string
	HashPasswords      bool
	JWTSecret          string
)

// ParseFlags fills the configuration from command-line flags. Environment
// variables, including those loaded from .env, take precedence.
func ParseFlags() {
	// A missing .env is fine.
	_ = godotenv.Load()

	flag.StringVar(&RunAddress, "a", ":8080", "address to run server")
	flag.StringVar(&DatabaseURI, "d", "", "database uri")
	flag.StringVar(&StorageDriver, "s", "memory", "storage driver: memory, pgx, postgres, sqlite or redis")
	flag.StringVar(&SQLitePath, "f", "greenmart.db", "sqlite database file")
	flag.StringVar(&RedisAddress, "r", "localhost:6379", "redis address")
	flag.StringVar(&LogLevel, "l", "info", "log level")
	flag.DurationVar(&AuthDelay, "delay", 500*time.Millisecond, "artificial sign-in and sign-up latency")
	flag.DurationVar(&SessionIdleTimeout, "idle", 24*time.Hour, "sign out sessions idle for longer than this, 0 disables")
	flag.StringVar(&CatalogSeed, "seed", "", "yaml file with the default product listings")
	flag.BoolVar(&HashPasswords, "hash", false, "store new passwords as bcrypt hashes")
	flag.Parse()

	if envRunAddr := os.Getenv("RUN_ADDRESS"); envRunAddr != "" {
		RunAddress = envRunAddr
	}
	if databaseURI := os.Getenv("DATABASE_URI"); databaseURI != "" {
		DatabaseURI = databaseURI
	}
	if driver := os.Getenv("STORAGE_DRIVER"); driver != "" {
		StorageDriver = driver
	}
	if sqlitePath := os.Getenv("SQLITE_PATH"); sqlitePath != "" {
		SQLitePath = sqlitePath
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		RedisAddress = redisAddress
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		LogLevel = logLevel
	}
	if delay, err := time.ParseDuration(os.Getenv("AUTH_DELAY")); err == nil {
		AuthDelay = delay
	}
	if idle, err := time.ParseDuration(os.Getenv("SESSION_IDLE_TIMEOUT")); err == nil {
		SessionIdleTimeout = idle
	}
	if seed := os.Getenv("CATALOG_SEED"); seed != "" {
		CatalogSeed = seed
	}
	if hash, err := strconv.ParseBool(os.Getenv("HASH_PASSWORDS")); err == nil {
		HashPasswords = hash
	}
	JWTSecret = os.Getenv("JWT_SECRET")
}
