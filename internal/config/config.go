package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Roster and blob backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Store    StoreConfig
	Roster   RosterConfig
	Blob     BlobConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	DefaultActor          string
}

// StoreConfig controls how the record stores are seeded.
type StoreConfig struct {
	SeedDemo bool
	SeedFile string
}

// RosterConfig selects where the team roster is read from.
type RosterConfig struct {
	Source string
}

// BlobConfig selects where attachment bytes are kept. MaxBytes caps a single upload;
// zero or less means no cap.
type BlobConfig struct {
	Backend  string
	TTLHours int
	MaxBytes int64
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults where possible.
// envFiles are loaded first; a missing default .env is not an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("load env files: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "incident-center"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			DefaultActor:          getEnv("APP_DEFAULT_ACTOR", "Current User"),
		},
		Store: StoreConfig{
			SeedDemo: getEnvAsBool("STORE_SEED_DEMO", true),
			SeedFile: os.Getenv("STORE_SEED_FILE"),
		},
		Roster: RosterConfig{
			Source: strings.ToLower(getEnv("ROSTER_SOURCE", BackendMemory)),
		},
		Blob: BlobConfig{
			Backend:  strings.ToLower(getEnv("BLOB_BACKEND", BackendMemory)),
			TTLHours: getEnvAsInt("BLOB_TTL_HOURS", 0),
			MaxBytes: int64(getEnvAsInt("BLOB_MAX_BYTES", 10<<20)),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Roster.Source {
	case BackendMemory:
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("ROSTER_SOURCE=postgres requires POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("invalid ROSTER_SOURCE %q", c.Roster.Source)
	}
	switch c.Blob.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("invalid BLOB_BACKEND %q", c.Blob.Backend)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TTL returns the blob expiry, zero for none.
func (b BlobConfig) TTL() time.Duration {
	if b.TTLHours <= 0 {
		return 0
	}
	return time.Duration(b.TTLHours) * time.Hour
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

// BodyLimit is the HTTP request body cap: MaxBytes plus 1 MiB for the multipart
// envelope, or the largest fiber accepts when uploads are uncapped. fiber reads a
// limit of zero as its 4 MiB default, so zero is never returned.
func (b BlobConfig) BodyLimit() int {
	const envelope = 1 << 20
	if b.MaxBytes <= 0 || b.MaxBytes > math.MaxInt32-envelope {
		return math.MaxInt32
	}
	return int(b.MaxBytes) + envelope
}
