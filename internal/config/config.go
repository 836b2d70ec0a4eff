// Package config centralizes configuration loaded from environment
// variables. A local .env file is honored when present.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the engine reads from the environment
type Config struct {
	// HTTP server
	Port        string
	Environment string // development or production

	// Storage
	DBDriver    string // memory, sqlite, or postgres
	SQLitePath  string
	PostgresDSN string

	// Event stream
	NATSURL     string
	NATSSubject string

	// ClickHouse analytics sink, optional
	ClickHouseEnabled  bool
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string

	// Season shape
	TargetGamesPerTeam  int
	IntraDivisionWeight float64
	ScheduleSeed        int64
}

// Load reads configuration with development defaults. Missing values never
// fail here; components that need a real backend validate on their own.
func Load() *Config {
	// Best effort, the file is only there in local development
	_ = godotenv.Load()

	return &Config{
		Port:        envOr("PORT", "8080"),
		Environment: envOr("ENVIRONMENT", "development"),

		DBDriver:    envOr("DB_DRIVER", "memory"),
		SQLitePath:  envOr("SQLITE_PATH", "league.db"),
		PostgresDSN: envOr("POSTGRES_DSN", ""),

		NATSURL:     envOr("NATS_URL", ""),
		NATSSubject: envOr("NATS_SUBJECT", "season.events"),

		ClickHouseEnabled:  envBool("CLICKHOUSE_ENABLED", false),
		ClickHouseAddr:     envOr("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickHouseDatabase: envOr("CLICKHOUSE_DATABASE", "league"),
		ClickHouseUser:     envOr("CLICKHOUSE_USER", "default"),
		ClickHousePassword: envOr("CLICKHOUSE_PASSWORD", ""),

		TargetGamesPerTeam:  envInt("TARGET_GAMES_PER_TEAM", 162),
		IntraDivisionWeight: envFloat("INTRA_DIVISION_WEIGHT", 2.0),
		ScheduleSeed:        envInt64("SCHEDULE_SEED", 0),
	}
}

// IsProduction reports whether the engine runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
