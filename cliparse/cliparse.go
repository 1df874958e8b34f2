package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database types
const (
	DatabaseMemory   = "memory"
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
	DatabaseGorm     = "gorm"
)

type Config struct {
	Port            int
	DatabaseURL     string
	DatabaseType    string
	StoreTimeout    time.Duration
	SeedFile        string
	AllowedOrigins  []string
	SessionIdleTTL  time.Duration
	PopulationLimit int
}

// LoadDotEnv loads variables from a .env file into the environment.
// Variables already set win, and a missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ParseFlags validates flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var origins string

	fs := flag.NewFlagSet("pickpair", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (memory, sqlite, postgres or gorm)")
	fs.StringVar(&origins, "origins", "", "Comma separated CORS origins")

	// Engine tuning
	fs.DurationVar(&cfg.StoreTimeout, "timeout", 0, "Timeout for each store call")
	fs.StringVar(&cfg.SeedFile, "seed", "", "JSON file of items to seed at startup")
	fs.DurationVar(&cfg.SessionIdleTTL, "session-ttl", 0, "Drop sessions idle for longer than this")
	fs.IntVar(&cfg.PopulationLimit, "limit", -1, "Max items considered when sampling (0 = all)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	switch cfg.DatabaseType {
	case DatabaseMemory, DatabaseSQLite, DatabasePostgres, DatabaseGorm:
	default:
		return Config{}, fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" && cfg.DatabaseType != DatabaseMemory {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.StoreTimeout == 0 {
		d, err := durationEnv("STORE_TIMEOUT", 5*time.Second)
		if err != nil {
			return Config{}, err
		}
		cfg.StoreTimeout = d
	}
	if cfg.StoreTimeout < 0 {
		return Config{}, errors.New("store timeout must be positive")
	}

	if cfg.SessionIdleTTL == 0 {
		d, err := durationEnv("SESSION_IDLE_TTL", 30*time.Minute)
		if err != nil {
			return Config{}, err
		}
		cfg.SessionIdleTTL = d
	}

	if cfg.PopulationLimit < 0 {
		cfg.PopulationLimit = 0
		if v := os.Getenv("POPULATION_LIMIT"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return Config{}, errors.New("invalid POPULATION_LIMIT env variable")
			}
			cfg.PopulationLimit = n
		}
	}

	if cfg.SeedFile == "" {
		cfg.SeedFile = os.Getenv("SEED_FILE")
	}

	if origins == "" {
		origins = os.Getenv("CORS_ORIGINS")
	}
	cfg.AllowedOrigins = splitList(origins)
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	return cfg, nil
}

func durationEnv(name string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable: %w", name, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
