// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: memory, sqlite, postgres or gorm (default: sqlite)
  - DatabaseURL: connection string (required unless memory)
  - StoreTimeout: bound on every store call (default: 5s)
  - SeedFile: JSON items seeded at startup (optional)
  - AllowedOrigins: CORS origins (default: *)
  - SessionIdleTTL: idle sessions are dropped after this (default: 30m)
  - PopulationLimit: max items considered per sample (default: 0, all)

# CLI Flags

	-p            Server port
	-t            Database type
	-d            Database URL
	-timeout      Store call timeout
	-seed         Seed file
	-origins      CORS origins, comma separated
	-session-ttl  Session idle TTL
	-limit        Population limit

# Environment Variables

Flags fall back to environment variables:

	PORT             → -p
	DATABASE_TYPE    → -t
	DATABASE_URL     → -d
	STORE_TIMEOUT    → -timeout
	SEED_FILE        → -seed
	CORS_ORIGINS     → -origins
	SESSION_IDLE_TTL → -session-ttl
	POPULATION_LIMIT → -limit

CLI flags take precedence over environment variables. LoadDotEnv reads a
.env file first; variables already present in the environment win over it.

# Example

	// In main.go
	_ = cliparse.LoadDotEnv(".env")
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
*/
package cliparse
