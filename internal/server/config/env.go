package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names. JWT_* keep the names used by earlier
// deployments of the demo.
const (
	envHTTPAddr       = "HTTP_ADDR"
	envDatabaseDriver = "DATABASE_DRIVER"
	envDatabaseDSN    = "DATABASE_DSN"
	envSecret         = "JWT_SECRET"
	envAlgorithm      = "JWT_ALGORITHM"
	envTTLHours       = "JWT_EXPIRES_HOURS"
	envCookieSecure   = "COOKIE_SECURE"
	envSeedDemoUsers  = "SEED_DEMO_USERS"
	envLogLevel       = "LOG_LEVEL"
)

// parseEnv overlays values from the process environment. A .env.local file
// in the working directory (or its parent) is loaded first; it never
// overrides variables that are already set. Malformed numbers and booleans
// are ignored.
func parseEnv(config *Config) {
	loadEnvFile()

	lookupString(envHTTPAddr, &config.EndpointAddrHTTP)
	lookupString(envDatabaseDriver, &config.DatabaseDriver)
	lookupString(envDatabaseDSN, &config.DatabaseDSN)
	lookupString(envSecret, &config.SecretKey)
	lookupString(envAlgorithm, &config.SigningAlgorithm)
	lookupInt(envTTLHours, &config.TokenTTLHours)
	lookupBool(envCookieSecure, &config.CookieSecure)
	lookupBool(envSeedDemoUsers, &config.SeedDemoUsers)
	lookupString(envLogLevel, &config.LogLevel)
}

func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

func lookupString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func lookupInt(key string, dst *int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}

func lookupBool(key string, dst *bool) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if b, err := strconv.ParseBool(v); err == nil {
		*dst = b
	}
}
