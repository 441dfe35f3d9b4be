// Package config handles configuration for the server and the admin CLI:
// defaults, JSON overlay, environment (including .env.local) and flags.
package config

import "time"

// Config holds runtime settings for gophauth.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP endpoint.
//   - DatabaseDriver: "sqlite" (modernc) or "postgres" (pgx).
//   - DatabaseDSN: driver specific DSN.
//   - SecretKey / SigningAlgorithm: HMAC secret and JWS algorithm (HS256, HS384, HS512).
//   - TokenTTLHours: session token lifetime in hours.
//   - CookieSecure: sets the Secure attribute on the session cookie.
//   - SeedDemoUsers: create the admin/alice demo accounts on startup.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrHTTP string
	DatabaseDriver   string
	DatabaseDSN      string
	SecretKey        string
	SigningAlgorithm string
	TokenTTLHours    int
	CookieSecure     bool
	SeedDemoUsers    bool
	LogLevel         string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret and the missing Secure cookie flag are not fit for production.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "file:app.db?_pragma=busy_timeout(5000)"
	c.SecretKey = "change-this-secret-key"
	c.SigningAlgorithm = "HS256"
	c.TokenTTLHours = 1
	c.CookieSecure = false
	c.SeedDemoUsers = false
	c.LogLevel = "info"
}

// TokenTTL converts TokenTTLHours to a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// LoadConfig applies defaults, then the optional JSON file, then the
// environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
