package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// ValueFlags lists the flags that take a separate value. The admin CLI uses
// it to tell its own positional arguments apart from configuration.
var ValueFlags = []string{"-a", "-D", "-d", "-s", "-g", "-t", "-l", "-c", "-config"}

var switchFlags = []string{"-k", "-m"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-D string   database driver: sqlite or postgres
//	-d string   database DSN
//	-s string   JWT HMAC secret key
//	-g string   JWT signing algorithm (HS256, HS384, HS512)
//	-t int      token validity, hours
//	-l string   log level
//	-k          set Secure on the session cookie
//	-m          seed demo users on startup
//
// Value flags and switches are filtered separately so a switch never
// swallows a positional argument that follows it.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-D", "-d", "-s", "-g", "-t", "-l"})
	args = append(args, flagx.FilterSwitches(os.Args[1:], switchFlags)...)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDriver, "D", config.DatabaseDriver, "database driver (sqlite, postgres)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.SigningAlgorithm, "g", config.SigningAlgorithm, "token signing algorithm")
	fs.IntVar(&config.TokenTTLHours, "t", config.TokenTTLHours, "token validity (in hours)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.BoolVar(&config.CookieSecure, "k", config.CookieSecure, "secure session cookie")
	fs.BoolVar(&config.SeedDemoUsers, "m", config.SeedDemoUsers, "seed demo users")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
