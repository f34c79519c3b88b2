package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// textOpt trims s and sets it with set when it is not empty.
func textOpt(name, s string, set func(*Config, string)) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString(name, s) {
			set(c, s)
		}
	}
}

// enumOpt normalizes s to lower case and sets it when it is one of the
// values known for name.
func enumOpt(name, s string, set func(*Config, string)) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum(name, s) {
			set(c, s)
		}
	}
}

// OptDatabaseDriver sets the store backend: "postgres" or "sqlite".
func OptDatabaseDriver(s string) Option {
	return enumOpt("Database.Driver", s,
		func(c *Config, v string) { c.Database.Driver = v })
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	return textOpt("Database Host", s,
		func(c *Config, v string) { c.Database.Host = v })
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

func OptDatabaseUser(s string) Option {
	return textOpt("Database User", s,
		func(c *Config, v string) { c.Database.User = v })
}

func OptDatabasePassword(s string) Option {
	return textOpt("Database Password", s,
		func(c *Config, v string) { c.Database.Password = v })
}

// OptDatabaseDatabase sets the PostgreSQL database name.
func OptDatabaseDatabase(s string) Option {
	return textOpt("Database Name", s,
		func(c *Config, v string) { c.Database.Database = v })
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	return enumOpt("Database.SSLMode", s,
		func(c *Config, v string) { c.Database.SSLMode = v })
}

// OptDatabasePath sets the SQLite database file.
func OptDatabasePath(s string) Option {
	return textOpt("Database Path", s,
		func(c *Config, v string) { c.Database.Path = v })
}

// OptImportWithProgress toggles progress bars.
func OptImportWithProgress(b bool) Option {
	return func(c *Config) {
		c.Import.WithProgress = b
	}
}

// OptImportDryRun makes write commands roll back their transaction.
// Runtime-only field - not in ToOptions().
func OptImportDryRun(b bool) Option {
	return func(c *Config) {
		c.Import.DryRun = b
	}
}

// OptLogLevel sets the logging level: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	return enumOpt("Log.Level", s,
		func(c *Config, v string) { c.Log.Level = v })
}

// OptLogFormat sets the log output format: "json" or "text".
func OptLogFormat(s string) Option {
	return enumOpt("Log.Format", s,
		func(c *Config, v string) { c.Log.Format = v })
}

// OptLogDestination sets where logs are written: "file", "stderr" or
// "stdout".
func OptLogDestination(s string) Option {
	return enumOpt("Log.Destination", s,
		func(c *Config, v string) { c.Log.Destination = v })
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	return textOpt("Home Directory", s,
		func(c *Config, v string) { c.HomeDir = v })
}
