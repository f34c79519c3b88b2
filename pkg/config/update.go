package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only persistent fields appropriate for config.yaml are included,
// HomeDir and Import.DryRun are left out.
func (c *Config) ToOptions() []Option {
	texts := []struct {
		val string
		opt func(string) Option
	}{
		{c.Database.Driver, OptDatabaseDriver},
		{c.Database.Host, OptDatabaseHost},
		{c.Database.User, OptDatabaseUser},
		{c.Database.Password, OptDatabasePassword},
		{c.Database.Database, OptDatabaseDatabase},
		{c.Database.SSLMode, OptDatabaseSSLMode},
		{c.Database.Path, OptDatabasePath},
		{c.Log.Format, OptLogFormat},
		{c.Log.Level, OptLogLevel},
		{c.Log.Destination, OptLogDestination},
	}

	var res []Option
	for _, v := range texts {
		if v.val != "" {
			res = append(res, v.opt(v.val))
		}
	}
	if c.Database.Port > 0 {
		res = append(res, OptDatabasePort(c.Database.Port))
	}
	return append(res, OptImportWithProgress(c.Import.WithProgress))
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.Driver": {"postgres": s, "sqlite": s},
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	if _, ok := data[name][val]; ok {
		return true
	}

	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
