/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/transitdb/internal/iofs"
	"github.com/gnames/transitdb/internal/iologger"
	app "github.com/gnames/transitdb/pkg"
	"github.com/gnames/transitdb/pkg/config"
	"github.com/gnames/transitdb/pkg/db"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the root command with all subcommands registered.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "transitdb",
		Short:   "transitdb keeps transit stations and their pages in sync",
		Long: `transitdb imports transit station data into a canonical store and
mirrors it into a content tree of system, line and station pages.

Commands:
  - create, migrate: prepare the database schema
  - import-unified-transportation: load canonical station records
  - import-bts-stations: create flat station pages from a JSON list
  - sync-transport-pages: mirror systems and lines into pages
  - stations, page: inspect records, resolve pages, build station cards

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (TRANSITDB_*, also read from .env)
  3. Config file (~/.config/transitdb/config.yaml)
  4. Built-in defaults

Environment variables:
  TRANSITDB_DATABASE_DRIVER       postgres or sqlite
  TRANSITDB_DATABASE_HOST         PostgreSQL host
  TRANSITDB_DATABASE_PORT         PostgreSQL port
  TRANSITDB_DATABASE_PATH         SQLite file
  TRANSITDB_LOG_LEVEL             debug, info, warn or error

  See 'go doc github.com/gnames/transitdb/pkg/config' for complete list.`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "transitdb version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for transitdb")

	rootCmd.PersistentFlags().String("driver", "",
		"store backend: postgres or sqlite")
	rootCmd.PersistentFlags().String("db-path", "",
		"SQLite database file")

	rootCmd.AddCommand(
		getCreateCmd(),
		getMigrateCmd(),
		getImportUnifiedCmd(),
		getImportBTSCmd(),
		getSyncCmd(),
		getStationsCmd(),
		getPageCmd(),
	)
	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info(
		"Configuration files are available at <em>%s</em>",
		config.ConfigDir(homeDir),
	)

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	opts = append(opts, storeFlags(cmd)...)
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})
	if cfg.Database.Driver == db.DriverSQLite && cfg.Database.Path == "" {
		cfg.Update([]config.Option{
			config.OptDatabasePath(config.SQLitePath(homeDir)),
		})
	}

	// Reconfigure logging with user's settings and proper log file location
	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"driver", cfg.Database.Driver,
	)

	return nil
}

// reconfigureLogging reinitializes the logger with the loaded configuration.
func reconfigureLogging(cfg *config.Config) error {
	logDir := config.LogDir(cfg.HomeDir)
	return iologger.Init(logDir, cfg.Log)
}

func runRoot(cmd *cobra.Command, args []string) error {
	versionFlag(cmd)
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once.
func Execute() {
	err := getRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

// envVars lists config keys that can be set from the environment. They
// match the fields included in config.ToOptions().
var envVars = []string{
	"database.driver",
	"database.host",
	"database.port",
	"database.user",
	"database.password",
	"database.database",
	"database.ssl_mode",
	"database.path",
	"import.with_progress",
	"log.level",
	"log.format",
	"log.destination",
}

func initEnvVars(v *viper.Viper) {
	// a missing .env file is fine
	_ = godotenv.Load()

	v.SetEnvPrefix("TRANSITDB")
	replacer := strings.NewReplacer(".", "_")
	v.SetEnvKeyReplacer(replacer)

	for _, key := range envVars {
		env := "TRANSITDB_" + strings.ToUpper(replacer.Replace(key))
		_ = v.BindEnv(key, env)
	}
}
