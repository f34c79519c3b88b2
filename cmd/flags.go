package cmd

import (
	"fmt"
	"os"

	app "github.com/gnames/transitdb/pkg"
	"github.com/gnames/transitdb/pkg/config"
	"github.com/spf13/cobra"
)

func versionFlag(cmd *cobra.Command) {
	hasVersionFlag, _ := cmd.Flags().GetBool("version")
	if hasVersionFlag {
		fmt.Printf("\nversion: %s\nbuild: %s\n\n", app.Version, app.Build)
		os.Exit(0)
	}
}

// storeFlags returns options of persistent store flags that were set.
func storeFlags(cmd *cobra.Command) []config.Option {
	var res []config.Option
	flags := cmd.Flags()
	if flags.Changed("driver") {
		s, _ := flags.GetString("driver")
		res = append(res, config.OptDatabaseDriver(s))
	}
	if flags.Changed("db-path") {
		s, _ := flags.GetString("db-path")
		res = append(res, config.OptDatabasePath(s))
	}
	return res
}

// addDryRunFlag registers the --dry-run flag of write commands.
func addDryRunFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("dry-run", false,
		"run everything and roll the transaction back")
}

// dryRunFlag applies --dry-run to the configuration when it was set.
func dryRunFlag(cmd *cobra.Command) {
	if !cmd.Flags().Changed("dry-run") {
		return
	}
	b, _ := cmd.Flags().GetBool("dry-run")
	cfg.Update([]config.Option{config.OptImportDryRun(b)})
}
