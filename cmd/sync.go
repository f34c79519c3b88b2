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
	"context"

	"github.com/gnames/gn"
	"github.com/gnames/transitdb/internal/iosync"
	"github.com/gnames/transitdb/pkg/lifecycle"
	"github.com/spf13/cobra"
)

// getSyncCmd returns the sync-transport-pages command.
func getSyncCmd() *cobra.Command {
	var params lifecycle.SyncParams

	syncCmd := &cobra.Command{
		Use:   "sync-transport-pages",
		Short: "Mirror systems and lines into pages",
		Long: `Create or update a system page for every selected transit system
below the index page, and a line page for every line of the system.

Systems are selected by the system filters of the index page, or all
systems of the station store with --all-systems. Pages that already
match the station store are left untouched.

Examples:
  transitdb sync-transport-pages --index-slug public-transport
  transitdb sync-transport-pages --index-id 3 --all-systems --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runSync(cmd, params)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	flags := syncCmd.Flags()
	flags.Int64Var(&params.IndexID, "index-id", 0, "ID of the index page")
	flags.StringVar(&params.IndexSlug, "index-slug", "",
		"slug of the index page")
	flags.BoolVar(&params.AllSystems, "all-systems", false,
		"sync every system of the station store")
	addDryRunFlag(syncCmd)

	return syncCmd
}

func runSync(cmd *cobra.Command, params lifecycle.SyncParams) error {
	ctx := context.Background()
	dryRunFlag(cmd)

	store, op, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	stats, err := iosync.New(store, cfg).Sync(ctx, params)
	if err != nil {
		return err
	}

	if len(stats.Systems) == 0 {
		gn.Warn("No systems selected. Update the index page filters.")
		return nil
	}
	if cfg.Import.DryRun {
		gn.Info("Dry run: changes were rolled back.")
	}
	gn.Info("%s", stats)
	return nil
}
