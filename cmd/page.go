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
	"io"

	"github.com/gnames/gn"
	"github.com/gnames/transitdb/internal/iopages"
	"github.com/gnames/transitdb/internal/ioout"
	"github.com/spf13/cobra"
)

// getPageCmd returns the page command with its subcommands.
func getPageCmd() *cobra.Command {
	var format string

	pageCmd := &cobra.Command{
		Use:   "page",
		Short: "Resolve pages, build station cards, manage station pages",
		Long: `Work with pages of the content tree.

Examples:
  transitdb page resolve /public-transport/bts/siam/
  transitdb page cards --page-id 5 -f json
  transitdb page add-station --parent-id 6 --station-id 12
  transitdb page bind-station --page-id 20 --station-id 13
  transitdb page set-filters --page-id 3 --system BTS --system MRT`,
	}
	pageCmd.PersistentFlags().StringVarP(&format, "format", "f", "text",
		"output format: text, json or yaml")

	pageCmd.AddCommand(
		getResolveCmd(&format),
		getCardsCmd(&format),
		getAddStationCmd(&format),
		getBindStationCmd(&format),
		getSetFiltersCmd(&format),
	)
	return pageCmd
}

func getResolveCmd(format *string) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <path>",
		Short: "Find the live page at a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runResolve(cmd.OutOrStdout(), args[0], *format)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
}

func runResolve(w io.Writer, path, formatStr string) error {
	ctx := context.Background()
	format, err := ioout.NewFormat(formatStr)
	if err != nil {
		return err
	}

	store, op, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	p, err := iopages.New(store, cfg).Resolve(ctx, path)
	if err != nil {
		return err
	}
	return ioout.WritePage(w, p, format)
}

func getCardsCmd(format *string) *cobra.Command {
	var pageID int64
	cardsCmd := &cobra.Command{
		Use:   "cards",
		Short: "List station cards of a system or a line page",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCards(cmd.OutOrStdout(), pageID, *format)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
	cardsCmd.Flags().Int64Var(&pageID, "page-id", 0,
		"ID of a system or a line page")
	_ = cardsCmd.MarkFlagRequired("page-id")
	return cardsCmd
}

func runCards(w io.Writer, pageID int64, formatStr string) error {
	ctx := context.Background()
	format, err := ioout.NewFormat(formatStr)
	if err != nil {
		return err
	}

	store, op, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	p, cards, err := iopages.New(store, cfg).Cards(ctx, pageID)
	if err != nil {
		return err
	}
	if format == ioout.Text {
		gn.Info("Station cards of <em>%s</em>", p.Title)
	}
	return ioout.WriteCards(w, cards, format)
}

type addStationParams struct {
	parentID  int64
	stationID int64
	title     string
	slug      string
}

func getAddStationCmd(format *string) *cobra.Command {
	var params addStationParams
	addCmd := &cobra.Command{
		Use:   "add-station",
		Short: "Create and publish a station page",
		Long: `Create a station page under a line page or under a system page that
shows stations. A bound page without a title takes the station label,
a page without a slug gets one from its title.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRunFlag(cmd)
			err := runAddStation(cmd.OutOrStdout(), params, *format)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
	flags := addCmd.Flags()
	flags.Int64Var(&params.parentID, "parent-id", 0, "ID of the parent page")
	flags.Int64Var(&params.stationID, "station-id", 0,
		"ID of the station record, 0 for an unbound page")
	flags.StringVar(&params.title, "title", "", "page title")
	flags.StringVar(&params.slug, "slug", "", "page slug")
	_ = addCmd.MarkFlagRequired("parent-id")
	addDryRunFlag(addCmd)
	return addCmd
}

func runAddStation(w io.Writer, params addStationParams, formatStr string) error {
	ctx := context.Background()
	format, err := ioout.NewFormat(formatStr)
	if err != nil {
		return err
	}

	store, op, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	p, err := iopages.New(store, cfg).AddStation(ctx, params.parentID,
		params.stationID, params.title, params.slug)
	if err != nil {
		return err
	}
	return ioout.WritePage(w, p, format)
}

func getBindStationCmd(format *string) *cobra.Command {
	var pageID, stationID int64
	bindCmd := &cobra.Command{
		Use:   "bind-station",
		Short: "Bind a station page to a station record",
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRunFlag(cmd)
			err := runBindStation(cmd.OutOrStdout(), pageID, stationID, *format)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
	bindCmd.Flags().Int64Var(&pageID, "page-id", 0, "ID of the station page")
	bindCmd.Flags().Int64Var(&stationID, "station-id", 0,
		"ID of the station record")
	_ = bindCmd.MarkFlagRequired("page-id")
	_ = bindCmd.MarkFlagRequired("station-id")
	addDryRunFlag(bindCmd)
	return bindCmd
}

func runBindStation(
	w io.Writer,
	pageID, stationID int64,
	formatStr string,
) error {
	ctx := context.Background()
	format, err := ioout.NewFormat(formatStr)
	if err != nil {
		return err
	}

	store, op, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	p, err := iopages.New(store, cfg).BindStation(ctx, pageID, stationID)
	if err != nil {
		return err
	}
	return ioout.WritePage(w, p, format)
}

func getSetFiltersCmd(format *string) *cobra.Command {
	var pageID int64
	var systems []string
	filtersCmd := &cobra.Command{
		Use:   "set-filters",
		Short: "Set the systems an index page mirrors",
		Long: `Replace the system filters of an index page.

sync-transport-pages without --all-systems mirrors only these systems.
Labels are trimmed, sorted and deduplicated. Without --system the
filters are cleared.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRunFlag(cmd)
			err := runSetFilters(cmd.OutOrStdout(), pageID, systems, *format)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
	filtersCmd.Flags().Int64Var(&pageID, "page-id", 0, "ID of the index page")
	filtersCmd.Flags().StringArrayVar(&systems, "system", nil,
		"system label, repeat for several systems")
	_ = filtersCmd.MarkFlagRequired("page-id")
	addDryRunFlag(filtersCmd)
	return filtersCmd
}

func runSetFilters(
	w io.Writer,
	pageID int64,
	systems []string,
	formatStr string,
) error {
	ctx := context.Background()
	format, err := ioout.NewFormat(formatStr)
	if err != nil {
		return err
	}

	store, op, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	p, err := iopages.New(store, cfg).SetSystemFilters(ctx, pageID, systems)
	if err != nil {
		return err
	}
	return ioout.WritePage(w, p, format)
}
