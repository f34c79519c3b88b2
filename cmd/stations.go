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
	"github.com/gnames/transitdb/internal/ioout"
	"github.com/gnames/transitdb/pkg/transit"
	"github.com/spf13/cobra"
)

type stationsParams struct {
	system string
	line   string
	search string
	format string
}

// getStationsCmd returns the stations command.
func getStationsCmd() *cobra.Command {
	var params stationsParams

	stationsCmd := &cobra.Command{
		Use:   "stations",
		Short: "List canonical station records",
		Long: `List station records of the canonical store.

Records are ordered by station label, line label and id. With --search
they are ranked by a fuzzy match against labels, station codes and ids.

Examples:
  transitdb stations --system BTS
  transitdb stations --system BTS --line Silom --format yaml
  transitdb stations --search siam -f json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runStations(cmd.OutOrStdout(), params)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	flags := stationsCmd.Flags()
	flags.StringVar(&params.system, "system", "", "system label")
	flags.StringVar(&params.line, "line", "", "line label")
	flags.StringVarP(&params.search, "search", "s", "",
		"fuzzy search over labels, codes and ids")
	flags.StringVarP(&params.format, "format", "f", "text",
		"output format: text, json or yaml")

	return stationsCmd
}

func runStations(w io.Writer, params stationsParams) error {
	ctx := context.Background()
	format, err := ioout.NewFormat(params.format)
	if err != nil {
		return err
	}

	store, op, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	var recs []*transit.StationRecord
	filter := transit.StationFilter{
		SystemLabel: params.system,
		LineLabel:   params.line,
	}
	err = transit.Atomically(ctx, store, true, func(s transit.Session) error {
		recs, err = s.Stations(ctx, filter)
		return err
	})
	if err != nil {
		return err
	}

	recs = transit.SearchStations(recs, params.search)
	return ioout.WriteStations(w, recs, format)
}
