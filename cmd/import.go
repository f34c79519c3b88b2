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
	"github.com/gnames/transitdb/internal/ioimport"
	"github.com/gnames/transitdb/pkg/lifecycle"
	"github.com/spf13/cobra"
)

const (
	defaultBTSPath     = "data/import/bangkok_transit_stations_wikidata.json"
	defaultUnifiedPath = "data/import/tbl_unified_transportation.geojson"
)

// getImportBTSCmd returns the import-bts-stations command.
func getImportBTSCmd() *cobra.Command {
	var params lifecycle.PageImportParams

	importCmd := &cobra.Command{
		Use:   "import-bts-stations",
		Short: "Create flat station pages from a JSON list",
		Long: `Create legacy station pages from a JSON array of station objects.

Pages are placed into a category page below the index page. Both pages
are created when they are missing. A record whose wikidata id is already
known merges its line into the existing page instead of creating a new
one.

Examples:
  transitdb import-bts-stations
  transitdb import-bts-stations --path stations.json --system ""
  transitdb import-bts-stations --category-id 42 --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runImportBTS(cmd, params)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	flags := importCmd.Flags()
	flags.StringVar(&params.Path, "path", defaultBTSPath,
		"JSON file with station objects")
	flags.Int64Var(&params.IndexID, "index-id", 0,
		"ID of an existing index page")
	flags.StringVar(&params.IndexSlug, "index-slug", "public-transport",
		"slug of the index page")
	flags.StringVar(&params.IndexTitle, "index-title", "Public Transport",
		"title of a new index page")
	flags.Int64Var(&params.CategoryID, "category-id", 0,
		"ID of an existing category page")
	flags.StringVar(&params.CategorySlug, "category-slug", "bts",
		"slug of the category page")
	flags.StringVar(&params.Category, "category", "BTS",
		"category of created pages")
	flags.StringVar(&params.System, "system", "BTS",
		"import only records of this system, empty for all")
	addDryRunFlag(importCmd)

	return importCmd
}

func runImportBTS(cmd *cobra.Command, params lifecycle.PageImportParams) error {
	ctx := context.Background()
	dryRunFlag(cmd)

	store, op, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	imp := ioimport.NewPageImporter(store, cfg)
	stats, err := imp.Import(ctx, params)
	if err != nil {
		return err
	}

	gn.Info("%s", stats)
	return nil
}

// getImportUnifiedCmd returns the import-unified-transportation command.
func getImportUnifiedCmd() *cobra.Command {
	var path string

	importCmd := &cobra.Command{
		Use:   "import-unified-transportation",
		Short: "Load canonical station records from GeoJSON",
		Long: `Load station records from a GeoJSON FeatureCollection.

Every Point feature is stored under its station and line ids. Existing
records are updated, features without both ids and non-Point features
are skipped.

Examples:
  transitdb import-unified-transportation
  transitdb import-unified-transportation --path stations.geojson --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runImportUnified(cmd, path)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	importCmd.Flags().StringVar(&path, "path", defaultUnifiedPath,
		"GeoJSON FeatureCollection file")
	addDryRunFlag(importCmd)

	return importCmd
}

func runImportUnified(cmd *cobra.Command, path string) error {
	ctx := context.Background()
	dryRunFlag(cmd)

	store, op, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	imp := ioimport.NewStationImporter(store, cfg)
	stats, err := imp.Import(ctx, path)
	if err != nil {
		return err
	}

	gn.Info("%s", stats)
	return nil
}
