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
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/transitdb/internal/ioschema"
	"github.com/spf13/cobra"
)

// getCreateCmd returns the create command.
func getCreateCmd() *cobra.Command {
	var force bool

	res := &cobra.Command{
		Use:   "create",
		Short: "Create database schema",
		Long: `Create the transitdb schema from scratch.

Existing tables are dropped after confirmation. Then the station,
page and revision tables are created and the root and home pages
of the content tree are seeded.

Examples:
  transitdb create
  transitdb create --force
  transitdb --driver sqlite create -f`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCreate(cmd, os.Stdin, force)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	res.Flags().BoolVarP(&force, "force", "f",
		false, "drop existing tables without confirmation")
	return res
}

// confirmDrop asks the user if existing tables may be dropped.
// Only "y" or "yes" count as consent, an empty input does not.
func confirmDrop(in io.Reader) (bool, error) {
	gn.Warn("Database contains existing tables.")
	gn.Warn("Creating schema will drop <em>ALL</em> existing tables and data.")
	fmt.Print("\nDo you want to continue? (yes/no): ")

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func runCreate(_ *cobra.Command, in io.Reader, force bool) error {
	ctx := context.Background()

	op, err := connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		return err
	}

	if hasTables {
		ok := force
		if !ok {
			if ok, err = confirmDrop(in); err != nil {
				return err
			}
		}
		if !ok {
			gn.Info("Aborted. No changes made.")
			return nil
		}
		gn.Info("Dropping all existing tables...")
		if err = op.DropAllTables(ctx); err != nil {
			return err
		}
	}

	gn.Info("Creating schema...")
	if err = ioschema.NewManager(op).Create(ctx, cfg); err != nil {
		return err
	}

	gn.Info("Schema is ready. Next steps:")
	gn.Info("  transitdb import-unified-transportation --path <file>")
	gn.Info("  transitdb sync-transport-pages")
	return nil
}
