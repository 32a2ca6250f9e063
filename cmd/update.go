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
	"log/slog"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getUpdateCmd returns the update command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getUpdateCmd() *cobra.Command {
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Download NCBI taxonomy dump and reload the backend",
		Long: `Download NCBI taxonomy dump and reload the taxonomy backend
without converting any names.

This command:
  1. Downloads taxdump.tar.gz from the configured taxdump_url
  2. Extracts nodes.dmp, names.dmp and merged.dmp
  3. Replaces all data of the backend with the new dump
  4. Removes the downloaded archive

If loading fails, the archive stays in place.

Examples:
  sp2tax update
  sp2tax update -b postgres`,
		RunE: runUpdate,
	}

	return updateCmd
}

func runUpdate(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	res, err := newResolver(ctx, cfg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer res.Close()

	if err = refresh(ctx, res); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Taxonomy backend updated", "backend", cfg.Backend)
	return nil
}
