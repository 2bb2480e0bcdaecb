// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/personas/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search all sources and append the matches to the accumulated results",
	Long: `Search loads the three record sets and matches the query, case-insensitively
as a substring, against nombre, apellido, direccion, and discapacidad.
Every match is appended to the accumulated results; earlier results are
kept, duplicates included. An empty query matches every record that
carries at least one of those fields.

The accumulated results are printed after the append.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	a.loadSources(ctx)
	reportLoadErrors(a.svc.Catalog().Errors())

	out, err := a.svc.Search(ctx, query)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return search.FormatJSON(out, os.Stdout)
	}

	fmt.Fprintf(os.Stdout, "%d match(es) appended for %q\n\n", len(out.Matches), query)
	search.FormatResults(out.Results, os.Stdout)
	return nil
}

func init() {
	searchCmd.Flags().String("query", "", "search text (alternative to positional args)")
	searchCmd.Flags().Bool("json", false, "output matches and accumulated results as JSON")
	rootCmd.AddCommand(searchCmd)
}
