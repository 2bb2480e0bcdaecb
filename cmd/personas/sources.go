// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/personas/internal/search"
	"github.com/pdiddy/personas/pkg/types"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Load and print the local, JSON, and XML record sets",
	Long: `Sources loads all three record sets concurrently and prints one table per
source in search order (local, JSON, XML). A source that fails to load is
reported and shown as an empty set.`,
	RunE: runSources,
}

func runSources(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	a.loadSources(ctx)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return search.FormatJSON(a.svc.Catalog().Sets(), os.Stdout)
	}

	search.FormatSets(a.svc.Catalog().Sets(), os.Stdout)
	reportLoadErrors(a.svc.Catalog().Errors())
	return nil
}

// reportLoadErrors prints failed sources to stderr in search order.
func reportLoadErrors(errs map[types.SourceName]error) {
	for _, name := range types.SourceOrder {
		if err, ok := errs[name]; ok {
			fmt.Fprintf(os.Stderr, "warning: %s source unavailable: %v\n", name, err)
		}
	}
}

func init() {
	sourcesCmd.Flags().Bool("json", false, "output sets as JSON")
	rootCmd.AddCommand(sourcesCmd)
}
