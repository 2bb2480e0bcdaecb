// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/personas/internal/source"
	"github.com/pdiddy/personas/pkg/types"
)

var localCmd = &cobra.Command{
	Use:   "local",
	Short: "Manage the locally registered people",
}

var localImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the local people with the JSON array in file",
	Long: `Import reads a JSON array of person objects and stores it as the local
record set, replacing whatever was registered before. Use "-" to read
from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runLocalImport,
}

func runLocalImport(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	var people []types.Person
	if err := json.Unmarshal(data, &people); err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := source.SaveLocal(ctx, a.store, a.cfg.Storage.PersonasKey, people); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Stored %d local record(s).\n", len(people))
	return nil
}

func init() {
	localCmd.AddCommand(localImportCmd)
	rootCmd.AddCommand(localCmd)
}
