// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/personas/internal/results"
	"github.com/pdiddy/personas/internal/search"
	"github.com/pdiddy/personas/pkg/types"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Manage the accumulated search results (list, delete, edit, export)",
	Long: `Results manages the durable list of every match appended by search.
Entries are addressed by person id, or by the ref assigned when the entry
was appended (use --ref). Records without an id can only be addressed by ref.`,
}

// --- list subcommand ---

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the accumulated results",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			return search.FormatJSON(a.svc.Results().All(), os.Stdout)
		}
		search.FormatResults(a.svc.Results().All(), os.Stdout)
		return nil
	},
}

// --- delete subcommand ---

var resultsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove every accumulated entry with the given id",
	Long: `Delete removes every accumulated entry whose id matches. With --ref the
argument is a ref and only that entry is removed. Nothing is written when
no entry matches.`,
	Args: cobra.ExactArgs(1),
	RunE: runResultsDelete,
}

func runResultsDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	byRef, _ := cmd.Flags().GetBool("ref")
	var removed int
	if byRef {
		removed, err = a.svc.Results().DeleteRef(ctx, args[0])
	} else {
		removed, err = a.svc.Results().Delete(ctx, args[0])
	}
	if err != nil {
		return err
	}

	if removed == 0 {
		fmt.Fprintf(os.Stdout, "No entry matches %q; results unchanged.\n", args[0])
		return nil
	}
	fmt.Fprintf(os.Stdout, "Removed %d entry(ies).\n", removed)
	return nil
}

// --- edit subcommand ---

var resultsEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change nombre and apellido of the first accumulated entry with the given id",
	Long: `Edit overwrites nombre and apellido of the first accumulated entry whose id
matches (or of the entry with that ref, with --ref). Values come from
--nombre and --apellido; when either flag is omitted both are prompted
for on stdin, showing the current value. If either value ends up empty
the entry is left unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runResultsEdit,
}

func runResultsEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	byRef, _ := cmd.Flags().GetBool("ref")
	nombre, _ := cmd.Flags().GetString("nombre")
	apellido, _ := cmd.Flags().GetString("apellido")

	var p results.Prompter
	if cmd.Flags().Changed("nombre") && cmd.Flags().Changed("apellido") {
		p = results.StaticPrompter(types.Edit{Name: nombre, Surname: apellido})
	} else {
		p = &results.ReaderPrompter{In: os.Stdin, Out: os.Stdout}
	}

	var changed bool
	if byRef {
		changed, err = a.svc.Results().EditRef(ctx, args[0], p)
	} else {
		changed, err = a.svc.Results().Edit(ctx, args[0], p)
	}
	if err != nil {
		return err
	}

	if !changed {
		fmt.Fprintln(os.Stdout, "Results unchanged.")
		return nil
	}
	fmt.Fprintln(os.Stdout, "Entry updated.")
	return nil
}

// --- export subcommand ---

var resultsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the accumulated results to YAML",
	Long: `Export writes the accumulated results with a summary to a YAML file, or to
stdout when --out is not given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			return a.svc.Results().Export(os.Stdout)
		}
		if err := a.svc.Results().WriteExportFile(out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Exported to %s\n", out)
		return nil
	},
}

func init() {
	resultsListCmd.Flags().Bool("json", false, "output results as JSON")

	resultsDeleteCmd.Flags().Bool("ref", false, "treat the argument as a result ref")

	resultsEditCmd.Flags().Bool("ref", false, "treat the argument as a result ref")
	resultsEditCmd.Flags().String("nombre", "", "new nombre")
	resultsEditCmd.Flags().String("apellido", "", "new apellido")

	resultsExportCmd.Flags().String("out", "", "output file (default: stdout)")

	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsDeleteCmd)
	resultsCmd.AddCommand(resultsEditCmd)
	resultsCmd.AddCommand(resultsExportCmd)
	rootCmd.AddCommand(resultsCmd)
}
