package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var importRunID string

var importCmd = &cobra.Command{
	Use:   "import [file.jsonl]",
	Short: "Import a chunking run export into the catalog",
	Long: `Imports chunks from a JSONL export, one JSON object per line. Rows
without a chunk uuid are assigned one. Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importRunID, "run", "", "chunking run id to stamp on every imported chunk")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if importService == nil {
		return errors.New("import service not configured")
	}

	input := cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening import file: %w", err)
		}
		defer f.Close()
		input = f
	}

	report, err := importService.ImportJSONL(cmd.Context(), input, importRunID)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	cmd.Printf("Imported %d chunks (%d lines skipped).\n", report.Imported, report.Skipped)
	return nil
}
