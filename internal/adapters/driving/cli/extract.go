package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <input> <output>",
	Short: "Extract a yield table from an HTML dump",
	Long: `Scan the HTML dump at <input> and write a tab-separated yield table to
<output>, replacing any existing file.

Only lines between "records retrieved on" and the following "PrimeFaces.cw"
are scanned. A fragment that cannot be extracted stops the run and leaves
<output> partially written.`,
	Args: cobra.ExactArgs(2),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}

	result, err := extractionService.Extract(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	cmd.Printf("Extracted %d rows from %d lines to %s\n", result.Rows, result.Lines, result.Output)
	return nil
}
