package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"qbank/internal/docparse"
)

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Print the plain text of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			maxPages, _ := cmd.Flags().GetInt("max-pages")
			text, err := docparse.New(docparse.Limits{MaxPages: maxPages}).Extract(filepath.Base(args[0]), data)
			if err != nil {
				return fmt.Errorf("extract %s: %w", args[0], err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().Int("max-pages", docparse.DefaultMaxPages, "Maximum PDF pages to read")
	return cmd
}
