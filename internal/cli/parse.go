package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"qbank/internal/locale"
	"qbank/internal/parser"
	"qbank/internal/util"
)

// newParseCmd harvests questions from a saved model reply. Useful when
// tuning prompts against a real model.
func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file]",
		Short: "Extract question blocks from a model reply (stdin when no file)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if len(args) == 1 {
				raw, err = os.ReadFile(args[0])
			} else {
				raw, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read reply: %w", err)
			}

			code, _ := cmd.Flags().GetString("locale")
			if code == "" {
				code = locale.English
			}
			bundle, err := locale.Lookup(code)
			if err != nil {
				return err
			}

			res := parser.New(bundle, util.NewULIDGenerator()).Parse(string(raw))
			if res.Dropped > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "dropped %d malformed blocks\n", res.Dropped)
			}
			if len(res.Questions) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "no questions found")
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(res.Questions)
		},
	}
}
