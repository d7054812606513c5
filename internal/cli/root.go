// Package cli is the terminal front end: an interactive chat over one
// session plus a few one-shot utilities.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qbank/internal/config"
	"qbank/internal/logger"
)

// version is set via -ldflags at build time.
var version = "(devel)"

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "qbank",
		Short:         "Chat with a document and build an exam question bank",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().String("locale", "", "Deployment locale (overrides SESSION_LOCALE)")
	root.PersistentFlags().Bool("verbose", false, "Write logs to stderr")

	root.AddCommand(newChatCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newExtractCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("qbank", version)
		},
	})
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig reads the shared config and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if code, _ := cmd.Flags().GetString("locale"); code != "" {
		cfg.Session.Locale = code
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		logger.Set(l)
	}
	return cfg, nil
}
