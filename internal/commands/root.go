package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ig-gor95/finsplit-sub001/internal/buildinfo"
	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

// rootOptions are the persistent flags shared by all subcommands.
type rootOptions struct {
	dir       string
	logLevel  string
	logFormat string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "finsplit",
		Short:   "Bank statement import and reconciliation",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.dir, "dir", ".", "project directory")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format (console, json)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportCommand(opts))
	rootCmd.AddCommand(newAccountsCommand(opts))
	rootCmd.AddCommand(newExportCommand(opts))
	rootCmd.AddCommand(newHistoryCommand(opts))

	return rootCmd
}

func requireOwner(owner string) error {
	if owner == "" {
		return fmt.Errorf("--owner is required (or set import.owner in config, or FINSPLIT_OWNER)")
	}
	return nil
}

func parseBank(s string) (model.BankType, error) {
	if s == "" {
		return "", fmt.Errorf("--bank is required (one of %v)", model.Banks)
	}
	bt, ok := model.ParseBankType(s)
	if !ok {
		return "", fmt.Errorf("unknown bank %q (one of %v)", s, model.Banks)
	}
	return bt, nil
}
