package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/bfxledger/internal/buildinfo"
	"github.com/cleared-dev/bfxledger/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
// The root command itself classifies a ledger export.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := newParseCommand(&configPath)
	rootCmd.Version = buildinfo.String()
	rootCmd.CompletionOptions = cobra.CompletionOptions{
		DisableDefaultCmd: true,
	}
	rootCmd.SilenceUsage = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: none)")

	rootCmd.AddCommand(newPatternsCommand(&configPath))
	rootCmd.AddCommand(newInitConfigCommand())

	return rootCmd
}

// loadConfig returns the config at path, or the defaults when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
