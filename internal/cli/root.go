// Package cli provides the command-line interface for sqlsense.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mikevskater/sqlsense/internal/cli/commands"
	"github.com/mikevskater/sqlsense/internal/cli/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sqlsense",
		Short: "sqlsense - SQL completion context engine",
		Long: `sqlsense resolves what a cursor position in a SQL script is pointing at:
the clause being typed, the tables, aliases, CTEs and temp objects in scope,
and the database each GO/USE-separated chunk executes against.

It is the engine behind editor IntelliSense; the CLI exposes the same
resolution calls for inspection and scripting.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			var err error
			cfg, err = config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			ctx := context.WithValue(cmd.Context(), commands.ConfigKey{}, cfg)
			ctx = context.WithValue(ctx, commands.LoggerKey{}, log)
			cmd.SetContext(ctx)

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: sqlsense.yaml)")
	rootCmd.PersistentFlags().String("vendor", config.DefaultVendor, "SQL vendor: sqlserver, postgres, mysql, sqlite")
	rootCmd.PersistentFlags().String("database", "", "ambient database before any USE statement")
	rootCmd.PersistentFlags().String("catalog", "", "YAML catalog file with table metadata")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose output")

	rootCmd.AddCommand(
		commands.NewContextCmd(),
		commands.NewBatchesCmd(),
		commands.NewScopeCmd(),
		commands.NewReplCmd(),
		commands.NewVersionCmd(Version, BuildDate, GitCommit),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute() int {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
