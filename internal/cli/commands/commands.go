// Package commands implements the sqlsense subcommands.
package commands

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mikevskater/sqlsense/internal/cli/config"
	"github.com/mikevskater/sqlsense/internal/engine"
	"github.com/mikevskater/sqlsense/pkg/catalog"
)

// ConfigKey is the context key under which the loaded config is stored.
type ConfigKey struct{}

// LoggerKey is the context key under which the logger is stored.
type LoggerKey struct{}

// configFrom retrieves the config stored by the root command.
func configFrom(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(ConfigKey{}).(*config.Config); ok {
		return cfg
	}
	return &config.Config{Vendor: config.DefaultVendor}
}

// loggerFrom retrieves the logger stored by the root command.
func loggerFrom(cmd *cobra.Command) *slog.Logger {
	if log, ok := cmd.Context().Value(LoggerKey{}).(*slog.Logger); ok {
		return log
	}
	return slog.Default()
}

// newEngine builds an Engine from the loaded config, loading the catalog
// from the configured file or live connection.
func newEngine(cmd *cobra.Command) (*engine.Engine, error) {
	cfg := configFrom(cmd)
	log := loggerFrom(cmd)

	cat, err := loadCatalog(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}

	return engine.New(cfg.Dialect(),
		engine.WithCatalog(cat),
		engine.WithDatabase(cfg.Database),
		engine.WithLogger(log),
	), nil
}

// loadCatalog resolves the configured metadata source. No configuration
// yields an empty catalog, which the engine treats as fail-soft unknown.
func loadCatalog(ctx context.Context, cfg *config.Config) (catalog.Resolver, error) {
	cc := cfg.Catalog
	if cc == nil {
		return catalog.Nop{}, nil
	}
	if cc.File != "" {
		m, err := catalog.LoadYAMLFile(cc.File)
		if err != nil {
			return nil, err
		}
		if m.DefaultSchema == "" {
			m.DefaultSchema = cfg.Schema
		}
		return m, nil
	}
	switch cc.Driver {
	case "postgres":
		return catalog.LoadPostgres(ctx, cc.DSN)
	case "sqlite", "sqlserver", "mysql":
		db, err := sql.Open(sqlDriverName(cc.Driver), cc.DSN)
		if err != nil {
			return nil, fmt.Errorf("opening %s catalog: %w", cc.Driver, err)
		}
		defer db.Close()
		return catalog.LoadDB(ctx, db, cfg.Database)
	}
	return catalog.Nop{}, nil
}

// sqlDriverName maps a catalog driver to its database/sql registration.
func sqlDriverName(driver string) string {
	if driver == "sqlite" {
		return "sqlite" // modernc.org/sqlite registers under "sqlite"
	}
	return driver
}

// readInput returns the SQL text from the file argument or stdin ("-").
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
