// Package config provides configuration management for the sqlsense CLI.
package config

// CatalogConfig describes where table metadata comes from.
type CatalogConfig struct {
	// File is a YAML catalog document path.
	File string `koanf:"file"`
	// Driver selects a live loader: "sqlite", "sqlserver", "mysql" (via
	// database/sql + information_schema) or "postgres" (via pgx).
	Driver string `koanf:"driver"`
	// DSN is the connection string for the selected driver.
	DSN string `koanf:"dsn"`
}

// Config holds all CLI configuration options.
type Config struct {
	Vendor   string `koanf:"vendor"`
	Database string `koanf:"database"`
	Schema   string `koanf:"schema"`

	// DoubleQuoteString overrides the vendor's default treatment of "..."
	// as string literal vs quoted identifier.
	DoubleQuoteString *bool `koanf:"double_quote_string"`

	Verbose bool           `koanf:"verbose"`
	Catalog *CatalogConfig `koanf:"catalog"`
}

// Default configuration values.
const (
	DefaultVendor = "sqlserver"
)
