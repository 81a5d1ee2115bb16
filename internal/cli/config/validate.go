package config

import (
	"fmt"
	"strings"

	"github.com/mikevskater/sqlsense/pkg/dialect"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := dialect.Get(c.Vendor); !ok {
		return fmt.Errorf("unknown vendor %q (known: %s)", c.Vendor, strings.Join(dialect.List(), ", "))
	}
	if c.Catalog != nil && c.Catalog.Driver != "" {
		switch c.Catalog.Driver {
		case "sqlite", "sqlserver", "mysql", "postgres":
		default:
			return fmt.Errorf("unknown catalog driver %q", c.Catalog.Driver)
		}
		if c.Catalog.DSN == "" {
			return fmt.Errorf("catalog driver %q requires a dsn", c.Catalog.Driver)
		}
	}
	return nil
}

// Dialect returns the configured dialect with the double-quote override
// applied.
func (c *Config) Dialect() *dialect.Dialect {
	d, ok := dialect.Get(c.Vendor)
	if !ok {
		d = dialect.MustGet(DefaultVendor)
	}
	if c.DoubleQuoteString != nil && *c.DoubleQuoteString != d.DoubleQuoteIsString {
		override := *d
		override.DoubleQuoteIsString = *c.DoubleQuoteString
		return &override
	}
	return d
}
