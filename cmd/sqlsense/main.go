// Command sqlsense resolves SQL completion contexts from the command line.
package main

import (
	"os"

	"github.com/mikevskater/sqlsense/internal/cli"

	// Registers the "sqlite" database/sql driver for catalog loading.
	_ "modernc.org/sqlite"
)

func main() {
	os.Exit(cli.Execute())
}
