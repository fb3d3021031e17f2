// Command pimpoyo inspects and exports Pimpoyo PostgreSQL dumps.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/pimpoyo/internal/cli"
	_ "github.com/JonMunkholm/pimpoyo/internal/core/tables" // Register all tables
)

func main() {
	// A missing .env is normal for the CLI; the environment still applies
	_ = godotenv.Load()

	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
