package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/balans-dev/ledgermerge/internal/commands"
)

func main() {
	// Load .env if present, without failing when missing.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env: %v\n", err)
	}

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
