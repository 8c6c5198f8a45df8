package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/rcaamano/fuelmigrate/internal/exitcode"
)

func main() {
	// Local development convenience; absence of .env is not an error.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitcode.UsageError)
	}
}
