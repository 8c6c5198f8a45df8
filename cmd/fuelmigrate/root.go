package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcaamano/fuelmigrate/internal/config"
)

var (
	cfg     config.Config
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "fuelmigrate",
	Short: "Legacy fuel spreadsheet → Postgres ledger migration",
	Long:  "Migrates legacy diesel/urea dispatch spreadsheets into the normalized fuel ledger, resolving free-text equipment names against the asset registry and reconciling meter readings with inspection data.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile == "" {
			return nil
		}
		if err := cfg.LoadFromFile(cfgFile); err != nil {
			return fmt.Errorf("load %s: %w", cfgFile, err)
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (or set DATABASE_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfgFile, "config", "", "Optional YAML config file (scripted mappings, defaults)")
}
