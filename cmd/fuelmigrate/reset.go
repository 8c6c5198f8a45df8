package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rcaamano/fuelmigrate/internal/db"
	"github.com/rcaamano/fuelmigrate/internal/exitcode"
	"github.com/rcaamano/fuelmigrate/internal/logging"
	"github.com/rcaamano/fuelmigrate/internal/pipeline"
	"github.com/rcaamano/fuelmigrate/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset <batch-id>",
	Short: "Discard a failed or abandoned batch's transient state",
	Long:  "Deletes the staging rows, name mappings, import errors, and batch record of a non-completed batch. Committed ledger transactions are never touched.",
	Args:  cobra.ExactArgs(1),
	RunE:  runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if cfg.DSN == "" {
		log.Error().Msg("--dsn or DATABASE_URL is required")
		os.Exit(exitcode.UsageError)
	}
	batchID, err := uuid.Parse(args[0])
	if err != nil {
		log.Error().Err(err).Msg("invalid batch id")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	pipe := pipeline.New(store.New(pool), log, nil)
	if err := pipe.Reset(ctx, batchID); err != nil {
		log.Error().Err(err).Msg("reset failed")
		os.Exit(exitcode.PipelineError)
	}
	fmt.Printf("Batch %s reset\n", batchID)
	return nil
}
