package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rcaamano/fuelmigrate/internal/db"
	"github.com/rcaamano/fuelmigrate/internal/exitcode"
	"github.com/rcaamano/fuelmigrate/internal/logging"
	"github.com/rcaamano/fuelmigrate/internal/meter"
	"github.com/rcaamano/fuelmigrate/internal/model"
	"github.com/rcaamano/fuelmigrate/internal/pipeline"
	"github.com/rcaamano/fuelmigrate/internal/progress"
	"github.com/rcaamano/fuelmigrate/internal/registry"
	"github.com/rcaamano/fuelmigrate/internal/store"
)

var ingestBatchID string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run the full migration pipeline for a legacy export",
	RunE:  runIngest,
}

func init() {
	f := ingestCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to legacy export (.csv, .xlsx, .xls, .parquet)")
	f.StringVar(&ingestBatchID, "batch", "", "Resume a previously staged batch instead of reading a file")
	f.BoolVar(&cfg.AutoMap, "auto-map", true, "Automatically map names with confidence >= 0.9")
	f.StringVar(&cfg.MeterDefault, "meter-default", "", "Conflict default: ask_each_time, always_use_diesel, always_keep_checklist")
	f.IntVar(&cfg.RegistryChunkSize, "chunk-size", 0, "Asset registry page size (default 500)")
	f.BoolVar(&cfg.NonInteractive, "non-interactive", false, "Fail instead of prompting for undecided names or conflicts")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	resume := ingestBatchID != ""
	if resume {
		if cfg.DSN == "" {
			log.Error().Msg("--dsn or DATABASE_URL is required")
			os.Exit(exitcode.UsageError)
		}
	} else if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	st := store.New(pool)
	pipe := pipeline.New(st, log, &progress.LogReporter{Log: log})

	var batchID uuid.UUID
	if resume {
		batchID, err = uuid.Parse(ingestBatchID)
		if err != nil {
			log.Error().Err(err).Msg("invalid --batch id")
			os.Exit(exitcode.UsageError)
		}
		if _, err := st.GetBatch(ctx, batchID); err != nil {
			log.Error().Err(err).Msg("batch lookup failed")
			os.Exit(exitcode.UsageError)
		}
	} else {
		batchID, err = stageAndResolve(ctx, log, st, pipe)
		if err != nil {
			return err
		}
	}

	resolver := meter.NewResolver(cfg.MeterPreference(), nil)

	var summary *model.BatchSummary
	for {
		summary, err = pipe.Process(ctx, batchID, resolver)
		if err == nil {
			break
		}
		if m, ok := pipeline.IsMeterResolutionNeeded(err); ok {
			if cfg.NonInteractive {
				log.Error().Int("conflicts", len(m.Conflicts)).
					Str("batch_id", batchID.String()).
					Msg("meter conflicts need resolution; re-run with --batch interactively")
				os.Exit(exitcode.ConflictPause)
			}
			if !promptConflicts(resolver) {
				fmt.Printf("Paused. Resume with: fuelmigrate ingest --batch %s\n", batchID)
				os.Exit(exitcode.ConflictPause)
			}
			continue
		}
		var se *pipeline.StepError
		if errors.As(err, &se) {
			log.Error().Err(se.Err).Str("step", se.Step).Msg("ingest failed")
		} else {
			log.Error().Err(err).Msg("ingest failed")
		}
		os.Exit(exitcode.PipelineError)
	}

	printSummary(summary)
	return nil
}

// stageAndResolve runs steps 1-2 and the interactive name-mapping session,
// committing the complete decision set before processing starts.
func stageAndResolve(ctx context.Context, log zerolog.Logger, st *store.Store, pipe *pipeline.Pipeline) (uuid.UUID, error) {
	res, err := pipe.Stage(ctx, cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("staging failed")
		os.Exit(exitcode.StageError)
	}
	fmt.Printf("Staged %d of %d rows (batch %s), %d distinct unit names\n",
		res.RowsStaged, res.RowsRead, res.BatchID, len(res.DistinctNames))

	assets, err := registry.LoadActiveAssets(ctx, st, cfg.RegistryChunkSize)
	if err != nil {
		log.Error().Err(err).Msg("failed to load asset registry")
		os.Exit(exitcode.ResolutionError)
	}
	engine := registry.NewEngine(res.BatchID, res.DistinctNames, registry.NewMatcher(assets))

	for i := range cfg.Mappings {
		if err := engine.SaveDecision(cfg.Mappings[i].Decision()); err != nil {
			log.Warn().Err(err).Str("name", cfg.Mappings[i].Name).Msg("scripted mapping skipped")
		}
	}
	if cfg.AutoMap {
		if n := engine.AutoMapHighConfidence(); n > 0 {
			fmt.Printf("Auto-mapped %d high-confidence names\n", n)
		}
	}

	if remaining := engine.UnmappedNames(); len(remaining) > 0 {
		if cfg.NonInteractive {
			log.Error().Strs("names", remaining).Msg("undecided unit names in non-interactive mode")
			os.Exit(exitcode.ResolutionError)
		}
		if !promptMappings(engine) {
			fmt.Println("Aborted before submitting mappings; nothing was committed.")
			os.Exit(exitcode.ResolutionError)
		}
	}

	if err := engine.SubmitAll(ctx, st); err != nil {
		var un *registry.UnmappedNamesError
		if errors.As(err, &un) {
			log.Error().Strs("names", un.Names).Msg("unmapped names at submit")
		} else {
			log.Error().Err(err).Msg("failed to commit mappings")
		}
		os.Exit(exitcode.ResolutionError)
	}
	return res.BatchID, nil
}

func printSummary(s *model.BatchSummary) {
	fmt.Println("=== ingest complete ===")
	fmt.Printf("Batch:           %s\n", s.BatchID)
	fmt.Printf("Source:          %s (sha256 %s)\n", s.SourceFile, s.FileSHA256)
	fmt.Printf("Processed rows:  %d (%d ignored)\n", s.ProcessedRows, s.IgnoredRows)
	fmt.Printf("Meter updates:   %d (%d conflicts, %d skipped)\n",
		s.MeterReadingsUpdated, s.ConflictsDetected, s.ConflictsSkipped)
	fmt.Printf("Names:           %d formal, %d exception, %d general, %d ignored\n",
		s.AssetsByCategory.Formal, s.AssetsByCategory.Exception,
		s.AssetsByCategory.General, s.AssetsByCategory.Ignored)
	if s.WarningCount > 0 {
		fmt.Printf("Warnings:        %d\n", s.WarningCount)
	}
	fmt.Printf("Duration:        %.1fs\n", s.DurationTotal.Seconds())
}
