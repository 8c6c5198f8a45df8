package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rcaamano/fuelmigrate/internal/db"
	"github.com/rcaamano/fuelmigrate/internal/exitcode"
	"github.com/rcaamano/fuelmigrate/internal/logging"
	"github.com/rcaamano/fuelmigrate/internal/normalize"
	"github.com/rcaamano/fuelmigrate/internal/registry"
	"github.com/rcaamano/fuelmigrate/internal/rowread"
	"github.com/rcaamano/fuelmigrate/internal/store"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run validation and stats (no writes)",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&cfg.FilePath, "file", "", "Path to legacy export (.csv, .xlsx, .xls, .parquet) (required)")
	_ = planCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	sha, err := normalize.FileHash(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash file")
		os.Exit(exitcode.ValidationError)
	}
	stat, err := os.Stat(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to stat file")
		os.Exit(exitcode.ValidationError)
	}

	reader, err := rowread.Open(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to open file")
		os.Exit(exitcode.ValidationError)
	}
	defer reader.Close()

	var (
		rows, invalid, meterRows int64
		minDate, maxDate         time.Time
		names                    = make(map[string]string) // norm -> first original
	)
	for {
		rec, readErr := reader.Next()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			log.Error().Err(readErr).Msg("failed to read rows")
			os.Exit(exitcode.ValidationError)
		}
		rows++

		name := rec.Cell(rowread.FieldUnitName)
		norm := normalize.Name(name)
		qty, qtyOK := normalize.ParseQuantity(rec.Cell(rowread.FieldQuantity))
		date, dateOK := normalize.ParseDate(rec.Cell(rowread.FieldDate))
		if norm == "" || !qtyOK || qty.LessThanOrEqual(decimal.Zero) || !dateOK {
			invalid++
			continue
		}
		if _, ok := names[norm]; !ok {
			names[norm] = name
		}
		if minDate.IsZero() || date.Before(minDate) {
			minDate = date
		}
		if date.After(maxDate) {
			maxDate = date
		}
		h, _ := normalize.ParseMeter(rec.Cell(rowread.FieldHorometer))
		o, _ := normalize.ParseMeter(rec.Cell(rowread.FieldOdometer))
		if h != nil || o != nil {
			meterRows++
		}
	}

	fmt.Println("=== fuelmigrate plan ===")
	fmt.Printf("File:           %s\n", cfg.FilePath)
	fmt.Printf("SHA-256:        %s\n", sha)
	fmt.Printf("Size:           %d bytes\n", stat.Size())
	fmt.Printf("Total rows:     %d\n", rows)
	fmt.Printf("Invalid rows:   %d\n", invalid)
	fmt.Printf("Distinct names: %d\n", len(names))
	if !minDate.IsZero() {
		fmt.Printf("Date range:     %s .. %s\n",
			minDate.Format("2006-01-02"), maxDate.Format("2006-01-02"))
	}
	if rows > invalid {
		valid := rows - invalid
		fmt.Printf("Meter coverage: %d of %d valid rows (%.0f%%)\n",
			meterRows, valid, float64(meterRows)/float64(valid)*100)
	}

	if cfg.DSN == "" {
		fmt.Println("\nNo DSN provided; skipping name-resolution preview.")
		return nil
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	assets, err := registry.LoadActiveAssets(ctx, store.New(pool), cfg.RegistryChunkSize)
	if err != nil {
		log.Error().Err(err).Msg("failed to load asset registry")
		os.Exit(exitcode.ResolutionError)
	}
	matcher := registry.NewMatcher(assets)

	sorted := make([]string, 0, len(names))
	for _, orig := range names {
		sorted = append(sorted, orig)
	}
	sort.Strings(sorted)

	autoMappable := 0
	fmt.Printf("\nName resolution preview (%d registry assets):\n", len(assets))
	for _, name := range sorted {
		sugg := matcher.Suggestions(name)
		if len(sugg) == 0 {
			fmt.Printf("  %-30s (no candidates)\n", name)
			continue
		}
		marker := ""
		if sugg[0].Score >= registry.AutoMapThreshold {
			marker = " [auto-map]"
			autoMappable++
		}
		fmt.Printf("  %-30s → %s (%.2f)%s\n", name, sugg[0].AssetName, sugg[0].Score, marker)
	}
	fmt.Printf("\n%d of %d names auto-mappable at confidence ≥ %.1f\n",
		autoMappable, len(sorted), registry.AutoMapThreshold)

	return nil
}
