package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rcaamano/fuelmigrate/internal/model"
	"github.com/rcaamano/fuelmigrate/internal/normalize"
	"github.com/rcaamano/fuelmigrate/internal/progress"
	"github.com/rcaamano/fuelmigrate/internal/rowread"
)

const stageChannelDepth = 1024

// StageResult holds the outcome of the validate and stage steps.
type StageResult struct {
	BatchID          uuid.UUID
	FileSHA256       string
	RowsRead         int64
	RowsStaged       int64
	InvalidRows      int64
	WarningCount     int64
	DistinctNames    []string
	DurationValidate time.Duration
	DurationStage    time.Duration
}

// Stage runs steps 1 and 2 for a new batch: read and validate every row of
// the file, then COPY the valid rows into staging. Validation problems are
// recorded as import errors; a bad row never stops its siblings.
func (p *Pipeline) Stage(ctx context.Context, filePath string) (*StageResult, error) {
	batchID := uuid.New()
	log := p.Log.With().Stringer("batch_id", batchID).Logger()

	sha, err := normalize.FileHash(filePath)
	if err != nil {
		return nil, &StepError{Step: StepValidate, Err: err}
	}

	// Step 1: validate. Reads everything into memory before any persisted
	// state is touched; legacy exports are small.
	p.report(StepValidate, 0)
	validateStart := time.Now()

	reader, err := rowread.Open(filePath)
	if err != nil {
		return nil, &StepError{Step: StepValidate, Err: err}
	}

	var (
		rawRows   []*model.RawImportRow
		impErrors []*model.ImportError
		rowsRead  int64
	)
	for {
		rec, readErr := reader.Next()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			reader.Close()
			return nil, &StepError{Step: StepValidate, Err: readErr}
		}
		rowsRead++
		row, rowErrs := validateRecord(rec)
		for _, e := range rowErrs {
			e.BatchID = batchID
			impErrors = append(impErrors, e)
		}
		if row != nil {
			rawRows = append(rawRows, row)
		}
	}
	reader.Close()

	invalid := rowsRead - int64(len(rawRows))
	var warnings int64
	for _, e := range impErrors {
		if e.Severity == model.SeverityWarning {
			warnings++
		}
	}
	durValidate := time.Since(validateStart)
	p.report(StepValidate, 20,
		fmt.Sprintf("%d rows read", rowsRead),
		fmt.Sprintf("%d invalid", invalid))
	log.Info().
		Int64("rows_read", rowsRead).
		Int64("invalid_rows", invalid).
		Int("validation_errors", len(impErrors)).
		Dur("duration", durValidate).
		Msg("validation complete")

	// Step 2: stage.
	p.report(StepStage, 20)
	stageStart := time.Now()

	batch := &model.ProcessingBatch{
		BatchID:          batchID,
		SourceFileName:   filepath.Base(filePath),
		SourceFileSHA256: sha,
		TotalRows:        rowsRead,
		Status:           model.BatchUploading,
	}
	if err := p.Store.CreateBatch(ctx, batch); err != nil {
		return nil, &StepError{Step: StepStage, Err: err}
	}
	if err := p.Store.AddImportErrors(ctx, impErrors); err != nil {
		return nil, &StepError{Step: StepStage, Err: err}
	}

	ch := make(chan *model.StagingRow, stageChannelDepth)
	go func() {
		defer close(ch)
		for _, raw := range rawRows {
			select {
			case ch <- normalize.ToStagingRow(raw, batchID):
			case <-ctx.Done():
				return
			}
		}
	}()

	staged, err := p.Store.ReplaceStagingRows(ctx, batchID, ch)
	if err != nil {
		_ = p.Store.UpdateBatchStatus(ctx, batchID, model.BatchError)
		return nil, &StepError{Step: StepStage, Err: err}
	}
	if err := p.Store.UpdateBatchStatus(ctx, batchID, model.BatchStaged); err != nil {
		return nil, &StepError{Step: StepStage, Err: err}
	}

	names, err := p.Store.DistinctUnitNames(ctx, batchID)
	if err != nil {
		return nil, &StepError{Step: StepStage, Err: err}
	}

	durStage := time.Since(stageStart)
	p.report(StepStage, 40, fmt.Sprintf("%d rows staged", staged))
	if invalid > 0 {
		p.notify(progress.LevelWarning, "Validation problems",
			fmt.Sprintf("%d of %d rows failed validation and were not staged", invalid, rowsRead))
	}
	log.Info().
		Int64("rows_staged", staged).
		Int("distinct_names", len(names)).
		Dur("duration", durStage).
		Msg("staging complete")

	return &StageResult{
		BatchID:          batchID,
		FileSHA256:       sha,
		RowsRead:         rowsRead,
		RowsStaged:       staged,
		InvalidRows:      invalid,
		WarningCount:     warnings,
		DistinctNames:    names,
		DurationValidate: durValidate,
		DurationStage:    durStage,
	}, nil
}

// validateRecord turns one raw record into a typed row, or into import
// errors. A nil row with errors means the row is excluded from staging;
// a non-nil row may still carry warnings (bad meter cells are dropped, the
// row survives).
func validateRecord(rec *rowread.Record) (*model.RawImportRow, []*model.ImportError) {
	var errs []*model.ImportError
	fail := func(field rowread.Field, msg, fix string) {
		errs = append(errs, &model.ImportError{
			RowNumber:    rec.RowNumber,
			Type:         model.ErrTypeValidation,
			Severity:     model.SeverityError,
			Field:        string(field),
			Message:      msg,
			SuggestedFix: fix,
		})
	}
	warn := func(field rowread.Field, msg, fix string) {
		errs = append(errs, &model.ImportError{
			RowNumber:    rec.RowNumber,
			Type:         model.ErrTypeValidation,
			Severity:     model.SeverityWarning,
			Field:        string(field),
			Message:      msg,
			SuggestedFix: fix,
		})
	}

	row := &model.RawImportRow{
		SourceRowNumber: rec.RowNumber,
		UnitName:        rec.Cell(rowread.FieldUnitName),
		WarehouseRef:    rec.Cell(rowread.FieldWarehouse),
	}

	if normalize.Name(row.UnitName) == "" {
		fail(rowread.FieldUnitName, "missing unit name", "fill in the equipment name for this row")
	}

	qty, ok := normalize.ParseQuantity(rec.Cell(rowread.FieldQuantity))
	switch {
	case !ok:
		fail(rowread.FieldQuantity, fmt.Sprintf("unparseable quantity %q", rec.Cell(rowread.FieldQuantity)),
			"enter the liters as a number")
	case qty.LessThanOrEqual(decimal.Zero):
		fail(rowread.FieldQuantity, fmt.Sprintf("quantity must be positive, got %s", qty),
			"correct the liters value")
	default:
		row.Quantity = qty
	}

	date, ok := normalize.ParseDate(rec.Cell(rowread.FieldDate))
	if !ok {
		fail(rowread.FieldDate, fmt.Sprintf("unparseable date %q", rec.Cell(rowread.FieldDate)),
			"use dd/mm/yyyy")
	} else {
		row.TransactionDate = date
	}

	if h, ok := normalize.ParseMeter(rec.Cell(rowread.FieldHorometer)); ok {
		row.Horometer = h
	} else {
		warn(rowread.FieldHorometer, fmt.Sprintf("unparseable horometer %q ignored", rec.Cell(rowread.FieldHorometer)), "")
	}
	if o, ok := normalize.ParseMeter(rec.Cell(rowread.FieldOdometer)); ok {
		row.Odometer = o
	} else {
		warn(rowread.FieldOdometer, fmt.Sprintf("unparseable odometer %q ignored", rec.Cell(rowread.FieldOdometer)), "")
	}

	for _, e := range errs {
		if e.Severity == model.SeverityError {
			return nil, errs
		}
	}
	return row, errs
}
