package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rcaamano/fuelmigrate/internal/meter"
	"github.com/rcaamano/fuelmigrate/internal/model"
	"github.com/rcaamano/fuelmigrate/internal/progress"
)

// Process runs steps 3 through 5 against a staged batch with committed name
// mappings. The resolver carries the session's conflict state: on the first
// invocation it is typically empty, and when Process pauses with
// MeterResolutionNeeded the caller resolves the surfaced conflicts on the
// same resolver and invokes Process again. Re-invocation is safe: asset
// resolution is a pure overwrite, and the ledger insert is keyed so already
// committed rows are skipped.
func (p *Pipeline) Process(ctx context.Context, batchID uuid.UUID, resolver *meter.Resolver) (*model.BatchSummary, error) {
	log := p.Log.With().Stringer("batch_id", batchID).Logger()
	totalStart := time.Now()

	batch, err := p.Store.GetBatch(ctx, batchID)
	if err != nil {
		return nil, &StepError{Step: StepResolveAssets, Err: err}
	}
	if batch.Status == model.BatchCompleted {
		return nil, &StepError{Step: StepResolveAssets,
			Err: fmt.Errorf("batch %s is already completed", batchID)}
	}
	if err := p.Store.UpdateBatchStatus(ctx, batchID, model.BatchProcessing); err != nil {
		return nil, &StepError{Step: StepResolveAssets, Err: err}
	}

	// Step 3: resolve assets.
	p.report(StepResolveAssets, 40)
	resolveStart := time.Now()

	resolved, unresolvedRows, err := p.Store.ResolveAssets(ctx, batchID)
	if err != nil {
		_ = p.Store.UpdateBatchStatus(ctx, batchID, model.BatchError)
		return nil, &StepError{Step: StepResolveAssets, Err: err}
	}
	if len(unresolvedRows) > 0 {
		// A staged name without a decision is unrecoverable for the batch;
		// silently falling back to general would misattribute fuel.
		impErrs := make([]*model.ImportError, 0, len(unresolvedRows))
		for _, r := range unresolvedRows {
			impErrs = append(impErrs, &model.ImportError{
				BatchID:      batchID,
				RowNumber:    r.SourceRowNumber,
				Type:         model.ErrTypeAssetResolution,
				Severity:     model.SeverityError,
				Field:        "unit_name",
				Message:      fmt.Sprintf("no mapping decision for unit name %q", r.UnitName),
				SuggestedFix: "map this name in the asset resolution step and resubmit",
			})
		}
		if err := p.Store.AddImportErrors(ctx, impErrs); err != nil {
			return nil, &StepError{Step: StepResolveAssets, Err: err}
		}
		_ = p.Store.UpdateBatchStatus(ctx, batchID, model.BatchError)
		return nil, &StepError{Step: StepResolveAssets,
			Err: fmt.Errorf("%d staged rows have no mapping decision", len(unresolvedRows))}
	}
	durResolve := time.Since(resolveStart)
	p.report(StepResolveAssets, 60, fmt.Sprintf("%d rows resolved", resolved))
	log.Info().Int64("rows_resolved", resolved).Dur("duration", durResolve).Msg("asset resolution applied")

	// Step 4: create transactions, gated on meter conflicts.
	p.report(StepCreateTransactions, 60)
	txStart := time.Now()

	dieselReadings, err := p.Store.LatestDieselReadings(ctx, batchID)
	if err != nil {
		_ = p.Store.UpdateBatchStatus(ctx, batchID, model.BatchError)
		return nil, &StepError{Step: StepCreateTransactions, Err: err}
	}

	conflicts, err := p.detectConflicts(ctx, batchID, dieselReadings)
	if err != nil {
		_ = p.Store.UpdateBatchStatus(ctx, batchID, model.BatchError)
		return nil, &StepError{Step: StepCreateTransactions, Err: err}
	}
	resolver.Add(conflicts...)

	if pending := resolver.Pending(); len(pending) > 0 {
		if err := p.Store.UpdateBatchStatus(ctx, batchID, model.BatchNeedsMeterResolution); err != nil {
			return nil, &StepError{Step: StepCreateTransactions, Err: err}
		}
		p.notify(progress.LevelWarning, "Meter conflicts detected",
			fmt.Sprintf("%d meter readings disagree with inspection data", len(pending)))
		return nil, &StepError{Step: StepCreateTransactions,
			Err: &MeterResolutionNeeded{Conflicts: pending}}
	}

	inserted, err := p.Store.CreateLedgerTransactions(ctx, batchID)
	if err != nil {
		_ = p.Store.UpdateBatchStatus(ctx, batchID, model.BatchError)
		return nil, &StepError{Step: StepCreateTransactions, Err: err}
	}

	meterUpdates, skipped, err := p.applyMeterState(ctx, dieselReadings, resolver)
	if err != nil {
		_ = p.Store.UpdateBatchStatus(ctx, batchID, model.BatchError)
		return nil, &StepError{Step: StepCreateTransactions, Err: err}
	}

	durTx := time.Since(txStart)
	p.report(StepCreateTransactions, 80,
		fmt.Sprintf("%d transactions committed", inserted),
		fmt.Sprintf("%d meter readings updated", meterUpdates))
	log.Info().
		Int64("transactions_inserted", inserted).
		Int64("meter_updates", meterUpdates).
		Dur("duration", durTx).
		Msg("transactions committed")

	// Step 5: finalize, refused while unresolved errors remain.
	p.report(StepFinalize, 80)
	finalizeStart := time.Now()

	errCount, warnCount, err := p.Store.ErrorCounts(ctx, batchID)
	if err != nil {
		return nil, &StepError{Step: StepFinalize, Err: err}
	}
	if errCount > 0 {
		_ = p.Store.UpdateBatchStatus(ctx, batchID, model.BatchError)
		p.notify(progress.LevelError, "Unresolved errors",
			fmt.Sprintf("%d unresolved row errors block completion", errCount))
		return nil, &StepError{Step: StepFinalize,
			Err: fmt.Errorf("%d unresolved errors block finalize", errCount)}
	}

	summary, err := p.buildSummary(ctx, batch, meterUpdates, skipped)
	if err != nil {
		return nil, &StepError{Step: StepFinalize, Err: err}
	}
	summary.WarningCount = warnCount
	summary.RowsRead = batch.TotalRows
	prog := resolver.Progress()
	summary.ConflictsDetected = int64(prog.Resolved + prog.Remaining)

	if err := p.Store.ClearStaging(ctx, batchID); err != nil {
		return nil, &StepError{Step: StepFinalize, Err: err}
	}
	if err := p.Store.UpdateBatchStatus(ctx, batchID, model.BatchCompleted); err != nil {
		return nil, &StepError{Step: StepFinalize, Err: err}
	}

	summary.DurationResolve = durResolve
	summary.DurationTransactions = durTx
	summary.DurationFinalize = time.Since(finalizeStart)
	summary.DurationTotal = time.Since(totalStart)

	p.report(StepFinalize, 100)
	p.notify(progress.LevelSuccess, "Batch completed",
		fmt.Sprintf("%d rows migrated into the ledger", summary.ProcessedRows))
	log.Info().
		Int64("processed_rows", summary.ProcessedRows).
		Int64("meter_updates", summary.MeterReadingsUpdated).
		Dur("total_duration", summary.DurationTotal).
		Msg("batch finalized")

	return summary, nil
}

// detectConflicts pairs each formally mapped asset's latest imported reading
// with its latest inspection reading inside the batch's date window.
func (p *Pipeline) detectConflicts(ctx context.Context, batchID uuid.UUID, diesel map[int64]meter.ReadingPair) ([]*model.MeterConflict, error) {
	if len(diesel) == 0 {
		return nil, nil
	}
	from, to, ok, err := p.Store.BatchDateWindow(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	assetIDs := make([]int64, 0, len(diesel))
	for id := range diesel {
		assetIDs = append(assetIDs, id)
	}
	checklist, err := p.Store.LatestInspectionReadings(ctx, assetIDs, from, to)
	if err != nil {
		return nil, err
	}

	var pairs []meter.ReadingPair
	for id, pair := range diesel {
		cl, ok := checklist[id]
		if !ok {
			continue
		}
		pair.Checklist = cl
		pairs = append(pairs, pair)
	}
	return meter.DetectAll(pairs), nil
}

// applyMeterState writes per-asset cumulative meter state according to the
// conflict resolutions: unconflicted assets and use_diesel take the imported
// reading, keep_checklist re-asserts the inspection reading, skip leaves the
// asset untouched.
func (p *Pipeline) applyMeterState(ctx context.Context, diesel map[int64]meter.ReadingPair, resolver *meter.Resolver) (updated, skipped int64, err error) {
	resolutions := resolver.ResolutionByAsset()
	for id, pair := range diesel {
		switch resolutions[id] {
		case model.ResolutionSkip:
			skipped++
			continue
		case model.ResolutionKeepChecklist:
			if err := p.Store.UpsertMeterState(ctx, id, pair.Checklist.Horometer, pair.Checklist.Odometer); err != nil {
				return updated, skipped, err
			}
		default: // unconflicted or use_diesel
			if err := p.Store.UpsertMeterState(ctx, id, pair.Diesel.Horometer, pair.Diesel.Odometer); err != nil {
				return updated, skipped, err
			}
		}
		updated++
	}
	return updated, skipped, nil
}

func (p *Pipeline) buildSummary(ctx context.Context, batch *model.ProcessingBatch, meterUpdates, conflictsSkipped int64) (*model.BatchSummary, error) {
	ledgered, err := p.Store.LedgerTransactionCount(ctx, batch.BatchID)
	if err != nil {
		return nil, err
	}
	ignored, err := p.Store.IgnoredRowCount(ctx, batch.BatchID)
	if err != nil {
		return nil, err
	}
	counts, err := p.Store.CategoryCounts(ctx, batch.BatchID)
	if err != nil {
		return nil, err
	}
	return &model.BatchSummary{
		BatchID:    batch.BatchID.String(),
		SourceFile: batch.SourceFileName,
		FileSHA256: batch.SourceFileSHA256,
		// Ignore-mapped rows are reported separately, never as processed.
		ProcessedRows:        ledgered,
		IgnoredRows:          ignored,
		MeterReadingsUpdated: meterUpdates,
		ConflictsSkipped:     conflictsSkipped,
		AssetsByCategory:     counts,
	}, nil
}

// Reset discards a failed or abandoned batch's transient state. Committed
// ledger transactions from completed runs are never touched.
func (p *Pipeline) Reset(ctx context.Context, batchID uuid.UUID) error {
	return p.Store.ResetBatch(ctx, batchID)
}
