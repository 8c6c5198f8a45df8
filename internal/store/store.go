// Package store is the persistence layer for the migration pipeline: batch
// lifecycle, staging, committed name mappings, import errors, and the
// ledger.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rcaamano/fuelmigrate/internal/model"
)

// ErrBatchNotFound is returned when a batch id has no record.
var ErrBatchNotFound = errors.New("batch not found")

// Store wraps a pgx pool with the pipeline's persistence operations.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store over an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Pool exposes the underlying pool for callers that need raw access.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// CreateBatch inserts a new import batch in status uploading.
func (s *Store) CreateBatch(ctx context.Context, b *model.ProcessingBatch) error {
	if b.Status == "" {
		b.Status = model.BatchUploading
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO ingest.import_batches
			(batch_id, source_file_name, source_file_sha256, total_rows, status)
		VALUES ($1, $2, $3, $4, $5)`,
		b.BatchID, b.SourceFileName, b.SourceFileSHA256, b.TotalRows, b.Status,
	)
	if err != nil {
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// GetBatch loads a batch by id.
func (s *Store) GetBatch(ctx context.Context, batchID uuid.UUID) (*model.ProcessingBatch, error) {
	var b model.ProcessingBatch
	err := s.pool.QueryRow(ctx, `
		SELECT batch_id, source_file_name, source_file_sha256, total_rows, status, created_at
		FROM ingest.import_batches
		WHERE batch_id = $1`,
		batchID,
	).Scan(&b.BatchID, &b.SourceFileName, &b.SourceFileSHA256, &b.TotalRows, &b.Status, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return &b, nil
}

// UpdateBatchStatus moves a batch to the given status.
func (s *Store) UpdateBatchStatus(ctx context.Context, batchID uuid.UUID, status model.BatchStatus) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE ingest.import_batches SET status = $2 WHERE batch_id = $1",
		batchID, status,
	)
	if err != nil {
		return fmt.Errorf("update batch status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBatchNotFound
	}
	return nil
}

// ResetBatch discards all transient state for a failed or abandoned batch:
// staging rows, name mappings, import errors, and the batch record itself.
// Completed batches are refused so committed ledger output is never orphaned
// from its provenance.
func (s *Store) ResetBatch(ctx context.Context, batchID uuid.UUID) error {
	b, err := s.GetBatch(ctx, batchID)
	if err != nil {
		return err
	}
	if b.Status == model.BatchCompleted {
		return fmt.Errorf("batch %s is completed and cannot be reset", batchID)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("reset batch begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range []string{
		"DELETE FROM ingest.stage_fuel_rows WHERE batch_id = $1",
		"DELETE FROM ingest.name_mappings WHERE batch_id = $1",
		"DELETE FROM ingest.import_errors WHERE batch_id = $1",
		"DELETE FROM ingest.import_batches WHERE batch_id = $1",
	} {
		if _, err := tx.Exec(ctx, stmt, batchID); err != nil {
			return fmt.Errorf("reset batch: %w", err)
		}
	}
	return tx.Commit(ctx)
}
