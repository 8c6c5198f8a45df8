package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rcaamano/fuelmigrate/internal/db"
	"github.com/rcaamano/fuelmigrate/internal/model"
)

// ReplaceStagingRows loads a batch's staging rows from the channel via COPY,
// deleting any rows from a previous staging run of the same batch first.
// Delete and COPY share one transaction, so re-staging replaces rather than
// duplicates and a failed run leaves the previous staging intact.
func (s *Store) ReplaceStagingRows(ctx context.Context, batchID uuid.UUID, rows <-chan *model.StagingRow) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("stage begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		"DELETE FROM ingest.stage_fuel_rows WHERE batch_id = $1", batchID,
	); err != nil {
		return 0, fmt.Errorf("stage delete previous: %w", err)
	}

	staged, err := tx.CopyFrom(ctx,
		pgx.Identifier{"ingest", "stage_fuel_rows"},
		model.StagingColumns(),
		db.NewChannelSource(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("stage copy: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("stage commit: %w", err)
	}
	return staged, nil
}

// StagedRowCount returns the number of staged rows for a batch.
func (s *Store) StagedRowCount(ctx context.Context, batchID uuid.UUID) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM ingest.stage_fuel_rows WHERE batch_id = $1", batchID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("staged row count: %w", err)
	}
	return n, nil
}

// DistinctUnitNames returns each distinct original unit name in the staged
// batch, one per normalized form, ordered by name.
func (s *Store) DistinctUnitNames(ctx context.Context, batchID uuid.UUID) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT ON (unit_name_norm) unit_name
		FROM ingest.stage_fuel_rows
		WHERE batch_id = $1
		ORDER BY unit_name_norm, source_row_number`,
		batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("distinct unit names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan unit name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// ClearStaging removes a batch's staging rows after finalize.
func (s *Store) ClearStaging(ctx context.Context, batchID uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		"DELETE FROM ingest.stage_fuel_rows WHERE batch_id = $1", batchID,
	)
	if err != nil {
		return fmt.Errorf("clear staging: %w", err)
	}
	return nil
}

// IgnoredRowCount counts staged rows whose name resolved to the ignore
// category.
func (s *Store) IgnoredRowCount(ctx context.Context, batchID uuid.UUID) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM ingest.stage_fuel_rows
		WHERE batch_id = $1 AND resolved_category = 'ignore'`,
		batchID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("ignored row count: %w", err)
	}
	return n, nil
}
