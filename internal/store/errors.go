package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rcaamano/fuelmigrate/internal/model"
)

// AddImportErrors appends row-level problems for a batch in one round trip.
func (s *Store) AddImportErrors(ctx context.Context, errs []*model.ImportError) error {
	if len(errs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, e := range errs {
		batch.Queue(`
			INSERT INTO ingest.import_errors
				(batch_id, row_number, error_type, severity, field, message, suggested_fix, resolved)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			e.BatchID, e.RowNumber, e.Type, e.Severity, e.Field, e.Message, e.SuggestedFix, e.Resolved,
		)
	}
	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range errs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert import error: %w", err)
		}
	}
	return nil
}

// ImportErrors returns all recorded problems for a batch in row order.
func (s *Store) ImportErrors(ctx context.Context, batchID uuid.UUID) ([]*model.ImportError, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT error_id, batch_id, row_number, error_type, severity, field, message, suggested_fix, resolved
		FROM ingest.import_errors
		WHERE batch_id = $1
		ORDER BY row_number, error_id`,
		batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("import errors: %w", err)
	}
	defer rows.Close()

	var out []*model.ImportError
	for rows.Next() {
		var e model.ImportError
		if err := rows.Scan(&e.ID, &e.BatchID, &e.RowNumber, &e.Type, &e.Severity,
			&e.Field, &e.Message, &e.SuggestedFix, &e.Resolved); err != nil {
			return nil, fmt.Errorf("scan import error: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// ErrorCounts returns unresolved error and warning counts for a batch. The
// pipeline refuses to finalize while the first number is non-zero.
func (s *Store) ErrorCounts(ctx context.Context, batchID uuid.UUID) (errors, warnings int64, err error) {
	err = s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE severity = 'error' AND NOT resolved),
			COUNT(*) FILTER (WHERE severity = 'warning' AND NOT resolved)
		FROM ingest.import_errors
		WHERE batch_id = $1`,
		batchID,
	).Scan(&errors, &warnings)
	if err != nil {
		return 0, 0, fmt.Errorf("error counts: %w", err)
	}
	return errors, warnings, nil
}

// ResolveImportError marks one recorded problem as handled.
func (s *Store) ResolveImportError(ctx context.Context, errorID int64) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE ingest.import_errors SET resolved = TRUE WHERE error_id = $1", errorID,
	)
	if err != nil {
		return fmt.Errorf("resolve import error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("import error %d not found", errorID)
	}
	return nil
}
