package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/rcaamano/fuelmigrate/internal/model"
	embedsql "github.com/rcaamano/fuelmigrate/internal/sql"
)

// CreateLedgerTransactions commits the staged, resolved rows of a batch into
// the ledger. Rows mapped to ignore are excluded. The insert is keyed on
// (batch_id, source_row_number) with ON CONFLICT DO NOTHING, so re-invoking
// after a partial or paused earlier attempt inserts only what is missing.
// Returns the number of newly inserted transactions.
func (s *Store) CreateLedgerTransactions(ctx context.Context, batchID uuid.UUID) (int64, error) {
	tag, err := s.pool.Exec(ctx, embedsql.CreateTransactions, batchID)
	if err != nil {
		return 0, fmt.Errorf("create ledger transactions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// LedgerTransactionCount counts committed transactions for a batch.
func (s *Store) LedgerTransactionCount(ctx context.Context, batchID uuid.UUID) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM ledger.fuel_transactions WHERE batch_id = $1", batchID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("ledger transaction count: %w", err)
	}
	return n, nil
}

// LedgerTransactions loads a batch's committed transactions in row order.
func (s *Store) LedgerTransactions(ctx context.Context, batchID uuid.UUID) ([]*model.LedgerTransaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT transaction_id, batch_id, source_row_number, category, asset_id,
		       exception_name, quantity, transaction_date, horometer, odometer,
		       warehouse_ref, created_at
		FROM ledger.fuel_transactions
		WHERE batch_id = $1
		ORDER BY source_row_number`,
		batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("ledger transactions: %w", err)
	}
	defer rows.Close()

	var out []*model.LedgerTransaction
	for rows.Next() {
		var t model.LedgerTransaction
		if err := rows.Scan(&t.TransactionID, &t.BatchID, &t.SourceRowNumber, &t.Category,
			&t.AssetID, &t.ExceptionName, &t.Quantity, &t.TransactionDate,
			&t.Horometer, &t.Odometer, &t.WarehouseRef, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger transaction: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// UpsertMeterState writes an asset's cumulative meter state. Nil readings
// leave the existing value untouched.
func (s *Store) UpsertMeterState(ctx context.Context, assetID int64, horometer, odometer *decimal.Decimal) error {
	_, err := s.pool.Exec(ctx, embedsql.UpsertMeterState, assetID, horometer, odometer)
	if err != nil {
		return fmt.Errorf("upsert meter state for asset %d: %w", assetID, err)
	}
	return nil
}

// MeterState reads an asset's cumulative meter state; ok is false when no
// state exists yet.
func (s *Store) MeterState(ctx context.Context, assetID int64) (*model.MeterState, bool, error) {
	var m model.MeterState
	var updated time.Time
	err := s.pool.QueryRow(ctx, `
		SELECT asset_id, horometer, odometer, updated_at
		FROM ledger.asset_meter_state
		WHERE asset_id = $1`,
		assetID,
	).Scan(&m.AssetID, &m.Horometer, &m.Odometer, &updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("meter state for asset %d: %w", assetID, err)
	}
	m.UpdatedAt = updated
	return &m, true, nil
}

// ResolveAssets applies the committed name mappings to every staged row and
// returns the rows whose name had no decision (which the caller records as
// unrecoverable errors for the batch).
func (s *Store) ResolveAssets(ctx context.Context, batchID uuid.UUID) (resolved int64, unresolved []*model.StagingRow, err error) {
	tag, err := s.pool.Exec(ctx, embedsql.ResolveAssets, batchID)
	if err != nil {
		return 0, nil, fmt.Errorf("resolve assets: %w", err)
	}

	rows, err := s.pool.Query(ctx, embedsql.UnresolvedRows, batchID)
	if err != nil {
		return 0, nil, fmt.Errorf("unresolved rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		r := &model.StagingRow{BatchID: batchID}
		if err := rows.Scan(&r.SourceRowNumber, &r.UnitName); err != nil {
			return 0, nil, fmt.Errorf("scan unresolved row: %w", err)
		}
		unresolved = append(unresolved, r)
	}
	return tag.RowsAffected(), unresolved, rows.Err()
}
