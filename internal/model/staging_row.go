package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StagingRow is the normalized, DB-ready representation of a single fuel
// transaction line held in ingest.stage_fuel_rows until the batch commits.
type StagingRow struct {
	BatchID         uuid.UUID
	SourceRowNumber int64
	SourceRowHash   []byte

	UnitName     string
	UnitNameNorm string

	Quantity        decimal.Decimal
	TransactionDate time.Time
	Horometer       *decimal.Decimal
	Odometer        *decimal.Decimal
	WarehouseRef    string

	// Populated by the resolve-assets step from the committed name mappings.
	ResolvedCategory *string
	ResolvedAssetID  *int64
}

// StagingColumns returns the ordered column names for COPY into
// ingest.stage_fuel_rows.
func StagingColumns() []string {
	return []string{
		"batch_id",
		"source_row_number",
		"source_row_hash",
		"unit_name",
		"unit_name_norm",
		"quantity",
		"transaction_date",
		"horometer",
		"odometer",
		"warehouse_ref",
	}
}

// CopyValues returns the row values in the same order as StagingColumns(),
// suitable for pgx CopyFromSource.
func (r *StagingRow) CopyValues() []any {
	return []any{
		r.BatchID,
		r.SourceRowNumber,
		r.SourceRowHash,
		r.UnitName,
		r.UnitNameNorm,
		r.Quantity,
		r.TransactionDate,
		r.Horometer,
		r.Odometer,
		r.WarehouseRef,
	}
}
