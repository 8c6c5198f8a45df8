package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerTransaction is one committed inventory-ledger entry. The
// (batch_id, source_row_number) pair is the deterministic idempotence key:
// re-running transaction creation for a batch can never double-insert.
type LedgerTransaction struct {
	TransactionID   int64
	BatchID         uuid.UUID
	SourceRowNumber int64

	Category      MappingCategory
	AssetID       *int64  // set for formal rows
	ExceptionName *string // set for exception rows

	Quantity        decimal.Decimal
	TransactionDate time.Time
	Horometer       *decimal.Decimal
	Odometer        *decimal.Decimal
	WarehouseRef    string

	CreatedAt time.Time
}

// MeterState is the per-asset cumulative meter state maintained by the
// ledger.
type MeterState struct {
	AssetID   int64
	Horometer *decimal.Decimal
	Odometer  *decimal.Decimal
	UpdatedAt time.Time
}
