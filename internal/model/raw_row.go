package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawImportRow is one legacy fuel-transaction record as produced by the
// export reader. Rows are immutable once parsed; invalid values (zero date,
// non-positive quantity) are carried through and flagged during validation
// rather than dropped at read time.
type RawImportRow struct {
	SourceRowNumber int64

	UnitName        string
	Quantity        decimal.Decimal
	TransactionDate time.Time
	Horometer       *decimal.Decimal
	Odometer        *decimal.Decimal
	WarehouseRef    string
}

// HasMeterReading reports whether the row carries at least one meter value.
func (r *RawImportRow) HasMeterReading() bool {
	return r.Horometer != nil || r.Odometer != nil
}
