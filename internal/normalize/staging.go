package normalize

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rcaamano/fuelmigrate/internal/model"
)

// ToStagingRow converts a validated RawImportRow into its normalized staging
// form for batch batchID.
func ToStagingRow(row *model.RawImportRow, batchID uuid.UUID) *model.StagingRow {
	s := &model.StagingRow{
		BatchID:         batchID,
		SourceRowNumber: row.SourceRowNumber,

		UnitName:     row.UnitName,
		UnitNameNorm: Name(row.UnitName),

		Quantity:        row.Quantity,
		TransactionDate: row.TransactionDate,
		Horometer:       row.Horometer,
		Odometer:        row.Odometer,
		WarehouseRef:    row.WarehouseRef,
	}

	s.SourceRowHash = RowHash(row.SourceRowNumber,
		row.UnitName,
		row.Quantity.String(),
		row.TransactionDate.Format("2006-01-02"),
		derefDec(row.Horometer),
		derefDec(row.Odometer),
		row.WarehouseRef,
	)
	return s
}

func derefDec(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
