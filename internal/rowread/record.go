package rowread

// Field is a canonical column of the legacy fuel export. Concrete readers
// map their source headers onto these fields; everything downstream works
// in terms of Field only.
type Field string

const (
	FieldUnitName  Field = "unit_name"
	FieldQuantity  Field = "quantity"
	FieldDate      Field = "transaction_date"
	FieldHorometer Field = "horometer"
	FieldOdometer  Field = "odometer"
	FieldWarehouse Field = "warehouse_ref"
)

// Record is one data row: raw cell text keyed by canonical field. RowNumber
// is the 1-based physical row in the source file, header included, so error
// messages point at the line the user sees in their spreadsheet.
type Record struct {
	RowNumber int64
	Cells     map[Field]string
}

// Cell returns the raw text for a field, or "" when the column is absent.
func (r *Record) Cell(f Field) string {
	return r.Cells[f]
}
