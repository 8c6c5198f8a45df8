package pipeline

import (
	"testing"

	"github.com/rcaamano/fuelmigrate/internal/model"
	"github.com/rcaamano/fuelmigrate/internal/rowread"
)

func record(rowNum int64, cells map[rowread.Field]string) *rowread.Record {
	return &rowread.Record{RowNumber: rowNum, Cells: cells}
}

func TestValidateRecord_Valid(t *testing.T) {
	row, errs := validateRecord(record(5, map[rowread.Field]string{
		rowread.FieldUnitName:  "Excavadora 12",
		rowread.FieldQuantity:  "120,5",
		rowread.FieldDate:      "15/03/2023",
		rowread.FieldHorometer: "1500.5",
		rowread.FieldWarehouse: "ALM-01",
	}))
	if row == nil {
		t.Fatalf("expected valid row, got errors %v", errs)
	}
	if len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
	if row.SourceRowNumber != 5 {
		t.Errorf("row number: got %d", row.SourceRowNumber)
	}
	if row.Quantity.String() != "120.5" {
		t.Errorf("quantity: got %s", row.Quantity)
	}
	if row.Horometer == nil || row.Horometer.String() != "1500.5" {
		t.Errorf("horometer: got %v", row.Horometer)
	}
	if row.Odometer != nil {
		t.Errorf("blank odometer should stay nil, got %v", row.Odometer)
	}
	if row.TransactionDate.Day() != 15 || int(row.TransactionDate.Month()) != 3 {
		t.Errorf("day-first date parse: got %s", row.TransactionDate)
	}
}

func TestValidateRecord_Rejections(t *testing.T) {
	base := func() map[rowread.Field]string {
		return map[rowread.Field]string{
			rowread.FieldUnitName: "Excavadora 12",
			rowread.FieldQuantity: "100",
			rowread.FieldDate:     "15/03/2023",
		}
	}
	tests := []struct {
		name  string
		field rowread.Field
		value string
	}{
		{"missing_unit_name", rowread.FieldUnitName, "   "},
		{"unparseable_quantity", rowread.FieldQuantity, "cien"},
		{"zero_quantity", rowread.FieldQuantity, "0"},
		{"negative_quantity", rowread.FieldQuantity, "-5"},
		{"unparseable_date", rowread.FieldDate, "ayer"},
		{"missing_date", rowread.FieldDate, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := base()
			cells[tt.field] = tt.value
			row, errs := validateRecord(record(2, cells))
			if row != nil {
				t.Fatal("expected row to be rejected")
			}
			if len(errs) == 0 {
				t.Fatal("expected at least one import error")
			}
			found := false
			for _, e := range errs {
				if e.Field == string(tt.field) && e.Severity == model.SeverityError {
					found = true
				}
			}
			if !found {
				t.Errorf("no error-severity problem recorded for field %s: %v", tt.field, errs)
			}
		})
	}
}

func TestValidateRecord_BadMeterIsWarningOnly(t *testing.T) {
	row, errs := validateRecord(record(3, map[rowread.Field]string{
		rowread.FieldUnitName:  "Excavadora 12",
		rowread.FieldQuantity:  "100",
		rowread.FieldDate:      "15/03/2023",
		rowread.FieldHorometer: "n/a",
		rowread.FieldOdometer:  "-40",
	}))
	if row == nil {
		t.Fatal("bad meter cells must not reject the row")
	}
	if row.Horometer != nil || row.Odometer != nil {
		t.Errorf("unparseable meters should be dropped, got %v / %v", row.Horometer, row.Odometer)
	}
	if len(errs) != 2 {
		t.Fatalf("expected two warnings, got %v", errs)
	}
	for _, e := range errs {
		if e.Severity != model.SeverityWarning {
			t.Errorf("meter problem should be a warning, got %s on %s", e.Severity, e.Field)
		}
	}
}

func TestValidateRecord_ErrorsCarryRowNumber(t *testing.T) {
	_, errs := validateRecord(record(42, map[rowread.Field]string{
		rowread.FieldQuantity: "abc",
	}))
	if len(errs) == 0 {
		t.Fatal("expected errors")
	}
	for _, e := range errs {
		if e.RowNumber != 42 {
			t.Errorf("row number: got %d", e.RowNumber)
		}
	}
}
