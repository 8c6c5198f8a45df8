package normalize

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rcaamano/fuelmigrate/internal/model"
)

func TestName_CollapsesAndLowercases(t *testing.T) {
	got := Name("  Excavadora   CAT  320 ")
	if got != "excavadora cat 320" {
		t.Errorf("Name: got %q", got)
	}
}

func TestName_Empty(t *testing.T) {
	if got := Name("   "); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("Excavadora 12")
	if len(got) != 2 || got[0] != "excavadora" || got[1] != "12" {
		t.Errorf("Tokens: got %v", got)
	}
	if Tokens("") != nil {
		t.Error("expected nil tokens for empty input")
	}
}

func TestParseDate_DayFirst(t *testing.T) {
	got, ok := ParseDate("15/03/2023")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	want := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseDate_ISO(t *testing.T) {
	got, ok := ParseDate("2023-03-15")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if got.Day() != 15 || got.Month() != time.March {
		t.Errorf("got %v", got)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	if _, ok := ParseDate("not a date"); ok {
		t.Error("expected failure")
	}
	if _, ok := ParseDate(""); ok {
		t.Error("expected failure for empty input")
	}
}

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"120.5", "120.5", true},
		{"120,5", "120.5", true},
		{"1.234,56", "1234.56", true},
		{"1,234.56", "1234.56", true},
		{" 80 ", "80", true},
		{"", "0", false},
		{"abc", "0", false},
	}
	for _, c := range cases {
		got, ok := ParseQuantity(c.in)
		if ok != c.ok {
			t.Errorf("ParseQuantity(%q): ok=%v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && got.String() != c.want {
			t.Errorf("ParseQuantity(%q): got %s, want %s", c.in, got, c.want)
		}
	}
}

func TestParseMeter_BlankIsNil(t *testing.T) {
	got, ok := ParseMeter("  ")
	if !ok || got != nil {
		t.Errorf("blank meter: got %v, ok=%v", got, ok)
	}
}

func TestParseMeter_Negative(t *testing.T) {
	if _, ok := ParseMeter("-5"); ok {
		t.Error("expected failure for negative meter")
	}
}

func TestRowHash_StableAndDistinct(t *testing.T) {
	a := RowHash(1, "Excavadora 12", "120.5")
	b := RowHash(1, "Excavadora 12", "120.5")
	if !bytes.Equal(a, b) {
		t.Error("hash not stable for identical input")
	}
	c := RowHash(2, "Excavadora 12", "120.5")
	if bytes.Equal(a, c) {
		t.Error("hash should differ by row number")
	}
}

func TestToStagingRow(t *testing.T) {
	h := decimal.NewFromInt(1500)
	raw := &model.RawImportRow{
		SourceRowNumber: 7,
		UnitName:        "  Excavadora   12 ",
		Quantity:        decimal.RequireFromString("120.5"),
		TransactionDate: time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC),
		Horometer:       &h,
		WarehouseRef:    "ALM-01",
	}
	batchID := uuid.New()

	s := ToStagingRow(raw, batchID)
	if s.BatchID != batchID {
		t.Errorf("batch id: got %v", s.BatchID)
	}
	if s.UnitNameNorm != "excavadora 12" {
		t.Errorf("norm name: got %q", s.UnitNameNorm)
	}
	if s.UnitName != raw.UnitName {
		t.Errorf("original name must be preserved, got %q", s.UnitName)
	}
	if len(s.SourceRowHash) == 0 {
		t.Error("expected non-empty row hash")
	}
	if len(s.CopyValues()) != len(model.StagingColumns()) {
		t.Errorf("copy values count %d != columns %d", len(s.CopyValues()), len(model.StagingColumns()))
	}
}
