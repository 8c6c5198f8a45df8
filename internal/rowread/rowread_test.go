package rowread

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fuel.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMapHeader_SpanishAliases(t *testing.T) {
	mapping, err := MapHeader([]string{"Unidad", "LITROS", "Fecha", "Horómetro", "Odometro", "Almacén"})
	if err != nil {
		t.Fatalf("MapHeader: %v", err)
	}
	want := map[int]Field{
		0: FieldUnitName, 1: FieldQuantity, 2: FieldDate,
		3: FieldHorometer, 4: FieldOdometer, 5: FieldWarehouse,
	}
	for i, f := range want {
		if mapping[i] != f {
			t.Errorf("column %d: got %q, want %q", i, mapping[i], f)
		}
	}
}

func TestMapHeader_MissingRequired(t *testing.T) {
	_, err := MapHeader([]string{"Unidad", "Horometro"})
	if err == nil {
		t.Fatal("expected error for missing quantity and date columns")
	}
}

func TestOpen_CSV(t *testing.T) {
	path := writeCSV(t, "Unidad,Litros,Fecha,Horometro\nExcavadora 12,120.5,15/03/2023,1500\nCamion 3,80,16/03/2023,\n")
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	recs, err := ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].RowNumber != 2 {
		t.Errorf("first data row number: got %d, want 2", recs[0].RowNumber)
	}
	if recs[0].Cell(FieldUnitName) != "Excavadora 12" {
		t.Errorf("unit name: got %q", recs[0].Cell(FieldUnitName))
	}
	if recs[1].Cell(FieldHorometer) != "" {
		t.Errorf("blank horometer cell should stay empty, got %q", recs[1].Cell(FieldHorometer))
	}
}

func TestOpen_SkipsTitleAndBlankRows(t *testing.T) {
	path := writeCSV(t, "Reporte de Combustible,,\n,,\nUnidad,Litros,Fecha\nExcavadora 12,100,01/02/2023\n,,\nCamion 3,50,02/02/2023\n")
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	recs, err := ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].RowNumber != 4 {
		t.Errorf("row number should count from physical row 1, got %d", recs[0].RowNumber)
	}
	if recs[1].RowNumber != 6 {
		t.Errorf("blank row must not consume a record but keeps its number, got %d", recs[1].RowNumber)
	}
}

func TestOpen_NoHeader(t *testing.T) {
	path := writeCSV(t, "a,b,c\n1,2,3\n")
	if _, err := Open(path); err == nil {
		t.Fatal("expected error when no header row is present")
	}
}

func TestOpen_UnsupportedExtension(t *testing.T) {
	if _, err := Open("file.pdf"); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}
