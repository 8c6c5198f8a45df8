package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rcaamano/fuelmigrate/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func touchFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fuel.csv")
	if err := os.WriteFile(path, []byte("Unidad,Litros,Fecha\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromFile_Valid(t *testing.T) {
	path := writeConfig(t, `
meter_default: always_use_diesel
registry_chunk_size: 100
mappings:
  - name: "Excavadora 12"
    category: formal
    asset_id: 1
  - name: "Camioneta contratista"
    category: exception
    exception_type: rental
`)
	var c Config
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.MeterDefault != "always_use_diesel" {
		t.Errorf("meter default: got %q", c.MeterDefault)
	}
	if c.RegistryChunkSize != 100 {
		t.Errorf("chunk size: got %d", c.RegistryChunkSize)
	}
	if len(c.Mappings) != 2 {
		t.Fatalf("mappings: got %d", len(c.Mappings))
	}
}

func TestLoadFromFile_FlagsTakePrecedence(t *testing.T) {
	path := writeConfig(t, "meter_default: always_use_diesel\n")
	c := Config{MeterDefault: "ask_each_time"}
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.MeterDefault != "ask_each_time" {
		t.Errorf("flag value should win, got %q", c.MeterDefault)
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	var c Config
	if err := c.LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate_Defaults(t *testing.T) {
	c := Config{FilePath: touchFile(t)}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.MeterDefault != string(model.PrefAskEachTime) {
		t.Errorf("meter default: got %q", c.MeterDefault)
	}
	if c.RegistryChunkSize != 500 {
		t.Errorf("chunk size default: got %d", c.RegistryChunkSize)
	}
}

func TestValidate_UnknownMeterDefault(t *testing.T) {
	c := Config{FilePath: touchFile(t), MeterDefault: "sometimes"}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for unknown meter default")
	}
}

func TestValidate_ScriptedFormalNeedsAsset(t *testing.T) {
	c := Config{
		FilePath: touchFile(t),
		Mappings: []ScriptedMapping{{Name: "Excavadora 12", Category: "formal"}},
	}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for formal mapping without asset_id")
	}
}

func TestValidateWithDSN(t *testing.T) {
	c := Config{FilePath: touchFile(t)}
	if err := c.ValidateWithDSN(); err == nil {
		t.Fatal("expected error without DSN")
	}
	c.DSN = "postgresql://localhost/fuel"
	if err := c.ValidateWithDSN(); err != nil {
		t.Fatalf("ValidateWithDSN: %v", err)
	}
}

func TestScriptedMapping_Decision(t *testing.T) {
	m := ScriptedMapping{Name: "Camioneta contratista", Category: "exception"}
	d := m.Decision()
	if d.Category != model.CategoryException {
		t.Errorf("category: got %s", d.Category)
	}
	if d.ExceptionType != model.ExceptionUnknown {
		t.Errorf("default exception type: got %s", d.ExceptionType)
	}
	if d.Notes != "scripted" {
		t.Errorf("notes: got %q", d.Notes)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("decision should validate: %v", err)
	}
}
