// mkfixture generates a synthetic legacy fuel export for local testing:
// a configurable number of transaction rows over a pool of unit names, with
// Spanish headers, day-first dates, optional meter readings, and optionally
// a few deliberately broken rows to exercise validation.
// Usage: go run ./cmd/mkfixture --out testdata/fuel-small.csv --rows 200
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	goparquet "github.com/parquet-go/parquet-go"
)

var unitNames = []string{
	"Excavadora 12",
	"Cargador Frontal 3",
	"Camion Volquete 7",
	"Tractor Oruga 5",
	"Motoniveladora 2",
	"Retroexcavadora 8",
	"Rodillo Compactador 4",
	"Grua Movil 9",
	"Camioneta contratista",
	"Generador externo",
}

type fixtureRow struct {
	UnitName        string   `parquet:"unit_name"`
	Quantity        float64  `parquet:"quantity"`
	TransactionDate string   `parquet:"transaction_date"`
	Horometer       *float64 `parquet:"horometer,optional"`
	Odometer        *float64 `parquet:"odometer,optional"`
	WarehouseRef    string   `parquet:"warehouse_ref,optional"`
}

func main() {
	out := flag.String("out", "testdata/fuel-small.csv", "output file (.csv or .parquet)")
	rows := flag.Int("rows", 200, "data rows to generate")
	invalid := flag.Int("invalid", 0, "rows with deliberately broken values")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	start := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)

	generated := make([]fixtureRow, 0, *rows)
	meters := make(map[string]float64, len(unitNames))
	for i := 0; i < *rows; i++ {
		name := unitNames[rng.Intn(len(unitNames))]
		date := start.AddDate(0, 0, rng.Intn(30))
		row := fixtureRow{
			UnitName:        name,
			Quantity:        10 + float64(rng.Intn(2000))/10,
			TransactionDate: date.Format("02/01/2006"),
			WarehouseRef:    fmt.Sprintf("ALM-%02d", 1+rng.Intn(3)),
		}
		// Roughly two thirds of the fleet reports a horometer; readings only
		// ever move forward per unit.
		if rng.Intn(3) > 0 {
			meters[name] += float64(5 + rng.Intn(20))
			h := 1000 + meters[name]
			row.Horometer = &h
		}
		generated = append(generated, row)
	}
	for i := 0; i < *invalid && i < len(generated); i++ {
		switch i % 3 {
		case 0:
			generated[i].UnitName = "  "
		case 1:
			generated[i].Quantity = -generated[i].Quantity
		case 2:
			generated[i].TransactionDate = "sin fecha"
		}
	}

	var err error
	switch ext := strings.ToLower(filepath.Ext(*out)); ext {
	case ".csv":
		err = writeCSV(*out, generated)
	case ".parquet":
		err = writeParquet(*out, generated)
	default:
		err = fmt.Errorf("unsupported output extension %q", ext)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "mkfixture: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d rows (%d invalid) to %s\n", len(generated), *invalid, *out)
}

func writeCSV(path string, rows []fixtureRow) error {
	var b strings.Builder
	b.WriteString("Unidad,Litros,Fecha,Horometro,Odometro,Almacen\n")
	for _, r := range rows {
		horometer := ""
		if r.Horometer != nil {
			horometer = fmt.Sprintf("%.1f", *r.Horometer)
		}
		odometer := ""
		if r.Odometer != nil {
			odometer = fmt.Sprintf("%.1f", *r.Odometer)
		}
		fmt.Fprintf(&b, "%s,%.1f,%s,%s,%s,%s\n",
			r.UnitName, r.Quantity, r.TransactionDate, horometer, odometer, r.WarehouseRef)
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

func writeParquet(path string, rows []fixtureRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := goparquet.NewGenericWriter[fixtureRow](f)
	if _, err := w.Write(rows); err != nil {
		f.Close()
		return err
	}
	if err := w.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
