package rowread

import (
	"fmt"
	"strings"

	"github.com/rcaamano/fuelmigrate/internal/normalize"
)

// Header aliases seen across the legacy exports. The originals are Spanish
// spreadsheets; English variants appear in re-exported copies.
var headerAliases = map[string]Field{
	"unidad":        FieldUnitName,
	"equipo":        FieldUnitName,
	"nombre unidad": FieldUnitName,
	"unit":          FieldUnitName,
	"unit name":     FieldUnitName,

	"litros":   FieldQuantity,
	"cantidad": FieldQuantity,
	"liters":   FieldQuantity,
	"quantity": FieldQuantity,

	"fecha":             FieldDate,
	"fecha transaccion": FieldDate,
	"date":              FieldDate,
	"transaction date":  FieldDate,

	"horometro": FieldHorometer,
	"horómetro": FieldHorometer,
	"horometer": FieldHorometer,
	"horas":     FieldHorometer,

	"odometro":    FieldOdometer,
	"odómetro":    FieldOdometer,
	"odometer":    FieldOdometer,
	"kilometraje": FieldOdometer,
	"km":          FieldOdometer,

	"almacen":   FieldWarehouse,
	"almacén":   FieldWarehouse,
	"bodega":    FieldWarehouse,
	"warehouse": FieldWarehouse,
}

// requiredFields must all be present in the header row for a file to stage.
var requiredFields = []Field{FieldUnitName, FieldQuantity, FieldDate}

// MapHeader matches a header row against the known aliases, case and
// whitespace insensitively. Returns the column-index-to-field mapping or an
// error naming the missing required columns.
func MapHeader(cells []string) (map[int]Field, error) {
	mapping := make(map[int]Field)
	for i, cell := range cells {
		key := normalize.Name(cell)
		if f, ok := headerAliases[key]; ok {
			if _, dup := fieldIndex(mapping, f); !dup {
				mapping[i] = f
			}
		}
	}

	var missing []string
	for _, f := range requiredFields {
		if _, ok := fieldIndex(mapping, f); !ok {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("header is missing required columns: %s", strings.Join(missing, ", "))
	}
	return mapping, nil
}

func fieldIndex(mapping map[int]Field, f Field) (int, bool) {
	for i, mf := range mapping {
		if mf == f {
			return i, true
		}
	}
	return 0, false
}

// looksLikeHeader reports whether a row matches at least the required
// aliases. Used to skip title rows above the real header.
func looksLikeHeader(cells []string) bool {
	_, err := MapHeader(cells)
	return err == nil
}
