package rowread

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/parquet-go/parquet-go"
)

// parquetFuelRow mirrors the columns of the warehouse team's parquet
// re-exports of the legacy spreadsheets.
type parquetFuelRow struct {
	UnitName        string   `parquet:"unit_name"`
	Quantity        float64  `parquet:"quantity"`
	TransactionDate string   `parquet:"transaction_date"`
	Horometer       *float64 `parquet:"horometer,optional"`
	Odometer        *float64 `parquet:"odometer,optional"`
	WarehouseRef    string   `parquet:"warehouse_ref,optional"`
}

type parquetReader struct {
	file   *os.File
	reader *parquet.GenericReader[parquetFuelRow]
	rowNum int64
	buf    [64]parquetFuelRow
	pend   []parquetFuelRow
	done   bool
}

func openParquet(path string) (Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	r := parquet.NewGenericReader[parquetFuelRow](pf)
	return &parquetReader{file: f, reader: r, rowNum: 1}, nil
}

func (p *parquetReader) Next() (*Record, error) {
	for len(p.pend) == 0 {
		if p.done {
			return nil, io.EOF
		}
		n, err := p.reader.Read(p.buf[:])
		if err == io.EOF {
			p.done = true
		} else if err != nil {
			return nil, fmt.Errorf("read parquet rows: %w", err)
		}
		p.pend = p.buf[:n]
	}

	row := p.pend[0]
	p.pend = p.pend[1:]
	p.rowNum++

	cells := map[Field]string{
		FieldUnitName:  row.UnitName,
		FieldQuantity:  strconv.FormatFloat(row.Quantity, 'f', -1, 64),
		FieldDate:      row.TransactionDate,
		FieldWarehouse: row.WarehouseRef,
	}
	if row.Horometer != nil {
		cells[FieldHorometer] = strconv.FormatFloat(*row.Horometer, 'f', -1, 64)
	}
	if row.Odometer != nil {
		cells[FieldOdometer] = strconv.FormatFloat(*row.Odometer, 'f', -1, 64)
	}
	return &Record{RowNumber: p.rowNum, Cells: cells}, nil
}

func (p *parquetReader) Close() error {
	if err := p.reader.Close(); err != nil {
		p.file.Close()
		return err
	}
	return p.file.Close()
}
