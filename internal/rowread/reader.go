package rowread

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Reader streams canonical records from a legacy fuel export.
// Next returns io.EOF after the last data row.
type Reader interface {
	Next() (*Record, error)
	Close() error
}

// Open opens a fuel export and returns a streaming Reader, dispatching on
// the file extension. Supported: .csv, .xlsx, .xls, .parquet.
func Open(path string) (Reader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return openCSV(path)
	case ".xlsx":
		return openXLSX(path)
	case ".xls":
		return openXLS(path)
	case ".parquet":
		return openParquet(path)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

// ReadAll drains a Reader. Intended for tests and small files; the pipeline
// streams via Next.
func ReadAll(r Reader) ([]*Record, error) {
	var out []*Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

// rowSource yields raw cell rows. io.EOF terminates.
type rowSource interface {
	next() ([]string, error)
	close() error
}

// tableReader adapts a rowSource into a Reader: it locates the header row,
// maps columns, and skips fully blank rows.
type tableReader struct {
	src     rowSource
	mapping map[int]Field
	rowNum  int64
}

func newTableReader(src rowSource) (*tableReader, error) {
	t := &tableReader{src: src}

	// The real header is not always row 1; legacy exports often carry a
	// title block above it.
	for {
		cells, err := t.src.next()
		if err == io.EOF {
			t.src.close()
			return nil, fmt.Errorf("no header row found")
		}
		if err != nil {
			t.src.close()
			return nil, err
		}
		t.rowNum++
		if looksLikeHeader(cells) {
			mapping, err := MapHeader(cells)
			if err != nil {
				t.src.close()
				return nil, err
			}
			t.mapping = mapping
			return t, nil
		}
		if t.rowNum >= 10 {
			t.src.close()
			return nil, fmt.Errorf("no header row found in first 10 rows")
		}
	}
}

func (t *tableReader) Next() (*Record, error) {
	for {
		cells, err := t.src.next()
		if err != nil {
			return nil, err
		}
		t.rowNum++
		if blankRow(cells) {
			continue
		}
		rec := &Record{RowNumber: t.rowNum, Cells: make(map[Field]string, len(t.mapping))}
		for i, f := range t.mapping {
			if i < len(cells) {
				rec.Cells[f] = strings.TrimSpace(cells[i])
			}
		}
		return rec, nil
	}
}

func (t *tableReader) Close() error {
	return t.src.close()
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
