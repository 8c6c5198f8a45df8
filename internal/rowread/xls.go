package rowread

import (
	"fmt"
	"io"

	"github.com/extrame/xls"
)

// maxXLSRows caps legacy .xls reads; the format itself tops out at 65536.
const maxXLSRows = 65536

type xlsSource struct {
	rows [][]string
	pos  int
}

func openXLS(path string) (Reader, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("xls has no sheets")
	}
	// The xls format is long dead and its files are small; reading the
	// whole sheet up front keeps the source trivial.
	rows := wb.ReadAllCells(maxXLSRows)
	return newTableReader(&xlsSource{rows: rows})
}

func (s *xlsSource) next() ([]string, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

func (s *xlsSource) close() error {
	return nil
}
