package rowread

import (
	"encoding/csv"
	"fmt"
	"os"
)

type csvSource struct {
	f *os.File
	r *csv.Reader
}

func openCSV(path string) (Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	return newTableReader(&csvSource{f: f, r: r})
}

func (s *csvSource) next() ([]string, error) {
	return s.r.Read()
}

func (s *csvSource) close() error {
	return s.f.Close()
}
