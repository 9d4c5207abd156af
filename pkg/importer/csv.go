package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Row is a single imported record keyed by lower-cased header name.
type Row map[string]string

// Get returns the trimmed value for the column, ignoring header case.
func (r Row) Get(key string) string {
	return strings.TrimSpace(r[strings.ToLower(key)])
}

// ErrTooManyRows is returned when a source exceeds its configured row limit.
var ErrTooManyRows = fmt.Errorf("csv import exceeds row limit")

// Options bounds CSV parsing.
type Options struct {
	// MaxRows caps the number of data rows read. Zero means unlimited.
	MaxRows int
}

// RowSource streams header-keyed rows from a CSV document. Rows are read
// lazily so large uploads are never buffered in full.
type RowSource struct {
	reader  *csv.Reader
	headers []string
	opts    Options
	count   int
}

// NewRowSource prepares a source from the reader. The first record is
// consumed as the header row; a UTF-8 BOM on the first cell is stripped.
func NewRowSource(r io.Reader, opts Options) (*RowSource, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	first, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(first) > 0 {
		first[0] = strings.TrimPrefix(first[0], "\ufeff")
	}

	headers := make([]string, len(first))
	for i, h := range first {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	return &RowSource{reader: reader, headers: headers, opts: opts}, nil
}

// Headers returns the lower-cased header names.
func (s *RowSource) Headers() []string {
	return s.headers
}

// Next returns the next row, or io.EOF when the source is exhausted.
// Malformed records are returned as errors distinct from io.EOF so callers
// can skip them and keep reading.
func (s *RowSource) Next() (Row, error) {
	record, err := s.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("read csv row: %w", err)
	}

	s.count++
	if s.opts.MaxRows > 0 && s.count > s.opts.MaxRows {
		return nil, ErrTooManyRows
	}

	row := make(Row, len(s.headers))
	for i, header := range s.headers {
		if i < len(record) {
			row[header] = strings.TrimSpace(record[i])
		}
	}
	return row, nil
}
