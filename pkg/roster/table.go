// Package roster turns raw tabular rosters into normalized, keyed datasets.
//
// A roster arrives as a Table (a header plus string rows) from a CSV export or
// a warehouse query. Normalization trims the key column, drops rows without a
// key, keeps the first row seen for each key and indexes the result so the
// reconciler can answer membership questions in constant time.
package roster

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/agentstation/farol/pkg/errors"
)

// utf8BOM is stripped from the first header cell; spreadsheet exports often carry it.
const utf8BOM = "\ufeff"

// Table is raw tabular input. Rows may be shorter than Header; missing
// trailing cells read as empty strings.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable returns an empty table with the given header.
func NewTable(header ...string) *Table {
	return &Table{Header: header}
}

// Append adds a row to the table.
func (t *Table) Append(cells ...string) *Table {
	t.Rows = append(t.Rows, cells)
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the position of column in the header, or -1.
func (t *Table) Index(column string) int {
	for i, name := range t.Header {
		if name == column {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the header contains column.
func (t *Table) HasColumn(column string) bool {
	return t.Index(column) >= 0
}

// Rename renames header columns in place. Columns not in the map are kept.
func (t *Table) Rename(names map[string]string) {
	for i, name := range t.Header {
		if renamed, ok := names[name]; ok {
			t.Header[i] = renamed
		}
	}
}

// cell returns row[i] or "" when the row is short or i is negative.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// ReadTable parses CSV from r. The first record is the header.
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return &Table{}, nil
	}
	if err != nil {
		return nil, errors.WrapParse("csv", "", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], utf8BOM))
	}

	table := &Table{Header: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapParse("csv", "", err)
		}
		table.Rows = append(table.Rows, record)
	}
	return table, nil
}

// ReadTableFile parses the CSV file at path.
func ReadTableFile(path string) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // operator-supplied roster path
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	table, err := ReadTable(f)
	if err != nil {
		var parseErr *errors.ParseError
		if errors.As(err, &parseErr) {
			parseErr.File = path
		}
		return nil, err
	}
	return table, nil
}
