package roster

import (
	"strings"

	"github.com/agentstation/farol/pkg/errors"
)

// Dataset is a normalized roster: unique keys, input order preserved.
type Dataset[T any] struct {
	records []T
	keys    []string
	index   map[string]int

	// Dropped counts rows discarded because their key was empty.
	Dropped int
	// Duplicates counts rows discarded because their key was already seen.
	Duplicates int
}

func newDataset[T any](capacity int) *Dataset[T] {
	return &Dataset[T]{
		records: make([]T, 0, capacity),
		keys:    make([]string, 0, capacity),
		index:   make(map[string]int, capacity),
	}
}

// add stores record under a key not yet seen.
func (d *Dataset[T]) add(key string, record T) {
	d.index[key] = len(d.records)
	d.records = append(d.records, record)
	d.keys = append(d.keys, key)
}

// Len returns the number of unique records.
func (d *Dataset[T]) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Has reports whether key is present.
func (d *Dataset[T]) Has(key string) bool {
	if d == nil {
		return false
	}
	_, ok := d.index[key]
	return ok
}

// Get returns the record stored under key.
func (d *Dataset[T]) Get(key string) (T, bool) {
	var zero T
	if d == nil {
		return zero, false
	}
	i, ok := d.index[key]
	if !ok {
		return zero, false
	}
	return d.records[i], true
}

// Records returns the records in input order. The slice must not be modified.
func (d *Dataset[T]) Records() []T {
	if d == nil {
		return nil
	}
	return d.records
}

// Keys returns the keys in input order.
func (d *Dataset[T]) Keys() []string {
	if d == nil {
		return nil
	}
	return d.keys
}

// Row is an untyped normalized row keyed by column name.
type Row map[string]string

// Normalize keys table by keyColumn. The key is trimmed; other cells are kept
// as-is. Fails with a MalformedInputError if keyColumn is absent.
func Normalize(table *Table, keyColumn string) (*Dataset[Row], error) {
	return normalize(table, "input", keyColumn, nil, func(key string, get func(string) string) Row {
		row := make(Row, len(table.Header))
		for _, column := range table.Header {
			row[column] = get(column)
		}
		row[keyColumn] = key
		return row
	})
}

// normalize is the shared ingestion path: it checks that keyColumn and every
// required column exist, then builds one record per row through build.
func normalize[T any](table *Table, roster, keyColumn string, required []string, build func(key string, get func(string) string) T) (*Dataset[T], error) {
	if table == nil {
		return nil, &errors.MalformedInputError{Roster: roster, Message: "no table"}
	}
	for _, column := range append([]string{keyColumn}, required...) {
		if !table.HasColumn(column) {
			return nil, errors.NewMissingColumnError(roster, column)
		}
	}

	positions := make(map[string]int, len(table.Header))
	for i, column := range table.Header {
		if _, dup := positions[column]; !dup {
			positions[column] = i
		}
	}
	keyAt := positions[keyColumn]

	ds := newDataset[T](len(table.Rows))
	for _, row := range table.Rows {
		key := strings.TrimSpace(cell(row, keyAt))
		if key == "" {
			ds.Dropped++
			continue
		}
		if ds.Has(key) {
			ds.Duplicates++
			continue
		}
		get := func(column string) string {
			i, ok := positions[column]
			if !ok {
				return ""
			}
			return cell(row, i)
		}
		ds.add(key, build(key, get))
	}
	return ds, nil
}
