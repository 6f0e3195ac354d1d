// Package ledger keeps the append-only history of every directive ever
// produced.
//
// Each run appends its include rows, then its exclude rows, tagged with the
// run timestamp. The header is written once, when the file is created.
// Existing rows are never read back or rewritten by Append.
package ledger

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/agentstation/farol/pkg/changeset"
	"github.com/agentstation/farol/pkg/constants"
	"github.com/agentstation/farol/pkg/errors"
)

// Entry is one ledger row.
type Entry struct {
	RunTimestamp string           `csv:"Data_Execucao" json:"run_timestamp" yaml:"run_timestamp"`
	Action       changeset.Action `csv:"Tipo_Acao" json:"action" yaml:"action"`
	ID           string           `csv:"first_name" json:"id" yaml:"id"`
	Country      string           `csv:"country" json:"country" yaml:"country"`
	Groups       string           `csv:"groups" json:"groups" yaml:"groups"`
}

// AppendResult describes one append.
type AppendResult struct {
	Path   string `json:"path" yaml:"path"`
	Rows   int    `json:"rows" yaml:"rows"`
	Logged bool   `json:"logged" yaml:"logged"`
}

// FormatTimestamp renders t in the ledger's timestamp layout. The layout has
// no zone, so t is written on its own location's wall clock.
func FormatTimestamp(t time.Time) string {
	return t.Format(constants.LedgerTimeFormat)
}

// Entries projects c onto ledger rows: include rows first, then exclude rows.
func Entries(runTimestamp string, c *changeset.Changeset) []Entry {
	if c == nil {
		return nil
	}
	entries := make([]Entry, 0, len(c.Include)+len(c.Exclude))
	for _, d := range c.Include {
		entries = append(entries, Entry{
			RunTimestamp: runTimestamp,
			Action:       changeset.ActionInclude,
			ID:           d.FirstName,
			Country:      d.Country,
			Groups:       d.Groups,
		})
	}
	for _, d := range c.Exclude {
		entries = append(entries, Entry{
			RunTimestamp: runTimestamp,
			Action:       changeset.ActionExclude,
			ID:           d.FirstName,
			Country:      d.Country,
			Groups:       d.Groups,
		})
	}
	return entries
}

// Append records c in the ledger at path. When c has no directive nothing
// is written and Logged is false.
func Append(runTimestamp time.Time, c *changeset.Changeset, path string) (AppendResult, error) {
	result := AppendResult{Path: path}
	entries := Entries(FormatTimestamp(runTimestamp), c)
	if len(entries) == 0 {
		return result, nil
	}

	// A zero-byte file has no header yet and is treated as new.
	info, statErr := os.Stat(path)
	if statErr != nil && !os.IsNotExist(statErr) {
		return result, errors.WrapIO("stat", path, statErr)
	}
	exists := statErr == nil
	hasHeader := exists && info.Size() > 0

	var buf bytes.Buffer
	var err error
	if hasHeader {
		err = gocsv.MarshalWithoutHeaders(entries, &buf)
	} else {
		err = gocsv.Marshal(entries, &buf)
	}
	if err != nil {
		return result, errors.WrapParse("csv", path, err)
	}

	if dir := filepath.Dir(path); !exists {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return result, errors.WrapIO("create", dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions) //nolint:gosec // ledger path from config
	if err != nil {
		return result, errors.WrapIO("open", path, err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return result, errors.WrapIO("write", path, err)
	}
	if err := f.Close(); err != nil {
		return result, errors.WrapIO("close", path, err)
	}

	result.Rows = len(entries)
	result.Logged = true
	return result, nil
}

// Read returns every ledger row in file order. A missing ledger reads as empty.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path) //nolint:gosec // ledger path from config
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	var entries []Entry
	if err := gocsv.UnmarshalFile(f, &entries); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, errors.WrapParse("csv", path, err)
	}
	return entries, nil
}

// Filter returns the entries tagged with action, newest last. A limit above
// zero keeps only the last limit entries.
func Filter(entries []Entry, action changeset.Action, limit int) []Entry {
	var out []Entry
	for _, e := range entries {
		if action == "" || e.Action == action {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
