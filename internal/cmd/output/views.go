package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/agentstation/farol"
	"github.com/agentstation/farol/pkg/ledger"
	"github.com/agentstation/farol/pkg/policy"
)

// Write renders data in format. Table formats render the given tables in
// order; other formats encode data itself.
func Write(w io.Writer, format Format, data any, tables ...Data) error {
	formatter := NewFormatter(format)
	if !format.IsTable() || len(tables) == 0 {
		return formatter.Format(w, data)
	}
	for i, t := range tables {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := formatter.Format(w, t); err != nil {
			return err
		}
	}
	return nil
}

// ResultTables renders a run result. Wide output adds per-identity diagnostics.
func ResultTables(r *farol.Result, wide bool) []Data {
	s := r.Stats
	summary := Data{
		Title:   "Run " + r.RunID,
		Headers: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"Source identities", strconv.Itoa(r.SourceRows)},
			{"Target members", strconv.Itoa(r.TargetRows)},
			{"To include", strconv.Itoa(s.Included)},
			{"To exclude", strconv.Itoa(s.Excluded)},
			{"Unmapped site", strconv.Itoa(s.PolicyGap)},
			{"Already inactive", strconv.Itoa(s.AlreadyInactive)},
			{"Unknown status", strconv.Itoa(s.UnknownStatus)},
			{"Protected", strconv.Itoa(s.Protected)},
			{"Unchanged", strconv.Itoa(s.NoAction)},
		},
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
	if r.SourceDropped > 0 || r.TargetDuplicates > 0 {
		summary.Rows = append(summary.Rows,
			[]string{"Source rows dropped", strconv.Itoa(r.SourceDropped)},
			[]string{"Target duplicates", strconv.Itoa(r.TargetDuplicates)})
	}
	tables := []Data{summary}

	if r.DryRun {
		tables = append(tables, Data{Empty: "Dry run: no files written."})
		return append(tables, diagnostics(r, wide)...)
	}

	files := Data{
		Title:   "Files",
		Headers: []string{"Batch", "Path", "Rows", "Written"},
		Empty:   "No batch files.",
	}
	for _, f := range r.Files {
		files.Rows = append(files.Rows, []string{f.Kind.String(), f.Path, strconv.Itoa(f.Rows), yesNo(f.Written)})
	}
	if r.Ledger.Logged {
		files.Rows = append(files.Rows, []string{"ledger", r.Ledger.Path, strconv.Itoa(r.Ledger.Rows), "appended"})
	}
	tables = append(tables, files)

	if len(r.Deliveries) > 0 {
		deliveries := Data{
			Title:   "Deliveries",
			Headers: []string{"Batch", "Delivered", "Note"},
		}
		for _, d := range r.Deliveries {
			note := d.Skipped
			if d.Error != "" {
				note = d.Error
			}
			deliveries.Rows = append(deliveries.Rows, []string{d.Kind.String(), yesNo(d.Delivered), note})
		}
		tables = append(tables, deliveries)
	}
	return append(tables, diagnostics(r, wide)...)
}

func diagnostics(r *farol.Result, wide bool) []Data {
	if !wide || len(r.Diagnostics) == 0 {
		return nil
	}
	d := Data{
		Title:   "Skipped identities",
		Headers: []string{"ID", "Reason", "Site", "Detail"},
	}
	for _, diag := range r.Diagnostics {
		d.Rows = append(d.Rows, []string{diag.ID, string(diag.Reason), diag.RegionCode, diag.Detail})
	}
	return []Data{d}
}

// HistoryTable renders ledger rows.
func HistoryTable(entries []ledger.Entry) Data {
	d := Data{
		Headers: []string{"Run", "Action", "ID", "Country", "Groups"},
		Empty:   "The ledger is empty.",
	}
	for _, e := range entries {
		d.Rows = append(d.Rows, []string{e.RunTimestamp, string(e.Action), e.ID, e.Country, e.Groups})
	}
	return d
}

// PolicyTable renders the site policy sorted by code.
func PolicyTable(t policy.Table) Data {
	d := Data{
		Headers: []string{"Site", "Group", "Country"},
		Empty:   "No sites configured.",
	}
	for _, code := range t.Codes() {
		e := t[code]
		d.Rows = append(d.Rows, []string{code, e.Group, e.Country})
	}
	return d
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
