// Package report renders classified change records: a grouped text report,
// a JSON document keyed by status, or an HTML page. Groups always follow the
// fixed status priority order; records keep their discovery order within a
// group.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/harrison/dircomp/internal/compare"
)

// Options controls rendering.
type Options struct {
	// ShowUnchanged includes the Unchanged group in text and HTML output.
	// JSON output always carries all six groups.
	ShowUnchanged bool

	// Color enables ANSI colors in the text report.
	Color bool
}

// Group buckets records by status, preserving discovery order within each
// bucket. Every status is present, possibly empty.
func Group(records []compare.Record) map[compare.Status][]compare.Record {
	grouped := make(map[compare.Status][]compare.Record, len(compare.StatusOrder))
	for _, status := range compare.StatusOrder {
		grouped[status] = make([]compare.Record, 0)
	}
	for _, rec := range records {
		grouped[rec.Status] = append(grouped[rec.Status], rec)
	}
	return grouped
}

// line formats a record's identifying line: its path, or old -> new for
// rename records.
func line(rec compare.Record) string {
	if rec.Path != "" {
		return rec.Path
	}
	return fmt.Sprintf("%s -> %s", rec.Old, rec.New)
}

// WriteText renders the grouped report: a "## Status" header per non-empty
// group, one line per record, followed by the attached hunk where present.
func WriteText(w io.Writer, records []compare.Record, opts Options) error {
	grouped := Group(records)

	for _, status := range compare.StatusOrder {
		group := grouped[status]
		if len(group) == 0 {
			continue
		}
		if status == compare.StatusUnchanged && !opts.ShowUnchanged {
			continue
		}

		if _, err := fmt.Fprintf(w, "## %s\n", colorHeader(string(status), opts)); err != nil {
			return err
		}
		for _, rec := range group {
			if _, err := fmt.Fprintln(w, line(rec)); err != nil {
				return err
			}
			if rec.Diff == "" {
				continue
			}
			if _, err := fmt.Fprintln(w, colorHunk(rec.Diff, opts)); err != nil {
				return err
			}
		}
	}

	return nil
}

// colorHeader styles a group header.
func colorHeader(s string, opts Options) string {
	if !opts.Color {
		return s
	}
	return color.New(color.Bold).Sprint(s)
}

// colorHunk styles hunk lines: additions green, removals red, headers cyan.
func colorHunk(diff string, opts Options) string {
	if !opts.Color {
		return diff
	}

	lines := strings.Split(diff, "\n")
	for i, l := range lines {
		switch {
		case strings.HasPrefix(l, "+"):
			lines[i] = color.New(color.FgGreen).Sprint(l)
		case strings.HasPrefix(l, "-"):
			lines[i] = color.New(color.FgRed).Sprint(l)
		case strings.HasPrefix(l, "@@"), strings.HasPrefix(l, "diff "), strings.HasPrefix(l, "index "):
			lines[i] = color.New(color.FgCyan).Sprint(l)
		}
	}
	return strings.Join(lines, "\n")
}
