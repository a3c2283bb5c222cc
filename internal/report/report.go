// Package report prints human-readable pipeline reports with aligned
// columns.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/pfrederiksen/election-dates/internal/specials"
	"github.com/pfrederiksen/election-dates/internal/validate"
)

const rule = "============================================================"

// Table renders rows with columns padded to their widest cell. Widths use
// display width, not byte length, so wide runes in free-text notes don't
// skew the layout.
func Table(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	writeRow := func(cells []string) {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := widths[i] - runewidth.StringWidth(cell)
			parts[i] = cell + strings.Repeat(" ", pad)
		}
		fmt.Fprintln(w, "  "+strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	writeRow(header)
	for _, row := range rows {
		writeRow(row)
	}
}

// Validation prints the statute/scrape reconciliation report.
func Validation(w io.Writer, d *validate.Dataset) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "VALIDATION REPORT")
	fmt.Fprintln(w, rule)

	rows := make([][]string, 0, len(d.States))
	discrepancies := 0

	for _, record := range d.States {
		rows = append(rows, []string{
			record.StateCode,
			record.StateName,
			record.NextPrimary.Date,
			record.NextGeneral.Date,
			record.Validation.Status,
		})
		discrepancies += len(record.Validation.Discrepancies)
	}

	Table(w, []string{"STATE", "NAME", "PRIMARY", "GENERAL", "STATUS"}, rows)

	for _, record := range d.States {
		for _, disc := range record.Validation.Discrepancies {
			fmt.Fprintf(w, "  %s %s: statute=%s, sos=%s (%s)\n",
				record.StateCode, disc.Field, disc.StatuteValue, disc.SOSValue, disc.Resolution)
		}
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total states validated: %d\n", len(d.States))
	fmt.Fprintf(w, "Total discrepancies found: %d\n", discrepancies)
	fmt.Fprintln(w, rule)
}

// RowIssues prints collected per-row validation errors or warnings.
func RowIssues(w io.Writer, label string, issues []specials.RowIssue) {
	if len(issues) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%d %s found:\n", len(issues), label)
	for _, issue := range issues {
		fmt.Fprintf(w, "  Row %d (%s):\n", issue.Row, issue.ID)
		for _, msg := range issue.Messages {
			fmt.Fprintf(w, "    - %s\n", msg)
		}
	}
}

// SpecialsSummary prints the special-elections dataset summary.
func SpecialsSummary(w io.Writer, d *specials.Dataset) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Special Elections Summary")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total special elections: %d\n", d.Metadata.ElectionCount)

	fmt.Fprintln(w, "By level:")
	levels := make([]string, 0, len(d.Metadata.ByLevel))
	for level := range d.Metadata.ByLevel {
		levels = append(levels, level)
	}
	sort.Strings(levels)
	for _, level := range levels {
		fmt.Fprintf(w, "  - %s: %d\n", level, d.Metadata.ByLevel[level])
	}

	fmt.Fprintf(w, "States with specials: %s\n",
		strings.Join(d.Metadata.StatesWithSpecials, ", "))
}
