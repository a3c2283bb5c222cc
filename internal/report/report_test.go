package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pfrederiksen/election-dates/internal/specials"
	"github.com/pfrederiksen/election-dates/internal/validate"
)

func TestTableAlignment(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, []string{"STATE", "NAME"}, [][]string{
		{"MI", "Michigan"},
		{"RI", "Rhode Island"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}

	// Second column starts at the same offset on every line.
	wantOffset := strings.Index(lines[0], "NAME")
	for _, line := range lines[1:] {
		cell := strings.Fields(line)[1]
		if got := strings.Index(line, cell); got != wantOffset {
			t.Errorf("line %q: column offset %d, want %d", line, got, wantOffset)
		}
	}
}

func TestValidationReport(t *testing.T) {
	d := &validate.Dataset{
		States: []validate.StateRecord{
			{
				StateCode:   "MI",
				StateName:   "Michigan",
				NextPrimary: validate.ElectionInfo{Date: "2026-08-04"},
				NextGeneral: validate.ElectionInfo{Date: "2026-11-03"},
				Validation: validate.Validation{
					Status: validate.StatusDiscrepancyResolved,
					Discrepancies: []validate.Discrepancy{
						{Field: "primary_date", StatuteValue: "2026-08-04", SOSValue: "2026-08-05", Resolution: "Using statute value (authoritative)"},
					},
				},
			},
		},
	}

	var buf bytes.Buffer
	Validation(&buf, d)
	out := buf.String()

	for _, want := range []string{
		"VALIDATION REPORT",
		"MI",
		"discrepancy_resolved",
		"statute=2026-08-04, sos=2026-08-05",
		"Total states validated: 1",
		"Total discrepancies found: 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRowIssues(t *testing.T) {
	var buf bytes.Buffer
	RowIssues(&buf, "ERRORS", []specials.RowIssue{
		{Row: 3, ID: "bad-row", Messages: []string{"Invalid state_code: XX"}},
	})
	out := buf.String()

	if !strings.Contains(out, "1 ERRORS found:") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "Row 3 (bad-row):") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "- Invalid state_code: XX") {
		t.Errorf("output = %q", out)
	}
}

func TestRowIssuesEmptyPrintsNothing(t *testing.T) {
	var buf bytes.Buffer
	RowIssues(&buf, "WARNINGS", nil)

	if buf.Len() != 0 {
		t.Errorf("output = %q, want empty", buf.String())
	}
}

func TestSpecialsSummary(t *testing.T) {
	d := &specials.Dataset{
		Metadata: specials.Metadata{
			ElectionCount:      2,
			ByLevel:            map[string]int{"federal": 1, "statewide": 1},
			StatesWithSpecials: []string{"TX", "GA"},
		},
	}

	var buf bytes.Buffer
	SpecialsSummary(&buf, d)
	out := buf.String()

	if !strings.Contains(out, "Total special elections: 2") {
		t.Errorf("output = %q", out)
	}
	// Levels print in sorted order.
	if strings.Index(out, "federal") > strings.Index(out, "statewide") {
		t.Error("levels not sorted")
	}
	if !strings.Contains(out, "States with specials: TX, GA") {
		t.Errorf("output = %q", out)
	}
}
