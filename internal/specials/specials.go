// Package specials validates curated special-election records and builds
// the special_elections.json dataset.
//
// Validation is all-or-nothing: rows with hard errors are reported and
// excluded, and any hard error in the batch blocks JSON generation
// entirely. Warnings are reported but never block.
package specials

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pfrederiksen/election-dates/internal/states"
)

// Enumerations for level, status, and confidence fields.
var (
	ValidLevels     = map[string]bool{"federal": true, "state_legislative": true, "statewide": true}
	ValidStatuses   = map[string]bool{"announced": true, "scheduled": true, "runoff_pending": true, "completed": true, "cancelled": true}
	ValidConfidence = map[string]bool{"High": true, "Medium": true, "Low": true}
)

// requiredFields must be present on every row.
var requiredFields = []string{"id", "state_code", "office", "level", "status", "confidence"}

// dateFields are validated as YYYY-MM-DD when present.
var dateFields = []string{"vacancy_date", "primary_date", "general_date", "runoff_date"}

// Dates holds the calendar dates attached to a special election, each
// optional, in YYYY-MM-DD form.
type Dates struct {
	Vacancy string `json:"vacancy,omitempty"`
	Primary string `json:"primary,omitempty"`
	General string `json:"general,omitempty"`
	Runoff  string `json:"runoff,omitempty"`
}

// Election is one validated special-election record.
type Election struct {
	ID           string `json:"id"`
	StateCode    string `json:"state_code"`
	StateName    string `json:"state_name"`
	Office       string `json:"office"`
	District     string `json:"district,omitempty"`
	Level        string `json:"level"`
	Reason       string `json:"reason,omitempty"`
	Dates        Dates  `json:"dates"`
	Status       string `json:"status"`
	Confidence   string `json:"confidence"`
	SourceURL    string `json:"source_url,omitempty"`
	Notes        string `json:"notes,omitempty"`
	NextDate     string `json:"next_date,omitempty"`
	NextDateType string `json:"next_date_type,omitempty"`
}

// RowIssue collects the hard errors or warnings for one CSV row.
type RowIssue struct {
	Row      int
	ID       string
	Messages []string
}

// Metadata summarizes the dataset.
type Metadata struct {
	LastUpdated        string         `json:"last_updated"`
	Sources            []string       `json:"sources"`
	ElectionCount      int            `json:"election_count"`
	ByLevel            map[string]int `json:"by_level"`
	StatesWithSpecials []string       `json:"states_with_specials"`
}

// Dataset is the persisted special_elections.json structure.
type Dataset struct {
	Metadata  Metadata            `json:"metadata"`
	Elections []*Election         `json:"special_elections"`
	ByState   map[string][]string `json:"by_state"`
}

// EmptyDataset returns the dataset shape used when no specials file exists.
func EmptyDataset() *Dataset {
	return &Dataset{
		Metadata:  Metadata{ByLevel: map[string]int{}, Sources: []string{}, StatesWithSpecials: []string{}},
		Elections: []*Election{},
		ByState:   map[string][]string{},
	}
}

// ParseDate parses a YYYY-MM-DD date string. Blank strings and malformed
// dates return a zero time.
func ParseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}

// validateRow checks one row. Hard errors make the row (and the batch)
// invalid; warnings are advisory only.
func validateRow(row map[string]string) (errs, warnings []string) {
	get := func(field string) string { return strings.TrimSpace(row[field]) }

	for _, field := range requiredFields {
		if get(field) == "" {
			errs = append(errs, fmt.Sprintf("Missing required field: %s", field))
		}
	}

	if code := get("state_code"); code != "" && !states.IsValidCode(code) {
		errs = append(errs, fmt.Sprintf("Invalid state_code: %s", code))
	}

	if level := get("level"); level != "" && !ValidLevels[level] {
		errs = append(errs, fmt.Sprintf("Invalid level: %s", level))
	}

	if status := get("status"); status != "" && !ValidStatuses[status] {
		errs = append(errs, fmt.Sprintf("Invalid status: %s", status))
	}

	if confidence := get("confidence"); confidence != "" && !ValidConfidence[confidence] {
		errs = append(errs, fmt.Sprintf("Invalid confidence: %s", confidence))
	}

	for _, field := range dateFields {
		if raw := get(field); raw != "" && ParseDate(raw).IsZero() {
			errs = append(errs, fmt.Sprintf("Invalid date format for %s: %s. Use YYYY-MM-DD", field, raw))
		}
	}

	hasDate := get("primary_date") != "" || get("general_date") != "" || get("runoff_date") != ""
	status := get("status")
	if !hasDate && status != "announced" && status != "cancelled" {
		warnings = append(warnings, "No election date specified (primary, general, or runoff)")
	}

	return errs, warnings
}

// Validate reads and validates special-election rows from r, in input
// order. Rows with a blank id are skipped. Rows with hard errors are
// excluded from the returned records but reported in errs. An id reused
// on a later row is a hard error on that row; the first occurrence stays
// valid.
func Validate(r io.Reader) (elections []*Election, errs, warnings []RowIssue, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, readErr := reader.Read()
	if readErr != nil {
		return nil, nil, nil, fmt.Errorf("reading specials header: %w", readErr)
	}

	seen := make(map[string]int)
	rowNum := 1 // header is row 1
	for {
		record, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, nil, nil, fmt.Errorf("reading specials row: %w", readErr)
		}
		rowNum++

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}

		id := strings.TrimSpace(row["id"])
		if id == "" {
			continue
		}

		rowErrs, rowWarnings := validateRow(row)
		if firstRow, dup := seen[id]; dup {
			rowErrs = append(rowErrs, fmt.Sprintf("Duplicate id: %s (first used on row %d)", id, firstRow))
		} else {
			seen[id] = rowNum
		}
		if len(rowErrs) > 0 {
			errs = append(errs, RowIssue{Row: rowNum, ID: id, Messages: rowErrs})
		}
		if len(rowWarnings) > 0 {
			warnings = append(warnings, RowIssue{Row: rowNum, ID: id, Messages: rowWarnings})
		}
		if len(rowErrs) > 0 {
			continue
		}

		get := func(field string) string { return strings.TrimSpace(row[field]) }
		code := get("state_code")

		name := get("state_name")
		if name == "" {
			name = states.Name(code)
		}

		elections = append(elections, &Election{
			ID:         id,
			StateCode:  code,
			StateName:  name,
			Office:     get("office"),
			District:   get("district"),
			Level:      get("level"),
			Reason:     get("reason"),
			Dates: Dates{
				Vacancy: get("vacancy_date"),
				Primary: get("primary_date"),
				General: get("general_date"),
				Runoff:  get("runoff_date"),
			},
			Status:     get("status"),
			Confidence: get("confidence"),
			SourceURL:  get("source_url"),
			Notes:      get("notes"),
		})
	}

	return elections, errs, warnings, nil
}

// ValidateFile is Validate over a CSV file on disk.
func ValidateFile(path string) ([]*Election, []RowIssue, []RowIssue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening specials CSV: %w", err)
	}
	defer f.Close()

	return Validate(f)
}

// NextDate returns the earliest of the election's primary, general, and
// runoff dates that is not before today, with its type. Both values are
// empty when no date qualifies.
func NextDate(e *Election, today time.Time) (string, string) {
	type candidate struct {
		date time.Time
		kind string
	}

	candidates := []candidate{}
	for _, c := range []struct{ raw, kind string }{
		{e.Dates.Primary, "primary"},
		{e.Dates.General, "general"},
		{e.Dates.Runoff, "runoff"},
	} {
		if c.raw == "" {
			continue
		}
		if parsed := ParseDate(c.raw); !parsed.IsZero() && !parsed.Before(today) {
			candidates = append(candidates, candidate{parsed, c.kind})
		}
	}

	if len(candidates) == 0 {
		return "", ""
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].date.Before(candidates[j].date)
	})

	return candidates[0].date.Format("2006-01-02"), candidates[0].kind
}

// BuildDataset computes derived fields and summary metadata for a set of
// validated elections. Records are ordered ascending by next_date with
// dateless records last; ties keep input order.
func BuildDataset(elections []*Election, today time.Time) *Dataset {
	for _, e := range elections {
		e.NextDate, e.NextDateType = NextDate(e, today)
	}

	sort.SliceStable(elections, func(i, j int) bool {
		a, b := elections[i], elections[j]
		if (a.NextDate == "") != (b.NextDate == "") {
			return a.NextDate != ""
		}
		return a.NextDate < b.NextDate
	})

	byState := make(map[string][]string)
	statesOrder := []string{}
	levelCounts := make(map[string]int)

	for _, e := range elections {
		if _, seen := byState[e.StateCode]; !seen {
			statesOrder = append(statesOrder, e.StateCode)
		}
		byState[e.StateCode] = append(byState[e.StateCode], e.ID)
		levelCounts[e.Level]++
	}

	if elections == nil {
		elections = []*Election{}
	}

	return &Dataset{
		Metadata: Metadata{
			LastUpdated:        today.Format("2006-01-02"),
			Sources:            []string{"Ballotpedia", "State SOS Websites"},
			ElectionCount:      len(elections),
			ByLevel:            levelCounts,
			StatesWithSpecials: statesOrder,
		},
		Elections: elections,
		ByState:   byState,
	}
}
