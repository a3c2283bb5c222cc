// Package statute loads the authoritative statute-rules table. Statute
// rules are the ground truth for election dates; scraped data only ever
// corroborates or annotates them.
package statute

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Rule holds one state's statute-derived election dates and their legal
// citations. Immutable once loaded.
type Rule struct {
	StateName       string
	PrimaryDateRule string
	PrimaryDate     string
	GeneralDateRule string
	GeneralDate     string
	Reference       string
	SourceURL       string
	Confidence      string
	Notes           string
}

// expected statute_rules.csv columns
var requiredColumns = []string{
	"state_code", "state_name",
	"primary_date_rule", "primary_date",
	"general_date_rule", "general_date",
	"statute_reference", "source_url",
	"confidence_level", "notes",
}

// Load reads statute rules from a CSV file keyed by state code.
func Load(path string) (map[string]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening statute rules: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses statute rules from r. The header must contain every
// required column; extra columns are ignored.
func Read(r io.Reader) (map[string]Rule, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading statute header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("statute rules missing column %q", col)
		}
	}

	field := func(record []string, name string) string {
		i := index[name]
		if i < len(record) {
			return record[i]
		}
		return ""
	}

	rules := make(map[string]Rule)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading statute row: %w", err)
		}

		code := field(record, "state_code")
		if code == "" {
			continue
		}

		rules[code] = Rule{
			StateName:       field(record, "state_name"),
			PrimaryDateRule: field(record, "primary_date_rule"),
			PrimaryDate:     field(record, "primary_date"),
			GeneralDateRule: field(record, "general_date_rule"),
			GeneralDate:     field(record, "general_date"),
			Reference:       field(record, "statute_reference"),
			SourceURL:       field(record, "source_url"),
			Confidence:      field(record, "confidence_level"),
			Notes:           field(record, "notes"),
		}
	}

	return rules, nil
}
