// Package validate reconciles authoritative statute rules with scraped
// Secretary of State observations and produces the validated election
// dates dataset.
//
// The statute is always the emitted value. A scrape observation can add a
// secondary source and flag a discrepancy, but it never overrides a
// statute date and never changes the reported confidence.
package validate

import (
	"sort"
	"time"

	"github.com/pfrederiksen/election-dates/internal/scrape"
	"github.com/pfrederiksen/election-dates/internal/statute"
)

// Validation status values.
const (
	StatusValidated           = "validated"
	StatusDiscrepancyResolved = "discrepancy_resolved"
)

// ElectionInfo is one validated election date with its derivation rule and
// legal citation.
type ElectionInfo struct {
	Date             string `json:"date"`
	DateRule         string `json:"date_rule"`
	Type             string `json:"type"`
	StatuteReference string `json:"statute_reference"`
	Confidence       string `json:"confidence"`
}

// Source records where a state's dates were obtained or verified.
type Source struct {
	Type          string `json:"type"`
	Reference     string `json:"reference,omitempty"`
	URL           string `json:"url"`
	CalendarURL   string `json:"calendar_url,omitempty"`
	ExtractedFrom string `json:"extracted_from,omitempty"`
	LastVerified  string `json:"last_verified,omitempty"`
}

// Discrepancy records a disagreement between the statute and a scrape
// observation. It annotates the record; the statute value still wins.
type Discrepancy struct {
	Field        string `json:"field"`
	StatuteValue string `json:"statute_value"`
	SOSValue     string `json:"sos_value"`
	Resolution   string `json:"resolution"`
}

// Validation summarizes the reconciliation outcome for one state.
type Validation struct {
	Status        string        `json:"status"`
	Discrepancies []Discrepancy `json:"discrepancies"`
}

// StateRecord is one state's validated election dates.
type StateRecord struct {
	StateCode   string       `json:"state_code"`
	StateName   string       `json:"state_name"`
	NextPrimary ElectionInfo `json:"next_primary"`
	NextGeneral ElectionInfo `json:"next_general"`
	Sources     []Source     `json:"sources"`
	Validation  Validation   `json:"validation"`
	LastUpdated string       `json:"last_updated"`
	Notes       string       `json:"notes"`
}

// Metadata describes the generated dataset.
type Metadata struct {
	Version     string `json:"version"`
	GeneratedAt string `json:"generated_at"`
	Description string `json:"description"`
	Year        int    `json:"year"`
}

// Dataset is the persisted election_dates.json structure.
type Dataset struct {
	Metadata Metadata      `json:"metadata"`
	States   []StateRecord `json:"states"`
}

const resolutionStatuteWins = "Using statute value (authoritative)"

// Build validates every statute rule against the available scrape
// observations. The statute table defines the universe of states; an
// absent observation just means one source instead of two.
func Build(rules map[string]statute.Rule, observations map[string]*scrape.Observation, year int, now time.Time) *Dataset {
	records := make([]StateRecord, 0, len(rules))

	codes := make([]string, 0, len(rules))
	for code := range rules {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		records = append(records, buildRecord(code, rules[code], observations[code], now))
	}

	return &Dataset{
		Metadata: Metadata{
			Version:     "1.0.0",
			GeneratedAt: now.Format(time.RFC3339),
			Description: "Election dates for US states, validated against statutes and SOS websites",
			Year:        year,
		},
		States: records,
	}
}

func buildRecord(code string, rule statute.Rule, obs *scrape.Observation, now time.Time) StateRecord {
	record := StateRecord{
		StateCode: code,
		StateName: rule.StateName,
		NextPrimary: ElectionInfo{
			Date:             rule.PrimaryDate,
			DateRule:         rule.PrimaryDateRule,
			Type:             "state_primary",
			StatuteReference: rule.Reference,
			Confidence:       "High",
		},
		NextGeneral: ElectionInfo{
			Date:             rule.GeneralDate,
			DateRule:         rule.GeneralDateRule,
			Type:             "general_election",
			StatuteReference: rule.Reference,
			Confidence:       "High",
		},
		Sources: []Source{
			{
				Type:          "statute",
				Reference:     rule.Reference,
				URL:           rule.SourceURL,
				ExtractedFrom: "Election Law Navigator / State Statutes",
			},
		},
		Validation: Validation{
			Status:        StatusValidated,
			Discrepancies: []Discrepancy{},
		},
		LastUpdated: now.Format("2006-01-02"),
		Notes:       rule.Notes,
	}

	if obs == nil {
		return record
	}

	lastVerified := obs.ScrapedAt
	if len(lastVerified) > 10 {
		lastVerified = lastVerified[:10]
	}
	record.Sources = append(record.Sources, Source{
		Type:         "sos_website",
		URL:          obs.SOSURL,
		CalendarURL:  obs.CalendarURL,
		LastVerified: lastVerified,
	})

	if obs.PrimaryDate != "" && obs.PrimaryDate != rule.PrimaryDate {
		record.Validation.Discrepancies = append(record.Validation.Discrepancies, Discrepancy{
			Field:        "primary_date",
			StatuteValue: rule.PrimaryDate,
			SOSValue:     obs.PrimaryDate,
			Resolution:   resolutionStatuteWins,
		})
	}

	if obs.GeneralDate != "" && obs.GeneralDate != rule.GeneralDate {
		record.Validation.Discrepancies = append(record.Validation.Discrepancies, Discrepancy{
			Field:        "general_date",
			StatuteValue: rule.GeneralDate,
			SOSValue:     obs.GeneralDate,
			Resolution:   resolutionStatuteWins,
		})
	}

	if len(record.Validation.Discrepancies) > 0 {
		record.Validation.Status = StatusDiscrepancyResolved
		// Confidence stays as the statute's: the statute value is what we
		// emit, so a discrepancy does not lower it.
	}

	return record
}
