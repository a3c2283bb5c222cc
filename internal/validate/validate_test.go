package validate

import (
	"testing"
	"time"

	"github.com/pfrederiksen/election-dates/internal/scrape"
	"github.com/pfrederiksen/election-dates/internal/statute"
)

var testNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func testRule() statute.Rule {
	return statute.Rule{
		StateName:       "Michigan",
		PrimaryDateRule: "First Tuesday after first Monday in August",
		PrimaryDate:     "2026-08-04",
		GeneralDateRule: "First Tuesday after first Monday in November",
		GeneralDate:     "2026-11-03",
		Reference:       "MCL 168.534",
		SourceURL:       "https://www.legislature.mi.gov",
		Confidence:      "High",
		Notes:           "",
	}
}

func TestBuildStatuteOnly(t *testing.T) {
	rules := map[string]statute.Rule{"MI": testRule()}

	data := Build(rules, nil, 2026, testNow)

	if len(data.States) != 1 {
		t.Fatalf("built %d states, want 1", len(data.States))
	}
	record := data.States[0]

	if record.StateCode != "MI" || record.StateName != "Michigan" {
		t.Errorf("record identity = %s/%s, want MI/Michigan", record.StateCode, record.StateName)
	}
	if record.NextPrimary.Date != "2026-08-04" {
		t.Errorf("primary date = %s, want 2026-08-04", record.NextPrimary.Date)
	}
	if record.NextGeneral.Date != "2026-11-03" {
		t.Errorf("general date = %s, want 2026-11-03", record.NextGeneral.Date)
	}
	if record.NextPrimary.Confidence != "High" || record.NextGeneral.Confidence != "High" {
		t.Error("confidence should always be High")
	}
	if len(record.Sources) != 1 {
		t.Fatalf("sources = %d, want 1 without an observation", len(record.Sources))
	}
	if record.Sources[0].Type != "statute" {
		t.Errorf("source type = %s, want statute", record.Sources[0].Type)
	}
	if record.Validation.Status != StatusValidated {
		t.Errorf("status = %s, want %s", record.Validation.Status, StatusValidated)
	}
	if len(record.Validation.Discrepancies) != 0 {
		t.Errorf("discrepancies = %d, want 0", len(record.Validation.Discrepancies))
	}
	if record.LastUpdated != "2026-01-15" {
		t.Errorf("last updated = %s, want 2026-01-15", record.LastUpdated)
	}
}

func TestBuildAgreementAddsSource(t *testing.T) {
	rules := map[string]statute.Rule{"MI": testRule()}
	observations := map[string]*scrape.Observation{
		"MI": {
			StateCode:   "MI",
			SOSURL:      "https://www.michigan.gov/sos",
			CalendarURL: "https://www.michigan.gov/sos/elections",
			ScrapedAt:   "2026-01-14T08:30:00Z",
			PrimaryDate: "2026-08-04",
			GeneralDate: "2026-11-03",
		},
	}

	record := Build(rules, observations, 2026, testNow).States[0]

	if len(record.Sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(record.Sources))
	}
	if record.Sources[1].Type != "sos_website" {
		t.Errorf("second source type = %s, want sos_website", record.Sources[1].Type)
	}
	if record.Sources[1].LastVerified != "2026-01-14" {
		t.Errorf("last verified = %s, want 2026-01-14", record.Sources[1].LastVerified)
	}
	if record.Validation.Status != StatusValidated {
		t.Errorf("status = %s, want %s when dates agree", record.Validation.Status, StatusValidated)
	}
	if len(record.Validation.Discrepancies) != 0 {
		t.Errorf("discrepancies = %d, want 0 when dates agree", len(record.Validation.Discrepancies))
	}
}

func TestBuildDiscrepancyStatuteWins(t *testing.T) {
	rules := map[string]statute.Rule{"MI": testRule()}
	observations := map[string]*scrape.Observation{
		"MI": {
			StateCode:   "MI",
			ScrapedAt:   "2026-01-14T08:30:00Z",
			PrimaryDate: "2026-08-05",
			GeneralDate: "2026-11-03",
		},
	}

	record := Build(rules, observations, 2026, testNow).States[0]

	// The statute date is emitted regardless of what the scrape saw.
	if record.NextPrimary.Date != "2026-08-04" {
		t.Errorf("primary date = %s, want statute value 2026-08-04", record.NextPrimary.Date)
	}
	if record.Validation.Status != StatusDiscrepancyResolved {
		t.Errorf("status = %s, want %s", record.Validation.Status, StatusDiscrepancyResolved)
	}
	if len(record.Validation.Discrepancies) != 1 {
		t.Fatalf("discrepancies = %d, want 1", len(record.Validation.Discrepancies))
	}

	d := record.Validation.Discrepancies[0]
	if d.Field != "primary_date" {
		t.Errorf("discrepancy field = %s, want primary_date", d.Field)
	}
	if d.StatuteValue != "2026-08-04" || d.SOSValue != "2026-08-05" {
		t.Errorf("discrepancy values = %s/%s, want 2026-08-04/2026-08-05", d.StatuteValue, d.SOSValue)
	}
	if d.Resolution != "Using statute value (authoritative)" {
		t.Errorf("resolution = %q", d.Resolution)
	}
	if record.NextPrimary.Confidence != "High" {
		t.Errorf("confidence = %s, want High even with a discrepancy", record.NextPrimary.Confidence)
	}
}

func TestBuildEmptyObservationDateNoDiscrepancy(t *testing.T) {
	rules := map[string]statute.Rule{"MI": testRule()}
	observations := map[string]*scrape.Observation{
		"MI": {
			StateCode:   "MI",
			ScrapedAt:   "2026-01-14T08:30:00Z",
			GeneralDate: "2026-11-03",
		},
	}

	record := Build(rules, observations, 2026, testNow).States[0]

	if len(record.Validation.Discrepancies) != 0 {
		t.Errorf("discrepancies = %d, want 0 when the observation has no primary date", len(record.Validation.Discrepancies))
	}
}

func TestBuildSortsStates(t *testing.T) {
	rules := map[string]statute.Rule{
		"WY": {StateName: "Wyoming"},
		"AL": {StateName: "Alabama"},
		"MI": {StateName: "Michigan"},
	}

	data := Build(rules, nil, 2026, testNow)

	want := []string{"AL", "MI", "WY"}
	for i, code := range want {
		if data.States[i].StateCode != code {
			t.Errorf("states[%d] = %s, want %s", i, data.States[i].StateCode, code)
		}
	}
}

func TestBuildMetadata(t *testing.T) {
	data := Build(map[string]statute.Rule{}, nil, 2026, testNow)

	if data.Metadata.Year != 2026 {
		t.Errorf("metadata year = %d, want 2026", data.Metadata.Year)
	}
	if data.Metadata.GeneratedAt != "2026-01-15T12:00:00Z" {
		t.Errorf("generated at = %s", data.Metadata.GeneratedAt)
	}
}
