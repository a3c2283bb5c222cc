package query

import (
	"errors"
	"testing"
	"time"

	"github.com/pfrederiksen/election-dates/internal/dataset"
	"github.com/pfrederiksen/election-dates/internal/eavs"
	"github.com/pfrederiksen/election-dates/internal/specials"
	"github.com/pfrederiksen/election-dates/internal/validate"
)

// testClock fixes the processing date; the odd time of day checks that
// day math normalizes to midnight.
func testClock() time.Time {
	return time.Date(2026, 6, 1, 15, 30, 45, 0, time.UTC)
}

func stateRecord(code, name, primary, general string) validate.StateRecord {
	return validate.StateRecord{
		StateCode: code,
		StateName: name,
		NextPrimary: validate.ElectionInfo{
			Date:             primary,
			DateRule:         "first Tuesday after first Monday",
			Type:             "state_primary",
			StatuteReference: code + " Stat. 100",
			Confidence:       "High",
		},
		NextGeneral: validate.ElectionInfo{
			Date:             general,
			DateRule:         "first Tuesday after first Monday in November",
			Type:             "general_election",
			StatuteReference: code + " Stat. 100",
			Confidence:       "High",
		},
		Sources: []validate.Source{
			{Type: "statute", Reference: code + " Stat. 100", URL: "https://law.example/" + code},
			{Type: "sos_website", URL: "https://sos.example/" + code, LastVerified: "2026-05-20"},
		},
		Validation:  validate.Validation{Status: validate.StatusValidated, Discrepancies: []validate.Discrepancy{}},
		LastUpdated: "2026-05-20",
	}
}

func testStore(t *testing.T) *dataset.Store {
	t.Helper()

	store, err := dataset.New(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	electionData := &validate.Dataset{
		Metadata: validate.Metadata{
			Version:     "1.0.0",
			GeneratedAt: "2026-05-20T10:00:00Z",
			Year:        2026,
		},
		States: []validate.StateRecord{
			stateRecord("MI", "Michigan", "2026-08-04", "2026-11-03"),
			stateRecord("OH", "Ohio", "2026-05-05", "2026-11-03"),
		},
	}
	if err := store.SaveElectionDates(electionData); err != nil {
		t.Fatalf("saving election dates: %v", err)
	}

	today := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	specialData := specials.BuildDataset([]*specials.Election{
		{ID: "tx-18-2026", StateCode: "TX", StateName: "Texas", Office: "US House TX-18", District: "18", Level: "federal", Status: "scheduled", Confidence: "High", Dates: specials.Dates{General: "2026-06-15"}},
		{ID: "fl-sen-2026", StateCode: "FL", StateName: "Florida", Office: "US Senate", Level: "federal", Status: "scheduled", Confidence: "Medium", Dates: specials.Dates{General: "2026-10-01"}},
		{ID: "ga-gov-2026", StateCode: "GA", StateName: "Georgia", Office: "Governor", Level: "statewide", Status: "announced", Confidence: "Low"},
	}, today)
	if err := store.SaveSpecialElections(specialData); err != nil {
		t.Fatalf("saving special elections: %v", err)
	}

	eavsData := eavs.NewDataset()
	mi := &eavs.StateData{StateCode: "MI", StateName: "Michigan"}
	mi.VoterRegistration.TotalRegistered = intPtr(1000)
	mi.VoterRegistration.TotalActive = intPtr(900)
	mi.VoterRegistration.TotalInactive = intPtr(100)
	mi.Turnout.TotalBallotsCast = intPtr(500)
	mi.Polling.PollingPlaces = intPtr(40)
	oh := &eavs.StateData{StateCode: "OH", StateName: "Ohio"}
	oh.VoterRegistration.TotalRegistered = intPtr(2000)
	oh.Turnout.TotalBallotsCast = intPtr(1200)
	eavsData.States["MI"] = mi
	eavsData.States["OH"] = oh
	if err := store.SaveEAVS(eavsData); err != nil {
		t.Fatalf("saving EAVS data: %v", err)
	}

	return store
}

func intPtr(v int) *int { return &v }

func testEngine(t *testing.T) *Engine {
	t.Helper()
	return NewAt(testStore(t), testClock)
}

func TestNextElection(t *testing.T) {
	engine := testEngine(t)

	tests := []struct {
		name  string
		input string
	}{
		{name: "Uppercase code", input: "MI"},
		{name: "Lowercase code", input: "mi"},
		{name: "Whitespace trimmed", input: " Mi "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.NextElection(tt.input)
			if err != nil {
				t.Fatalf("NextElection(%q) error: %v", tt.input, err)
			}
			if result.State != "MI" || result.StateName != "Michigan" {
				t.Errorf("state = %s/%s", result.State, result.StateName)
			}
			if result.NextPrimary != "2026-08-04" || result.PrimaryDaysUntil != 64 {
				t.Errorf("primary = %s in %d days, want 2026-08-04 in 64", result.NextPrimary, result.PrimaryDaysUntil)
			}
			if result.NextGeneral != "2026-11-03" || result.GeneralDaysUntil != 155 {
				t.Errorf("general = %s in %d days, want 2026-11-03 in 155", result.NextGeneral, result.GeneralDaysUntil)
			}
			if result.Sources.Statute != "MI Stat. 100" || result.Sources.SOSURL != "https://sos.example/MI" {
				t.Errorf("sources = %+v", result.Sources)
			}
		})
	}
}

func TestNextElectionPastDateNegative(t *testing.T) {
	engine := testEngine(t)

	result, err := engine.NextElection("OH")
	if err != nil {
		t.Fatalf("NextElection error: %v", err)
	}
	if result.PrimaryDaysUntil != -27 {
		t.Errorf("primary days until = %d, want -27 for a past date", result.PrimaryDaysUntil)
	}
}

func TestNextElectionStateNotFound(t *testing.T) {
	engine := testEngine(t)

	_, err := engine.NextElection("ZZ")
	if !errors.Is(err, ErrStateNotFound) {
		t.Errorf("error = %v, want ErrStateNotFound", err)
	}
}

func TestNextElectionMissingDataset(t *testing.T) {
	store, err := dataset.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	engine := NewAt(store, testClock)

	if _, err := engine.NextElection("MI"); err == nil {
		t.Error("expected error when election dates file is missing")
	}
}

func TestElectionsByDateRange(t *testing.T) {
	engine := testEngine(t)

	// Both bounds are inclusive: MI's primary sits on the start bound and
	// the generals sit on the end bound.
	result, err := engine.ElectionsByDateRange("2026-08-04", "2026-11-03")
	if err != nil {
		t.Fatalf("ElectionsByDateRange error: %v", err)
	}

	if result.ElectionsCount != 3 {
		t.Fatalf("count = %d, want 3", result.ElectionsCount)
	}
	if result.Elections[0].State != "MI" || result.Elections[0].Type != "primary" {
		t.Errorf("first = %s %s, want MI primary", result.Elections[0].State, result.Elections[0].Type)
	}

	// Same-date entries keep dataset order: MI before OH.
	if result.Elections[1].State != "MI" || result.Elections[2].State != "OH" {
		t.Errorf("tie order = %s, %s, want MI, OH", result.Elections[1].State, result.Elections[2].State)
	}
	if result.DateRange.Start != "2026-08-04" || result.DateRange.End != "2026-11-03" {
		t.Errorf("date range = %+v", result.DateRange)
	}
}

func TestElectionsByDateRangeEmpty(t *testing.T) {
	engine := testEngine(t)

	result, err := engine.ElectionsByDateRange("2027-01-01", "2027-12-31")
	if err != nil {
		t.Fatalf("ElectionsByDateRange error: %v", err)
	}
	if result.ElectionsCount != 0 || len(result.Elections) != 0 {
		t.Errorf("count = %d, want 0", result.ElectionsCount)
	}
}

func TestElectionsByDateRangeInvalidDate(t *testing.T) {
	engine := testEngine(t)

	tests := []struct {
		name  string
		start string
		end   string
	}{
		{name: "Bad start", start: "08/04/2026", end: "2026-11-03"},
		{name: "Bad end", start: "2026-08-04", end: "November 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.ElectionsByDateRange(tt.start, tt.end)
			if !errors.Is(err, ErrInvalidDate) {
				t.Errorf("error = %v, want ErrInvalidDate", err)
			}
		})
	}
}

func TestAllUpcomingElections(t *testing.T) {
	engine := testEngine(t)

	result, err := engine.AllUpcomingElections()
	if err != nil {
		t.Fatalf("AllUpcomingElections error: %v", err)
	}

	if result.TotalElections != 4 {
		t.Fatalf("total = %d, want 4", result.TotalElections)
	}
	if result.DataUpdated != "2026-05-20" {
		t.Errorf("data updated = %s, want 2026-05-20", result.DataUpdated)
	}

	wantDates := []string{"2026-05-05", "2026-08-04", "2026-11-03", "2026-11-03"}
	for i, want := range wantDates {
		if result.Elections[i].Date != want {
			t.Errorf("elections[%d].Date = %s, want %s", i, result.Elections[i].Date, want)
		}
	}
}

func TestElectionSources(t *testing.T) {
	engine := testEngine(t)

	result, err := engine.ElectionSources("mi")
	if err != nil {
		t.Fatalf("ElectionSources error: %v", err)
	}

	if result.PrimaryElection.Date != "2026-08-04" {
		t.Errorf("primary date = %s", result.PrimaryElection.Date)
	}
	if result.PrimaryElection.StatuteReference != "MI Stat. 100" {
		t.Errorf("statute reference = %s", result.PrimaryElection.StatuteReference)
	}
	if len(result.Sources) != 2 {
		t.Errorf("sources = %d, want 2", len(result.Sources))
	}
	if result.Validation.Status != validate.StatusValidated {
		t.Errorf("validation status = %s", result.Validation.Status)
	}
}

func TestSpecialElectionsByState(t *testing.T) {
	engine := testEngine(t)

	result, err := engine.SpecialElectionsByState("tx")
	if err != nil {
		t.Fatalf("SpecialElectionsByState error: %v", err)
	}
	if result.StateCode != "TX" || result.Count != 1 {
		t.Errorf("result = %s/%d, want TX/1", result.StateCode, result.Count)
	}
	if result.Elections[0].ID != "tx-18-2026" {
		t.Errorf("election id = %s", result.Elections[0].ID)
	}
}

func TestSpecialElectionsByStateNoMatches(t *testing.T) {
	engine := testEngine(t)

	// A state with no specials is an empty listing, not an error.
	result, err := engine.SpecialElectionsByState("WY")
	if err != nil {
		t.Fatalf("SpecialElectionsByState error: %v", err)
	}
	if result.Count != 0 || len(result.Elections) != 0 {
		t.Errorf("count = %d, want 0", result.Count)
	}
}

func TestUpcomingSpecialElections(t *testing.T) {
	engine := testEngine(t)

	tests := []struct {
		name      string
		daysAhead int
		wantDays  int
		wantIDs   []string
	}{
		{name: "Narrow window", daysAhead: 30, wantDays: 30, wantIDs: []string{"tx-18-2026"}},
		{name: "Boundary inclusive", daysAhead: 14, wantDays: 14, wantIDs: []string{"tx-18-2026"}},
		{name: "Too narrow", daysAhead: 13, wantDays: 13, wantIDs: []string{}},
		{name: "Zero is literal", daysAhead: 0, wantDays: 0, wantIDs: []string{}},
		{name: "Negative matches nothing", daysAhead: -5, wantDays: -5, wantIDs: []string{}},
		{name: "Wide window", daysAhead: 365, wantDays: 365, wantIDs: []string{"tx-18-2026", "fl-sen-2026"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.UpcomingSpecialElections(tt.daysAhead)
			if err != nil {
				t.Fatalf("UpcomingSpecialElections error: %v", err)
			}
			if result.DaysAhead != tt.wantDays {
				t.Errorf("days ahead = %d, want %d", result.DaysAhead, tt.wantDays)
			}
			if result.Count != len(tt.wantIDs) {
				t.Fatalf("count = %d, want %d", result.Count, len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if result.Elections[i].ID != id {
					t.Errorf("elections[%d] = %s, want %s", i, result.Elections[i].ID, id)
				}
			}
		})
	}
}

func TestUpcomingSpecialElectionsTodayOnly(t *testing.T) {
	store, err := dataset.New(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	today := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	specialData := specials.BuildDataset([]*specials.Election{
		{ID: "nv-2-2026", StateCode: "NV", StateName: "Nevada", Office: "US House NV-2", District: "2", Level: "federal", Status: "scheduled", Confidence: "High", Dates: specials.Dates{General: "2026-06-01"}},
		{ID: "tx-18-2026", StateCode: "TX", StateName: "Texas", Office: "US House TX-18", District: "18", Level: "federal", Status: "scheduled", Confidence: "High", Dates: specials.Dates{General: "2026-07-15"}},
	}, today)
	if err := store.SaveSpecialElections(specialData); err != nil {
		t.Fatalf("saving special elections: %v", err)
	}

	engine := NewAt(store, testClock)

	// A zero window selects elections happening on the processing date.
	result, err := engine.UpcomingSpecialElections(0)
	if err != nil {
		t.Fatalf("UpcomingSpecialElections error: %v", err)
	}
	if result.DaysAhead != 0 {
		t.Errorf("days ahead = %d, want 0", result.DaysAhead)
	}
	if result.Count != 1 || result.Elections[0].ID != "nv-2-2026" {
		t.Fatalf("count = %d, want 1 same-day election", result.Count)
	}
	if result.Elections[0].DaysUntil != 0 {
		t.Errorf("days until = %d, want 0", result.Elections[0].DaysUntil)
	}
}

func TestUpcomingSpecialDaysUntil(t *testing.T) {
	engine := testEngine(t)

	result, err := engine.UpcomingSpecialElections(30)
	if err != nil {
		t.Fatalf("UpcomingSpecialElections error: %v", err)
	}
	if result.Count != 1 || result.Elections[0].DaysUntil != 14 {
		t.Errorf("days until = %d, want 14", result.Elections[0].DaysUntil)
	}
}

func TestElectionWithSpecials(t *testing.T) {
	engine := testEngine(t)

	result, err := engine.ElectionWithSpecials("MI")
	if err != nil {
		t.Fatalf("ElectionWithSpecials error: %v", err)
	}

	if result.RegularElections.NextPrimary.Date != "2026-08-04" {
		t.Errorf("primary = %s", result.RegularElections.NextPrimary.Date)
	}
	if result.RegularElections.NextPrimary.DaysUntil != 64 {
		t.Errorf("primary days until = %d, want 64", result.RegularElections.NextPrimary.DaysUntil)
	}
	if result.SpecialsCount != 0 {
		t.Errorf("specials count = %d, want 0 for MI", result.SpecialsCount)
	}
}

func TestElectionWithSpecialsNotFound(t *testing.T) {
	engine := testEngine(t)

	// TX has a special election but no regular-dates record; the combined
	// view is keyed on the regular dataset.
	_, err := engine.ElectionWithSpecials("TX")
	if !errors.Is(err, ErrStateNotFound) {
		t.Errorf("error = %v, want ErrStateNotFound", err)
	}
}

func TestAllElectionsByDateRange(t *testing.T) {
	engine := testEngine(t)

	result, err := engine.AllElectionsByDateRange("2026-06-01", "2026-12-31", true)
	if err != nil {
		t.Fatalf("AllElectionsByDateRange error: %v", err)
	}

	// MI primary, two generals, and both dated specials.
	if result.ElectionsCount != 5 {
		t.Fatalf("count = %d, want 5", result.ElectionsCount)
	}
	if result.IncludeSpecials == nil || !*result.IncludeSpecials {
		t.Error("include_specials should echo true")
	}

	first := result.Elections[0]
	if first.Date != "2026-06-15" || first.Category != "special" || first.Office != "US House TX-18" {
		t.Errorf("first entry = %+v", first)
	}

	for _, entry := range result.Elections {
		if entry.Category != "regular" && entry.Category != "special" {
			t.Errorf("entry %s has category %q", entry.Date, entry.Category)
		}
	}
}

func TestAllElectionsByDateRangeWithoutSpecials(t *testing.T) {
	engine := testEngine(t)

	result, err := engine.AllElectionsByDateRange("2026-06-01", "2026-12-31", false)
	if err != nil {
		t.Fatalf("AllElectionsByDateRange error: %v", err)
	}

	if result.ElectionsCount != 3 {
		t.Fatalf("count = %d, want 3 without specials", result.ElectionsCount)
	}
	for _, entry := range result.Elections {
		if entry.Category != "regular" {
			t.Errorf("entry %s has category %q, want regular", entry.Date, entry.Category)
		}
	}
}

func TestSpecialElectionsMetadata(t *testing.T) {
	engine := testEngine(t)

	result, err := engine.SpecialElectionsMetadata()
	if err != nil {
		t.Fatalf("SpecialElectionsMetadata error: %v", err)
	}

	if result.Metadata.ElectionCount != 3 {
		t.Errorf("election count = %d, want 3", result.Metadata.ElectionCount)
	}
	if result.Metadata.ByLevel["federal"] != 2 {
		t.Errorf("federal count = %d, want 2", result.Metadata.ByLevel["federal"])
	}
	if len(result.StatesWithSpecials) != 3 {
		t.Errorf("states with specials = %v", result.StatesWithSpecials)
	}
}

func TestSpecialQueriesWithMissingFile(t *testing.T) {
	store, err := dataset.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	engine := NewAt(store, testClock)

	result, err := engine.UpcomingSpecialElections(90)
	if err != nil {
		t.Fatalf("UpcomingSpecialElections error: %v", err)
	}
	if result.Count != 0 {
		t.Errorf("count = %d, want 0 with no specials file", result.Count)
	}

	meta, err := engine.SpecialElectionsMetadata()
	if err != nil {
		t.Fatalf("SpecialElectionsMetadata error: %v", err)
	}
	if meta.Metadata.ElectionCount != 0 {
		t.Errorf("election count = %d, want 0", meta.Metadata.ElectionCount)
	}
}

func TestEAVSForState(t *testing.T) {
	engine := testEngine(t)

	result, err := engine.EAVSForState("mi")
	if err != nil {
		t.Fatalf("EAVSForState error: %v", err)
	}

	if result.StateCode != "MI" || result.StateName != "Michigan" {
		t.Errorf("state = %s/%s", result.StateCode, result.StateName)
	}
	if got := eavs.Count(result.VoterRegistration.TotalRegistered); got != 1000 {
		t.Errorf("total registered = %d, want 1000", got)
	}
	if result.Source.Source == "" {
		t.Error("source metadata missing")
	}
}

func TestEAVSForStateNoData(t *testing.T) {
	engine := testEngine(t)

	_, err := engine.EAVSForState("WY")
	if !errors.Is(err, ErrNoEAVSData) {
		t.Errorf("error = %v, want ErrNoEAVSData", err)
	}
}

func TestEAVSComparison(t *testing.T) {
	engine := testEngine(t)

	result, err := engine.EAVSComparison([]string{"mi", "ZZ", "oh"})
	if err != nil {
		t.Fatalf("EAVSComparison error: %v", err)
	}

	// Unknown states are skipped; request order is preserved.
	if result.StatesCompared != 2 {
		t.Fatalf("states compared = %d, want 2", result.StatesCompared)
	}
	if result.Comparison[0].StateCode != "MI" || result.Comparison[1].StateCode != "OH" {
		t.Errorf("order = %s, %s", result.Comparison[0].StateCode, result.Comparison[1].StateCode)
	}
}

func TestNationalEAVSSummary(t *testing.T) {
	engine := testEngine(t)

	result, err := engine.NationalEAVSSummary()
	if err != nil {
		t.Fatalf("NationalEAVSSummary error: %v", err)
	}

	totals := result.NationalSummary
	if totals.StatesReporting != 2 {
		t.Errorf("states reporting = %d, want 2", totals.StatesReporting)
	}
	if totals.TotalRegistered != 3000 {
		t.Errorf("total registered = %d, want 3000", totals.TotalRegistered)
	}
	if totals.TotalBallotsCast != 1700 {
		t.Errorf("ballots cast = %d, want 1700", totals.TotalBallotsCast)
	}
	if totals.NationalTurnoutPercentage == nil || *totals.NationalTurnoutPercentage != 56.7 {
		t.Errorf("national turnout = %v, want 56.7", totals.NationalTurnoutPercentage)
	}
}
