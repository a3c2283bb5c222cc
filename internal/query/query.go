// Package query answers read-only questions over the persisted datasets.
//
// The engine is stateless: every operation reloads the datasets it needs,
// so a pipeline rerun is picked up without any cache invalidation. "State
// not found" is a typed error, distinct from an empty result set.
package query

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/pfrederiksen/election-dates/internal/dataset"
	"github.com/pfrederiksen/election-dates/internal/validate"
)

// Typed failure signals surfaced to tool callers.
var (
	ErrStateNotFound = errors.New("state not found")
	ErrInvalidDate   = errors.New("invalid date format")
	ErrNoEAVSData    = errors.New("EAVS data not available")
)

// DefaultDaysAhead is the default window for upcoming special elections.
const DefaultDaysAhead = 90

// Engine evaluates queries against the dataset store.
type Engine struct {
	store *dataset.Store
	now   func() time.Time
}

// New creates an Engine over the given store.
func New(store *dataset.Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

// NewAt creates an Engine with a fixed clock, for deterministic results.
func NewAt(store *dataset.Store, now func() time.Time) *Engine {
	return &Engine{store: store, now: now}
}

// today returns the current processing date at midnight UTC.
func (e *Engine) today() time.Time {
	t := e.now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysUntil computes target minus today in days. Negative for past dates;
// callers must not assume non-negativity.
func (e *Engine) daysUntil(dateStr string) int {
	target, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return 0
	}
	return int(target.Sub(e.today()).Hours() / 24)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

func findState(d *validate.Dataset, code string) *validate.StateRecord {
	for i := range d.States {
		if d.States[i].StateCode == code {
			return &d.States[i]
		}
	}
	return nil
}

// NextElectionResult is the response shape for NextElection.
type NextElectionResult struct {
	State            string         `json:"state"`
	StateName        string         `json:"state_name"`
	NextPrimary      string         `json:"next_primary"`
	PrimaryDaysUntil int            `json:"primary_days_until"`
	NextGeneral      string         `json:"next_general"`
	GeneralDaysUntil int            `json:"general_days_until"`
	ConfidenceLevel  string         `json:"confidence_level"`
	Sources          SourcesSummary `json:"sources"`
}

// SourcesSummary condenses a record's sources for the lookup response.
type SourcesSummary struct {
	Statute      string `json:"statute,omitempty"`
	StatuteURL   string `json:"statute_url,omitempty"`
	SOSURL       string `json:"sos_url,omitempty"`
	LastVerified string `json:"last_verified"`
}

// NextElection returns the next primary and general dates for one state,
// matched case-insensitively.
func (e *Engine) NextElection(stateCode string) (*NextElectionResult, error) {
	data, err := e.store.LoadElectionDates()
	if err != nil {
		return nil, err
	}

	state := findState(data, normalizeCode(stateCode))
	if state == nil {
		return nil, fmt.Errorf("%w: %q", ErrStateNotFound, normalizeCode(stateCode))
	}

	result := &NextElectionResult{
		State:            state.StateCode,
		StateName:        state.StateName,
		NextPrimary:      state.NextPrimary.Date,
		PrimaryDaysUntil: e.daysUntil(state.NextPrimary.Date),
		NextGeneral:      state.NextGeneral.Date,
		GeneralDaysUntil: e.daysUntil(state.NextGeneral.Date),
		ConfidenceLevel:  state.NextPrimary.Confidence,
		Sources: SourcesSummary{
			LastVerified: state.LastUpdated,
		},
	}

	if len(state.Sources) > 0 {
		result.Sources.Statute = state.Sources[0].Reference
		result.Sources.StatuteURL = state.Sources[0].URL
	}
	if len(state.Sources) > 1 {
		result.Sources.SOSURL = state.Sources[1].URL
	}

	return result, nil
}

// ElectionEntry is one election in a listing, tagged with category when
// specials are mixed in.
type ElectionEntry struct {
	State     string `json:"state"`
	StateName string `json:"state_name"`
	Date      string `json:"date"`
	Type      string `json:"type"`
	Category  string `json:"category,omitempty"`
	Office    string `json:"office,omitempty"`
	District  string `json:"district,omitempty"`
	DaysUntil int    `json:"days_until"`
}

// DateRange echoes the requested window back in results.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// RangeResult is the response shape for ElectionsByDateRange.
type RangeResult struct {
	DateRange       DateRange       `json:"date_range"`
	IncludeSpecials *bool           `json:"include_specials,omitempty"`
	ElectionsCount  int             `json:"elections_count"`
	Elections       []ElectionEntry `json:"elections"`
}

// ElectionsByDateRange returns all primary and general dates within the
// inclusive [start, end] window, sorted ascending by date.
func (e *Engine) ElectionsByDateRange(startDate, endDate string) (*RangeResult, error) {
	start, err := parseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(endDate)
	if err != nil {
		return nil, err
	}

	data, err := e.store.LoadElectionDates()
	if err != nil {
		return nil, err
	}

	elections := e.regularElectionsInRange(data, start, end, "")
	sortByDate(elections)

	return &RangeResult{
		DateRange:      DateRange{Start: startDate, End: endDate},
		ElectionsCount: len(elections),
		Elections:      elections,
	}, nil
}

// regularElectionsInRange collects primary/general entries inside the
// inclusive window, per dataset order. category is attached when non-empty.
func (e *Engine) regularElectionsInRange(data *validate.Dataset, start, end time.Time, category string) []ElectionEntry {
	elections := []ElectionEntry{}

	for _, state := range data.States {
		for _, info := range []struct {
			date string
			kind string
		}{
			{state.NextPrimary.Date, "primary"},
			{state.NextGeneral.Date, "general"},
		} {
			d, err := time.Parse("2006-01-02", info.date)
			if err != nil {
				continue
			}
			if d.Before(start) || d.After(end) {
				continue
			}
			elections = append(elections, ElectionEntry{
				State:     state.StateCode,
				StateName: state.StateName,
				Date:      info.date,
				Type:      info.kind,
				Category:  category,
				DaysUntil: e.daysUntil(info.date),
			})
		}
	}

	return elections
}

// sortByDate sorts entries ascending by date string. YYYY-MM-DD makes
// lexicographic order chronological; the sort is stable so same-date
// entries keep dataset order.
func sortByDate(entries []ElectionEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date < entries[j].Date
	})
}

// UpcomingResult is the response shape for AllUpcomingElections.
type UpcomingResult struct {
	TotalElections int             `json:"total_elections"`
	DataUpdated    string          `json:"data_updated"`
	Elections      []ElectionEntry `json:"elections"`
}

// AllUpcomingElections lists every state's primary and general election,
// sorted ascending by date.
func (e *Engine) AllUpcomingElections() (*UpcomingResult, error) {
	data, err := e.store.LoadElectionDates()
	if err != nil {
		return nil, err
	}

	elections := []ElectionEntry{}
	for _, state := range data.States {
		elections = append(elections, ElectionEntry{
			State:     state.StateCode,
			StateName: state.StateName,
			Date:      state.NextPrimary.Date,
			Type:      "primary",
			DaysUntil: e.daysUntil(state.NextPrimary.Date),
		}, ElectionEntry{
			State:     state.StateCode,
			StateName: state.StateName,
			Date:      state.NextGeneral.Date,
			Type:      "general",
			DaysUntil: e.daysUntil(state.NextGeneral.Date),
		})
	}

	sortByDate(elections)

	updated := data.Metadata.GeneratedAt
	if len(updated) > 10 {
		updated = updated[:10]
	}

	return &UpcomingResult{
		TotalElections: len(elections),
		DataUpdated:    updated,
		Elections:      elections,
	}, nil
}

// SourcesResult is the response shape for ElectionSources.
type SourcesResult struct {
	State           string              `json:"state"`
	StateName       string              `json:"state_name"`
	PrimaryElection ElectionDetail      `json:"primary_election"`
	GeneralElection ElectionDetail      `json:"general_election"`
	Sources         []validate.Source   `json:"sources"`
	Validation      validate.Validation `json:"validation"`
	LastUpdated     string              `json:"last_updated"`
	Notes           string              `json:"notes"`
}

// ElectionDetail is the per-election citation block in SourcesResult.
type ElectionDetail struct {
	Date             string `json:"date"`
	DateRule         string `json:"date_rule"`
	StatuteReference string `json:"statute_reference"`
	Confidence       string `json:"confidence"`
}

// ElectionSources returns the full citation detail for one state.
func (e *Engine) ElectionSources(stateCode string) (*SourcesResult, error) {
	data, err := e.store.LoadElectionDates()
	if err != nil {
		return nil, err
	}

	state := findState(data, normalizeCode(stateCode))
	if state == nil {
		return nil, fmt.Errorf("%w: %q", ErrStateNotFound, normalizeCode(stateCode))
	}

	return &SourcesResult{
		State:     state.StateCode,
		StateName: state.StateName,
		PrimaryElection: ElectionDetail{
			Date:             state.NextPrimary.Date,
			DateRule:         state.NextPrimary.DateRule,
			StatuteReference: state.NextPrimary.StatuteReference,
			Confidence:       state.NextPrimary.Confidence,
		},
		GeneralElection: ElectionDetail{
			Date:             state.NextGeneral.Date,
			DateRule:         state.NextGeneral.DateRule,
			StatuteReference: state.NextGeneral.StatuteReference,
			Confidence:       state.NextGeneral.Confidence,
		},
		Sources:     state.Sources,
		Validation:  state.Validation,
		LastUpdated: state.LastUpdated,
		Notes:       state.Notes,
	}, nil
}
