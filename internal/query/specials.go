package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/election-dates/internal/specials"
)

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// SpecialsByStateResult is the response shape for SpecialElectionsByState.
// An unknown state yields an empty listing, not an error: absence of
// special elections is a legitimate answer.
type SpecialsByStateResult struct {
	StateCode string               `json:"state_code"`
	Count     int                  `json:"special_elections_count"`
	Elections []*specials.Election `json:"special_elections"`
}

// SpecialElectionsByState lists all special elections for one state.
func (e *Engine) SpecialElectionsByState(stateCode string) (*SpecialsByStateResult, error) {
	data, err := e.store.LoadSpecialElections()
	if err != nil {
		return nil, err
	}

	code := normalizeCode(stateCode)
	matched := []*specials.Election{}
	for _, el := range data.Elections {
		if el.StateCode == code {
			matched = append(matched, el)
		}
	}

	return &SpecialsByStateResult{
		StateCode: code,
		Count:     len(matched),
		Elections: matched,
	}, nil
}

// UpcomingSpecial is a special election annotated with days until its
// next date.
type UpcomingSpecial struct {
	specials.Election
	DaysUntil int `json:"days_until"`
}

// UpcomingSpecialsResult is the response shape for UpcomingSpecialElections.
type UpcomingSpecialsResult struct {
	DaysAhead int               `json:"days_ahead"`
	Count     int               `json:"count"`
	Elections []UpcomingSpecial `json:"special_elections"`
}

// UpcomingSpecialElections lists special elections whose next date falls
// within [today, today+daysAhead], both bounds inclusive. The value is
// taken literally: 0 selects today only and a negative window matches
// nothing. Callers that want the 90-day default pass DefaultDaysAhead.
func (e *Engine) UpcomingSpecialElections(daysAhead int) (*UpcomingSpecialsResult, error) {
	data, err := e.store.LoadSpecialElections()
	if err != nil {
		return nil, err
	}

	upcoming := []UpcomingSpecial{}
	for _, el := range data.Elections {
		if el.NextDate == "" {
			continue
		}
		target, err := time.Parse("2006-01-02", el.NextDate)
		if err != nil {
			continue
		}
		days := int(target.Sub(e.today()).Hours() / 24)
		if days >= 0 && days <= daysAhead {
			upcoming = append(upcoming, UpcomingSpecial{Election: *el, DaysUntil: days})
		}
	}

	// Dataset order is already ascending by next_date; keep it stable.
	return &UpcomingSpecialsResult{
		DaysAhead: daysAhead,
		Count:     len(upcoming),
		Elections: upcoming,
	}, nil
}

// CombinedResult is the response shape for ElectionWithSpecials.
type CombinedResult struct {
	State            string               `json:"state"`
	StateName        string               `json:"state_name"`
	RegularElections RegularSummary       `json:"regular_elections"`
	SpecialsCount    int                  `json:"special_elections_count"`
	Specials         []*specials.Election `json:"special_elections"`
}

// RegularSummary pairs the next primary and general with day counts.
type RegularSummary struct {
	NextPrimary DatedEntry `json:"next_primary"`
	NextGeneral DatedEntry `json:"next_general"`
}

// DatedEntry is a date with its distance from today.
type DatedEntry struct {
	Date      string `json:"date"`
	DaysUntil int    `json:"days_until"`
}

// ElectionWithSpecials returns one state's regular and special elections
// in a single view.
func (e *Engine) ElectionWithSpecials(stateCode string) (*CombinedResult, error) {
	data, err := e.store.LoadElectionDates()
	if err != nil {
		return nil, err
	}

	code := normalizeCode(stateCode)
	state := findState(data, code)
	if state == nil {
		return nil, fmt.Errorf("%w: %q", ErrStateNotFound, code)
	}

	specialData, err := e.store.LoadSpecialElections()
	if err != nil {
		return nil, err
	}

	matched := []*specials.Election{}
	for _, el := range specialData.Elections {
		if el.StateCode == code {
			matched = append(matched, el)
		}
	}

	return &CombinedResult{
		State:     state.StateCode,
		StateName: state.StateName,
		RegularElections: RegularSummary{
			NextPrimary: DatedEntry{
				Date:      state.NextPrimary.Date,
				DaysUntil: e.daysUntil(state.NextPrimary.Date),
			},
			NextGeneral: DatedEntry{
				Date:      state.NextGeneral.Date,
				DaysUntil: e.daysUntil(state.NextGeneral.Date),
			},
		},
		SpecialsCount: len(matched),
		Specials:      matched,
	}, nil
}

// AllElectionsByDateRange returns regular and (optionally) special
// elections within the inclusive window, each tagged with its category.
func (e *Engine) AllElectionsByDateRange(startDate, endDate string, includeSpecials bool) (*RangeResult, error) {
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

	elections := e.regularElectionsInRange(data, start, end, "regular")

	if includeSpecials {
		specialData, err := e.store.LoadSpecialElections()
		if err != nil {
			return nil, err
		}

		for _, el := range specialData.Elections {
			if el.NextDate == "" {
				continue
			}
			d, err := time.Parse("2006-01-02", el.NextDate)
			if err != nil {
				continue
			}
			if d.Before(start) || d.After(end) {
				continue
			}
			elections = append(elections, ElectionEntry{
				State:     el.StateCode,
				StateName: el.StateName,
				Date:      el.NextDate,
				Type:      el.NextDateType,
				Category:  "special",
				Office:    el.Office,
				District:  el.District,
				DaysUntil: e.daysUntil(el.NextDate),
			})
		}
	}

	sortByDate(elections)

	include := includeSpecials
	return &RangeResult{
		DateRange:       DateRange{Start: startDate, End: endDate},
		IncludeSpecials: &include,
		ElectionsCount:  len(elections),
		Elections:       elections,
	}, nil
}

// SpecialsMetadataResult is the response shape for SpecialElectionsMetadata.
type SpecialsMetadataResult struct {
	Metadata           specials.Metadata `json:"metadata"`
	StatesWithSpecials []string          `json:"states_with_specials"`
}

// SpecialElectionsMetadata returns dataset-level metadata about the
// special elections snapshot.
func (e *Engine) SpecialElectionsMetadata() (*SpecialsMetadataResult, error) {
	data, err := e.store.LoadSpecialElections()
	if err != nil {
		return nil, err
	}

	statesWith := data.Metadata.StatesWithSpecials
	if statesWith == nil {
		statesWith = []string{}
	}

	return &SpecialsMetadataResult{
		Metadata:           data.Metadata,
		StatesWithSpecials: statesWith,
	}, nil
}
