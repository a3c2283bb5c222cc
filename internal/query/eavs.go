package query

import (
	"fmt"
	"math"

	"github.com/pfrederiksen/election-dates/internal/eavs"
)

// EAVSStateResult is the response shape for EAVSForState.
type EAVSStateResult struct {
	StateCode         string            `json:"state_code"`
	StateName         string            `json:"state_name"`
	JurisdictionCount *int              `json:"jurisdiction_count"`
	VoterRegistration eavs.Registration `json:"voter_registration"`
	Turnout           eavs.Turnout      `json:"turnout"`
	MailVoting        eavs.MailVoting   `json:"mail_voting"`
	Polling           eavs.Polling      `json:"polling"`
	Provisional       eavs.Provisional  `json:"provisional"`
	Source            eavs.Metadata     `json:"source"`
}

// EAVSForState returns one state's aggregated survey statistics.
func (e *Engine) EAVSForState(stateCode string) (*EAVSStateResult, error) {
	data, err := e.store.LoadEAVS()
	if err != nil {
		return nil, err
	}

	code := normalizeCode(stateCode)
	state, ok := data.States[code]
	if !ok {
		return nil, fmt.Errorf("%w for state %q", ErrNoEAVSData, code)
	}

	return &EAVSStateResult{
		StateCode:         code,
		StateName:         state.StateName,
		JurisdictionCount: state.JurisdictionCount,
		VoterRegistration: state.VoterRegistration,
		Turnout:           state.Turnout,
		MailVoting:        state.MailVoting,
		Polling:           state.Polling,
		Provisional:       state.Provisional,
		Source:            data.Metadata,
	}, nil
}

// ComparisonEntry is one state's row in a cross-state comparison.
type ComparisonEntry struct {
	StateCode         string   `json:"state_code"`
	StateName         string   `json:"state_name"`
	RegisteredVoters  *int     `json:"registered_voters"`
	BallotsCast       *int     `json:"ballots_cast"`
	TurnoutPercentage *float64 `json:"turnout_percentage"`
	PollingPlaces     *int     `json:"polling_places"`
	PollWorkers       *int     `json:"poll_workers"`
	MailBallotsSent   *int     `json:"mail_ballots_sent"`
	MailReturnRate    *float64 `json:"mail_return_rate"`
}

// ComparisonResult is the response shape for EAVSComparison.
type ComparisonResult struct {
	StatesCompared int               `json:"states_compared"`
	Comparison     []ComparisonEntry `json:"comparison"`
}

// EAVSComparison compares headline survey statistics across the requested
// states. Unknown states are skipped, preserving request order for the rest.
func (e *Engine) EAVSComparison(stateCodes []string) (*ComparisonResult, error) {
	data, err := e.store.LoadEAVS()
	if err != nil {
		return nil, err
	}

	comparison := []ComparisonEntry{}
	for _, raw := range stateCodes {
		code := normalizeCode(raw)
		state, ok := data.States[code]
		if !ok {
			continue
		}

		comparison = append(comparison, ComparisonEntry{
			StateCode:         code,
			StateName:         state.StateName,
			RegisteredVoters:  state.VoterRegistration.TotalRegistered,
			BallotsCast:       state.Turnout.TotalBallotsCast,
			TurnoutPercentage: state.Turnout.TurnoutPercentage,
			PollingPlaces:     state.Polling.PollingPlaces,
			PollWorkers:       state.Polling.PollWorkers,
			MailBallotsSent:   state.MailVoting.BallotsTransmitted,
			MailReturnRate:    state.MailVoting.ReturnRate,
		})
	}

	return &ComparisonResult{
		StatesCompared: len(comparison),
		Comparison:     comparison,
	}, nil
}

// NationalTotals sums survey statistics across all reporting states.
type NationalTotals struct {
	TotalRegistered           int      `json:"total_registered"`
	TotalActive               int      `json:"total_active"`
	TotalInactive             int      `json:"total_inactive"`
	TotalBallotsCast          int      `json:"total_ballots_cast"`
	TotalMailSent             int      `json:"total_mail_sent"`
	TotalMailReturned         int      `json:"total_mail_returned"`
	TotalPollingPlaces        int      `json:"total_polling_places"`
	TotalPollWorkers          int      `json:"total_poll_workers"`
	StatesReporting           int      `json:"states_reporting"`
	NationalTurnoutPercentage *float64 `json:"national_turnout_percentage,omitempty"`
}

// NationalSummaryResult is the response shape for NationalEAVSSummary.
type NationalSummaryResult struct {
	NationalSummary NationalTotals `json:"national_summary"`
	Source          eavs.Metadata  `json:"source"`
}

// NationalEAVSSummary sums statistics across every reporting state and
// derives a national turnout percentage when registration totals allow.
func (e *Engine) NationalEAVSSummary() (*NationalSummaryResult, error) {
	data, err := e.store.LoadEAVS()
	if err != nil {
		return nil, err
	}

	totals := NationalTotals{}
	for _, state := range data.States {
		totals.StatesReporting++
		totals.TotalRegistered += eavs.Count(state.VoterRegistration.TotalRegistered)
		totals.TotalActive += eavs.Count(state.VoterRegistration.TotalActive)
		totals.TotalInactive += eavs.Count(state.VoterRegistration.TotalInactive)
		totals.TotalBallotsCast += eavs.Count(state.Turnout.TotalBallotsCast)
		totals.TotalMailSent += eavs.Count(state.MailVoting.BallotsTransmitted)
		totals.TotalMailReturned += eavs.Count(state.MailVoting.BallotsReturned)
		totals.TotalPollingPlaces += eavs.Count(state.Polling.PollingPlaces)
		totals.TotalPollWorkers += eavs.Count(state.Polling.PollWorkers)
	}

	if totals.TotalRegistered > 0 {
		pct := math.Round(float64(totals.TotalBallotsCast)/float64(totals.TotalRegistered)*1000) / 10
		totals.NationalTurnoutPercentage = &pct
	}

	return &NationalSummaryResult{
		NationalSummary: totals,
		Source:          data.Metadata,
	}, nil
}
