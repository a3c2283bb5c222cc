// Package eavs aggregates jurisdiction-level EAVS (Election Administration
// and Voting Survey) records into per-state totals and derived statistics.
//
// Raw survey values are messy: alongside real counts the data uses several
// sentinel codes meaning "data not available". NormalizeCount is the single
// point that shields the aggregator from those, and every aggregation site
// goes through it.
package eavs

// Metadata describes the provenance of the aggregated dataset.
type Metadata struct {
	Source  string `json:"source"`
	Dataset string `json:"dataset"`
	Version string `json:"version"`
	URL     string `json:"url"`
	Notes   string `json:"notes"`
}

// Dataset is the persisted eavs_state_data.json structure.
type Dataset struct {
	Metadata Metadata              `json:"metadata"`
	States   map[string]*StateData `json:"states"`
}

// NewDataset returns a Dataset with standard metadata and an empty state map.
func NewDataset() *Dataset {
	return &Dataset{
		Metadata: Metadata{
			Source:  "U.S. Election Assistance Commission (EAC)",
			Dataset: "2024 Election Administration and Voting Survey (EAVS)",
			Version: "1.0",
			URL:     "https://www.eac.gov/research-and-data/studies-and-reports",
			Notes:   "Data aggregated from jurisdiction-level reports",
		},
		States: make(map[string]*StateData),
	}
}

// StateData holds one state's aggregated survey totals. Counter fields are
// pointers so that "not reported" and zero can both render as absent after
// the presentation pass.
type StateData struct {
	StateCode                string       `json:"state_code"`
	StateName                string       `json:"state_name"`
	JurisdictionCount        *int         `json:"jurisdiction_count,omitempty"`
	VoterRegistration        Registration `json:"voter_registration"`
	RegistrationTransactions Transactions `json:"registration_transactions"`
	MailVoting               MailVoting   `json:"mail_voting"`
	UOCAVA                   UOCAVA       `json:"uocava"`
	Polling                  Polling      `json:"polling"`
	Provisional              Provisional  `json:"provisional"`
	Turnout                  Turnout      `json:"turnout"`
}

// Registration covers EAVS Section A registration totals.
type Registration struct {
	TotalActive          *int `json:"total_active,omitempty"`
	TotalInactive        *int `json:"total_inactive,omitempty"`
	SameDayRegistrations *int `json:"same_day_registrations,omitempty"`
	TotalRegistered      *int `json:"total_registered,omitempty"`
}

// Transactions covers registration transaction channels (Section A3).
type Transactions struct {
	MotorVehicle *int `json:"motor_vehicle,omitempty"`
	Online       *int `json:"online,omitempty"`
	ByMail       *int `json:"by_mail,omitempty"`
	InPerson     *int `json:"in_person,omitempty"`
}

// MailVoting covers Section C mail ballot totals and derived rates.
type MailVoting struct {
	BallotsTransmitted *int     `json:"ballots_transmitted,omitempty"`
	BallotsReturned    *int     `json:"ballots_returned,omitempty"`
	BallotsRejected    *int     `json:"ballots_rejected,omitempty"`
	BallotsCounted     *int     `json:"ballots_counted,omitempty"`
	ReturnRate         *float64 `json:"return_rate,omitempty"`
	RejectionRate      *float64 `json:"rejection_rate,omitempty"`
}

// UOCAVA covers Section B military/overseas ballot totals.
type UOCAVA struct {
	BallotsTransmitted *int `json:"ballots_transmitted,omitempty"`
	BallotsReturned    *int `json:"ballots_returned,omitempty"`
	BallotsCounted     *int `json:"ballots_counted,omitempty"`
}

// Polling covers Section D polling operations totals.
type Polling struct {
	Precincts     *int `json:"precincts,omitempty"`
	PollingPlaces *int `json:"polling_places,omitempty"`
	PollWorkers   *int `json:"poll_workers,omitempty"`
}

// Provisional covers Section E provisional ballot totals and the derived
// count rate.
type Provisional struct {
	BallotsSubmitted *int     `json:"ballots_submitted,omitempty"`
	BallotsCounted   *int     `json:"ballots_counted,omitempty"`
	BallotsRejected  *int     `json:"ballots_rejected,omitempty"`
	CountRate        *float64 `json:"count_rate,omitempty"`
}

// Turnout covers Section F turnout totals and the derived percentage.
type Turnout struct {
	TotalBallotsCast  *int     `json:"total_ballots_cast,omitempty"`
	TurnoutPercentage *float64 `json:"turnout_percentage,omitempty"`
}

// newStateData returns a zero-valued aggregate for a first-seen state.
// Every counter starts as an explicit zero so accumulation never depends
// on construct-on-access behavior.
func newStateData(code, name string) *StateData {
	return &StateData{
		StateCode:         code,
		StateName:         name,
		JurisdictionCount: new(int),
		VoterRegistration: Registration{
			TotalActive:          new(int),
			TotalInactive:        new(int),
			SameDayRegistrations: new(int),
		},
		RegistrationTransactions: Transactions{
			MotorVehicle: new(int),
			Online:       new(int),
			ByMail:       new(int),
			InPerson:     new(int),
		},
		MailVoting: MailVoting{
			BallotsTransmitted: new(int),
			BallotsReturned:    new(int),
			BallotsRejected:    new(int),
			BallotsCounted:     new(int),
		},
		UOCAVA: UOCAVA{
			BallotsTransmitted: new(int),
			BallotsReturned:    new(int),
			BallotsCounted:     new(int),
		},
		Polling: Polling{
			Precincts:     new(int),
			PollingPlaces: new(int),
			PollWorkers:   new(int),
		},
		Provisional: Provisional{
			BallotsSubmitted: new(int),
			BallotsCounted:   new(int),
			BallotsRejected:  new(int),
		},
		Turnout: Turnout{
			TotalBallotsCast: new(int),
		},
	}
}

// Count returns the value behind an optional counter, treating absent as 0.
func Count(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
