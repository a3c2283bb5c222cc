package eavs

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Row is one jurisdiction record keyed by CSV header name.
type Row map[string]string

// columnMappings fixes the EAVS source column for each aggregated
// category, per the EAC report layout:
//
//	A1b/A1c  active/inactive registered voters
//	A2a      same-day registrations
//	A3a/A3b/A3f  registration transactions by channel
//	B3a/B4a  UOCAVA ballots transmitted/returned
//	C1a/C2a/C3a/C6a  mail ballots transmitted/returned/rejected/counted
//	D1a/D2a/D7a  precincts, polling places, poll workers
//	E1a/E2a  provisional ballots submitted/counted
//	F1a      total ballots cast
var columnMappings = []struct {
	column string
	target func(*StateData) *int
}{
	{"A1b", func(s *StateData) *int { return s.VoterRegistration.TotalActive }},
	{"A1c", func(s *StateData) *int { return s.VoterRegistration.TotalInactive }},
	{"A2a", func(s *StateData) *int { return s.VoterRegistration.SameDayRegistrations }},
	{"A3a", func(s *StateData) *int { return s.RegistrationTransactions.MotorVehicle }},
	{"A3b", func(s *StateData) *int { return s.RegistrationTransactions.ByMail }},
	{"A3f", func(s *StateData) *int { return s.RegistrationTransactions.Online }},
	{"B3a", func(s *StateData) *int { return s.UOCAVA.BallotsTransmitted }},
	{"B4a", func(s *StateData) *int { return s.UOCAVA.BallotsReturned }},
	{"C1a", func(s *StateData) *int { return s.MailVoting.BallotsTransmitted }},
	{"C2a", func(s *StateData) *int { return s.MailVoting.BallotsReturned }},
	{"C3a", func(s *StateData) *int { return s.MailVoting.BallotsRejected }},
	{"C6a", func(s *StateData) *int { return s.MailVoting.BallotsCounted }},
	{"D1a", func(s *StateData) *int { return s.Polling.Precincts }},
	{"D2a", func(s *StateData) *int { return s.Polling.PollingPlaces }},
	{"D7a", func(s *StateData) *int { return s.Polling.PollWorkers }},
	{"E1a", func(s *StateData) *int { return s.Provisional.BallotsSubmitted }},
	{"E2a", func(s *StateData) *int { return s.Provisional.BallotsCounted }},
	{"F1a", func(s *StateData) *int { return s.Turnout.TotalBallotsCast }},
}

// Aggregator folds jurisdiction rows into per-state totals.
type Aggregator struct {
	states map[string]*StateData
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{states: make(map[string]*StateData)}
}

// Add folds one jurisdiction record into its state's totals. Rows with a
// blank state code are skipped silently. Missing or unrecognized columns
// simply never increment anything.
func (a *Aggregator) Add(row Row) {
	code := strings.TrimSpace(row["State_Abbr"])
	if code == "" {
		return
	}

	state, ok := a.states[code]
	if !ok {
		state = newStateData(code, strings.TrimSpace(row["State_Full"]))
		a.states[code] = state
	}
	if state.StateName == "" {
		state.StateName = strings.TrimSpace(row["State_Full"])
	}

	*state.JurisdictionCount++

	for _, m := range columnMappings {
		if v, ok := NormalizeCount(row[m.column]); ok {
			*m.target(state) += v
		}
	}
}

// States returns the aggregated per-state totals.
func (a *Aggregator) States() map[string]*StateData {
	return a.states
}

// ReadCSV streams jurisdiction rows from r into the aggregator, one pass.
// Short rows are tolerated; missing trailing fields read as empty.
func (a *Aggregator) ReadCSV(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("reading CSV header: %w", err)
	}

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, fmt.Errorf("reading CSV row: %w", err)
		}

		row := make(Row, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}

		a.Add(row)
		rows++
	}

	return rows, nil
}

// BuildDataset runs the full aggregation over a jurisdiction CSV file:
// fold rows, compute derived statistics, and apply the zero-to-absent
// presentation pass.
func BuildDataset(csvPath string) (*Dataset, int, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, 0, fmt.Errorf("opening EAVS CSV: %w", err)
	}
	defer f.Close()

	agg := NewAggregator()
	rows, err := agg.ReadCSV(f)
	if err != nil {
		return nil, rows, err
	}

	dataset := NewDataset()
	for code, state := range agg.States() {
		state.ComputeDerived()
		state.CleanZeros()
		dataset.States[code] = state
	}

	return dataset, rows, nil
}
