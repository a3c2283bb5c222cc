// Package dataset persists the three canonical JSON datasets: validated
// election dates, special elections, and aggregated EAVS survey data.
//
// Datasets are immutable snapshots: the pipeline writes them atomically
// and the query engine reads them fresh on every call. Missing secondary
// datasets (specials, EAVS) load as empty defaults rather than errors.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/election-dates/internal/eavs"
	"github.com/pfrederiksen/election-dates/internal/specials"
	"github.com/pfrederiksen/election-dates/internal/validate"
)

// Dataset file names within the data directory.
const (
	ElectionDatesFile    = "election_dates.json"
	SpecialElectionsFile = "special_elections.json"
	EAVSStateDataFile    = "eavs_state_data.json"
)

// Store locates and persists the dataset files.
type Store struct {
	dataDir string
}

// New creates a Store rooted at dataDir, creating the directory if needed.
func New(dataDir string) (*Store, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Store{dataDir: dataDir}, nil
}

// Path returns the on-disk path for a dataset file name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dataDir, name)
}

// writeJSON writes v as indented JSON via a temp file and rename, so a
// crashed run never leaves a truncated dataset behind.
func (s *Store) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}

	path := s.Path(name)
	tmp, err := os.CreateTemp(s.dataDir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", name, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing %s: %w", name, err)
	}

	return nil
}

func (s *Store) readJSON(name string, v interface{}) (bool, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", name, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parsing %s: %w", name, err)
	}

	return true, nil
}

// SaveElectionDates writes election_dates.json.
func (s *Store) SaveElectionDates(d *validate.Dataset) error {
	return s.writeJSON(ElectionDatesFile, d)
}

// LoadElectionDates reads election_dates.json. The file is the primary
// dataset, so its absence is an error.
func (s *Store) LoadElectionDates() (*validate.Dataset, error) {
	var d validate.Dataset
	found, err := s.readJSON(ElectionDatesFile, &d)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("election dates dataset not found at %s", s.Path(ElectionDatesFile))
	}
	return &d, nil
}

// SaveSpecialElections writes special_elections.json.
func (s *Store) SaveSpecialElections(d *specials.Dataset) error {
	return s.writeJSON(SpecialElectionsFile, d)
}

// LoadSpecialElections reads special_elections.json, returning an empty
// dataset when the file does not exist yet.
func (s *Store) LoadSpecialElections() (*specials.Dataset, error) {
	var d specials.Dataset
	found, err := s.readJSON(SpecialElectionsFile, &d)
	if err != nil {
		return nil, err
	}
	if !found {
		return specials.EmptyDataset(), nil
	}
	if d.Elections == nil {
		d.Elections = []*specials.Election{}
	}
	if d.ByState == nil {
		d.ByState = map[string][]string{}
	}
	return &d, nil
}

// SaveEAVS writes eavs_state_data.json.
func (s *Store) SaveEAVS(d *eavs.Dataset) error {
	return s.writeJSON(EAVSStateDataFile, d)
}

// LoadEAVS reads eavs_state_data.json, returning an empty dataset when
// the file does not exist yet.
func (s *Store) LoadEAVS() (*eavs.Dataset, error) {
	var d eavs.Dataset
	found, err := s.readJSON(EAVSStateDataFile, &d)
	if err != nil {
		return nil, err
	}
	if !found {
		return &eavs.Dataset{States: map[string]*eavs.StateData{}}, nil
	}
	if d.States == nil {
		d.States = map[string]*eavs.StateData{}
	}
	return &d, nil
}
