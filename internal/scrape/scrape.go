// Package scrape fetches state Secretary of State election calendar pages
// and extracts candidate election dates from them.
//
// Scraped dates are best-effort corroboration only. When a fetch fails, a
// calendar is a PDF, or a date cannot be classified, the scraper falls
// back to the hand-verified known-dates table. One state's failure never
// blocks the others.
package scrape

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/election-dates/internal/config"
	"github.com/pfrederiksen/election-dates/internal/logger"
	"github.com/pfrederiksen/election-dates/internal/states"
)

// Scrape status values recorded on each observation.
const (
	StatusCompleted   = "completed"
	StatusFetchFailed = "fetch_failed"
	StatusSkippedPDF  = "skipped_pdf"
)

// Source provenance values recorded on each observation.
const (
	SourceScraped        = "scraped"
	SourceKnownDates     = "known_dates"
	SourceKnownFallback  = "known_dates_fallback"
	SourcePartialScraped = "partial_scrape_with_known"
)

// DateMatch is one date-like substring found on a calendar page, with the
// surrounding text used to classify it.
type DateMatch struct {
	Date     string `json:"date"`
	Original string `json:"original"`
	Context  string `json:"context"`
}

// Observation is one state's best-effort scrape result.
type Observation struct {
	StateCode    string      `json:"state_code"`
	StateName    string      `json:"state_name"`
	SOSURL       string      `json:"sos_url,omitempty"`
	CalendarURL  string      `json:"calendar_url,omitempty"`
	CalendarType string      `json:"calendar_type,omitempty"`
	ScrapedAt    string      `json:"scraped_at"`
	DatesFound   []DateMatch `json:"dates_found"`
	PrimaryDate  string      `json:"primary_date,omitempty"`
	GeneralDate  string      `json:"general_date,omitempty"`
	ScrapeStatus string      `json:"scrape_status"`
	Source       string      `json:"source"`
	Notes        string      `json:"notes,omitempty"`
}

// Scraper fetches and classifies election dates from SOS calendar pages.
type Scraper struct {
	client    *http.Client
	userAgent string
	year      string
}

// New creates a Scraper for the given target election year.
func New(cfg *config.ScrapeConfig, year int) *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		},
		userAgent: cfg.UserAgent,
		year:      fmt.Sprintf("%d", year),
	}
}

// ScrapeState produces an observation for one configured source. Network
// failure is not an error here: the observation falls back to known dates
// and records how it was produced.
func (s *Scraper) ScrapeState(src config.SourceConfig) *Observation {
	obs := &Observation{
		StateCode:    src.State,
		StateName:    states.Name(src.State),
		SOSURL:       src.SOSURL,
		CalendarURL:  src.CalendarURL,
		CalendarType: src.CalendarType,
		ScrapedAt:    time.Now().UTC().Format(time.RFC3339),
		DatesFound:   []DateMatch{},
	}

	// PDF calendars need different handling; use known dates instead.
	if src.CalendarType == "pdf" {
		obs.ScrapeStatus = StatusSkippedPDF
		obs.Notes = "PDF calendar - using known dates instead"
		s.applyKnownDates(obs, SourceKnownDates)
		return obs
	}

	start := time.Now()
	text, err := s.fetchText(src.CalendarURL)
	logger.RecordTiming("scrape.fetch", time.Since(start))

	if err != nil {
		logger.Warn("Calendar fetch failed, using known dates", logger.Fields{
			"state": src.State,
			"url":   src.CalendarURL,
		})
		logger.IncrCounter("scrape.fetch_failed")
		obs.ScrapeStatus = StatusFetchFailed
		s.applyKnownDates(obs, SourceKnownFallback)
		return obs
	}

	obs.DatesFound = ExtractDates(text)

	for _, match := range obs.DatesFound {
		// Only consider dates in the target election year.
		if !strings.HasPrefix(match.Date, s.year) {
			continue
		}

		switch ClassifyElectionType(match.Context) {
		case "primary":
			if obs.PrimaryDate == "" {
				obs.PrimaryDate = match.Date
			}
		case "general":
			if obs.GeneralDate == "" {
				obs.GeneralDate = match.Date
			}
		}
	}

	if obs.PrimaryDate == "" || obs.GeneralDate == "" {
		known := states.Known2026[src.State]
		if obs.PrimaryDate == "" {
			obs.PrimaryDate = known.Primary
		}
		if obs.GeneralDate == "" {
			obs.GeneralDate = known.General
		}
		obs.Source = SourcePartialScraped
	} else {
		obs.Source = SourceScraped
	}

	obs.ScrapeStatus = StatusCompleted
	return obs
}

// ScrapeAll scrapes every configured source sequentially and returns the
// observations keyed by state code.
func (s *Scraper) ScrapeAll(sources []config.SourceConfig) map[string]*Observation {
	results := make(map[string]*Observation, len(sources))

	for _, src := range sources {
		obs := s.ScrapeState(src)
		results[src.State] = obs

		logger.Info("Scraped state calendar", logger.Fields{
			"state":   src.State,
			"status":  obs.ScrapeStatus,
			"source":  obs.Source,
			"primary": obs.PrimaryDate,
			"general": obs.GeneralDate,
		})
		logger.IncrCounter("scrape.states")
	}

	return results
}

func (s *Scraper) applyKnownDates(obs *Observation, source string) {
	known := states.Known2026[obs.StateCode]
	obs.PrimaryDate = known.Primary
	obs.GeneralDate = known.General
	obs.Source = source
}

// fetchText fetches a page and returns its visible text content.
func (s *Scraper) fetchText(url string) (string, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	return doc.Text(), nil
}

// SaveObservations writes scrape results to a JSON file keyed by state code.
func SaveObservations(path string, observations map[string]*Observation) error {
	data, err := json.MarshalIndent(observations, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding observations: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing observations: %w", err)
	}

	return nil
}

// LoadObservations reads scrape results from a JSON file. A missing file
// is not an error; validation simply runs without corroboration data.
func LoadObservations(path string) (map[string]*Observation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*Observation{}, nil
		}
		return nil, fmt.Errorf("reading observations: %w", err)
	}

	var observations map[string]*Observation
	if err := json.Unmarshal(data, &observations); err != nil {
		return nil, fmt.Errorf("parsing observations: %w", err)
	}

	if observations == nil {
		observations = map[string]*Observation{}
	}

	return observations, nil
}
