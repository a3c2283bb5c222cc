// Package cli wires the pipeline and the tool server into a cobra
// command tree.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/election-dates/internal/calendar"
	"github.com/pfrederiksen/election-dates/internal/config"
	"github.com/pfrederiksen/election-dates/internal/dataset"
	"github.com/pfrederiksen/election-dates/internal/eavs"
	"github.com/pfrederiksen/election-dates/internal/logger"
	"github.com/pfrederiksen/election-dates/internal/report"
	"github.com/pfrederiksen/election-dates/internal/scrape"
	"github.com/pfrederiksen/election-dates/internal/specials"
	"github.com/pfrederiksen/election-dates/internal/statute"
	"github.com/pfrederiksen/election-dates/internal/validate"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// observationsFile is the intermediate scrape-results file within the
// data directory.
const observationsFile = "sos_scraped.json"

var (
	flagConfig  string
	flagDataDir string
	flagFormat  string
	flagVerbose bool
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "electiond",
		Short: "Build and serve validated US state election date datasets",
		Long: `electiond builds validated election date datasets from statute rules,
EAVS survey data, and best-effort SOS website scraping, then serves them
through a fixed tool-call contract.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory override")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Report output format: text or json")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	cmd.AddCommand(
		newEAVSCmd(),
		newScrapeCmd(),
		newValidateCmd(),
		newSpecialsCmd(),
		newBuildCmd(),
		newServeCmd(),
		newExportICSCmd(),
	)

	return cmd
}

// loadConfig resolves configuration from the --config flag or defaults,
// applies flag overrides, and configures logging.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}

	level := logger.ParseLevel(cfg.Logging.Level)
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	return cfg, nil
}

func openStore(cfg *config.Config) (*dataset.Store, error) {
	return dataset.New(cfg.DataDir)
}

func newEAVSCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eavs",
		Short: "Aggregate EAVS jurisdiction data into per-state statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			return runEAVS(cfg, store)
		},
	}
}

func runEAVS(cfg *config.Config, store *dataset.Store) error {
	start := time.Now()

	data, rows, err := eavs.BuildDataset(cfg.Inputs.EAVSCSV)
	if err != nil {
		return fmt.Errorf("aggregating EAVS data: %w", err)
	}

	if err := store.SaveEAVS(data); err != nil {
		return fmt.Errorf("saving EAVS dataset: %w", err)
	}

	logger.AddCounter("eavs.jurisdictions", int64(rows))
	logger.RecordTiming("pipeline.eavs", time.Since(start))
	logger.Info("Aggregated EAVS data", logger.Fields{
		"jurisdictions": rows,
		"states":        len(data.States),
		"output":        store.Path(dataset.EAVSStateDataFile),
	})

	return nil
}

func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Scrape SOS election calendars for corroboration data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			return runScrape(cfg, store)
		},
	}
}

func runScrape(cfg *config.Config, store *dataset.Store) error {
	start := time.Now()

	scraper := scrape.New(&cfg.Scrape, cfg.Year)
	observations := scraper.ScrapeAll(cfg.Scrape.Sources)

	path := store.Path(observationsFile)
	if err := scrape.SaveObservations(path, observations); err != nil {
		return fmt.Errorf("saving scrape results: %w", err)
	}

	logger.RecordTiming("pipeline.scrape", time.Since(start))
	logger.Info("Saved scrape results", logger.Fields{
		"states": len(observations),
		"output": path,
	})

	return nil
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate statute rules against scraped data and build election_dates.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			return runValidate(cfg, store)
		},
	}
}

func runValidate(cfg *config.Config, store *dataset.Store) error {
	start := time.Now()

	rules, err := statute.Load(cfg.Inputs.StatuteCSV)
	if err != nil {
		return err
	}
	logger.Info("Loaded statute rules", logger.Fields{"states": len(rules)})

	observations, err := scrape.LoadObservations(store.Path(observationsFile))
	if err != nil {
		return err
	}
	logger.Info("Loaded scrape observations", logger.Fields{"states": len(observations)})

	data := validate.Build(rules, observations, cfg.Year, time.Now())

	if err := store.SaveElectionDates(data); err != nil {
		return fmt.Errorf("saving election dates: %w", err)
	}

	logger.RecordTiming("pipeline.validate", time.Since(start))

	if flagFormat == "json" {
		return printJSON(os.Stdout, data)
	}
	report.Validation(os.Stdout, data)

	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSpecialsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "specials",
		Short: "Validate special elections CSV and build special_elections.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			return runSpecials(cfg, store)
		},
	}
}

func runSpecials(cfg *config.Config, store *dataset.Store) error {
	start := time.Now()

	elections, errs, warnings, err := specials.ValidateFile(cfg.Inputs.SpecialsCSV)
	if err != nil {
		return err
	}

	report.RowIssues(os.Stdout, "ERRORS", errs)
	report.RowIssues(os.Stdout, "WARNINGS", warnings)

	// All-or-nothing: any hard error anywhere blocks JSON generation.
	if len(errs) > 0 {
		return fmt.Errorf("special elections validation failed: %d rows with errors", len(errs))
	}

	data := specials.BuildDataset(elections, today())

	if err := store.SaveSpecialElections(data); err != nil {
		return fmt.Errorf("saving special elections: %w", err)
	}

	logger.RecordTiming("pipeline.specials", time.Since(start))

	if flagFormat == "json" {
		return printJSON(os.Stdout, data)
	}
	report.SpecialsSummary(os.Stdout, data)

	return nil
}

func today() time.Time {
	t := time.Now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Run the full pipeline: eavs, scrape, validate, specials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}

			// EAVS input is optional; skip the step when absent.
			if _, statErr := os.Stat(cfg.Inputs.EAVSCSV); statErr == nil {
				if err := runEAVS(cfg, store); err != nil {
					return err
				}
			} else {
				logger.Warn("EAVS CSV not found, skipping aggregation", logger.Fields{
					"path": cfg.Inputs.EAVSCSV,
				})
			}

			if err := runScrape(cfg, store); err != nil {
				return err
			}

			if err := runValidate(cfg, store); err != nil {
				return err
			}

			// A specials validation failure blocks only the specials output.
			if _, statErr := os.Stat(cfg.Inputs.SpecialsCSV); statErr == nil {
				if err := runSpecials(cfg, store); err != nil {
					logger.Error("Special elections step failed", nil, err)
				}
			} else {
				logger.Warn("Specials CSV not found, skipping", logger.Fields{
					"path": cfg.Inputs.SpecialsCSV,
				})
			}

			logger.Info("Pipeline complete", logger.Fields{
				"metrics": logger.MetricsSnapshot(),
			})

			return nil
		},
	}
}

func newExportICSCmd() *cobra.Command {
	var flagState string
	var flagOutput string

	cmd := &cobra.Command{
		Use:   "export-ics",
		Short: "Export a state's election dates as an iCalendar file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			return runExportICS(store, flagState, flagOutput)
		},
	}

	cmd.Flags().StringVar(&flagState, "state", "", "State code (e.g., MI) (required)")
	cmd.Flags().StringVar(&flagOutput, "output", "", "Output file (default: stdout)")
	cmd.MarkFlagRequired("state")

	return cmd
}

func runExportICS(store *dataset.Store, state, output string) error {
	code := strings.ToUpper(strings.TrimSpace(state))

	data, err := store.LoadElectionDates()
	if err != nil {
		return err
	}

	for i := range data.States {
		if data.States[i].StateCode != code {
			continue
		}

		ics := calendar.GenerateICS(&data.States[i])
		if output == "" {
			fmt.Print(ics)
			return nil
		}
		if err := os.WriteFile(output, []byte(ics), 0644); err != nil {
			return fmt.Errorf("writing ICS file: %w", err)
		}
		return nil
	}

	return fmt.Errorf("state %q not found in election dates dataset", code)
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
