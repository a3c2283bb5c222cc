// Package tools exposes the query engine under the fixed tool-call
// contract. Each tool takes a JSON argument object and returns a single
// JSON text payload; domain failures (unknown state, bad dates) render as
// structured {"error": ...} payloads rather than transport errors.
package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pfrederiksen/election-dates/internal/query"
)

// Tool describes one callable tool and its argument schema.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Registry dispatches tool calls to the query engine.
type Registry struct {
	engine *query.Engine
}

// New creates a Registry over the given engine.
func New(engine *query.Engine) *Registry {
	return &Registry{engine: engine}
}

func stateCodeSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"state_code": map[string]interface{}{
				"type":        "string",
				"description": "Two-letter state code (e.g., 'MI', 'CA', 'TX')",
			},
		},
		"required": []string{"state_code"},
	}
}

func emptySchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func dateRangeSchema(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"start_date": map[string]interface{}{
			"type":        "string",
			"description": "Start date in YYYY-MM-DD format",
		},
		"end_date": map[string]interface{}{
			"type":        "string",
			"description": "End date in YYYY-MM-DD format",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   []string{"start_date", "end_date"},
	}
}

// List enumerates every available tool with its argument schema.
func (r *Registry) List() []Tool {
	return []Tool{
		{
			Name:        "get_next_election",
			Description: "Get the next primary and general election dates for a specific state",
			InputSchema: stateCodeSchema(),
		},
		{
			Name:        "get_elections_by_date_range",
			Description: "Get all elections within a date range",
			InputSchema: dateRangeSchema(nil),
		},
		{
			Name:        "get_all_upcoming_elections",
			Description: "Get all upcoming elections across all states, sorted by date",
			InputSchema: emptySchema(),
		},
		{
			Name:        "get_election_sources",
			Description: "Get detailed source citations for a state's election dates",
			InputSchema: stateCodeSchema(),
		},
		{
			Name:        "get_special_elections_by_state",
			Description: "Get all special elections for a specific state",
			InputSchema: stateCodeSchema(),
		},
		{
			Name:        "get_upcoming_special_elections",
			Description: "Get all upcoming special elections within a specified number of days",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"days_ahead": map[string]interface{}{
						"type":        "integer",
						"description": "Number of days to look ahead (default: 90)",
					},
				},
				"required": []string{},
			},
		},
		{
			Name:        "get_election_with_specials",
			Description: "Get regular elections AND special elections combined for a specific state",
			InputSchema: stateCodeSchema(),
		},
		{
			Name:        "get_all_elections_by_date_range",
			Description: "Get all regular and special elections within a date range",
			InputSchema: dateRangeSchema(map[string]interface{}{
				"include_specials": map[string]interface{}{
					"type":        "boolean",
					"description": "Include special elections (default: true)",
				},
			}),
		},
		{
			Name:        "get_special_elections_metadata",
			Description: "Get metadata about the special elections dataset",
			InputSchema: emptySchema(),
		},
		{
			Name:        "get_eavs_data_for_state",
			Description: "Get EAVS election administration statistics for a specific state (registered voters, turnout, mail voting, polling places, poll workers, provisional ballots)",
			InputSchema: stateCodeSchema(),
		},
		{
			Name:        "get_state_eavs_comparison",
			Description: "Compare EAVS election administration statistics between multiple states",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"state_codes": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "List of two-letter state codes to compare (e.g., ['MI', 'CA', 'TX'])",
					},
				},
				"required": []string{"state_codes"},
			},
		},
		{
			Name:        "get_national_eavs_summary",
			Description: "Get national summary of EAVS data across all states (total registered voters, ballots cast, mail voting statistics)",
			InputSchema: emptySchema(),
		},
	}
}

// Call dispatches a tool invocation and returns the JSON response payload.
// Domain failures are rendered into the payload; only infrastructure
// problems (unreadable datasets, unencodable results) return an error.
func (r *Registry) Call(name string, args map[string]interface{}) (string, error) {
	result, err := r.dispatch(name, args)
	if err != nil {
		if isDomainError(err) {
			return marshal(map[string]string{"error": err.Error()})
		}
		return "", err
	}

	return marshal(result)
}

func (r *Registry) dispatch(name string, args map[string]interface{}) (interface{}, error) {
	switch name {
	case "get_next_election":
		return r.engine.NextElection(stringArg(args, "state_code"))

	case "get_elections_by_date_range":
		return r.engine.ElectionsByDateRange(stringArg(args, "start_date"), stringArg(args, "end_date"))

	case "get_all_upcoming_elections":
		return r.engine.AllUpcomingElections()

	case "get_election_sources":
		return r.engine.ElectionSources(stringArg(args, "state_code"))

	case "get_special_elections_by_state":
		return r.engine.SpecialElectionsByState(stringArg(args, "state_code"))

	case "get_upcoming_special_elections":
		return r.engine.UpcomingSpecialElections(intArg(args, "days_ahead", query.DefaultDaysAhead))

	case "get_election_with_specials":
		return r.engine.ElectionWithSpecials(stringArg(args, "state_code"))

	case "get_all_elections_by_date_range":
		return r.engine.AllElectionsByDateRange(
			stringArg(args, "start_date"),
			stringArg(args, "end_date"),
			boolArg(args, "include_specials", true))

	case "get_special_elections_metadata":
		return r.engine.SpecialElectionsMetadata()

	case "get_eavs_data_for_state":
		return r.engine.EAVSForState(stringArg(args, "state_code"))

	case "get_state_eavs_comparison":
		return r.engine.EAVSComparison(stringSliceArg(args, "state_codes"))

	case "get_national_eavs_summary":
		return r.engine.NationalEAVSSummary()

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
}

// ErrUnknownTool signals a call to a tool name outside the contract.
var ErrUnknownTool = errors.New("unknown tool")

func isDomainError(err error) bool {
	return errors.Is(err, query.ErrStateNotFound) ||
		errors.Is(err, query.ErrInvalidDate) ||
		errors.Is(err, query.ErrNoEAVSData) ||
		errors.Is(err, ErrUnknownTool)
}

func marshal(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding tool response: %w", err)
	}
	return string(data), nil
}

// Argument extraction helpers. JSON numbers arrive as float64.

func stringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func intArg(args map[string]interface{}, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}

func boolArg(args map[string]interface{}, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

func stringSliceArg(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
