package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name     string
		minLevel Level
		level    Level
		want     bool
	}{
		{name: "info at info threshold", minLevel: LevelInfo, level: LevelInfo, want: true},
		{name: "debug below info threshold", minLevel: LevelInfo, level: LevelDebug, want: false},
		{name: "error above info threshold", minLevel: LevelInfo, level: LevelError, want: true},
		{name: "debug at debug threshold", minLevel: LevelDebug, level: LevelDebug, want: true},
		{name: "warn below error threshold", minLevel: LevelError, level: LevelWarn, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(tt.minLevel, &buf)

			l.log(tt.level, "test message", nil, nil)

			if logged := buf.Len() > 0; logged != tt.want {
				t.Errorf("logged = %v, want %v", logged, tt.want)
			}
		})
	}
}

func TestLoggerOutputFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Error("something failed", Fields{"state": "MI"}, errors.New("boom"))

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v (%s)", err, buf.String())
	}

	if entry.Level != "ERROR" {
		t.Errorf("level = %s, want ERROR", entry.Level)
	}
	if entry.Message != "something failed" {
		t.Errorf("message = %s", entry.Message)
	}
	if entry.Fields["state"] != "MI" {
		t.Errorf("fields = %v", entry.Fields)
	}
	if entry.Error != "boom" {
		t.Errorf("error = %s, want boom", entry.Error)
	}
	if entry.Timestamp == "" {
		t.Error("timestamp missing")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{in: "debug", want: LevelDebug},
		{in: "info", want: LevelInfo},
		{in: "warn", want: LevelWarn},
		{in: "error", want: LevelError},
		{in: "", want: LevelInfo},
		{in: "bogus", want: LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.IncrCounter("rows")
	m.IncrCounter("rows")
	m.AddCounter("rows", 3)
	m.IncrCounter("states")

	snapshot := m.Snapshot()
	counters := snapshot["counters"].(map[string]int64)

	if counters["rows"] != 5 {
		t.Errorf("rows = %d, want 5", counters["rows"])
	}
	if counters["states"] != 1 {
		t.Errorf("states = %d, want 1", counters["states"])
	}
}

func TestMetricsTimings(t *testing.T) {
	m := NewMetrics()

	m.RecordTiming("fetch", 100*time.Millisecond)
	m.RecordTiming("fetch", 300*time.Millisecond)

	snapshot := m.Snapshot()
	timings := snapshot["timings"].(map[string]map[string]interface{})

	fetch, ok := timings["fetch"]
	if !ok {
		t.Fatal("fetch timing missing from snapshot")
	}
	if fetch["count"] != 2 {
		t.Errorf("count = %v, want 2", fetch["count"])
	}
	if fetch["average"] != "200ms" {
		t.Errorf("average = %v, want 200ms", fetch["average"])
	}
	if fetch["min"] != "100ms" || fetch["max"] != "300ms" {
		t.Errorf("min/max = %v/%v", fetch["min"], fetch["max"])
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	m := NewMetrics()
	m.IncrCounter("rows")

	snapshot := m.Snapshot()
	snapshot["counters"].(map[string]int64)["rows"] = 99

	if got := m.Snapshot()["counters"].(map[string]int64)["rows"]; got != 1 {
		t.Errorf("counter = %d, want 1 (snapshot mutation leaked)", got)
	}
}
