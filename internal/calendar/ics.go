// Package calendar renders validated election dates as iCalendar files.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/election-dates/internal/validate"
)

// GenerateICS generates an iCalendar (.ics) document containing a state's
// next primary and general election as all-day events.
func GenerateICS(record *validate.StateRecord) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//Election Dates//election-dates//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	writeEvent(&ics, record, "primary", record.NextPrimary)
	writeEvent(&ics, record, "general", record.NextGeneral)

	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

func writeEvent(ics *strings.Builder, record *validate.StateRecord, kind string, info validate.ElectionInfo) {
	date, err := time.Parse("2006-01-02", info.Date)
	if err != nil {
		return
	}

	ics.WriteString("BEGIN:VEVENT\r\n")

	fmt.Fprintf(ics, "UID:%s-%s-%s@election-dates\r\n",
		strings.ToLower(record.StateCode), kind, info.Date)
	fmt.Fprintf(ics, "DTSTAMP:%s\r\n", time.Now().UTC().Format("20060102T150405Z"))

	// All-day event: DTEND is the exclusive next day per RFC 5545.
	fmt.Fprintf(ics, "DTSTART;VALUE=DATE:%s\r\n", date.Format("20060102"))
	fmt.Fprintf(ics, "DTEND;VALUE=DATE:%s\r\n", date.AddDate(0, 0, 1).Format("20060102"))

	var label string
	switch kind {
	case "primary":
		label = "Primary Election"
	default:
		label = "General Election"
	}

	summary := fmt.Sprintf("%s %s", record.StateName, label)
	fmt.Fprintf(ics, "SUMMARY:%s\r\n", escapeICS(summary))

	description := fmt.Sprintf("%s\nStatute: %s", info.DateRule, info.StatuteReference)
	fmt.Fprintf(ics, "DESCRIPTION:%s\r\n", escapeICS(description))

	if len(record.Sources) > 0 && record.Sources[0].URL != "" {
		fmt.Fprintf(ics, "URL:%s\r\n", record.Sources[0].URL)
	}

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:TRANSPARENT\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// escapeICS escapes special characters according to RFC 5545.
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
