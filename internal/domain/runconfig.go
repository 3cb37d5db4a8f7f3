package domain

import (
	"fmt"
	"regexp"
	"time"
)

// ReportType selects which report a run produces.
type ReportType string

const (
	ReportFull     ReportType = "full"
	ReportFiltered ReportType = "filtered"
)

// DefaultMinDays is the default lead-time threshold for the filtered report.
const DefaultMinDays = 15

var yearMonthRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidYearMonth reports whether s is a YYYY-MM date.
func ValidYearMonth(s string) bool {
	return yearMonthRe.MatchString(s)
}

// RunConfig is the fully resolved set of inputs for one invocation, produced
// by flags, config and the interactive prompt flow. The fetch/report core
// consumes it and never talks to the user directly.
type RunConfig struct {
	From          string
	To            string
	TeambookIDs   string
	TeambookLevel int

	ReportType   ReportType
	FetchDetails bool    // full report: fetch per-aggKey detail records
	MinDays      float64 // filtered report: strict lead-time threshold

	OutputPath string // CSV destination; empty means auto-generated
	JSONPath   string // optional raw JSON dump, full report only
}

// Validate checks the query parameters before any network call.
func (c *RunConfig) Validate() error {
	if !ValidYearMonth(c.From) {
		return fmt.Errorf("from date %q must be YYYY-MM", c.From)
	}
	if !ValidYearMonth(c.To) {
		return fmt.Errorf("to date %q must be YYYY-MM", c.To)
	}
	if c.TeambookIDs == "" {
		return fmt.Errorf("teambook ids are required")
	}
	if c.TeambookLevel < 1 || c.TeambookLevel > 5 {
		return fmt.Errorf("teambook level %d must be between 1 and 5", c.TeambookLevel)
	}
	if c.ReportType != ReportFull && c.ReportType != ReportFiltered {
		return fmt.Errorf("unknown report type %q", c.ReportType)
	}
	return nil
}

// DefaultOutputPath returns the auto-generated CSV file name for a report
// type, e.g. dora_report_20250102_150405.csv.
func DefaultOutputPath(t ReportType, now time.Time) string {
	ts := now.Format("20060102_150405")
	if t == ReportFiltered {
		return fmt.Sprintf("lttd_filtered_report_%s.csv", ts)
	}
	return fmt.Sprintf("dora_report_%s.csv", ts)
}
