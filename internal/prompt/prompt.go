// Package prompt collects run parameters interactively. It is a collaborator
// of the fetch/report core: everything it produces lands in a resolved
// RunConfig, and the core never prompts on its own.
package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/kurihiro0119/datasight-dora-metrics/internal/config"
	"github.com/kurihiro0119/datasight-dora-metrics/internal/domain"
)

// Credentials prompts for any API credential the config file and environment
// did not supply.
func Credentials(cfg *config.Config) error {
	var fields []huh.Field

	if cfg.BaseURL == "" {
		fields = append(fields, huh.NewInput().
			Title("DataSight API base URL").
			Placeholder("https://datasight.example.com").
			Validate(required("base URL")).
			Value(&cfg.BaseURL))
	}
	if cfg.BearerToken == "" {
		fields = append(fields, huh.NewInput().
			Title("Bearer token").
			EchoMode(huh.EchoModePassword).
			Validate(required("bearer token")).
			Value(&cfg.BearerToken))
	}

	if len(fields) == 0 {
		return nil
	}
	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return err
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.BearerToken = strings.TrimSpace(cfg.BearerToken)
	return nil
}

// FillOptions selects which optional parameters Fill should ask for. Query
// parameters are always asked when missing; report options only make sense
// for their report type and only in interactive runs.
type FillOptions struct {
	AskDetails bool
	AskMinDays bool
	AskOutput  bool
	AskJSON    bool
}

// Fill prompts for every run parameter rc does not already carry and
// validates the answers (dates must be YYYY-MM, the teambook level 1-5).
func Fill(rc *domain.RunConfig, opts FillOptions) error {
	var fields []huh.Field

	if rc.From == "" {
		fields = append(fields, huh.NewInput().
			Title("Start date (YYYY-MM)").
			Placeholder("2025-09").
			Validate(yearMonth).
			Value(&rc.From))
	}
	if rc.To == "" {
		fields = append(fields, huh.NewInput().
			Title("End date (YYYY-MM)").
			Placeholder("2025-10").
			Validate(yearMonth).
			Value(&rc.To))
	}
	if rc.TeambookIDs == "" {
		fields = append(fields, huh.NewInput().
			Title("Teambook IDs (comma-separated)").
			Placeholder("5449 or 5449,5450").
			Validate(required("teambook IDs")).
			Value(&rc.TeambookIDs))
	}

	var level string
	if rc.TeambookLevel == 0 {
		fields = append(fields, huh.NewInput().
			Title("Teambook level (1-5)").
			Validate(teambookLevel).
			Value(&level))
	}

	if opts.AskDetails {
		fields = append(fields, huh.NewConfirm().
			Title("Fetch detailed records using aggregation keys?").
			Value(&rc.FetchDetails))
	}

	var minDays string
	if opts.AskMinDays && rc.MinDays == 0 {
		fields = append(fields, huh.NewInput().
			Title(fmt.Sprintf("Minimum LTTD days threshold (default: %d)", domain.DefaultMinDays)).
			Validate(optionalNumber).
			Value(&minDays))
	}

	if opts.AskOutput && rc.OutputPath == "" {
		fields = append(fields, huh.NewInput().
			Title("Output CSV file path (blank for auto-generated name)").
			Value(&rc.OutputPath))
	}
	if opts.AskJSON && rc.JSONPath == "" {
		fields = append(fields, huh.NewInput().
			Title("Also save raw JSON data? Enter a filename or leave blank").
			Value(&rc.JSONPath))
	}

	if len(fields) > 0 {
		if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
			return err
		}
	}

	if level != "" {
		n, err := strconv.Atoi(strings.TrimSpace(level))
		if err != nil {
			return fmt.Errorf("teambook level: %w", err)
		}
		rc.TeambookLevel = n
	}
	if minDays != "" {
		n, err := strconv.ParseFloat(strings.TrimSpace(minDays), 64)
		if err != nil {
			return fmt.Errorf("minimum days: %w", err)
		}
		rc.MinDays = n
	}
	if rc.ReportType == domain.ReportFiltered && rc.MinDays == 0 {
		rc.MinDays = domain.DefaultMinDays
	}

	rc.From = strings.TrimSpace(rc.From)
	rc.To = strings.TrimSpace(rc.To)
	rc.TeambookIDs = strings.TrimSpace(rc.TeambookIDs)
	rc.OutputPath = strings.TrimSpace(rc.OutputPath)
	rc.JSONPath = strings.TrimSpace(rc.JSONPath)
	return nil
}

// Confirm shows the final y/n gate before any network call.
func Confirm() (bool, error) {
	proceed := true
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title("Proceed with fetching?").Value(&proceed),
	)).Run()
	return proceed, err
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func yearMonth(s string) error {
	if !domain.ValidYearMonth(strings.TrimSpace(s)) {
		return fmt.Errorf("enter a date as YYYY-MM")
	}
	return nil
}

func teambookLevel(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 5 {
		return fmt.Errorf("enter a number between 1 and 5")
	}
	return nil
}

func optionalNumber(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("enter a number")
	}
	return nil
}
