package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kurihiro0119/datasight-dora-metrics/internal/config"
	"github.com/kurihiro0119/datasight-dora-metrics/internal/datasight"
	"github.com/kurihiro0119/datasight-dora-metrics/internal/domain"
	"github.com/kurihiro0119/datasight-dora-metrics/internal/prompt"
	"github.com/kurihiro0119/datasight-dora-metrics/internal/report"
)

var (
	cfgFile       string
	fromDate      string
	toDate        string
	teambookIDs   string
	teambookLevel int
	insecure      bool
	timeoutSec    int
	assumeYes     bool
	verbose       bool

	fetchDetails bool
	outputPath   string
	jsonPath     string
	minDays      float64
)

var rootCmd = &cobra.Command{
	Use:   "dora-metrics",
	Short: "DORA metrics fetcher for the DataSight platform",
	Long: `A CLI tool that fetches the four DORA indicators (release frequency,
lead time to deploy, mean time to recovery, change failure rate) from the
DataSight metrics API and renders them as CSV/JSON reports.

Query parameters can be supplied as flags; anything missing is collected
interactively. Credentials resolve from config.json, then the environment
(DATASIGHT_BASE_URL, DATASIGHT_BEARER_TOKEN), then a prompt.`,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Fetch all DORA metrics and write the full CSV report",
	Long: `Fetch all four DORA metrics for a date range and teambook grouping and
write a sectioned CSV report, optionally with per-aggregation-key detail
records and a raw JSON dump.`,
	RunE: runReport,
}

var filteredCmd = &cobra.Command{
	Use:   "filtered",
	Short: "Fetch high lead-time change records and write the filtered CSV report",
	Long: `Fetch the lead-time metric, fan out to the underlying change records for
every aggregation key, and export the records that are LTTD-eligible with a
lead time strictly above the threshold.`,
	RunE: runFiltered,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.json)")
	rootCmd.PersistentFlags().StringVar(&fromDate, "from", "", "start date (YYYY-MM)")
	rootCmd.PersistentFlags().StringVar(&toDate, "to", "", "end date (YYYY-MM)")
	rootCmd.PersistentFlags().StringVar(&teambookIDs, "teambook-ids", "", "teambook IDs (comma-separated)")
	rootCmd.PersistentFlags().IntVar(&teambookLevel, "teambook-level", 0, "teambook level (1-5)")
	rootCmd.PersistentFlags().BoolVar(&insecure, "insecure-skip-verify", false, "skip TLS certificate verification (internal endpoints only)")
	rootCmd.PersistentFlags().IntVar(&timeoutSec, "timeout", 0, "request timeout in seconds (default 30)")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	reportCmd.Flags().BoolVar(&fetchDetails, "details", false, "fetch detailed records using aggregation keys")
	reportCmd.Flags().StringVar(&outputPath, "output", "", "output CSV path (auto-generated if empty)")
	reportCmd.Flags().StringVar(&jsonPath, "json-output", "", "also save the raw report bundle as JSON")

	filteredCmd.Flags().Float64Var(&minDays, "min-days", 0, fmt.Sprintf("minimum LTTD days threshold (default %d)", domain.DefaultMinDays))
	filteredCmd.Flags().StringVar(&outputPath, "output", "", "output CSV path (auto-generated if empty)")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(filteredCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newClient resolves configuration (file, then environment, then prompt) and
// builds the API client. Missing credentials abort before any network call.
func newClient(cmd *cobra.Command) (*datasight.Client, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("insecure-skip-verify") {
		cfg.InsecureSkipVerify = insecure
	}
	if timeoutSec > 0 {
		cfg.Timeout = time.Duration(timeoutSec) * time.Second
	}

	if err := prompt.Credentials(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.InsecureSkipVerify {
		color.Yellow("Warning: TLS certificate verification is disabled")
	}

	return datasight.New(cfg.BaseURL, cfg.BearerToken, datasight.Options{
		Timeout:            cfg.Timeout,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		Logger:             newLogger(),
	}), nil
}

func baseRunConfig(reportType domain.ReportType) *domain.RunConfig {
	return &domain.RunConfig{
		From:          fromDate,
		To:            toDate,
		TeambookIDs:   teambookIDs,
		TeambookLevel: teambookLevel,
		ReportType:    reportType,
		FetchDetails:  fetchDetails,
		MinDays:       minDays,
		OutputPath:    outputPath,
		JSONPath:      jsonPath,
	}
}

// interactive reports whether any required query parameter is missing and the
// run therefore needs the prompt flow.
func interactive(rc *domain.RunConfig) bool {
	return rc.From == "" || rc.To == "" || rc.TeambookIDs == "" || rc.TeambookLevel == 0
}

func printSummary(rc *domain.RunConfig) {
	fmt.Println("\nSummary of Parameters")

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Parameter", "Value"})
	if rc.ReportType == domain.ReportFiltered {
		table.Append([]string{"Report Type", "Filtered LTTD Records"})
	} else {
		table.Append([]string{"Report Type", "Full DORA Metrics"})
	}
	table.Append([]string{"Period", rc.From + " to " + rc.To})
	table.Append([]string{"Teambook IDs", rc.TeambookIDs})
	table.Append([]string{"Teambook Level", fmt.Sprintf("%d", rc.TeambookLevel)})
	if rc.ReportType == domain.ReportFiltered {
		table.Append([]string{"LTTD Threshold", fmt.Sprintf("> %g days", rc.MinDays)})
		table.Append([]string{"Filter", "lttd_eligible = true"})
	} else {
		table.Append([]string{"Fetch Details", fmt.Sprintf("%t", rc.FetchDetails)})
	}
	table.Append([]string{"Output CSV", rc.OutputPath})
	if rc.JSONPath != "" {
		table.Append([]string{"Output JSON", rc.JSONPath})
	}
	table.Render()
}

func printResults(bundle domain.ReportBundle) {
	fmt.Println("\nFetch Results")

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Status", "Records"})
	for _, kind := range domain.AllMetricKinds() {
		res := bundle.Metrics[kind]
		if res.OK() {
			table.Append([]string{kind.DisplayName(), string(res.Status), fmt.Sprintf("%d", int(res.Data.Number("count")))})
		} else {
			table.Append([]string{kind.DisplayName(), string(res.Status), ""})
		}
	}
	table.Render()
}

func confirmRun(rc *domain.RunConfig) (bool, error) {
	printSummary(rc)
	if assumeYes {
		return true, nil
	}
	ok, err := prompt.Confirm()
	if err != nil {
		return false, err
	}
	if !ok {
		fmt.Println("Operation cancelled.")
	}
	return ok, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	rc := baseRunConfig(domain.ReportFull)

	ask := interactive(rc)
	err := prompt.Fill(rc, prompt.FillOptions{
		AskDetails: ask && !cmd.Flags().Changed("details"),
		AskOutput:  ask && rc.OutputPath == "",
		AskJSON:    ask && rc.JSONPath == "",
	})
	if err != nil {
		return err
	}
	if rc.OutputPath == "" {
		rc.OutputPath = domain.DefaultOutputPath(rc.ReportType, time.Now())
	}
	if err := rc.Validate(); err != nil {
		return err
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	ok, err := confirmRun(rc)
	if err != nil || !ok {
		return err
	}

	fmt.Printf("\nFetching DORA Metrics from DataSight (%s to %s)...\n", rc.From, rc.To)

	bundle := client.FetchAll(cmd.Context(), query(rc), datasight.FetchAllOptions{
		FetchDetails: rc.FetchDetails,
		OnMetric: func(kind domain.MetricKind, res domain.MetricResult) {
			if res.OK() {
				color.Green("  ✓ %s: %d records", res.Metric, int(res.Data.Number("count")))
			} else {
				color.Red("  ✗ %s: %s", res.Metric, res.Error)
			}
		},
		OnDetail: func(aggKey string, res domain.DetailResult) {
			if res.OK() {
				fmt.Printf("  Fetched details for aggKey: %s\n", aggKey)
			} else {
				color.Red("  ✗ details for aggKey %s: %s", aggKey, res.Error)
			}
		},
	})

	printResults(bundle)

	if err := report.SaveFull(rc.OutputPath, bundle); err != nil {
		return fmt.Errorf("failed to write CSV report: %w", err)
	}
	color.Green("\nCSV report generated: %s", rc.OutputPath)

	if rc.JSONPath != "" {
		if err := report.SaveJSON(rc.JSONPath, bundle); err != nil {
			return fmt.Errorf("failed to write JSON dump: %w", err)
		}
		color.Green("JSON data saved: %s", rc.JSONPath)
	}
	return nil
}

func runFiltered(cmd *cobra.Command, args []string) error {
	rc := baseRunConfig(domain.ReportFiltered)

	ask := interactive(rc)
	err := prompt.Fill(rc, prompt.FillOptions{
		AskMinDays: ask && !cmd.Flags().Changed("min-days"),
		AskOutput:  ask && rc.OutputPath == "",
	})
	if err != nil {
		return err
	}
	if rc.MinDays == 0 {
		rc.MinDays = domain.DefaultMinDays
	}
	if rc.OutputPath == "" {
		rc.OutputPath = domain.DefaultOutputPath(rc.ReportType, time.Now())
	}
	if err := rc.Validate(); err != nil {
		return err
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	ok, err := confirmRun(rc)
	if err != nil || !ok {
		return err
	}

	fmt.Printf("\nFetching LTTD records where lttd_eligible=true and LTTD > %g days...\n", rc.MinDays)

	records := client.FetchFilteredRecords(cmd.Context(), query(rc), datasight.FilteredFetchOptions{
		MinDays: rc.MinDays,
		OnAggKey: func(aggKey string) {
			fmt.Printf("  Processing aggKey: %s\n", aggKey)
		},
		OnMatch: func(id string, days float64) {
			color.Green("    ✓ Matched: ID=%s, LTTD=%g days", id, days)
		},
	})
	fmt.Printf("  Found %d records matching criteria\n", len(records))

	err = report.SaveFiltered(rc.OutputPath, records, rc.MinDays)
	if errors.Is(err, report.ErrNoRecords) {
		color.Yellow("No records to export")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to write CSV report: %w", err)
	}

	color.Green("\nFiltered LTTD CSV report generated: %s", rc.OutputPath)
	fmt.Printf("Total records exported: %d\n", len(records))
	return nil
}

func query(rc *domain.RunConfig) datasight.Query {
	return datasight.Query{
		From:          rc.From,
		To:            rc.To,
		TeambookIDs:   rc.TeambookIDs,
		TeambookLevel: rc.TeambookLevel,
	}
}
