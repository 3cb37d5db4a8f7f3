// Package report renders a fetched ReportBundle into CSV and JSON files. The
// renderers are pure: they read the in-memory bundle and never touch the
// network.
package report

import (
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/kurihiro0119/datasight-dora-metrics/internal/domain"
)

// column binds a CSV header to the upstream field it reads.
type column struct {
	header string
	field  string
}

var metricColumns = map[domain.MetricKind][]column{
	domain.MetricReleaseFrequency: {
		{"Year-Month", "yearMonth"},
		{"Releases", "releases"},
		{"Software Releases %", "percent_software_releases"},
		{"PDPTPPY (Calendar)", "pdptppy_calendar_days"},
		{"PDPTPPY (Headcount)", "pdptppy_full_headcount_basis"},
		{"Head Count", "head_count"},
		{"IT Head Count", "it_head_count"},
		{"Pods Count", "pods_count"},
		{"L1 Teambook", "l1_teambook"},
		{"L2 Teambook", "l2_teambook"},
		{"L3 Teambook", "l3_teambook"},
	},
	domain.MetricLeadTime: {
		{"Year-Month", "yearMonth"},
		{"LTTD (days)", "lttd"},
		{"Highest LTTD", "highest_lttd"},
		{"CRs with LTTD", "crs_with_lttd"},
		{"Eligible CRs", "eligible_crs"},
		{"CRs with LTTD %", "percent_crs_with_lttd"},
		{"Pods with CRs", "pods_with_crs"},
		{"Pods with LTTD", "pods_with_lttd"},
		{"Pods with LTTD < Week", "pods_with_lttd_less_than_week"},
		{"Pods with LTTD < Week %", "percent_pods_with_lttd_less_than_week"},
		{"L1 Teambook", "l1_teambook"},
		{"L2 Teambook", "l2_teambook"},
		{"L3 Teambook", "l3_teambook"},
		{"Agg Key", "aggKey"},
	},
	domain.MetricMTTR: {
		{"Year-Month", "yearMonth"},
		{"MTTR (hours)", "mttr"},
		{"MTTR CHM (hours)", "mttr_chm"},
		{"Incidents Count", "incidents_count"},
		{"Incidents Count CHM", "incidents_count_chm"},
		{"Non-Incidents %", "non_incidents_percent"},
		{"L1 Teambook", "l1_teambook"},
		{"L2 Teambook", "l2_teambook"},
		{"L3 Teambook", "l3_teambook"},
		{"Agg Key", "aggKey"},
	},
	domain.MetricCFR: {
		{"Year-Month", "yearMonth"},
		{"Change Failure Rate %", "change_failure_rate"},
		{"Change Causing Incident %", "percent_change_causing_incident"},
		{"Change with Business Impact %", "percent_change_with_business_impact"},
		{"Releases", "releases"},
		{"Change Failed", "change_failed"},
		{"Change Causing Incident", "change_causing_incident"},
		{"Change with Business Impact", "change_with_business_impact"},
		{"Pods Count", "num_of_pods_current_month"},
		{"Pod IT HC", "pod_it_hc_current_month"},
		{"L1 Teambook", "l1_teambook"},
		{"L2 Teambook", "l2_teambook"},
		{"L3 Teambook", "l3_teambook"},
		{"Agg Key", "aggKey"},
	},
}

func sectionTitle(kind domain.MetricKind) string {
	bar := strings.Repeat("=", 20)
	return bar + " " + strings.ToUpper(kind.DisplayName()) + " " + bar
}

// WriteFull writes the full DORA report as CSV: a header block with the run
// parameters, one fixed-column section per metric, and the per-aggregation-key
// detailed sections when the bundle carries them. A metric whose fetch failed
// renders as a single error line instead of a data table.
func WriteFull(w io.Writer, bundle domain.ReportBundle) error {
	cw := csv.NewWriter(w)

	p := bundle.Parameters
	cw.Write([]string{"DORA METRICS REPORT"})
	cw.Write([]string{"Generated:", p.Timestamp})
	cw.Write([]string{"Period:", p.FromDate + " to " + p.ToDate})
	cw.Write([]string{"Teambook IDs:", p.TeambookIDs})
	cw.Write([]string{"Teambook Level:", strconv.Itoa(p.TeambookLevel)})
	cw.Write([]string{})

	for _, kind := range domain.AllMetricKinds() {
		writeMetricSection(cw, kind, bundle.Metrics[kind])
	}

	if len(bundle.Details) > 0 {
		writeDetailSections(cw, bundle.Details)
	}

	cw.Flush()
	return cw.Error()
}

func writeMetricSection(cw *csv.Writer, kind domain.MetricKind, res domain.MetricResult) {
	cw.Write([]string{sectionTitle(kind)})
	cw.Write([]string{})

	if !res.OK() {
		msg := res.Error
		if msg == "" {
			msg = "No data"
		}
		cw.Write([]string{"Error:", msg})
		cw.Write([]string{})
		return
	}

	records := res.Data.Records("data")
	if len(records) > 0 {
		cols := metricColumns[kind]
		headers := make([]string, len(cols))
		for i, c := range cols {
			headers[i] = c.header
		}
		cw.Write(headers)

		row := make([]string, len(cols))
		for _, rec := range records {
			for i, c := range cols {
				row[i] = rec.String(c.field)
			}
			cw.Write(row)
		}
	}
	cw.Write([]string{})
}

// writeDetailSections renders the detailed records per aggregation key. The
// records are schema-less, so each section's columns come from the key order
// of its first record.
func writeDetailSections(cw *csv.Writer, details map[string]domain.DetailResult) {
	bar := strings.Repeat("=", 20)
	cw.Write([]string{bar + " DETAILED LTTD RECORDS " + bar})
	cw.Write([]string{})

	aggKeys := make([]string, 0, len(details))
	for k := range details {
		aggKeys = append(aggKeys, k)
	}
	sort.Strings(aggKeys)

	for _, aggKey := range aggKeys {
		cw.Write([]string{"Aggregation Key: " + aggKey})

		res := details[aggKey]
		if res.OK() {
			records := res.Data.Records("data")
			if len(records) > 0 {
				headers := records[0].Keys()
				cw.Write(headers)
				row := make([]string, len(headers))
				for _, rec := range records {
					for i, h := range headers {
						row[i] = rec.String(h)
					}
					cw.Write(row)
				}
			}
		}
		cw.Write([]string{})
	}
}

// SaveFull writes the full report to a CSV file at path.
func SaveFull(path string, bundle domain.ReportBundle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteFull(f, bundle); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
