package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/kurihiro0119/datasight-dora-metrics/internal/domain"
)

// ErrNoRecords is returned when the filtered sequence is empty; no file is
// written in that case.
var ErrNoRecords = errors.New("no records to export")

// filteredColumns is the fixed column set of the filtered lead-time report.
// Field names follow the upstream records verbatim, quirks included: the
// upstream diff URL field is source_code_diff_URL, while the derived one
// appended by enrichment is lowercase.
var filteredColumns = []column{
	{"ID", "id"},
	{"Month", "month"},
	{"Year", "year"},
	{"Assignment Group", "assignment_group"},
	{"Change Type", "change_type"},
	{"Change Sub Type", "change_sub_type"},
	{"Category", "category"},
	{"Close Code", "close_code"},
	{"Sub Close Code", "sub_close_code"},
	{"Business Impact", "business_impact"},
	{"L1 Business Unit", "l1_business_unit"},
	{"L2 Business Unit", "l2_business_unit"},
	{"L3 Business Unit", "l3_business_unit"},
	{"L4 Business Unit", "l4_business_unit"},
	{"L5 Business Unit", "l5_business_unit"},
	{"L6 Business Unit", "l6_business_unit"},
	{"Start Date", "start_date"},
	{"End Date", "end_date"},
	{"Closed At", "closed_at"},
	{"State", "state"},
	{"Requested By", "requested_by"},
	{"Requested By Employee ID", "requested_by_employee_id"},
	{"Business Service", "business_service"},
	{"Short Description", "short_description"},
	{"SN URL", "sn_url"},
	{"With LTTD", "with_lttd"},
	{"CR Processing Hurdle", "cr_processing_hurdle"},
	{"Lead Time to Deploy Days", "lead_time_to_deploy_days"},
	{"Lead Time to Deploy Numeric Days", "lead_time_to_deploy_numeric_days"},
	{"LTTD Eligible", "lttd_eligible"},
	{"LTTD Eligibility Exclusion Reason", "lttd_eligibility_exclusion_reason"},
	{"CR First Commit URL", "cr_first_commit_url"},
	{"CR First Commit Time", "cr_first_commit_time"},
	{"Source Code Diff URL", "source_code_diff_URL"},
	{"Accessible", "accessible"},
	{"Associated Diff Types", "associated_diff_types"},
	{"Diff URL Call Successful", "diff_url_call_successful"},
	{"ICE CR Link", "ice_cr_link"},
	{"Code Successfully in Production Type", "code_successfully_in_production_type"},
	{"Actual End Date Time", "actual_end_date_time"},
	{"Repo Fetch Attempted On", "repo_fetch_attempted_on"},
	{"Repo Link", "repo_link"},
	{"Request Type", "request_type"},
	{"Commits URL Call", "commits_url_call"},
	{"Version", "version"},
	{"Requestor Country", "requestor_country"},
	{"Commits URL (Generated)", "commits_url"},
	{"Source Code Diff URL (Generated)", "source_code_diff_url"},
}

// WriteFiltered writes the filtered lead-time report as CSV. Returns
// ErrNoRecords when records is empty.
func WriteFiltered(w io.Writer, records []*domain.Record, minDays float64) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	cw := csv.NewWriter(w)

	title := fmt.Sprintf("HIGH LTTD RECORDS REPORT - LTTD > %s Days (Eligible Only)",
		strconv.FormatFloat(minDays, 'f', -1, 64))
	cw.Write([]string{title})
	cw.Write([]string{"Generated:", time.Now().Format(time.RFC3339)})
	cw.Write([]string{"Total Records:", strconv.Itoa(len(records))})
	cw.Write([]string{})

	headers := make([]string, len(filteredColumns))
	for i, c := range filteredColumns {
		headers[i] = c.header
	}
	cw.Write(headers)

	row := make([]string, len(filteredColumns))
	for _, rec := range records {
		for i, c := range filteredColumns {
			row[i] = rec.String(c.field)
		}
		cw.Write(row)
	}

	cw.Flush()
	return cw.Error()
}

// SaveFiltered writes the filtered report to a CSV file at path. When there
// are no records it returns ErrNoRecords without creating the file.
func SaveFiltered(path string, records []*domain.Record, minDays float64) error {
	if len(records) == 0 {
		return ErrNoRecords
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteFiltered(f, records, minDays); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
