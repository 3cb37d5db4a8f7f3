package datasight

import (
	"context"
	"net/url"
	"strconv"

	"github.com/kurihiro0119/datasight-dora-metrics/internal/domain"
)

// detailPageSize is how many records the filtered fetch requests per
// aggregation key. One page; the fan-out does not paginate further.
const detailPageSize = 100

// FetchRecordsPage fetches one page of the change records behind an
// aggregation key. Like the metric fetchers it reports failure through the
// result, never as an error.
func (c *Client) FetchRecordsPage(ctx context.Context, aggKey string, page, size int) domain.DetailResult {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 50
	}

	params := url.Values{}
	params.Set("aggKey", aggKey)
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))

	data, err := c.Get(ctx, pathLeadTimeRecords, params)
	if err != nil {
		return domain.DetailResult{Status: domain.StatusError, Error: err.Error()}
	}
	return domain.DetailResult{Status: domain.StatusSuccess, Data: data}
}

// FilteredFetchOptions configures FetchFilteredRecords.
type FilteredFetchOptions struct {
	// MinDays is the strict lead-time threshold; records with exactly
	// MinDays are excluded.
	MinDays float64

	OnAggKey func(aggKey string)
	OnMatch  func(id string, days float64)
}

// FetchFilteredRecords fetches the lead-time metric, then for every returned
// aggregation key fetches up to 100 underlying change records and keeps the
// ones that are LTTD-eligible with a lead time strictly above MinDays. Each
// kept record is enriched with derived commit/diff URLs.
//
// Lead time is read from lead_time_to_deploy_numeric_days, falling back to
// lead_time_to_deploy_days when the first is absent. Non-numeric values
// coerce to 0 rather than failing; a positive threshold then excludes the
// record. Downstream consumers rely on this lenient behavior.
func (c *Client) FetchFilteredRecords(ctx context.Context, q Query, opts FilteredFetchOptions) []*domain.Record {
	metric := c.FetchMetric(ctx, domain.MetricLeadTime, q)
	if !metric.OK() {
		c.logger.Warn("lead-time metric fetch failed", "error", metric.Error)
		return nil
	}

	var filtered []*domain.Record
	for _, metricRec := range metric.Data.Records("data") {
		aggKey := metricRec.String("aggKey")
		if aggKey == "" {
			continue
		}
		if opts.OnAggKey != nil {
			opts.OnAggKey(aggKey)
		}

		details := c.FetchRecordsPage(ctx, aggKey, 1, detailPageSize)
		if !details.OK() {
			continue
		}

		for _, rec := range details.Data.Records("data") {
			days := leadTimeDays(rec)
			if !rec.Bool("lttd_eligible") || days <= opts.MinDays {
				continue
			}
			filtered = append(filtered, Enrich(rec))
			if opts.OnMatch != nil {
				id := rec.String("id")
				if id == "" {
					id = "N/A"
				}
				opts.OnMatch(id, days)
			}
		}
	}

	return filtered
}

// leadTimeDays extracts a record's lead time in days. The fallback field is
// only consulted when the primary one is absent or null.
func leadTimeDays(rec *domain.Record) float64 {
	v, ok := rec.Get("lead_time_to_deploy_numeric_days")
	if !ok || v == nil {
		v, ok = rec.Get("lead_time_to_deploy_days")
	}
	if !ok || v == nil {
		return 0
	}
	return domain.CoerceFloat(v)
}
