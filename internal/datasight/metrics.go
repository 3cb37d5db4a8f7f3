package datasight

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kurihiro0119/datasight-dora-metrics/internal/domain"
)

// Query carries the parameters shared by all four metric endpoints.
type Query struct {
	From          string // YYYY-MM
	To            string // YYYY-MM
	TeambookIDs   string // comma-separated
	TeambookLevel int    // 1-5
	Page          int    // defaults to 1
	Size          int    // defaults to 50
}

func (q Query) values() url.Values {
	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.Size
	if size < 1 {
		size = 50
	}
	params := url.Values{}
	params.Set("from", q.From)
	params.Set("to", q.To)
	params.Set("teambookIds", q.TeambookIDs)
	params.Set("teambookLevel", strconv.Itoa(q.TeambookLevel))
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))
	return params
}

func metricPath(kind domain.MetricKind) string {
	switch kind {
	case domain.MetricReleaseFrequency:
		return pathReleaseFrequency
	case domain.MetricLeadTime:
		return pathLeadTime
	case domain.MetricMTTR:
		return pathMTTR
	case domain.MetricCFR:
		return pathCFR
	}
	return ""
}

// FetchMetric fetches one DORA metric. It always returns a result: a failed
// request is reported through Status and Error, never as a Go error, so the
// renderer can treat all four metrics identically.
func (c *Client) FetchMetric(ctx context.Context, kind domain.MetricKind, q Query) domain.MetricResult {
	res := domain.MetricResult{Metric: kind.DisplayName()}

	data, err := c.Get(ctx, metricPath(kind), q.values())
	if err != nil {
		res.Status = domain.StatusError
		res.Error = err.Error()
		return res
	}

	res.Status = domain.StatusSuccess
	res.Data = data
	return res
}

// FetchAllOptions configures FetchAll. The callbacks let the CLI print
// progress without the fetch core knowing about the console.
type FetchAllOptions struct {
	// FetchDetails fetches the underlying records for every aggregation key
	// the lead-time metric returned.
	FetchDetails bool

	OnMetric func(kind domain.MetricKind, res domain.MetricResult)
	OnDetail func(aggKey string, res domain.DetailResult)
}

// FetchAll fetches all four metrics sequentially and, when requested, the
// per-aggregation-key detail records. Individual failures degrade their own
// section of the bundle; nothing here aborts the run.
func (c *Client) FetchAll(ctx context.Context, q Query, opts FetchAllOptions) domain.ReportBundle {
	bundle := domain.ReportBundle{
		Parameters: domain.Parameters{
			RunID:         uuid.NewString(),
			FromDate:      q.From,
			ToDate:        q.To,
			TeambookIDs:   q.TeambookIDs,
			TeambookLevel: q.TeambookLevel,
			Timestamp:     time.Now().Format(time.RFC3339),
		},
		Metrics: make(map[domain.MetricKind]domain.MetricResult, 4),
	}

	for _, kind := range domain.AllMetricKinds() {
		res := c.FetchMetric(ctx, kind, q)
		bundle.Metrics[kind] = res
		if opts.OnMetric != nil {
			opts.OnMetric(kind, res)
		}
	}

	if !opts.FetchDetails {
		return bundle
	}

	bundle.Details = make(map[string]domain.DetailResult)
	lttd := bundle.Metrics[domain.MetricLeadTime]
	if !lttd.OK() {
		return bundle
	}

	for _, rec := range lttd.Data.Records("data") {
		aggKey := rec.String("aggKey")
		if aggKey == "" {
			continue
		}
		res := c.FetchRecordsPage(ctx, aggKey, 1, 50)
		bundle.Details[aggKey] = res
		if opts.OnDetail != nil {
			opts.OnDetail(aggKey, res)
		}
	}

	return bundle
}
