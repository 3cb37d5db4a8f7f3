package domain

// MetricKind identifies one of the four DORA indicators.
type MetricKind string

const (
	MetricReleaseFrequency MetricKind = "release_frequency"
	MetricLeadTime         MetricKind = "lttd"
	MetricMTTR             MetricKind = "mttr"
	MetricCFR              MetricKind = "cfr"
)

// AllMetricKinds returns the four kinds in report order.
func AllMetricKinds() []MetricKind {
	return []MetricKind{MetricReleaseFrequency, MetricLeadTime, MetricMTTR, MetricCFR}
}

// DisplayName returns the human-readable metric name used in results and
// report section headers.
func (k MetricKind) DisplayName() string {
	switch k {
	case MetricReleaseFrequency:
		return "Release Frequency"
	case MetricLeadTime:
		return "Lead Time to Deploy (LTTD)"
	case MetricMTTR:
		return "Mean Time to Recovery (MTTR)"
	case MetricCFR:
		return "Change Failure Rate (CFR)"
	}
	return string(k)
}

// Status marks a fetch outcome.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// MetricResult is the outcome of one metric fetch. A failed fetch is not an
// error value; it is a result with Status = error, a message and nil Data, so
// renderers can treat all four metrics uniformly.
type MetricResult struct {
	Metric string  `json:"metric"`
	Status Status  `json:"status"`
	Data   *Record `json:"data"`
	Error  string  `json:"error,omitempty"`
}

// OK reports whether the fetch succeeded and carried a payload.
func (m MetricResult) OK() bool {
	return m.Status == StatusSuccess && m.Data != nil
}

// DetailResult is the outcome of one records-endpoint fetch for a single
// aggregation key.
type DetailResult struct {
	Status Status  `json:"status"`
	Data   *Record `json:"data"`
	Error  string  `json:"error,omitempty"`
}

// OK reports whether the fetch succeeded and carried a payload.
func (d DetailResult) OK() bool {
	return d.Status == StatusSuccess && d.Data != nil
}

// Parameters records the query inputs of a run for the report header.
type Parameters struct {
	RunID         string `json:"run_id"`
	FromDate      string `json:"from_date"`
	ToDate        string `json:"to_date"`
	TeambookIDs   string `json:"teambook_ids"`
	TeambookLevel int    `json:"teambook_level"`
	Timestamp     string `json:"timestamp"`
}

// ReportBundle is everything one invocation fetched: the parameters, one
// result per metric and, when detail fetching was requested, one records
// result per aggregation key. It is built once, rendered and discarded.
type ReportBundle struct {
	Parameters Parameters                  `json:"parameters"`
	Metrics    map[MetricKind]MetricResult `json:"metrics"`
	Details    map[string]DetailResult     `json:"detailed_records,omitempty"`
}
