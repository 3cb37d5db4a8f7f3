package datasight

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/datasight-dora-metrics/internal/domain"
)

func testQuery() Query {
	return Query{From: "2025-09", To: "2025-10", TeambookIDs: "5449", TeambookLevel: 2}
}

func TestFetchMetricPathsAndDisplayNames(t *testing.T) {
	tests := []struct {
		kind domain.MetricKind
		path string
		name string
	}{
		{domain.MetricReleaseFrequency, "/releases/metric/release-frequency/teambook/metric", "Release Frequency"},
		{domain.MetricLeadTime, "/releases/metric/lttd/teambook/metric", "Lead Time to Deploy (LTTD)"},
		{domain.MetricMTTR, "/incident/metric/mttr/by-service/teambook/metric", "Mean Time to Recovery (MTTR)"},
		{domain.MetricCFR, "/releases/metric/cfr/teambook/metric", "Change Failure Rate (CFR)"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			var gotPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.Write([]byte(`{"count":2,"data":[{"yearMonth":"2025-09"}]}`))
			}))
			defer server.Close()

			c := New(server.URL, "token", Options{})
			res := c.FetchMetric(context.Background(), tt.kind, testQuery())

			assert.Equal(t, tt.path, gotPath)
			assert.Equal(t, tt.name, res.Metric)
			assert.Equal(t, domain.StatusSuccess, res.Status)
			require.NotNil(t, res.Data)
			assert.Equal(t, 2.0, res.Data.Number("count"))
			assert.Empty(t, res.Error)
		})
	}
}

func TestFetchMetricErrorIsTaggedNotReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	c := New(server.URL, "token", Options{})
	res := c.FetchMetric(context.Background(), domain.MetricCFR, testQuery())

	assert.Equal(t, domain.StatusError, res.Status)
	assert.Nil(t, res.Data)
	assert.NotEmpty(t, res.Error)
	assert.Contains(t, res.Error, "502")
}

func TestFetchAllBuildsBundle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case pathLeadTime:
			w.Write([]byte(`{"count":1,"data":[{"yearMonth":"2025-09","aggKey":"K1"}]}`))
		case pathLeadTimeRecords:
			fmt.Fprintf(w, `{"count":1,"data":[{"id":"CR1","aggKey":%q}]}`, r.URL.Query().Get("aggKey"))
		default:
			w.Write([]byte(`{"count":0,"data":[]}`))
		}
	}))
	defer server.Close()

	c := New(server.URL, "token", Options{})

	var metricCalls, detailCalls int
	bundle := c.FetchAll(context.Background(), testQuery(), FetchAllOptions{
		FetchDetails: true,
		OnMetric:     func(domain.MetricKind, domain.MetricResult) { metricCalls++ },
		OnDetail:     func(string, domain.DetailResult) { detailCalls++ },
	})

	assert.Equal(t, 4, metricCalls)
	assert.Equal(t, 1, detailCalls)
	assert.Len(t, bundle.Metrics, 4)

	require.Contains(t, bundle.Details, "K1")
	det := bundle.Details["K1"]
	require.True(t, det.OK())
	records := det.Data.Records("data")
	require.Len(t, records, 1)
	assert.Equal(t, "CR1", records[0].String("id"))

	p := bundle.Parameters
	assert.Equal(t, "2025-09", p.FromDate)
	assert.Equal(t, "2025-10", p.ToDate)
	assert.Equal(t, "5449", p.TeambookIDs)
	assert.Equal(t, 2, p.TeambookLevel)
	assert.NotEmpty(t, p.RunID)
	assert.NotEmpty(t, p.Timestamp)
}

func TestFetchAllSkipsDetailsWhenLeadTimeFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == pathLeadTime {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"count":0,"data":[]}`))
	}))
	defer server.Close()

	c := New(server.URL, "token", Options{})
	bundle := c.FetchAll(context.Background(), testQuery(), FetchAllOptions{FetchDetails: true})

	assert.Equal(t, domain.StatusError, bundle.Metrics[domain.MetricLeadTime].Status)
	assert.Empty(t, bundle.Details)
}
