package datasight

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kurihiro0119/datasight-dora-metrics/internal/domain"
	apierrors "github.com/kurihiro0119/datasight-dora-metrics/internal/errors"
)

// Metric endpoint paths, relative to the base URL.
const (
	pathReleaseFrequency = "/releases/metric/release-frequency/teambook/metric"
	pathLeadTime         = "/releases/metric/lttd/teambook/metric"
	pathMTTR             = "/incident/metric/mttr/by-service/teambook/metric"
	pathCFR              = "/releases/metric/cfr/teambook/metric"
	pathLeadTimeRecords  = "/releases/metric/lttd/teambook/records"
)

const defaultTimeout = 30 * time.Second

// Options configures a Client.
type Options struct {
	// Timeout bounds each request. Zero means the 30s default; an
	// unresponsive upstream must not hang the process.
	Timeout time.Duration

	// InsecureSkipVerify disables TLS certificate verification for the
	// internal DataSight endpoint. Explicit opt-in only.
	InsecureSkipVerify bool

	// HTTPClient overrides the constructed client, for tests.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Client issues authenticated GET requests against the DataSight API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a DataSight API client.
func New(baseURL, token string, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
		if opts.InsecureSkipVerify {
			httpClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			}
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Get issues one synchronous GET against path with the given query
// parameters and returns the parsed JSON body. Any transport failure,
// non-2xx status or undecodable body comes back as a *TransportError.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (*domain.Record, error) {
	op := "GET " + path

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, apierrors.NewTransportError(op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("datasight request", "path", path, "params", params.Encode())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewTransportError(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.NewTransportError(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("datasight error response", "path", path, "status", resp.StatusCode)
		return nil, apierrors.NewHTTPStatusError(op, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	rec := domain.NewRecord()
	if err := json.Unmarshal(body, rec); err != nil {
		return nil, apierrors.NewDecodeError(op, err)
	}
	return rec, nil
}
