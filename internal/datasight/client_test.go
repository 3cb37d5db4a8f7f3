package datasight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/kurihiro0119/datasight-dora-metrics/internal/errors"
)

func TestClientGetSetsHeadersAndParams(t *testing.T) {
	var gotAuth, gotContentType, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"count":1,"data":[]}`))
	}))
	defer server.Close()

	c := New(server.URL, "secret-token", Options{})
	q := Query{From: "2025-09", To: "2025-10", TeambookIDs: "5449", TeambookLevel: 2}
	rec, err := c.Get(context.Background(), pathLeadTime, q.values())
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Contains(t, gotQuery, "from=2025-09")
	assert.Contains(t, gotQuery, "to=2025-10")
	assert.Contains(t, gotQuery, "teambookIds=5449")
	assert.Contains(t, gotQuery, "teambookLevel=2")
	assert.Contains(t, gotQuery, "page=1")
	assert.Contains(t, gotQuery, "size=50")
	assert.Equal(t, 1.0, rec.Number("count"))
}

func TestClientGetNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL, "token", Options{})
	rec, err := c.Get(context.Background(), pathCFR, nil)
	assert.Nil(t, rec)
	require.Error(t, err)
	assert.True(t, apierrors.IsTransport(err))

	var te *apierrors.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	assert.Contains(t, te.Message, "internal error")
}

func TestClientGetConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	c := New(server.URL, "token", Options{})
	_, err := c.Get(context.Background(), pathMTTR, nil)
	require.Error(t, err)
	assert.True(t, apierrors.IsTransport(err))
}

func TestClientGetUndecodableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	c := New(server.URL, "token", Options{})
	_, err := c.Get(context.Background(), pathReleaseFrequency, nil)
	require.Error(t, err)

	var te *apierrors.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, apierrors.ErrCodeDecode, te.Code)
}
