package lapis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/seqportal/pkg/filter"
)

func TestSecureHttpClientRedirects(t *testing.T) {
	client := SecureHttpClient(10 * time.Second)
	assert.Equal(t, 10*time.Second, client.Timeout)
	assert.NotNil(t, client.Transport)

	secure := &http.Request{URL: &url.URL{Scheme: "https", Host: "lapis.example", Path: "/"}}
	insecure := &http.Request{URL: &url.URL{Scheme: "http", Host: "redirect.example", Path: "/x"}}

	err := client.CheckRedirect(insecure, []*http.Request{secure})
	var dre *DowngradedRedirectError
	require.ErrorAs(t, err, &dre)
	assert.Equal(t, "redirect.example/x", dre.Endpoint)

	assert.NoError(t, client.CheckRedirect(secure, []*http.Request{insecure}))
	assert.NoError(t, client.CheckRedirect(insecure, []*http.Request{insecure}))
}

func TestAggregated(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ebola/sample/aggregated", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"data":[{"count":42}],"info":{"dataVersion":"1"}}`))
	}))
	defer srv.Close()

	c := NewClient(5 * time.Second)
	n, err := c.Aggregated(context.Background(), srv.URL+"/ebola/", filter.ApiParams{
		"versionStatus": "LATEST_VERSION",
		"accession":     []string{"A", "B"},
	})
	require.NoError(t, err)
	assert.Equal(t, 42, n)
	assert.Equal(t, "LATEST_VERSION", got["versionStatus"])
	assert.Equal(t, []any{"A", "B"}, got["accession"])
}

func TestDetails(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sample/details", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"data":[{"accessionVersion":"A.1","length":18950},{"accessionVersion":"B.2","length":null}]}`))
	}))
	defer srv.Close()

	c := NewClient(5 * time.Second)
	rows, err := c.Details(context.Background(), srv.URL, filter.ApiParams{"host": "cow"}, DetailsRequest{
		Fields:  []string{"accessionVersion", "length"},
		OrderBy: []OrderBy{{Field: "length", Type: Descending}},
		Limit:   2,
		Offset:  10,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A.1", rows[0]["accessionVersion"])
	assert.Equal(t, json.Number("18950"), rows[0]["length"])
	assert.Nil(t, rows[1]["length"])

	assert.Equal(t, "cow", got["host"])
	assert.Equal(t, float64(2), got["limit"])
	assert.Equal(t, float64(10), got["offset"])
	assert.Equal(t, []any{map[string]any{"field": "length", "type": "descending"}}, got["orderBy"])
}

func TestResponseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"detail":"unknown field"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := NewClient(5*time.Second).Aggregated(context.Background(), srv.URL, filter.ApiParams{"bogus": "x"})
	var re *ResponseError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusBadRequest, re.Status)
	assert.Contains(t, re.Body, "unknown field")
}

func TestUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := NewClient(time.Second).Aggregated(context.Background(), addr, nil)
	var ue *UnavailableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, addr+"/sample/aggregated", ue.Endpoint)
}
