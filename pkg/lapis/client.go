// Client for the LAPIS sample endpoints an organism's filter is evaluated
// against.

package lapis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/StalkR/hsts"
	"go.uber.org/zap"

	"github.com/yumyai/seqportal/logger"
	"github.com/yumyai/seqportal/pkg/filter"
)

const (
	aggregatedPath = "/sample/aggregated"
	detailsPath    = "/sample/details"
	maxErrorBody   = 4096
	maxRedirects   = 10
)

// SecureHttpClient sets a timeout, enables HSTS and refuses redirects that
// downgrade to plain HTTP.
func SecureHttpClient(timeout time.Duration) http.Client {
	client := http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > 0 && via[0].URL.Scheme == "https" && req.URL.Scheme == "http" {
				return &DowngradedRedirectError{
					Endpoint: fmt.Sprintf("%s%s", req.URL.Host, req.URL.Path),
				}
			}
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
	client.Transport = hsts.New(client.Transport)
	return client
}

type Client struct {
	http http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{http: SecureHttpClient(timeout)}
}

type OrderDirection string

const (
	Ascending  OrderDirection = "ascending"
	Descending OrderDirection = "descending"
)

type OrderBy struct {
	Field string         `json:"field"`
	Type  OrderDirection `json:"type"`
}

// DetailsRequest pages through /sample/details.
type DetailsRequest struct {
	Fields  []string
	OrderBy []OrderBy
	Limit   int
	Offset  int
}

type response struct {
	Data json.RawMessage `json:"data"`
}

// Aggregated returns the number of entries matching params.
func (c *Client) Aggregated(ctx context.Context, lapisURL string, params filter.ApiParams) (int, error) {
	var rows []struct {
		Count int `json:"count"`
	}
	if err := c.post(ctx, lapisURL, aggregatedPath, body(params), &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Count, nil
}

// Details returns one page of matching entries. Numbers are kept as
// json.Number.
func (c *Client) Details(ctx context.Context, lapisURL string, params filter.ApiParams, req DetailsRequest) ([]map[string]any, error) {
	b := body(params)
	if len(req.Fields) > 0 {
		b["fields"] = req.Fields
	}
	if len(req.OrderBy) > 0 {
		b["orderBy"] = req.OrderBy
	}
	if req.Limit > 0 {
		b["limit"] = req.Limit
	}
	if req.Offset > 0 {
		b["offset"] = req.Offset
	}

	var rows []map[string]any
	if err := c.post(ctx, lapisURL, detailsPath, b, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func body(params filter.ApiParams) map[string]any {
	out := make(map[string]any, len(params)+4)
	for k, v := range params {
		out[k] = v
	}
	return out
}

func (c *Client) post(ctx context.Context, lapisURL, path string, payload map[string]any, out any) error {
	endpoint := strings.TrimSuffix(lapisURL, "/") + path

	buf, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding LAPIS request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("building LAPIS request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		var downgrade *DowngradedRedirectError
		if errors.As(err, &downgrade) {
			return downgrade
		}
		return &UnavailableError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	logger.Debug("LAPIS request",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &ResponseError{Endpoint: endpoint, Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	var r response
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&r); err != nil {
		return fmt.Errorf("decoding LAPIS response from %s: %w", endpoint, err)
	}
	if len(r.Data) == 0 {
		return nil
	}
	dataDec := json.NewDecoder(bytes.NewReader(r.Data))
	dataDec.UseNumber()
	if err := dataDec.Decode(out); err != nil {
		return fmt.Errorf("decoding LAPIS data from %s: %w", endpoint, err)
	}
	return nil
}
