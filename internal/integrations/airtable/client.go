// Package airtable talks to the Airtable REST API for the Members and
// Applications tables.
package airtable

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"ecohubs/internal/integrations"
	"ecohubs/pkg/platform/sentinel"
)

const (
	integrationName = "airtable"
	defaultBaseURL  = "https://api.airtable.com/v0"

	// RequestsPerSecond is Airtable's documented per-base limit.
	RequestsPerSecond = 5
)

type Config struct {
	APIKey            string
	BaseID            string
	ApplicationsTable string
	MembersTable      string
	// BaseURL overrides the public API endpoint.
	BaseURL string
}

type Client struct {
	http         integrations.Doer
	apiKey       string
	baseURL      string
	applications string
	members      string
	limiter      *rate.Limiter
}

type Option func(*Client)

// WithLimiter replaces the default 5 req/s pacing.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

func New(cfg Config, doer integrations.Doer, opts ...Option) (*Client, error) {
	if cfg.APIKey == "" || cfg.BaseID == "" {
		return nil, sentinel.ErrNotConfigured
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	c := &Client{
		http:         doer,
		apiKey:       cfg.APIKey,
		baseURL:      base + "/" + url.PathEscape(cfg.BaseID),
		applications: orDefault(cfg.ApplicationsTable, "Applications"),
		members:      orDefault(cfg.MembersTable, "Members"),
		limiter:      rate.NewLimiter(rate.Limit(RequestsPerSecond), RequestsPerSecond),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Record is a raw Airtable row.
type Record struct {
	ID          string         `json:"id,omitempty"`
	Fields      map[string]any `json:"fields"`
	CreatedTime string         `json:"createdTime,omitempty"`
}

// SortField orders list results.
type SortField struct {
	Field     string
	Direction string
}

// ListQuery narrows a List call.
type ListQuery struct {
	Formula    string
	MaxRecords int
	Sort       []SortField
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

type recordsEnvelope struct {
	Records  []Record `json:"records"`
	Typecast bool     `json:"typecast,omitempty"`
}

// List returns every record matching q, following pagination offsets.
func (c *Client) List(ctx context.Context, table string, q ListQuery) ([]Record, error) {
	var all []Record
	offset := ""
	for {
		params := url.Values{}
		if q.Formula != "" {
			params.Set("filterByFormula", q.Formula)
		}
		if q.MaxRecords > 0 {
			params.Set("maxRecords", fmt.Sprint(q.MaxRecords))
		}
		for i, s := range q.Sort {
			params.Set(fmt.Sprintf("sort[%d][field]", i), s.Field)
			params.Set(fmt.Sprintf("sort[%d][direction]", i), s.Direction)
		}
		if offset != "" {
			params.Set("offset", offset)
		}

		var page listResponse
		if err := c.do(ctx, http.MethodGet, c.tableURL(table)+"?"+params.Encode(), nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Records...)
		if page.Offset == "" || (q.MaxRecords > 0 && len(all) >= q.MaxRecords) {
			return all, nil
		}
		offset = page.Offset
	}
}

// Get fetches one record by id.
func (c *Client) Get(ctx context.Context, table, id string) (*Record, error) {
	var rec Record
	if err := c.do(ctx, http.MethodGet, c.tableURL(table)+"/"+url.PathEscape(id), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create inserts one record and returns it with its assigned id.
func (c *Client) Create(ctx context.Context, table string, fields map[string]any) (*Record, error) {
	var out recordsEnvelope
	body := recordsEnvelope{Records: []Record{{Fields: fields}}, Typecast: true}
	if err := c.do(ctx, http.MethodPost, c.tableURL(table), body, &out); err != nil {
		return nil, err
	}
	if len(out.Records) == 0 {
		return nil, integrations.NewError(integrations.CategoryBadData, integrationName, "no record was created", nil)
	}
	return &out.Records[0], nil
}

// Update patches fields on one record.
func (c *Client) Update(ctx context.Context, table, id string, fields map[string]any) error {
	body := recordsEnvelope{Records: []Record{{ID: id, Fields: fields}}}
	return c.do(ctx, http.MethodPatch, c.tableURL(table), body, nil)
}

func (c *Client) do(ctx context.Context, method, target string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return integrations.TransportError(integrationName, err)
	}
	return integrations.DoJSON(ctx, c.http, integrationName, integrations.Request{
		Method: method,
		URL:    target,
		Header: http.Header{"Authorization": {"Bearer " + c.apiKey}},
		Body:   body,
	}, out)
}

func (c *Client) tableURL(table string) string {
	return c.baseURL + "/" + url.PathEscape(table)
}

// quote renders s as an Airtable formula string literal.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
