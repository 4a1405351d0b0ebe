// Package upstream forwards applications to the ecohubsOS member API.
package upstream

import (
	"context"
	"net/http"
	"strings"
	"time"

	"ecohubs/internal/integrations"
	"ecohubs/pkg/platform/sentinel"
)

const integrationName = "ecohubsos"

type Client struct {
	http   integrations.Doer
	url    string
	apiKey string
}

func New(url, apiKey string, doer integrations.Doer) (*Client, error) {
	if url == "" || apiKey == "" {
		return nil, sentinel.ErrNotConfigured
	}
	return &Client{http: doer, url: strings.TrimRight(url, "/"), apiKey: apiKey}, nil
}

// SubmitApplication posts the answers plus submittedAt. The returned
// *integrations.Error keeps the upstream status and message so callers can
// relay them.
func (c *Client) SubmitApplication(ctx context.Context, answers map[string]any, submittedAt time.Time) error {
	body := make(map[string]any, len(answers)+1)
	for k, v := range answers {
		body[k] = v
	}
	body["submittedAt"] = submittedAt.UTC().Format(time.RFC3339Nano)

	return integrations.DoJSON(ctx, c.http, integrationName, integrations.Request{
		Method: http.MethodPost,
		URL:    c.url + "/api/applications",
		Header: http.Header{"x-api-key": {c.apiKey}},
		Body:   body,
	}, nil)
}
