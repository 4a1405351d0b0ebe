// Package listmonk subscribes addresses to a Listmonk mailing list.
package listmonk

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"ecohubs/internal/integrations"
	"ecohubs/pkg/email"
	"ecohubs/pkg/platform/sentinel"
)

const integrationName = "listmonk"

type Config struct {
	URL      string
	Username string
	Password string
	ListID   int
}

type Client struct {
	http   integrations.Doer
	url    string
	auth   string
	listID int
}

func New(cfg Config, doer integrations.Doer) (*Client, error) {
	if cfg.URL == "" || cfg.Username == "" {
		return nil, sentinel.ErrNotConfigured
	}
	listID := cfg.ListID
	if listID <= 0 {
		listID = 1
	}
	return &Client{
		http:   doer,
		url:    strings.TrimRight(cfg.URL, "/"),
		auth:   "Basic " + base64.StdEncoding.EncodeToString([]byte(cfg.Username+":"+cfg.Password)),
		listID: listID,
	}, nil
}

type subscriberRequest struct {
	Email                   string `json:"email"`
	Name                    string `json:"name"`
	Status                  string `json:"status"`
	PreconfirmSubscriptions bool   `json:"preconfirm_subscriptions"`
	Lists                   []int  `json:"lists"`
}

// Subscribe creates an enabled subscriber on the configured list. Double
// opt-in stays on, so Listmonk sends the confirmation mail.
func (c *Client) Subscribe(ctx context.Context, address string) error {
	return integrations.DoJSON(ctx, c.http, integrationName, integrations.Request{
		Method: http.MethodPost,
		URL:    c.url + "/api/subscribers",
		Header: http.Header{"Authorization": {c.auth}},
		Body: subscriberRequest{
			Email:  address,
			Name:   email.LocalPart(address),
			Status: "enabled",
			Lists:  []int{c.listID},
		},
	}, nil)
}

// Rejected reports whether err came from Listmonk answering with an error
// status, as opposed to Listmonk being unreachable.
func Rejected(err error) bool {
	ie, ok := integrations.AsError(err)
	return ok && ie.StatusCode != 0
}
