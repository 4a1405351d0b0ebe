// Package zapier posts JSON payloads to a Zapier catch hook.
package zapier

import (
	"context"
	"net/http"

	"ecohubs/internal/integrations"
	"ecohubs/pkg/platform/sentinel"
)

const integrationName = "zapier"

type Webhook struct {
	http integrations.Doer
	url  string
}

func New(url string, doer integrations.Doer) (*Webhook, error) {
	if url == "" {
		return nil, sentinel.ErrNotConfigured
	}
	return &Webhook{http: doer, url: url}, nil
}

// Post sends payload. Any non-2xx answer is an error.
func (w *Webhook) Post(ctx context.Context, payload any) error {
	return integrations.DoJSON(ctx, w.http, integrationName, integrations.Request{
		Method: http.MethodPost,
		URL:    w.url,
		Body:   payload,
	}, nil)
}

// ContactPayload is the contact-form fallback body.
type ContactPayload struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
}

// NewsletterPayload is the newsletter fallback body.
type NewsletterPayload struct {
	Email     string `json:"email"`
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
}
