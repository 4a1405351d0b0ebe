// Package snapshot reads proposals from the Snapshot governance hub GraphQL
// API. Proposal creation needs a wallet signature and is not offered here.
package snapshot

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"ecohubs/internal/integrations"
	"ecohubs/pkg/platform/sentinel"
)

const (
	integrationName = "snapshot"
	DefaultHubURL   = "https://hub.snapshot.org/graphql"

	// DraftTitlePrefix starts every blog publication proposal title.
	DraftTitlePrefix = "Publish Blog Article: "
)

// Proposal states reported by the admin area.
const (
	StatusNone   = "none"
	StatusActive = "active"
	StatusClosed = "closed"
)

type Client struct {
	http   integrations.Doer
	hubURL string
	space  string
	now    func() time.Time
}

type Option func(*Client)

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// New returns a client scoped to space. An empty space disables the
// integration.
func New(space, hubURL string, doer integrations.Doer, opts ...Option) (*Client, error) {
	if space == "" {
		return nil, sentinel.ErrNotConfigured
	}
	if hubURL == "" {
		hubURL = DefaultHubURL
	}
	c := &Client{http: doer, hubURL: hubURL, space: space, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Space() string {
	return c.space
}

// ProposalURL links to the proposal on snapshot.org.
func (c *Client) ProposalURL(id string) string {
	return "https://snapshot.org/#/" + c.space + "/proposal/" + id
}

// Proposal is the subset of proposal fields the admin area needs. Scores are
// positional, aligned with Choices.
type Proposal struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	State   string    `json:"state"`
	End     int64     `json:"end"`
	Scores  []float64 `json:"scores"`
	Choices []string  `json:"choices"`
}

// Status is active while the hub says so and the end time has not passed.
func (p *Proposal) Status(now time.Time) string {
	if p.State == StatusActive && p.End > now.Unix() {
		return StatusActive
	}
	return StatusClosed
}

// Score returns the votes for a choice, looked up by name first and by
// position second.
func (p *Proposal) Score(choice string, index int) float64 {
	for i, c := range p.Choices {
		if strings.EqualFold(c, choice) && i < len(p.Scores) {
			return p.Scores[i]
		}
	}
	if index >= 0 && index < len(p.Scores) {
		return p.Scores[index]
	}
	return 0
}

// Approved reports whether a closed proposal's Publish choice beat both
// Reject and Needs Revision.
func (p *Proposal) Approved(now time.Time) bool {
	if p.Status(now) != StatusClosed {
		return false
	}
	publish := p.Score("Publish", 0)
	return publish > p.Score("Reject", 1) && publish > p.Score("Needs Revision", 2)
}

const proposalQuery = `query GetProposal($id: String!) {
  proposal(id: $id) { id title state end scores choices }
}`

const draftProposalQuery = `query GetProposals($space: String!, $title: String!) {
  proposals(first: 5, where: {space: $space, title_contains: $title}, orderBy: "created", orderDirection: desc) { id title }
}`

// Proposal fetches one proposal. A missing proposal is sentinel.ErrNotFound.
func (c *Client) Proposal(ctx context.Context, id string) (*Proposal, error) {
	var data struct {
		Proposal *Proposal `json:"proposal"`
	}
	if err := c.query(ctx, proposalQuery, map[string]any{"id": id}, &data); err != nil {
		return nil, err
	}
	if data.Proposal == nil {
		return nil, sentinel.ErrNotFound
	}
	return data.Proposal, nil
}

// FindDraftProposal returns the newest proposal titled
// "Publish Blog Article: {title}", or "" when there is none.
func (c *Client) FindDraftProposal(ctx context.Context, title string) (string, error) {
	var data struct {
		Proposals []Proposal `json:"proposals"`
	}
	if err := c.query(ctx, draftProposalQuery, map[string]any{"space": c.space, "title": title}, &data); err != nil {
		return "", err
	}
	want := DraftTitlePrefix + title
	for _, p := range data.Proposals {
		if strings.Contains(p.Title, want) {
			return p.ID, nil
		}
	}
	return "", nil
}

// Now is the clock used for proposal status.
func (c *Client) Now() time.Time {
	return c.now()
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

func (c *Client) query(ctx context.Context, query string, vars map[string]any, out any) error {
	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError   `json:"errors"`
	}
	err := integrations.DoJSON(ctx, c.http, integrationName, integrations.Request{
		Method: http.MethodPost,
		URL:    c.hubURL,
		Body:   graphQLRequest{Query: query, Variables: vars},
	}, &envelope)
	if err != nil {
		return err
	}
	if len(envelope.Errors) > 0 {
		return integrations.NewError(integrations.CategoryValidation, integrationName, envelope.Errors[0].Message, nil)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return integrations.NewError(integrations.CategoryBadData, integrationName, "decode data", err)
	}
	return nil
}
