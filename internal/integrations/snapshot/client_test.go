package snapshot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecohubs/internal/integrations"
	"ecohubs/pkg/platform/sentinel"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, now time.Time) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New("ecohubs.eth", srv.URL, srv.Client(), WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	return c
}

func TestProposalDecodesFields(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "0xprop", req.Variables["id"])
		_, _ = w.Write([]byte(`{"data":{"proposal":{"id":"0xprop","title":"Publish Blog Article: Soil","state":"closed","end":1690000000,"scores":[10,2,1],"choices":["Publish","Reject","Needs Revision"]}}}`))
	}, now)

	p, err := c.Proposal(context.Background(), "0xprop")
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, p.Status(now))
	assert.True(t, p.Approved(now))
	assert.Equal(t, "https://snapshot.org/#/ecohubs.eth/proposal/0xprop", c.ProposalURL("0xprop"))
}

func TestProposalMissingIsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"proposal":null}}`))
	}, time.Now())

	_, err := c.Proposal(context.Background(), "0xnope")
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestGraphQLErrorsAreReturned(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"invalid id"}]}`))
	}, time.Now())

	_, err := c.Proposal(context.Background(), "bad")
	require.Error(t, err)
	ie, ok := integrations.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "invalid id", ie.Message)
}

func TestFindDraftProposalMatchesTitlePrefix(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ecohubs.eth", req.Variables["space"])
		assert.Equal(t, "Soil", req.Variables["title"])
		_, _ = w.Write([]byte(`{"data":{"proposals":[{"id":"0x1","title":"Discuss Soil"},{"id":"0x2","title":"Publish Blog Article: Soil"}]}}`))
	}, time.Now())

	id, err := c.FindDraftProposal(context.Background(), "Soil")
	require.NoError(t, err)
	assert.Equal(t, "0x2", id)
}

func TestFindDraftProposalNone(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"proposals":[]}}`))
	}, time.Now())

	id, err := c.FindDraftProposal(context.Background(), "Soil")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestNewRequiresSpace(t *testing.T) {
	_, err := New("", "", http.DefaultClient)
	require.ErrorIs(t, err, sentinel.ErrNotConfigured)
}

func TestProposalApproval(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	tests := []struct {
		name     string
		proposal Proposal
		approved bool
		status   string
	}{
		{
			name:     "publish wins",
			proposal: Proposal{State: "closed", Scores: []float64{5, 1, 1}, Choices: []string{"Publish", "Reject", "Needs Revision"}},
			approved: true,
			status:   StatusClosed,
		},
		{
			name:     "tie with reject is not approval",
			proposal: Proposal{State: "closed", Scores: []float64{3, 3, 0}, Choices: []string{"Publish", "Reject", "Needs Revision"}},
			status:   StatusClosed,
		},
		{
			name:     "needs revision wins",
			proposal: Proposal{State: "closed", Scores: []float64{2, 0, 4}, Choices: []string{"Publish", "Reject", "Needs Revision"}},
			status:   StatusClosed,
		},
		{
			name:     "choices in another order are looked up by name",
			proposal: Proposal{State: "closed", Scores: []float64{1, 9}, Choices: []string{"Reject", "Publish"}},
			approved: true,
			status:   StatusClosed,
		},
		{
			name:     "positional scores without choices",
			proposal: Proposal{State: "closed", Scores: []float64{4, 1, 0}},
			approved: true,
			status:   StatusClosed,
		},
		{
			name:     "still active",
			proposal: Proposal{State: "active", End: now.Add(time.Hour).Unix(), Scores: []float64{9, 0, 0}},
			status:   StatusActive,
		},
		{
			name:     "active state past end counts as closed",
			proposal: Proposal{State: "active", End: now.Add(-time.Hour).Unix(), Scores: []float64{9, 0, 0}},
			approved: true,
			status:   StatusClosed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.proposal.Status(now))
			assert.Equal(t, tt.approved, tt.proposal.Approved(now))
		})
	}
}
