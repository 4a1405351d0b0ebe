package airtable

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/time/rate"

	"ecohubs/internal/integrations"
	"ecohubs/pkg/platform/sentinel"
)

type ClientSuite struct {
	suite.Suite
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []*http.Request
	bodies   []map[string]any
	server   *httptest.Server
	client   *Client
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.handlers = map[string]http.HandlerFunc{}
	s.requests = nil
	s.bodies = nil
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r)
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		s.bodies = append(s.bodies, body)
		h, ok := s.handlers[r.Method+" "+r.URL.Path]
		s.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"type":"NOT_FOUND","message":"Could not find table"}}`))
			return
		}
		h(w, r)
	}))
	s.T().Cleanup(s.server.Close)

	client, err := New(Config{APIKey: "key", BaseID: "appBase", BaseURL: s.server.URL},
		s.server.Client(), WithLimiter(rate.NewLimiter(rate.Inf, 1)))
	s.Require().NoError(err)
	s.client = client
}

func (s *ClientSuite) handle(route string, status int, body string) {
	s.handlers[route] = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (s *ClientSuite) TestFindOrCreateMemberReturnsExisting() {
	s.handle("GET /appBase/Members", http.StatusOK, `{"records":[{"id":"recMember1","fields":{"E-Mail":"jane@example.org"}}]}`)

	id, err := s.client.FindOrCreateMember(context.Background(), Member{Name: "Jane", Email: " Jane@Example.org "})
	s.Require().NoError(err)
	s.Equal("recMember1", id)
	s.Require().Len(s.requests, 1)
	s.Equal("Bearer key", s.requests[0].Header.Get("Authorization"))
	s.Equal("LOWER({E-Mail}) = 'jane@example.org'", s.requests[0].URL.Query().Get("filterByFormula"))
	s.Equal("1", s.requests[0].URL.Query().Get("maxRecords"))
}

func (s *ClientSuite) TestFindOrCreateMemberCreatesWhenMissing() {
	s.handle("GET /appBase/Members", http.StatusOK, `{"records":[]}`)
	s.handle("POST /appBase/Members", http.StatusOK, `{"records":[{"id":"recNew","fields":{}}]}`)

	id, err := s.client.FindOrCreateMember(context.Background(), Member{Name: "Jane", Email: "jane@example.org", Location: "Lisbon"})
	s.Require().NoError(err)
	s.Equal("recNew", id)

	s.Require().Len(s.bodies, 2)
	records := s.bodies[1]["records"].([]any)
	fields := records[0].(map[string]any)["fields"].(map[string]any)
	s.Equal("Jane", fields["Member Name"])
	s.Equal("jane@example.org", fields["E-Mail"])
	s.Equal("Lisbon", fields["Location"])
}

func (s *ClientSuite) TestCreateApplicationLinksMember() {
	s.handle("POST /appBase/Applications", http.StatusOK, `{"records":[{"id":"recApp","fields":{}}]}`)

	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	id, err := s.client.CreateApplication(context.Background(), NewApplication{
		ApplicationID: "4b1c0c64-8a6f-4d7e-9a55-3b1e3c6a0f11",
		MemberID:      "recMember1",
		Answers:       map[string]any{"Motivation": "because"},
		SubmittedAt:   at,
	})
	s.Require().NoError(err)
	s.Equal("recApp", id)

	records := s.bodies[0]["records"].([]any)
	fields := records[0].(map[string]any)["fields"].(map[string]any)
	s.Equal("4b1c0c64-8a6f-4d7e-9a55-3b1e3c6a0f11", fields["Application ID"])
	s.Equal([]any{"recMember1"}, fields["Related Member"])
	s.Equal("2026-03-04T05:06:07Z", fields["Submitted At"])
	s.Equal("New", fields["Status"])
	s.Equal("because", fields["Motivation"])
}

func (s *ClientSuite) TestListApplicationsFollowsOffsetsAndJoinsMembers() {
	s.handlers["GET /appBase/Applications"] = func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(s.T(), "Submitted At", r.URL.Query().Get("sort[0][field]"))
		assert.Equal(s.T(), "desc", r.URL.Query().Get("sort[0][direction]"))
		if r.URL.Query().Get("offset") == "" {
			_, _ = w.Write([]byte(`{"records":[{"id":"rec1","fields":{"Application ID":"a1","Related Member":["recM"],"Motivation":"m","Values":["Care","Trust"]}}],"offset":"next"}`))
			return
		}
		_, _ = w.Write([]byte(`{"records":[{"id":"rec2","fields":{"Application ID":"a2","Snapshot Proposal ID":"0xabc","Status":"Reviewed"}}]}`))
	}
	s.handle("GET /appBase/Members/recM", http.StatusOK, `{"id":"recM","fields":{"Member Name":"Jane","E-Mail":"jane@example.org"}}`)

	apps, err := s.client.ListApplications(context.Background())
	s.Require().NoError(err)
	s.Require().Len(apps, 2)

	s.Equal("rec1", apps[0].RecordID)
	s.Equal("Jane", apps[0].FullName)
	s.Equal("jane@example.org", apps[0].Email)
	s.Equal("New", apps[0].Status)
	s.Equal("m", apps[0].Answers["Motivation"])
	s.Equal("Care, Trust", apps[0].Answers["Values"])
	s.NotContains(apps[0].Answers, "Related Member")

	s.Equal("Unknown", apps[1].FullName)
	s.Equal("0xabc", apps[1].ProposalID)
	s.Equal("Reviewed", apps[1].Status)
}

func (s *ClientSuite) TestUpdateProposalID() {
	s.handle("PATCH /appBase/Applications", http.StatusOK, `{"records":[{"id":"rec1","fields":{}}]}`)

	s.Require().NoError(s.client.UpdateProposalID(context.Background(), "rec1", "0xabc"))
	records := s.bodies[0]["records"].([]any)
	rec := records[0].(map[string]any)
	s.Equal("rec1", rec["id"])
	s.Equal("0xabc", rec["fields"].(map[string]any)["Snapshot Proposal ID"])
}

func (s *ClientSuite) TestUpstreamErrorsAreCategorised() {
	s.handle("GET /appBase/Members", http.StatusUnauthorized, `{"error":{"type":"AUTHENTICATION_REQUIRED","message":"Authentication required"}}`)

	_, err := s.client.FindOrCreateMember(context.Background(), Member{Email: "a@example.org"})
	s.Require().Error(err)
	s.Equal(integrations.CategoryAuthentication, integrations.GetCategory(err))

	_, err = s.client.Get(context.Background(), "Nope", "rec1")
	s.Equal(integrations.CategoryNotFound, integrations.GetCategory(err))
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Config{BaseID: "appBase"}, http.DefaultClient)
	require.ErrorIs(t, err, sentinel.ErrNotConfigured)
}

func TestQuoteEscapesFormulaLiterals(t *testing.T) {
	assert.Equal(t, `'o\'brien@example.org'`, quote("o'brien@example.org"))
	assert.Equal(t, `'a\\b'`, quote(`a\b`))
}
