package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Upstream,Mailer,RecordStore,EventPublisher,SubmissionLog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"ecohubs/internal/application/models"
	"ecohubs/internal/application/schema"
	"ecohubs/internal/application/schema/schematest"
	"ecohubs/internal/application/service/mocks"
	"ecohubs/internal/integrations"
	"ecohubs/internal/integrations/airtable"
	"ecohubs/internal/integrations/email"
	"ecohubs/internal/integrations/eventbus"
	"ecohubs/internal/pipeline"
	"ecohubs/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctx      context.Context
	now      time.Time
	schema   *schema.Schema
	upstream *mocks.MockUpstream
	mailer   *mocks.MockMailer
	records  *mocks.MockRecordStore
	events   *mocks.MockEventPublisher
	log      *mocks.MockSubmissionLog
	service  *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.now = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	s.ctx = requestcontext.WithRequestID(requestcontext.WithTime(context.Background(), s.now), "req-1")
	s.schema = schema.Default()
	s.upstream = mocks.NewMockUpstream(ctrl)
	s.mailer = mocks.NewMockMailer(ctrl)
	s.records = mocks.NewMockRecordStore(ctrl)
	s.events = mocks.NewMockEventPublisher(ctrl)
	s.log = mocks.NewMockSubmissionLog(ctrl)
	s.service = New(s.schema,
		WithUpstream(s.upstream),
		WithMailer(s.mailer),
		WithRecordStore(s.records),
		WithEvents(s.events),
		WithSubmissionLog(s.log),
		WithAdminEmail("board@ecohubs.community"),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func (s *ServiceSuite) form() url.Values {
	return schematest.ValidForm(s.schema, "Jane Doe", "Jane@Example.org")
}

// captureMail records every message sent, keyed by subject.
func (s *ServiceSuite) captureMail(err error) map[string]email.Message {
	var mu sync.Mutex
	sent := map[string]email.Message{}
	s.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Times(2).
		DoAndReturn(func(_ context.Context, msg email.Message) error {
			mu.Lock()
			defer mu.Unlock()
			sent[msg.Subject] = msg
			return err
		})
	return sent
}

func (s *ServiceSuite) TestSubmitFansOutToEverySink() {
	s.upstream.EXPECT().SubmitApplication(gomock.Any(), gomock.Any(), s.now).
		DoAndReturn(func(_ context.Context, answers map[string]any, _ time.Time) error {
			s.Equal("jane@example.org", answers["email"])
			return nil
		})
	sent := s.captureMail(nil)
	s.records.EXPECT().FindOrCreateMember(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m airtable.Member) (string, error) {
			s.Equal("Jane Doe", m.Name)
			s.Equal("jane@example.org", m.Email)
			return "recMember", nil
		})
	s.records.EXPECT().CreateApplication(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, app airtable.NewApplication) (string, error) {
			s.Equal("recMember", app.MemberID)
			s.Equal(s.now, app.SubmittedAt)
			s.NotEmpty(app.ApplicationID)
			s.Contains(app.Answers, "Discovery")
			s.Equal(7, app.Answers["Comfort Feedback"])
			s.NotContains(app.Answers, "fullName")
			return "recApp", nil
		})
	s.events.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string, ev eventbus.Event) error {
			s.Equal(eventbus.TypeApplicationSubmitted, ev.Type)
			s.Equal(key, ev.ID)
			s.Equal("req-1", ev.RequestID)
			return nil
		})
	s.log.EXPECT().Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec models.Record) error {
			s.Equal("Jane Doe", rec.FullName)
			s.Len(rec.Report, 6)
			return nil
		})

	res, err := s.service.Submit(s.ctx, s.form())
	s.Require().NoError(err)
	s.True(res.Success)
	s.NotEmpty(res.SubmissionID)

	for _, name := range []string{SinkUpstream, SinkAdminEmail, SinkConfirmationEmail, SinkAirtable, SinkEventBus} {
		entry, ok := res.Sinks.Get(name)
		s.Require().True(ok, name)
		s.Equal(pipeline.StatusOK, entry.Status, name)
	}
	proposal, _ := res.Sinks.Get(SinkProposal)
	s.Equal(pipeline.StatusSkipped, proposal.Status)

	admin := sent["New Application: Jane Doe"]
	s.Equal([]string{"board@ecohubs.community"}, admin.To)
	s.Equal("jane@example.org", admin.ReplyTo)
	s.Contains(admin.Markdown, "## Page 1: Basic Information")
	s.Contains(admin.Markdown, "## Page 9: Consciousness & Meaning")

	confirm := sent["Application Received - EcoHubs Community"]
	s.Equal([]string{"jane@example.org"}, confirm.To)
	s.Contains(confirm.Markdown, "Hi Jane Doe")
}

func (s *ServiceSuite) TestSubmitRecordsBestEffortFailures() {
	s.upstream.EXPECT().SubmitApplication(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	s.captureMail(integrations.NewError(integrations.CategoryTimeout, "smtp", "dial timed out", nil))
	s.records.EXPECT().FindOrCreateMember(gomock.Any(), gomock.Any()).
		Return("", &integrations.Error{Category: integrations.CategoryRateLimited, Integration: "airtable", StatusCode: 429})
	s.events.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	s.log.EXPECT().Append(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	res, err := s.service.Submit(s.ctx, s.form())
	s.Require().NoError(err)
	s.True(res.Success)
	s.ElementsMatch([]string{SinkAdminEmail, SinkConfirmationEmail, SinkAirtable}, res.Sinks.Failed())

	entry, _ := res.Sinks.Get(SinkAirtable)
	s.Equal(integrations.CategoryRateLimited, entry.Category)
	entry, _ = res.Sinks.Get(SinkAdminEmail)
	s.Equal(integrations.CategoryTimeout, entry.Category)
}

func (s *ServiceSuite) TestSubmitValidationError() {
	form := s.form()
	form.Set("fullName", "J")
	form.Del("email")

	_, err := s.service.Submit(s.ctx, form)
	var verr *models.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Equal("Name must be at least 2 characters", verr.Fields["fullName"])
	s.Equal("Please enter a valid email address", verr.Fields["email"])
}

func (s *ServiceSuite) TestSubmitUpstreamRejections() {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "rate limited",
			err:     &integrations.Error{Category: integrations.CategoryRateLimited, StatusCode: 429, Message: "slow down"},
			status:  http.StatusTooManyRequests,
			message: models.MsgTooManyApplications,
		},
		{
			name:    "upstream message relayed",
			err:     &integrations.Error{Category: integrations.CategoryValidation, StatusCode: 422, Message: "Email already registered"},
			status:  http.StatusUnprocessableEntity,
			message: "Email already registered",
		},
		{
			name:    "no upstream message",
			err:     &integrations.Error{Category: integrations.CategoryUnavailable, StatusCode: 502, Message: http.StatusText(502)},
			status:  http.StatusBadGateway,
			message: models.MsgUpstreamFailed,
		},
		{
			name:    "transport failure",
			err:     integrations.TransportError("ecohubsos", errors.New("connection refused")),
			status:  http.StatusInternalServerError,
			message: models.MsgUpstreamUnreachable,
		},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.upstream.EXPECT().SubmitApplication(gomock.Any(), gomock.Any(), gomock.Any()).Return(tc.err)

			_, err := s.service.Submit(s.ctx, s.form())
			var rejected *models.RejectedError
			s.Require().ErrorAs(err, &rejected)
			s.Equal(tc.status, rejected.Status)
			s.Equal(tc.message, rejected.Message)
		})
	}
}

func (s *ServiceSuite) TestUnconfiguredSinksAreSkipped() {
	svc := New(s.schema, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	res, err := svc.Submit(s.ctx, s.form())
	s.Require().NoError(err)
	s.Empty(res.Sinks.Failed())
	for _, entry := range res.Sinks {
		s.Equal(pipeline.StatusSkipped, entry.Status, entry.Name)
	}
	entry, _ := res.Sinks.Get(SinkAirtable)
	s.Equal("not configured", entry.Detail)

	recs, err := svc.Recent(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(recs)
}

func (s *ServiceSuite) TestRecentCapsLimit() {
	s.log.EXPECT().Recent(gomock.Any(), recentLimit).Return([]models.Record{{SubmissionID: "a"}}, nil)

	recs, err := s.service.Recent(s.ctx, 10_000)
	s.Require().NoError(err)
	s.Len(recs, 1)
}
