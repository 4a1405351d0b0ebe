package newsletter

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Subscriber,Webhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"ecohubs/internal/integrations"
	"ecohubs/internal/integrations/listmonk"
	"ecohubs/internal/integrations/zapier"
	"ecohubs/internal/newsletter/mocks"
	dErrors "ecohubs/pkg/domain-errors"
	"ecohubs/pkg/requestcontext"
	"ecohubs/pkg/testutil"
)

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	list    *mocks.MockSubscriber
	webhook *mocks.MockWebhook
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2026, 6, 2, 8, 0, 0, 0, time.UTC))
	s.list = mocks.NewMockSubscriber(ctrl)
	s.webhook = mocks.NewMockWebhook(ctrl)
	s.service = New(
		WithList(s.list, listmonk.Rejected),
		WithWebhook(s.webhook),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func (s *ServiceSuite) TestSubscribeViaList() {
	s.list.EXPECT().Subscribe(gomock.Any(), "ada@example.org").Return(nil)

	msg, err := s.service.Subscribe(s.ctx, Request{Email: " Ada@Example.org"})
	s.Require().NoError(err)
	s.Equal(MsgSubscribed, msg)
}

func (s *ServiceSuite) TestListRefusalIsAnError() {
	s.list.EXPECT().Subscribe(gomock.Any(), gomock.Any()).
		Return(&integrations.Error{Category: integrations.CategoryValidation, StatusCode: 409, Message: "E-mail already exists"})

	_, err := s.service.Subscribe(s.ctx, Request{Email: "ada@example.org"})
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestUnreachableListFallsBackToWebhook() {
	s.list.EXPECT().Subscribe(gomock.Any(), gomock.Any()).
		Return(integrations.TransportError("listmonk", errors.New("connection refused")))
	s.webhook.EXPECT().Post(gomock.Any(), zapier.NewsletterPayload{
		Email:     "ada@example.org",
		Timestamp: "2026-06-02T08:00:00Z",
		Source:    "website",
	}).Return(nil)

	msg, err := s.service.Subscribe(s.ctx, Request{Email: "ada@example.org"})
	s.Require().NoError(err)
	s.Equal(MsgSubscribed, msg)
}

func (s *ServiceSuite) TestEverythingDownStillSucceeds() {
	s.list.EXPECT().Subscribe(gomock.Any(), gomock.Any()).
		Return(integrations.TransportError("listmonk", errors.New("connection refused")))
	s.webhook.EXPECT().Post(gomock.Any(), gomock.Any()).Return(errors.New("hook down"))

	msg, err := s.service.Subscribe(s.ctx, Request{Email: "ada@example.org"})
	s.Require().NoError(err)
	s.Equal(MsgSubscribed, msg)
}

func (s *ServiceSuite) TestNothingConfigured() {
	svc := New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	msg, err := svc.Subscribe(s.ctx, Request{Email: "ada@example.org"})
	s.Require().NoError(err)
	s.Equal(MsgSubscribed, msg)
}

func (s *ServiceSuite) TestInvalidEmail() {
	_, err := s.service.Subscribe(s.ctx, Request{Email: "not-an-address"})
	s.ErrorIs(err, dErrors.New(dErrors.CodeValidation, "Please provide a valid email address."))
}

func (s *ServiceSuite) TestHandler() {
	r := chi.NewRouter()
	NewHandler(s.service, nil, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)

	rr := testutil.DoRequest(r, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/newsletter", map[string]string{"email": "bad"}))
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	assert.JSONEq(s.T(), `{"success":false,"message":"Please provide a valid email address."}`, rr.Body.String())

	s.list.EXPECT().Subscribe(gomock.Any(), "ada@example.org").Return(nil)
	rr = testutil.DoRequest(r, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/newsletter", map[string]string{"email": "ada@example.org"}))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	assert.JSONEq(s.T(), `{"success":true,"message":"Successfully subscribed! Please check your email to confirm."}`, rr.Body.String())
}
