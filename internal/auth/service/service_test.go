package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks OwnerOracle,TokenIssuer

import (
	"context"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	authModel "ecohubs/internal/auth/models"
	"ecohubs/internal/auth/service/mocks"
	"ecohubs/internal/auth/store/revocation"
	"ecohubs/internal/auth/wallet"
	dErrors "ecohubs/pkg/domain-errors"
	audit "ecohubs/pkg/platform/audit"
	"ecohubs/pkg/requestcontext"
)

const ownerAddress = "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	key     *secp256k1.PrivateKey
	oracle  *mocks.MockOwnerOracle
	tokens  *mocks.MockTokenIssuer
	auditor *recordingAuditor
	service *Service
}

type recordingAuditor struct {
	events []audit.Event
}

func (r *recordingAuditor) Emit(_ context.Context, event audit.Event) error {
	r.events = append(r.events, event)
	return nil
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.ctx = context.Background()
	raw, _ := hex.DecodeString("ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
	s.key = secp256k1.PrivKeyFromBytes(raw)
	s.oracle = mocks.NewMockOwnerOracle(ctrl)
	s.tokens = mocks.NewMockTokenIssuer(ctrl)
	s.auditor = &recordingAuditor{}
	svc, err := New(s.oracle, s.tokens,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditor(s.auditor),
	)
	s.Require().NoError(err)
	s.service = svc
}

func (s *ServiceSuite) signedRequest(address string) *authModel.VerifyRequest {
	msg := "Sign in to EcoHubs admin"
	return &authModel.VerifyRequest{
		Address:   address,
		Signature: wallet.SignMessage(s.key, msg),
		Message:   msg,
	}
}

func (s *ServiceSuite) TestVerifyOwner() {
	expires := time.Now().Add(time.Hour)
	s.oracle.EXPECT().IsAuthorized(gomock.Any(), ownerAddress).Return(true)
	s.tokens.EXPECT().Issue(authModel.Subject{Address: ownerAddress, IsOwner: true}).Return("tok", expires, nil)

	res, err := s.service.Verify(s.ctx, s.signedRequest(strings.ToUpper(ownerAddress[2:])))
	s.Require().NoError(err)
	s.Equal(ownerAddress, res.Address)
	s.Equal("tok", res.Token)
	s.Equal(expires, res.ExpiresAt)

	s.Require().Len(s.auditor.events, 1)
	s.Equal(string(audit.EventAdminSignedIn), s.auditor.events[0].Action)
	s.Equal(ownerAddress, s.auditor.events[0].Subject)
	s.Equal("granted", s.auditor.events[0].Decision)
}

func (s *ServiceSuite) TestVerifyNonOwnerForbidden() {
	s.oracle.EXPECT().IsAuthorized(gomock.Any(), ownerAddress).Return(false)

	_, err := s.service.Verify(s.ctx, s.signedRequest(ownerAddress))
	s.ErrorIs(err, dErrors.New(dErrors.CodeForbidden, "Not a Safe owner"))

	s.Require().Len(s.auditor.events, 1)
	s.Equal(string(audit.EventAdminSignInFailed), s.auditor.events[0].Action)
	s.Equal("not_owner", s.auditor.events[0].Reason)
	s.Equal("denied", s.auditor.events[0].Decision)
}

func (s *ServiceSuite) TestVerifyAddressMismatch() {
	_, err := s.service.Verify(s.ctx, s.signedRequest("0x0000000000000000000000000000000000000001"))
	s.ErrorIs(err, dErrors.New(dErrors.CodeUnauthorized, "Invalid signature"))

	s.Require().Len(s.auditor.events, 1)
	s.Equal("invalid_signature", s.auditor.events[0].Reason)
}

func (s *ServiceSuite) TestVerifyMalformedSignature() {
	req := s.signedRequest(ownerAddress)
	req.Signature = "0x1234"
	_, err := s.service.Verify(s.ctx, req)
	s.ErrorIs(err, dErrors.New(dErrors.CodeUnauthorized, "Invalid signature format"))
	s.Empty(s.auditor.events)
}

func (s *ServiceSuite) TestVerifyIssueFailure() {
	s.oracle.EXPECT().IsAuthorized(gomock.Any(), ownerAddress).Return(true)
	s.tokens.EXPECT().Issue(gomock.Any()).Return("", time.Time{}, errors.New("boom"))

	_, err := s.service.Verify(s.ctx, s.signedRequest(ownerAddress))
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestLogoutRevokesSession() {
	now := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	trl := revocation.NewInMemoryTRL(revocation.WithClock(func() time.Time { return now }))
	svc, err := New(s.oracle, s.tokens,
		WithRevoker(trl),
		WithAuditor(s.auditor),
		WithClock(func() time.Time { return now }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	s.Require().NoError(err)

	id := &authModel.Identity{Address: ownerAddress, SessionID: "jti-1", ExpiresAt: now.Add(time.Hour)}
	s.Require().NoError(svc.Logout(s.ctx, id))

	revoked, err := trl.IsRevoked(s.ctx, "jti-1")
	s.Require().NoError(err)
	s.True(revoked)
	s.Require().Len(s.auditor.events, 1)
	s.Equal(string(audit.EventAdminSignedOut), s.auditor.events[0].Action)
}

func (s *ServiceSuite) TestLogoutSkipsExpiredSession() {
	now := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	trl := revocation.NewInMemoryTRL(revocation.WithClock(func() time.Time { return now }))
	svc, err := New(s.oracle, s.tokens, WithRevoker(trl), WithClock(func() time.Time { return now }))
	s.Require().NoError(err)

	id := &authModel.Identity{Address: ownerAddress, SessionID: "jti-1", ExpiresAt: now.Add(-time.Minute)}
	s.Require().NoError(svc.Logout(s.ctx, id))

	revoked, err := trl.IsRevoked(s.ctx, "jti-1")
	s.Require().NoError(err)
	s.False(revoked)
}

func (s *ServiceSuite) TestLogoutAnonymous() {
	s.NoError(s.service.Logout(s.ctx, nil))
	s.Empty(s.auditor.events)
}

func (s *ServiceSuite) TestChallenge() {
	now := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	ch := s.service.Challenge(requestcontext.WithTime(s.ctx, now))

	s.True(ch.Enabled)
	s.Equal(now, ch.IssuedAt)
	s.Len(ch.Nonce, 26)
	s.Contains(ch.Message, ch.Nonce)
	s.Contains(ch.Message, "2026-04-02T10:00:00Z")

	other := s.service.Challenge(s.ctx)
	s.NotEqual(ch.Nonce, other.Nonce)
}

func (s *ServiceSuite) TestNewRequiresDependencies() {
	_, err := New(nil, s.tokens)
	s.Error(err)
}
