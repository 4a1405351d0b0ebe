package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	authModel "ecohubs/internal/auth/models"
	"ecohubs/internal/auth/wallet"
	dErrors "ecohubs/pkg/domain-errors"
	audit "ecohubs/pkg/platform/audit"
	"ecohubs/pkg/requestcontext"
)

// OwnerOracle decides whether an address may administer the site.
type OwnerOracle interface {
	IsAuthorized(ctx context.Context, address string) bool
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(subject authModel.Subject) (string, time.Time, error)
}

// Auditor records sign-in outcomes.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

// TokenRevoker puts a token id on the revocation list until ttl passes.
type TokenRevoker interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
}

// RecoverFunc recovers the signer of a personal_sign message.
type RecoverFunc func(message, signature string) (string, error)

// Service turns a wallet signature into an admin session.
type Service struct {
	oracle  OwnerOracle
	tokens  TokenIssuer
	recover RecoverFunc
	enabled bool
	revoker TokenRevoker
	auditor Auditor
	now     func() time.Time
	logger  *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRecover swaps signature recovery, for tests.
func WithRecover(fn RecoverFunc) Option {
	return func(s *Service) {
		s.recover = fn
	}
}

// WithEnabled records whether the Safe integration is configured; it only
// affects the challenge payload.
func WithEnabled(enabled bool) Option {
	return func(s *Service) {
		s.enabled = enabled
	}
}

// WithRevoker makes Logout revoke the session token server side.
func WithRevoker(r TokenRevoker) Option {
	return func(s *Service) {
		s.revoker = r
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithAuditor(a Auditor) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

func New(oracle OwnerOracle, tokens TokenIssuer, opts ...Option) (*Service, error) {
	if oracle == nil || tokens == nil {
		return nil, errors.New("auth service requires an owner oracle and token issuer")
	}
	s := &Service{
		oracle:  oracle,
		tokens:  tokens,
		recover: wallet.Recover,
		enabled: true,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Verify checks that the signature over message was produced by address and
// that address is a Safe owner, then issues a session token.
func (s *Service) Verify(ctx context.Context, req *authModel.VerifyRequest) (*authModel.VerifyResult, error) {
	requestID := requestcontext.RequestID(ctx)

	recovered, err := s.recover(req.Message, req.Signature)
	if err != nil {
		s.logger.InfoContext(ctx, "signature recovery failed", "request_id", requestID, "error", err)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Invalid signature format")
	}
	if !wallet.EqualAddress(recovered, req.Address) {
		s.logger.InfoContext(ctx, "signature does not match address", "request_id", requestID)
		s.audit(ctx, req.Address, audit.EventAdminSignInFailed, "invalid_signature")
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Invalid signature")
	}

	if !s.oracle.IsAuthorized(ctx, recovered) {
		s.logger.WarnContext(ctx, "sign-in by non-owner", "request_id", requestID, "address", recovered)
		s.audit(ctx, recovered, audit.EventAdminSignInFailed, "not_owner")
		return nil, dErrors.New(dErrors.CodeForbidden, "Not a Safe owner")
	}

	token, expiresAt, err := s.tokens.Issue(authModel.Subject{Address: recovered, IsOwner: true})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "issue session token")
	}

	s.logger.InfoContext(ctx, "admin signed in", "request_id", requestID, "address", recovered)
	s.audit(ctx, recovered, audit.EventAdminSignedIn, "")
	return &authModel.VerifyResult{
		Address:   recovered,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout revokes the session behind id for the rest of its lifetime. Without
// a revoker, or for an already expired token, it only records the sign-out.
func (s *Service) Logout(ctx context.Context, id *authModel.Identity) error {
	if id == nil {
		return nil
	}
	if ttl := id.ExpiresAt.Sub(s.now()); s.revoker != nil && id.SessionID != "" && ttl > 0 {
		if err := s.revoker.RevokeToken(ctx, id.SessionID, ttl); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "revoke session")
		}
	}
	s.logger.InfoContext(ctx, "admin signed out",
		"request_id", requestcontext.RequestID(ctx),
		"address", id.Address,
	)
	s.audit(ctx, id.Address, audit.EventAdminSignedOut, "")
	return nil
}

// Challenge returns a message for the wallet to sign. Nonces are not tracked
// server side; any message signed by an owner is accepted.
func (s *Service) Challenge(ctx context.Context) authModel.Challenge {
	now := requestcontext.Now(ctx).UTC()
	nonce := ulid.Make().String()
	return authModel.Challenge{
		Message:  fmt.Sprintf("Sign in to EcoHubs admin\n\nNonce: %s\nIssued at: %s", nonce, now.Format(time.RFC3339)),
		Nonce:    nonce,
		IssuedAt: now,
		Enabled:  s.enabled,
	}
}

func (s *Service) audit(ctx context.Context, address string, action audit.AuditEvent, reason string) {
	if s.auditor == nil {
		return
	}
	decision := "granted"
	if reason != "" {
		decision = "denied"
	}
	err := s.auditor.Emit(ctx, audit.Event{
		Subject:  address,
		Action:   string(action),
		Decision: decision,
		Reason:   reason,
		ActorID:  address,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to record sign-in audit event", "error", err)
	}
}
