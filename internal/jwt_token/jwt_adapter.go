package jwttoken

import (
	"context"
	"log/slog"

	authModel "ecohubs/internal/auth/models"
	dErrors "ecohubs/pkg/domain-errors"
)

func ToIdentity(claims *Claims) *authModel.Identity {
	id := &authModel.Identity{
		Address:   claims.Address,
		IsOwner:   claims.IsOwner,
		SessionID: claims.ID,
	}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id
}

// RevocationList reports whether a token id was signed out early.
type RevocationList interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// JWTServiceAdapter exposes the service in the shape the session middleware
// consumes.
type JWTServiceAdapter struct {
	service     *JWTService
	revocations RevocationList
	logger      *slog.Logger
}

type AdapterOption func(*JWTServiceAdapter)

// WithRevocations rejects tokens found on list.
func WithRevocations(list RevocationList, logger *slog.Logger) AdapterOption {
	return func(a *JWTServiceAdapter) {
		a.revocations = list
		if logger != nil {
			a.logger = logger
		}
	}
}

func NewJWTServiceAdapter(service *JWTService, opts ...AdapterOption) *JWTServiceAdapter {
	a := &JWTServiceAdapter{service: service, logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// VerifySession validates the token and checks it was not revoked. A failed
// revocation lookup rejects the token.
func (a *JWTServiceAdapter) VerifySession(ctx context.Context, tokenString string) (*authModel.Identity, error) {
	claims, err := a.service.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if a.revocations != nil {
		revoked, err := a.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			a.logger.WarnContext(ctx, "token revocation check failed", "error", err)
			return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "session could not be verified")
		}
		if revoked {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has been revoked")
		}
	}
	return ToIdentity(claims), nil
}
