// Package middleware attaches the admin session to requests and enforces the
// admin routing policy.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	authModel "ecohubs/internal/auth/models"
	"ecohubs/pkg/platform/httputil"
	"ecohubs/pkg/requestcontext"
)

// CookieName carries the session token.
const CookieName = "auth_token"

type identityKey struct{}

// ContextKeyIdentity is exported for tests that build contexts directly.
var ContextKeyIdentity = identityKey{}

// WithIdentity stores the verified identity in ctx.
func WithIdentity(ctx context.Context, id *authModel.Identity) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, id)
}

// GetIdentity returns the identity attached by Session, or nil.
func GetIdentity(ctx context.Context) *authModel.Identity {
	id, _ := ctx.Value(ContextKeyIdentity).(*authModel.Identity)
	return id
}

// SessionVerifier validates a session token.
type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (*authModel.Identity, error)
}

// Cookies writes and clears the session cookie.
type Cookies struct {
	Secure bool
	MaxAge time.Duration
}

func (c Cookies) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Session verifies the session cookie when present and attaches the
// identity. An invalid or expired cookie is cleared and the request continues
// anonymously.
func Session(verifier SessionVerifier, cookies Cookies, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			id, err := verifier.VerifySession(ctx, cookie.Value)
			if err != nil {
				logger.DebugContext(ctx, "session rejected",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				cookies.Clear(w)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, id)))
		})
	}
}

// Paths configures the admin routing policy.
type Paths struct {
	ProtectedPrefix    string
	ProtectedAPIPrefix string
	LoginPath          string
	HomePath           string
}

// DefaultPaths is the site's admin layout.
var DefaultPaths = Paths{
	ProtectedPrefix:    "/admin",
	ProtectedAPIPrefix: "/api/admin",
	LoginPath:          "/auth/login",
	HomePath:           "/admin",
}

// Gate redirects anonymous visitors away from the admin area, rejects
// anonymous admin API calls, and sends signed-in admins past the login page.
// It must run after Session.
func Gate(paths Paths) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identified := GetIdentity(r.Context()) != nil
			path := r.URL.Path

			switch {
			case hasPathPrefix(path, paths.ProtectedAPIPrefix) && !identified:
				httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
					Error:            "unauthorized",
					ErrorDescription: "Authentication required",
				})
				return
			case hasPathPrefix(path, paths.ProtectedPrefix) && !identified:
				http.Redirect(w, r, paths.LoginPath, http.StatusSeeOther)
				return
			case path == paths.LoginPath && identified:
				http.Redirect(w, r, paths.HomePath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// hasPathPrefix matches whole segments, so "/administrator" is not under "/admin".
func hasPathPrefix(path, prefix string) bool {
	if prefix == "" {
		return false
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
