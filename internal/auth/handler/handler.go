package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "ecohubs/internal/auth/middleware"
	authModel "ecohubs/internal/auth/models"
	"ecohubs/pkg/platform/httputil"
	"ecohubs/pkg/requestcontext"
)

// Service defines the sign-in operations.
type Service interface {
	Verify(ctx context.Context, req *authModel.VerifyRequest) (*authModel.VerifyResult, error)
	Challenge(ctx context.Context) authModel.Challenge
	Logout(ctx context.Context, id *authModel.Identity) error
}

// Handler serves wallet sign-in and logout.
type Handler struct {
	service Service
	cookies authmw.Cookies
	limit   func(http.Handler) http.Handler
	logger  *slog.Logger
}

// New constructs the handler. limit guards /auth/verify; nil disables it.
func New(service Service, cookies authmw.Cookies, limit func(http.Handler) http.Handler, logger *slog.Logger) *Handler {
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{
		service: service,
		cookies: cookies,
		limit:   limit,
		logger:  logger,
	}
}

// Register mounts the auth endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/auth/login", h.HandleChallenge)
	r.With(h.limit).Post("/auth/verify", h.HandleVerify)
	r.Post("/auth/logout", h.HandleLogout)
}

// HandleChallenge handles GET /auth/login.
func (h *Handler) HandleChallenge(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.Challenge(r.Context()))
}

// HandleVerify handles POST /auth/verify.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[authModel.VerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.Verify(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "wallet sign-in rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.cookies.Set(w, res.Token)
	httputil.WriteJSON(w, http.StatusOK, authModel.VerifyResponse{Success: true, Address: res.Address})
}

// HandleLogout handles POST /auth/logout. It is idempotent. The cookie is
// cleared even when the session could not be revoked.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.Logout(ctx, authmw.GetIdentity(ctx)); err != nil {
		h.logger.WarnContext(ctx, "session revocation failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	h.cookies.Clear(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
