package newsletter

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	dErrors "ecohubs/pkg/domain-errors"
	"ecohubs/pkg/platform/httputil"
	"ecohubs/pkg/requestcontext"
)

// Subscriptions is the operation the handler needs.
type Subscriptions interface {
	Subscribe(ctx context.Context, req Request) (string, error)
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Handler struct {
	service Subscriptions
	limit   func(http.Handler) http.Handler
	logger  *slog.Logger
}

func NewHandler(service Subscriptions, limit func(http.Handler) http.Handler, logger *slog.Logger) *Handler {
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{service: service, limit: limit, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.With(h.limit).Post("/api/newsletter", h.HandleSubscribe)
}

// HandleSubscribe handles POST /api/newsletter.
func (h *Handler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeJSON[Request](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	msg, err := h.service.Subscribe(ctx, *req)
	if err != nil {
		code := dErrors.CodeInternal
		text := MsgFailed
		if de, ok := dErrors.As(err); ok {
			code, text = de.Code, de.Message
		}
		httputil.WriteJSON(w, httputil.StatusFor(code), Response{Success: false, Message: text})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, Response{Success: true, Message: msg})
}
