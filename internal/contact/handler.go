package contact

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	dErrors "ecohubs/pkg/domain-errors"
	"ecohubs/pkg/platform/httputil"
	"ecohubs/pkg/requestcontext"
)

// Sender is the contact operation the handler needs.
type Sender interface {
	Send(ctx context.Context, req Request) (string, error)
}

// Response is the body of every contact answer.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Handler struct {
	service Sender
	limit   func(http.Handler) http.Handler
	logger  *slog.Logger
}

func NewHandler(service Sender, limit func(http.Handler) http.Handler, logger *slog.Logger) *Handler {
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{service: service, limit: limit, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.With(h.limit).Post("/api/contact", h.HandleContact)
}

// HandleContact handles POST /api/contact.
func (h *Handler) HandleContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeJSON[Request](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	msg, err := h.service.Send(ctx, *req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, Response{Success: true, Message: msg})
}

// writeFailure answers with the domain error message, which is always
// written for the sender.
func writeFailure(w http.ResponseWriter, err error) {
	code := dErrors.CodeInternal
	msg := "An error occurred. Please try again later."
	if de, ok := dErrors.As(err); ok {
		code = de.Code
		msg = de.Message
	}
	httputil.WriteJSON(w, httputil.StatusFor(code), Response{Success: false, Message: msg})
}
