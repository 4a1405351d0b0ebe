package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"ecohubs/internal/application/models"
	"ecohubs/internal/application/schema"
	"ecohubs/internal/integrations/turnstile"
	"ecohubs/pkg/platform/httputil"
	metadata "ecohubs/pkg/platform/middleware/metadata"
	"ecohubs/pkg/requestcontext"
)

// maxFormBytes bounds the application form body.
const maxFormBytes = 1 << 20

// Service defines the application operations.
type Service interface {
	Submit(ctx context.Context, form url.Values) (*models.SubmitResult, error)
	Schema() *schema.Schema
}

// BotChecker verifies the Turnstile token posted with the form.
type BotChecker interface {
	Enabled() bool
	Verify(ctx context.Context, token, remoteIP string) (turnstile.Result, error)
}

// Handler serves the membership application form.
type Handler struct {
	service Service
	bots    BotChecker
	limit   func(http.Handler) http.Handler
	logger  *slog.Logger
}

// New constructs the handler. bots may be nil to skip the bot check; limit
// guards POST /join and may be nil.
func New(service Service, bots BotChecker, limit func(http.Handler) http.Handler, logger *slog.Logger) *Handler {
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{
		service: service,
		bots:    bots,
		limit:   limit,
		logger:  logger,
	}
}

// Register mounts the application endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/join/questions", h.HandleQuestions)
	r.With(h.limit).Post("/join", h.HandleSubmit)
}

// HandleQuestions handles GET /join/questions.
func (h *Handler) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	sc := h.service.Schema()
	httputil.WriteJSON(w, http.StatusOK, models.QuestionsResponse{
		Pages:  sc.Pages(),
		Fields: sc.Fields,
	})
}

// HandleSubmit handles POST /join.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseMultipartForm(maxFormBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.logger.WarnContext(ctx, "failed to parse application form",
			"request_id", requestID,
			"error", err,
		)
		writeFailure(w, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	// Field errors are reported before the challenge so an incomplete form
	// is not answered with a verification error. Submit validates again.
	if h.botCheckActive() {
		if _, fieldErrs := h.service.Schema().Validate(r.PostForm); len(fieldErrs) > 0 {
			h.writeSubmitError(ctx, w, &models.ValidationError{Fields: fieldErrs})
			return
		}
		if !h.checkBot(w, r) {
			return
		}
	}

	res, err := h.service.Submit(ctx, r.PostForm)
	if err != nil {
		h.writeSubmitError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) botCheckActive() bool {
	return h.bots != nil && h.bots.Enabled()
}

func (h *Handler) checkBot(w http.ResponseWriter, r *http.Request) bool {
	ctx := r.Context()
	token := r.PostForm.Get(turnstile.FormField)
	if token == "" {
		writeFailure(w, http.StatusBadRequest, models.MsgChallengeRequired)
		return false
	}

	ip := metadata.GetClientIP(ctx)
	if ip == "" {
		ip = metadata.ClientIPFromRequest(r, nil)
	}
	res, err := h.bots.Verify(ctx, token, ip)
	if err != nil || !res.Success {
		h.logger.WarnContext(ctx, "bot check failed",
			"request_id", requestcontext.RequestID(ctx),
			"error_codes", res.ErrorCodes,
			"error", err,
		)
		writeFailure(w, http.StatusBadRequest, models.MsgChallengeFailed)
		return false
	}
	return true
}

func (h *Handler) writeSubmitError(ctx context.Context, w http.ResponseWriter, err error) {
	requestID := requestcontext.RequestID(ctx)

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		h.logger.InfoContext(ctx, "application failed validation",
			"request_id", requestID,
			"fields", len(verr.Fields),
		)
		httputil.WriteJSON(w, http.StatusBadRequest, models.ValidationResponse{Success: false, Errors: verr.Fields})
		return
	}

	var rejected *models.RejectedError
	if errors.As(err, &rejected) {
		h.logger.WarnContext(ctx, "application rejected",
			"request_id", requestID,
			"status", rejected.Status,
			"error", err,
		)
		writeFailure(w, rejected.Status, rejected.Message)
		return
	}

	h.logger.ErrorContext(ctx, "failed to submit application",
		"request_id", requestID,
		"error", err,
	)
	writeFailure(w, http.StatusInternalServerError, models.MsgUpstreamUnreachable)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	httputil.WriteJSON(w, status, models.FailureResponse{Success: false, Error: message})
}
